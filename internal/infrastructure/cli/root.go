// Package cli wires the cobra command surface.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shraddha-r0/financial-rag-graph/internal/app"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	debug      bool
	noChart    bool
	timeout    time.Duration
}

// NewRootCmd wires the cobra root command. Bare positional arguments run as
// a query, matching `finq "how much did I spend last month"`.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "finq [question]",
		Short: "finq - ask questions about your expenses",
		Long:  "finq answers natural-language questions about personal expenses by compiling them into safe, parameterized SQL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runQuery(cmd.Context(), cmd, flags, strings.Join(args, " "))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default ~/.finq/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging and diagnostics")
	root.PersistentFlags().BoolVar(&flags.noChart, "no-chart", false, "Disable chart generation")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "SQL execution timeout (default from config)")

	root.AddCommand(newQueryCommand(flags))
	root.AddCommand(newReplCommand(flags))
	root.AddCommand(newTablesCommand(flags))
	root.AddCommand(newSchemaCommand(flags))
	root.AddCommand(newSynonymsCommand(flags))
	root.AddCommand(newAuditCommand(flags))
	root.AddCommand(newDoctorCommand(flags))
	return root
}

func buildContainer(ctx context.Context, flags *rootFlags) (*app.Container, error) {
	return app.BuildContainer(ctx, app.Options{
		ConfigPath: flags.configPath,
		LogLevel:   flags.logLevel,
		Debug:      flags.debug,
		NoChart:    flags.noChart,
		Timeout:    flags.timeout,
	})
}

// runQuery renders the answer for one question. Query-level failures are
// rendered into the answer and do not become process failures.
func runQuery(ctx context.Context, cmd *cobra.Command, flags *rootFlags, question string) error {
	container, err := buildContainer(ctx, flags)
	if err != nil {
		return err
	}
	defer container.Close()

	state, err := container.Pipeline.Run(ctx, question)
	if err != nil {
		return err
	}
	renderAnswer(cmd.OutOrStdout(), state, flags.debug)
	return nil
}

func newQueryCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query [question]",
		Short: "Answer one natural-language question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), cmd, flags, strings.Join(args, " "))
		},
	}
}

func newReplCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive question loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Ask about your expenses (exit or quit to leave).")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					return nil
				}
				state, err := container.Pipeline.Run(cmd.Context(), question)
				if err != nil {
					return err
				}
				renderAnswer(out, state, flags.debug)
			}
		},
	}
}

func newTablesCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the expense database",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			tables, err := container.Executor.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, table := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), table)
			}
			return nil
		},
	}
}

func newSchemaCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [table]",
		Short: "Describe a table's columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			table := container.Config.Database.Table
			if len(args) > 0 {
				table = args[0]
			}
			columns, err := container.Executor.Schema(cmd.Context(), table)
			if err != nil {
				return err
			}
			renderSchema(cmd.OutOrStdout(), table, columns)
			return nil
		},
	}
}

func newSynonymsCommand(flags *rootFlags) *cobra.Command {
	synonymsCmd := &cobra.Command{
		Use:   "synonyms",
		Short: "List canonical categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			for _, category := range container.Resolver.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [canonical] [synonym]",
		Short: "Register a synonym for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Resolver.AddSynonym(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q as a synonym of %q\n", args[1], args[0])
			return nil
		},
	}

	synonymsCmd.AddCommand(addCmd)
	return synonymsCmd
}

func newAuditCommand(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent query audit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			records, err := container.Audit.Recent(limit)
			if err != nil {
				return err
			}
			renderAuditRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show")
	return cmd
}

func newDoctorCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer container.Close()

			report, err := container.Doctor.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

// Execute runs the root command. Unrecoverable startup errors exit non-zero;
// rendered query failures do not.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
