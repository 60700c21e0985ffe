// Package app wires application services to infrastructure adapters.
package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shraddha-r0/financial-rag-graph/assets"
	"github.com/shraddha-r0/financial-rag-graph/internal/answer"
	"github.com/shraddha-r0/financial-rag-graph/internal/category"
	"github.com/shraddha-r0/financial-rag-graph/internal/chart"
	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/executor"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/audit"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/cache"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/config"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/embed"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/render"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/security"
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/store"
	"github.com/shraddha-r0/financial-rag-graph/internal/intent"
	"github.com/shraddha-r0/financial-rag-graph/internal/pkg/logger"
	"github.com/shraddha-r0/financial-rag-graph/internal/planner"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
	"github.com/shraddha-r0/financial-rag-graph/internal/services"
)

// Options tunes container construction from CLI flags.
type Options struct {
	ConfigPath string
	LogLevel   string
	Debug      bool
	NoChart    bool
	Timeout    time.Duration
}

// Container holds the wired dependency graph for one process.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	Logger         *logger.ZapLogger
	Store          ports.Store
	Resolver       ports.CategoryResolver
	Executor       *executor.Executor
	Pipeline       *services.PipelineService
	Doctor         *services.DoctorService
	Audit          ports.AuditLogger
}

// BuildContainer constructs the dependency graph. Embedding backend failures
// degrade to exact-match resolution instead of failing startup; a broken
// config or database path is fatal.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	level := cfg.Logs.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.Debug {
		level = "debug"
	}
	log := logger.New(level)

	ensureRulesFile(cfg.Security.RulesFile)
	policy, err := security.NewPolicy(cfg.Security.RulesFile)
	if err != nil {
		return nil, err
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	plan, err := planner.NewPlanner(cfg.Database.Table)
	if err != nil {
		return nil, err
	}

	var embedder ports.Embedder
	if backend, err := embed.NewEmbedder(ctx, cfg.Resolver); err != nil {
		log.Warn("embedding backend unavailable, exact category matching only", map[string]interface{}{
			"provider": cfg.Resolver.Provider,
			"error":    err.Error(),
		})
	} else {
		embedder = embed.WithCache(backend, cache.NewVectorCache(""))
	}

	resolver, err := category.New(ctx, category.Options{
		Embedder:     embedder,
		Logger:       log,
		Threshold:    cfg.Resolver.Threshold,
		SynonymsFile: cfg.Resolver.SynonymsFile,
		Defaults:     defaultSynonyms(log),
	})
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Duration(cfg.Database.TimeoutSeconds) * time.Second
	}
	exec := executor.New(sqlStore, policy, log, timeout)

	auditStore := audit.NewJSONLStore(cfg.Logs.AuditDir, log)

	pipeline := &services.PipelineService{
		Parser:        intent.New(nil),
		Resolver:      resolver,
		Planner:       plan,
		Runner:        exec,
		Selector:      chart.NewSelector(cfg.Charts.Width, cfg.Charts.Height),
		Renderer:      render.NewPNGRenderer(cfg.Charts.OutputDir),
		Answerer:      answer.NewSynthesizer(cfg.Currency),
		Audit:         auditStore,
		Logger:        log,
		ChartsEnabled: cfg.Charts.Enabled && !opts.NoChart,
	}

	doctor := &services.DoctorService{
		ConfigProvider: cfgLoader,
		Store:          sqlStore,
		Embedder:       embedder,
		Resolver:       resolver,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		Logger:         log,
		Store:          sqlStore,
		Resolver:       resolver,
		Executor:       exec,
		Pipeline:       pipeline,
		Doctor:         doctor,
		Audit:          auditStore,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
}

// ensureRulesFile seeds the configured extra-rules file with the embedded
// example on first run. Best-effort: the built-in deny list applies either
// way.
func ensureRulesFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, assets.DefaultRulesYAML, 0o644)
}

// defaultSynonyms decodes the embedded seed table. The asset ships with the
// binary, so a decode failure is a build defect; it degrades to an empty
// table with a warning rather than failing startup.
func defaultSynonyms(log ports.Logger) map[string][]string {
	var table map[string][]string
	if err := yaml.Unmarshal(assets.DefaultSynonymsYAML, &table); err != nil {
		log.Warn("embedded synonyms unreadable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return table
}
