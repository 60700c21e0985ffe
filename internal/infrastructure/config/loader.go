package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// FileLoader loads YAML configuration from ~/.finq/config.yaml (overridable
// via FINQ_CONFIG). A missing file is created with defaults on first load.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path means the default
// location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("FINQ_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir is the application home directory (~/.finq).
func ConfigDir() string {
	return filepath.Join(userHomeDir(), ".finq")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	home := ConfigDir()
	return domain.Config{
		ConfigFormatVersion: "1",
		Currency:            domain.DefaultCurrency,
		Database: domain.DatabaseSettings{
			Path:           filepath.Join(home, "expenses.db"),
			Table:          domain.DefaultTable,
			TimeoutSeconds: 30,
		},
		Resolver: domain.ResolverSettings{
			Provider:       "lexical",
			Threshold:      domain.DefaultSimilarityThreshold,
			SynonymsFile:   filepath.Join(home, "synonyms.yaml"),
			APIKeyEnvVar:   "GEMINI_API_KEY",
			GenAIModel:     "text-embedding-004",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "nomic-embed-text",
		},
		Charts: domain.ChartSettings{
			Enabled:   true,
			OutputDir: filepath.Join(home, "charts"),
			Width:     800,
			Height:    500,
		},
		Logs: domain.LogSettings{
			Level:    "info",
			AuditDir: filepath.Join(home, "logs"),
		},
		Security: domain.SecuritySettings{
			RulesFile: filepath.Join(home, "rules.yaml"),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	defaults := defaultConfig()
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaults.Database.Path
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = defaults.Database.Table
	}
	if cfg.Database.TimeoutSeconds == 0 {
		cfg.Database.TimeoutSeconds = defaults.Database.TimeoutSeconds
	}
	if cfg.Resolver.Provider == "" {
		cfg.Resolver.Provider = defaults.Resolver.Provider
	}
	if cfg.Resolver.Threshold == 0 {
		cfg.Resolver.Threshold = defaults.Resolver.Threshold
	}
	if cfg.Resolver.SynonymsFile == "" {
		cfg.Resolver.SynonymsFile = defaults.Resolver.SynonymsFile
	}
	if cfg.Resolver.GenAIModel == "" {
		cfg.Resolver.GenAIModel = defaults.Resolver.GenAIModel
	}
	if cfg.Resolver.OllamaEndpoint == "" {
		cfg.Resolver.OllamaEndpoint = defaults.Resolver.OllamaEndpoint
	}
	if cfg.Resolver.OllamaModel == "" {
		cfg.Resolver.OllamaModel = defaults.Resolver.OllamaModel
	}
	if cfg.Charts.OutputDir == "" {
		cfg.Charts.OutputDir = defaults.Charts.OutputDir
	}
	if cfg.Charts.Width == 0 {
		cfg.Charts.Width = defaults.Charts.Width
	}
	if cfg.Charts.Height == 0 {
		cfg.Charts.Height = defaults.Charts.Height
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = defaults.Logs.Level
	}
	if cfg.Logs.AuditDir == "" {
		cfg.Logs.AuditDir = defaults.Logs.AuditDir
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
