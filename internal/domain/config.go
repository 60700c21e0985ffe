package domain

// Config is the YAML configuration schema loaded from ~/.finq/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Currency            string           `yaml:"currency"`
	Database            DatabaseSettings `yaml:"database"`
	Resolver            ResolverSettings `yaml:"resolver"`
	Charts              ChartSettings    `yaml:"charts"`
	Logs                LogSettings      `yaml:"logs"`
	Security            SecuritySettings `yaml:"security"`
}

// DatabaseSettings locates the transaction store.
type DatabaseSettings struct {
	Path           string `yaml:"path"`
	Table          string `yaml:"table"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ResolverSettings configures the category resolver and its embedding backend.
type ResolverSettings struct {
	// Provider selects the embedding backend: "genai", "ollama" or "lexical".
	Provider       string  `yaml:"provider"`
	Threshold      float64 `yaml:"threshold"`
	SynonymsFile   string  `yaml:"synonyms_file"`
	APIKeyEnvVar   string  `yaml:"api_key_env_var"`
	GenAIModel     string  `yaml:"genai_model"`
	OllamaEndpoint string  `yaml:"ollama_endpoint"`
	OllamaModel    string  `yaml:"ollama_model"`
}

// ChartSettings configures chart generation.
type ChartSettings struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

// LogSettings configures structured logging and the audit trail.
type LogSettings struct {
	Level    string `yaml:"level"`
	AuditDir string `yaml:"audit_dir"`
}

// SecuritySettings points at an optional extra-rules file for the SQL safety
// policy. Extra rules can only add restrictions; the built-in deny-list always
// applies.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}
