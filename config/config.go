package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the dictionary tool.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Search     SearchConfig     `yaml:"search"`
	Cache      CacheConfig      `yaml:"cache"`
	Sources    SourcesConfig    `yaml:"sources"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DictionaryConfig holds import configuration.
type DictionaryConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// SearchConfig holds search and ranking configuration.
type SearchConfig struct {
	Limit          int     `yaml:"limit"`
	MinScore       float64 `yaml:"min_score"`       // Noise floor for fuzzy candidates
	LocalThreshold float64 `yaml:"local_threshold"` // Local confidence that skips fan-out
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

// SourcesConfig holds the external translation sources.
type SourcesConfig struct {
	Online       OnlineSourceConfig `yaml:"online"`
	Web          WebSourceConfig    `yaml:"web"`
	AI           AISourceConfig     `yaml:"ai"`
	TrustWeights map[string]float64 `yaml:"trust_weights"`
}

// OnlineSourceConfig holds the backend translation collaborator settings.
type OnlineSourceConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WebSourceConfig holds the web-scraping source settings. SearchURL is a
// template containing %s for the escaped query.
type WebSourceConfig struct {
	SearchURL      string `yaml:"search_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AISourceConfig holds the AI fallback settings.
type AISourceConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Includes: []string{"**/*.json", "**/*.csv"},
			Excludes: []string{"**/node_modules/**", "**/.git/**"},
		},
		Search: SearchConfig{
			Limit:          10,
			MinScore:       0.05,
			LocalThreshold: 0.85,
		},
		Cache: CacheConfig{
			TTLHours: 24,
		},
		Sources: SourcesConfig{
			Online: OnlineSourceConfig{
				TimeoutSeconds: 8,
			},
			Web: WebSourceConfig{
				TimeoutSeconds: 10,
			},
			AI: AISourceConfig{
				APIKeyEnv:      "OPENAI_API_KEY",
				Model:          "gpt-4o-mini",
				TimeoutSeconds: 15,
			},
			TrustWeights: map[string]float64{
				"local":  1.0,
				"online": 0.9,
				"web":    0.75,
				"ai":     0.7,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for usem.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "usem.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".usem", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DBPath returns the path to the dictionary database.
func DBPath(dir string) string {
	return filepath.Join(dir, ".usem", "usem.db")
}

// EnsureDir ensures the .usem directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".usem"), 0755)
}
