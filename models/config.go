// Package models defines shared data types and runtime configuration.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings. It is built once at startup from an
// optional config file, environment variables and CLI flags, then passed
// into each component's constructor.
type Config struct {
	APIKey  string `yaml:"api_key"`
	APIBase string `yaml:"api_base"`
	Model   string `yaml:"model"`

	// MaxTokens caps the completion length of a single API call.
	MaxTokens int `yaml:"max_tokens"`
	// ChunkSize is the token budget per content chunk.
	ChunkSize int `yaml:"chunk_size"`

	DataDir string `yaml:"data_dir"`
	// PageMaxAge controls how long fetched raw HTML stays usable in the
	// page cache before a refetch.
	PageMaxAge time.Duration `yaml:"page_max_age"`

	WorkerCount int `yaml:"workers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBase:     "https://api.deepseek.com/v1",
		Model:       "deepseek-chat",
		MaxTokens:   8192,
		ChunkSize:   6000,
		DataDir:     "data/summaries",
		PageMaxAge:  24 * time.Hour,
		WorkerCount: 4,
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file and
// environment variable overrides, in that order of precedence.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Missing config file is fine, defaults + env apply.
		} else if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		config.APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_API_BASE"); v != "" {
		config.APIBase = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		config.Model = v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxTokens = n
		}
	}
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.ChunkSize = n
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		config.DataDir = v
	}
}

// PageCacheDir is where fetched raw HTML lives, next to the summary data.
func (c *Config) PageCacheDir() string {
	return filepath.Join(c.DataDir, "pages")
}

// ValidateCredentials checks the settings needed before any LLM call is made.
func (c *Config) ValidateCredentials() error {
	if c.APIKey == "" {
		return fmt.Errorf("DeepSeek API key is not configured; set DEEPSEEK_API_KEY or api_key in the config file")
	}
	return nil
}
