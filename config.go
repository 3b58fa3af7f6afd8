package allure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/apiprobe/allure-reporter/history"
	"github.com/apiprobe/allure-reporter/redact"
)

// DefaultResultsDir is where result artifacts land when no directory is
// configured. It matches the default input directory of the report
// generator.
const DefaultResultsDir = "allure-results"

// Config holds the reporter configuration.
type Config struct {
	ResultsDir string `yaml:"results_dir"` // Directory for result and history files
	// SensitiveHeaders extends the default masked-header list; matching is
	// case-insensitive. Leave empty to use the defaults only.
	SensitiveHeaders []string `yaml:"sensitive_headers"`
	// ExcludedParameters are parameter names omitted from history-identity
	// computation, so volatile parameters do not break trend correlation.
	ExcludedParameters []string `yaml:"excluded_parameters"`
	// HistoryLimit caps the retained history entries per identity.
	// Zero selects history.DefaultLimit.
	HistoryLimit int `yaml:"history_limit"`
	// Environment adds custom key/value pairs to environment.properties.
	Environment map[string]string `yaml:"environment"`

	Log log.Logger `yaml:"-"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		ResultsDir:   DefaultResultsDir,
		HistoryLimit: history.DefaultLimit,
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.ResultsDir == "" {
		return errors.New("results directory is required")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history limit cannot be negative, got %d", c.HistoryLimit)
	}
	return nil
}

// sensitiveHeaders returns the effective masked-header list: the defaults
// plus any configured additions.
func (c *Config) sensitiveHeaders() []string {
	return append(redact.DefaultSensitiveHeaders(), c.SensitiveHeaders...)
}

// absResultsDir resolves the results directory to an absolute path so
// artifacts land in the same place regardless of later workdir changes.
func (c *Config) absResultsDir() (string, error) {
	dir, err := filepath.Abs(c.ResultsDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for results directory '%s': %w", c.ResultsDir, err)
	}
	return dir, nil
}
