package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonview/internal/filter"
	"github.com/mcncl/jsonview/internal/parser"
	"github.com/mcncl/jsonview/internal/renderer"
)

// Output format names accepted by the Format option.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

// DefaultDebounceMs is the quiescence window for watch mode: a re-parse
// runs only after this many milliseconds without further file changes.
const DefaultDebounceMs = 500

// Config represents the complete configuration for jsonview
type Config struct {
	Format      string `yaml:"format"`
	FilterNulls bool   `yaml:"filter_nulls"`
	KeyCase     string `yaml:"key_case"`
	Indent      int    `yaml:"indent"`
	MaxDepth    int    `yaml:"max_depth"`
	DebounceMs  int    `yaml:"debounce_ms"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format:      FormatJSON,
		FilterNulls: false,
		KeyCase:     "",
		Indent:      renderer.DefaultIndent,
		MaxDepth:    parser.DefaultMaxDepth,
		DebounceMs:  DefaultDebounceMs,
	}
}

// Validate checks option values that come from the config file; CLI
// flags are validated by kong's enum tags before they get here.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatYAML, FormatTree:
	default:
		return fmt.Errorf("invalid format %q: must be one of json, yaml, tree", c.Format)
	}
	if !filter.KeyCase(c.KeyCase).Valid() {
		return fmt.Errorf("invalid key_case %q: must be one of camel, snake, kebab", c.KeyCase)
	}
	if c.Indent < 1 {
		return fmt.Errorf("indent must be at least 1, got %d", c.Indent)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMs)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonview.yml", ".jsonview.yaml", "jsonview.yml", "jsonview.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// CLI values override file values only when they differ from the flag
// defaults, so a config file still wins when a flag was left unset.
func LoadConfigWithCLI(configPath, cliFormat, cliKeyCase string, cliFilterNulls bool, cliIndent int) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Apply CLI overrides only if they're not the default values.
	// This allows config file values to be used when CLI args are defaults.
	if cliFormat != "" && cliFormat != FormatJSON {
		cfg.Format = cliFormat
	}
	if cliKeyCase != "" {
		cfg.KeyCase = cliKeyCase
	}
	if cliIndent > 0 && cliIndent != renderer.DefaultIndent {
		cfg.Indent = cliIndent
	}

	// Boolean CLI flags only override when set: false is the flag
	// default, so it never masks a config file's true.
	if cliFilterNulls {
		cfg.FilterNulls = true
	}

	return cfg, nil
}
