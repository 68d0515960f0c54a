// Package config loads WCC's project configuration from .wcc/config.json.
// CLI flags take precedence over file values; the file supplies project
// defaults so teams don't repeat flags in every invocation.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete WCC configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Generate GenerateConfig `json:"generate" mapstructure:"generate"`
	Cache    CacheConfig    `json:"cache" mapstructure:"cache"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// GenerateConfig holds generation defaults.
type GenerateConfig struct {
	Targets         []string `json:"targets" mapstructure:"targets"`
	Recursive       bool     `json:"recursive" mapstructure:"recursive"`
	Strict          bool     `json:"strict" mapstructure:"strict"`
	ContinueOnError bool     `json:"continueOnError" mapstructure:"continueOnError"`
	ImportPath      string   `json:"importPath" mapstructure:"importPath"`
	NodeURL         string   `json:"nodeUrl" mapstructure:"nodeUrl"`
}

// CacheConfig holds generation-cache settings.
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Generate: GenerateConfig{
			Targets:         []string{"html", "react"},
			Recursive:       true,
			ContinueOnError: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".wcc/cache.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from <projectRoot>/.wcc/config.json, falling
// back to defaults when no file exists.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("generate.targets", defaults.Generate.Targets)
	v.SetDefault("generate.recursive", defaults.Generate.Recursive)
	v.SetDefault("generate.continueOnError", defaults.Generate.ContinueOnError)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.path", defaults.Cache.Path)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".wcc"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <projectRoot>/.wcc/config.json.
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".wcc")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &Error{Field: "version", Message: "unsupported config version"}
	}
	if len(c.Generate.Targets) == 0 {
		return &Error{Field: "generate.targets", Message: "at least one emit target is required"}
	}
	return nil
}

// Error represents a configuration error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
