// Package config provides configuration management for the tailplay
// playground using Viper for flexible configuration loading from files,
// environment variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable overrides
// with TAILPLAY_ prefix, and validation. It manages server settings, snippet
// catalog discovery, converter table overrides, the conversion cache and
// logging.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values applied when a setting is absent.
const (
	DefaultPort        = 8080
	DefaultHost        = "localhost"
	DefaultCacheSize   = 256
	DefaultStripPolicy = "remove"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// DefaultPatterns are the doublestar globs used to discover snippet files.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml"}

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog" yaml:"catalog"`
	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type CatalogConfig struct {
	Paths    []string `mapstructure:"paths" yaml:"paths"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
	Watch    bool     `mapstructure:"watch" yaml:"watch"`
	Builtin  bool     `mapstructure:"builtin" yaml:"builtin"`
}

// ConverterConfig extends the built-in token and color tables. Entries here
// override built-in entries with the same key.
type ConverterConfig struct {
	StripPolicy string            `mapstructure:"strip_policy" yaml:"strip_policy"`
	Tokens      map[string]string `mapstructure:"tokens" yaml:"tokens"`
	Colors      map[string]string `mapstructure:"colors" yaml:"colors"`
}

type CacheConfig struct {
	Size int `mapstructure:"size" yaml:"size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Catalog: CatalogConfig{
			Patterns: append([]string(nil), DefaultPatterns...),
			Builtin:  true,
		},
		Converter: ConverterConfig{
			StripPolicy: DefaultStripPolicy,
		},
		Cache: CacheConfig{Size: DefaultCacheSize},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the configuration from the global viper instance, applies
// defaults and validates the result.
func Load() (*Config, error) {
	config := Default()
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	// Handle catalog slices set via viper (workaround for viper slice handling)
	if viper.IsSet("catalog.paths") && len(config.Catalog.Paths) == 0 {
		config.Catalog.Paths = viper.GetStringSlice("catalog.paths")
	}
	if viper.IsSet("catalog.patterns") {
		if patterns := viper.GetStringSlice("catalog.patterns"); len(patterns) > 0 {
			config.Catalog.Patterns = patterns
		}
	}
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	// Handle bools set via viper (workaround for viper bool handling)
	if viper.IsSet("catalog.watch") {
		config.Catalog.Watch = viper.GetBool("catalog.watch")
	}
	if viper.IsSet("catalog.builtin") {
		config.Catalog.Builtin = viper.GetBool("catalog.builtin")
	}
	if viper.IsSet("server.open") {
		config.Server.Open = viper.GetBool("server.open")
	}

	// Apply default values if explicitly emptied
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if len(config.Catalog.Patterns) == 0 {
		config.Catalog.Patterns = append([]string(nil), DefaultPatterns...)
	}
	if config.Converter.StripPolicy == "" {
		config.Converter.StripPolicy = DefaultStripPolicy
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	// Validate configuration values
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Addr returns the host:port the server listens on.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
