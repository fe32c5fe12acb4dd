// Package cmd provides the command-line interface for tailplay with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. TAILPLAY_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TAILPLAY_SERVER_PORT, etc.)
//	4. Configuration files (.tailplay.yml) - lowest priority
//
// Environment Variables:
//
//	TAILPLAY_CONFIG_FILE: Path to custom configuration file
//	TAILPLAY_SERVER_PORT: Override server port
//	TAILPLAY_SERVER_HOST: Override server host
//	TAILPLAY_CONVERTER_STRIP_POLICY: remove or placeholder
//	And more following the TAILPLAY_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/config"
	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/logging"
)

const defaultConfigFile = ".tailplay.yml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tailplay",
	Short: "A playground that turns utility-class markup into plain HTML and CSS",
	Long: `tailplay converts markup written with Tailwind-style utility classes into
plain HTML, a CSS rule block and an optional click-handler script, and serves
an interactive playground around the converter.

Key Features:
  • Utility token and color alias conversion
  • Gradient detection and click-handler scaffolding
  • Example and template catalog with hot reload
  • Live playground over WebSocket (JSON or MessagePack)
  • MCP tool server for editors and agents

Quick Start:
  tailplay serve                  Start the playground
  tailplay convert card.html      Convert a file
  tailplay examples               List catalog snippets
  tailplay mcp                    Serve MCP tools on stdio

Documentation: https://github.com/conneroisu/tailplay`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tailplay.yml, can also use TAILPLAY_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (text, json)")
	rootCmd.PersistentFlags().StringSlice("catalog", nil, "snippet directories to load (repeatable)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("catalog.paths", rootCmd.PersistentFlags().Lookup("catalog"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. TAILPLAY_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .tailplay.yml in current directory
//
// Every key can also be overridden from the environment with the TAILPLAY_
// prefix, for example TAILPLAY_SERVER_PORT=3000.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TAILPLAY_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tailplay")
	}

	viper.SetEnvPrefix("TAILPLAY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable file leaves the defaults in place; config.Load
	// reports invalid values.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration, wrapping failures with suggestions.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigFile
		}
		return nil, errors.NewEnhancedError(
			"Failed to load configuration",
			err,
			errors.ConfigurationError(err.Error(), path),
		)
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs always go to w so that stdout
// stays reserved for command output.
func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	logger, err := cfg.NewLogger(&logging.LoggerConfig{Output: w})
	if err != nil {
		return nil, errors.NewEnhancedError(
			"Invalid log configuration",
			err,
			errors.ConfigurationError(err.Error(), defaultConfigFile),
		)
	}
	return logger, nil
}

// loadCatalog reads the configured catalog. Skipped entries are logged and
// do not fail the command.
func loadCatalog(ctx context.Context, cfg *config.Config, logger logging.Logger) *catalog.Catalog {
	loader := &catalog.Loader{
		Paths:    cfg.Catalog.Paths,
		Patterns: cfg.Catalog.Patterns,
		Builtin:  cfg.Catalog.Builtin,
	}
	entries, err := loader.Load()
	if err != nil {
		logger.Warn(ctx, err, "Catalog loaded with errors")
	}
	return catalog.New(entries)
}
