package config

import (
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/logging"
	"github.com/conneroisu/tailplay/internal/validation"
)

var (
	dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	hostnameRegex  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// validateConfig validates configuration values for security and correctness.
// All problems are collected so the user can fix them in one pass.
func validateConfig(config *Config) error {
	var vec errors.ValidationErrorCollection

	validateServerConfig(&config.Server, &vec)
	validateCatalogConfig(&config.Catalog, &vec)
	validateConverterConfig(&config.Converter, &vec)

	if config.Cache.Size < 0 {
		vec.AddField("cache.size", config.Cache.Size, "cache size cannot be negative",
			"use 0 to disable the conversion cache")
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		vec.AddField("log.level", config.Log.Level, err.Error(),
			"use one of debug, info, warn, error")
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		vec.AddField("log.format", config.Log.Format, "unknown log format",
			"use text or json")
	}

	if vec.HasErrors() {
		return vec.ToPlaygroundError()
	}
	return nil
}

func validateServerConfig(config *ServerConfig, vec *errors.ValidationErrorCollection) {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		vec.AddField("server.port", config.Port,
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			"use a port between 1024 and 65535")
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			vec.AddField("server.host", config.Host, err.Error())
		}
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateOrigin(origin); err != nil {
			vec.AddField("server.allowed_origins", origin, err.Error(),
				"for example http://localhost:3000")
		}
	}
}

func validateCatalogConfig(config *CatalogConfig, vec *errors.ValidationErrorCollection) {
	for _, path := range config.Paths {
		if err := validatePath(path); err != nil {
			vec.AddField("catalog.paths", path, err.Error())
		}
	}

	for _, pattern := range config.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			vec.AddField("catalog.patterns", pattern, "invalid glob pattern",
				"patterns use doublestar syntax such as **/*.yaml")
		}
	}
}

func validateConverterConfig(config *ConverterConfig, vec *errors.ValidationErrorCollection) {
	if _, err := convert.ParseStripPolicy(config.StripPolicy); err != nil {
		vec.AddField("converter.strip_policy", config.StripPolicy, err.Error(),
			"use remove or placeholder")
	}

	for token, decl := range config.Tokens {
		if strings.TrimSpace(token) == "" || strings.ContainsAny(token, " \t\n\"") {
			vec.AddField("converter.tokens", token, "token must be a single class name")
			continue
		}
		if !strings.HasSuffix(strings.TrimSpace(decl), ";") {
			vec.AddField("converter.tokens."+token, decl, "declaration must end with a semicolon",
				"for example: \"display: grid;\"")
		}
	}

	for alias, value := range config.Colors {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(value) == "" {
			vec.AddField("converter.colors", alias, "color alias and value must be non-empty")
		}
	}
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

func validateHostname(host string) error {
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("host contains dangerous character: %s", char)
		}
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}

	return nil
}
