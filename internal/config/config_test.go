package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/logging"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			setup: func() {
				viper.Reset()
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, DefaultHost, cfg.Server.Host)
				assert.Equal(t, DefaultPatterns, cfg.Catalog.Patterns)
				assert.True(t, cfg.Catalog.Builtin)
				assert.False(t, cfg.Catalog.Watch)
				assert.Equal(t, "remove", cfg.Converter.StripPolicy)
				assert.Equal(t, DefaultCacheSize, cfg.Cache.Size)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "text", cfg.Log.Format)
			},
		},
		{
			name: "custom catalog and server",
			setup: func() {
				viper.Reset()
				viper.Set("server.port", 3000)
				viper.Set("server.host", "0.0.0.0")
				viper.Set("catalog.paths", []string{"./snippets", "./more"})
				viper.Set("catalog.patterns", []string{"*.yaml"})
				viper.Set("catalog.watch", true)
				viper.Set("catalog.builtin", false)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
				assert.Equal(t, []string{"./snippets", "./more"}, cfg.Catalog.Paths)
				assert.Equal(t, []string{"*.yaml"}, cfg.Catalog.Patterns)
				assert.True(t, cfg.Catalog.Watch)
				assert.False(t, cfg.Catalog.Builtin)
			},
		},
		{
			name: "converter overrides",
			setup: func() {
				viper.Reset()
				viper.Set("converter.strip_policy", "placeholder")
				viper.Set("converter.tokens", map[string]string{"grid": "display: grid;"})
				viper.Set("converter.colors", map[string]string{"red-500": "#ef4444"})
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "placeholder", cfg.Converter.StripPolicy)
				assert.Equal(t, "display: grid;", cfg.Converter.Tokens["grid"])
				assert.Equal(t, "#ef4444", cfg.Converter.Colors["red-500"])
			},
		},
		{
			name: "invalid port type",
			setup: func() {
				viper.Reset()
				viper.Set("server.port", "invalid_port")
			},
			expectError: true,
		},
		{
			name: "unknown strip policy",
			setup: func() {
				viper.Reset()
				viper.Set("converter.strip_policy", "keep")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			cfg, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, ".tailplay.yml")
	content := `server:
  port: 9090
  allowed_origins:
    - http://localhost:3000
catalog:
  paths: [./snippets]
  watch: true
converter:
  strip_policy: placeholder
cache:
  size: 0
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"./snippets"}, cfg.Catalog.Paths)
	assert.True(t, cfg.Catalog.Watch)
	assert.True(t, cfg.Catalog.Builtin)
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"dangerous host", func(c *Config) { c.Server.Host = "localhost;rm" }, "server.host"},
		{"origin without scheme", func(c *Config) { c.Server.AllowedOrigins = []string{"localhost:3000"} }, "server.allowed_origins"},
		{"path traversal", func(c *Config) { c.Catalog.Paths = []string{"../../etc"} }, "catalog.paths"},
		{"empty path", func(c *Config) { c.Catalog.Paths = []string{""} }, "catalog.paths"},
		{"bad pattern", func(c *Config) { c.Catalog.Patterns = []string{"[unclosed"} }, "catalog.patterns"},
		{"bad strip policy", func(c *Config) { c.Converter.StripPolicy = "keep" }, "converter.strip_policy"},
		{"token with space", func(c *Config) { c.Converter.Tokens = map[string]string{"a b": "x;"} }, "converter.tokens"},
		{"declaration without semicolon", func(c *Config) { c.Converter.Tokens = map[string]string{"grid": "display: grid"} }, "converter.tokens.grid"},
		{"empty color", func(c *Config) { c.Converter.Colors = map[string]string{"red-500": " "} }, "converter.colors"},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)

			var pe *errors.PlaygroundError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, errors.ErrCodeConfigInvalid, pe.Code)
			assert.Contains(t, pe.Context, tt.field)
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(Default()))
	})

	t.Run("errors are collected", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 70000
		cfg.Cache.Size = -5
		err := validateConfig(cfg)

		var pe *errors.PlaygroundError
		require.ErrorAs(t, err, &pe)
		assert.Len(t, pe.Context, 2)
	})
}

func TestNewConverter(t *testing.T) {
	cfg := Default()
	cfg.Converter.StripPolicy = "placeholder"
	cfg.Converter.Tokens = map[string]string{"grid": "display: grid;", "flex": "display: inline-flex;"}
	cfg.Converter.Colors = map[string]string{"red-500": "#ef4444"}

	conv, err := cfg.NewConverter()
	require.NoError(t, err)

	assert.Equal(t, convert.StripPlaceholder, conv.Policy())

	decl, ok := conv.Tokens().Lookup("grid")
	assert.True(t, ok)
	assert.Equal(t, "display: grid;", decl)

	decl, _ = conv.Tokens().Lookup("flex")
	assert.Equal(t, "display: inline-flex;", decl)

	// the built-in table is untouched
	decl, _ = convert.DefaultTokenTable().Lookup("flex")
	assert.Equal(t, "display: flex;", decl)

	assert.Equal(t, "#ef4444", conv.Colors().Resolve("red-500"))

	res := conv.Convert(`<div className="grid p-4">x</div>`)
	assert.Contains(t, res.CSS, "display: grid;")
	assert.Contains(t, res.HTML, `class="component"`)
}

func TestNewEngine(t *testing.T) {
	cfg := Default()
	engine, err := cfg.NewEngine()
	require.NoError(t, err)
	_, cached := engine.(*convert.CachedConverter)
	assert.True(t, cached)

	cfg.Cache.Size = 0
	engine, err = cfg.NewEngine()
	require.NoError(t, err)
	_, bare := engine.(*convert.Converter)
	assert.True(t, bare)

	cfg.Converter.StripPolicy = "bogus"
	_, err = cfg.NewEngine()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	base := logging.DefaultConfig()
	base.Output = &buf

	logger, err := cfg.NewLogger(base)
	require.NoError(t, err)

	logger.Info(context.Background(), "hidden")
	logger.Warn(context.Background(), nil, "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
