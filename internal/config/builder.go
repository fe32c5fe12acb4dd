package config

import (
	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/logging"
)

// NewConverter builds the converter described by the converter section.
// Configured tokens and colors are merged over the built-in tables once;
// the resulting tables are never modified afterwards.
func (c *Config) NewConverter() (*convert.Converter, error) {
	policy, err := convert.ParseStripPolicy(c.Converter.StripPolicy)
	if err != nil {
		return nil, err
	}

	return convert.New(convert.Options{
		Tokens: convert.DefaultTokenTable().Merge(c.Converter.Tokens),
		Colors: convert.DefaultColorTable().Merge(c.Converter.Colors),
		Strip:  policy,
	}), nil
}

// NewEngine wraps NewConverter in an LRU result cache sized by the cache
// section. A cache size of zero returns the bare converter.
func (c *Config) NewEngine() (convert.Engine, error) {
	conv, err := c.NewConverter()
	if err != nil {
		return nil, err
	}
	if c.Cache.Size == 0 {
		return conv, nil
	}

	cached, err := convert.NewCached(conv, c.Cache.Size)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// NewLogger builds a logger from the log section.
func (c *Config) NewLogger(base *logging.LoggerConfig) (*logging.PlaygroundLogger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultConfig()
	if base != nil {
		copied := *base
		cfg = &copied
	}
	cfg.Level = level
	cfg.Format = c.Log.Format

	return logging.NewLogger(cfg), nil
}
