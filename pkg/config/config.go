package config

import (
	"fmt"
	"strings"

	"github.com/xplshn/gpioc/pkg/cli"
	"github.com/xplshn/gpioc/pkg/diag"
	"github.com/xplshn/gpioc/pkg/token"
)

type Feature int

const (
	FeatColor Feature = iota
	FeatCaret
	FeatTokens
	FeatEOF
	FeatCount
)

// DefaultMaxTokenLength is the longest identifier, keyword or number run
// the scanner accepts.
const DefaultMaxTokenLength = 64

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	FeatureMap map[string]Feature

	MaxTokenLength    int
	StreamCapacity    int
	MaxTokens         int
	CollectorCapacity int
	MaxDiagnostics    int
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		FeatureMap: make(map[string]Feature),

		MaxTokenLength:    DefaultMaxTokenLength,
		StreamCapacity:    token.DefaultStreamCapacity,
		CollectorCapacity: diag.DefaultCapacity,
	}

	features := map[Feature]Info{
		FeatColor:  {"color", false, "Colorize diagnostics."},
		FeatCaret:  {"caret", true, "Show the offending source line under each diagnostic."},
		FeatTokens: {"tokens", true, "Print the token stream of every scanned unit."},
		FeatEOF:    {"eof", true, "Include the end-of-input token when printing a token stream."},
	}

	cfg.Features = features
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

// Validate rejects limits the scanner cannot work with.
func (c *Config) Validate() error {
	if c.MaxTokenLength < 1 {
		return fmt.Errorf("maximum token length must be positive, got %d", c.MaxTokenLength)
	}
	if c.StreamCapacity < 1 {
		return fmt.Errorf("token stream capacity must be positive, got %d", c.StreamCapacity)
	}
	if c.CollectorCapacity < 1 {
		return fmt.Errorf("diagnostic capacity must be positive, got %d", c.CollectorCapacity)
	}
	if c.MaxTokens < 0 || c.MaxDiagnostics < 0 {
		return fmt.Errorf("limits cannot be negative")
	}
	return nil
}

// NewCollector returns a diagnostic collector sized by this configuration.
func (c *Config) NewCollector() *diag.Collector {
	return diag.NewWithLimits(c.CollectorCapacity, c.MaxDiagnostics)
}

// NewStream returns an empty token stream sized by this configuration.
func (c *Config) NewStream() *token.Stream {
	return token.NewStreamWithLimits(c.StreamCapacity, c.MaxTokens)
}

func (c *Config) applyFlag(flag string) error {
	trimmed := strings.TrimPrefix(flag, "-")
	if !strings.HasPrefix(trimmed, "F") {
		return fmt.Errorf("unrecognized flag '%s'", flag)
	}
	name := strings.TrimPrefix(trimmed, "F")
	enable := true
	if strings.HasPrefix(name, "no-") {
		name = strings.TrimPrefix(name, "no-")
		enable = false
	}
	ft, ok := c.FeatureMap[name]
	if !ok {
		return fmt.Errorf("unknown feature '%s'", name)
	}
	c.SetFeature(ft, enable)
	return nil
}

// ProcessFlagString applies a space-separated list of -F<feature> and
// -Fno-<feature> flags, as typed at the REPL.
func (c *Config) ProcessFlagString(flagStr string) error {
	for _, flag := range strings.Fields(flagStr) {
		if err := c.applyFlag(flag); err != nil {
			return err
		}
	}
	return nil
}

// SetupFlagGroups registers every feature as a -F flag pair on fs. The
// returned entries are indexed by Feature and must be handed back to
// ApplyFlagGroups after parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) []cli.FlagGroupEntry {
	entries := make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		enabled, disabled := false, false
		entries[i] = cli.FlagGroupEntry{
			Name:     info.Name,
			Prefix:   "F",
			Usage:    info.Description,
			Enabled:  &enabled,
			Disabled: &disabled,
			Default:  info.Enabled,
		}
	}
	fs.AddFlagGroup("Features", "Scanner and output features.", "feature", "Available Features:", entries)
	return entries
}

func (c *Config) ApplyFlagGroups(entries []cli.FlagGroupEntry) {
	for i, entry := range entries {
		if entry.Enabled != nil && *entry.Enabled {
			c.SetFeature(Feature(i), true)
		}
		if entry.Disabled != nil && *entry.Disabled {
			c.SetFeature(Feature(i), false)
		}
	}
}
