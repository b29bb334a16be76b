// Package cliconfig holds the speechprep configuration and its three-layer
// precedence: flags override environment variables, which override the TOML
// config file, which overrides defaults.
package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bft-labs/speechprep/internal/domain"
)

// Config holds CLI configuration for speechprep.
type Config struct {
	// DatasetDir contains one "<split>.jsonl" manifest per split.
	DatasetDir string

	// OutDir receives packed batches (and rebalanced manifests).
	// Defaults to <DatasetDir>/packed.
	OutDir string

	// VocabPath is the tokenizer vocabulary JSON file. Required for packing.
	VocabPath string

	// GrowSplit receives surplus examples during rebalancing.
	GrowSplit string

	// Seed drives the rebalancer's random selection.
	Seed int64

	// SplitSizes maps split names to target sizes for rebalancing.
	SplitSizes map[string]int

	// BatchSize is the number of examples per packed batch.
	BatchSize int

	// SampleRate, FFTSize, HopLength and MelBins parameterize the log-mel
	// feature extractor.
	SampleRate int
	FFTSize    int
	HopLength  int
	MelBins    int

	// Watch re-runs the pack whenever the dataset manifests change.
	Watch bool

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		GrowSplit:  "train",
		Seed:       0,
		BatchSize:  8,
		SampleRate: 16000,
		FFTSize:    400,
		HopLength:  160,
		MelBins:    80,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DatasetDir == "" {
		return fmt.Errorf("%w: dataset-dir is required", domain.ErrInvalidConfig)
	}
	if c.OutDir == "" {
		c.OutDir = filepath.Join(c.DatasetDir, "packed")
	}
	if c.GrowSplit == "" {
		return fmt.Errorf("%w: grow-split is required", domain.ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", domain.ErrInvalidConfig)
	}
	if c.SampleRate <= 0 || c.FFTSize <= 0 || c.HopLength <= 0 || c.MelBins <= 0 {
		return fmt.Errorf("%w: feature parameters must be positive", domain.ErrInvalidConfig)
	}
	for name, size := range c.SplitSizes {
		if name == "" {
			return fmt.Errorf("%w: empty split name in sizes", domain.ErrInvalidConfig)
		}
		if size < 0 {
			return fmt.Errorf("%w: negative target size for split %q", domain.ErrInvalidConfig, name)
		}
	}
	return nil
}

// ParseSplitSizes parses "name=count" pairs as given on the command line.
func ParseSplitSizes(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	sizes := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid split size %q, want name=count", pair)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid split size %q: %w", pair, err)
		}
		sizes[name] = n
	}
	return sizes, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if non-empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets an int64 value from a pointer if not nil and flag not changed.
// Zero is a valid seed, so presence is signalled by the pointer.
func (s *configSetter) setInt64(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setSizes sets the split size map if non-empty and flag not changed.
func (s *configSetter) setSizes(flag string, value map[string]int, dst *map[string]int) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
