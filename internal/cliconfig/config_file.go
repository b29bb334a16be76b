package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML decoding. Optional scalars use
// pointers so absent keys don't overwrite defaults.
type FileConfig struct {
	DatasetDir string         `toml:"dataset_dir"`
	OutDir     string         `toml:"out_dir"`
	VocabPath  string         `toml:"vocab_path"`
	GrowSplit  string         `toml:"grow_split"`
	Seed       *int64         `toml:"seed"`
	SplitSizes map[string]int `toml:"split_sizes"`
	BatchSize  int            `toml:"batch_size"`
	SampleRate int            `toml:"sample_rate"`
	FFTSize    int            `toml:"fft_size"`
	HopLength  int            `toml:"hop_length"`
	MelBins    int            `toml:"mel_bins"`
	Watch      *bool          `toml:"watch"`
	Verbose    *bool          `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.speechprep/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".speechprep", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dataset-dir", fc.DatasetDir, &cfg.DatasetDir)
	s.setString("out-dir", fc.OutDir, &cfg.OutDir)
	s.setString("vocab", fc.VocabPath, &cfg.VocabPath)
	s.setString("grow-split", fc.GrowSplit, &cfg.GrowSplit)

	s.setInt64("seed", fc.Seed, &cfg.Seed)
	s.setSizes("size", fc.SplitSizes, &cfg.SplitSizes)

	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("sample-rate", fc.SampleRate, &cfg.SampleRate)
	s.setInt("fft-size", fc.FFTSize, &cfg.FFTSize)
	s.setInt("hop", fc.HopLength, &cfg.HopLength)
	s.setInt("mel-bins", fc.MelBins, &cfg.MelBins)

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
