package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables
// (SPEECHPREP_*). It respects flags that have been explicitly set
// (changed map). Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dataset-dir", os.Getenv("SPEECHPREP_DATASET_DIR"), &cfg.DatasetDir)
	s.setString("out-dir", os.Getenv("SPEECHPREP_OUT_DIR"), &cfg.OutDir)
	s.setString("vocab", os.Getenv("SPEECHPREP_VOCAB_PATH"), &cfg.VocabPath)
	s.setString("grow-split", os.Getenv("SPEECHPREP_GROW_SPLIT"), &cfg.GrowSplit)

	if err := s.setInt64FromString("seed", os.Getenv("SPEECHPREP_SEED"), &cfg.Seed); err != nil {
		return err
	}

	if raw := os.Getenv("SPEECHPREP_SPLIT_SIZES"); raw != "" && !changed["size"] {
		sizes, err := ParseSplitSizes(strings.Split(raw, ","))
		if err != nil {
			return err
		}
		cfg.SplitSizes = sizes
	}

	if err := s.setIntFromString("batch-size", os.Getenv("SPEECHPREP_BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("sample-rate", os.Getenv("SPEECHPREP_SAMPLE_RATE"), &cfg.SampleRate); err != nil {
		return err
	}
	if err := s.setIntFromString("fft-size", os.Getenv("SPEECHPREP_FFT_SIZE"), &cfg.FFTSize); err != nil {
		return err
	}
	if err := s.setIntFromString("hop", os.Getenv("SPEECHPREP_HOP_LENGTH"), &cfg.HopLength); err != nil {
		return err
	}
	if err := s.setIntFromString("mel-bins", os.Getenv("SPEECHPREP_MEL_BINS"), &cfg.MelBins); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("SPEECHPREP_WATCH"), &cfg.Watch)
	s.setBoolFromString("verbose", os.Getenv("SPEECHPREP_VERBOSE"), &cfg.Verbose)

	return nil
}
