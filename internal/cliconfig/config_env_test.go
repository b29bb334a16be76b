package cliconfig

import (
	"reflect"
	"testing"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("SPEECHPREP_DATASET_DIR", "/env/corpus")
	t.Setenv("SPEECHPREP_VOCAB_PATH", "/env/vocab.json")
	t.Setenv("SPEECHPREP_GROW_SPLIT", "validation")
	t.Setenv("SPEECHPREP_SEED", "99")
	t.Setenv("SPEECHPREP_SPLIT_SIZES", "test=10,validation=5")
	t.Setenv("SPEECHPREP_BATCH_SIZE", "32")
	t.Setenv("SPEECHPREP_WATCH", "true")

	cfg := Config{}
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.DatasetDir != "/env/corpus" {
		t.Errorf("DatasetDir = %q", cfg.DatasetDir)
	}
	if cfg.VocabPath != "/env/vocab.json" {
		t.Errorf("VocabPath = %q", cfg.VocabPath)
	}
	if cfg.GrowSplit != "validation" {
		t.Errorf("GrowSplit = %q", cfg.GrowSplit)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if want := map[string]int{"test": 10, "validation": 5}; !reflect.DeepEqual(cfg.SplitSizes, want) {
		t.Errorf("SplitSizes = %v, want %v", cfg.SplitSizes, want)
	}
	if cfg.BatchSize != 32 {
		t.Errorf("BatchSize = %d, want 32", cfg.BatchSize)
	}
	if !cfg.Watch {
		t.Error("Watch should be true")
	}
}

func TestApplyEnvConfig_RespectsChangedFlags(t *testing.T) {
	t.Setenv("SPEECHPREP_DATASET_DIR", "/env/corpus")
	t.Setenv("SPEECHPREP_SPLIT_SIZES", "test=10")

	cfg := Config{
		DatasetDir: "/flag/corpus",
		SplitSizes: map[string]int{"test": 3},
	}
	changed := map[string]bool{"dataset-dir": true, "size": true}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.DatasetDir != "/flag/corpus" {
		t.Errorf("DatasetDir = %q, want flag value kept", cfg.DatasetDir)
	}
	if want := map[string]int{"test": 3}; !reflect.DeepEqual(cfg.SplitSizes, want) {
		t.Errorf("SplitSizes = %v, want flag value kept", cfg.SplitSizes)
	}
}

func TestApplyEnvConfig_InvalidValues(t *testing.T) {
	t.Setenv("SPEECHPREP_SEED", "not-a-number")
	cfg := Config{}
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Error("ApplyEnvConfig() with invalid seed should fail")
	}

	t.Setenv("SPEECHPREP_SEED", "")
	t.Setenv("SPEECHPREP_SPLIT_SIZES", "test=oops")
	cfg = Config{}
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Error("ApplyEnvConfig() with invalid split sizes should fail")
	}
}
