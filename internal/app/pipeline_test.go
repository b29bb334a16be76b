package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bft-labs/speechprep/internal/dataset"
	"github.com/bft-labs/speechprep/internal/domain"
	"github.com/bft-labs/speechprep/internal/feature"
	"github.com/bft-labs/speechprep/internal/tokenizer"
	"github.com/bft-labs/speechprep/pkg/log"
	"github.com/bft-labs/speechprep/pkg/state"
)

func writeTestDataset(t *testing.T, dir string, counts map[string]int) {
	t.Helper()
	ds := dataset.New()
	for name, n := range counts {
		split := make(dataset.Split, n)
		for i := range split {
			samples := make([]float64, 100)
			for j := range samples {
				samples[j] = math.Sin(float64(i*100+j) / 5)
			}
			split[i] = domain.Example{
				Audio:    domain.Audio{Samples: samples, SamplingRate: 8000},
				Sentence: fmt.Sprintf("hi %s %d", name, i),
			}
		}
		ds.Set(name, split)
	}
	if err := dataset.Save(dir, ds); err != nil {
		t.Fatal(err)
	}
}

func testPipeline(t *testing.T, datasetDir, outDir string, sizes []dataset.SplitSize) *Pipeline {
	t.Helper()
	extractor, err := feature.NewLogMel(feature.Config{
		SampleRate: 8000,
		FFTSize:    64,
		HopLength:  32,
		MelBins:    4,
	})
	if err != nil {
		t.Fatal(err)
	}
	tok := tokenizer.New(
		map[string]int{"▁hi": 10},
		tokenizer.Specials{BOS: 0, EOS: 1, Pad: 1, Unk: 2},
	)
	return NewPipeline(Config{
		DatasetDir: datasetDir,
		OutDir:     outDir,
		GrowSplit:  "train",
		Seed:       0,
		SplitSizes: sizes,
		BatchSize:  4,
	}, extractor, tok, state.NewFileRepository(outDir), log.NewNoopLogger())
}

func readBatch(t *testing.T, path string) domain.Batch {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b domain.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPipeline_Pack(t *testing.T) {
	datasetDir := t.TempDir()
	outDir := t.TempDir()
	writeTestDataset(t, datasetDir, map[string]int{"train": 6, "test": 4})

	p := testPipeline(t, datasetDir, outDir, nil)
	if err := p.Pack(context.Background()); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	// 6 train examples at batch size 4 -> 2 batches; 4 test -> 1 batch.
	wantFiles := []string{
		filepath.Join(outDir, "train", "batch-00000.json"),
		filepath.Join(outDir, "train", "batch-00001.json"),
		filepath.Join(outDir, "test", "batch-00000.json"),
	}
	for _, path := range wantFiles {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing batch file %s: %v", path, err)
		}
	}

	full := readBatch(t, wantFiles[0])
	if full.Size() != 4 {
		t.Errorf("first batch size = %d, want 4", full.Size())
	}
	tail := readBatch(t, wantFiles[1])
	if tail.Size() != 2 {
		t.Errorf("tail batch size = %d, want 2", tail.Size())
	}
	for _, row := range full.Labels {
		if len(row) != len(full.Labels[0]) {
			t.Error("label rows have unequal lengths")
		}
	}

	st, err := state.NewFileRepository(outDir).Load(context.Background())
	if err != nil {
		t.Fatalf("state Load() error = %v", err)
	}
	if st.IsEmpty() {
		t.Error("state not persisted after pack")
	}
	if want := map[string]int{"train": 2, "test": 1}; !reflect.DeepEqual(st.BatchesWritten, want) {
		t.Errorf("BatchesWritten = %v, want %v", st.BatchesWritten, want)
	}
}

func TestPipeline_PackWithRebalance(t *testing.T) {
	datasetDir := t.TempDir()
	outDir := t.TempDir()
	writeTestDataset(t, datasetDir, map[string]int{"train": 6, "test": 4})

	p := testPipeline(t, datasetDir, outDir, []dataset.SplitSize{{Name: "test", Size: 2}})
	if err := p.Pack(context.Background()); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	st, err := state.NewFileRepository(outDir).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// train grows to 8 -> 2 batches, test shrinks to 2 -> 1 batch.
	if want := map[string]int{"train": 2, "test": 1}; !reflect.DeepEqual(st.BatchesWritten, want) {
		t.Errorf("BatchesWritten = %v, want %v", st.BatchesWritten, want)
	}

	tail := readBatch(t, filepath.Join(outDir, "train", "batch-00001.json"))
	if tail.Size() != 4 {
		t.Errorf("train tail batch size = %d, want 4", tail.Size())
	}
}

func TestPipeline_PackIfChanged(t *testing.T) {
	datasetDir := t.TempDir()
	outDir := t.TempDir()
	writeTestDataset(t, datasetDir, map[string]int{"train": 4})

	p := testPipeline(t, datasetDir, outDir, nil)
	ctx := context.Background()

	ran, err := p.PackIfChanged(ctx)
	if err != nil {
		t.Fatalf("PackIfChanged() error = %v", err)
	}
	if !ran {
		t.Error("first PackIfChanged() should pack")
	}

	ran, err = p.PackIfChanged(ctx)
	if err != nil {
		t.Fatalf("PackIfChanged() error = %v", err)
	}
	if ran {
		t.Error("unchanged manifests should skip the pack")
	}

	writeTestDataset(t, datasetDir, map[string]int{"train": 5})
	ran, err = p.PackIfChanged(ctx)
	if err != nil {
		t.Fatalf("PackIfChanged() error = %v", err)
	}
	if !ran {
		t.Error("changed manifests should trigger a pack")
	}
}

func TestPipeline_Rebalance(t *testing.T) {
	datasetDir := t.TempDir()
	outDir := t.TempDir()
	writeTestDataset(t, datasetDir, map[string]int{"train": 10, "test": 6})

	p := testPipeline(t, datasetDir, outDir, []dataset.SplitSize{{Name: "test", Size: 2}})
	if err := p.Rebalance(context.Background()); err != nil {
		t.Fatalf("Rebalance() error = %v", err)
	}

	out, err := dataset.Load(outDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	test, _ := out.Split("test")
	if len(test) != 2 {
		t.Errorf("test size = %d, want 2", len(test))
	}
	train, _ := out.Split("train")
	if len(train) != 14 {
		t.Errorf("train size = %d, want 14", len(train))
	}
}

func TestSplitSizesFromMap(t *testing.T) {
	got := SplitSizesFromMap(map[string]int{"validation": 5, "test": 10, "dev": 3})
	want := []dataset.SplitSize{
		{Name: "dev", Size: 3},
		{Name: "test", Size: 10},
		{Name: "validation", Size: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSizesFromMap() = %v, want %v", got, want)
	}
	if SplitSizesFromMap(nil) != nil {
		t.Error("nil map should produce nil list")
	}
}

func TestManifestDigest(t *testing.T) {
	dir := t.TempDir()
	writeTestDataset(t, dir, map[string]int{"train": 2})

	a, err := ManifestDigest(dir)
	if err != nil {
		t.Fatalf("ManifestDigest() error = %v", err)
	}
	b, err := ManifestDigest(dir)
	if err != nil {
		t.Fatalf("ManifestDigest() error = %v", err)
	}
	if a != b {
		t.Error("digest not stable for identical manifests")
	}

	writeTestDataset(t, dir, map[string]int{"train": 3})
	c, err := ManifestDigest(dir)
	if err != nil {
		t.Fatalf("ManifestDigest() error = %v", err)
	}
	if a == c {
		t.Error("digest unchanged after manifest edit")
	}
}
