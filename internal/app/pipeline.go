// Package app orchestrates the data preparation pipeline: load manifests,
// rebalance splits, preprocess examples and write padded batches.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/speechprep/internal/collate"
	"github.com/bft-labs/speechprep/internal/dataset"
	"github.com/bft-labs/speechprep/internal/domain"
	"github.com/bft-labs/speechprep/pkg/log"
	"github.com/bft-labs/speechprep/pkg/state"
)

// Config contains configuration for a pipeline run.
type Config struct {
	DatasetDir string
	OutDir     string
	GrowSplit  string
	Seed       int64
	SplitSizes []dataset.SplitSize
	BatchSize  int
}

// Pipeline runs the offline data preparation stages to completion.
type Pipeline struct {
	config       Config
	preprocessor *collate.Preprocessor
	collator     *collate.Collator
	states       state.Repository
	logger       log.Logger
}

// NewPipeline creates a pipeline with the given collaborators.
func NewPipeline(
	config Config,
	extractor collate.FeatureExtractor,
	tok collate.Tokenizer,
	states state.Repository,
	logger log.Logger,
) *Pipeline {
	return &Pipeline{
		config:       config,
		preprocessor: collate.NewPreprocessor(extractor, tok),
		collator:     collate.NewCollator(extractor, tok),
		states:       states,
		logger:       logger,
	}
}

// SplitSizesFromMap converts a name -> size map into the ordered list the
// rebalancer consumes, sorted by name so runs are reproducible.
func SplitSizesFromMap(sizes map[string]int) []dataset.SplitSize {
	if len(sizes) == 0 {
		return nil
	}
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]dataset.SplitSize, 0, len(names))
	for _, name := range names {
		out = append(out, dataset.SplitSize{Name: name, Size: sizes[name]})
	}
	return out
}

// Rebalance loads the dataset, rebalances its splits and writes the
// resulting manifests under the output directory.
func (p *Pipeline) Rebalance(ctx context.Context) error {
	ds, err := dataset.Load(p.config.DatasetDir)
	if err != nil {
		return err
	}
	before := ds.TotalExamples()

	ds, err = dataset.Rebalance(ds, p.config.SplitSizes, p.config.GrowSplit, p.config.Seed)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dataset.Save(p.config.OutDir, ds); err != nil {
		return err
	}

	p.logger.Info("rebalanced dataset",
		log.Int("splits", ds.Len()),
		log.Int("examples_before", before),
		log.Int("examples_after", ds.TotalExamples()),
		log.Str("out_dir", p.config.OutDir))
	return nil
}

// Pack runs the full pipeline: load, optionally rebalance, preprocess,
// collate and write one batch file per BatchSize examples.
func (p *Pipeline) Pack(ctx context.Context) error {
	ds, err := dataset.Load(p.config.DatasetDir)
	if err != nil {
		return err
	}
	p.logger.Info("dataset loaded",
		log.Int("splits", ds.Len()),
		log.Int("examples", ds.TotalExamples()))

	if len(p.config.SplitSizes) > 0 {
		ds, err = dataset.Rebalance(ds, p.config.SplitSizes, p.config.GrowSplit, p.config.Seed)
		if err != nil {
			return err
		}
		p.logger.Info("rebalanced before packing", log.Int("examples", ds.TotalExamples()))
	}

	st, err := p.states.Load(ctx)
	if err != nil {
		p.logger.Warn("failed to load state, continuing with empty state", log.Err(err))
		st = state.State{}
	}

	for _, name := range ds.Names() {
		if err := ctx.Err(); err != nil {
			return err
		}
		split, _ := ds.Split(name)
		batches, err := p.packSplit(ctx, name, split)
		if err != nil {
			return fmt.Errorf("pack split %s: %w", name, err)
		}
		st.UpdateSplit(name, batches)
	}

	digest, err := ManifestDigest(p.config.DatasetDir)
	if err != nil {
		p.logger.Warn("failed to digest manifests", log.Err(err))
	} else {
		st.FinishPack(digest)
	}
	if err := p.states.Save(ctx, st); err != nil {
		p.logger.Warn("failed to save state", log.Err(err))
	}
	return nil
}

// PackIfChanged packs only when the dataset manifests differ from the last
// completed pack. Returns true if a pack ran.
func (p *Pipeline) PackIfChanged(ctx context.Context) (bool, error) {
	digest, err := ManifestDigest(p.config.DatasetDir)
	if err != nil {
		return false, err
	}
	st, err := p.states.Load(ctx)
	if err == nil && st.ManifestDigest == digest {
		return false, nil
	}
	if err := p.Pack(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Pipeline) packSplit(ctx context.Context, name string, split dataset.Split) (int, error) {
	outDir := filepath.Join(p.config.OutDir, name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}

	processed := make([]domain.Example, len(split))
	for i, ex := range split {
		out, err := p.preprocessor.Process(ex)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		processed[i] = out
	}

	batches := 0
	for start := 0; start < len(processed); start += p.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return batches, err
		}
		end := min(start+p.config.BatchSize, len(processed))
		batch, err := p.collator.Collate(processed[start:end])
		if err != nil {
			return batches, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("batch-%05d.json", batches))
		if err := writeBatch(path, batch); err != nil {
			return batches, err
		}
		batches++
	}

	p.logger.Info("packed split",
		log.Str("split", name),
		log.Int("examples", len(split)),
		log.Int("batches", batches))
	return batches, nil
}

// writeBatch persists one batch as JSON via an atomic rename.
func writeBatch(path string, batch domain.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ManifestDigest returns a hex digest over the dataset's manifest files,
// walked in sorted order so the digest is stable.
func ManifestDigest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		h.Write([]byte(name))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
