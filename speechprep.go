// Package speechprep prepares speech-transcription training data for a
// sequence-to-sequence model: it rebalances dataset splits and converts raw
// audio/text examples into padded numeric batches.
//
// Example usage:
//
//	cfg := speechprep.DefaultConfig()
//	cfg.DatasetDir = "/data/corpus"
//	cfg.VocabPath = "/data/vocab.json"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := speechprep.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package speechprep

import (
	"context"
	"fmt"

	"github.com/bft-labs/speechprep/internal/app"
	"github.com/bft-labs/speechprep/internal/cliconfig"
	"github.com/bft-labs/speechprep/internal/collate"
	"github.com/bft-labs/speechprep/internal/feature"
	"github.com/bft-labs/speechprep/internal/tokenizer"
	"github.com/bft-labs/speechprep/pkg/log"
	"github.com/bft-labs/speechprep/pkg/state"
)

// Config holds the configuration for the data preparation pipeline.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set DatasetDir (and VocabPath for packing).
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Option configures optional behavior of a pipeline run.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets the logger used by the pipeline.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Run executes the packing pipeline with the given configuration: load
// manifests, rebalance when target sizes are set, preprocess every example
// and write padded batches. With cfg.Watch set it blocks, re-packing on
// manifest changes, until the context is cancelled.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	o := applyOptions(opts)

	if cfg.VocabPath == "" {
		return fmt.Errorf("vocab path is required for packing")
	}
	extractor, err := feature.NewLogMel(feature.Config{
		SampleRate: cfg.SampleRate,
		FFTSize:    cfg.FFTSize,
		HopLength:  cfg.HopLength,
		MelBins:    cfg.MelBins,
	})
	if err != nil {
		return err
	}
	tok, err := tokenizer.Load(cfg.VocabPath)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, extractor, tok, o.logger)
	if cfg.Watch {
		return app.NewWatcher(cfg.DatasetDir, pipeline, o.logger).Run(ctx)
	}
	return pipeline.Pack(ctx)
}

// Rebalance adjusts split sizes per cfg.SplitSizes, moving surplus
// examples into cfg.GrowSplit, and writes the resulting manifests under
// cfg.OutDir.
func Rebalance(ctx context.Context, cfg Config, opts ...Option) error {
	o := applyOptions(opts)

	if len(cfg.SplitSizes) == 0 {
		return fmt.Errorf("at least one split size is required")
	}

	// Rebalancing never touches audio features or labels, so the
	// collaborators stay unset.
	pipeline := newPipeline(cfg, nil, nil, o.logger)
	return pipeline.Rebalance(ctx)
}

func newPipeline(cfg Config, extractor collate.FeatureExtractor, tok collate.Tokenizer, logger log.Logger) *app.Pipeline {
	return app.NewPipeline(
		app.Config{
			DatasetDir: cfg.DatasetDir,
			OutDir:     cfg.OutDir,
			GrowSplit:  cfg.GrowSplit,
			Seed:       cfg.Seed,
			SplitSizes: app.SplitSizesFromMap(cfg.SplitSizes),
			BatchSize:  cfg.BatchSize,
		},
		extractor,
		tok,
		state.NewFileRepository(cfg.OutDir),
		logger,
	)
}

func applyOptions(opts []Option) options {
	o := options{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
