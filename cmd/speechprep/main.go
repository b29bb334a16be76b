package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/speechprep"
	"github.com/bft-labs/speechprep/internal/cliconfig"
	"github.com/bft-labs/speechprep/pkg/log"
)

const helpDescription = `
Prepare speech-transcription training data for sequence-to-sequence models.

Highlights:
  - Rebalances dataset splits deterministically from a seed.
  - Computes log-mel features and token labels per example.
  - Packs examples into padded batches with loss-masked labels.
  - Configure via file, env (SPEECHPREP_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  speechprep rebalance --dataset-dir ./corpus --size test=10 --grow-split train
  speechprep pack --dataset-dir ./corpus --vocab ./vocab.json --batch-size 16
  speechprep pack --config $HOME/.speechprep/config.toml --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var sizePairs []string

	logger := log.NewZerologAdapter()

	root := &cobra.Command{
		Use:     "speechprep",
		Short:   "Prepare speech-transcription training data",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
	}

	// resolve layers file config, env and flags into cfg for a subcommand.
	resolve := func(cmd *cobra.Command) error {
		// Build set of changed flags
		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if changed["size"] {
			sizes, err := cliconfig.ParseSplitSizes(sizePairs)
			if err != nil {
				return err
			}
			cfg.SplitSizes = sizes
		}

		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}
		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		logger.Info("configuration", log.Any("config", cfg))
		return nil
	}

	rebalance := &cobra.Command{
		Use:   "rebalance",
		Short: "Shrink splits to target sizes, moving surplus into the grow split",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return speechprep.Rebalance(ctx, cfg, speechprep.WithLogger(logger))
		},
	}

	pack := &cobra.Command{
		Use:   "pack",
		Short: "Preprocess examples and write padded training batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			err := speechprep.Run(ctx, cfg, speechprep.WithLogger(logger))
			if errors.Is(err, context.Canceled) {
				logger.Info("received signal, stopping...")
				return nil
			}
			return err
		},
	}

	for _, cmd := range []*cobra.Command{rebalance, pack} {
		cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.speechprep/config.toml)")
		cmd.Flags().StringVar(&cfg.DatasetDir, "dataset-dir", "", "directory containing <split>.jsonl manifests")
		cmd.Flags().StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "output directory (default: <dataset-dir>/packed)")
		cmd.Flags().StringSliceVar(&sizePairs, "size", nil, "target split size as name=count (repeatable)")
		cmd.Flags().StringVar(&cfg.GrowSplit, "grow-split", cfg.GrowSplit, "split that receives surplus examples")
		cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for split selection")
		cmd.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	}

	pack.Flags().StringVar(&cfg.VocabPath, "vocab", cfg.VocabPath, "tokenizer vocabulary JSON file")
	pack.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "examples per packed batch")
	pack.Flags().IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "expected audio sample rate in Hz")
	pack.Flags().IntVar(&cfg.FFTSize, "fft-size", cfg.FFTSize, "FFT window length in samples")
	pack.Flags().IntVar(&cfg.HopLength, "hop", cfg.HopLength, "hop length in samples")
	pack.Flags().IntVar(&cfg.MelBins, "mel-bins", cfg.MelBins, "number of mel filterbank channels")
	pack.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-pack when manifests change")

	root.AddCommand(rebalance, pack)

	if err := root.Execute(); err != nil {
		logger.Error("speechprep", log.Err(err))
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
