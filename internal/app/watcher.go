package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/speechprep/pkg/log"
)

const watchDebounce = 500 * time.Millisecond

// Watcher monitors a dataset directory via fsnotify and re-runs the pack
// whenever a manifest changes. Repacks are debounced so editor save bursts
// and multi-file syncs trigger a single run.
type Watcher struct {
	dir      string
	pipeline *Pipeline
	logger   log.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher over the given dataset directory.
func NewWatcher(dir string, pipeline *Pipeline, logger log.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Run packs once, then blocks watching for manifest changes until the
// context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.pack(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".jsonl") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceRepack(ctx, watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", log.Err(err))
		}
	}
}

func (w *Watcher) debounceRepack(ctx context.Context, delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(delay, func() {
		w.pack(ctx)
	})
}

func (w *Watcher) pack(ctx context.Context) {
	ran, err := w.pipeline.PackIfChanged(ctx)
	if err != nil {
		w.logger.Error("pack failed", log.Err(err))
		return
	}
	if !ran {
		w.logger.Debug("manifests unchanged, pack skipped")
	}
}
