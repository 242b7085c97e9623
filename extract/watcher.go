package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// DefaultDebounce is how long a Watcher waits for the simulator to finish
// rewriting the dump before re-extracting.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc is invoked after each settled change to the watched file. The
// run ID correlates the log lines of one regeneration.
type RunFunc func(ctx context.Context, runID string) error

// Watcher re-runs an extraction whenever the VCD file is rewritten.
// Simulators typically truncate and rewrite the dump on every run, so
// events are debounced and coalesced into a single regeneration.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	run      RunFunc
}

// NewWatcher creates a watcher for the given VCD file. A non-positive
// debounce falls back to DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger, run RunFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, debounce: debounce, logger: logger, run: run}
}

// Watch blocks, regenerating on changes, until the context is cancelled.
// The directory is watched rather than the file itself so that simulators
// that replace the file (write to temp, rename over) are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching VCD file",
		slog.String("path", w.path),
		slog.Duration("debounce", w.debounce))

	base := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", slog.String("error", err.Error()))

		case <-fire:
			timer = nil
			fire = nil
			runID := uuid.New().String()
			w.logger.Info("VCD file changed, regenerating",
				slog.String("run_id", runID),
				slog.String("path", w.path))
			if err := w.run(ctx, runID); err != nil {
				w.logger.Error("Regeneration failed",
					slog.String("run_id", runID),
					slog.String("error", err.Error()))
			}
		}
	}
}
