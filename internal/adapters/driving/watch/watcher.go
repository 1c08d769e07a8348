// Package watch re-runs a transformation whenever one of its input files
// changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one transformation.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the inputs must stay quiet before a re-run.
	Debounce time.Duration

	// MinInterval is the minimum time between two runs. Zero means no
	// limit beyond the debounce.
	MinInterval time.Duration

	// OnRun is called after every run with its error, if any.
	OnRun func(err error)
}

// Watcher watches a fixed set of files. Their parent directories are
// watched rather than the files themselves, because editors often save by
// replacing the file.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	run      RunFunc
	debounce time.Duration
	limiter  *rate.Limiter
	onRun    func(err error)
}

// New creates a watcher for paths. Nothing is watched until Run.
func New(paths []string, run RunFunc, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing to watch", domain.ErrInvalidInput)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: no run function", domain.ErrInvalidInput)
	}

	files := make(map[string]bool, len(paths))
	dirSet := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		files[abs] = true
		dirSet[filepath.Dir(abs)] = true
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	onRun := opts.OnRun
	if onRun == nil {
		onRun = func(error) {}
	}

	return &Watcher{
		files:    files,
		dirs:     dirs,
		run:      run,
		debounce: debounce,
		limiter:  rate.NewLimiter(limit, 1),
		onRun:    onRun,
	}, nil
}

// Run performs an initial run, then re-runs after every burst of changes
// until ctx is canceled. Failed runs are reported through OnRun and do not
// stop the loop. Run returns nil when ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Info("Watching %d file(s) in %d directories", len(w.files), len(w.dirs))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			if err := w.limiter.Wait(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
					return nil
				}
				return err
			}
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) runOnce(ctx context.Context) {
	start := time.Now()
	err := w.run(ctx)
	if err != nil {
		logger.Error("Run failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
	} else {
		logger.Info("Run finished in %s", time.Since(start).Round(time.Millisecond))
	}
	w.onRun(err)
}
