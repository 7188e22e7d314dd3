// Package watch re-runs a check whenever watched documents change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Options configure a watch loop.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Func handles a batch of changed paths. The first call, made before any
// change, receives every watched path.
type Func func(ctx context.Context, changed []string) error

// Run calls fn once for all paths, then again after every debounced batch of
// changes until ctx is cancelled. Errors from fn are logged and the loop
// continues.
func Run(ctx context.Context, paths []string, opts Options, fn Func) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Directories are watched instead of files so editors that replace a
	// file on save keep being followed.
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	if err := fn(ctx, paths); err != nil {
		logger.Error("check failed", "error", err)
	}

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		fire    = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			orig, ok := watched[filepath.Clean(event.Name)]
			if !ok {
				continue
			}

			pending[orig] = true

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			if len(changed) == 0 {
				continue
			}
			slices.Sort(changed)

			logger.Debug("files changed, re-checking", "files", changed)
			if err := fn(ctx, changed); err != nil {
				logger.Error("check failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
