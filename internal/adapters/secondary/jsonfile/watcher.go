package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called once an export file has settled after a change.
type ChangeFunc func(ctx context.Context, variant string)

// Watcher reports replaced or rewritten export files. It watches the parent
// directories because exporters usually replace files by rename.
type Watcher struct {
	watcher  *fsnotify.Watcher
	variants map[string]string // cleaned file path -> variant
	debounce time.Duration
	onChange ChangeFunc
	logger   *slog.Logger
}

// NewWatcher watches the given variant files. Events for a file are
// coalesced until it has been quiet for debounce.
func NewWatcher(paths map[string]string, debounce time.Duration, onChange ChangeFunc, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		variants: make(map[string]string, len(paths)),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.With("component", "export_watcher"),
	}

	dirs := make(map[string]struct{})
	for variant, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		w.variants[abs] = variant
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)
	for _, dir := range sorted {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run dispatches settled changes until ctx is cancelled, then releases the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			variant, ok := w.variants[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			w.logger.Debug("export changed", "variant", variant, "op", event.Op.String())
			pending[variant] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)

		case now := <-ticker.C:
			for variant, at := range pending {
				if now.Sub(at) < w.debounce {
					continue
				}
				delete(pending, variant)
				w.logger.Info("export settled, reloading", "variant", variant)
				w.onChange(ctx, variant)
			}
		}
	}
}
