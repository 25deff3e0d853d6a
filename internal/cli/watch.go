package cli

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a fixed set of files. It watches their
// parent directories so editors that save by rename are still seen.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	targets  map[string]bool
	debounce time.Duration
	pending  map[string]time.Time
}

// newFileWatcher starts watching paths. Events are only delivered once
// Run is called.
func newFileWatcher(paths []string, debounce time.Duration, logger *log.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &fileWatcher{
		watcher:  w,
		logger:   logger,
		targets:  make(map[string]bool, len(paths)),
		debounce: debounce,
		pending:  make(map[string]time.Time),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, err
		}
		logger.Debug("watching directory", "dir", d)
	}
	return fw, nil
}

// Close stops the underlying watcher.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

// Run calls onChange with the original absolute path of every target that
// was written and then left alone for the debounce interval. It returns nil
// when ctx ends or the watcher is closed.
func (fw *fileWatcher) Run(ctx context.Context, onChange func(path string)) error {
	tick := fw.debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			fw.handle(ev)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("watch error", "err", err)

		case now := <-ticker.C:
			for _, p := range fw.due(now) {
				onChange(p)
			}
		}
	}
}

func (fw *fileWatcher) handle(ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)
	if !fw.targets[name] {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	fw.logger.Debug("file changed", "path", name, "op", ev.Op.String())
	fw.pending[name] = time.Now()
}

// due removes and returns the pending paths quiet since before now-debounce.
func (fw *fileWatcher) due(now time.Time) []string {
	var out []string
	for p, last := range fw.pending {
		if now.Sub(last) >= fw.debounce {
			out = append(out, p)
			delete(fw.pending, p)
		}
	}
	sort.Strings(out)
	return out
}
