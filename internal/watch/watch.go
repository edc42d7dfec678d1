// Package watch reports batches of changed .hal files under the package
// roots. Batches are debounced and filtered by content fingerprint, so a
// save that leaves the bytes unchanged does not trigger a new check.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"hidl/internal/project"
)

// DefaultDebounce is the quiet period after the last event of a batch.
const DefaultDebounce = 200 * time.Millisecond

var skipDirs = map[string]bool{
	".git":    true,
	".repo":   true,
	"default": true, // реализации HAL, не .hal-модули
}

// Watcher follows every directory under a set of roots.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	prints   *Fingerprints
}

// New starts watching dirs recursively. Missing directories are skipped;
// every .hal file found is fingerprinted up front.
func New(dirs []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{fsw: fsw, debounce: debounce, prints: NewFingerprints()}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	list := w.fsw.WatchList()
	slices.Sort(list)
	return list
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers sorted batches of changed files until ctx is done or the
// watcher is closed. onError receives non-fatal watcher errors.
func (w *Watcher) Run(ctx context.Context, onError func(error)) <-chan []string {
	out := make(chan []string)
	go func() {
		defer close(out)
		pending := make(map[string]struct{})
		timer := time.NewTimer(w.debounce)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if w.handle(ev, onError) {
					pending[ev.Name] = struct{}{}
					timer.Reset(w.debounce)
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			case <-timer.C:
				if len(pending) == 0 {
					continue
				}
				batch := make([]string, 0, len(pending))
				for path := range pending {
					batch = append(batch, path)
				}
				slices.Sort(batch)
				clear(pending)
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// handle updates watches for new directories and reports whether ev is a
// content change of a .hal file.
func (w *Watcher) handle(ev fsnotify.Event, onError func(error)) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil && onError != nil {
				onError(err)
			}
			return false
		}
	}
	if !strings.HasSuffix(ev.Name, project.Ext) || ev.Op == fsnotify.Chmod {
		return false
	}
	return w.prints.Update(ev.Name)
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return w.fsw.Add(path)
		}
		if strings.HasSuffix(path, project.Ext) {
			w.prints.Update(path)
		}
		return nil
	})
	return err
}
