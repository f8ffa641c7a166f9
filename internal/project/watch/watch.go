// Package watch provides file watching support for continuous reindexing.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/cache"
)

// DefaultDebounce is the quiet period before changes are flushed as one
// batch. Editors and GameMaker itself write several files per save; one
// batch means one rebuild.
const DefaultDebounce = 250 * time.Millisecond

// Batch is a coalesced set of changed project files, root-relative,
// sorted and deduplicated.
type Batch struct {
	Paths []string
}

// Watcher watches a project tree and reports changed project files.
type Watcher struct {
	// fsWatcher is the underlying file watcher.
	fsWatcher *fsnotify.Watcher

	// root is the project root all reported paths are relative to.
	root string

	// debounce is the quiet period before a flush.
	debounce time.Duration

	// Events channel receives change batches.
	Events chan Batch

	// Errors channel receives watcher errors.
	Errors chan error

	// done signals the watcher to stop.
	done chan struct{}
}

// New creates a watcher over the project tree rooted at root. Pass zero
// debounce for the default.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		root:      absRoot,
		debounce:  debounce,
		Events:    make(chan Batch, 16),
		Errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}

	if err := w.addTree(absRoot); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run()

	return w, nil
}

// addTree watches dir and all its non-ignored subdirectories. fsnotify
// watches are per-directory, so new directories are added as they appear.
func (w *Watcher) addTree(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || ignoredDir(e.Name()) {
			continue
		}
		if err := w.addTree(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == cache.DirName || name == "datafiles"
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// run processes filesystem events, coalescing bursts into one batch per
// quiet period.
func (w *Watcher) run() {
	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.handle(event, pending) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := Batch{Paths: make([]string, 0, len(pending))}
			for p := range pending {
				batch.Paths = append(batch.Paths, p)
			}
			sort.Strings(batch.Paths)
			pending = map[string]bool{}
			select {
			case w.Events <- batch:
			case <-w.done:
				return
			}
		}
	}
}

// handle folds one fsnotify event into the pending set and reports whether
// the debounce timer should restart.
func (w *Watcher) handle(event fsnotify.Event, pending map[string]bool) bool {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&relevant == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !ignoredDir(filepath.Base(event.Name)) {
				if err := w.addTree(event.Name); err != nil {
					select {
					case w.Errors <- err:
					default:
					}
				}
			}
			return false
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if filekind.Detect(rel) == filekind.KindUnknown {
		return false
	}
	pending[rel] = true
	return true
}
