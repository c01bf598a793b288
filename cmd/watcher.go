package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamal-hamza/bobina/internal/core/domain"
)

// folderWatcher reports debounced changes to the CSV files below a folder
type folderWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	dirs     map[string]bool
}

func newFolderWatcher(root string, debounce time.Duration) (*folderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &folderWatcher{watcher: watcher, debounce: debounce, dirs: make(map[string]bool)}
	if _, err := w.addTree(root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch folder: %w", err)
	}

	return w, nil
}

func (w *folderWatcher) Close() error {
	return w.watcher.Close()
}

// addTree watches dir and every visible directory below it (fsnotify is not
// recursive). It reports whether the tree already holds a CSV.
func (w *folderWatcher) addTree(dir string) (bool, error) {
	hasCSV := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && domain.IsHiddenName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if domain.IsCSVName(d.Name()) {
				hasCSV = true
			}
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.dirs[path] = true
		return nil
	})
	return hasCSV, err
}

// dropTree forgets dir and everything watched below it. It reports whether
// dir was a watched directory.
func (w *folderWatcher) dropTree(dir string) bool {
	if !w.dirs[dir] {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for path := range w.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			// Removed directories are already unwatched
			_ = w.watcher.Remove(path)
			delete(w.dirs, path)
		}
	}
	return true
}

// Run calls onChange after each burst of changes to the CSV listing until ctx is done
func (w *folderWatcher) Run(ctx context.Context, onChange func()) error {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	schedule := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(w.debounce, onChange)
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			baseName := filepath.Base(event.Name)
			if domain.IsHiddenName(baseName) {
				continue
			}

			// A folder moved or copied in may already hold CSVs
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				hasCSV, err := w.addTree(event.Name)
				if err != nil {
					log.Printf("WARN: could not watch %s: %v", event.Name, err)
				}
				if hasCSV {
					schedule()
				}
				continue
			}

			// A removed or renamed folder takes its CSVs with it
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if w.dropTree(event.Name) {
					schedule()
					continue
				}
			}

			if !domain.IsCSVName(baseName) {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {
				schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WARN: watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
