package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes the playbook tree of an OS-backed vault and invokes a
// callback when notes change out-of-band. Long-running servers use it to
// log external edits; per-turn reads always hit the filesystem directly,
// so the watcher is purely informational.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *zap.Logger
	done   chan struct{}
}

// Watch starts watching dir (and its immediate subdirectories) under the
// vault root. onChange is invoked with the vault-relative path of each
// created or modified file.
func Watch(store *OS, dir string, onChange func(path string), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating vault watcher: %w", err)
	}

	root := filepath.Join(store.Root(), filepath.FromSlash(dir))
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	// Watch one level of subdirectories (persona directories, etc.).
	dirents, err := os.ReadDir(root)
	if err == nil {
		for _, de := range dirents {
			if de.IsDir() {
				if err := fsw.Add(filepath.Join(root, de.Name())); err != nil {
					logger.Warn("watching subdirectory failed",
						zap.String("dir", de.Name()),
						zap.Error(err),
					)
				}
			}
		}
	}

	w := &Watcher{
		fsw:    fsw,
		logger: logger,
		done:   make(chan struct{}),
	}

	go w.loop(store.Root(), onChange)

	return w, nil
}

func (w *Watcher) loop(root string, onChange func(path string)) {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			rel, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}

			onChange(filepath.ToSlash(rel))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("vault watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
