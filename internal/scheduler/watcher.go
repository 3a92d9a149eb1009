package scheduler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/favorites/internal/logger"
)

// Watcher watches the project tree and calls onChange when something is
// removed or renamed, which is when favorites can go stale. New directories
// are added to the watch as they appear.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	onChange func(reason string)
	logger   logger.Logger
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher starts watching every non-hidden directory under root.
func NewWatcher(root string, onChange func(reason string), log logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		onChange: onChange,
		logger:   log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	if err := w.watchRecursive(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) watchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// Start processes events until Close.
func (w *Watcher) Start() {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-w.stopCh:
				return
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", logger.Error(err))
			case evt, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(evt)
			}
		}
	}()
}

func (w *Watcher) handle(evt fsnotify.Event) {
	name := filepath.Base(evt.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	switch {
	case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
		w.logger.Debug("resource removed or renamed", logger.String("path", evt.Name))
		w.onChange(TriggerWatch)
	case evt.Has(fsnotify.Create):
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.watchRecursive(evt.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					logger.String("path", evt.Name),
					logger.Error(err))
			}
		}
	}
}

// Close stops the event loop and releases the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}
