// This file implements a file system watcher over the dropbox root. The
// loader polls the folders on its own schedule; the watcher only gives
// operators a log trail of workbook arrivals.

package dropbox

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the dropbox tree and logs each workbook dropped into it.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the given dropbox root.
func NewWatcher(root string) *Watcher {
	return &Watcher{
		root:     root,
		stopChan: make(chan struct{}),
	}
}

// Start begins watching the dropbox root and all load folders under it.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	log.Printf("Dropbox watcher started for: %s", w.root)
	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Dropbox watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != fsnotify.Create {
		return
	}

	// A new load folder: start watching it too.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		w.watcher.Add(event.Name)
		return
	}

	if isWorkbook(event.Name) {
		log.Printf("Workbook arrived in dropbox: %s (loader will pick it up)", event.Name)
	}
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}
