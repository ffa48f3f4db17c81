// Package filewatch monitors a drop directory and feeds plan export
// files through the import pipeline.
package filewatch

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one directory for dropped plan files.
type Watcher struct {
	watcher *fsnotify.Watcher
	apply   func(path string) error
}

// New watches dir. apply is invoked for every JSON file written into
// it; an apply failure is logged, never fatal.
func New(dir string, apply func(path string) error) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, apply: apply}, nil
}

// Watch processes events until ctx is done or the watcher closes.
func (fw *Watcher) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				fw.handle(event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WARN filewatch: %v", err)
		}
	}
}

func (fw *Watcher) Close() error {
	return fw.watcher.Close()
}

// handle filters for plan files and runs the import.
func (fw *Watcher) handle(path string) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return
	}
	log.Printf("INFO filewatch: importing %s", path)
	if err := fw.apply(path); err != nil {
		log.Printf("WARN filewatch: import %s failed: %v", path, err)
		return
	}
	log.Printf("INFO filewatch: imported %s", path)
}
