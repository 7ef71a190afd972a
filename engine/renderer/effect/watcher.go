//go:build linux || darwin || windows || freebsd

package effect

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"
	"github.com/fsnotify/fsnotify"
)

// sourceWatcher forwards writes, creates and renames of shader sources as source names.
type sourceWatcher struct {
	w    *fsnotify.Watcher
	lib  shader.Library
	emit func(names ...string)
	done chan struct{}
	once sync.Once
}

func newSourceWatcher(lib shader.Library, emit func(names ...string)) (*sourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("effect watcher: %w", err)
	}
	for _, dir := range lib.Dirs() {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("effect watcher %s: %w", dir, err)
		}
	}
	sw := &sourceWatcher{w: w, lib: lib, emit: emit, done: make(chan struct{})}
	go sw.loop()
	return sw, nil
}

func (sw *sourceWatcher) loop() {
	defer close(sw.done)
	for {
		select {
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if name, ok := sw.lib.NameForPath(ev.Name); ok {
				common.Logger().Debug("shader source changed", "source", name, "op", ev.Op.String())
				sw.emit(name)
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("shader watcher error", "error", err)
		}
	}
}

func (sw *sourceWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		err = sw.w.Close()
		<-sw.done
	})
	return err
}
