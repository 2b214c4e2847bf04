package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 250 * time.Millisecond

// scriptWatcher re-runs a script whenever its file changes. It runs at most
// once: after Stop, or after the fsnotify channels close, Start does nothing.
type scriptWatcher struct {
	watcher   *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
	done      bool
}

func newScriptWatcher(path string, debounce time.Duration, onChange func() error, onError func(error)) (*scriptWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	// Watch the directory: editors that save by rename replace the inode.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	return &scriptWatcher{
		watcher:   w,
		path:      path,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

func (sw *scriptWatcher) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running || sw.done {
		return
	}
	sw.running = true
	go sw.loop()
}

// Stop ends watching and waits for the loop to exit.
func (sw *scriptWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.done = true
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.stoppedCh
}

func (sw *scriptWatcher) isRunning() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.running
}

func (sw *scriptWatcher) loop() {
	defer func() {
		sw.watcher.Close()
		sw.mu.Lock()
		sw.running = false
		sw.done = true
		sw.mu.Unlock()
		close(sw.stoppedCh)
	}()

	absPath, _ := filepath.Abs(sw.path)
	base := filepath.Base(sw.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if filepath.Base(ev.Name) != base && evAbs != absPath {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(sw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := sw.onChange(); err != nil && sw.onError != nil {
				sw.onError(err)
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}
