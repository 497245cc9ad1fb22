package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-anniversary/internal/config"
)

// Watcher calls onChange when the store file is modified by another
// process. Bursts of events are collapsed into one call.
//
// The parent directory is watched rather than the file itself, so that
// atomic replace-by-rename writes are seen too.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	onChange func()
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewWatcher starts watching path. A zero debounce uses config.WatchDebounce.
func NewWatcher(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}
	if debounce <= 0 {
		debounce = config.WatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}

	w := &Watcher{
		watcher:  fsw,
		target:   absPath,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	log := slog.With(config.LogKeyComponent, config.CompWatcher)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(log)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn(config.MsgWatchError, config.LogKeyError, err)

		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(log *slog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		log.Debug(config.MsgWatchReload, config.LogKeyFile, w.target)
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Close stops watching and cancels any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
