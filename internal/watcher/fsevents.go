package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last event before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a reload function whenever the watched file is written or
// recreated. A failed reload is logged and the previous state is kept.
type Watcher struct {
	path     string
	reload   func() error
	logger   zerolog.Logger
	debounce time.Duration

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new Watcher for path.
func New(path string, reload func() error, logger zerolog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch path cannot be empty")
	}
	if reload == nil {
		return nil, errors.New("reload function cannot be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		reload:   reload,
		logger:   logger.With().Str("component", "config-watcher").Str("path", abs).Logger(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the debounce period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. The file's directory must exist; the file itself
// may not exist yet.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()

	w.logger.Debug().Msg("watching config file")
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("fsnotify error")

		case <-fire:
			fire = nil
			if err := w.reload(); err != nil {
				w.logger.Error().Err(err).Msg("config reload failed, keeping previous config")
				continue
			}
			w.logger.Info().Msg("config reloaded")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}
