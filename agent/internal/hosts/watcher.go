package hosts

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"gambleguard/agent/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange after the hosts file was written, replaced or
// removed by anyone, ourselves included. Bursts of events within the
// debounce window collapse into one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	onChange func()

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher watches the directory holding path, since editors and our own
// atomic writes replace the file rather than modify it.
func NewWatcher(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	logger.Infof("Watching hosts file: %s", abs)

	return &Watcher{
		watcher:  fw,
		target:   filepath.Clean(abs),
		debounce: debounce,
		onChange: onChange,
		stop:     make(chan struct{}),
	}, nil
}

// Run processes events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.wg.Add(1)
	go w.processEvents()

	select {
	case <-ctx.Done():
	case <-w.stop:
	}
	return w.Close()
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.target {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
				continue
			}
			logger.Debugf("Hosts file event: %s", evt)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Hosts watcher error: %v", err)
		}
	}
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		close(w.stop)
		if err := w.watcher.Close(); err != nil {
			closeErr = err
		}
	})
	w.wg.Wait()
	return closeErr
}
