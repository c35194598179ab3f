package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notepad/pkg/core"
)

const debounceWindow = 50 * time.Millisecond

// Watch implements core.Watchable. Events are reported for keys matching
// pattern (e.g. "*/*.json"); the system directory and temp files are ignored.
// The channel is closed when ctx is done.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.addGameDirs(ctx, watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)
	w := &watchLoop{
		storage:   s,
		pattern:   pattern,
		events:    events,
		watcher:   watcher,
		debouncer: newDebouncer(debounceWindow),
	}
	s.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("watcher stopped", "error", err)
	}))
	return events, nil
}

// addGameDirs watches the root and every game directory below it.
func (s *Storage) addGameDirs(ctx context.Context, watcher *fsnotify.Watcher) error {
	if err := watcher.Add(s.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}
	dirs, err := s.Dirs(ctx, "")
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := watcher.Add(filepath.Join(s.Path, d)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	return nil
}

type watchLoop struct {
	storage   *Storage
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	logger := w.storage.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.storage.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)
	// Flush pending timers before the events channel closes.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchLoop) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.storage.config.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *watchLoop) handle(ctx context.Context, event fsnotify.Event) {
	logger := w.storage.config.Logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	key, ok := w.storage.keyOf(event.Name)
	if !ok {
		return
	}

	// New game directories join the watch set.
	if event.Has(fsnotify.Create) && !strings.Contains(key, "/") {
		if err := w.watcher.Add(event.Name); err != nil {
			logger.Debug("not watching new entry", "name", event.Name, "error", err)
		}
		return
	}

	if matched, _ := doublestar.Match(w.pattern, key); !matched {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	e := core.Event{
		Type:      eType,
		Key:       key,
		Game:      path.Dir(key),
		Name:      strings.TrimSuffix(path.Base(key), core.RecordExt),
		Timestamp: time.Now().Unix(),
	}
	w.debouncer.add(e, func(e core.Event) {
		// The channel may already be closed if the loop gave up on a stuck reader.
		defer func() { _ = recover() }()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// keyOf maps an absolute path to a storage key, rejecting hidden, system and temp entries.
func (s *Storage) keyOf(name string) (string, bool) {
	rel, err := filepath.Rel(s.Path, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	key := filepath.ToSlash(rel)
	for _, part := range strings.Split(key, "/") {
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, TempFilePrefix) {
			return "", false
		}
	}
	return key, true
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

func (s *Storage) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

// debouncer coalesces bursts of events on the same key into the last one.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	pending map[string]*time.Timer
	latest  map[string]core.Event
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*time.Timer),
		latest:  make(map[string]core.Event),
	}
}

func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	// A create followed by writes is still a create.
	if prev, ok := d.latest[e.Key]; ok && prev.Type == core.EventCreate && e.Type == core.EventModify {
		e.Type = core.EventCreate
	}
	d.latest[e.Key] = e

	if t, ok := d.pending[e.Key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.pending[e.Key] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		last, ok := d.latest[e.Key]
		delete(d.latest, e.Key)
		delete(d.pending, e.Key)
		d.mu.Unlock()
		if ok {
			emit(last)
		}
	})
}

// stopAndWait rejects new events and waits for in-flight emits, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
