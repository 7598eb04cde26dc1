// Package watch reports changes to source files so the driver can rebuild
// them. Native notifications come from fsnotify; a polling watcher covers
// systems without them.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// Op indicates a change operation in the filesystem.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher provides a platform-independent file watching API. Adding a
// directory reports changes to the files directly inside it.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// DefaultPollInterval is the scan period of the polling fallback.
const DefaultPollInterval = 250 * time.Millisecond

// DefaultDebounce is how long a Loop waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// New returns an fsnotify watcher, or a polling watcher scanning every
// pollInterval when native notifications are unavailable.
func New(pollInterval time.Duration) Watcher {
	if w, err := NewFSWatcher(); err == nil {
		return w
	}
	return NewPollWatcher(pollInterval)
}

// Loop turns raw events into debounced rebuild requests for a set of files.
type Loop struct {
	Watcher  Watcher
	Debounce time.Duration

	// OnError receives watcher errors; they do not stop the loop.
	OnError func(error)
}

// Run watches paths until ctx is done or the watcher is closed. After a
// burst of writes settles, fn is called once with the sorted list of
// changed paths, as given in paths.
//
// The parent directories are watched rather than the files, since editors
// often replace a file instead of writing it in place.
func (l *Loop) Run(ctx context.Context, paths []string, fn func(changed []string)) error {
	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := l.Watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	debounce := l.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]bool)
	events := l.Watcher.Events()
	errs := l.Watcher.Errors()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op&(OpCreate|OpWrite) == 0 {
				continue
			}
			name, ok := targets[filepath.Clean(ev.Path)]
			if !ok {
				continue
			}
			pending[name] = true

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if l.OnError != nil {
				l.OnError(err)
			}

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			slices.Sort(changed)
			clear(pending)
			fn(changed)
		}
	}
}
