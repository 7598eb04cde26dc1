package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

type stamp struct {
	modTime time.Time
	size    int64
}

// PollWatcher is a polling-based watcher portable across OSes. It compares
// modification times and sizes on every tick.
type PollWatcher struct {
	interval time.Duration

	mu    sync.Mutex
	roots map[string]map[string]stamp // watched name -> path -> last seen

	evC  chan Event
	erC  chan error
	done chan struct{}
	once sync.Once
}

// NewPollWatcher starts a watcher scanning every interval. If interval<=0,
// defaults to DefaultPollInterval.
func NewPollWatcher(interval time.Duration) *PollWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &PollWatcher{
		interval: interval,
		roots:    make(map[string]map[string]stamp),
		evC:      make(chan Event, 64),
		erC:      make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *PollWatcher) Events() <-chan Event { return w.evC }
func (w *PollWatcher) Errors() <-chan error { return w.erC }

// Add records the current state of name, a file or a directory, so that only
// later changes are reported.
func (w *PollWatcher) Add(name string) error {
	name = filepath.Clean(name)
	snap, err := snapshot(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.roots[name] = snap
	w.mu.Unlock()
	return nil
}

func (w *PollWatcher) Remove(name string) error {
	w.mu.Lock()
	delete(w.roots, filepath.Clean(name))
	w.mu.Unlock()
	return nil
}

func (w *PollWatcher) Close() error {
	w.once.Do(func() { close(w.done) })
	return nil
}

func (w *PollWatcher) loop() {
	defer close(w.evC)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			for _, ev := range w.scan() {
				select {
				case w.evC <- ev:
				case <-w.done:
					return
				}
			}
		}
	}
}

// scan diffs every root against its previous snapshot.
func (w *PollWatcher) scan() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var events []Event
	for root, prev := range w.roots {
		cur, err := snapshot(root)
		if err != nil {
			select {
			case w.erC <- err:
			default:
			}
			continue
		}

		for path, st := range cur {
			old, ok := prev[path]
			switch {
			case !ok:
				events = append(events, Event{Path: path, Op: OpCreate, Time: now})
			case !old.modTime.Equal(st.modTime) || old.size != st.size:
				events = append(events, Event{Path: path, Op: OpWrite, Time: now})
			}
		}
		for path := range prev {
			if _, ok := cur[path]; !ok {
				events = append(events, Event{Path: path, Op: OpRemove, Time: now})
			}
		}
		w.roots[root] = cur
	}
	return events
}

// snapshot stats name, or each entry of name when it is a directory.
func snapshot(name string) (map[string]stamp, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return map[string]stamp{name: {info.ModTime(), info.Size()}}, nil
	}

	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	snap := make(map[string]stamp, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		snap[filepath.Join(name, entry.Name())] = stamp{info.ModTime(), info.Size()}
	}
	return snap, nil
}
