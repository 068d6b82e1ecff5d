// Package changefeed fans out "document changed" signals to in-process watchers.
package changefeed

import "sync"

// Feed delivers a wake-up signal per key. Signals coalesce: a watcher that has
// not consumed the previous signal does not receive a second one.
type Feed struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
}

type watcher struct {
	ch chan struct{}
}

func New() *Feed {
	return &Feed{watchers: make(map[string]map[*watcher]struct{})}
}

// Publish wakes every watcher registered for key.
func (f *Feed) Publish(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for w := range f.watchers[key] {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
}

// Watch registers interest in key. The returned stop function is safe to call
// more than once.
func (f *Feed) Watch(key string) (<-chan struct{}, func()) {
	w := &watcher{ch: make(chan struct{}, 1)}

	f.mu.Lock()
	set, ok := f.watchers[key]
	if !ok {
		set = make(map[*watcher]struct{})
		f.watchers[key] = set
	}
	set[w] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.watchers[key], w)
			if len(f.watchers[key]) == 0 {
				delete(f.watchers, key)
			}
		})
	}
	return w.ch, stop
}

// Len returns the number of watchers for key.
func (f *Feed) Len(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers[key])
}
