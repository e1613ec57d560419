package auth

import "sync"

// valueCell holds a string and publishes every change of it to its
// watchers. Setting the value it already holds publishes nothing.
//
// Each watcher owns a channel with room for one value. A watcher that falls
// behind only ever sees the most recent value; intermediate values are
// dropped.
type valueCell struct {
	mu       sync.Mutex
	value    string
	watchers map[int]chan string
	nextID   int
}

func newValueCell() *valueCell {
	return &valueCell{
		watchers: map[int]chan string{},
	}
}

func (v *valueCell) get() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// set replaces the value and reports whether it changed.
func (v *valueCell) set(value string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if value == v.value {
		return false
	}
	v.value = value
	for _, ch := range v.watchers {
		// Only set() sends, and only while holding the lock, so once a stale
		// value is drained there is guaranteed room.
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
	return true
}

// watch returns a channel on which every subsequent change is published and
// a function that stops the publishing and closes the channel.
func (v *valueCell) watch() (<-chan string, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	ch := make(chan string, 1)
	v.watchers[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.watchers, id)
			close(ch)
		})
	}
}
