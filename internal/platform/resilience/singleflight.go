package resilience

import "sync"

// Flight deduplicates concurrent calls sharing a key: the first caller runs
// fn, later callers block and receive the same result.
type Flight struct {
	mu      sync.Mutex
	pending map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The third return value reports whether
// the result came from another caller's invocation.
func (f *Flight) Do(key string, fn func() (any, error)) (any, error, bool) {
	f.mu.Lock()
	if f.pending == nil {
		f.pending = make(map[string]*flightCall)
	}

	if c, ok := f.pending[key]; ok {
		f.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	f.pending[key] = c
	f.mu.Unlock()

	c.val, c.err = fn()

	f.mu.Lock()
	delete(f.pending, key)
	f.mu.Unlock()
	close(c.done)

	return c.val, c.err, false
}
