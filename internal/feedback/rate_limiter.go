package feedback

import (
	"sync"
	"time"
)

// FixedWindowLimiter caps submissions per client IP in a fixed window. It is
// process-local and best-effort: state resets on restart, which is
// acceptable because its purpose is abuse mitigation, not accounting. The
// clock is injected so tests can drive window expiry without sleeping.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	entries map[string]*windowEntry

	cleanupTick *time.Ticker
	stopChan    chan struct{}
	stopOnce    sync.Once
}

type windowEntry struct {
	start time.Time
	count int
}

// NewFixedWindowLimiter creates a limiter allowing max requests per window
// per key. A nil now falls back to time.Now.
func NewFixedWindowLimiter(max int, window time.Duration, now func() time.Time) *FixedWindowLimiter {
	if now == nil {
		now = time.Now
	}

	limiter := &FixedWindowLimiter{
		max:         max,
		window:      window,
		now:         now,
		entries:     make(map[string]*windowEntry),
		cleanupTick: time.NewTicker(5 * time.Minute),
		stopChan:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// Allow reports whether a request from the given key may proceed, and counts
// it if so. The window is fixed, not sliding: it opens at the first request
// and resets entirely once it elapses.
func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.start) >= l.window {
		l.entries[key] = &windowEntry{start: now, count: 1}
		return true
	}

	if entry.count >= l.max {
		return false
	}
	entry.count++
	return true
}

// cleanup periodically drops expired windows so idle keys do not accumulate.
func (l *FixedWindowLimiter) cleanup() {
	for {
		select {
		case <-l.cleanupTick.C:
			l.mu.Lock()
			now := l.now()
			for key, entry := range l.entries {
				if now.Sub(entry.start) >= l.window {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopChan:
			return
		}
	}
}

// Stop halts the cleanup goroutine. The limiter must not be used after Stop.
func (l *FixedWindowLimiter) Stop() {
	l.stopOnce.Do(func() {
		l.cleanupTick.Stop()
		close(l.stopChan)
	})
}
