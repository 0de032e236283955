// Package ratelimit implements a fixed-window request counter keyed by
// client address. Counts reset entirely when the window boundary is
// crossed; this is not a sliding-window or token-bucket scheme.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter allows exactly quota requests per key within each window. The
// quota'th-plus-one request in a window is denied without mutating the
// count. Entries are created lazily and replaced wholesale when their
// window expires; stale keys are never evicted, which is acceptable for
// a demo-sized key space only.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	quota   int
	window  time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Limiter with the given quota per window.
func New(quota int, window time.Duration) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		quota:   quota,
		window:  window,
		now:     time.Now,
	}
}

// Allow classifies a request from key. It cannot fail: the result is
// either allowed (count incremented) or denied (state untouched).
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}

	if e.count >= l.quota {
		return false
	}
	e.count++
	return true
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
