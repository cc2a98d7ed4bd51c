// Package ratelimit implements fixed-window admission control keyed by a
// stable per-user identity.
package ratelimit

import (
	"sync"
	"time"
)

// counter is one live window for an identity.
type counter struct {
	count   int
	resetAt time.Time
}

// Limiter admits requests with fixed-window counting. Counters whose window
// has passed are treated as absent and replaced wholesale on the next call,
// never merged. A burst straddling a window boundary can therefore admit up
// to twice the limit across the boundary; callers depend on this cheaper
// fixed-window behavior, so it is kept rather than upgraded to a sliding
// window.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a limiter with no live counters.
func NewLimiter(opts ...Option) *Limiter {
	l := &Limiter{
		counters:    make(map[string]*counter),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryAdmit reports whether a request for identity is admitted under the
// given limit and window. Admission creates or increments the live counter;
// rejection mutates nothing.
func (l *Limiter) TryAdmit(identity string, limit int, window time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[identity]
	if !ok || now.After(c.resetAt) {
		// Absent or expired: start a fresh window.
		l.counters[identity] = &counter{count: 1, resetAt: now.Add(window)}
		return true
	}

	if c.count < limit {
		c.count++
		return true
	}

	return false
}

// Remaining reports how many admissions are left in identity's live window
// under the given limit. Absent or expired counters have the full budget.
func (l *Limiter) Remaining(identity string, limit int) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[identity]
	if !ok || now.After(c.resetAt) {
		return limit
	}
	if c.count >= limit {
		return 0
	}
	return limit - c.count
}

// Cleanup removes every expired counter. Purely memory reclamation:
// TryAdmit already treats expired counters as absent, so removal has no
// observable effect on admission decisions.
func (l *Limiter) Cleanup() {
	now := l.now()

	// Collect candidates under the lock, then remove per entry so the lock
	// is never held across a full scan plus deletion of a large map.
	l.mu.Lock()
	expired := make([]string, 0, len(l.counters))
	for identity, c := range l.counters {
		if now.After(c.resetAt) {
			expired = append(expired, identity)
		}
	}
	l.mu.Unlock()

	for _, identity := range expired {
		l.mu.Lock()
		if c, ok := l.counters[identity]; ok && now.After(c.resetAt) {
			delete(l.counters, identity)
		}
		l.mu.Unlock()
	}
}

// StartCleanup runs Cleanup on the given interval until StopCleanup is
// called.
func (l *Limiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Cleanup()
			case <-l.stopCleanup:
				return
			}
		}
	}()
}

// StopCleanup stops the background sweep started by StartCleanup.
func (l *Limiter) StopCleanup() {
	l.stopOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// Size returns the number of counters currently held, live or expired.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}
