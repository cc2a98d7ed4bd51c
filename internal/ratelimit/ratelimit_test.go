package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/chainvault/chainvault-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLimiter_AdmitsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	window := time.Second
	for i := 0; i < 3; i++ {
		assert.True(t, l.TryAdmit("user-1", 3, window), "call %d should be admitted", i+1)
	}
	assert.False(t, l.TryAdmit("user-1", 3, window), "4th call should be rejected")

	// Rejection must not consume budget: still rejected, not re-counted.
	assert.False(t, l.TryAdmit("user-1", 3, window))
}

func TestLimiter_WindowExpiryResetsCounter(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	window := time.Second
	for i := 0; i < 3; i++ {
		assert.True(t, l.TryAdmit("user-1", 3, window))
	}
	assert.False(t, l.TryAdmit("user-1", 3, window))

	clock.Advance(window + time.Millisecond)
	assert.True(t, l.TryAdmit("user-1", 3, window), "call after window elapses should succeed")
}

func TestLimiter_FixedWindowBoundaryBurst(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	window := time.Second
	admitted := 0
	for i := 0; i < 3; i++ {
		if l.TryAdmit("user-1", 3, window) {
			admitted++
		}
	}

	// Just past the boundary a full fresh budget opens up: up to 2x limit
	// across the boundary is the documented fixed-window artifact.
	clock.Advance(window + time.Millisecond)
	for i := 0; i < 3; i++ {
		if l.TryAdmit("user-1", 3, window) {
			admitted++
		}
	}
	assert.Equal(t, 6, admitted)
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	assert.True(t, l.TryAdmit("user-1", 1, time.Second))
	assert.False(t, l.TryAdmit("user-1", 1, time.Second))
	assert.True(t, l.TryAdmit("user-2", 1, time.Second))
}

func TestLimiter_RemainingTracksBudget(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	window := time.Second
	assert.Equal(t, 3, l.Remaining("user-1", 3), "untouched identity has full budget")

	l.TryAdmit("user-1", 3, window)
	assert.Equal(t, 2, l.Remaining("user-1", 3))

	l.TryAdmit("user-1", 3, window)
	l.TryAdmit("user-1", 3, window)
	assert.Equal(t, 0, l.Remaining("user-1", 3))

	// Reading the budget never consumes it.
	assert.Equal(t, 0, l.Remaining("user-1", 3))

	clock.Advance(window + time.Millisecond)
	assert.Equal(t, 3, l.Remaining("user-1", 3), "expired window restores the budget")
}

func TestLimiter_CleanupRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	l.TryAdmit("stale", 5, time.Second)
	clock.Advance(2 * time.Second)
	l.TryAdmit("live", 5, time.Minute)

	assert.Equal(t, 2, l.Size())
	l.Cleanup()
	assert.Equal(t, 1, l.Size())

	// The surviving counter still enforces its budget.
	for i := 0; i < 4; i++ {
		assert.True(t, l.TryAdmit("live", 5, time.Minute))
	}
	assert.False(t, l.TryAdmit("live", 5, time.Minute))
}

func TestLimiter_CleanupHasNoEffectOnAdmission(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewLimiter(ratelimit.WithClock(clock.Now))

	l.TryAdmit("user-1", 3, time.Second)
	clock.Advance(2 * time.Second)

	// Expired counters are treated as absent whether or not Cleanup ran.
	l.Cleanup()
	assert.True(t, l.TryAdmit("user-1", 3, time.Second))
}

func TestLimiter_ConcurrentAdmitAndCleanup(t *testing.T) {
	l := ratelimit.NewLimiter()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			identity := string(rune('a' + g%4))
			for i := 0; i < 200; i++ {
				l.TryAdmit(identity, 50, 10*time.Millisecond)
				if i%20 == 0 {
					l.Cleanup()
				}
			}
		}(g)
	}
	wg.Wait()

	// No assertion beyond absence of races and panics; the map must still
	// be usable afterwards.
	assert.True(t, l.TryAdmit("final", 1, time.Second))
}
