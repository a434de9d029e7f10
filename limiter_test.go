package sidekick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock steps time manually for deterministic window tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiter_AdmitsUpToMax(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 3)
	l.now = clock.now

	for i := 0; i < 3; i++ {
		d := l.Admit("a")
		assert.True(t, d.Allowed, "request %d should be admitted", i)
	}

	d := l.Admit("a")
	assert.False(t, d.Allowed)
	assert.Equal(t, 60*time.Second, d.RetryAfter)
}

func TestLimiter_NeverExceedsMaxWithinWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 5)
	l.now = clock.now

	var admitted int
	for i := 0; i < 20; i++ {
		if l.Admit("a").Allowed {
			admitted++
		}
		clock.advance(time.Second)
	}
	// 20 seconds elapsed, all inside one window: at most 5 admissions.
	assert.Equal(t, 5, admitted)
}

func TestLimiter_WindowSlides(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 2)
	l.now = clock.now

	require.True(t, l.Admit("a").Allowed)
	clock.advance(30 * time.Second)
	require.True(t, l.Admit("a").Allowed)

	d := l.Admit("a")
	require.False(t, d.Allowed)
	// The oldest timestamp exits the window in 30s.
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	clock.advance(31 * time.Second)
	assert.True(t, l.Admit("a").Allowed)
}

func TestLimiter_PruningIsMonotonic(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(10*time.Second, 100)
	l.now = clock.now

	for i := 0; i < 5; i++ {
		l.Admit("a")
		clock.advance(3 * time.Second)
	}

	// After each prune, retained count only ever shrinks from aging out,
	// never regrows a pruned entry.
	prev := len(l.callers["a"])
	for i := 0; i < 5; i++ {
		clock.advance(3 * time.Second)
		l.Admit("a")
		cur := len(l.callers["a"])
		assert.LessOrEqual(t, cur, prev+1)
		prev = cur
	}
}

func TestLimiter_CallersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 1)
	l.now = clock.now

	require.True(t, l.Admit("a").Allowed)
	assert.False(t, l.Admit("a").Allowed)
	assert.True(t, l.Admit("b").Allowed)
}

func TestLimiter_EmptyCallerUsesDefault(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 1)
	l.now = clock.now

	require.True(t, l.Admit("").Allowed)
	assert.False(t, l.Admit(DefaultCaller).Allowed)
}

func TestLimiter_RejectedCallsStillPrune(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(10*time.Second, 2)
	l.now = clock.now

	require.True(t, l.Admit("a").Allowed)
	require.True(t, l.Admit("a").Allowed)

	clock.advance(8 * time.Second)
	require.False(t, l.Admit("a").Allowed)
	assert.Len(t, l.callers["a"], 2, "rejection must not append a timestamp")

	clock.advance(3 * time.Second)
	require.True(t, l.Admit("a").Allowed)
	assert.Len(t, l.callers["a"], 1, "stale timestamps pruned before admitting")
}

func TestLimiter_Recent(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(60*time.Second, 10)
	l.now = clock.now

	l.Admit("a")
	l.Admit("b")
	l.Admit("b")
	assert.Equal(t, 3, l.Recent())

	clock.advance(61 * time.Second)
	assert.Equal(t, 0, l.Recent())
}
