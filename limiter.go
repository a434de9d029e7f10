package sidekick

import (
	"sync"
	"time"
)

// Decision is the outcome of an admission check. RetryAfter is set only
// when the request was rejected: it is the time until the oldest retained
// timestamp leaves the window.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is a per-caller sliding-window admission counter. It admits
// bursts up to the maximum within any window but never smooths them; it is
// not a token bucket. Admit never fails, it only decides.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	callers map[string][]time.Time
	now     func() time.Time
}

// NewLimiter creates a Limiter admitting at most max requests per caller
// within any interval of the given window.
func NewLimiter(window time.Duration, max int) *Limiter {
	return &Limiter{
		window:  window,
		max:     max,
		callers: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Admit checks and records one request for the caller. The caller's window
// is pruned on every call, including rejected ones; the timestamp is
// appended only on admission.
func (l *Limiter) Admit(callerID string) Decision {
	if callerID == "" {
		callerID = DefaultCaller
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	retained := l.prune(callerID, now)

	if len(retained) >= l.max {
		oldest := retained[0]
		return Decision{RetryAfter: oldest.Add(l.window).Sub(now)}
	}

	l.callers[callerID] = append(retained, now)
	return Decision{Allowed: true}
}

// Recent returns the number of requests recorded across all callers within
// the current window. Read-only: it does not prune.
func (l *Limiter) Recent() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	var n int
	for _, stamps := range l.callers {
		for _, t := range stamps {
			if t.After(cutoff) {
				n++
			}
		}
	}
	return n
}

// Window returns the configured window duration.
func (l *Limiter) Window() time.Duration { return l.window }

// Max returns the configured per-caller maximum.
func (l *Limiter) Max() int { return l.max }

// prune drops timestamps older than now-window for a caller. Must be
// called with the lock held.
func (l *Limiter) prune(callerID string, now time.Time) []time.Time {
	stamps := l.callers[callerID]
	cutoff := now.Add(-l.window)

	valid := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	l.callers[callerID] = valid
	return valid
}
