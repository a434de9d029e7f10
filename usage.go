package sidekick

import (
	"sync"
	"time"
)

// Recorder aggregates request counters for the stats snapshot. Every
// admission check records, success or failure, so rate-limit pressure
// stays visible.
type Recorder struct {
	mu     sync.Mutex
	start  time.Time
	total  int64
	byKind map[Kind]int64
	now    func() time.Time
}

// NewRecorder creates a Recorder with its start time set to now.
func NewRecorder() *Recorder {
	return &Recorder{
		start:  time.Now(),
		byKind: make(map[Kind]int64),
		now:    time.Now,
	}
}

// Record counts one request of the given kind.
func (r *Recorder) Record(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	r.byKind[kind]++
}

// Total returns the total request count.
func (r *Recorder) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ByKind returns a copy of the per-kind counters.
func (r *Recorder) ByKind() map[Kind]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Kind]int64, len(r.byKind))
	for k, v := range r.byKind {
		out[k] = v
	}
	return out
}

// Uptime returns the time elapsed since the recorder was created.
func (r *Recorder) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.start)
}
