package sidekick

import "time"

// Meter observes gateway events for monitoring/logging.
type Meter interface {
	// OnRequest is called for every admission check.
	OnRequest(event RequestEvent)

	// OnUpstream is called when the completion service returns a result.
	OnUpstream(event UpstreamEvent)
}

// RequestEvent describes one admission check.
type RequestEvent struct {
	ID         string
	Kind       Kind
	Caller     string
	Allowed    bool
	RetryAfter time.Duration
}

// UpstreamEvent describes the outcome of a completion service call.
type UpstreamEvent struct {
	ID       string
	Kind     Kind
	Model    string
	Success  bool
	Duration time.Duration
	Usage    Usage
	Error    error
}
