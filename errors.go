package sidekick

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors.
var (
	ErrRateLimited          = errors.New("sidekick: rate limit exceeded")
	ErrContextNotFound      = errors.New("sidekick: context not found")
	ErrContextTooLarge      = errors.New("sidekick: context too large")
	ErrUpstreamUnavailable  = errors.New("sidekick: completion service unavailable")
	ErrUnsupportedOperation = errors.New("sidekick: operation not supported by completion service")
	ErrInvalidRequest       = errors.New("sidekick: invalid request")
	ErrNoItems              = errors.New("sidekick: no items to process")
)

// RateLimitError reports a rejected admission with the time to wait before
// the next request can be admitted.
type RateLimitError struct {
	Caller     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("sidekick: rate limit exceeded for caller %q, retry after %s",
		e.Caller, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ContextSizeError reports a context payload over the token budget.
type ContextSizeError struct {
	ID        string
	Estimated int
	Limit     int
}

func (e *ContextSizeError) Error() string {
	return fmt.Sprintf("sidekick: context %q too large: %d estimated tokens, maximum is %d",
		e.ID, e.Estimated, e.Limit)
}

func (e *ContextSizeError) Unwrap() error { return ErrContextTooLarge }

// NotFoundError reports a retrieve for an identifier that is not stored.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sidekick: context %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrContextNotFound }

// UpstreamError reports a failed call to the completion service with the
// attempted address, so callers can tell network problems from a stopped
// service.
type UpstreamError struct {
	Addr string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sidekick: completion service at %s: %v", e.Addr, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// BatchError is a partial-result error: a batch run that stopped early.
// Results holds everything produced before the stop, StopIndex is the
// position of the item that was not processed, and Err is the cause.
type BatchError struct {
	Results   []string
	StopIndex int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("sidekick: batch stopped at item %d after %d results: %v",
		e.StopIndex, len(e.Results), e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
