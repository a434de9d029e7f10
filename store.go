package sidekick

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Context is one cached payload with its metadata. Payloads are owned by
// the Store and live until cleared or process exit; nothing is persisted.
type Context struct {
	Data     string
	Tokens   int
	StoredAt time.Time
}

// Store is a bounded in-memory mapping from identifier to cached context.
type Store struct {
	mu        sync.RWMutex
	maxTokens int
	estimate  Estimator
	contexts  map[string]Context
	now       func() time.Time
}

// NewStore creates a Store rejecting payloads over maxTokens estimated
// tokens. A nil estimator falls back to EstimateTokens.
func NewStore(maxTokens int, estimate Estimator) *Store {
	if estimate == nil {
		estimate = EstimateTokens
	}
	return &Store{
		maxTokens: maxTokens,
		estimate:  estimate,
		contexts:  make(map[string]Context),
		now:       time.Now,
	}
}

// Put inserts or overwrites the context for id and returns the stored
// token count. Oversized payloads are rejected, never truncated.
func (s *Store) Put(id, text string) (int, error) {
	tokens := s.estimate(text)
	if tokens > s.maxTokens {
		return 0, &ContextSizeError{ID: id, Estimated: tokens, Limit: s.maxTokens}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.contexts[id] = Context{
		Data:     text,
		Tokens:   tokens,
		StoredAt: s.now(),
	}
	return tokens, nil
}

// Get returns the stored context for id verbatim.
func (s *Store) Get(id string) (Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, ok := s.contexts[id]
	if !ok {
		return Context{}, &NotFoundError{ID: id}
	}
	return ctx, nil
}

// Clear removes every stored identifier matching pattern and returns the
// count of removed entries. "*" matches all identifiers; any other pattern
// matches identifiers containing it as a substring.
func (s *Store) Clear(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pattern == "*" {
		n := len(s.contexts)
		s.contexts = make(map[string]Context)
		return n
	}

	var n int
	for id := range s.contexts {
		if strings.Contains(id, pattern) {
			delete(s.contexts, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored contexts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}

// TotalTokens returns the sum of stored token counts.
func (s *Store) TotalTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	for _, ctx := range s.contexts {
		total += ctx.Tokens
	}
	return total
}

// Snapshot returns per-context metadata sorted by identifier. Payloads are
// never included.
func (s *Store) Snapshot() []ContextInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]ContextInfo, 0, len(s.contexts))
	for id, ctx := range s.contexts {
		infos = append(infos, ContextInfo{ID: id, Tokens: ctx.Tokens, StoredAt: ctx.StoredAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
