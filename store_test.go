package sidekick_test

import (
	"strings"
	"testing"

	"github.com/ineyio/sidekick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	s := sidekick.NewStore(1000, nil)

	text := "some offloaded conversation context"
	tokens, err := s.Put("notes", text)
	require.NoError(t, err)
	assert.Equal(t, sidekick.EstimateTokens(text), tokens)

	got, err := s.Get("notes")
	require.NoError(t, err)
	assert.Equal(t, text, got.Data)
	assert.Equal(t, tokens, got.Tokens)
	assert.False(t, got.StoredAt.IsZero())
}

func TestStore_GetMissing(t *testing.T) {
	s := sidekick.NewStore(1000, nil)

	_, err := s.Get("absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, sidekick.ErrContextNotFound)

	var nf *sidekick.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "absent", nf.ID)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := sidekick.NewStore(1000, nil)

	_, err := s.Put("id", "first")
	require.NoError(t, err)
	_, err = s.Put("id", "second")
	require.NoError(t, err)

	got, err := s.Get("id")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Data)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SizeBoundary(t *testing.T) {
	// Budget of 100 tokens corresponds to exactly 400 characters.
	s := sidekick.NewStore(100, nil)

	atBudget := strings.Repeat("x", 400)
	tokens, err := s.Put("at", atBudget)
	require.NoError(t, err)
	assert.Equal(t, 100, tokens)

	overBudget := strings.Repeat("x", 401)
	_, err = s.Put("over", overBudget)
	require.Error(t, err)
	assert.ErrorIs(t, err, sidekick.ErrContextTooLarge)

	var se *sidekick.ContextSizeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 101, se.Estimated)
	assert.Equal(t, 100, se.Limit)
}

func TestStore_ClearAll_Idempotent(t *testing.T) {
	s := sidekick.NewStore(1000, nil)
	_, _ = s.Put("a", "1")
	_, _ = s.Put("b", "2")

	assert.Equal(t, 2, s.Clear("*"))
	assert.Equal(t, 0, s.Clear("*"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ClearSubstring(t *testing.T) {
	s := sidekick.NewStore(1000, nil)
	_, _ = s.Put("session-1", "a")
	_, _ = s.Put("session-2", "b")
	_, _ = s.Put("scratch", "c")

	assert.Equal(t, 2, s.Clear("session"))
	assert.Equal(t, 1, s.Len())

	_, err := s.Get("scratch")
	assert.NoError(t, err)
}

func TestStore_SnapshotOmitsPayload(t *testing.T) {
	s := sidekick.NewStore(1000, nil)
	_, _ = s.Put("b", strings.Repeat("x", 40))
	_, _ = s.Put("a", strings.Repeat("y", 80))

	infos := s.Snapshot()
	require.Len(t, infos, 2)
	// Sorted by identifier for stable reporting.
	assert.Equal(t, "a", infos[0].ID)
	assert.Equal(t, 20, infos[0].Tokens)
	assert.Equal(t, "b", infos[1].ID)
	assert.Equal(t, 10, infos[1].Tokens)

	assert.Equal(t, 30, s.TotalTokens())
}

func TestEstimateTokens_RoundsUp(t *testing.T) {
	assert.Equal(t, 0, sidekick.EstimateTokens(""))
	assert.Equal(t, 1, sidekick.EstimateTokens("a"))
	assert.Equal(t, 1, sidekick.EstimateTokens("abcd"))
	assert.Equal(t, 2, sidekick.EstimateTokens("abcde"))
	assert.Equal(t, 1000, sidekick.EstimateTokens(strings.Repeat("x", 4000)))
}

func TestStore_CustomEstimator(t *testing.T) {
	// One token per character, so the budget is hit five times sooner.
	s := sidekick.NewStore(4, func(text string) int { return len(text) })

	_, err := s.Put("ok", "abcd")
	require.NoError(t, err)

	_, err = s.Put("over", "abcde")
	assert.ErrorIs(t, err, sidekick.ErrContextTooLarge)
}
