package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jac-chandigarh/jacbot/internal/model"
)

func TestMemoryStoreCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "session ID should be a valid UUID")

	exists, err := s.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	history, err := s.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	exists, err := s.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.History(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Append(ctx, "nope", model.ChatMessage{Role: model.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAppendOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx)
	require.NoError(t, err)

	err = s.Append(ctx, id,
		model.ChatMessage{Role: model.RoleUser, Content: "What is the fee?"},
		model.ChatMessage{Role: model.RoleAssistant, Content: "The fee is listed in the brochure."},
	)
	require.NoError(t, err)

	err = s.Append(ctx, id, model.ChatMessage{Role: model.RoleUser, Content: "And the deadline?"})
	require.NoError(t, err)

	history, err := s.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "What is the fee?", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, "And the deadline?", history[2].Content)
}

func TestMemoryStoreHistoryIsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, id, model.ChatMessage{Role: model.RoleUser, Content: "original"}))

	history, err := s.History(ctx, id)
	require.NoError(t, err)
	history[0].Content = "mutated"

	again, err := s.History(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.Create(ctx)
	require.NoError(t, err)
	b, err := s.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	require.NoError(t, s.Append(ctx, a, model.ChatMessage{Role: model.RoleUser, Content: "for a"}))

	historyB, err := s.History(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, historyB)
}
