package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
)

func TestMemoryStorageMessageRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	missing, err := s.GetMessage(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	msg := &models.ConversationMessage{
		ID:      "m1",
		AgentID: "a1",
		UserID:  "u1",
		RoomID:  "r1",
		Text:    "hello",
		Source:  "twitter",
	}
	require.NoError(t, s.CreateMessage(ctx, msg))

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Text)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMemoryStorageCreateMessageIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	first := &models.ConversationMessage{ID: "m1", Text: "first"}
	second := &models.ConversationMessage{ID: "m1", Text: "second"}

	require.NoError(t, s.CreateMessage(ctx, first))
	require.NoError(t, s.CreateMessage(ctx, second))

	assert.Equal(t, 1, s.MessageCount())

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	// The original record wins; the duplicate create is a no-op
	assert.Equal(t, "first", got.Text)
}

func TestMemoryStorageWatermark(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	got, err := s.GetWatermark(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, s.SetWatermark(ctx, "a1", "123"))
	require.NoError(t, s.SetWatermark(ctx, "a2", "456"))

	got, err = s.GetWatermark(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "123", got)
}

func TestMemoryStorageEnsureConnection(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.EnsureConnection(ctx, "u1", "r1", "fan", "Fan", "twitter"))
	require.NoError(t, s.EnsureConnection(ctx, "u1", "r1", "fan", "Fan", "twitter"))

	assert.Len(t, s.connections, 1)
}

func TestMemoryStorageCacheResponse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.CacheResponse(ctx, "twitter/response/100", "ctx + reply"))
	require.NoError(t, s.CacheResponse(ctx, "twitter/response/100", "updated"))

	assert.Equal(t, "updated", s.cache["twitter/response/100"])
}
