package storage

import (
	"context"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
)

// Storage persists conversation state for one or more agents. GetMessage
// returns (nil, nil) when no message exists, so callers can use the
// check-then-create idempotency pattern without sentinel errors.
type Storage interface {
	GetMessage(ctx context.Context, id string) (*models.ConversationMessage, error)
	CreateMessage(ctx context.Context, msg *models.ConversationMessage) error
	EnsureConnection(ctx context.Context, userID, roomID, username, name, source string) error

	// Watermark is the highest processed tweet id per agent; empty string
	// means nothing has been processed yet.
	GetWatermark(ctx context.Context, agentID string) (string, error)
	SetWatermark(ctx context.Context, agentID, tweetID string) error

	// CacheResponse records the full prompt context and generated output
	// for a source tweet, for audit and debugging.
	CacheResponse(ctx context.Context, key, value string) error

	Close() error
}
