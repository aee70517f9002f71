package storage

import (
	"context"
	"sync"
	"time"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
)

type connection struct {
	UserID   string
	RoomID   string
	Username string
	Name     string
	Source   string
	JoinedAt time.Time
}

type MemoryStorage struct {
	mu          sync.RWMutex
	messages    map[string]*models.ConversationMessage
	connections map[string]connection
	watermarks  map[string]string
	cache       map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		messages:    make(map[string]*models.ConversationMessage),
		connections: make(map[string]connection),
		watermarks:  make(map[string]string),
		cache:       make(map[string]string),
	}
}

func (s *MemoryStorage) GetMessage(ctx context.Context, id string) (*models.ConversationMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if msg, exists := s.messages[id]; exists {
		copied := *msg
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStorage) CreateMessage(ctx context.Context, msg *models.ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent: a second create for the same id is a no-op
	if _, exists := s.messages[msg.ID]; exists {
		return nil
	}

	copied := *msg
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.messages[msg.ID] = &copied
	return nil
}

func (s *MemoryStorage) EnsureConnection(ctx context.Context, userID, roomID, username, name, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "/" + roomID
	if _, exists := s.connections[key]; exists {
		return nil
	}

	s.connections[key] = connection{
		UserID:   userID,
		RoomID:   roomID,
		Username: username,
		Name:     name,
		Source:   source,
		JoinedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStorage) GetWatermark(ctx context.Context, agentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.watermarks[agentID], nil
}

func (s *MemoryStorage) SetWatermark(ctx context.Context, agentID, tweetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watermarks[agentID] = tweetID
	return nil
}

func (s *MemoryStorage) CacheResponse(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = value
	return nil
}

// MessageCount reports how many messages are stored. Used by tests.
func (s *MemoryStorage) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

// Messages returns a snapshot of all stored messages. Used by tests.
func (s *MemoryStorage) Messages() []*models.ConversationMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ConversationMessage, 0, len(s.messages))
	for _, msg := range s.messages {
		copied := *msg
		out = append(out, &copied)
	}
	return out
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
