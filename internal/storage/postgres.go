package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/lib/pq"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetMessage(ctx context.Context, id string) (*models.ConversationMessage, error) {
	query := `
		SELECT id, agent_id, user_id, room_id, text, attachment_urls, in_reply_to, action, source, created_at
		FROM conversation_messages
		WHERE id = $1`

	msg := &models.ConversationMessage{}
	var attachments pq.StringArray
	var inReplyTo, action sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.AgentID,
		&msg.UserID,
		&msg.RoomID,
		&msg.Text,
		&attachments,
		&inReplyTo,
		&action,
		&msg.Source,
		&msg.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying message: %w", err)
	}

	msg.AttachmentURLs = attachments
	msg.InReplyTo = inReplyTo.String
	msg.Action = action.String
	return msg, nil
}

func (s *PostgresStorage) CreateMessage(ctx context.Context, msg *models.ConversationMessage) error {
	query := `
		INSERT INTO conversation_messages (id, agent_id, user_id, room_id, text, attachment_urls, in_reply_to, action, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, COALESCE($10, NOW()))
		ON CONFLICT (id) DO NOTHING`

	var createdAt interface{}
	if !msg.CreatedAt.IsZero() {
		createdAt = msg.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.AgentID,
		msg.UserID,
		msg.RoomID,
		msg.Text,
		pq.StringArray(msg.AttachmentURLs),
		msg.InReplyTo,
		msg.Action,
		msg.Source,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}

	return nil
}

func (s *PostgresStorage) EnsureConnection(ctx context.Context, userID, roomID, username, name, source string) error {
	query := `
		INSERT INTO connections (user_id, room_id, username, name, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, room_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, userID, roomID, username, name, source); err != nil {
		return fmt.Errorf("error ensuring connection: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetWatermark(ctx context.Context, agentID string) (string, error) {
	var tweetID string
	err := s.db.QueryRowContext(ctx,
		`SELECT tweet_id FROM watermarks WHERE agent_id = $1`, agentID).Scan(&tweetID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error querying watermark: %w", err)
	}
	return tweetID, nil
}

func (s *PostgresStorage) SetWatermark(ctx context.Context, agentID, tweetID string) error {
	query := `
		INSERT INTO watermarks (agent_id, tweet_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (agent_id) DO UPDATE SET tweet_id = $2, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, agentID, tweetID); err != nil {
		return fmt.Errorf("error saving watermark: %w", err)
	}

	return nil
}

func (s *PostgresStorage) CacheResponse(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO response_cache (key, value, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, created_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error caching response: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
