package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RichardoC/padchat/internal/models"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("conversation not found")

// Store persists conversations and their messages. Messages are returned in
// insertion order; deleting a conversation removes its messages.
type Store interface {
	GetConversations(ctx context.Context) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*models.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id, title string) error
	DeleteConversation(ctx context.Context, id string) error
	GetMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg models.NewMessage) (*models.Message, error)
	Close() error
}

// Open migrates and connects to the database named by databaseURL. Supported
// schemes are sqlite3:// and postgres:// (or postgresql://).
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite3://"):
		dsn := withForeignKeys(strings.TrimPrefix(databaseURL, "sqlite3://"))
		if err := RunMigrations("sqlite3://"+dsn, "migrations/sqlite", logger); err != nil {
			return nil, err
		}
		return NewSQLite(dsn)

	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		if err := RunMigrations(databaseURL, "migrations/postgres", logger); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, databaseURL)

	default:
		return nil, fmt.Errorf("unsupported database url %q", redact(databaseURL))
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// redact keeps credentials out of error messages.
func redact(databaseURL string) string {
	scheme, _, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return "<invalid>"
	}
	return scheme + "://..."
}
