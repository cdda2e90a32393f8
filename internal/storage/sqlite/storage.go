// ABOUTME: Unified Storage layer that owns the four vault collections
// ABOUTME: Every multi-collection write runs as one SQLite transaction
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/oogvault/internal/models"
	"go.uber.org/zap"
)

// Storage manages all persistent vault data using SQLite
type Storage struct {
	db     *DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStorage wraps an existing handle; the connection opens on first use
func NewStorage(db *DB, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewStorageWithPath opens storage at a custom database path
func NewStorageWithPath(dbPath string, logger *zap.Logger) (*Storage, error) {
	db, err := Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewStorage(db, logger), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return NewStorage(db, nil), nil
}

// Close closes the storage
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database path backing this storage
func (s *Storage) Path() string {
	return s.db.Path()
}

// SaveConversation upserts the conversation and replaces its messages.
// created_at survives re-saves, updated_at is always refreshed.
func (s *Storage) SaveConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}

	var saved *models.Conversation
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveConversationTx(ctx, tx, conv, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("conversation saved",
		zap.String("id", saved.ID),
		zap.Int("messages", len(saved.Messages)))
	return saved, nil
}

// saveConversationTx normalizes conv and writes it. keepUpdated preserves a
// supplied updated_at, which only imports need.
func (s *Storage) saveConversationTx(ctx context.Context, tx *sql.Tx, conv *models.Conversation, keepUpdated bool) (*models.Conversation, error) {
	now := s.now()

	out := *conv
	out.Messages = make([]models.Message, len(conv.Messages))
	if strings.TrimSpace(out.Title) == "" {
		out.Title = models.DefaultTitle
	}

	existing, err := getConversationRow(ctx, tx, conv.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case !out.CreatedAt.IsZero():
		out.CreatedAt = out.CreatedAt.UTC()
	case existing != nil:
		out.CreatedAt = existing.CreatedAt
	default:
		out.CreatedAt = now
	}
	if keepUpdated && !out.UpdatedAt.IsZero() {
		out.UpdatedAt = out.UpdatedAt.UTC()
	} else {
		out.UpdatedAt = now
	}

	for i, m := range conv.Messages {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		} else {
			m.Timestamp = m.Timestamp.UTC()
		}
		m.ConversationID = out.ID
		out.Messages[i] = m
	}

	if err := upsertConversation(ctx, tx, &out); err != nil {
		return nil, err
	}
	if err := deleteMessagesFor(ctx, tx, out.ID); err != nil {
		return nil, err
	}
	if err := insertMessages(ctx, tx, out.Messages); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversation returns the conversation with its messages in
// chronological order, or nil when it does not exist
func (s *Storage) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	conv, err := getConversationRow(ctx, conn, id)
	if err != nil || conv == nil {
		return nil, err
	}

	conv.Messages, err = messagesFor(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// GetAllConversations returns every conversation, most recently updated first.
// Messages are not attached.
func (s *Storage) GetAllConversations(ctx context.Context) ([]models.Conversation, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return listConversations(ctx, conn)
}

// DeleteConversation removes the conversation and everything that hangs off it.
// Deleting an unknown id is not an error.
func (s *Storage) DeleteConversation(ctx context.Context, id string) error {
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		return deleteConversationTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("conversation deleted", zap.String("id", id))
	return nil
}

func deleteConversationTx(ctx context.Context, tx *sql.Tx, id string) error {
	if err := deleteMessagesFor(ctx, tx, id); err != nil {
		return err
	}
	if err := deleteTagsFor(ctx, tx, id); err != nil {
		return err
	}
	if err := deleteNuggetsFor(ctx, tx, id); err != nil {
		return err
	}
	return deleteConversationRow(ctx, tx, id)
}

// ClearAll deletes every record in the vault
func (s *Storage) ClearAll(ctx context.Context) error {
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"messages", "tags", "nuggets", "conversations"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("vault cleared")
	return nil
}

// GetMessagesForConversation returns the messages in chronological order
func (s *Storage) GetMessagesForConversation(ctx context.Context, id string) ([]models.Message, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return messagesFor(ctx, conn, id)
}

// GetAllMessages returns every message grouped by conversation
func (s *Storage) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return allMessages(ctx, conn)
}

// GetUserMessages returns every user-authored message
func (s *Storage) GetUserMessages(ctx context.Context) ([]models.Message, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return messagesByRole(ctx, conn, models.RoleUser)
}

// AddTag attaches a normalized tag; adding it twice is a no-op
func (s *Storage) AddTag(ctx context.Context, conversationID, tag string) error {
	tag = models.NormalizeTag(tag)
	if tag == "" {
		return models.ErrEmptyTag
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	return insertTag(ctx, conn, conversationID, tag)
}

// RemoveTag detaches a tag, matching on its normalized form
func (s *Storage) RemoveTag(ctx context.Context, conversationID, tag string) error {
	tag = models.NormalizeTag(tag)
	if tag == "" {
		return models.ErrEmptyTag
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	return deleteTag(ctx, conn, conversationID, tag)
}

// GetTagsForConversation returns the conversation's tags alphabetically
func (s *Storage) GetTagsForConversation(ctx context.Context, id string) ([]string, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return tagsFor(ctx, conn, id)
}

// ListTags returns every distinct tag with its usage count
func (s *Storage) ListTags(ctx context.Context) ([]models.TagCount, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return tagCounts(ctx, conn)
}

// SaveNuggets replaces the full nugget set of a conversation
func (s *Storage) SaveNuggets(ctx context.Context, conversationID string, nuggets []models.Nugget) error {
	now := s.now()
	rows := make([]models.Nugget, len(nuggets))
	for i, n := range nuggets {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		n.ConversationID = conversationID
		rows[i] = n
	}

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteNuggetsFor(ctx, tx, conversationID); err != nil {
			return err
		}
		return insertNuggets(ctx, tx, rows)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("nuggets saved",
		zap.String("conversation_id", conversationID),
		zap.Int("count", len(rows)))
	return nil
}

// GetAllNuggets returns every nugget, newest first
func (s *Storage) GetAllNuggets(ctx context.Context) ([]models.Nugget, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return allNuggets(ctx, conn)
}

// GetNuggetsForConversation returns the nuggets derived from one conversation
func (s *Storage) GetNuggetsForConversation(ctx context.Context, id string) ([]models.Nugget, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return nuggetsFor(ctx, conn, id)
}

// DeleteNuggetsForConversation drops the nuggets derived from one conversation
func (s *Storage) DeleteNuggetsForConversation(ctx context.Context, id string) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	return deleteNuggetsFor(ctx, conn, id)
}

// GetStats counts every collection from one consistent snapshot
func (s *Storage) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if stats.Conversations, err = countRows(ctx, tx, "conversations"); err != nil {
			return err
		}
		if stats.Messages, err = countRows(ctx, tx, "messages"); err != nil {
			return err
		}
		if stats.Nuggets, err = countRows(ctx, tx, "nuggets"); err != nil {
			return err
		}
		stats.Tags, err = countRows(ctx, tx, "tags")
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
