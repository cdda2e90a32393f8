// ABOUTME: Conversation storage operations for SQLite
// ABOUTME: Upsert, lookup and listing of captured chat sessions
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/oogvault/internal/models"
)

const conversationColumns = `id, platform, title, created_at, updated_at, is_auto_saved, url`

func upsertConversation(ctx context.Context, q querier, conv *models.Conversation) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO conversations (id, platform, title, created_at, updated_at, is_auto_saved, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			platform = excluded.platform,
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_auto_saved = excluded.is_auto_saved,
			url = excluded.url
	`, conv.ID, conv.Platform, conv.Title, formatTime(conv.CreatedAt), formatTime(conv.UpdatedAt),
		conv.IsAutoSaved, conv.URL)
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", conv.ID, err)
	}
	return nil
}

// getConversationRow returns nil, nil when the id is unknown
func getConversationRow(ctx context.Context, q querier, id string) (*models.Conversation, error) {
	row := q.QueryRowContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return conv, nil
}

func listConversations(ctx context.Context, q querier) ([]models.Conversation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		ORDER BY updated_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	convs := []models.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *conv)
	}
	return convs, rows.Err()
}

func deleteConversationRow(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var (
		conv             models.Conversation
		created, updated string
	)
	if err := row.Scan(&conv.ID, &conv.Platform, &conv.Title, &created, &updated,
		&conv.IsAutoSaved, &conv.URL); err != nil {
		return nil, err
	}

	var err error
	if conv.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if conv.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &conv, nil
}
