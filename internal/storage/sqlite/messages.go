// ABOUTME: Message storage operations for SQLite
// ABOUTME: Messages are replaced wholesale per conversation and read in chronological order
package sqlite

import (
	"context"
	"fmt"

	"github.com/harper/oogvault/internal/models"
)

const messageColumns = `id, conversation_id, role, content, timestamp`

// insertMessages upserts by id so a message moved between conversations follows its latest save
func insertMessages(ctx context.Context, q querier, msgs []models.Message) error {
	for _, m := range msgs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, role, content, timestamp)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				conversation_id = excluded.conversation_id,
				role = excluded.role,
				content = excluded.content,
				timestamp = excluded.timestamp
		`, m.ID, m.ConversationID, string(m.Role), m.Content, formatTime(m.Timestamp))
		if err != nil {
			return fmt.Errorf("failed to save message %s: %w", m.ID, err)
		}
	}
	return nil
}

func deleteMessagesFor(ctx context.Context, q querier, conversationID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete messages for %s: %w", conversationID, err)
	}
	return nil
}

func messagesFor(ctx context.Context, q querier, conversationID string) ([]models.Message, error) {
	return queryMessages(ctx, q, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC, rowid ASC
	`, conversationID)
}

func allMessages(ctx context.Context, q querier) ([]models.Message, error) {
	return queryMessages(ctx, q, `
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY conversation_id, timestamp ASC, rowid ASC
	`)
}

func messagesByRole(ctx context.Context, q querier, role models.Role) ([]models.Message, error) {
	return queryMessages(ctx, q, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE role = ?
		ORDER BY timestamp ASC, rowid ASC
	`, string(role))
}

func queryMessages(ctx context.Context, q querier, query string, args ...any) ([]models.Message, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	msgs := []models.Message{}
	for rows.Next() {
		var (
			m    models.Message
			role string
			ts   string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &ts); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		if m.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
