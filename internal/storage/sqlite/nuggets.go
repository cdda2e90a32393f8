// ABOUTME: Nugget storage operations for SQLite
// ABOUTME: Nugget sets are replaced per conversation; reads are newest first
package sqlite

import (
	"context"
	"fmt"

	"github.com/harper/oogvault/internal/models"
)

const nuggetColumns = `id, conversation_id, question, answer, platform, created_at`

func insertNuggets(ctx context.Context, q querier, nuggets []models.Nugget) error {
	for _, n := range nuggets {
		_, err := q.ExecContext(ctx, `
			INSERT INTO nuggets (id, conversation_id, question, answer, platform, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				conversation_id = excluded.conversation_id,
				question = excluded.question,
				answer = excluded.answer,
				platform = excluded.platform,
				created_at = excluded.created_at
		`, n.ID, n.ConversationID, n.Question, n.Answer, n.Platform, formatTime(n.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to save nugget %s: %w", n.ID, err)
		}
	}
	return nil
}

func deleteNuggetsFor(ctx context.Context, q querier, conversationID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM nuggets WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete nuggets for %s: %w", conversationID, err)
	}
	return nil
}

func allNuggets(ctx context.Context, q querier) ([]models.Nugget, error) {
	return queryNuggets(ctx, q, `
		SELECT `+nuggetColumns+`
		FROM nuggets
		ORDER BY created_at DESC, rowid DESC
	`)
}

func nuggetsFor(ctx context.Context, q querier, conversationID string) ([]models.Nugget, error) {
	return queryNuggets(ctx, q, `
		SELECT `+nuggetColumns+`
		FROM nuggets
		WHERE conversation_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, conversationID)
}

func queryNuggets(ctx context.Context, q querier, query string, args ...any) ([]models.Nugget, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nuggets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	nuggets := []models.Nugget{}
	for rows.Next() {
		var (
			n       models.Nugget
			created string
		)
		if err := rows.Scan(&n.ID, &n.ConversationID, &n.Question, &n.Answer, &n.Platform, &created); err != nil {
			return nil, err
		}
		if n.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		nuggets = append(nuggets, n)
	}
	return nuggets, rows.Err()
}
