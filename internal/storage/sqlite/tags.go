// ABOUTME: Tag storage operations for SQLite
// ABOUTME: Tags are normalized and unique per conversation
package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/oogvault/internal/models"
)

func insertTag(ctx context.Context, q querier, conversationID, tag string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO tags (id, conversation_id, tag)
		VALUES (?, ?, ?)
		ON CONFLICT(conversation_id, tag) DO NOTHING
	`, uuid.New().String(), conversationID, tag)
	if err != nil {
		return fmt.Errorf("failed to add tag %q: %w", tag, err)
	}
	return nil
}

func deleteTag(ctx context.Context, q querier, conversationID, tag string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM tags WHERE conversation_id = ? AND tag = ?`, conversationID, tag)
	if err != nil {
		return fmt.Errorf("failed to remove tag %q: %w", tag, err)
	}
	return nil
}

func deleteTagsFor(ctx context.Context, q querier, conversationID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tags WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete tags for %s: %w", conversationID, err)
	}
	return nil
}

func tagsFor(ctx context.Context, q querier, conversationID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT tag FROM tags
		WHERE conversation_id = ?
		ORDER BY tag
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for %s: %w", conversationID, err)
	}
	defer func() { _ = rows.Close() }()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func tagCounts(ctx context.Context, q querier) ([]models.TagCount, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT tag, COUNT(*) AS n
		FROM tags
		GROUP BY tag
		ORDER BY n DESC, tag ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []models.TagCount{}
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
