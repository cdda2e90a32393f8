// ABOUTME: Derives question/answer nuggets from raw conversation turns
// ABOUTME: One nugget per user message directly answered by the assistant
package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
)

const (
	minQuestionLen = 10
	minAnswerLen   = 5
	maxQuestionLen = 300
	maxAnswerLen   = 500
)

// ExtractNuggets pairs each substantial user message with the assistant
// message right after it. Unanswered questions produce nothing.
func ExtractNuggets(messages []models.Message, platform string) []models.Nugget {
	now := time.Now().UTC()
	nuggets := []models.Nugget{}

	for i := 0; i+1 < len(messages); i++ {
		msg := messages[i]
		if msg.Role != models.RoleUser {
			continue
		}
		question := strings.TrimSpace(msg.Content)
		if utf8.RuneCountInString(question) < minQuestionLen {
			continue
		}

		next := messages[i+1]
		if next.Role != models.RoleAssistant {
			continue
		}
		answer := strings.TrimSpace(next.Content)
		if utf8.RuneCountInString(answer) < minAnswerLen {
			continue
		}

		created := msg.Timestamp
		if created.IsZero() {
			created = now
		}
		nuggets = append(nuggets, models.Nugget{
			ID:             uuid.New().String(),
			ConversationID: msg.ConversationID,
			Question:       util.Truncate(question, maxQuestionLen),
			Answer:         util.Truncate(answer, maxAnswerLen),
			Platform:       platform,
			CreatedAt:      created,
		})
	}

	return nuggets
}
