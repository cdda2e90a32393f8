// ABOUTME: Builds a "continue where we left off" prompt from a conversation
// ABOUTME: Lists the user's topics and replays the last exchange
package core

import (
	"strings"

	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
)

const (
	summaryTopicLen    = 100
	summaryExchangeLen = 200
	summaryTailSize    = 4
)

// ConversationSummary renders a prompt that lets a new chat pick up the
// conversation. It returns "" for a conversation without messages.
func ConversationSummary(messages []models.Message) string {
	if len(messages) == 0 {
		return ""
	}

	var topics []string
	for _, m := range messages {
		if m.Role == models.RoleUser {
			topics = append(topics, "- "+util.Truncate(m.Content, summaryTopicLen))
		}
	}

	tail := messages[max(len(messages)-summaryTailSize, 0):]
	exchange := make([]string, 0, len(tail))
	for _, m := range tail {
		speaker := "Assistant"
		if m.Role == models.RoleUser {
			speaker = "User"
		}
		exchange = append(exchange, speaker+": "+util.Truncate(m.Content, summaryExchangeLen))
	}

	return strings.Join([]string{
		"I'm continuing a previous conversation. Here's a summary:",
		"",
		"## Topics we discussed:",
		strings.Join(topics, "\n"),
		"",
		"## Last exchange:",
		strings.Join(exchange, "\n\n"),
		"",
		"Please continue from where we left off.",
	}, "\n")
}
