// ABOUTME: Tests for nugget extraction from message sequences
// ABOUTME: Verifies pairing rules, length gates and truncation
package core

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/oogvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(role models.Role, content string) models.Message {
	return models.Message{ConversationID: "c1", Role: role, Content: content}
}

func TestExtractNuggets_PairsUserWithFollowingAssistant(t *testing.T) {
	ts := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	messages := []models.Message{
		{ConversationID: "c1", Role: models.RoleUser, Content: "What is X, tell me more please", Timestamp: ts},
		msg(models.RoleAssistant, "X is a thing that does stuff."),
		msg(models.RoleUser, "short"),
	}

	nuggets := ExtractNuggets(messages, "gemini")

	require.Len(t, nuggets, 1)
	n := nuggets[0]
	assert.Equal(t, "What is X, tell me more please", n.Question)
	assert.Equal(t, "X is a thing that does stuff.", n.Answer)
	assert.Equal(t, "gemini", n.Platform)
	assert.Equal(t, "c1", n.ConversationID)
	assert.True(t, n.CreatedAt.Equal(ts))
	assert.NotEmpty(t, n.ID)
}

func TestExtractNuggets_SkipsIneligibleTurns(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.Message
	}{
		{"question too short", []models.Message{
			msg(models.RoleUser, "   why?    "),
			msg(models.RoleAssistant, "Because it is."),
		}},
		{"answer too short", []models.Message{
			msg(models.RoleUser, "Is this really the answer?"),
			msg(models.RoleAssistant, " yes "),
		}},
		{"user followed by user", []models.Message{
			msg(models.RoleUser, "First question about goroutines"),
			msg(models.RoleUser, "Second question about channels"),
		}},
		{"trailing question", []models.Message{
			msg(models.RoleUser, "A question nobody answered"),
		}},
		{"assistant first", []models.Message{
			msg(models.RoleAssistant, "Hello, how can I help you today?"),
		}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractNuggets(tt.messages, "claude"))
		})
	}
}

func TestExtractNuggets_TrimsAndTruncates(t *testing.T) {
	question := strings.Repeat("q", 400)
	answer := strings.Repeat("é", 700)
	nuggets := ExtractNuggets([]models.Message{
		msg(models.RoleUser, "  "+question+"  "),
		msg(models.RoleAssistant, "\n"+answer),
	}, "")

	require.Len(t, nuggets, 1)
	assert.Equal(t, strings.Repeat("q", 300), nuggets[0].Question)
	assert.Equal(t, strings.Repeat("é", 500), nuggets[0].Answer)
}

func TestExtractNuggets_DefaultsTimestamp(t *testing.T) {
	before := time.Now().UTC()
	nuggets := ExtractNuggets([]models.Message{
		msg(models.RoleUser, "How do channels close?"),
		msg(models.RoleAssistant, "The sender closes them."),
	}, "claude")

	require.Len(t, nuggets, 1)
	assert.False(t, nuggets[0].CreatedAt.Before(before))
}

func TestExtractNuggets_MultiplePairs(t *testing.T) {
	nuggets := ExtractNuggets([]models.Message{
		msg(models.RoleUser, "How do channels close?"),
		msg(models.RoleAssistant, "The sender closes them."),
		msg(models.RoleUser, "What about nil channels?"),
		msg(models.RoleAssistant, "They block forever."),
	}, "claude")

	require.Len(t, nuggets, 2)
	assert.NotEqual(t, nuggets[0].ID, nuggets[1].ID)
}
