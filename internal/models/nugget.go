// ABOUTME: Nugget is a condensed question/answer pair derived from a conversation
// ABOUTME: Regenerated wholesale whenever its conversation is saved
package models

import "time"

// Nugget is one user question paired with the assistant's answer
type Nugget struct {
	ID             string    `json:"id" yaml:"id"`
	ConversationID string    `json:"conversation_id" yaml:"conversation_id"`
	Question       string    `json:"question" yaml:"question"`
	Answer         string    `json:"answer" yaml:"answer"`
	Platform       string    `json:"platform" yaml:"platform"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}
