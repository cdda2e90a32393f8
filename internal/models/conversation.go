// ABOUTME: Conversation represents a captured chat session and its ingestion payload
// ABOUTME: Owns messages, tags and nuggets through conversation_id
package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultTitle is used when a captured conversation has no title
const DefaultTitle = "Untitled conversation"

var (
	// ErrMissingID is returned when a conversation is saved without an id
	ErrMissingID = errors.New("conversation id cannot be empty")
	// ErrInvalidRole is returned for messages whose role is neither user nor assistant
	ErrInvalidRole = errors.New("message role must be user or assistant")
	// ErrEmptyTag is returned when a tag is empty after normalization
	ErrEmptyTag = errors.New("tag cannot be empty")
)

// Conversation is a captured chat session
type Conversation struct {
	ID          string    `json:"id" yaml:"id"`
	Platform    string    `json:"platform" yaml:"platform"`
	Title       string    `json:"title" yaml:"title"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	IsAutoSaved bool      `json:"is_auto_saved" yaml:"is_auto_saved"`
	URL         string    `json:"url" yaml:"url"`
	Messages    []Message `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Validate checks the conversation and all of its messages
func (c *Conversation) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrMissingID
	}
	for i := range c.Messages {
		if err := c.Messages[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UserMessages returns the user-authored messages in order
func (c *Conversation) UserMessages() []Message {
	var out []Message
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// ConversationPayload is the shape delivered by capture collaborators
type ConversationPayload struct {
	ID          string           `json:"id"`
	Platform    string           `json:"platform"`
	Title       string           `json:"title"`
	Messages    []MessagePayload `json:"messages"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
	URL         string           `json:"url,omitempty"`
	IsAutoSaved *bool            `json:"is_auto_saved,omitempty"`
}

// MessagePayload is one captured turn; id and timestamp are optional
type MessagePayload struct {
	ID        string     `json:"id,omitempty"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ToConversation converts the payload into a Conversation.
// Missing optional fields stay zero so the store can fill them in.
// is_auto_saved defaults to true.
func (p ConversationPayload) ToConversation() *Conversation {
	conv := &Conversation{
		ID:          p.ID,
		Platform:    p.Platform,
		Title:       p.Title,
		URL:         p.URL,
		IsAutoSaved: true,
		Messages:    make([]Message, 0, len(p.Messages)),
	}
	if p.IsAutoSaved != nil {
		conv.IsAutoSaved = *p.IsAutoSaved
	}
	if p.CreatedAt != nil {
		conv.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		conv.UpdatedAt = *p.UpdatedAt
	}
	for _, mp := range p.Messages {
		msg := Message{
			ID:             mp.ID,
			ConversationID: p.ID,
			Role:           mp.Role,
			Content:        mp.Content,
		}
		if mp.Timestamp != nil {
			msg.Timestamp = *mp.Timestamp
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv
}
