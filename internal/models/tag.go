// ABOUTME: Tag labels a conversation with a normalized keyword
// ABOUTME: Tags are a set per conversation
package models

import "strings"

// Tag is a label attached to a conversation
type Tag struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Tag            string `json:"tag"`
}

// TagCount is a distinct tag with the number of conversations using it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NormalizeTag trims and lower-cases tag text
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
