// ABOUTME: Search result structures for retrieval operations
// ABOUTME: Returned by the retriever to CLI and MCP callers
package models

import "time"

// Sources of a similar-question suggestion
const (
	SourceConversation = "conversation"
	SourceNugget       = "nugget"
)

// ConversationMatch is a conversation that matched a search query
type ConversationMatch struct {
	Conversation
	Score          float64 `json:"score"`
	MatchedContent string  `json:"matched_content"`
}

// SimilarQuestion is a previously asked question that resembles the query
type SimilarQuestion struct {
	Question          string    `json:"question"`
	Answer            *string   `json:"answer"`
	ConversationID    string    `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	Platform          string    `json:"platform"`
	Timestamp         time.Time `json:"timestamp"`
	Score             float64   `json:"score"`
	Source            string    `json:"source"`
}

// NuggetMatch is a nugget scored against a query
type NuggetMatch struct {
	Nugget
	Score float64 `json:"score"`
}
