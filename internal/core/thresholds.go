// ABOUTME: Score cut-offs and result limits for each retrieval operation
// ABOUTME: Policy knobs that configuration may override
package core

// Default score thresholds; a candidate must score strictly above them
const (
	DefaultConversationThreshold = 0.25
	DefaultSimilarThreshold      = 0.3
	DefaultNuggetThreshold       = 0.3
)

// Default result limits, used when a caller passes a limit <= 0
const (
	DefaultConversationLimit = 20
	DefaultSimilarLimit      = 5
	DefaultNuggetLimit       = 10
)

// Query and snippet bounds
const (
	// MinSimilarQueryLen is the shortest trimmed query worth suggesting for
	MinSimilarQueryLen = 8
	// SnippetLen bounds matched content and suggested questions
	SnippetLen = 200
	// AnswerPreviewLen bounds the answer attached to a suggestion
	AnswerPreviewLen = 300
	// dedupeKeyLen is how much of a question identifies a duplicate
	dedupeKeyLen = 100
	// nuggetTitleLen bounds the title shown for nugget-sourced suggestions
	nuggetTitleLen = 60
)

// Thresholds holds the per-operation score cut-offs
type Thresholds struct {
	Conversation float64
	Similar      float64
	Nugget       float64
}

// DefaultThresholds returns the stock cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{
		Conversation: DefaultConversationThreshold,
		Similar:      DefaultSimilarThreshold,
		Nugget:       DefaultNuggetThreshold,
	}
}
