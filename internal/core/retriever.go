// ABOUTME: Retriever searches stored conversations, questions and nuggets
// ABOUTME: Full scans scored by the matcher; no persistent text index
package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
	"go.uber.org/zap"
)

// ConversationReader is the slice of the store that retrieval reads from
type ConversationReader interface {
	GetAllConversations(ctx context.Context) ([]models.Conversation, error)
	GetMessagesForConversation(ctx context.Context, id string) ([]models.Message, error)
	GetAllNuggets(ctx context.Context) ([]models.Nugget, error)
}

// Retriever runs the search operations over a ConversationReader
type Retriever struct {
	store      ConversationReader
	thresholds Thresholds
	logger     *zap.Logger
}

// RetrieverOption configures a Retriever
type RetrieverOption func(*Retriever)

// WithThresholds overrides the default score cut-offs
func WithThresholds(t Thresholds) RetrieverOption {
	return func(r *Retriever) { r.thresholds = t }
}

// WithLogger sets the logger used for skipped records and degraded searches
func WithLogger(logger *zap.Logger) RetrieverOption {
	return func(r *Retriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRetriever creates a Retriever over store
func NewRetriever(store ConversationReader, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		store:      store,
		thresholds: DefaultThresholds(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Thresholds returns the cut-offs in effect
func (r *Retriever) Thresholds() Thresholds {
	return r.thresholds
}

// SearchConversations scores every conversation by its best-matching title
// or message and returns those above the threshold, best first
func (r *Retriever) SearchConversations(ctx context.Context, query string, limit int) ([]models.ConversationMatch, error) {
	results := []models.ConversationMatch{}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}
	if limit <= 0 {
		limit = DefaultConversationLimit
	}

	convs, err := r.store.GetAllConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	for _, conv := range convs {
		msgs, err := r.store.GetMessagesForConversation(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load messages for %s: %w", conv.ID, err)
		}

		best := 0.0
		matched := ""
		if score := r.score(query, conv.Title, conv.ID); score > best {
			best = score
			matched = conv.Title
		}
		for _, m := range msgs {
			if score := r.score(query, m.Content, m.ID); score > best {
				best = score
				matched = util.Truncate(m.Content, SnippetLen)
			}
		}

		if best > r.thresholds.Conversation {
			conv.Messages = msgs
			results = append(results, models.ConversationMatch{
				Conversation:   conv,
				Score:          best,
				MatchedContent: matched,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchSimilarQuestions finds earlier user questions and nuggets that
// resemble a query being typed. Short or filler-only queries return nothing.
func (r *Retriever) SearchSimilarQuestions(ctx context.Context, query string, limit int) ([]models.SimilarQuestion, error) {
	results := []models.SimilarQuestion{}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinSimilarQueryLen {
		return results, nil
	}
	if len(ExtractKeywords(query)) == 0 {
		return results, nil
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	convs, err := r.store.GetAllConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	seen := map[string]struct{}{}
	firstSighting := func(text string) bool {
		key := strings.ToLower(util.Truncate(text, dedupeKeyLen))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}

	for _, conv := range convs {
		msgs, err := r.store.GetMessagesForConversation(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load messages for %s: %w", conv.ID, err)
		}

		for i, m := range msgs {
			if m.Role != models.RoleUser {
				continue
			}
			score := r.score(query, m.Content, m.ID)
			if score <= r.thresholds.Similar || !firstSighting(m.Content) {
				continue
			}

			var answer *string
			if i+1 < len(msgs) {
				a := util.Truncate(msgs[i+1].Content, AnswerPreviewLen)
				answer = &a
			}
			results = append(results, models.SimilarQuestion{
				Question:          util.Truncate(m.Content, SnippetLen),
				Answer:            answer,
				ConversationID:    conv.ID,
				ConversationTitle: conv.Title,
				Platform:          conv.Platform,
				Timestamp:         m.Timestamp,
				Score:             score,
				Source:            models.SourceConversation,
			})
		}
	}

	nuggets, err := r.store.GetAllNuggets(ctx)
	if err != nil {
		r.logger.Warn("nugget search failed, returning message matches only", zap.Error(err))
		nuggets = nil
	}
	for _, n := range nuggets {
		score := r.score(query, n.Question, n.ID)
		if score <= r.thresholds.Similar || !firstSighting(n.Question) {
			continue
		}

		var answer *string
		if n.Answer != "" {
			a := util.Truncate(n.Answer, AnswerPreviewLen)
			answer = &a
		}
		platform := n.Platform
		if platform == "" {
			platform = models.SourceNugget
		}
		results = append(results, models.SimilarQuestion{
			Question:          util.Truncate(n.Question, SnippetLen),
			Answer:            answer,
			ConversationID:    n.ConversationID,
			ConversationTitle: util.Truncate(n.Question, nuggetTitleLen),
			Platform:          platform,
			Timestamp:         n.CreatedAt,
			Score:             score,
			Source:            models.SourceNugget,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchNuggetsText scores nuggets by token overlap with the question,
// or with the answer at a discount
func (r *Retriever) SearchNuggetsText(ctx context.Context, query string, limit int) ([]models.NuggetMatch, error) {
	results := []models.NuggetMatch{}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}
	if limit <= 0 {
		limit = DefaultNuggetLimit
	}

	nuggets, err := r.store.GetAllNuggets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load nuggets: %w", err)
	}

	queryTokens := Tokenize(query)
	for _, n := range nuggets {
		score := max(
			RelevanceScore(queryTokens, Tokenize(n.Question)),
			0.8*RelevanceScore(queryTokens, Tokenize(n.Answer)),
		)
		if score > r.thresholds.Nugget {
			results = append(results, models.NuggetMatch{Nugget: n, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// score runs FuzzyScore for one record. A panic while scoring skips the
// record instead of failing the whole scan.
func (r *Retriever) score(query, text, recordID string) (score float64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("skipping record that failed to score",
				zap.String("record_id", recordID),
				zap.Any("panic", rec))
			score = 0
		}
	}()
	return FuzzyScore(query, text)
}
