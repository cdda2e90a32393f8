// ABOUTME: Similarity scorers used by retrieval
// ABOUTME: RelevanceScore favours recall, FuzzyScore is gated to suppress false positives
package core

import (
	"strings"
	"unicode/utf8"
)

const (
	// strongHitScore is the per-token contribution that counts as a genuine match
	strongHitScore = 0.8
	// containmentScore is awarded when one token contains the other
	containmentScore = 0.9
	// minContainmentLen is the shortest token allowed to score by containment
	minContainmentLen = 4
	// minEditSimilarity is the lowest accepted edit-distance similarity
	minEditSimilarity = 0.7
	// maxEditLenDiff bounds the length gap of tokens compared by edit distance
	maxEditLenDiff = 2
)

// RelevanceScore is the share of query tokens that contain, or are
// contained in, some text token
func RelevanceScore(queryTokens, textTokens []string) float64 {
	if len(queryTokens) == 0 || len(textTokens) == 0 {
		return 0
	}

	textSet := make(map[string]struct{}, len(textTokens))
	for _, t := range textTokens {
		textSet[t] = struct{}{}
	}

	matches := 0
	for _, qt := range queryTokens {
		for tt := range textSet {
			if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
				matches++
				break // Count each query token only once
			}
		}
	}

	return float64(matches) / float64(len(queryTokens))
}

// FuzzyScore is the gated keyword match used for autocomplete.
// A text that contains the query verbatim scores 1. Otherwise at least one
// query keyword must match strongly or the score is 0.
func FuzzyScore(query, text string) float64 {
	q := strings.ToLower(query)
	t := strings.ToLower(text)

	if strings.Contains(t, q) {
		return 1.0
	}

	queryTokens := ExtractKeywords(q)
	if len(queryTokens) == 0 {
		queryTokens = Tokenize(q)
	}
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := Tokenize(t)

	total := 0.0
	strongHits := 0
	for _, qt := range queryTokens {
		best := bestTokenMatch(qt, textTokens)
		total += best
		if best >= strongHitScore {
			strongHits++
		}
	}

	if strongHits == 0 {
		return 0
	}

	avg := total / float64(len(queryTokens))
	if strongHits >= 2 {
		return min(max(avg, 0.5+float64(strongHits)*0.1), 1.0)
	}
	return max(avg, 0.4)
}

// bestTokenMatch scores one query token against every text token
func bestTokenMatch(qt string, textTokens []string) float64 {
	qLen := utf8.RuneCountInString(qt)
	best := 0.0

	for _, tt := range textTokens {
		if tt == qt {
			return 1.0
		}

		tLen := utf8.RuneCountInString(tt)
		if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
			if min(qLen, tLen) >= minContainmentLen {
				best = max(best, containmentScore)
			}
			continue
		}

		if qLen >= minContainmentLen && abs(qLen-tLen) <= maxEditLenDiff {
			sim := 1 - float64(Levenshtein(qt, tt))/float64(max(qLen, tLen))
			if sim >= minEditSimilarity && sim > best {
				best = sim
			}
		}
	}

	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
