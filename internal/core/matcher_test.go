// ABOUTME: Tests for the lenient and gated similarity scorers
// ABOUTME: Covers containment, the strong-hit gate and score floors
package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name  string
		query []string
		text  []string
		want  float64
	}{
		{"all matched", []string{"race", "cond"}, []string{"race", "condition"}, 1.0},
		{"text token inside query token", []string{"goroutines"}, []string{"goroutine"}, 1.0},
		{"half matched", []string{"race", "bread"}, []string{"race", "condition"}, 0.5},
		{"none matched", []string{"sourdough"}, []string{"race"}, 0},
		{"empty query", nil, []string{"race"}, 0},
		{"empty text", []string{"race"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RelevanceScore(tt.query, tt.text), 1e-9)
		})
	}
}

func TestFuzzyScore_VerbatimContainment(t *testing.T) {
	cases := [][2]string{
		{"race condition", "Debugging a Race Condition in a scheduler"},
		{"the", "the"},
		{"a", "banana"},
		{"How do I", "how do i fix a"},
	}
	for _, c := range cases {
		assert.Equal(t, 1.0, FuzzyScore(c[0], c[1]), "%q in %q", c[0], c[1])
	}
}

func TestFuzzyScore_GateSuppressesWeakMatches(t *testing.T) {
	// Edit similarity 0.7 is accepted but is not a strong hit
	assert.Equal(t, 0.0, FuzzyScore("abcdefghij", "abcdefgxyz"))

	// Containment by a token shorter than four characters does not count
	assert.Equal(t, 0.0, FuzzyScore("catalog", "the cat sat"))

	// Transposition in a nine letter word stays below the strong threshold
	assert.Equal(t, 0.0, FuzzyScore("goroutnie", "goroutine leak"))

	assert.Equal(t, 0.0, FuzzyScore("race condition scheduler", "Baking sourdough bread"))
}

func TestFuzzyScore_Floors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"all keywords exact", "race condition scheduler", "Debugging a race condition in a scheduler", 1.0},
		{"one strong of two averages above floor", "goroutine banana", "goroutine leak", 0.5},
		{"one strong of three floors at 0.4", "goroutine banana mango", "goroutine leak", 0.4},
		{"two strong of four floors at 0.7", "goroutine leak banana mango", "goroutine leak", 0.7},
		{"stem too far to match", "profiling", "profile the service", 0},
		{"long containment", "goroutines", "goroutine leak", 0.9},
		{"close typo", "gorutine", "goroutine leak", 1 - 1.0/9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FuzzyScore(tt.query, tt.text), 1e-9)
		})
	}
}

func TestFuzzyScore_StopWordFallback(t *testing.T) {
	// With no keywords every token is used, so filler can still match exactly
	assert.InDelta(t, 1.0, FuzzyScore("how do", "do you know how"), 1e-9)
	assert.Equal(t, 0.0, FuzzyScore("?!", "anything"))
}

func TestFuzzyScore_Range(t *testing.T) {
	texts := []string{"", "x", "goroutine leak", "The quick brown fox", "пример текста"}
	queries := []string{"", "fox", "goroutine leaks fox", "пример", "zzzz"}
	for _, q := range queries {
		for _, txt := range texts {
			s := FuzzyScore(q, txt)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestFuzzyScore_ManyStrongHitsCapped(t *testing.T) {
	query := "alpha bravo charlie delta foxtrot hotel"
	text := "hotel foxtrot delta charlie bravo alpha"
	assert.Equal(t, 1.0, FuzzyScore(query, text))
}
