// ABOUTME: Text normalization helpers shared by every scorer
// ABOUTME: Tokenizer, stop-word keyword extractor and edit distance
package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords dilute match scores when included in token averaging
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		i me my we our you your he she it they
		a an the this that these those
		is am are was were be been being
		do does did doing done
		have has had having
		will would shall should can could may might must
		to of in on at by for with from into about
		and or but not no if so then than
		what how when where which who why
		up out just also very really please pls
		want wanna gonna need like know think get got
		hey hi hello heya ok okay thanks thank
		tell ask help make let give show use
		im dont cant wont its thats whats heres
		some any all more much many most other
		here there now well too still already
	`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether a lower-case token is filler
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokenize lower-cases text, turns punctuation into spaces and drops
// single-character tokens
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractKeywords keeps the tokens worth matching on: three or more
// characters and not a stop word
func ExtractKeywords(text string) []string {
	tokens := Tokenize(text)
	keywords := tokens[:0]
	for _, t := range tokens {
		if utf8.RuneCountInString(t) >= 3 && !IsStopWord(t) {
			keywords = append(keywords, t)
		}
	}
	return keywords
}

// Levenshtein returns the edit distance between a and b, counting runes
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}
