package services

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// QueryTokens returns the distinct lowercase alphanumeric runs of query
// in first-seen order.
func QueryTokens(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]struct{}, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return tokens
}

// countTokens returns the summed occurrence count of tokens in
// lowered text and the tokens found at least once.
// Occurrences are substring matches, so "refund" also counts inside "refunds".
func countTokens(lowered string, tokens []string) (int, []string) {
	total := 0
	var matched []string
	for _, tok := range tokens {
		n := strings.Count(lowered, tok)
		if n > 0 {
			total += n
			matched = append(matched, tok)
		}
	}
	return total, matched
}
