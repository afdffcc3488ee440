package services

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// BestSnippet returns the window-sized slice of text containing the most
// query token occurrences, scanning starts 0, step, 2*step, ... up to
// len(text)-window. The earliest best window wins; with no occurrences
// the first window is used. An ellipsis marks each side where text was cut.
// Text no longer than window is returned unchanged.
func BestSnippet(text string, tokens []string, window, step int) string {
	if window <= 0 || len(text) <= window {
		return text
	}
	if step <= 0 {
		step = window
	}

	// Each window is lowered on its own: folding can change byte lengths,
	// so offsets always refer to the original text.
	bestStart, bestScore := 0, 0
	last := len(text) - window
	for start := 0; start <= last; start += step {
		w := text[alignStart(text, start):alignEnd(text, start+window)]
		score, _ := countTokens(strings.ToLower(w), tokens)
		if score > bestScore {
			bestStart, bestScore = start, score
		}
	}

	start := alignStart(text, bestStart)
	end := alignEnd(text, bestStart+window)

	snippet := text[start:end]
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(text) {
		snippet += ellipsis
	}
	return snippet
}

func alignStart(text string, pos int) int {
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

func alignEnd(text string, pos int) int {
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
