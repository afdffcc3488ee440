package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBestSnippet_ShortTextUnchanged(t *testing.T) {
	text := strings.Repeat("a", 500)
	assert.Equal(t, text, BestSnippet(text, []string{"a"}, 500, 100))
}

func TestBestSnippet_PicksDensestWindow(t *testing.T) {
	text := strings.Repeat("x", 700) + "refund refund policy" + strings.Repeat("y", 580)

	got := BestSnippet(text, []string{"refund", "policy"}, 500, 100)

	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Contains(t, got, "refund refund policy")
	// Earliest window covering the terms starts at 300.
	assert.Equal(t, "..."+text[300:800]+"...", got)
}

func TestBestSnippet_NoMatchFallsBackToStart(t *testing.T) {
	text := strings.Repeat("abc ", 300)

	got := BestSnippet(text, []string{"zzz"}, 500, 100)
	assert.Equal(t, text[:500]+"...", got)
}

func TestBestSnippet_CaseInsensitive(t *testing.T) {
	text := strings.Repeat("-", 900) + "POLICY" + strings.Repeat("-", 100)

	got := BestSnippet(text, []string{"policy"}, 500, 100)
	assert.Contains(t, got, "POLICY")
}

func TestBestSnippet_CaseInsensitiveWithLengthChangingRune(t *testing.T) {
	// Lowering "İ" grows it by a byte, which must not shift window offsets.
	text := "İstanbul. " + strings.Repeat("x", 800) + " REFUND POLICY " + strings.Repeat("y", 800)

	got := BestSnippet(text, []string{"refund", "policy"}, 500, 100)

	assert.Contains(t, got, "REFUND POLICY")
	assert.True(t, strings.HasPrefix(got, ellipsis))
	assert.NotContains(t, got, "İstanbul")
}

func TestBestSnippet_MultiByteTextStaysValid(t *testing.T) {
	text := strings.Repeat("Привет мир. ", 60) + "ВОЗВРАТ денег" + strings.Repeat(" ёж", 200)

	got := BestSnippet(text, []string{"возврат"}, 300, 100)

	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "ВОЗВРАТ")
}

func TestBestSnippet_FinalWindowHasNoTrailingEllipsis(t *testing.T) {
	text := strings.Repeat("-", 500) + "target"

	got := BestSnippet(text, []string{"target"}, 506, 100)
	assert.Equal(t, text, got)

	got = BestSnippet(strings.Repeat("-", 600)+"target", []string{"target"}, 506, 100)
	assert.Equal(t, "..."+strings.Repeat("-", 500)+"target", got)
}
