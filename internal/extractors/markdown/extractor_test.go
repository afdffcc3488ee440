package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	exts := New().SupportedExtensions()
	assert.ElementsMatch(t, []string{"md", "markdown"}, exts)
}

func TestExtract_StripsFormatting(t *testing.T) {
	input := "# Title\n\n" +
		"Some **bold** and *italic* text with a [link](http://x) and ![img](a.png).\n\n" +
		"- item one\n- item two\n\n" +
		"1. first\n\n" +
		"> quote\n\n" +
		"```go\nfmt.Println(1)\n```\n\n" +
		"---\n\n" +
		"Use `snake_case` names."

	text, err := New().Extract(context.Background(), []byte(input), "doc.md")
	require.NoError(t, err)

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Some bold and italic text with a link and .")
	assert.Contains(t, text, "item one\nitem two")
	assert.Contains(t, text, "first")
	assert.Contains(t, text, "quote")
	assert.Contains(t, text, "fmt.Println(1)")
	assert.Contains(t, text, "Use snake_case names.")

	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "](")
	assert.NotContains(t, text, "```")
	assert.NotContains(t, text, "# ")
	assert.NotContains(t, text, "---")
	assert.NotContains(t, text, "> ")
}

func TestExtract_CollapsesBlankLines(t *testing.T) {
	text, err := New().Extract(context.Background(), []byte("a\n\n\n\n\nb"), "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", text)
}

func TestExtract_CRLF(t *testing.T) {
	text, err := New().Extract(context.Background(), []byte("## Heading\r\n\r\nBody"), "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nBody", text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0xc3, 0x28}, "doc.md")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first h1", "intro\n# Main\n# Second", "Main"},
		{"indented", "   # Spaced  ", "Spaced"},
		{"h2 only", "## Not a title", ""},
		{"none", "plain text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.content))
		})
	}
}
