package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

type stubExtractor struct {
	exts []string
	text string
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }

func (s *stubExtractor) Extract(context.Context, []byte, string) (string, error) {
	return s.text, nil
}

var _ driven.TextExtractor = (*stubExtractor)(nil)

func TestRegistry_ExtractByExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"txt"}, text: "from txt"})
	r.Register(&stubExtractor{exts: []string{".PDF"}, text: "from pdf"})

	text, err := r.Extract(context.Background(), nil, "notes.TXT")
	require.NoError(t, err)
	assert.Equal(t, "from txt", text)

	text, err = r.Extract(context.Background(), nil, "dir/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "from pdf", text)
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"txt"}})

	_, err := r.Extract(context.Background(), nil, "image.png")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Extract(context.Background(), nil, "no-extension")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"txt"}, text: "first"})
	r.Register(&stubExtractor{exts: []string{"txt"}, text: "second"})

	text, err := r.Extract(context.Background(), nil, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestRegistry_SupportedExtensionsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"md", "txt"}})
	r.Register(&stubExtractor{exts: []string{"docx"}})

	assert.Equal(t, []string{"docx", "md", "txt"}, r.SupportedExtensions())
	assert.True(t, r.Has(".MD"))
	assert.False(t, r.Has("pdf"))
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	for _, ext := range []string{"txt", "md", "markdown", "html", "docx", "pdf", "xlsx"} {
		assert.True(t, r.Has(ext), ext)
	}

	text, err := r.Extract(context.Background(), []byte("# Heading\n\nBody text."), "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nBody text.", text)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("/tmp/A.PDF"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "", Extension("README"))
}
