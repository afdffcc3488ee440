package extractors

import (
	"github.com/custodia-labs/docvault/internal/extractors/docx"
	"github.com/custodia-labs/docvault/internal/extractors/html"
	"github.com/custodia-labs/docvault/internal/extractors/markdown"
	"github.com/custodia-labs/docvault/internal/extractors/pdf"
	"github.com/custodia-labs/docvault/internal/extractors/plaintext"
	"github.com/custodia-labs/docvault/internal/extractors/xlsx"
)

// RegisterDefaults registers all built-in extractors.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	r.Register(xlsx.New())
}

// NewDefaultRegistry returns a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
