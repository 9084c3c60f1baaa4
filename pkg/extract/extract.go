// Package extract derives concise text excerpts from supplementary documents
// so the prompt composer can treat them as an opaque strategy fact.
package extract

import (
	"strings"

	"github.com/menagerie-labs/boardroom/pkg/models"
)

// MaxExcerptChars bounds the excerpt handed to the prompt composer.
const MaxExcerptChars = 4000

// Extractor turns an uploaded document into a short text excerpt. An empty
// result means no excerpt could be derived.
type Extractor interface {
	ExtractTextExcerpt(f *models.SupplementaryFile) string
}

// TextExtractor handles text-bearing formats (markdown, plain text) directly.
// PDF byte-level extraction stays an external collaborator, so PDFs yield no
// excerpt here.
type TextExtractor struct{}

// NewTextExtractor returns the built-in extractor.
func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

func (*TextExtractor) ExtractTextExcerpt(f *models.SupplementaryFile) string {
	if f == nil {
		return ""
	}
	switch f.Type {
	case models.FileTypeMarkdown, models.FileTypeText:
		t := strings.TrimSpace(f.Content)
		if len(t) > MaxExcerptChars {
			t = t[:MaxExcerptChars]
		}
		return t
	default:
		return ""
	}
}

// Enrich fills strategy.SupplementaryFile.TextExcerpt when a document is
// attached and no excerpt exists yet. It mutates the strategy in place.
func Enrich(s *models.BusinessStrategy, e Extractor) {
	if s == nil || s.SupplementaryFile == nil || s.SupplementaryFile.TextExcerpt != "" {
		return
	}
	if excerpt := e.ExtractTextExcerpt(s.SupplementaryFile); excerpt != "" {
		s.SupplementaryFile.TextExcerpt = excerpt
	}
}
