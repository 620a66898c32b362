// Package readability extracts article content with go-readability.
// It is lighter than trafilatura and serves as the alternative
// extraction backend.
package readability

import (
	"strings"

	"github.com/fwojciec/locsearch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*locsearch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	out := &locsearch.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Language:    strings.ToLower(article.Language),
	}
	if article.PublishedTime != nil {
		out.Published = article.PublishedTime.Format("2006-01-02")
	}
	return out, nil
}
