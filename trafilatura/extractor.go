// Package trafilatura extracts article content and metadata from result
// pages with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/locsearch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor pulls the main article, its title, publication date and
// declared language out of a page.
type Extractor struct {
	// Fallback enables go-trafilatura's readability and domdistiller
	// fallbacks for pages its own heuristics cannot handle.
	Fallback bool
}

// NewExtractor creates an Extractor with fallbacks enabled.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: true}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*locsearch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.Fallback,
	})
	if err != nil {
		return nil, err
	}

	out := &locsearch.ExtractResult{
		Title:    result.Metadata.Title,
		Language: strings.ToLower(result.Metadata.Language),
	}
	if !result.Metadata.Date.IsZero() {
		out.Published = result.Metadata.Date.Format("2006-01-02")
	}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
