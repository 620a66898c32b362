// Package goquery provides HTML handling built on goquery: a text
// cleaner for snippets and model output, and a lightweight metadata
// extractor for result pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locsearch"
)

// Ensure Cleaner implements locsearch.TextCleaner at compile time.
var _ locsearch.TextCleaner = (*Cleaner)(nil)

// noise lists elements whose text never belongs in a description.
const noise = "script, style, noscript, template, iframe, svg"

// Cleaner strips markup from text.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the visible text of s with whitespace collapsed.
// Input without markup is only whitespace-collapsed.
func (c *Cleaner) Clean(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return locsearch.CollapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return locsearch.CollapseWhitespace(s)
	}
	doc.Find(noise).Remove()

	// Separate block elements so adjacent paragraphs do not run together.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return locsearch.CollapseWhitespace(doc.Text())
}
