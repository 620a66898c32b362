package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locsearch"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// contentSelectors are tried in order; the first match is the content.
var contentSelectors = []string{"article", "main", "[role=main]", "#content", "body"}

var publishedSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[name="date"]`,
	`meta[itemprop="datePublished"]`,
	`meta[name="DC.date.issued"]`,
}

// Extractor reads page metadata and picks the main content by selector.
// It is far cheaper than the readability-style extractors and suits
// pages that mark their content up semantically.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns title, content, publication date and language.
func (e *Extractor) Extract(html string) (*locsearch.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EINVALID, "failed to parse HTML: %v", err)
	}

	out := &locsearch.ExtractResult{
		Title:    metaContent(doc, `meta[property="og:title"]`),
		Language: strings.ToLower(strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))),
	}
	if out.Title == "" {
		out.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if i := strings.IndexByte(out.Language, '-'); i > 0 {
		out.Language = out.Language[:i]
	}
	for _, sel := range publishedSelectors {
		if v := metaContent(doc, sel); v != "" {
			out.Published = v
			break
		}
	}
	if out.Published == "" {
		out.Published = strings.TrimSpace(doc.Find("time[datetime]").First().AttrOr("datetime", ""))
	}

	doc.Find(noise + ", nav, header, footer, aside, form").Remove()
	for _, sel := range contentSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		h, err := s.Html()
		if err != nil {
			return nil, locsearch.Errorf(locsearch.EINTERNAL, "render content: %v", err)
		}
		if strings.TrimSpace(s.Text()) != "" {
			out.ContentHTML = strings.TrimSpace(h)
			break
		}
	}
	return out, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
