// Package scrape composes a fetcher, an extractor and a converter into a
// scrape source.
package scrape

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
)

// Ensure PageScraper implements locsearch.Scraper at compile time.
var _ locsearch.Scraper = (*PageScraper)(nil)

// PageScraper fetches a page, extracts its main content and returns it
// as Markdown with the title, date and language the extractor found.
// Pages whose main content is empty yield empty Content with no error.
type PageScraper struct {
	Name        string
	APIKey      string
	KeyRequired bool

	Fetcher   locsearch.Fetcher
	Extractor locsearch.Extractor
	// Converter is optional. Without it the extracted HTML is returned.
	Converter locsearch.Converter

	// RetryDelays are waited between fetch attempts. Nil means no retry.
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Descriptor returns the source descriptor.
func (s *PageScraper) Descriptor() locsearch.SourceDescriptor {
	return locsearch.SourceDescriptor{
		Name:         s.Name,
		Capabilities: locsearch.CapScrape,
		APIKey:       s.APIKey,
		KeyRequired:  s.KeyRequired,
	}
}

// FetchContent returns the main content of url as Markdown.
func (s *PageScraper) FetchContent(ctx context.Context, url string) (*locsearch.ScrapedPage, error) {
	html, err := FetchWithRetry(ctx, url, s.Fetcher.Fetch, s.Logger, s.RetryDelays)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	if strings.TrimSpace(html) == "" {
		return &locsearch.ScrapedPage{}, nil
	}

	extracted, err := s.Extractor.Extract(html)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.ESOURCE, "extract %s: %v", url, err)
	}
	page := &locsearch.ScrapedPage{
		Title:     strings.TrimSpace(extracted.Title),
		Published: strings.TrimSpace(extracted.Published),
		Language:  strings.ToLower(strings.TrimSpace(extracted.Language)),
	}
	if strings.TrimSpace(extracted.ContentHTML) == "" {
		return page, nil
	}
	if s.Converter == nil {
		page.Content = extracted.ContentHTML
		return page, nil
	}

	markdown, err := s.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.ESOURCE, "convert %s: %v", url, err)
	}
	page.Content = strings.TrimSpace(markdown)
	return page, nil
}

// Close releases the fetcher.
func (s *PageScraper) Close() error {
	return s.Fetcher.Close()
}
