package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

var (
	_ locsearch.Searcher = (*LoggingSearcher)(nil)
	_ locsearch.Scraper  = (*LoggingScraper)(nil)
)

// LoggingSearcher wraps a Searcher and logs every query it answers.
type LoggingSearcher struct {
	next   locsearch.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next locsearch.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Descriptor returns the wrapped source's descriptor.
func (s *LoggingSearcher) Descriptor() locsearch.SourceDescriptor {
	return s.next.Descriptor()
}

// Search delegates to the wrapped searcher and logs the outcome.
func (s *LoggingSearcher) Search(ctx context.Context, query, language string) (results []*locsearch.RawResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("source search",
			"source", s.next.Descriptor().Name,
			"query", query,
			"language", language,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, language)
}

// LoggingScraper wraps a Scraper and logs every page it reads.
type LoggingScraper struct {
	next   locsearch.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next locsearch.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Descriptor returns the wrapped source's descriptor.
func (s *LoggingScraper) Descriptor() locsearch.SourceDescriptor {
	return s.next.Descriptor()
}

// FetchContent delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) FetchContent(ctx context.Context, url string) (page *locsearch.ScrapedPage, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("source scrape",
			"source", s.next.Descriptor().Name,
			"url", url,
			"chars", pageLen(page),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchContent(ctx, url)
}

func pageLen(page *locsearch.ScrapedPage) int {
	if page == nil {
		return 0
	}
	return len(page.Content)
}
