package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

var (
	_ locsearch.QueryAnalyzer   = (*LoggingQueryAnalyzer)(nil)
	_ locsearch.RecordExtractor = (*LoggingRecordExtractor)(nil)
	_ locsearch.Summarizer      = (*LoggingSummarizer)(nil)
)

// LoggingQueryAnalyzer wraps a QueryAnalyzer with logging.
type LoggingQueryAnalyzer struct {
	next   locsearch.QueryAnalyzer
	logger *slog.Logger
}

// NewLoggingQueryAnalyzer creates a new LoggingQueryAnalyzer.
func NewLoggingQueryAnalyzer(next locsearch.QueryAnalyzer, logger *slog.Logger) *LoggingQueryAnalyzer {
	return &LoggingQueryAnalyzer{next: next, logger: logger}
}

// AnalyzeQuery delegates to the wrapped analyzer and logs the outcome.
func (a *LoggingQueryAnalyzer) AnalyzeQuery(ctx context.Context, query string) (analysis *locsearch.QueryAnalysis, err error) {
	defer func(begin time.Time) {
		attrs := []any{"query", query, "duration", time.Since(begin), "err", err}
		if analysis != nil {
			attrs = append(attrs, "language", analysis.Language, "optimized", analysis.Optimized)
		}
		a.logger.Info("query analysis", attrs...)
	}(time.Now())
	return a.next.AnalyzeQuery(ctx, query)
}

// LoggingRecordExtractor wraps a RecordExtractor with logging.
type LoggingRecordExtractor struct {
	next   locsearch.RecordExtractor
	logger *slog.Logger
}

// NewLoggingRecordExtractor creates a new LoggingRecordExtractor.
func NewLoggingRecordExtractor(next locsearch.RecordExtractor, logger *slog.Logger) *LoggingRecordExtractor {
	return &LoggingRecordExtractor{next: next, logger: logger}
}

// ExtractRecord delegates to the wrapped extractor and logs the outcome.
func (e *LoggingRecordExtractor) ExtractRecord(ctx context.Context, req *locsearch.ExtractionRequest) (rec *locsearch.ExtractionRecord, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("record extraction",
			"url", req.URL,
			"chars", len(req.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractRecord(ctx, req)
}

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   locsearch.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next locsearch.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the outcome.
func (s *LoggingSummarizer) Summarize(ctx context.Context, req *locsearch.DigestRequest) (digest string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("digest",
			"query", req.Query,
			"results", len(req.Results),
			"chars", len(digest),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, req)
}
