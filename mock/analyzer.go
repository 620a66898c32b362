package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var (
	_ locsearch.QueryAnalyzer   = (*QueryAnalyzer)(nil)
	_ locsearch.RecordExtractor = (*RecordExtractor)(nil)
	_ locsearch.Summarizer      = (*Summarizer)(nil)
)

// QueryAnalyzer is a mock implementation of locsearch.QueryAnalyzer.
type QueryAnalyzer struct {
	AnalyzeQueryFn func(ctx context.Context, query string) (*locsearch.QueryAnalysis, error)
}

func (a *QueryAnalyzer) AnalyzeQuery(ctx context.Context, query string) (*locsearch.QueryAnalysis, error) {
	return a.AnalyzeQueryFn(ctx, query)
}

// RecordExtractor is a mock implementation of locsearch.RecordExtractor.
type RecordExtractor struct {
	ExtractRecordFn func(ctx context.Context, req *locsearch.ExtractionRequest) (*locsearch.ExtractionRecord, error)
}

func (e *RecordExtractor) ExtractRecord(ctx context.Context, req *locsearch.ExtractionRequest) (*locsearch.ExtractionRecord, error) {
	return e.ExtractRecordFn(ctx, req)
}

// Summarizer is a mock implementation of locsearch.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, req *locsearch.DigestRequest) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, req *locsearch.DigestRequest) (string, error) {
	return s.SummarizeFn(ctx, req)
}
