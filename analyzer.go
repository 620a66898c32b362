package locsearch

import "context"

// QueryAnalysis is the outcome of query preprocessing.
type QueryAnalysis struct {
	Language  string `json:"language"`
	Optimized string `json:"optimized"`
}

// QueryAnalyzer detects the language of a query and rewrites it for
// search engines.
type QueryAnalyzer interface {
	AnalyzeQuery(ctx context.Context, query string) (*QueryAnalysis, error)
}

// ExtractionRequest is the input for structured extraction of one result.
type ExtractionRequest struct {
	Title    string
	URL      string
	Content  string
	Language string
}

// ExtractionRecord holds the fields returned by a RecordExtractor.
// Any field may be empty; callers fill gaps with fallbacks.
type ExtractionRecord struct {
	Description string  `json:"description"`
	Published   *string `json:"publishedDate"`
	Language    string  `json:"language"`
	Domain      string  `json:"domain"`
}

// RecordExtractor turns page content into an ExtractionRecord.
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, req *ExtractionRequest) (*ExtractionRecord, error)
}

// DigestRequest is the input for summarizing a finished result set.
type DigestRequest struct {
	Query          string
	OptimizedQuery string
	Language       string
	Results        []*ExtractedResult
}

// Summarizer writes a short digest of a result set.
type Summarizer interface {
	Summarize(ctx context.Context, req *DigestRequest) (string, error)
}
