package locsearch

import (
	"context"
	"time"
)

// MaxHistoryEntries is the number of searches kept by a HistoryService.
const MaxHistoryEntries = 50

// MaxHistoryResults is the number of results stored per search.
const MaxHistoryResults = 10

// SearchRecord is a finished search saved to history.
type SearchRecord struct {
	ID             string             `json:"id"`
	Query          string             `json:"query"`
	Language       string             `json:"language"`
	OptimizedQuery string             `json:"optimizedQuery"`
	Digest         string             `json:"digest"`
	Stats          Stats              `json:"stats"`
	Results        []*ExtractedResult `json:"results"`
	Fingerprint    string             `json:"fingerprint"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// Validate returns an error if the record is missing required fields.
func (r *SearchRecord) Validate() error {
	if r.Query == "" {
		return Errorf(EINVALID, "search record query required")
	}
	return nil
}

// NewSearchRecord builds a history record from a finished session,
// keeping its first MaxHistoryResults results.
func NewSearchRecord(s *Session) *SearchRecord {
	results := s.Results
	if len(results) > MaxHistoryResults {
		results = results[:MaxHistoryResults]
	}
	return &SearchRecord{
		Query:          s.Query,
		Language:       s.Language,
		OptimizedQuery: s.OptimizedQuery,
		Digest:         s.Digest,
		Stats:          s.Stats,
		Results:        append([]*ExtractedResult(nil), results...),
	}
}

// HistoryFilter represents a filter for FindSearches.
type HistoryFilter struct {
	ID    *string
	Query *string

	Limit  int
	Offset int
}

// HistoryService manages saved searches. Implementations keep at most
// MaxHistoryEntries records, evicting the oldest.
type HistoryService interface {
	CreateSearch(ctx context.Context, record *SearchRecord) error
	FindSearchByID(ctx context.Context, id string) (*SearchRecord, error)
	FindSearches(ctx context.Context, filter HistoryFilter) ([]*SearchRecord, error)
	DeleteSearch(ctx context.Context, id string) error
	ClearSearches(ctx context.Context) error
}
