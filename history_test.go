package locsearch_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/stretchr/testify/assert"
)

func TestNewSearchRecord(t *testing.T) {
	t.Parallel()

	var results []*locsearch.ExtractedResult
	for i := 0; i < 12; i++ {
		results = append(results, result(fmt.Sprintf("https://example.com/%d", i)))
	}
	session := &locsearch.Session{
		Query:          "climate policy",
		Language:       "en",
		OptimizedQuery: "climate policy news",
		Digest:         "digest",
		Results:        results,
		Stats:          locsearch.Stats{TotalResults: 12},
	}

	record := locsearch.NewSearchRecord(session)

	assert.Equal(t, "climate policy", record.Query)
	assert.Equal(t, "climate policy news", record.OptimizedQuery)
	assert.Equal(t, 12, record.Stats.TotalResults)
	assert.Len(t, record.Results, locsearch.MaxHistoryResults)
	assert.NoError(t, record.Validate())
}

func TestSearchRecord_Validate(t *testing.T) {
	t.Parallel()

	err := (&locsearch.SearchRecord{}).Validate()

	assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
}
