package prometheus_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/mock"
	locprom "github.com/fwojciec/locsearch/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedSearcher_Search(t *testing.T) {
	t.Parallel()

	m := locprom.NewMetrics(nil)
	calls := 0
	inner := &mock.Searcher{
		Desc: locsearch.SourceDescriptor{Name: "tavily", Capabilities: locsearch.CapSearch},
		SearchFn: func(context.Context, string, string) ([]*locsearch.RawResult, error) {
			calls++
			if calls == 2 {
				return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "down")
			}
			return []*locsearch.RawResult{{URL: "a"}, {URL: "b"}, {URL: "c"}}, nil
		},
	}
	s := locprom.NewInstrumentedSearcher(inner, m)

	_, err := s.Search(context.Background(), "q", "en")
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "q", "en")
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceRequests.WithLabelValues("tavily", "search", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceRequests.WithLabelValues("tavily", "search", locsearch.EUNAVAILABLE)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.SourceResults.WithLabelValues("tavily")), 0)
	assert.Equal(t, "tavily", s.Descriptor().Name)
}

func TestInstrumentedScraper_FetchContent(t *testing.T) {
	t.Parallel()

	m := locprom.NewMetrics(nil)
	inner := &mock.Scraper{
		Desc:           locsearch.SourceDescriptor{Name: "page", Capabilities: locsearch.CapScrape},
		FetchContentFn: func(context.Context, string) (*locsearch.ScrapedPage, error) {
			return &locsearch.ScrapedPage{Content: "text"}, nil
		},
	}

	_, err := locprom.NewInstrumentedScraper(inner, m).FetchContent(context.Background(), "https://a.example")

	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceRequests.WithLabelValues("page", "scrape", "ok")), 0)
}

func TestMetrics_ObserveSession(t *testing.T) {
	t.Parallel()

	m := locprom.NewMetrics(nil)

	m.ObserveSession(&locsearch.Session{
		State: locsearch.StateReady,
		Stats: locsearch.Stats{TotalResults: 7, Duplicates: 2, Elapsed: 3 * time.Second},
	})
	m.ObserveSession(&locsearch.Session{State: locsearch.StateFailed})
	m.ObserveSession(&locsearch.Session{State: locsearch.StateRetrieving})
	m.ObserveSession(nil)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Sessions.WithLabelValues("ready")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Sessions.WithLabelValues("failed")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Duplicates), 0)
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := locprom.NewMetrics(nil)
	m.Duplicates.Add(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "locsearch_duplicates_removed_total 4")
}
