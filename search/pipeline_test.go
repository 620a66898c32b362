package search_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/mock"
	"github.com/fwojciec/locsearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, sources ...locsearch.Source) *locsearch.Registry {
	t.Helper()
	reg, err := locsearch.NewRegistry(sources...)
	require.NoError(t, err)
	return reg
}

func analyzer(lang, optimized string) *mock.QueryAnalyzer {
	return &mock.QueryAnalyzer{
		AnalyzeQueryFn: func(context.Context, string) (*locsearch.QueryAnalysis, error) {
			return &locsearch.QueryAnalysis{Language: lang, Optimized: optimized}, nil
		},
	}
}

func summarizer(digest string, err error) *mock.Summarizer {
	return &mock.Summarizer{
		SummarizeFn: func(context.Context, *locsearch.DigestRequest) (string, error) {
			return digest, err
		},
	}
}

func TestPipeline_RunSearch(t *testing.T) {
	t.Parallel()

	t.Run("runs every stage to ready", func(t *testing.T) {
		t.Parallel()

		var searchedWith, searchedLang string
		a := staticSearcher("a", nil, nil)
		a.SearchFn = func(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
			searchedWith, searchedLang = query, language
			return []*locsearch.RawResult{
				{Title: "one", URL: "https://www.example.com/a/", Snippet: "first", Score: 0.9},
				{Title: "two", URL: "https://other.org/b", Snippet: "second", Score: 0.4},
			}, nil
		}
		b := staticSearcher("b", []*locsearch.RawResult{
			{Title: "dup", URL: "https://example.com/a", Snippet: "again", Score: 0.7},
		}, nil)
		broken := staticSearcher("broken", nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "down"))

		var saved *locsearch.SearchRecord
		p := &search.Pipeline{
			Registry:   newRegistry(t, a, b, broken),
			Analyzer:   analyzer("fr", "politique climatique 2026"),
			Extractor:  failingExtractor(),
			Summarizer: summarizer("A digest.", nil),
			History: &mock.HistoryService{CreateSearchFn: func(ctx context.Context, r *locsearch.SearchRecord) error {
				saved = r
				return nil
			}},
		}

		session, err := p.RunSearch(context.Background(), search.Request{
			Query:  "politique climatique",
			Limits: fastLimits(2),
		})

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "politique climatique 2026", searchedWith)
		assert.Equal(t, "fr", searchedLang)
		assert.Equal(t, "fr", session.Language)
		assert.Len(t, session.Raw, 3)
		assert.Len(t, session.Extracted, 3)
		assert.Len(t, session.Results, 2)
		assert.Equal(t, 1, session.Stats.Duplicates)
		assert.Equal(t, 2, session.Stats.TotalResults)
		assert.Equal(t, 3, session.Stats.SourcesUsed)
		assert.Equal(t, 2, session.Stats.SourcesOK)
		assert.Equal(t, "A digest.", session.Digest)
		assert.Equal(t, []string{"a"}, session.Facets.Sources)
		assert.Equal(t, locsearch.PhaseFailed, session.Progress["broken"])
		assert.Len(t, session.Sources, 3)
		assert.False(t, session.FinishedAt.Before(session.StartedAt))
		require.NotNil(t, saved)
		assert.Equal(t, "politique climatique", saved.Query)
	})

	t.Run("falls back to raw query and request language when preprocessing fails", func(t *testing.T) {
		t.Parallel()

		var searchedWith, searchedLang string
		a := staticSearcher("a", nil, nil)
		a.SearchFn = func(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
			searchedWith, searchedLang = query, language
			return hits("a", 1), nil
		}
		p := &search.Pipeline{
			Registry: newRegistry(t, a),
			Analyzer: &mock.QueryAnalyzer{AnalyzeQueryFn: func(context.Context, string) (*locsearch.QueryAnalysis, error) {
				return nil, errors.New("malformed")
			}},
		}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "  climate policy ", Language: "es", Limits: fastLimits(1)})

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
		assert.Equal(t, "climate policy", searchedWith)
		assert.Equal(t, "es", searchedLang)
		assert.Equal(t, "climate policy", session.OptimizedQuery)
	})

	t.Run("uses default language when nothing else is known", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{
			Registry:        newRegistry(t, staticSearcher("a", hits("a", 1), nil)),
			DefaultLanguage: "fr",
		}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})

		require.NoError(t, err)
		assert.Equal(t, "fr", session.Language)
		assert.Equal(t, "fr", session.Results[0].Language)
	})

	t.Run("uses placeholder digest when summarizing fails", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{
			Registry:   newRegistry(t, staticSearcher("a", hits("a", 2), nil)),
			Summarizer: summarizer("", errors.New("quota")),
		}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
		assert.Equal(t, locsearch.DigestUnavailable, session.Digest)
	})

	t.Run("ready with no results when every source fails", func(t *testing.T) {
		t.Parallel()

		called := false
		p := &search.Pipeline{
			Registry: newRegistry(t, staticSearcher("a", nil, errors.New("down"))),
			Summarizer: &mock.Summarizer{SummarizeFn: func(context.Context, *locsearch.DigestRequest) (string, error) {
				called = true
				return "", nil
			}},
		}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
		assert.Empty(t, session.Results)
		assert.Equal(t, locsearch.DigestNoResults, session.Digest)
		assert.False(t, called)
	})

	t.Run("fails on empty query", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", nil, nil))}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "   "})

		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
		assert.Equal(t, locsearch.StateFailed, session.State)
		assert.Equal(t, err, session.Err)
	})

	t.Run("fails when no search source is usable", func(t *testing.T) {
		t.Parallel()

		keyless := &mock.Searcher{Desc: locsearch.SourceDescriptor{
			Name: "tavily", Capabilities: locsearch.CapSearch, KeyRequired: true,
		}}
		p := &search.Pipeline{Registry: newRegistry(t, keyless)}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q"})

		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
		assert.Contains(t, locsearch.ErrorMessage(err), "tavily")
		assert.Equal(t, locsearch.StateFailed, session.State)
	})

	t.Run("fails when only scrape sources are configured", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{Registry: newRegistry(t, &mock.Scraper{
			Desc: locsearch.SourceDescriptor{Name: "bee", Capabilities: locsearch.CapScrape},
		})}

		_, err := p.RunSearch(context.Background(), search.Request{Query: "q"})

		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
	})

	t.Run("fails on unknown source selection", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", nil, nil))}

		_, err := p.RunSearch(context.Background(), search.Request{Query: "q", Sources: []string{"nope"}})

		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
	})

	t.Run("fails on invalid limits", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", nil, nil))}

		_, err := p.RunSearch(context.Background(), search.Request{
			Query:  "q",
			Limits: locsearch.LimiterConfig{MaxConcurrent: 0, RequestsPerMinute: 5},
		})

		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
	})

	t.Run("restricts search to selected sources", func(t *testing.T) {
		t.Parallel()

		var bCalled atomic.Bool
		b := staticSearcher("b", nil, nil)
		b.SearchFn = func(context.Context, string, string) ([]*locsearch.RawResult, error) {
			bCalled.Store(true)
			return nil, nil
		}
		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", hits("a", 1), nil), b)}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q", Sources: []string{"a"}, Limits: fastLimits(2)})

		require.NoError(t, err)
		assert.False(t, bCalled.Load())
		assert.Len(t, session.Sources, 1)
	})

	t.Run("logs history failure without failing", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{
			Registry: newRegistry(t, staticSearcher("a", hits("a", 1), nil)),
			History: &mock.HistoryService{CreateSearchFn: func(context.Context, *locsearch.SearchRecord) error {
				return errors.New("disk full")
			}},
		}

		session, err := p.RunSearch(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
	})
}

func TestPipeline_Start(t *testing.T) {
	t.Parallel()

	t.Run("emits state transitions in order", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", hits("a", 1), nil))}

		job := p.Start(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})
		var states []locsearch.SessionState
		var sourceEvents int
		for e := range job.Events() {
			if e.Source == "" {
				states = append(states, e.State)
			} else {
				sourceEvents++
			}
		}
		session, err := job.Wait()

		require.NoError(t, err)
		assert.Equal(t, locsearch.StateReady, session.State)
		assert.Equal(t, []locsearch.SessionState{
			locsearch.StatePreprocessing,
			locsearch.StateRetrieving,
			locsearch.StateExtracting,
			locsearch.StateDeduplicating,
			locsearch.StateSummarizing,
			locsearch.StateReady,
		}, states)
		assert.Equal(t, 3, sourceEvents)
	})

	t.Run("cancel fails the session and lets started calls drain", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		var finished atomic.Bool
		slow := staticSearcher("slow", nil, nil)
		slow.SearchFn = func(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
			close(started)
			<-release
			finished.Store(true)
			return hits("slow", 1), ctx.Err()
		}
		var otherCalled atomic.Bool
		other := staticSearcher("other", nil, nil)
		other.SearchFn = func(context.Context, string, string) ([]*locsearch.RawResult, error) {
			otherCalled.Store(true)
			return nil, nil
		}
		p := &search.Pipeline{Registry: newRegistry(t, slow, other)}

		job := p.Start(context.Background(), search.Request{Query: "q", Limits: fastLimits(1)})
		<-started
		job.Cancel()
		close(release)
		session, err := job.Wait()

		assert.Equal(t, locsearch.ECANCELED, locsearch.ErrorCode(err))
		assert.Equal(t, locsearch.StateFailed, session.State)
		assert.True(t, finished.Load())
		assert.False(t, otherCalled.Load())
		assert.Equal(t, locsearch.PhaseCompleted, session.Progress["slow"])
		assert.Equal(t, locsearch.PhaseFailed, session.Progress["other"])
	})

	t.Run("parent context cancellation fails the session", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &search.Pipeline{Registry: newRegistry(t, staticSearcher("a", hits("a", 1), nil))}

		session, err := p.RunSearch(ctx, search.Request{Query: "q", Limits: fastLimits(1)})

		assert.Equal(t, locsearch.ECANCELED, locsearch.ErrorCode(err))
		assert.Equal(t, locsearch.StateFailed, session.State)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		t.Parallel()

		p := &search.Pipeline{
			Registry: newRegistry(t, staticSearcher("a", hits("a", 2), nil)),
			Now:      func() time.Time { return fixedNow },
		}

		j1 := p.Start(context.Background(), search.Request{Query: "first", Limits: fastLimits(1)})
		j2 := p.Start(context.Background(), search.Request{Query: "second", Limits: fastLimits(1)})
		s1, err1 := j1.Wait()
		s2, err2 := j2.Wait()

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, s1.ID, s2.ID)
		assert.Equal(t, "first", s1.Query)
		assert.Equal(t, "second", s2.Query)
	})
}
