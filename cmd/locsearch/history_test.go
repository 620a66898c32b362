package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	main "github.com/fwojciec/locsearch/cmd/locsearch"
	"github.com/fwojciec/locsearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyDeps(history locsearch.HistoryService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  stderr,
		History: history,
	}, stdout, stderr
}

func sampleRecord() *locsearch.SearchRecord {
	return &locsearch.SearchRecord{
		ID:             "rec-1",
		Query:          "climate policy",
		Language:       "en",
		OptimizedQuery: "climate policy 2026",
		Digest:         "Policies are tightening.",
		Stats:          locsearch.Stats{TotalResults: 12},
		Results: []*locsearch.ExtractedResult{{
			RawResult:   locsearch.RawResult{Title: "EU targets", URL: "https://eu.example.com/t", Source: "tavily"},
			Description: "New targets announced.",
			PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Language:    "en",
			Domain:      "eu.example.com",
		}},
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists searches", func(t *testing.T) {
		t.Parallel()

		var got locsearch.HistoryFilter
		deps, stdout, _ := historyDeps(&mock.HistoryService{
			FindSearchesFn: func(_ context.Context, f locsearch.HistoryFilter) ([]*locsearch.SearchRecord, error) {
				got = f
				return []*locsearch.SearchRecord{sampleRecord()}, nil
			},
		})

		cmd := &main.HistoryListCmd{Query: "climate policy", Limit: 5, Offset: 1}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, got.Query)
		assert.Equal(t, "climate policy", *got.Query)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, 1, got.Offset)
		assert.Contains(t, stdout.String(), "rec-1")
		assert.Contains(t, stdout.String(), "climate policy")
		assert.Contains(t, stdout.String(), "12 results")
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := historyDeps(&mock.HistoryService{
			FindSearchesFn: func(context.Context, locsearch.HistoryFilter) ([]*locsearch.SearchRecord, error) {
				return nil, nil
			},
		})

		require.NoError(t, (&main.HistoryListCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No searches found")
	})
}

func TestHistoryShowCmd_Run(t *testing.T) {
	t.Parallel()

	find := &mock.HistoryService{
		FindSearchByIDFn: func(_ context.Context, id string) (*locsearch.SearchRecord, error) {
			if id != "rec-1" {
				return nil, locsearch.Errorf(locsearch.ENOTFOUND, "search %q not found", id)
			}
			return sampleRecord(), nil
		},
	}

	t.Run("prints record", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := historyDeps(find)
		require.NoError(t, (&main.HistoryShowCmd{ID: "rec-1"}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "climate policy 2026")
		assert.Contains(t, out, "Policies are tightening.")
		assert.Contains(t, out, "EU targets")
		assert.Contains(t, out, "1 results saved of 12")
	})

	t.Run("prints json", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := historyDeps(find)
		require.NoError(t, (&main.HistoryShowCmd{ID: "rec-1", JSON: true}).Run(deps))

		var got locsearch.SearchRecord
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "rec-1", got.ID)
		require.Len(t, got.Results, 1)
		assert.Equal(t, "https://eu.example.com/t", got.Results[0].URL)
	})

	t.Run("reports missing record", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := historyDeps(find)
		err := (&main.HistoryShowCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, locsearch.ENOTFOUND, locsearch.ErrorCode(err))
		assert.Contains(t, stderr.String(), `search "nope" not found`)
	})
}

func TestHistoryDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := historyDeps(&mock.HistoryService{})
		err := (&main.HistoryDeleteCmd{ID: "rec-1"}).Run(deps)

		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes", func(t *testing.T) {
		t.Parallel()

		var deleted string
		deps, stdout, _ := historyDeps(&mock.HistoryService{
			DeleteSearchFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		})

		require.NoError(t, (&main.HistoryDeleteCmd{ID: "rec-1", Force: true}).Run(deps))
		assert.Equal(t, "rec-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted search rec-1")
	})
}

func TestHistoryClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := historyDeps(&mock.HistoryService{})
		err := (&main.HistoryClearCmd{}).Run(deps)
		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
	})

	t.Run("clears", func(t *testing.T) {
		t.Parallel()

		cleared := false
		deps, stdout, _ := historyDeps(&mock.HistoryService{
			ClearSearchesFn: func(context.Context) error {
				cleared = true
				return nil
			},
		})

		require.NoError(t, (&main.HistoryClearCmd{Force: true}).Run(deps))
		assert.True(t, cleared)
		assert.Contains(t, stdout.String(), "Cleared")
	})
}
