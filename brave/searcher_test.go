package brave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/brave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("sends query, language and token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/res/v1/web/search", r.URL.Path)
			assert.Equal(t, "élections 2024", r.URL.Query().Get("q"))
			assert.Equal(t, "fr", r.URL.Query().Get("search_lang"))
			assert.Equal(t, "10", r.URL.Query().Get("count"))
			assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
			_, _ = w.Write([]byte(`{"web":{"results":[
				{"title":"First","url":"https://one.example/","description":"<strong>one</strong>","page_age":"2024-06-01T00:00:00"},
				{"title":"Second","url":"https://two.example/","description":"two"}
			]}}`))
		}))
		defer srv.Close()

		s := brave.NewSearcher("brave-key")
		s.BaseURL = srv.URL

		results, err := s.Search(context.Background(), "élections 2024", "fr")

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "First", results[0].Title)
		assert.Equal(t, "brave", results[0].Source)
		assert.Equal(t, "2024-06-01T00:00:00", results[0].Published)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("tolerates missing web section", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"type":"search"}`))
		}))
		defer srv.Close()

		s := brave.NewSearcher("k")
		s.BaseURL = srv.URL

		results, err := s.Search(context.Background(), "q", "")

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("reports throttling as unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		s := brave.NewSearcher("k")
		s.BaseURL = srv.URL

		_, err := s.Search(context.Background(), "q", "")

		assert.Equal(t, locsearch.EUNAVAILABLE, locsearch.ErrorCode(err))
	})
}
