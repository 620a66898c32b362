package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("round trips request and response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "secret", r.Header.Get("X-Key"))

			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["q"]})
		}))
		defer server.Close()

		client := lochttp.NewJSONClient("test")
		var out struct{ Echo string }
		err := client.Do(context.Background(), http.MethodPost, server.URL,
			http.Header{"X-Key": {"secret"}}, map[string]string{"q": "golang"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "golang", out.Echo)
	})

	t.Run("maps status codes onto error codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			code   string
		}{
			{http.StatusUnauthorized, locsearch.EUNAVAILABLE},
			{http.StatusForbidden, locsearch.EUNAVAILABLE},
			{http.StatusTooManyRequests, locsearch.EUNAVAILABLE},
			{http.StatusBadGateway, locsearch.EUNAVAILABLE},
			{http.StatusBadRequest, locsearch.ESOURCE},
			{http.StatusNotFound, locsearch.ESOURCE},
		}
		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			err := lochttp.NewJSONClient("test").Do(context.Background(), http.MethodGet, server.URL, nil, nil, nil)
			server.Close()

			require.Error(t, err)
			assert.Equal(t, tt.code, locsearch.ErrorCode(err), "status %d", tt.status)
			assert.Contains(t, locsearch.ErrorMessage(err), "nope")
		}
	})

	t.Run("reports undecodable body as source error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		var out map[string]any
		err := lochttp.NewJSONClient("test").Do(context.Background(), http.MethodGet, server.URL, nil, nil, &out)
		assert.Equal(t, locsearch.ESOURCE, locsearch.ErrorCode(err))
	})

	t.Run("reports transport failure as unavailable", func(t *testing.T) {
		t.Parallel()

		err := lochttp.NewJSONClient("test").Do(context.Background(), http.MethodGet, "http://non-existent-host.invalid/", nil, nil, nil)
		assert.Equal(t, locsearch.EUNAVAILABLE, locsearch.ErrorCode(err))
	})
}
