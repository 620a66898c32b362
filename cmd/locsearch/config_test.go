package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	main "github.com/fwojciec/locsearch/cmd/locsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv("TAVILY_API_KEY", "")

		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "en", cfg.DefaultLanguage)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.True(t, cfg.Sources.Direct.Enabled)
		assert.False(t, cfg.Sources.Browser.Enabled)
		assert.Equal(t, locsearch.DefaultLimiterConfig(), cfg.Limits.LimiterConfig())
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.NotEmpty(t, cfg.Database)
	})

	t.Run("reads file and fills gaps", func(t *testing.T) {
		t.Setenv("TAVILY_API_KEY", "")
		t.Setenv("LOCSEARCH_DB", "")

		path := writeConfig(t, `
database: /tmp/history.db
llm:
  provider: mistral
  model: mistral-small-latest
sources:
  tavily:
    api_key: tv-key
  rss:
    feeds:
      - https://example.com/feed.xml
limits:
  max_concurrent: 5
  inter_request_delay: 250ms
`)
		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/history.db", cfg.Database)
		assert.Equal(t, "mistral", cfg.LLM.Provider)
		assert.Equal(t, "mistral-small-latest", cfg.LLM.Model)
		assert.Equal(t, "tv-key", cfg.Sources.Tavily.APIKey)
		assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.Sources.RSS.Feeds)
		assert.Equal(t, 5, cfg.Limits.MaxConcurrent)
		assert.Equal(t, 250*time.Millisecond, cfg.Limits.InterRequestDelay)
		assert.Equal(t, locsearch.DefaultRequestsPerMinute, cfg.Limits.RequestsPerMinute)
		assert.Equal(t, "en", cfg.DefaultLanguage)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("TAVILY_API_KEY", "env-key")
		t.Setenv("LOCSEARCH_DB", "/tmp/env.db")

		path := writeConfig(t, "sources:\n  tavily:\n    api_key: file-key\n")
		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "env-key", cfg.Sources.Tavily.APIKey)
		assert.Equal(t, "/tmp/env.db", cfg.Database)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "limits: [\n")

		_, err := main.LoadConfig(path)
		assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
	})
}

func TestSaveConfig_RoundTrips(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("LOCSEARCH_DB", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := main.LoadConfig(path)
	require.NoError(t, err)
	cfg.Sources.Brave.APIKey = "bk"
	cfg.Limits.PerItemTimeout = 3 * time.Second

	require.NoError(t, main.SaveConfig(path, cfg))

	loaded, err := main.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bk", loaded.Sources.Brave.APIKey)
	assert.Equal(t, 3*time.Second, loaded.Limits.PerItemTimeout)
}
