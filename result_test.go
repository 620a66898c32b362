package locsearch_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/locsearch"
	"github.com/stretchr/testify/assert"
)

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", locsearch.ExtractDomain("https://www.Example.com/path?q=1"))
	assert.Equal(t, "news.example.com", locsearch.ExtractDomain("http://news.example.com:8080/"))
	assert.Equal(t, locsearch.UnknownDomain, locsearch.ExtractDomain("not a url"))
	assert.Equal(t, locsearch.UnknownDomain, locsearch.ExtractDomain(""))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("keeps short strings", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "hello", locsearch.Truncate("hello", 10))
	})

	t.Run("cuts long strings with ellipsis within limit", func(t *testing.T) {
		t.Parallel()

		out := locsearch.Truncate(strings.Repeat("a", 400), 300)

		assert.Equal(t, 300, utf8.RuneCountInString(out))
		assert.True(t, strings.HasSuffix(out, "..."))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		out := locsearch.Truncate("ééééé", 5)

		assert.Equal(t, "ééééé", out)
	})

	t.Run("returns empty for non-positive limit", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, locsearch.Truncate("abc", 0))
	})
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", locsearch.CollapseWhitespace("  a\n\tb   c "))
}

func TestRankScore(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, locsearch.RankScore(0, 4), 1e-9)
	assert.InDelta(t, 0.75, locsearch.RankScore(1, 4), 1e-9)
	assert.InDelta(t, 0.25, locsearch.RankScore(3, 4), 1e-9)
	assert.Zero(t, locsearch.RankScore(4, 4))
	assert.Zero(t, locsearch.RankScore(0, 0))
}
