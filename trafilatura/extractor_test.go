package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Rust 2.0 announced - Example News</title>
<meta property="og:title" content="Rust 2.0 announced">
<meta property="article:published_time" content="2024-03-05T10:00:00Z">
</head>
<body>
<nav class="site-nav"><a href="/">Home</a><a href="/tech">Tech</a></nav>
<article>
<h1>Rust 2.0 announced</h1>
<p>The Rust team announced a new major edition today, bringing faster compile times and a reworked async story to systems programmers everywhere.</p>
<p>The release is expected to land in stable toolchains later this year after an extended beta period with community feedback.</p>
</article>
<footer><p>Copyright 2024 Example News Corp</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and article body", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "new major edition")
	})

	t.Run("drops navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "site-nav")
		assert.NotContains(t, result.ContentHTML, "Example News Corp")
	})

	t.Run("returns publication date as calendar date", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		if result.Published != "" {
			assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, result.Published)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
	})
}
