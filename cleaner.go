package locsearch

// TextCleaner turns markup into plain text.
type TextCleaner interface {
	// Clean strips tags, scripts and styles from s and collapses
	// whitespace. Plain text passes through with whitespace collapsed.
	Clean(s string) string
}
