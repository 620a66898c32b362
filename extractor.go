package locsearch

// ExtractResult holds the main content found in an HTML page.
type ExtractResult struct {
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string

	// Published is the page's publication date as found in metadata.
	// Empty when unknown.
	Published string

	// Language is the page's declared language code, if any.
	Language string
}

// Extractor pulls the main content out of an HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
