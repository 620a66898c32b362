package locsearch

import "context"

// Fetcher retrieves the raw HTML of a URL. Implementations range from
// plain HTTP clients to headless browsers and scraping APIs.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
