// Package rod renders JavaScript-heavy result pages in headless Chrome
// so the scrape layer can read content that static fetching misses.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 20 * time.Second

// Ensure Fetcher implements locsearch.Fetcher at compile time.
var _ locsearch.Fetcher = (*Fetcher)(nil)

// Fetcher returns rendered HTML using a shared headless browser.
// It is safe for concurrent use.
type Fetcher struct {
	browser *browser
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	timeout      time.Duration
	recycleAfter int
}

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRecycleAfter sets how many pages are rendered before the browser
// process is replaced. Zero disables recycling.
func WithRecycleAfter(n int) Option {
	return func(o *options) { o.recycleAfter = n }
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := options{timeout: DefaultFetchTimeout, recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(&o)
	}
	b, err := newBrowser(o.recycleAfter)
	if err != nil {
		return nil, err
	}
	return &Fetcher{browser: b, timeout: o.timeout}, nil
}

// Fetch navigates to url, waits for the load event and returns the HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", locsearch.Errorf(locsearch.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.acquire().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// LauncherPID reports the browser launcher's process id, or 0 once closed.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// Close shuts the browser down. Subsequent calls are no-ops.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}
