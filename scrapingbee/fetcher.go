// Package scrapingbee fetches pages through the ScrapingBee proxy API,
// which handles rendering and anti-bot measures on its side.
package scrapingbee

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
)

// Name is the source name used in registries.
const Name = "scrapingbee"

// DefaultBaseURL is the ScrapingBee endpoint.
const DefaultBaseURL = "https://app.scrapingbee.com/api/v1/"

// DefaultTimeout bounds one proxied fetch. Rendering is slow.
const DefaultTimeout = 60 * time.Second

const maxBody = 5 << 20

// Ensure Fetcher implements locsearch.Fetcher at compile time.
var _ locsearch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML through ScrapingBee.
type Fetcher struct {
	APIKey   string
	BaseURL  string
	RenderJS bool
	Client   *http.Client
}

// NewFetcher returns a Fetcher with JavaScript rendering disabled.
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// Fetch returns the HTML of target as seen by ScrapingBee. Error
// messages never include the request URL, which carries the API key.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	params := url.Values{}
	params.Set("api_key", f.APIKey)
	params.Set("url", target)
	if f.RenderJS {
		params.Set("render_js", "true")
	} else {
		params.Set("render_js", "false")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", locsearch.Errorf(locsearch.EINTERNAL, "%s: build request", Name)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", locsearch.Errorf(locsearch.EUNAVAILABLE, "%s: request failed for %s", Name, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", lochttp.StatusError(Name, resp.StatusCode, snippet)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", locsearch.Errorf(locsearch.EUNAVAILABLE, "%s: read body: %v", Name, err)
	}
	return string(body), nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}
