// Package brave implements the Brave Search web API as a search source.
package brave

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
)

// Name is the source name used in registries and results.
const Name = "brave"

// DefaultBaseURL is the Brave Search API root.
const DefaultBaseURL = "https://api.search.brave.com"

// DefaultCount is the number of hits requested per query.
const DefaultCount = 10

// Ensure Searcher implements locsearch.Searcher at compile time.
var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher queries Brave web search.
type Searcher struct {
	APIKey  string
	BaseURL string
	Count   int
	Client  *lochttp.JSONClient
}

// NewSearcher returns a Searcher with default settings.
func NewSearcher(apiKey string) *Searcher {
	return &Searcher{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Count:   DefaultCount,
		Client:  lochttp.NewJSONClient(Name),
	}
}

// Descriptor returns the source descriptor.
func (s *Searcher) Descriptor() locsearch.SourceDescriptor {
	return locsearch.SourceDescriptor{
		Name:         Name,
		Capabilities: locsearch.CapSearch,
		APIKey:       s.APIKey,
		KeyRequired:  true,
	}
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs query, restricted to language when one is given.
// Brave reports rank but no score.
func (s *Searcher) Search(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(s.Count))
	if language != "" {
		params.Set("search_lang", language)
	}
	header := http.Header{}
	header.Set("X-Subscription-Token", s.APIKey)

	var resp searchResponse
	if err := s.Client.Do(ctx, http.MethodGet, s.BaseURL+"/res/v1/web/search?"+params.Encode(), header, nil, &resp); err != nil {
		return nil, err
	}

	hits := resp.Web.Results
	results := make([]*locsearch.RawResult, 0, len(hits))
	for i, h := range hits {
		results = append(results, &locsearch.RawResult{
			Title:     h.Title,
			URL:       h.URL,
			Snippet:   h.Description,
			Source:    Name,
			Score:     locsearch.RankScore(i, len(hits)),
			Published: h.PageAge,
		})
	}
	return results, nil
}
