// Package tavily implements the Tavily search API as a search source.
package tavily

import (
	"context"
	"net/http"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
)

// Name is the source name used in registries and results.
const Name = "tavily"

// DefaultBaseURL is the Tavily API root.
const DefaultBaseURL = "https://api.tavily.com"

// DefaultMaxResults is the number of hits requested per query.
const DefaultMaxResults = 10

// defaultScore is assigned to hits the API returns without a score.
const defaultScore = 0.5

// Ensure Searcher implements locsearch.Searcher at compile time.
var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher queries Tavily's advanced search. Tavily returns page content
// alongside each hit, so its results usually skip scraping.
type Searcher struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Client     *lochttp.JSONClient
}

// NewSearcher returns a Searcher with default settings.
func NewSearcher(apiKey string) *Searcher {
	return &Searcher{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		MaxResults: DefaultMaxResults,
		Client:     lochttp.NewJSONClient(Name),
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

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type searchResponse struct {
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Content       string   `json:"content"`
		RawContent    string   `json:"raw_content"`
		Score         *float64 `json:"score"`
		PublishedDate string   `json:"published_date"`
	} `json:"results"`
}

// Search runs query against Tavily. Tavily has no language parameter;
// the optimized query already carries the language.
func (s *Searcher) Search(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
	var resp searchResponse
	err := s.Client.Do(ctx, http.MethodPost, s.BaseURL+"/search", nil, searchRequest{
		APIKey:            s.APIKey,
		Query:             query,
		SearchDepth:       "advanced",
		MaxResults:        s.MaxResults,
		IncludeRawContent: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]*locsearch.RawResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		score := defaultScore
		if r.Score != nil {
			score = *r.Score
		}
		content := r.RawContent
		if content == "" {
			content = r.Content
		}
		results = append(results, &locsearch.RawResult{
			Title:     r.Title,
			URL:       r.URL,
			Snippet:   r.Content,
			Source:    Name,
			Score:     score,
			Content:   content,
			Published: r.PublishedDate,
		})
	}
	return results, nil
}
