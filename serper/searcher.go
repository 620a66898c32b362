// Package serper implements the Serper Google search API as a search source.
package serper

import (
	"context"
	"net/http"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
)

// Name is the source name used in registries and results.
const Name = "serper"

// DefaultBaseURL is the Serper API root.
const DefaultBaseURL = "https://google.serper.dev"

// DefaultNum is the number of hits requested per query.
const DefaultNum = 10

// Ensure Searcher implements locsearch.Searcher at compile time.
var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher queries Google through Serper.
type Searcher struct {
	APIKey  string
	BaseURL string
	Num     int
	Client  *lochttp.JSONClient
}

// NewSearcher returns a Searcher with default settings.
func NewSearcher(apiKey string) *Searcher {
	return &Searcher{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Num:     DefaultNum,
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

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	HL  string `json:"hl,omitempty"`
}

type searchResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// Search runs query with the interface language set to language.
func (s *Searcher) Search(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
	header := http.Header{}
	header.Set("X-API-KEY", s.APIKey)

	var resp searchResponse
	err := s.Client.Do(ctx, http.MethodPost, s.BaseURL+"/search", header,
		searchRequest{Q: query, Num: s.Num, HL: language}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]*locsearch.RawResult, 0, len(resp.Organic))
	for i, o := range resp.Organic {
		results = append(results, &locsearch.RawResult{
			Title:     o.Title,
			URL:       o.Link,
			Snippet:   o.Snippet,
			Source:    Name,
			Score:     locsearch.RankScore(i, len(resp.Organic)),
			Published: o.Date,
		})
	}
	return results, nil
}
