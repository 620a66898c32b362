package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var (
	_ locsearch.Searcher = (*Searcher)(nil)
	_ locsearch.Scraper  = (*Scraper)(nil)
)

// Searcher is a mock implementation of locsearch.Searcher.
type Searcher struct {
	Desc     locsearch.SourceDescriptor
	SearchFn func(ctx context.Context, query, language string) ([]*locsearch.RawResult, error)
}

func (s *Searcher) Descriptor() locsearch.SourceDescriptor {
	return s.Desc
}

func (s *Searcher) Search(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
	return s.SearchFn(ctx, query, language)
}

// Scraper is a mock implementation of locsearch.Scraper.
type Scraper struct {
	Desc           locsearch.SourceDescriptor
	FetchContentFn func(ctx context.Context, url string) (*locsearch.ScrapedPage, error)
}

func (s *Scraper) Descriptor() locsearch.SourceDescriptor {
	return s.Desc
}

func (s *Scraper) FetchContent(ctx context.Context, url string) (*locsearch.ScrapedPage, error) {
	return s.FetchContentFn(ctx, url)
}
