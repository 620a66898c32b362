package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of locsearch.HistoryService.
type HistoryService struct {
	CreateSearchFn   func(ctx context.Context, record *locsearch.SearchRecord) error
	FindSearchByIDFn func(ctx context.Context, id string) (*locsearch.SearchRecord, error)
	FindSearchesFn   func(ctx context.Context, filter locsearch.HistoryFilter) ([]*locsearch.SearchRecord, error)
	DeleteSearchFn   func(ctx context.Context, id string) error
	ClearSearchesFn  func(ctx context.Context) error
}

func (s *HistoryService) CreateSearch(ctx context.Context, record *locsearch.SearchRecord) error {
	return s.CreateSearchFn(ctx, record)
}

func (s *HistoryService) FindSearchByID(ctx context.Context, id string) (*locsearch.SearchRecord, error) {
	return s.FindSearchByIDFn(ctx, id)
}

func (s *HistoryService) FindSearches(ctx context.Context, filter locsearch.HistoryFilter) ([]*locsearch.SearchRecord, error) {
	return s.FindSearchesFn(ctx, filter)
}

func (s *HistoryService) DeleteSearch(ctx context.Context, id string) error {
	return s.DeleteSearchFn(ctx, id)
}

func (s *HistoryService) ClearSearches(ctx context.Context) error {
	return s.ClearSearchesFn(ctx)
}
