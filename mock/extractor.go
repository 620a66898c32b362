package mock

import "github.com/fwojciec/locsearch"

var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of locsearch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*locsearch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*locsearch.ExtractResult, error) {
	return e.ExtractFn(html)
}
