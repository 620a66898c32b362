package mock

import "github.com/fwojciec/locsearch"

var _ locsearch.TextCleaner = (*TextCleaner)(nil)

// TextCleaner is a mock implementation of locsearch.TextCleaner.
type TextCleaner struct {
	CleanFn func(s string) string
}

func (c *TextCleaner) Clean(s string) string {
	return c.CleanFn(s)
}
