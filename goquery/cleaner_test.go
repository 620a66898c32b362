package goquery_test

import (
	"testing"

	"github.com/fwojciec/locsearch/goquery"
	"github.com/stretchr/testify/assert"
)

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text collapses whitespace", "  Paris   weather\n today ", "Paris weather today"},
		{"strips tags", "<b>Breaking:</b> <i>markets</i> rally", "Breaking: markets rally"},
		{"drops scripts and styles", "<p>Visible</p><script>alert(1)</script><style>p{}</style>", "Visible"},
		{"separates paragraphs", "<p>One</p><p>Two</p>", "One Two"},
		{"decodes entities", "Fish &amp; chips", "Fish & chips"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.NewCleaner().Clean(tt.in))
		})
	}
}
