package fs

import (
	"fmt"
	"strings"
)

// FormatReport renders an export as a Markdown report with YAML
// frontmatter.
func FormatReport(e *Export) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "query: %q\n", e.Query)
	if e.Language != "" {
		fmt.Fprintf(&b, "language: %s\n", e.Language)
	}
	fmt.Fprintf(&b, "exported: %s\n", e.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "results: %d\n", e.TotalResults)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", e.Query)
	if e.Digest != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(e.Digest)
		b.WriteString("\n\n")
	}

	b.WriteString("## Results\n\n")
	if len(e.Results) == 0 {
		b.WriteString("No results.\n")
		return b.String()
	}
	for i, r := range e.Results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, title, r.URL)

		meta := []string{r.Source, r.Domain}
		if r.DateEstimated {
			meta = append(meta, "date unknown")
		} else if !r.PublishedAt.IsZero() {
			meta = append(meta, r.PublishedAt.Format("2006-01-02"))
		}
		if r.Language != "" {
			meta = append(meta, r.Language)
		}
		fmt.Fprintf(&b, "   *%s*\n", strings.Join(nonEmpty(meta), " · "))
		if r.Description != "" {
			fmt.Fprintf(&b, "   %s\n", r.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func nonEmpty(vals []string) []string {
	out := vals[:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
