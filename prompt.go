package locsearch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Collaborator limits.
const (
	MaxExtractionContent   = 3000
	MaxDigestResults       = 10
	MaxDigestDescription   = 150
	DefaultDigestSentences = "3-5"
)

// QueryPrompt builds the prompt asking for a query's language and an
// optimized rewrite.
func QueryPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this search query and return:\n")
	sb.WriteString("1. its language as an ISO 639-1 code (en, fr, es, de, ...)\n")
	sb.WriteString("2. a rewrite of the query that works better with web search engines\n\n")
	fmt.Fprintf(&sb, "Query: %q\n\n", query)
	sb.WriteString(`Respond with a single JSON object and nothing else: {"language": "code", "optimized": "rewritten query"}`)
	return sb.String()
}

// ExtractionPrompt builds the prompt asking for the structured fields of
// one search result. Content is truncated to MaxExtractionContent runes.
func ExtractionPrompt(req *ExtractionRequest) string {
	var sb strings.Builder
	sb.WriteString("Extract structured information from this web page.\n\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", req.Title)
	fmt.Fprintf(&sb, "<url>%s</url>\n", req.URL)
	fmt.Fprintf(&sb, "<content>%s</content>\n\n", Truncate(req.Content, MaxExtractionContent))
	sb.WriteString("Return a single JSON object with these fields:\n")
	fmt.Fprintf(&sb, "- description: a plain-text summary of at most %d characters, no HTML\n", MaxDescriptionLength)
	sb.WriteString("- publishedDate: the publication date as YYYY-MM-DD, or null if unknown\n")
	fmt.Fprintf(&sb, "- language: ISO 639-1 code of the content (use %q if unsure)\n", req.Language)
	sb.WriteString("- domain: the site's domain name without www.\n")
	return sb.String()
}

// DigestSystemPrompt is the default system instruction for digests.
const DigestSystemPrompt = "You are a research assistant. Analyze search results gathered from several sources and write a concise, objective and well structured summary. Cite relevant sources and highlight key points and trends."

// DigestPrompt builds the user prompt for summarizing a result set.
// Only the first MaxDigestResults results are included.
func DigestPrompt(req *DigestRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a summary in the language %q of this search and its results.\n\n", digestLanguage(req.Language))
	fmt.Fprintf(&sb, "Original query: %q\n", req.Query)
	fmt.Fprintf(&sb, "Optimized query: %q\n", req.OptimizedQuery)
	fmt.Fprintf(&sb, "Total results: %d\n\n", len(req.Results))
	sb.WriteString("Top results:\n")
	for i, r := range req.Results {
		if i >= MaxDigestResults {
			break
		}
		fmt.Fprintf(&sb, "%d. %s (%s) - %s\n", i+1, r.Title, r.Source, Truncate(r.Description, MaxDigestDescription))
	}
	fmt.Fprintf(&sb, "\nWrite %s sentences that explain what the search was about, the main themes of the results, the key sources or domains and any notable patterns. ", DefaultDigestSentences)
	sb.WriteString("Respond with the summary text only.")
	return sb.String()
}

func digestLanguage(code string) string {
	if code == "" {
		return "en"
	}
	return code
}

// DecodeJSONObject decodes the outermost {...} span of text into v.
// Collaborators often wrap JSON in markdown fences or prose.
func DecodeJSONObject(text string, v any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Errorf(EINVALID, "no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return Errorf(EINVALID, "malformed JSON response: %v", err)
	}
	return nil
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"January 2, 2006",
	"Jan 2, 2006",
}

var dateOnlyLayouts = map[string]bool{
	"2006-01-02":      true,
	"January 2, 2006": true,
	"Jan 2, 2006":     true,
}

// ParseDate parses the date formats returned by sources and
// collaborators. It reports false when s matches none of them.
func ParseDate(s string) (time.Time, bool) {
	t, _, ok := ParseCalendarDate(s)
	return t, ok
}

// ParseCalendarDate is ParseDate that also reports whether s named a
// calendar day with no time of day. Such values parse as UTC midnight.
func ParseCalendarDate(s string) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, dateOnlyLayouts[layout], true
		}
	}
	return time.Time{}, false, false
}
