package locsearch

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the rune limit for ExtractedResult.Description.
const MaxDescriptionLength = 300

// UnknownDomain is used when a URL has no parsable host.
const UnknownDomain = "unknown"

// RawResult is a single hit as returned by a search source.
type RawResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`

	// Content is the full page text when the source returned it.
	Content string `json:"-"`

	// Published is the source's own date hint, in whatever format it used.
	Published string `json:"-"`
}

// ExtractedResult is a RawResult enriched with structured fields.
// Description, PublishedAt, Language and Domain are always populated.
type ExtractedResult struct {
	RawResult

	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	Language    string    `json:"language"`
	Domain      string    `json:"domain"`

	// DateEstimated is true when PublishedAt is the extraction time
	// rather than a date found in the content.
	DateEstimated bool `json:"dateEstimated"`

	// DateOnly is true when PublishedAt came from a bare calendar date.
	// It holds that day at UTC midnight and names the same day in any zone.
	DateOnly bool `json:"dateOnly,omitempty"`
}

// Stats summarizes a finished search session.
type Stats struct {
	TotalResults int           `json:"totalResults"`
	RawResults   int           `json:"rawResults"`
	Duplicates   int           `json:"duplicates"`
	SourcesUsed  int           `json:"sourcesUsed"`
	SourcesOK    int           `json:"sourcesOk"`
	Elapsed      time.Duration `json:"elapsed"`
}

// ExtractDomain returns the host of rawURL without a leading "www.".
// It returns UnknownDomain when the URL has no host.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return UnknownDomain
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Truncate shortens s to at most n runes, appending "..." when it cuts.
// The result, including the ellipsis, never exceeds n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}

// CollapseWhitespace replaces runs of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RankScore converts a zero-based position in a ranked list of n hits
// into a relevance score in (0, 1]. Sources that report order but no
// score use it so their hits sort sensibly against scored sources.
func RankScore(rank, n int) float64 {
	if n <= 0 || rank < 0 || rank >= n {
		return 0
	}
	return 1 - float64(rank)/float64(n)
}
