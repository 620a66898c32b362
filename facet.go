package locsearch

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FacetIndex holds the distinct values present in a result set, in the
// order they first appear.
type FacetIndex struct {
	Sources   []string `json:"sources"`
	Domains   []string `json:"domains"`
	Languages []string `json:"languages"`
}

// BuildFacets derives the facet index for results.
func BuildFacets(results []*ExtractedResult) FacetIndex {
	var idx FacetIndex
	seen := map[string]map[string]bool{
		"source":   {},
		"domain":   {},
		"language": {},
	}
	add := func(kind, value string, dst *[]string) {
		if value == "" || seen[kind][value] {
			return
		}
		seen[kind][value] = true
		*dst = append(*dst, value)
	}
	for _, r := range results {
		add("source", r.Source, &idx.Sources)
		add("domain", r.Domain, &idx.Domains)
		add("language", r.Language, &idx.Languages)
	}
	return idx
}

// DateBucket restricts results by publication date.
type DateBucket string

const (
	DateAll       DateBucket = "all"
	DateToday     DateBucket = "today"
	DateThisWeek  DateBucket = "this-week"
	DateThisMonth DateBucket = "this-month"
)

// ParseDateBucket validates s. The empty string means DateAll.
func ParseDateBucket(s string) (DateBucket, error) {
	switch b := DateBucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return DateAll, nil
	case DateAll, DateToday, DateThisWeek, DateThisMonth:
		return b, nil
	case "week":
		return DateThisWeek, nil
	case "month":
		return DateThisMonth, nil
	}
	return "", Errorf(EINVALID, "unknown date filter %q", s)
}

// SortKey selects the ordering applied by ApplyFilters.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortSource    SortKey = "source"
	SortDomain    SortKey = "domain"
)

// ParseSortKey validates s. The empty string means SortRelevance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", "score":
		return SortRelevance, nil
	case SortRelevance, SortDate, SortSource, SortDomain:
		return k, nil
	}
	return "", Errorf(EINVALID, "unknown sort key %q", s)
}

// Filters narrows a result set. Empty or "all" string fields match
// everything.
type Filters struct {
	Date     DateBucket
	Source   string
	Domain   string
	Language string
}

// ApplyFilters filters and sorts results relative to the current time.
func ApplyFilters(results []*ExtractedResult, f Filters, key SortKey) []*ExtractedResult {
	return FilterAt(results, f, key, time.Now())
}

// FilterAt filters and sorts results with date buckets evaluated against
// now. Results with an estimated date only pass DateAll. Sorting is
// stable, so ties keep their input order. The input is not modified.
func FilterAt(results []*ExtractedResult, f Filters, key SortKey, now time.Time) []*ExtractedResult {
	out := make([]*ExtractedResult, 0, len(results))
	for _, r := range results {
		if !matchesDate(r, f.Date, now) ||
			!matchesExact(r.Source, f.Source) ||
			!matchesExact(r.Domain, f.Domain) ||
			!matchesExact(r.Language, f.Language) {
			continue
		}
		out = append(out, r)
	}
	sortResults(out, key)
	return out
}

func matchesExact(value, want string) bool {
	return want == "" || want == "all" || value == want
}

func matchesDate(r *ExtractedResult, bucket DateBucket, now time.Time) bool {
	if bucket == "" || bucket == DateAll {
		return true
	}
	if r.DateEstimated || r.PublishedAt.IsZero() {
		return false
	}
	published := r.PublishedAt.In(now.Location())
	if r.DateOnly {
		y, m, d := r.PublishedAt.UTC().Date()
		published = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	switch bucket {
	case DateToday:
		py, pm, pd := published.Date()
		ny, nm, nd := now.Date()
		return py == ny && pm == nm && pd == nd
	case DateThisWeek:
		return !published.Before(now.AddDate(0, 0, -7))
	case DateThisMonth:
		return !published.Before(now.AddDate(0, 0, -30))
	}
	return false
}

func sortResults(results []*ExtractedResult, key SortKey) {
	switch key {
	case SortDate:
		slices.SortStableFunc(results, func(a, b *ExtractedResult) int {
			// Estimated dates sort after real ones.
			if a.DateEstimated != b.DateEstimated {
				if a.DateEstimated {
					return 1
				}
				return -1
			}
			return b.PublishedAt.Compare(a.PublishedAt)
		})
	case SortSource, SortDomain:
		col := collate.New(language.Und)
		field := func(r *ExtractedResult) string {
			if key == SortSource {
				return r.Source
			}
			return r.Domain
		}
		slices.SortStableFunc(results, func(a, b *ExtractedResult) int {
			return col.CompareString(field(a), field(b))
		})
	default:
		slices.SortStableFunc(results, func(a, b *ExtractedResult) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			}
			return 0
		})
	}
}
