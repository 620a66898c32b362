package locsearch

import (
	"net/url"
	"strings"
)

// DedupeKey returns the identity used to detect duplicate results:
// the lowercased host without "www." joined with the path without
// trailing slashes. Query strings and fragments are ignored. Path case
// is kept because servers may treat it as significant. Scheme-less
// URLs such as "www.example.com/a" are read as host and path.
func DedupeKey(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err == nil && u.Scheme == "" && u.Host == "" {
		u, err = url.Parse("//" + trimmed)
	}
	if err != nil || u.Host == "" {
		key := strings.TrimPrefix(strings.ToLower(trimmed), "www.")
		return strings.TrimRight(key, "/")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host + strings.TrimRight(u.Path, "/")
}

// Dedupe removes results whose DedupeKey was already seen, keeping the
// first occurrence. It returns the survivors in input order and the
// number of results dropped. The input slice is not modified.
func Dedupe(results []*ExtractedResult) ([]*ExtractedResult, int) {
	seen := make(map[string]struct{}, len(results))
	out := make([]*ExtractedResult, 0, len(results))
	for _, r := range results {
		key := DedupeKey(r.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, len(results) - len(out)
}
