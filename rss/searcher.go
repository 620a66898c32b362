// Package rss turns a fixed list of RSS and Atom feeds into a search
// source: feed items are matched against the query terms locally.
package rss

import (
	"context"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/locsearch"
)

// DefaultName is the source name used when Name is empty.
const DefaultName = "rss"

// DefaultMaxResults caps the hits returned per query.
const DefaultMaxResults = 10

// Ensure Searcher implements locsearch.Searcher at compile time.
var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher scans configured feeds for items mentioning the query terms.
// It needs no credential.
type Searcher struct {
	Name       string
	Feeds      []string
	Fetcher    locsearch.Fetcher
	MaxResults int
}

// Descriptor returns the source descriptor.
func (s *Searcher) Descriptor() locsearch.SourceDescriptor {
	name := s.Name
	if name == "" {
		name = DefaultName
	}
	return locsearch.SourceDescriptor{Name: name, Capabilities: locsearch.CapSearch}
}

type item struct {
	title, link, summary, content, published string
}

// Search fetches every feed and returns the items matching at least one
// query term, best match first. A feed that fails to load is skipped;
// the search fails only when every feed fails.
func (s *Searcher) Search(ctx context.Context, query, language string) ([]*locsearch.RawResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	name := s.Descriptor().Name

	var (
		results []*locsearch.RawResult
		lastErr error
		loaded  int
	)
	for _, feed := range s.Feeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := s.load(ctx, feed)
		if err != nil {
			lastErr = err
			continue
		}
		loaded++
		for _, it := range items {
			score := match(terms, it.title+" "+it.summary)
			if score == 0 || it.link == "" {
				continue
			}
			results = append(results, &locsearch.RawResult{
				Title:     strings.TrimSpace(it.title),
				URL:       strings.TrimSpace(it.link),
				Snippet:   it.summary,
				Source:    name,
				Score:     score,
				Content:   it.content,
				Published: strings.TrimSpace(it.published),
			})
		}
	}
	if loaded == 0 && lastErr != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "%s: no feed could be read: %v", name, lastErr)
	}

	slices.SortStableFunc(results, func(a, b *locsearch.RawResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	limit := s.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Searcher) load(ctx context.Context, feed string) ([]item, error) {
	body, err := s.Fetcher.Fetch(ctx, feed)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, locsearch.Errorf(locsearch.ESOURCE, "parse feed %s: %v", feed, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, locsearch.Errorf(locsearch.ESOURCE, "empty feed %s", feed)
	}
	if root.Tag == "feed" {
		return parseAtom(root), nil
	}
	channel := root.SelectElement("channel")
	if channel == nil {
		return nil, locsearch.Errorf(locsearch.ESOURCE, "feed %s: unrecognized root <%s>", feed, root.Tag)
	}
	return parseRSS(channel), nil
}

func parseRSS(channel *etree.Element) []item {
	var items []item
	for _, el := range channel.SelectElements("item") {
		items = append(items, item{
			title:     text(el, "title"),
			link:      text(el, "link"),
			summary:   text(el, "description"),
			content:   text(el, "content:encoded"),
			published: firstNonEmpty(text(el, "pubDate"), text(el, "dc:date")),
		})
	}
	return items
}

func parseAtom(feed *etree.Element) []item {
	var items []item
	for _, el := range feed.SelectElements("entry") {
		items = append(items, item{
			title:     text(el, "title"),
			link:      atomLink(el),
			summary:   text(el, "summary"),
			content:   text(el, "content"),
			published: firstNonEmpty(text(el, "published"), text(el, "updated")),
		})
	}
	return items
}

// atomLink prefers the alternate link, which Atom makes the default rel.
func atomLink(entry *etree.Element) string {
	var fallback string
	for _, l := range entry.SelectElements("link") {
		href := l.SelectAttrValue("href", "")
		rel := l.SelectAttrValue("rel", "alternate")
		if rel == "alternate" && href != "" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func text(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// match returns the fraction of terms found in text.
func match(terms []string, text string) float64 {
	text = strings.ToLower(text)
	var hits int
	for _, t := range terms {
		if strings.Contains(text, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
