package locsearch

import (
	"context"
	"strings"
)

// Capability is a bit set describing what a source can do.
type Capability uint8

const (
	// CapSearch marks a source that answers queries with result lists.
	CapSearch Capability = 1 << iota
	// CapScrape marks a source that returns the text content of a URL.
	CapScrape
)

// Has reports whether c contains every capability in o.
func (c Capability) Has(o Capability) bool {
	return c&o == o && o != 0
}

// String returns a human-readable form such as "search+scrape".
func (c Capability) String() string {
	var parts []string
	if c.Has(CapSearch) {
		parts = append(parts, "search")
	}
	if c.Has(CapScrape) {
		parts = append(parts, "scrape")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// SourceDescriptor identifies an external retrieval service.
// Descriptors are immutable once registered.
type SourceDescriptor struct {
	Name         string
	Capabilities Capability
	APIKey       string
	KeyRequired  bool
}

// Usable reports whether the source has the credential it needs.
func (d SourceDescriptor) Usable() bool {
	return !d.KeyRequired || d.APIKey != ""
}

// Validate returns an error if the descriptor is malformed.
func (d SourceDescriptor) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if !d.Capabilities.Has(CapSearch) && !d.Capabilities.Has(CapScrape) {
		return Errorf(EINVALID, "source %q declares no capabilities", d.Name)
	}
	return nil
}

// Source is any registered retrieval service.
type Source interface {
	Descriptor() SourceDescriptor
}

// Searcher is a source with the search capability.
type Searcher interface {
	Source

	// Search returns the hits for query, in the source's own order.
	// Errors carry EUNAVAILABLE for transport or auth failures and
	// ESOURCE for malformed responses.
	Search(ctx context.Context, query, language string) ([]*RawResult, error)
}

// Scraper is a source with the scrape capability.
type Scraper interface {
	Source

	// FetchContent returns the text content of the page at url along with
	// the metadata found on it. A page with empty Content and a nil error
	// means the page had no content.
	FetchContent(ctx context.Context, url string) (*ScrapedPage, error)
}

// ScrapedPage is the readable content of a page and its metadata.
type ScrapedPage struct {
	Content string

	// Title, Published and Language are empty when the page did not
	// declare them.
	Title     string
	Published string
	Language  string
}

// Registry holds the sources available to a search session.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	sources []Source
}

// NewRegistry validates sources and returns a registry preserving their
// order. Names must be unique and declared capabilities must match the
// interfaces each source implements.
func NewRegistry(sources ...Source) (*Registry, error) {
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		d := src.Descriptor()
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.Name] {
			return nil, Errorf(ECONFIG, "duplicate source %q", d.Name)
		}
		seen[d.Name] = true

		if _, ok := src.(Searcher); d.Capabilities.Has(CapSearch) && !ok {
			return nil, Errorf(ECONFIG, "source %q declares search but cannot search", d.Name)
		}
		if _, ok := src.(Scraper); d.Capabilities.Has(CapScrape) && !ok {
			return nil, Errorf(ECONFIG, "source %q declares scrape but cannot scrape", d.Name)
		}
	}
	return &Registry{sources: append([]Source(nil), sources...)}, nil
}

// Sources returns every registered source in registration order.
func (r *Registry) Sources() []Source {
	if r == nil {
		return nil
	}
	return append([]Source(nil), r.sources...)
}

// Descriptors returns the descriptors of every registered source.
func (r *Registry) Descriptors() []SourceDescriptor {
	if r == nil {
		return nil
	}
	out := make([]SourceDescriptor, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src.Descriptor())
	}
	return out
}

// Searchers returns the usable search-capable sources in registration order.
func (r *Registry) Searchers() []Searcher {
	if r == nil {
		return nil
	}
	var out []Searcher
	for _, src := range r.sources {
		d := src.Descriptor()
		if !d.Capabilities.Has(CapSearch) || !d.Usable() {
			continue
		}
		out = append(out, src.(Searcher))
	}
	return out
}

// Scrapers returns the usable scrape-capable sources in registration order.
func (r *Registry) Scrapers() []Scraper {
	if r == nil {
		return nil
	}
	var out []Scraper
	for _, src := range r.sources {
		d := src.Descriptor()
		if !d.Capabilities.Has(CapScrape) || !d.Usable() {
			continue
		}
		out = append(out, src.(Scraper))
	}
	return out
}

// Unusable returns the names of sources missing a required credential.
func (r *Registry) Unusable() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, src := range r.sources {
		if d := src.Descriptor(); !d.Usable() {
			names = append(names, d.Name)
		}
	}
	return names
}

// Select returns a registry restricted to the named sources, kept in
// registration order. An empty selection returns r unchanged.
func (r *Registry) Select(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}

	var out []Source
	for _, src := range r.Sources() {
		name := src.Descriptor().Name
		if want[name] {
			out = append(out, src)
			delete(want, name)
		}
	}
	for _, name := range names {
		if want[name] {
			return nil, Errorf(ECONFIG, "unknown source %q", name)
		}
	}
	return &Registry{sources: out}, nil
}
