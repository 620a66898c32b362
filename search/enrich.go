package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
)

// Enricher turns raw hits into extracted results. It never fails: any
// scrape or collaborator error falls back to fields derived from the hit.
type Enricher struct {
	// Extractor is the language-understanding collaborator. When nil,
	// every result uses the fallback fields.
	Extractor locsearch.RecordExtractor

	// Scrapers are tried in order for hits without content.
	Scrapers []locsearch.Scraper

	// Cleaner strips markup from descriptions and snippets.
	Cleaner locsearch.TextCleaner

	Logger *slog.Logger
	Now    func() time.Time
}

// EnrichAll enriches raws through sched, returning exactly one result per
// hit in input order. Without an Extractor no hit makes an outbound call,
// so the scheduler is bypassed.
func (e *Enricher) EnrichAll(ctx context.Context, sched *Scheduler, raws []*locsearch.RawResult, language string) []*locsearch.ExtractedResult {
	out := make([]*locsearch.ExtractedResult, len(raws))
	if e.Extractor == nil {
		for i, raw := range raws {
			out[i] = e.fallback(raw, nil, language)
		}
		return out
	}

	outcomes := Schedule(ctx, sched, len(raws), func(ctx context.Context, i int) (*locsearch.ExtractedResult, error) {
		return e.Enrich(ctx, raws[i], language), nil
	})
	for i, o := range outcomes {
		if o.Err != nil || o.Value == nil {
			out[i] = e.fallback(raws[i], nil, language)
			continue
		}
		out[i] = o.Value
	}
	return out
}

// Enrich extracts structured fields for one hit.
func (e *Enricher) Enrich(ctx context.Context, raw *locsearch.RawResult, language string) *locsearch.ExtractedResult {
	if e.Extractor == nil {
		return e.fallback(raw, nil, language)
	}

	content, page := e.content(ctx, raw)
	record, err := e.Extractor.ExtractRecord(ctx, &locsearch.ExtractionRequest{
		Title:    raw.Title,
		URL:      raw.URL,
		Content:  locsearch.Truncate(content, locsearch.MaxExtractionContent),
		Language: language,
	})
	if err != nil || record == nil {
		e.logger().Warn("extraction failed",
			"url", raw.URL,
			"code", locsearch.EEXTRACT,
			"err", err,
		)
		return e.fallback(raw, page, language)
	}

	out := e.fallback(raw, page, language)
	if desc := locsearch.Truncate(e.clean(record.Description), locsearch.MaxDescriptionLength); desc != "" {
		out.Description = desc
	}
	if record.Published != nil {
		if t, dateOnly, ok := locsearch.ParseCalendarDate(*record.Published); ok {
			out.PublishedAt = t
			out.DateOnly = dateOnly
			out.DateEstimated = false
		}
	}
	if lang := strings.ToLower(strings.TrimSpace(record.Language)); lang != "" {
		out.Language = lang
	}
	if domain := normalizeDomain(record.Domain); domain != "" {
		out.Domain = domain
	}
	return out
}

// content returns the best available text for raw: its own content, the
// first non-empty scrape, or its snippet. The page is the scrape that
// supplied the text, or nil.
func (e *Enricher) content(ctx context.Context, raw *locsearch.RawResult) (string, *locsearch.ScrapedPage) {
	if strings.TrimSpace(raw.Content) != "" {
		return raw.Content, nil
	}
	for _, s := range e.Scrapers {
		page, err := s.FetchContent(ctx, raw.URL)
		if err != nil {
			e.logger().Debug("scrape failed",
				"source", s.Descriptor().Name,
				"url", raw.URL,
				"err", err,
			)
			continue
		}
		if page != nil && strings.TrimSpace(page.Content) != "" {
			return page.Content, page
		}
	}
	return raw.Snippet, nil
}

// fallback builds a result from the hit and, when one was scraped, its
// page metadata. Every field is populated. The hit's own date wins over
// the page's; the page's declared language wins over the session's.
func (e *Enricher) fallback(raw *locsearch.RawResult, page *locsearch.ScrapedPage, language string) *locsearch.ExtractedResult {
	if page == nil {
		page = &locsearch.ScrapedPage{}
	}
	out := &locsearch.ExtractedResult{
		RawResult: *raw,
		Language:  strings.ToLower(strings.TrimSpace(page.Language)),
		Domain:    locsearch.ExtractDomain(raw.URL),
	}

	for _, candidate := range []string{raw.Snippet, raw.Title, page.Title, raw.URL} {
		if desc := locsearch.Truncate(e.clean(candidate), locsearch.MaxDescriptionLength); desc != "" {
			out.Description = desc
			break
		}
	}

	if t, dateOnly, ok := locsearch.ParseCalendarDate(raw.Published); ok {
		out.PublishedAt, out.DateOnly = t, dateOnly
	} else if t, dateOnly, ok := locsearch.ParseCalendarDate(page.Published); ok {
		out.PublishedAt, out.DateOnly = t, dateOnly
	} else {
		out.PublishedAt = e.now()
		out.DateEstimated = true
	}

	if out.Language == "" {
		out.Language = language
	}
	if out.Language == "" {
		out.Language = defaultLanguage
	}
	return out
}

func (e *Enricher) clean(s string) string {
	if e.Cleaner == nil {
		return locsearch.CollapseWhitespace(s)
	}
	return e.Cleaner.Clean(s)
}

func (e *Enricher) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Enricher) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func normalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(s, "://") {
		return locsearch.ExtractDomain(s)
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
