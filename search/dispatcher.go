package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/locsearch"
)

// ProgressFunc receives progress events. It may be called from several
// goroutines at once.
type ProgressFunc func(event locsearch.ProgressEvent)

// Dispatcher queries every usable search source through a Scheduler.
type Dispatcher struct {
	Logger *slog.Logger
}

// Retrieve runs query against the search sources of reg and returns the
// flattened hits in registry order, each source keeping its own order.
// A failing source contributes no hits and ends in PhaseFailed; it never
// fails the retrieval. Hits without a URL are dropped.
func (d *Dispatcher) Retrieve(ctx context.Context, query, language string, reg *locsearch.Registry, sched *Scheduler, progress ProgressFunc) []*locsearch.RawResult {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = func(locsearch.ProgressEvent) {}
	}

	searchers := reg.Searchers()
	for _, src := range searchers {
		progress(locsearch.ProgressEvent{Source: src.Descriptor().Name, Phase: locsearch.PhasePending})
	}

	// settled[i] is written by unit i only and read after Schedule returns.
	settled := make([]bool, len(searchers))
	outcomes := Schedule(ctx, sched, len(searchers), func(ctx context.Context, i int) ([]*locsearch.RawResult, error) {
		name := searchers[i].Descriptor().Name
		progress(locsearch.ProgressEvent{Source: name, Phase: locsearch.PhaseInFlight})

		hits, err := searchers[i].Search(ctx, query, language)
		settled[i] = true
		if err != nil {
			progress(locsearch.ProgressEvent{Source: name, Phase: locsearch.PhaseFailed, Err: err})
			return nil, err
		}
		hits = normalizeHits(name, hits)
		progress(locsearch.ProgressEvent{Source: name, Phase: locsearch.PhaseCompleted, Results: len(hits)})
		return hits, nil
	})

	var results []*locsearch.RawResult
	for i, o := range outcomes {
		name := searchers[i].Descriptor().Name
		if o.Err != nil {
			// Canceled or panicked units never reported a final phase.
			if !settled[i] {
				progress(locsearch.ProgressEvent{Source: name, Phase: locsearch.PhaseFailed, Err: o.Err})
			}
			logger.Warn("source failed", "source", name, "code", locsearch.ErrorCode(o.Err), "err", o.Err)
			continue
		}
		results = append(results, o.Value...)
	}
	return results
}

// normalizeHits drops hits without a URL and stamps the source name.
func normalizeHits(source string, hits []*locsearch.RawResult) []*locsearch.RawResult {
	out := make([]*locsearch.RawResult, 0, len(hits))
	for _, h := range hits {
		if h == nil || strings.TrimSpace(h.URL) == "" {
			continue
		}
		h.Source = source
		out = append(out, h)
	}
	return out
}
