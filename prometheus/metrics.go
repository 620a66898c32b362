// Package prometheus exposes search pipeline metrics and instruments
// sources with Prometheus collectors.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "locsearch"

// Metrics holds the collectors. Create one per registry.
type Metrics struct {
	SourceRequests *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	SourceResults  *prometheus.CounterVec

	Sessions        *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	SessionResults  prometheus.Histogram
	Duplicates      prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors with reg. A nil reg uses a fresh
// registry, which keeps tests independent of the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		SourceRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Source calls by source, operation and outcome code.",
		}, []string{"source", "op", "status"}),
		SourceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Duration of source calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"source", "op"}),
		SourceResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_results_total",
			Help:      "Raw hits returned by each search source.",
		}, []string{"source"}),
		Sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Finished search sessions by terminal state.",
		}, []string{"state"}),
		SessionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Wall time of search sessions in seconds.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
		SessionResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_results",
			Help:      "Results per successful session after deduplication.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		Duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Results dropped by deduplication.",
		}),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSession records a finished session. Sessions still running are
// ignored.
func (m *Metrics) ObserveSession(s *locsearch.Session) {
	if s == nil || !s.State.Terminal() {
		return
	}
	m.Sessions.WithLabelValues(string(s.State)).Inc()
	m.SessionDuration.Observe(s.Stats.Elapsed.Seconds())
	if s.State == locsearch.StateReady {
		m.SessionResults.Observe(float64(s.Stats.TotalResults))
		m.Duplicates.Add(float64(s.Stats.Duplicates))
	}
}

func (m *Metrics) observe(source, op string, begin time.Time, err error) {
	status := "ok"
	if err != nil {
		status = locsearch.ErrorCode(err)
	}
	m.SourceRequests.WithLabelValues(source, op, status).Inc()
	m.SourceDuration.WithLabelValues(source, op).Observe(time.Since(begin).Seconds())
}

var (
	_ locsearch.Searcher = (*InstrumentedSearcher)(nil)
	_ locsearch.Scraper  = (*InstrumentedScraper)(nil)
)

// InstrumentedSearcher records metrics for each call to a Searcher.
type InstrumentedSearcher struct {
	next    locsearch.Searcher
	metrics *Metrics
}

// NewInstrumentedSearcher wraps next.
func NewInstrumentedSearcher(next locsearch.Searcher, m *Metrics) *InstrumentedSearcher {
	return &InstrumentedSearcher{next: next, metrics: m}
}

func (s *InstrumentedSearcher) Descriptor() locsearch.SourceDescriptor {
	return s.next.Descriptor()
}

func (s *InstrumentedSearcher) Search(ctx context.Context, query, language string) (results []*locsearch.RawResult, err error) {
	name := s.next.Descriptor().Name
	defer func(begin time.Time) {
		s.metrics.observe(name, "search", begin, err)
		s.metrics.SourceResults.WithLabelValues(name).Add(float64(len(results)))
	}(time.Now())
	return s.next.Search(ctx, query, language)
}

// InstrumentedScraper records metrics for each call to a Scraper.
type InstrumentedScraper struct {
	next    locsearch.Scraper
	metrics *Metrics
}

// NewInstrumentedScraper wraps next.
func NewInstrumentedScraper(next locsearch.Scraper, m *Metrics) *InstrumentedScraper {
	return &InstrumentedScraper{next: next, metrics: m}
}

func (s *InstrumentedScraper) Descriptor() locsearch.SourceDescriptor {
	return s.next.Descriptor()
}

func (s *InstrumentedScraper) FetchContent(ctx context.Context, url string) (page *locsearch.ScrapedPage, err error) {
	defer func(begin time.Time) {
		s.metrics.observe(s.next.Descriptor().Name, "scrape", begin, err)
	}(time.Now())
	return s.next.FetchContent(ctx, url)
}
