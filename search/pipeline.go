package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/google/uuid"
)

// defaultLanguage is used when neither the query analysis nor the caller
// provide a language.
const defaultLanguage = "en"

// eventBuffer is the capacity of a job's event channel. Events beyond it
// are dropped rather than blocking the pipeline.
const eventBuffer = 256

// Request describes one search.
type Request struct {
	Query string

	// Language is used when query analysis cannot detect one.
	Language string

	// Sources restricts the search to the named sources. Empty means all.
	Sources []string

	// Limits configures the session scheduler. The zero value means
	// locsearch.DefaultLimiterConfig.
	Limits locsearch.LimiterConfig
}

// Pipeline runs search sessions. A Pipeline holds no per-session state
// and may run any number of sessions concurrently.
type Pipeline struct {
	Registry   *locsearch.Registry
	Analyzer   locsearch.QueryAnalyzer
	Extractor  locsearch.RecordExtractor
	Summarizer locsearch.Summarizer
	Cleaner    locsearch.TextCleaner
	History    locsearch.HistoryService
	Logger     *slog.Logger

	// DefaultLanguage is used when neither the analysis nor the request
	// carry a language.
	DefaultLanguage string

	Now func() time.Time
}

// Job is a running search session.
type Job struct {
	events chan locsearch.ProgressEvent
	done   chan struct{}
	cancel context.CancelFunc

	session *locsearch.Session
	err     error
}

// Events returns the job's progress events. The channel is closed when
// the job finishes.
func (j *Job) Events() <-chan locsearch.ProgressEvent {
	return j.events
}

// Cancel stops the job from starting further work. Work already started
// drains and the session ends in StateFailed with ECANCELED.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the job finishes and returns its session. The error
// is the session's Err, set when the session failed.
func (j *Job) Wait() (*locsearch.Session, error) {
	<-j.done
	return j.session, j.err
}

// Start runs req in the background.
func (p *Pipeline) Start(ctx context.Context, req Request) *Job {
	ctx, cancel := context.WithCancel(ctx)
	job := &Job{
		events: make(chan locsearch.ProgressEvent, eventBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(job.done)
		defer close(job.events)
		defer cancel()
		job.session = p.run(ctx, req, job.emit)
		job.err = job.session.Err
	}()
	return job
}

// RunSearch runs req and waits for it to finish.
func (p *Pipeline) RunSearch(ctx context.Context, req Request) (*locsearch.Session, error) {
	return p.Start(ctx, req).Wait()
}

func (j *Job) emit(event locsearch.ProgressEvent) {
	select {
	case j.events <- event:
	default:
	}
}

// session tracks one run. mu guards Progress, which retrieval units
// update concurrently.
type session struct {
	*locsearch.Session
	mu   sync.Mutex
	emit ProgressFunc
}

func (s *session) setState(state locsearch.SessionState) {
	s.State = state
	s.emit(locsearch.ProgressEvent{State: state})
}

func (s *session) progress(event locsearch.ProgressEvent) {
	s.mu.Lock()
	s.Progress[event.Source] = event.Phase
	s.mu.Unlock()
	event.State = s.State
	s.emit(event)
}

func (p *Pipeline) run(ctx context.Context, req Request, emit ProgressFunc) *locsearch.Session {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &session{
		Session: &locsearch.Session{
			ID:        uuid.New().String(),
			Query:     strings.TrimSpace(req.Query),
			State:     locsearch.StateIdle,
			StartedAt: p.now(),
			Progress:  make(map[string]locsearch.ProgressPhase),
		},
		emit: emit,
	}
	logger = logger.With("session", s.ID)

	fail := func(err error) *locsearch.Session {
		s.Err = err
		s.FinishedAt = p.now()
		s.Stats.Elapsed = s.FinishedAt.Sub(s.StartedAt)
		s.setState(locsearch.StateFailed)
		logger.Error("search failed", "query", s.Query, "code", locsearch.ErrorCode(err), "err", err)
		return s.Session
	}
	canceled := func() bool {
		return ctx.Err() != nil
	}
	errCanceled := locsearch.Errorf(locsearch.ECANCELED, "search canceled")

	limits := req.Limits
	if limits == (locsearch.LimiterConfig{}) {
		limits = locsearch.DefaultLimiterConfig()
	}
	sched, err := NewScheduler(limits)
	if err != nil {
		return fail(locsearch.Errorf(locsearch.ECONFIG, "invalid limits: %s", locsearch.ErrorMessage(err)))
	}
	if s.Query == "" {
		return fail(locsearch.Errorf(locsearch.ECONFIG, "query required"))
	}
	reg, err := p.Registry.Select(req.Sources)
	if err != nil {
		return fail(err)
	}
	if len(reg.Searchers()) == 0 {
		if missing := reg.Unusable(); len(missing) > 0 {
			return fail(locsearch.Errorf(locsearch.ECONFIG, "no usable search source: missing credentials for %s", strings.Join(missing, ", ")))
		}
		return fail(locsearch.Errorf(locsearch.ECONFIG, "no usable search source configured"))
	}
	s.Sources = reg.Descriptors()

	// Preprocessing
	s.setState(locsearch.StatePreprocessing)
	s.Language, s.OptimizedQuery = p.preprocess(ctx, s.Query, req.Language, limits.PerItemTimeout, logger)
	if canceled() {
		return fail(errCanceled)
	}

	// Retrieving
	s.setState(locsearch.StateRetrieving)
	dispatcher := &Dispatcher{Logger: logger}
	s.Raw = dispatcher.Retrieve(ctx, s.OptimizedQuery, s.Language, reg, sched, s.progress)
	if canceled() {
		return fail(errCanceled)
	}

	// Extracting
	s.setState(locsearch.StateExtracting)
	enricher := &Enricher{
		Extractor: p.Extractor,
		Scrapers:  reg.Scrapers(),
		Cleaner:   p.Cleaner,
		Logger:    logger,
		Now:       p.Now,
	}
	s.Extracted = enricher.EnrichAll(ctx, sched, s.Raw, s.Language)
	if canceled() {
		return fail(errCanceled)
	}

	// Deduplicating
	s.setState(locsearch.StateDeduplicating)
	s.Results, s.Stats.Duplicates = locsearch.Dedupe(s.Extracted)
	s.Facets = locsearch.BuildFacets(s.Results)

	// Summarizing
	s.setState(locsearch.StateSummarizing)
	s.Digest = p.summarize(ctx, s.Session, limits.PerItemTimeout, logger)
	if canceled() {
		return fail(errCanceled)
	}

	s.FinishedAt = p.now()
	s.Stats.TotalResults = len(s.Results)
	s.Stats.RawResults = len(s.Raw)
	s.Stats.SourcesUsed = len(reg.Searchers())
	for _, phase := range s.Progress {
		if phase == locsearch.PhaseCompleted {
			s.Stats.SourcesOK++
		}
	}
	s.Stats.Elapsed = s.FinishedAt.Sub(s.StartedAt)
	s.setState(locsearch.StateReady)

	if p.History != nil {
		if err := p.History.CreateSearch(context.WithoutCancel(ctx), locsearch.NewSearchRecord(s.Session)); err != nil {
			logger.Warn("saving search history failed", "err", err)
		}
	}

	logger.Info("search finished",
		"query", s.Query,
		"language", s.Language,
		"raw", s.Stats.RawResults,
		"results", s.Stats.TotalResults,
		"duplicates", s.Stats.Duplicates,
		"duration", s.Stats.Elapsed,
	)
	return s.Session
}

// preprocess returns the language and optimized query, falling back to
// the raw query and the caller's language on any failure.
func (p *Pipeline) preprocess(ctx context.Context, query, language string, timeout time.Duration, logger *slog.Logger) (string, string) {
	fallback := p.fallbackLanguage(language)
	if p.Analyzer == nil {
		return fallback, query
	}

	callCtx, cancel := detached(ctx, timeout)
	defer cancel()

	analysis, err := p.Analyzer.AnalyzeQuery(callCtx, query)
	if err != nil || analysis == nil {
		logger.Warn("query preprocessing failed", "code", locsearch.EPREPROCESS, "err", err)
		return fallback, query
	}

	lang := strings.ToLower(strings.TrimSpace(analysis.Language))
	if lang == "" {
		lang = fallback
	}
	optimized := strings.TrimSpace(analysis.Optimized)
	if optimized == "" {
		optimized = query
	}
	return lang, optimized
}

// summarize returns the session digest or a placeholder.
func (p *Pipeline) summarize(ctx context.Context, s *locsearch.Session, timeout time.Duration, logger *slog.Logger) string {
	if len(s.Results) == 0 {
		return locsearch.DigestNoResults
	}
	if p.Summarizer == nil {
		return locsearch.DigestUnavailable
	}

	callCtx, cancel := detached(ctx, timeout)
	defer cancel()

	digest, err := p.Summarizer.Summarize(callCtx, &locsearch.DigestRequest{
		Query:          s.Query,
		OptimizedQuery: s.OptimizedQuery,
		Language:       s.Language,
		Results:        s.Results,
	})
	if err != nil || strings.TrimSpace(digest) == "" {
		logger.Warn("digest generation failed", "code", locsearch.ESUMMARY, "err", err)
		return locsearch.DigestUnavailable
	}
	return strings.TrimSpace(digest)
}

func (p *Pipeline) fallbackLanguage(language string) string {
	switch {
	case language != "":
		return language
	case p.DefaultLanguage != "":
		return p.DefaultLanguage
	}
	return defaultLanguage
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// detached returns a context that survives cancellation of ctx so that a
// started collaborator call can drain, bounded by timeout when positive.
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
