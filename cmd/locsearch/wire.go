package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/brave"
	"github.com/fwojciec/locsearch/gemini"
	"github.com/fwojciec/locsearch/goquery"
	"github.com/fwojciec/locsearch/htmltomarkdown"
	lochttp "github.com/fwojciec/locsearch/http"
	"github.com/fwojciec/locsearch/mistral"
	"github.com/fwojciec/locsearch/prometheus"
	"github.com/fwojciec/locsearch/readability"
	"github.com/fwojciec/locsearch/rod"
	"github.com/fwojciec/locsearch/rss"
	"github.com/fwojciec/locsearch/scrape"
	"github.com/fwojciec/locsearch/scrapingbee"
	"github.com/fwojciec/locsearch/search"
	"github.com/fwojciec/locsearch/serper"
	locslog "github.com/fwojciec/locsearch/slog"
	"github.com/fwojciec/locsearch/tavily"
	"github.com/fwojciec/locsearch/trafilatura"
	"google.golang.org/genai"
)

// wiring assembles sources and collaborators from a Config. Verbose wraps
// every component in a logging decorator; Metrics, when set, wraps every
// source in an instrumented one.
type wiring struct {
	Config  *Config
	Logger  *slog.Logger
	Verbose bool
	Metrics *prometheus.Metrics

	closers []io.Closer
}

// Close releases fetchers opened by the registry.
func (w *wiring) Close() error {
	var first error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}

// Registry returns the configured sources. Search sources come first;
// scrape sources follow in the order they are tried.
func (w *wiring) Registry() (*locsearch.Registry, error) {
	cfg := w.Config.Sources
	var sources []locsearch.Source

	sources = append(sources,
		w.searcher(tavily.NewSearcher(cfg.Tavily.APIKey)),
		w.searcher(brave.NewSearcher(cfg.Brave.APIKey)),
		w.searcher(serper.NewSearcher(cfg.Serper.APIKey)),
	)
	if len(cfg.RSS.Feeds) > 0 {
		sources = append(sources, w.searcher(&rss.Searcher{
			Feeds:   cfg.RSS.Feeds,
			Fetcher: w.fetcher(lochttp.NewFetcher()),
		}))
	}

	bee := scrapingbee.NewFetcher(cfg.ScrapingBee.APIKey)
	bee.RenderJS = cfg.ScrapingBee.RenderJS
	sources = append(sources, w.scraper(&scrape.PageScraper{
		Name:        "scrapingbee",
		APIKey:      cfg.ScrapingBee.APIKey,
		KeyRequired: true,
		Fetcher:     w.fetcher(bee),
		Extractor:   trafilatura.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		RetryDelays: scrape.DefaultRetryDelays(),
		Logger:      w.Logger,
	}))

	if cfg.Direct.Enabled {
		sources = append(sources, w.scraper(&scrape.PageScraper{
			Name:        "direct",
			Fetcher:     w.fetcher(lochttp.NewFetcher()),
			Extractor:   readability.NewExtractor(),
			Converter:   htmltomarkdown.NewConverter(),
			RetryDelays: scrape.DefaultRetryDelays(),
			Logger:      w.Logger,
		}))
	}

	if cfg.Browser.Enabled {
		f, err := rod.NewFetcher()
		if err != nil {
			return nil, locsearch.Errorf(locsearch.ECONFIG, "start browser: %v", err)
		}
		sources = append(sources, w.scraper(&scrape.PageScraper{
			Name:      "browser",
			Fetcher:   w.fetcher(f),
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Logger:    w.Logger,
		}))
	}

	return locsearch.NewRegistry(sources...)
}

func (w *wiring) searcher(s locsearch.Searcher) locsearch.Searcher {
	if w.Verbose {
		s = locslog.NewLoggingSearcher(s, w.Logger)
	}
	if w.Metrics != nil {
		s = prometheus.NewInstrumentedSearcher(s, w.Metrics)
	}
	return s
}

func (w *wiring) scraper(s locsearch.Scraper) locsearch.Scraper {
	if w.Verbose {
		s = locslog.NewLoggingScraper(s, w.Logger)
	}
	if w.Metrics != nil {
		s = prometheus.NewInstrumentedScraper(s, w.Metrics)
	}
	return s
}

func (w *wiring) fetcher(f locsearch.Fetcher) locsearch.Fetcher {
	w.closers = append(w.closers, f)
	if w.Verbose {
		return locslog.NewLoggingFetcher(f, w.Logger)
	}
	return f
}

// languageModel is implemented by every model adapter.
type languageModel interface {
	locsearch.QueryAnalyzer
	locsearch.RecordExtractor
	locsearch.Summarizer
}

// LanguageModel returns the configured model adapter, or nil when the
// provider is "none" or has no API key.
func (w *wiring) LanguageModel(ctx context.Context) (languageModel, error) {
	cfg := w.Config.LLM
	switch cfg.Provider {
	case "none":
		return nil, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			w.Logger.Warn("GEMINI_API_KEY not set, searching without a language model")
			return nil, nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, locsearch.Errorf(locsearch.ECONFIG, "connect to Gemini API: %v", err)
		}
		return gemini.NewAnalyzer(client, cfg.Model), nil
	case "mistral":
		if cfg.MistralAPIKey == "" {
			w.Logger.Warn("MISTRAL_API_KEY not set, searching without a language model")
			return nil, nil
		}
		a := mistral.NewAnalyzer(cfg.MistralAPIKey)
		if cfg.Model != "" {
			a.Model = cfg.Model
		}
		return a, nil
	}
	return nil, locsearch.Errorf(locsearch.ECONFIG, "unknown llm provider %q", cfg.Provider)
}

// Pipeline assembles a search pipeline over reg.
func (w *wiring) Pipeline(ctx context.Context, reg *locsearch.Registry, history locsearch.HistoryService) (*search.Pipeline, error) {
	p := &search.Pipeline{
		Registry:        reg,
		Cleaner:         goquery.NewCleaner(),
		Logger:          w.Logger,
		History:         history,
		DefaultLanguage: w.Config.DefaultLanguage,
	}

	model, err := w.LanguageModel(ctx)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return p, nil
	}
	if !w.Verbose {
		p.Analyzer, p.Extractor, p.Summarizer = model, model, model
		return p, nil
	}
	p.Analyzer = locslog.NewLoggingQueryAnalyzer(model, w.Logger)
	p.Extractor = locslog.NewLoggingRecordExtractor(model, w.Logger)
	p.Summarizer = locslog.NewLoggingSummarizer(model, w.Logger)
	return p, nil
}

func describe(d locsearch.SourceDescriptor) string {
	status := "ready"
	if !d.Usable() {
		status = "missing API key"
	}
	return fmt.Sprintf("%-12s %-14s %s", d.Name, d.Capabilities, status)
}
