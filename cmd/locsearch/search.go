package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/fs"
	"github.com/fwojciec/locsearch/search"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	date, err := locsearch.ParseDateBucket(c.Date)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}
	sortKey, err := locsearch.ParseSortKey(c.Sort)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	job := deps.Pipeline.Start(deps.Ctx, search.Request{
		Query:   strings.Join(c.Query, " "),
		Sources: c.Sources,
		Limits:  c.limits(deps.Config),
	})
	for event := range job.Events() {
		if !c.Quiet {
			printProgress(deps.Stderr, event)
		}
	}
	session, err := job.Wait()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	language := c.Language
	if strings.EqualFold(language, "auto") {
		language = session.Language
	}
	results := locsearch.FilterAt(session.Results, locsearch.Filters{
		Date:     date,
		Source:   c.From,
		Domain:   c.Domain,
		Language: language,
	}, sortKey, deps.now())

	printSession(deps.Stdout, session, results, c.Limit)

	if c.Export != "" {
		path, err := exportPath(c.Export, deps)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		export := fs.NewExport(session, results, deps.now())
		if err := fs.WriteFile(path, export, fs.FormatForPath(path)); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Exported %d results to %s\n", len(results), path)
	}
	return nil
}

// limits starts from the configured defaults and applies set flags.
func (c *SearchCmd) limits(cfg *Config) locsearch.LimiterConfig {
	l := locsearch.DefaultLimiterConfig()
	if cfg != nil {
		l = cfg.Limits.LimiterConfig()
	}
	if c.MaxConcurrent != nil {
		l.MaxConcurrent = *c.MaxConcurrent
	}
	if c.RPM != nil {
		l.RequestsPerMinute = *c.RPM
	}
	if c.Delay != nil {
		l.InterRequestDelay = *c.Delay
	}
	if c.Timeout != nil {
		l.PerItemTimeout = *c.Timeout
	}
	return l
}

// exportPath resolves a directory to a generated file name inside it.
func exportPath(path string, deps *Dependencies) (string, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(path, fs.DefaultFileName(deps.now())), nil
	case err == nil || os.IsNotExist(err):
		return path, nil
	}
	return "", err
}

func printProgress(w io.Writer, e locsearch.ProgressEvent) {
	if e.Source == "" {
		if e.State != locsearch.StateReady && e.State != locsearch.StateFailed {
			fmt.Fprintf(w, "%s %s\n", faint("»"), e.State)
		}
		return
	}
	switch e.Phase {
	case locsearch.PhaseInFlight:
		fmt.Fprintf(w, "  %s searching...\n", e.Source)
	case locsearch.PhaseCompleted:
		fmt.Fprintf(w, "  %s %s (%d results)\n", e.Source, green("done"), e.Results)
	case locsearch.PhaseFailed:
		fmt.Fprintf(w, "  %s %s: %s\n", e.Source, red("failed"), locsearch.ErrorMessage(e.Err))
	}
}

func printSession(w io.Writer, s *locsearch.Session, results []*locsearch.ExtractedResult, limit int) {
	if s.OptimizedQuery != "" && s.OptimizedQuery != s.Query {
		fmt.Fprintf(w, "%s %s\n", faint("Searched for:"), s.OptimizedQuery)
	}
	fmt.Fprintf(w, "\n%s\n%s\n\n", bold("Summary"), s.Digest)

	if len(results) == 0 {
		fmt.Fprintln(w, "No results match the current filters.")
	}
	shown := results
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for i, r := range shown {
		printResult(w, i+1, r)
	}

	st := s.Stats
	fmt.Fprintf(w, "%s\n", faint(fmt.Sprintf(
		"%d of %d results shown, %d duplicates removed, %d/%d sources answered in %s",
		len(shown), st.TotalResults, st.Duplicates, st.SourcesOK, st.SourcesUsed, st.Elapsed.Round(100*time.Millisecond),
	)))
}

func printResult(w io.Writer, n int, r *locsearch.ExtractedResult) {
	date := r.PublishedAt.Format("2006-01-02")
	if r.DateEstimated {
		date = yellow(date + "?")
	}
	fmt.Fprintf(w, "%s %s\n", bold(fmt.Sprintf("[%d]", n)), bold(r.Title))
	fmt.Fprintf(w, "    %s\n", cyan(r.URL))
	fmt.Fprintf(w, "    %s\n", faint(fmt.Sprintf("%s · %s · %s · ", r.Domain, r.Source, r.Language))+date)
	if r.Description != "" {
		fmt.Fprintf(w, "    %s\n", r.Description)
	}
	fmt.Fprintln(w)
}
