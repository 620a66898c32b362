package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/prometheus"
	"github.com/fwojciec/locsearch/search"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *Config
	Logger   *slog.Logger
	Registry *locsearch.Registry
	Pipeline *search.Pipeline
	History  locsearch.HistoryService
	Metrics  *prometheus.Metrics
	Now      func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" help:"Config file (default ~/.config/locsearch/config.yaml, or LOCSEARCH_CONFIG)"`
	Verbose bool   `short:"v" help:"Log source and model calls to stderr"`

	Search  SearchCmd  `cmd:"" help:"Search all configured sources"`
	History HistoryCmd `cmd:"" help:"List, show and delete past searches"`
	Sources SourcesCmd `cmd:"" help:"List configured sources"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" help:"Search query"`
	Sources []string `short:"s" name:"source" help:"Restrict to a source (repeatable)"`

	Language string `short:"l" default:"auto" help:"Result language filter: auto (detected), all, or a language code"`
	Date     string `short:"d" default:"all" help:"Date filter: all, today, this-week, this-month"`
	Domain   string `help:"Only show results from this domain"`
	From     string `help:"Only show results from this source"`
	Sort     string `default:"relevance" help:"Sort by relevance, date, source or domain"`
	Limit    int    `short:"n" help:"Maximum results to print (0 prints all)"`

	MaxConcurrent *int           `name:"max-concurrent" help:"Sources and pages processed per batch"`
	RPM           *int           `name:"rpm" help:"Requests per minute"`
	Delay         *time.Duration `help:"Delay before each request"`
	Timeout       *time.Duration `help:"Timeout per request"`

	Export string `short:"o" type:"path" help:"Write results to a .json or .md file (a directory gets a generated name)"`
	Quiet  bool   `short:"q" help:"Hide progress"`
}

// HistoryCmd is the "history" subcommand group.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" help:"List past searches"`
	Show   HistoryShowCmd   `cmd:"" help:"Show a past search"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a past search"`
	Clear  HistoryClearCmd  `cmd:"" help:"Delete all past searches"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	Query  string `help:"Only show searches for this query"`
	Limit  int    `short:"n" default:"20" help:"Maximum searches to list"`
	Offset int    `help:"Skip this many searches"`
}

// HistoryShowCmd is the "history show" subcommand.
type HistoryShowCmd struct {
	ID   string `arg:"" help:"Search ID"`
	JSON bool   `help:"Print the record as JSON"`
}

// HistoryDeleteCmd is the "history delete" subcommand.
type HistoryDeleteCmd struct {
	ID    string `arg:"" help:"Search ID"`
	Force bool   `help:"Confirm deletion"`
}

// HistoryClearCmd is the "history clear" subcommand.
type HistoryClearCmd struct {
	Force bool `help:"Confirm deletion"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (default from config, :8080)"`
}
