package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/prometheus"
	locslog "github.com/fwojciec/locsearch/slog"
	"github.com/fwojciec/locsearch/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run(); --config overrides it.
	ConfigPath string

	Config *Config

	// SQLite database used by the history service.
	DB *sqlite.DB

	wiring *wiring
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var first error
	if m.wiring != nil {
		first = m.wiring.Close()
	}
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("locsearch"),
		kong.Description("Search several engines at once, enrich and deduplicate the results, and summarize them."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'locsearch --help' to see available commands")
		return locsearch.Errorf(locsearch.EINVALID, "no command specified")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	path := m.ConfigPath
	if cli.Config != "" {
		path = cli.Config
	}
	m.Config, err = LoadConfig(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}
	deps.Config = m.Config
	defer m.Close()

	level := m.Config.Log.Level
	if cli.Verbose {
		level = "debug"
	}
	deps.Logger, err = locslog.NewLogger(stderr, level, m.Config.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	if cmd == "search" || cmd == "history" || cmd == "serve" {
		if err := m.openDB(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LOCSEARCH_DB to use a different database path\n")
			fmt.Fprintf(stderr, "error: failed to open database at %q: %v\n", m.Config.Database, err)
			return err
		}
		deps.History = sqlite.NewHistoryService(m.DB)
	}

	if cmd == "serve" {
		deps.Metrics = prometheus.NewMetrics(nil)
	}

	if cmd == "search" || cmd == "serve" || cmd == "sources" {
		m.wiring = &wiring{
			Config:  m.Config,
			Logger:  deps.Logger,
			Verbose: cli.Verbose,
			Metrics: deps.Metrics,
		}

		deps.Registry, err = m.wiring.Registry()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", locsearch.ErrorMessage(err))
			if m.Config.Sources.Browser.Enabled {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for the browser source")
			}
			return err
		}
	}

	if cmd == "search" || cmd == "serve" {
		deps.Pipeline, err = m.wiring.Pipeline(ctx, deps.Registry, deps.History)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", locsearch.ErrorMessage(err))
			return err
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB() error {
	path := m.Config.Database
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	m.DB = sqlite.NewDB(path)
	return m.DB.Open()
}
