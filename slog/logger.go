package slog

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/locsearch"
)

// NewLogger returns a logger writing to w at the named level ("debug",
// "info", "warn" or "error"). Format "json" selects the JSON handler;
// anything else selects text.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(defaultString(level, "info")))); err != nil {
		return nil, locsearch.Errorf(locsearch.ECONFIG, "invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
