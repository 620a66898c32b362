// Package echo serves the search pipeline and history over HTTP.
package echo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/prometheus"
	"github.com/fwojciec/locsearch/search"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Pipeline runs searches. *search.Pipeline implements it.
type Pipeline interface {
	RunSearch(ctx context.Context, req search.Request) (*locsearch.Session, error)
}

// Server is the HTTP API.
type Server struct {
	echo *echo.Echo
	once sync.Once

	Pipeline Pipeline
	History  locsearch.HistoryService
	// Metrics is optional. When set, sessions are observed and /metrics
	// is served.
	Metrics *prometheus.Metrics
	Logger  *slog.Logger

	// Limits are applied to requests that carry none.
	Limits locsearch.LimiterConfig
}

// NewServer creates a Server. Dependencies are set on the returned value
// before Handler or ListenAndServe is called.
func NewServer() *Server {
	return &Server{echo: echo.New()}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	s.once.Do(s.routes)
	return s.echo
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.once.Do(s.routes)

	errc := make(chan error, 1)
	go func() {
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = s.handleError

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}
	e.POST("/search", s.handleSearch)
	e.GET("/history", s.handleHistoryList)
	e.GET("/history/:id", s.handleHistoryShow)
	e.DELETE("/history/:id", s.handleHistoryDelete)
	e.DELETE("/history", s.handleHistoryClear)
}

// handleError writes {"error": msg} and logs server-side failures.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := locsearch.ErrorMessage(err)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else if locsearch.ErrorCode(err) != locsearch.EINTERNAL {
		code = StatusCode(locsearch.ErrorCode(err))
	}

	req := c.Request()
	if code >= 500 {
		s.logger().Error("http error", "status", code, "method", req.Method, "path", req.URL.Path, "err", err)
	}
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(code string) int {
	switch code {
	case locsearch.EINVALID:
		return http.StatusBadRequest
	case locsearch.ECONFIG:
		return http.StatusUnprocessableEntity
	case locsearch.ENOTFOUND:
		return http.StatusNotFound
	case locsearch.EUNAVAILABLE, locsearch.ECANCELED:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
