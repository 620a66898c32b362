package echo

import (
	"net/http"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/search"
	"github.com/labstack/echo/v4"
)

type searchRequest struct {
	Query    string   `json:"query"`
	Language string   `json:"language"`
	Sources  []string `json:"sources"`

	Filters struct {
		Date     string `json:"date"`
		Source   string `json:"source"`
		Domain   string `json:"domain"`
		Language string `json:"language"`
	} `json:"filters"`
	Sort string `json:"sort"`

	// Limits override the server's limits field by field.
	Limits *struct {
		MaxConcurrent     *int `json:"maxConcurrent"`
		RequestsPerMinute *int `json:"requestsPerMinute"`
		DelayMillis       *int `json:"delayMs"`
		TimeoutMillis     *int `json:"timeoutMs"`
	} `json:"limits"`
}

type searchResponse struct {
	ID             string                             `json:"id"`
	Query          string                             `json:"query"`
	Language       string                             `json:"language"`
	OptimizedQuery string                             `json:"optimizedQuery"`
	State          locsearch.SessionState             `json:"state"`
	Digest         string                             `json:"digest"`
	Stats          locsearch.Stats                    `json:"stats"`
	Facets         locsearch.FacetIndex               `json:"facets"`
	Progress       map[string]locsearch.ProgressPhase `json:"progress"`
	Results        []*locsearch.ExtractedResult       `json:"results"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var body searchRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	date, err := locsearch.ParseDateBucket(body.Filters.Date)
	if err != nil {
		return err
	}
	sortKey, err := locsearch.ParseSortKey(body.Sort)
	if err != nil {
		return err
	}

	req := search.Request{
		Query:    body.Query,
		Language: body.Language,
		Sources:  body.Sources,
		Limits:   s.Limits,
	}
	if l := body.Limits; l != nil {
		if req.Limits == (locsearch.LimiterConfig{}) {
			req.Limits = locsearch.DefaultLimiterConfig()
		}
		if l.MaxConcurrent != nil {
			req.Limits.MaxConcurrent = *l.MaxConcurrent
		}
		if l.RequestsPerMinute != nil {
			req.Limits.RequestsPerMinute = *l.RequestsPerMinute
		}
		if l.DelayMillis != nil {
			req.Limits.InterRequestDelay = time.Duration(*l.DelayMillis) * time.Millisecond
		}
		if l.TimeoutMillis != nil {
			req.Limits.PerItemTimeout = time.Duration(*l.TimeoutMillis) * time.Millisecond
		}
	}

	session, err := s.Pipeline.RunSearch(c.Request().Context(), req)
	if s.Metrics != nil {
		s.Metrics.ObserveSession(session)
	}
	if err != nil {
		return err
	}

	results := session.Filter(locsearch.Filters{
		Date:     date,
		Source:   body.Filters.Source,
		Domain:   body.Filters.Domain,
		Language: body.Filters.Language,
	}, sortKey)
	if results == nil {
		results = []*locsearch.ExtractedResult{}
	}

	return c.JSON(http.StatusOK, searchResponse{
		ID:             session.ID,
		Query:          session.Query,
		Language:       session.Language,
		OptimizedQuery: session.OptimizedQuery,
		State:          session.State,
		Digest:         session.Digest,
		Stats:          session.Stats,
		Facets:         session.Facets,
		Progress:       session.Progress,
		Results:        results,
	})
}
