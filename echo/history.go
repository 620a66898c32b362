package echo

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/locsearch"
	"github.com/labstack/echo/v4"
)

func (s *Server) history() (locsearch.HistoryService, error) {
	if s.History == nil {
		return nil, echo.NewHTTPError(http.StatusNotImplemented, "history disabled")
	}
	return s.History, nil
}

func (s *Server) handleHistoryList(c echo.Context) error {
	h, err := s.history()
	if err != nil {
		return err
	}
	filter := locsearch.HistoryFilter{}
	if q := c.QueryParam("query"); q != "" {
		filter.Query = &q
	}
	if filter.Limit, err = intParam(c, "limit"); err != nil {
		return err
	}
	if filter.Offset, err = intParam(c, "offset"); err != nil {
		return err
	}

	records, err := h.FindSearches(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*locsearch.SearchRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleHistoryShow(c echo.Context) error {
	h, err := s.history()
	if err != nil {
		return err
	}
	record, err := h.FindSearchByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleHistoryDelete(c echo.Context) error {
	h, err := s.history()
	if err != nil {
		return err
	}
	if err := h.DeleteSearch(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleHistoryClear(c echo.Context) error {
	h, err := s.history()
	if err != nil {
		return err
	}
	if err := h.ClearSearches(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func intParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, locsearch.Errorf(locsearch.EINVALID, "%s must be a non-negative integer", name)
	}
	return n, nil
}
