package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/locsearch"
)

// DefaultAPITimeout bounds calls to search and language APIs.
const DefaultAPITimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is quoted.
const maxErrorBody = 512

// JSONClient calls JSON APIs and maps failures onto locsearch error codes:
// transport errors, auth failures, throttling and server errors become
// EUNAVAILABLE; other client errors and undecodable bodies become ESOURCE.
type JSONClient struct {
	// Name prefixes error messages, e.g. "tavily".
	Name string

	HTTPClient *http.Client
}

// NewJSONClient returns a client with DefaultAPITimeout.
func NewJSONClient(name string) *JSONClient {
	return &JSONClient{Name: name, HTTPClient: &http.Client{Timeout: DefaultAPITimeout}}
}

// Do sends in (when non-nil) as a JSON body and decodes the response
// into out (when non-nil).
func (c *JSONClient) Do(ctx context.Context, method, url string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return locsearch.Errorf(locsearch.EINTERNAL, "%s: encode request: %v", c.Name, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return locsearch.Errorf(locsearch.EINTERNAL, "%s: build request: %v", c.Name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "%s: %v", c.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return StatusError(c.Name, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return locsearch.Errorf(locsearch.ESOURCE, "%s: decode response: %v", c.Name, err)
	}
	return nil
}

// StatusError maps a non-2xx response onto a locsearch error, quoting body.
func StatusError(name string, status int, body []byte) error {
	msg := fmt.Sprintf("%s: HTTP %d", name, status)
	if len(body) > 0 {
		msg += ": " + string(bytes.TrimSpace(body))
	}
	switch {
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusTooManyRequests,
		status >= 500:
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "%s", msg)
	}
	return locsearch.Errorf(locsearch.ESOURCE, "%s", msg)
}
