// Package fs writes search results to files.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// FormatForPath picks the format from a file extension: .md and
// .markdown select Markdown, everything else JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatJSON
}

// DefaultFileName is the export name used when none is given, stamped
// with the export time.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("search-results-%d.json", now.UnixMilli())
}

// Export is the document written by an export.
type Export struct {
	Timestamp    time.Time                    `json:"timestamp"`
	Query        string                       `json:"query"`
	Language     string                       `json:"language,omitempty"`
	Digest       string                       `json:"digest,omitempty"`
	TotalResults int                          `json:"totalResults"`
	Results      []*locsearch.ExtractedResult `json:"results"`
}

// NewExport builds an export of results, which are normally the
// session's filtered view.
func NewExport(s *locsearch.Session, results []*locsearch.ExtractedResult, now time.Time) *Export {
	if results == nil {
		results = []*locsearch.ExtractedResult{}
	}
	return &Export{
		Timestamp:    now.UTC(),
		Query:        s.Query,
		Language:     s.Language,
		Digest:       s.Digest,
		TotalResults: len(results),
		Results:      results,
	}
}

// WriteFile writes e to path in the given format. The file is written
// to a temporary sibling and renamed into place, so readers never see
// a partial export.
func WriteFile(path string, e *Export, format Format) error {
	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(FormatReport(e))
	case FormatJSON, "":
		var err error
		if data, err = json.MarshalIndent(e, "", "  "); err != nil {
			return locsearch.Errorf(locsearch.EINTERNAL, "encode export: %v", err)
		}
		data = append(data, '\n')
	default:
		return locsearch.Errorf(locsearch.EINVALID, "unknown export format %q", format)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
