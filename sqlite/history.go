package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ locsearch.HistoryService = (*HistoryService)(nil)

// timeFormat is RFC3339 with fixed nanoseconds in UTC, so stored
// timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryService implements locsearch.HistoryService using SQLite.
type HistoryService struct {
	db *DB

	// MaxEntries overrides locsearch.MaxHistoryEntries when positive.
	MaxEntries int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db, Now: time.Now}
}

// CreateSearch saves record, assigning its ID, fingerprint and creation
// time, then evicts the oldest searches beyond the retention limit.
func (s *HistoryService) CreateSearch(ctx context.Context, record *locsearch.SearchRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	stats, err := json.Marshal(record.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	results := record.Results
	if len(results) > locsearch.MaxHistoryResults {
		results = results[:locsearch.MaxHistoryResults]
	}
	payloads := make([]string, len(results))
	for i, r := range results {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode result %d: %w", i, err)
		}
		payloads[i] = string(b)
	}

	record.ID = uuid.New().String()
	record.Fingerprint = Fingerprint(record.Query)
	record.CreatedAt = s.now()
	record.Results = results

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO searches (id, query, fingerprint, language, optimized_query, digest, stats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Query, record.Fingerprint, record.Language, record.OptimizedQuery,
		record.Digest, string(stats), record.CreatedAt.Format(timeFormat)); err != nil {
		return err
	}

	for i, r := range results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO search_results (search_id, position, url, payload) VALUES (?, ?, ?, ?)
		`, record.ID, i, r.URL, payloads[i]); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, s.maxEntries()); err != nil {
		return err
	}

	return tx.Commit()
}

// FindSearchByID retrieves a saved search with its results.
func (s *HistoryService) FindSearchByID(ctx context.Context, id string) (*locsearch.SearchRecord, error) {
	record, err := scanSearch(s.db.QueryRowContext(ctx, `
		SELECT id, query, fingerprint, language, optimized_query, digest, stats, created_at
		FROM searches
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, locsearch.Errorf(locsearch.ENOTFOUND, "search not found")
	}
	if err != nil {
		return nil, err
	}
	if record.Results, err = s.findResults(ctx, record.ID); err != nil {
		return nil, err
	}
	return record, nil
}

// FindSearches retrieves saved searches, newest first. A Query filter
// matches searches with the same fingerprint.
func (s *HistoryService) FindSearches(ctx context.Context, filter locsearch.HistoryFilter) ([]*locsearch.SearchRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, query, fingerprint, language, optimized_query, digest, stats, created_at FROM searches WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Query != nil {
		query.WriteString(" AND fingerprint = ?")
		args = append(args, Fingerprint(*filter.Query))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	var records []*locsearch.SearchRecord
	for rows.Next() {
		record, err := scanSearch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Results are loaded after the cursor is closed; the pool has a
	// single connection.
	for _, record := range records {
		if record.Results, err = s.findResults(ctx, record.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// DeleteSearch removes one saved search.
func (s *HistoryService) DeleteSearch(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM searches WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return locsearch.Errorf(locsearch.ENOTFOUND, "search not found")
	}
	return nil
}

// ClearSearches removes every saved search.
func (s *HistoryService) ClearSearches(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM searches")
	return err
}

func (s *HistoryService) findResults(ctx context.Context, searchID string) ([]*locsearch.ExtractedResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM search_results WHERE search_id = ? ORDER BY position
	`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*locsearch.ExtractedResult{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r locsearch.ExtractedResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

func (s *HistoryService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *HistoryService) maxEntries() int {
	if s.MaxEntries > 0 {
		return s.MaxEntries
	}
	return locsearch.MaxHistoryEntries
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(row scanner) (*locsearch.SearchRecord, error) {
	var record locsearch.SearchRecord
	var stats, createdAt string
	if err := row.Scan(&record.ID, &record.Query, &record.Fingerprint, &record.Language,
		&record.OptimizedQuery, &record.Digest, &stats, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stats), &record.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	var err error
	if record.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &record, nil
}
