package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/locsearch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MustOpenDB opens an in-memory database and closes it with the test.
func MustOpenDB(tb testing.TB) *sqlite.DB {
	tb.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(tb, db.Open())
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		ctx := context.Background()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM searches").Scan(&n))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_results").Scan(&n))
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewDB("/nonexistent/path/db.sqlite").Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/history.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("reopens existing file", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/history.db"
		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		require.NoError(t, first.Close())

		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		require.NoError(t, second.Close())
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sqlite.Fingerprint("Paris  Weather"), sqlite.Fingerprint(" paris weather "))
	assert.NotEqual(t, sqlite.Fingerprint("paris weather"), sqlite.Fingerprint("lyon weather"))
	assert.Len(t, sqlite.Fingerprint("x"), 16)
}
