package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, ok, err := r.Get(ctx, KeyLastExportKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, KeyLastExportKey, "old"))
	require.NoError(t, r.Set(ctx, KeyLastExportKey, "new"))

	v, ok, err := r.Get(ctx, KeyLastExportKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestListAndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", "1"))
	require.NoError(t, r.Set(ctx, "b", "2"))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))

	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, m)
}

func TestTimeValues(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, ok, err := r.GetTime(ctx, KeyLastSyncAt)
	require.NoError(t, err)
	assert.False(t, ok)

	want := time.Date(2025, 6, 1, 8, 30, 0, 123, time.FixedZone("X", -7200))
	require.NoError(t, r.SetTime(ctx, KeyLastSyncAt, want))

	got, ok, err := r.GetTime(ctx, KeyLastSyncAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, want.Equal(got))

	require.NoError(t, r.Set(ctx, KeyLastSyncAt, "yesterday"))
	_, _, err = r.GetTime(ctx, KeyLastSyncAt)
	assert.Error(t, err)
}
