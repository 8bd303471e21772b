package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scankeeper/internal/dbx"
	"github.com/dmitrijs2005/scankeeper/internal/server/models"
	"github.com/dmitrijs2005/scankeeper/internal/server/repositories/history"
)

var errBoom = errors.New("boom")

// memHistory is an in-memory history.Repository keyed by device and id.
type memHistory struct {
	mu        sync.Mutex
	rows      map[string]*models.HistoryItem
	upsertErr error
	listErr   error
	lastLimit int
}

func newMemHistory() *memHistory {
	return &memHistory{rows: map[string]*models.HistoryItem{}}
}

func (m *memHistory) Upsert(_ context.Context, item *models.HistoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	key := item.DeviceID + "/" + item.ID
	if _, ok := m.rows[key]; !ok {
		cp := *item
		m.rows[key] = &cp
	}
	return nil
}

func (m *memHistory) ListByDevice(_ context.Context, deviceID string, limit int) ([]*models.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.HistoryItem
	for _, r := range m.rows {
		if r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memHistory) DeleteByDevice(_ context.Context, deviceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, r := range m.rows {
		if r.DeviceID == deviceID {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	repo *memHistory
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) History(dbx.DBTX) history.Repository { return f.repo }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
