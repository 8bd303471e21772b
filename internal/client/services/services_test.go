package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scankeeper/internal/client/client"
	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

// fakeClient implements client.Client; unset methods panic.
type fakeClient struct {
	client.Client

	pushed  [][]rpc.HistoryItem
	accept  func(items []rpc.HistoryItem) []string
	pushErr error

	remote    []rpc.HistoryItem
	listErr   error
	listLimit int
}

func (f *fakeClient) ListHistory(ctx context.Context, limit int) ([]rpc.HistoryItem, error) {
	f.listLimit = limit
	return f.remote, f.listErr
}

func (f *fakeClient) PushHistory(ctx context.Context, items []rpc.HistoryItem) ([]string, error) {
	f.pushed = append(f.pushed, items)
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	if f.accept != nil {
		return f.accept(items), nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

func newTestDB(t *testing.T) (*sql.DB, *client.Repositories) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, client.NewRepositories(db)
}

// fixedClock returns successive instants one second apart.
func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestHistory(t *testing.T, c client.Client, limit int) (*historyService, *client.Repositories) {
	t.Helper()
	db, repos := newTestDB(t)
	svc := NewHistoryService(db, repos, c, limit, logging.Nop{}).(*historyService)
	svc.now = fixedClock()
	return svc, repos
}

var errBoom = errors.New("boom")
