package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

func TestRecord_SkipsConsecutiveDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestHistory(t, nil, 10)

	first, written, err := svc.Record(ctx, payload.Classify("hello"), models.SourceScanned)
	require.NoError(t, err)
	require.True(t, written)

	again, written, err := svc.Record(ctx, payload.Classify("hello"), models.SourceScanned)
	require.NoError(t, err)
	require.False(t, written)
	require.Equal(t, first.ID, again.ID)

	_, written, err = svc.Record(ctx, payload.Classify("TEL:123"), models.SourceGenerated)
	require.NoError(t, err)
	require.True(t, written)

	// Not consecutive any more.
	_, written, err = svc.Record(ctx, payload.Classify("hello"), models.SourceScanned)
	require.NoError(t, err)
	require.True(t, written)

	items, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "hello", items[0].RawText)
	require.Equal(t, models.SourceGenerated, items[1].Source)
	require.Equal(t, "Phone", items[1].DisplayType)
}

func TestRecord_TrimsToLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestHistory(t, nil, 2)

	for _, s := range []string{"a", "b", "c", "d"} {
		_, _, err := svc.Record(ctx, payload.Classify(s), models.SourceScanned)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "d", items[0].RawText)
	require.Equal(t, "c", items[1].RawText)
}

func TestGet_RebuildsClassification(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestHistory(t, nil, 0)

	item, _, err := svc.Record(ctx, payload.ClassifyScan("geo:1.5,2.5", payload.SymbologyQR), models.SourceScanned)
	require.NoError(t, err)

	e, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, payload.KindGeolocation, e.Result.Kind)
	require.Equal(t, payload.SymbologyQR, e.Result.Symbology)
	require.Len(t, e.Actions, 3)
	require.Equal(t, actions.TypeOpenMap, e.Actions[0].Type)
}

func TestGetDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestHistory(t, nil, 0)

	_, err := svc.Get(ctx, uuid.New())
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, svc.Delete(ctx, uuid.New()), common.ErrorNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestHistory(t, nil, 0)

	a, _, err := svc.Record(ctx, payload.Classify("a"), models.SourceScanned)
	require.NoError(t, err)
	_, _, err = svc.Record(ctx, payload.Classify("b"), models.SourceScanned)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	n, err := svc.Clear(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSync_Offline(t *testing.T) {
	svc, _ := newTestHistory(t, nil, 0)
	_, err := svc.Sync(context.Background())
	require.ErrorIs(t, err, common.ErrorOffline)
}

func TestSync_PushesPendingAndMarksSynced(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc, repos := newTestHistory(t, fc, 0)

	for _, s := range []string{"a", "b", "c"} {
		_, _, err := svc.Record(ctx, payload.Classify(s), models.SourceScanned)
		require.NoError(t, err)
	}

	n, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, fc.pushed, 1)
	require.Equal(t, "a", fc.pushed[0][0].RawText)

	pending, err := repos.History.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	at, ok, err := svc.LastSync(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, at.IsZero())

	// Nothing left: no push, still succeeds.
	n, err = svc.Sync(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, fc.pushed, 1)
}

func TestSync_BatchesLargeHistories(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc, _ := newTestHistory(t, fc, 0)

	total := rpc.MaxPushBatch + 3
	for i := 0; i < total; i++ {
		_, _, err := svc.Record(ctx, payload.Classify(uuid.NewString()), models.SourceScanned)
		require.NoError(t, err)
	}

	n, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, total, n)
	require.Len(t, fc.pushed, 2)
	require.Len(t, fc.pushed[0], rpc.MaxPushBatch)
	require.Len(t, fc.pushed[1], 3)
}

func TestSync_PartialAcceptKeepsRestPending(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{accept: func(items []rpc.HistoryItem) []string {
		return []string{items[0].ID, "not-a-uuid"}
	}}
	svc, repos := newTestHistory(t, fc, 0)

	for _, s := range []string{"a", "b"} {
		_, _, err := svc.Record(ctx, payload.Classify(s), models.SourceScanned)
		require.NoError(t, err)
	}

	n, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	pending, err := repos.History.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "b", pending[0].RawText)
}

func TestSync_PushError(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{pushErr: errBoom}
	svc, repos := newTestHistory(t, fc, 0)

	_, _, err := svc.Record(ctx, payload.Classify("a"), models.SourceScanned)
	require.NoError(t, err)

	_, err = svc.Sync(ctx)
	require.ErrorIs(t, err, errBoom)

	_, ok, err := repos.Metadata.Get(ctx, metadata.KeyLastSyncAt)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPull_Offline(t *testing.T) {
	svc, _ := newTestHistory(t, nil, 0)
	_, err := svc.Pull(context.Background())
	require.ErrorIs(t, err, common.ErrorOffline)
}

func TestPull_AddsMissingItems(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc, repos := newTestHistory(t, fc, 0)

	local, _, err := svc.Record(ctx, payload.Classify("hello"), models.SourceScanned)
	require.NoError(t, err)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	restored := uuid.New()
	fc.remote = []rpc.HistoryItem{
		local.ToWire(),
		{ID: restored.String(), RawText: "TEL:12345", Kind: "phone", Symbology: "qr", Source: "generated", CreatedAt: created},
		{ID: "not-a-uuid", RawText: "x", Kind: "text", Source: "scanned"},
		{ID: uuid.NewString(), RawText: "y", Kind: "hologram", Source: "scanned"},
	}

	n, err := svc.Pull(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 0, fc.listLimit)

	got, err := repos.History.GetByID(ctx, restored)
	require.NoError(t, err)
	require.Equal(t, "TEL:12345", got.RawText)
	require.Equal(t, "Phone", got.DisplayType)
	require.Equal(t, payload.SymbologyQR, got.Symbology)
	require.Equal(t, models.SourceGenerated, got.Source)
	require.True(t, got.CreatedAt.Equal(created))
	require.True(t, got.Synced)

	pending, err := repos.History.ListPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, local.ID, pending[0].ID)

	n, err = svc.Pull(ctx)
	require.NoError(t, err)
	require.Zero(t, n, "second pull adds nothing")
}

func TestPull_TrimsToLimit(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc, _ := newTestHistory(t, fc, 2)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, raw := range []string{"a", "b", "c"} {
		fc.remote = append(fc.remote, rpc.HistoryItem{
			ID: uuid.NewString(), RawText: raw, Kind: "text", Source: "scanned", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	n, err := svc.Pull(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	items, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "c", items[0].RawText)
}

func TestPull_ListError(t *testing.T) {
	svc, _ := newTestHistory(t, &fakeClient{listErr: errBoom}, 0)
	_, err := svc.Pull(context.Background())
	require.ErrorIs(t, err, errBoom)
}
