package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scankeeper/internal/client/config"
	"github.com/dmitrijs2005/scankeeper/internal/common"
)

func TestScanCommand(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "upi://pay?pa=bob@bank&pn=Bob&am=100\n\n", config.S3{})

	require.NoError(t, app.Scan(ctx, nil))
	s := out.String()
	require.Contains(t, s, "Type: UPI Payment")
	require.Contains(t, s, "UPI ID:")
	require.Contains(t, s, "bob@bank")
	require.Contains(t, s, "Amount:")
	require.Contains(t, s, "100.00")
	require.Contains(t, s, "1. Pay")

	items, err := app.history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestScanCommand_SymbologyAndDuplicate(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "4006381333931\n\n4006381333931\n\n", config.S3{})

	require.NoError(t, app.Scan(ctx, []string{"EAN-13"}))
	require.Contains(t, out.String(), "EAN-13")
	require.Contains(t, out.String(), "Search Product")

	out.Reset()
	require.NoError(t, app.Scan(ctx, []string{"ean13"}))
	require.Contains(t, out.String(), "not recorded again")
}

func TestScanCommand_BadSymbology(t *testing.T) {
	app, _ := newTestApp(t, "", config.S3{})
	require.ErrorContains(t, app.Scan(context.Background(), []string{"hologram"}), "unknown symbology")
}

func TestScanCommand_EOF(t *testing.T) {
	app, _ := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Scan(context.Background(), nil))
}

func TestGenerateCommand_WiFi(t *testing.T) {
	ctx := context.Background()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("pa;ss"), nil }

	// ssid, encryption (default), hidden; the password comes from readPassword.
	app, out := newTestApp(t, "home\n\nfalse\n", config.S3{})

	require.NoError(t, app.Generate(ctx, []string{"wifi"}))
	s := out.String()
	require.Contains(t, s, "Network Name (required)")
	require.Contains(t, s, "Security (WPA/WEP/None, default WPA)")
	require.Contains(t, s, `WIFI:S:home;T:WPA;P:pa\;ss;H:false;;`)
	require.Contains(t, s, "Connect to Network")
}

func TestGenerateCommand_Errors(t *testing.T) {
	ctx := context.Background()

	app, _ := newTestApp(t, "", config.S3{})
	require.ErrorContains(t, app.Generate(ctx, nil), "usage")
	require.ErrorContains(t, app.Generate(ctx, []string{"fax"}), "unknown kind")

	app, _ = newTestApp(t, "95\n10\n", config.S3{})
	require.ErrorContains(t, app.Generate(ctx, []string{"geo"}), "latitude")

	items, err := app.history.List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestKindsCommand(t *testing.T) {
	app, out := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Kinds(context.Background()))
	require.Contains(t, out.String(), "wifi")
	require.Contains(t, out.String(), "UPI Payment")
}

func TestHistoryShowDelete(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "TEL:+1 555 0100\n\nhello\n\n", config.S3{})

	require.NoError(t, app.History(ctx, nil))
	require.Contains(t, out.String(), "History is empty")

	require.NoError(t, app.Scan(ctx, nil))
	require.NoError(t, app.Scan(ctx, nil))

	out.Reset()
	require.NoError(t, app.History(ctx, []string{"1"}))
	s := out.String()
	require.Contains(t, s, "hello")
	require.NotContains(t, s, "TEL:")

	items, err := app.history.List(ctx, 0)
	require.NoError(t, err)
	phone := items[1]

	out.Reset()
	require.NoError(t, app.Show(ctx, []string{phone.ID.String()[:8]}))
	require.Contains(t, out.String(), "Type: Phone")
	require.Contains(t, out.String(), "tel:+15550100")

	require.NoError(t, app.Delete(ctx, []string{phone.ID.String()}))
	err = app.Show(ctx, []string{phone.ID.String()})
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorContains(t, app.History(ctx, []string{"zero"}), "not a positive number")
	require.Error(t, app.Show(ctx, nil))
	require.ErrorIs(t, app.Delete(ctx, []string{"ffffffff"}), common.ErrorNotFound)
}

func TestClearCommand(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "a\n\nno\nb\n\ny\n", config.S3{})

	require.NoError(t, app.Scan(ctx, nil))
	require.NoError(t, app.Clear(ctx))
	items, err := app.history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, app.Scan(ctx, nil))
	require.NoError(t, app.Clear(ctx))
	require.Contains(t, out.String(), "Removed 2 items")
}

func TestSyncCommand_Offline(t *testing.T) {
	app, out := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Sync(context.Background()))
	require.Contains(t, out.String(), "Offline: sync skipped")
}

func TestSyncCommand_OnlineWithoutClient(t *testing.T) {
	app, _ := newTestApp(t, "", config.S3{})
	app.mode = ModeOnline
	require.ErrorIs(t, app.Sync(context.Background()), common.ErrorOffline)
}

func TestPullCommand_Offline(t *testing.T) {
	app, out := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Pull(context.Background()))
	require.Contains(t, out.String(), "Offline: pull skipped")
}

func TestPullCommand_OnlineWithoutClient(t *testing.T) {
	app, _ := newTestApp(t, "", config.S3{})
	app.mode = ModeOnline
	require.ErrorIs(t, app.Pull(context.Background()), common.ErrorOffline)
}

func TestStatusCommand(t *testing.T) {
	ctx := context.Background()

	app, out := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Status(ctx))
	require.Equal(t, "Mode: offline\nLast sync: never\nExport: not configured\n", out.String())

	app, out = newTestApp(t, "", config.S3{Bucket: "b"})
	require.NoError(t, app.Status(ctx))
	require.Contains(t, out.String(), "Last export: never\n")
}

func TestExportCommand_NotConfigured(t *testing.T) {
	app, out := newTestApp(t, "", config.S3{})
	require.NoError(t, app.Export(context.Background()))
	require.Contains(t, out.String(), "not configured")
}

func TestPreview(t *testing.T) {
	require.Equal(t, "a ⏎ b", preview("a\nb"))
	long := "0123456789012345678901234567890123456789XYZ"
	got := preview(long)
	require.Equal(t, "012345678901234567890123456789012345678…", got)
}
