// Package metadata stores small client state values (last sync time, last
// export key) in the local database.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyLastSyncAt    = "last_sync_at"
	KeyLastExportKey = "last_export_key"
)

type Repository interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)

	GetTime(ctx context.Context, key string) (time.Time, bool, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
