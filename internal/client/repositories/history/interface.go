// Package history persists the local scan/generate history.
package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/dbx"
)

// Repository stores history items, newest first.
type Repository interface {
	Insert(ctx context.Context, item *models.HistoryItem) error

	// List returns at most limit items, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*models.HistoryItem, error)

	// Latest returns the newest item, or common.ErrorNotFound.
	Latest(ctx context.Context) (*models.HistoryItem, error)

	// GetByID returns common.ErrorNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*models.HistoryItem, error)

	// DeleteByID returns common.ErrorNotFound for unknown ids.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Clear removes every item and reports how many were removed.
	Clear(ctx context.Context) (int64, error)

	// ListPending returns items not yet accepted by the server, oldest
	// first, at most limit of them.
	ListPending(ctx context.Context, limit int) ([]*models.HistoryItem, error)

	MarkSynced(ctx context.Context, ids []uuid.UUID) error

	// Trim keeps the newest keep items and deletes the rest.
	Trim(ctx context.Context, keep int) (int64, error)

	// WithDB returns a repository bound to db, typically a transaction.
	WithDB(db dbx.DBTX) Repository
}
