package history

import (
	"context"

	"github.com/dmitrijs2005/scankeeper/internal/server/models"
)

type Repository interface {
	// Upsert stores item unless the device already pushed it. Repeated
	// pushes are not an error.
	Upsert(ctx context.Context, item *models.HistoryItem) error

	// ListByDevice returns at most limit items of deviceID, newest first.
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]*models.HistoryItem, error)

	// DeleteByDevice removes every item of deviceID and reports how many
	// were removed.
	DeleteByDevice(ctx context.Context, deviceID string) (int64, error)
}
