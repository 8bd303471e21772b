// Package history provides the PostgreSQL-backed repository for device
// histories pushed by clients.
package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scankeeper/internal/dbx"
	"github.com/dmitrijs2005/scankeeper/internal/server/models"
)

// PostgresRepository implements history storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, item *models.HistoryItem) error {
	query := `
		INSERT INTO history (device_id, id, raw_text, display_type, kind, symbology, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (device_id, id) DO NOTHING;
	`
	_, err := r.db.ExecContext(ctx, query,
		item.DeviceID, item.ID, item.RawText, item.DisplayType, item.Kind, item.Symbology, item.Source, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByDevice(ctx context.Context, deviceID string, limit int) ([]*models.HistoryItem, error) {
	query := `
		SELECT device_id, id, raw_text, display_type, kind, symbology, source, created_at, received_at
		FROM history
		WHERE device_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryItem
	for rows.Next() {
		var item models.HistoryItem
		if err := rows.Scan(
			&item.DeviceID, &item.ID, &item.RawText, &item.DisplayType, &item.Kind,
			&item.Symbology, &item.Source, &item.CreatedAt, &item.ReceivedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByDevice(ctx context.Context, deviceID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
