package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/dbx"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) WithDB(db dbx.DBTX) Repository {
	return &SQLiteRepository{db: db}
}

const columns = `id, raw_text, display_type, kind, symbology, source, created_at, synced`

// created_at is kept as Unix nanoseconds so ordering is exact.
func (r *SQLiteRepository) Insert(ctx context.Context, h *models.HistoryItem) error {
	query := `INSERT INTO history (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID.String(), h.RawText, h.DisplayType, string(h.Kind), string(h.Symbology), string(h.Source), h.CreatedAt.UnixNano(), h.Synced)
	if err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.HistoryItem, error) {
	query := `SELECT ` + columns + ` FROM history ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*models.HistoryItem, error) {
	items, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.ErrorNotFound
	}
	return items[0], nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HistoryItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM history WHERE id = ?`, id.String())
	h, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return h, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) ListPending(ctx context.Context, limit int) ([]*models.HistoryItem, error) {
	query := `SELECT ` + columns + ` FROM history WHERE synced = 0 ORDER BY created_at, rowid`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	query := `UPDATE history SET synced = 1 WHERE id IN (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark history synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	query := `DELETE FROM history WHERE id NOT IN (
		SELECT id FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim history: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.HistoryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryItem
	for rows.Next() {
		h, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.HistoryItem, error) {
	var (
		h                     models.HistoryItem
		id, kind, sym, source string
		createdAt             int64
	)
	if err := s.Scan(&id, &h.RawText, &h.DisplayType, &kind, &sym, &source, &createdAt, &h.Synced); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt history id %q: %w", id, err)
	}
	h.ID = parsed
	h.Kind = payload.Kind(kind)
	h.Symbology = payload.Symbology(sym)
	h.Source = models.Source(source)
	h.CreatedAt = time.Unix(0, createdAt).UTC()
	return &h, nil
}
