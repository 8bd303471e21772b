package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/dbx"
	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
	"github.com/dmitrijs2005/scankeeper/internal/server/metrics"
	"github.com/dmitrijs2005/scankeeper/internal/server/models"
	"github.com/dmitrijs2005/scankeeper/internal/server/repositories/repomanager"
)

// HistoryService keeps the history each device pushes. Push reports the
// ids it stored, including ones the device had pushed before. Malformed
// items are skipped, not failed.
type HistoryService interface {
	Push(ctx context.Context, deviceID string, items []rpc.HistoryItem) ([]string, error)
	List(ctx context.Context, deviceID string, limit int) ([]rpc.HistoryItem, error)
}

type historyService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	listLimit int
	logger    logging.Logger
	now       func() time.Time
}

func NewHistoryService(db *sql.DB, repos repomanager.RepositoryManager, listLimit int, logger logging.Logger) HistoryService {
	return &historyService{
		db:        db,
		repos:     repos,
		listLimit: listLimit,
		logger:    logger.With("module", "history"),
		now:       time.Now,
	}
}

func (s *historyService) Push(ctx context.Context, deviceID string, items []rpc.HistoryItem) ([]string, error) {
	if deviceID == "" {
		return nil, common.ErrorUnauthorized
	}

	var rows []*models.HistoryItem
	for _, it := range items {
		row, reason := s.toModel(deviceID, it)
		if row == nil {
			s.logger.Warn(ctx, "skipping history item", "device", deviceID, "id", it.ID, "reason", reason)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.History(tx)
		for _, row := range rows {
			if err := repo.Upsert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "push failed", "device", deviceID, "error", err)
		return nil, err
	}

	accepted := make([]string, 0, len(rows))
	for _, row := range rows {
		accepted = append(accepted, row.ID)
	}
	metrics.ObservePushed(len(accepted))
	s.logger.Info(ctx, "history pushed", "device", deviceID, "accepted", len(accepted), "skipped", len(items)-len(accepted))
	return accepted, nil
}

// toModel returns nil and the reason when it is not a storable history item.
func (s *historyService) toModel(deviceID string, it rpc.HistoryItem) (*models.HistoryItem, string) {
	id, err := uuid.Parse(it.ID)
	if err != nil {
		return nil, "bad id"
	}
	if strings.TrimSpace(it.RawText) == "" {
		return nil, "empty raw text"
	}
	kind, ok := payload.ParseKind(it.Kind)
	if !ok {
		return nil, "unknown kind"
	}
	if it.Source != "scanned" && it.Source != "generated" {
		return nil, "unknown source"
	}

	display := it.DisplayType
	if display == "" {
		display = kind.DisplayType()
	}
	created := it.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	return &models.HistoryItem{
		DeviceID:    deviceID,
		ID:          id.String(),
		RawText:     it.RawText,
		DisplayType: display,
		Kind:        string(kind),
		Symbology:   it.Symbology,
		Source:      it.Source,
		CreatedAt:   created.UTC(),
	}, ""
}

func (s *historyService) List(ctx context.Context, deviceID string, limit int) ([]rpc.HistoryItem, error) {
	if deviceID == "" {
		return nil, common.ErrorUnauthorized
	}
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	rows, err := s.repos.History(s.db).ListByDevice(ctx, deviceID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]rpc.HistoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, rpc.HistoryItem{
			ID:          r.ID,
			RawText:     r.RawText,
			DisplayType: r.DisplayType,
			Kind:        r.Kind,
			Symbology:   r.Symbology,
			Source:      r.Source,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}
