package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/client/client"
	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/client/repositories/history"
	"github.com/dmitrijs2005/scankeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/dbx"
	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

// Entry is a stored item together with its rebuilt classification.
type Entry struct {
	Item    *models.HistoryItem
	Result  payload.Result
	Actions []actions.Action
}

type HistoryService interface {
	// Record stores res unless it repeats the most recent item. It reports
	// whether a new item was written; the returned item is the stored one
	// in both cases.
	Record(ctx context.Context, res payload.Result, source models.Source) (*models.HistoryItem, bool, error)
	List(ctx context.Context, limit int) ([]*models.HistoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) (int64, error)

	// Sync pushes unsynced items to the server and returns how many the
	// server accepted. It fails with common.ErrorOffline without a client.
	Sync(ctx context.Context) (int, error)
	LastSync(ctx context.Context) (time.Time, bool, error)

	// Pull stores server items this device does not have yet, for example
	// after a reinstall, and returns how many were added.
	Pull(ctx context.Context) (int, error)
}

type historyService struct {
	db       *sql.DB
	history  history.Repository
	metadata metadata.Repository
	client   client.Client
	limit    int
	logger   logging.Logger
	now      func() time.Time
}

// NewHistoryService keeps at most limit items; limit <= 0 disables
// trimming. c may be nil when the client runs without a server.
func NewHistoryService(db *sql.DB, repos *client.Repositories, c client.Client, limit int, logger logging.Logger) HistoryService {
	return &historyService{
		db:       db,
		history:  repos.History,
		metadata: repos.Metadata,
		client:   c,
		limit:    limit,
		logger:   logger.With("module", "history"),
		now:      time.Now,
	}
}

func (s *historyService) Record(ctx context.Context, res payload.Result, source models.Source) (*models.HistoryItem, bool, error) {
	var (
		stored  *models.HistoryItem
		written bool
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.history.WithDB(tx)

		latest, err := repo.Latest(ctx)
		switch {
		case err == nil && latest.RawText == res.RawText:
			stored = latest
			return nil
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return err
		}

		item := models.NewHistoryItem(res, source, s.now())
		if err := repo.Insert(ctx, item); err != nil {
			return err
		}
		if s.limit > 0 {
			if _, err := repo.Trim(ctx, s.limit); err != nil {
				return err
			}
		}
		stored, written = item, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("record history: %w", err)
	}

	if written {
		s.logger.Debug(ctx, "history item recorded", "id", stored.ID, "kind", stored.Kind, "source", stored.Source)
	}
	return stored, written, nil
}

func (s *historyService) List(ctx context.Context, limit int) ([]*models.HistoryItem, error) {
	items, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}

func (s *historyService) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	item, err := s.history.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get history item: %w", err)
	}
	res := payload.ClassifyScan(item.RawText, item.Symbology)
	return &Entry{Item: item, Result: res, Actions: actions.Select(res)}, nil
}

func (s *historyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.history.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	return nil
}

func (s *historyService) Clear(ctx context.Context) (int64, error) {
	n, err := s.history.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info(ctx, "history cleared", "removed", n)
	return n, nil
}

func (s *historyService) Sync(ctx context.Context) (int, error) {
	if s.client == nil {
		return 0, common.ErrorOffline
	}

	total := 0
	for {
		pending, err := s.history.ListPending(ctx, rpc.MaxPushBatch)
		if err != nil {
			return total, fmt.Errorf("list pending: %w", err)
		}
		if len(pending) == 0 {
			break
		}

		wire := make([]rpc.HistoryItem, 0, len(pending))
		for _, it := range pending {
			wire = append(wire, it.ToWire())
		}

		accepted, err := s.client.PushHistory(ctx, wire)
		if err != nil {
			return total, fmt.Errorf("push history: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(accepted))
		for _, a := range accepted {
			id, err := uuid.Parse(a)
			if err != nil {
				s.logger.Warn(ctx, "server accepted unknown id", "id", a)
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			// The server rejected the whole batch.
			break
		}
		if err := s.history.MarkSynced(ctx, ids); err != nil {
			return total, fmt.Errorf("mark synced: %w", err)
		}
		total += len(ids)

		if len(pending) < rpc.MaxPushBatch {
			break
		}
	}

	if err := s.metadata.SetTime(ctx, metadata.KeyLastSyncAt, s.now()); err != nil {
		return total, fmt.Errorf("save sync time: %w", err)
	}
	s.logger.Info(ctx, "history synced", "pushed", total)
	return total, nil
}

func (s *historyService) LastSync(ctx context.Context) (time.Time, bool, error) {
	return s.metadata.GetTime(ctx, metadata.KeyLastSyncAt)
}

func (s *historyService) Pull(ctx context.Context) (int, error) {
	if s.client == nil {
		return 0, common.ErrorOffline
	}

	// 0 lets the server apply its own cap.
	remote, err := s.client.ListHistory(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("list remote history: %w", err)
	}

	added := 0
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.history.WithDB(tx)
		for _, w := range remote {
			item, err := models.FromWire(w)
			if err != nil {
				s.logger.Warn(ctx, "skipping remote history item", "id", w.ID, "err", err)
				continue
			}

			_, err = repo.GetByID(ctx, item.ID)
			switch {
			case err == nil:
				continue
			case !errors.Is(err, common.ErrorNotFound):
				return err
			}
			if err := repo.Insert(ctx, item); err != nil {
				return err
			}
			added++
		}
		if added > 0 && s.limit > 0 {
			if _, err := repo.Trim(ctx, s.limit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("pull history: %w", err)
	}

	s.logger.Info(ctx, "history pulled", "received", len(remote), "added", added)
	return added, nil
}
