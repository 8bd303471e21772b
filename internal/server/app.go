// Package server wires the ScanKeeper server together: configuration,
// the Postgres history store, and the gRPC and HTTP endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/server/config"
	"github.com/dmitrijs2005/scankeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/scankeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scankeeper/internal/server/services"

	gs "github.com/dmitrijs2005/scankeeper/internal/server/grpc"
)

// Seams for tests.
var (
	openDB         = repomanager.OpenPostgres
	newRepoManager = func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() }
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	codes   *services.CodeService
	history services.HistoryService
}

// NewApp opens the database and applies migrations when a DSN is
// configured. Without one the server runs with history sync disabled.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger, codes: services.NewCodeService(nil)}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, history sync disabled")
		return app, nil
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app.db = db
	app.history = services.NewHistoryService(db, rm, c.HistoryListLimit, logger)
	return app, nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.codes, app.history, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.codes)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both endpoints until ctx is done or either one fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
