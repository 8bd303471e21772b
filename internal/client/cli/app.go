package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/scankeeper/internal/client/client"
	"github.com/dmitrijs2005/scankeeper/internal/client/config"
	"github.com/dmitrijs2005/scankeeper/internal/client/services"
	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger is the part of the server client the online watcher needs.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     client.Client
	codes   *services.CodeService
	history services.HistoryService
	export  *services.ExportService
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "err", err)
		return nil, err
	}

	api, err := client.NewScanKeeperClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := client.NewRepositories(db)
	hs := services.NewHistoryService(db, repos, api, c.HistoryLimit, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		api:     api,
		codes:   services.NewCodeService(payload.Default(), hs),
		history: hs,
		export:  services.NewExportService(repos.History, repos.Metadata, c.S3, logger),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		mode:    ModeOffline,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// setMode reports whether the mode changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	}
	return changed
}

func (a *App) getStatus() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

// Close releases the server connection and the database.
func (a *App) Close() error {
	var err error
	if a.api != nil {
		err = a.api.Close()
	}
	if a.db != nil {
		if cerr := a.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run starts the online watcher and blocks in the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.api, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Welcome to ScanKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher pings p every interval until ctx is done. The
// first check runs immediately.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, p pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.checkOnline(ctx, p)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context, p pinger) {
	if err := p.Ping(ctx); err != nil {
		if a.setMode(ModeOffline) {
			a.logger.Debug(ctx, "server unreachable", "err", err)
		}
		return
	}
	a.setMode(ModeOnline)
}
