// Package app wires the workspace store, its backing storage and the
// services shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"

	"github.com/dafibh/fintrack/fintrack-backend/internal/config"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/observability"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/file"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/postgres"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/storage"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/workspace"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// App holds the loaded workspace and every service built on it
type App struct {
	Config  *config.Config
	Store   *workspace.Store
	Metrics *observability.Metrics
	Hub     *websocket.Hub
	Backups domain.BackupRepository // nil when S3 is not configured

	Loans         *service.LoanService
	Finance       *service.FinanceService
	Dashboard     *service.DashboardService
	Notifications *service.NotificationService
	Transfer      *service.TransferService
	Sync          *service.SyncService

	closers []func()
}

// New opens the configured store, loads the workspace and builds the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: observability.NewMetrics(),
		Hub:     websocket.NewHub(),
	}

	blobs, err := a.openBlobStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.S3.Enabled() {
		backups, err := storage.NewS3BackupRepository(ctx, cfg.S3)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create S3 backup repository: %w", err)
		}
		a.Backups = backups
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 backups enabled")
	}

	a.Store = workspace.NewStore(blobs, workspace.WithRecorder(a.Metrics))
	if err := a.Store.Load(ctx); err != nil {
		// The loaded state is usable; cleaned collections are retried later.
		log.Warn().Err(err).Msg("Failed to save cleaned collections after load")
	}
	if q := a.Store.Quarantine(); len(q) > 0 {
		log.Warn().Int("records", len(q)).Msg("Invalid records were dropped while loading")
	}

	limits := domain.LoanLimits{MaxMonths: cfg.MaxLoanMonths, MaxAmount: cfg.MaxLoanAmount}
	a.Loans = service.NewLoanService(a.Store, limits, a.Hub, a.Metrics)
	a.Finance = service.NewFinanceService(a.Store)
	a.Dashboard = service.NewDashboardService(a.Store)
	a.Notifications = service.NewNotificationService(a.Store, cfg.Currency, a.Hub, a.Metrics)
	a.Transfer = service.NewTransferService(a.Store, a.Backups, a.Hub)
	a.Sync = service.NewSyncService(a.Store, a.Backups, a.Hub)

	return a, nil
}

func (a *App) openBlobStore(ctx context.Context) (domain.BlobStore, error) {
	switch a.Config.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := pgxpool.New(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := postgres.NewCollectionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("Connected to database")
		return repo, nil
	case config.StoreBackendMemory:
		log.Warn().Msg("Using in-memory store, data is lost on exit")
		return memory.NewBlobStore(), nil
	default:
		store, err := file.NewBlobStore(a.Config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		log.Info().Str("dir", a.Config.DataDir).Msg("Using file store")
		return store, nil
	}
}

// Close releases the storage connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
