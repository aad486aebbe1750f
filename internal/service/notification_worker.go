package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/rs/zerolog"
)

// Retrier re-saves collections whose earlier save failed. *workspace.Store implements it.
type Retrier interface {
	Retry(ctx context.Context) error
	Pending() []domain.Collection
}

// NotificationWorker is a background worker that periodically checks for due EMIs
type NotificationWorker struct {
	notifications *NotificationService
	retrier       Retrier
	logger        zerolog.Logger
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	stopOnce      sync.Once
	mu            sync.Mutex
	running       bool
}

// DefaultNotifyInterval is used when the configured interval is not positive.
const DefaultNotifyInterval = time.Hour

// NewNotificationWorker creates a new notification worker. retrier may be nil.
func NewNotificationWorker(notifications *NotificationService, retrier Retrier, logger zerolog.Logger, interval time.Duration) *NotificationWorker {
	if interval <= 0 {
		interval = DefaultNotifyInterval
	}

	return &NotificationWorker{
		notifications: notifications,
		retrier:       retrier,
		logger:        logger.With().Str("component", "notification_worker").Logger(),
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins the background checks
func (w *NotificationWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting notification worker")

	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		w.logger.Info().Msg("Stopping notification worker")
		close(w.stopCh)
	})
	<-w.doneCh
	w.logger.Info().Msg("Notification worker stopped")
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *NotificationWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// tick retries failed saves and then runs one notification check.
func (w *NotificationWorker) tick(ctx context.Context) {
	if w.retrier != nil {
		if pending := w.retrier.Pending(); len(pending) > 0 {
			if err := w.retrier.Retry(ctx); err != nil {
				w.logger.Warn().Err(err).Int("collections", len(pending)).Msg("Retrying failed saves did not succeed")
			} else {
				w.logger.Info().Int("collections", len(pending)).Msg("Saved collections left over from earlier failures")
			}
		}
	}

	start := time.Now()
	result, err := w.notifications.CheckForDueEMIs(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Notification check failed")
		return
	}
	w.logger.Debug().
		Int("created", len(result.Created)).
		Int("resolved", len(result.Resolved)).
		Dur("elapsed", time.Since(start)).
		Msg("Completed notification check")
}

// IsRunning returns whether the worker is currently running
func (w *NotificationWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
