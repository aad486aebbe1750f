package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SyncService tracks connectivity and flushes changes queued while offline
type SyncService struct {
	store     domain.Workspace
	backups   domain.BackupRepository
	publisher websocket.EventPublisher
	clock     Clock
}

// NewSyncService creates a new SyncService. Without backup storage a flush
// only drops the queued snapshots.
func NewSyncService(store domain.Workspace, backups domain.BackupRepository, publisher websocket.EventPublisher) *SyncService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &SyncService{
		store:     store,
		backups:   backups,
		publisher: publisher,
		clock:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *SyncService) SetClock(clock Clock) {
	s.clock = clock
}

// SyncStatus reports connectivity and the offline queue.
type SyncStatus struct {
	Online  bool `json:"online"`
	Pending int  `json:"pending"`
	Synced  int  `json:"synced"`
}

// Status returns the current connectivity and queue length.
func (s *SyncService) Status(ctx context.Context) (*SyncStatus, error) {
	status := &SyncStatus{}
	err := s.store.View(ctx, func(st *domain.State) error {
		status.Online = st.Online
		status.Pending = st.UnsyncedChanges()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// SetOnline records connectivity. Going online flushes the queue: the most
// recent snapshot wins and is uploaded as a backup when backup storage is
// configured, then every queued snapshot up to it is dropped. A failed
// upload leaves the queue intact.
func (s *SyncService) SetOnline(ctx context.Context, online bool) (*SyncStatus, error) {
	var queued []domain.PendingChange
	err := s.store.Update(ctx, func(st *domain.State) error {
		st.Online = online
		if online {
			for _, pc := range st.PendingChanges {
				if !pc.Synced {
					queued = append(queued, pc)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(queued) == 0 {
		return s.Status(ctx)
	}

	latest := queued[0]
	for _, pc := range queued[1:] {
		if !pc.Timestamp.Before(latest.Timestamp) {
			latest = pc
		}
	}
	if s.backups != nil {
		if err := s.backups.Upload(ctx, domain.BackupKey(latest.Timestamp), latest.Data); err != nil {
			return nil, fmt.Errorf("flush pending changes: %w", err)
		}
	}

	flushed := 0
	err = s.store.Update(ctx, func(st *domain.State) error {
		kept := make([]domain.PendingChange, 0, len(st.PendingChanges))
		for _, pc := range st.PendingChanges {
			if !pc.Synced && !pc.Timestamp.After(latest.Timestamp) {
				flushed++
				continue
			}
			kept = append(kept, pc)
		}
		st.PendingChanges = kept
		st.PrunePendingChanges(s.clock.now())
		st.Touch(domain.CollectionPendingChanges)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("changes", flushed).Msg("Pending changes synchronized")
	s.publisher.Publish(websocket.WorkspaceSynced(map[string]int{"synced": flushed}))

	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	status.Synced = flushed
	return status, nil
}
