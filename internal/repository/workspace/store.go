package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Recorder receives store level counters. *observability.Metrics implements it.
type Recorder interface {
	RecordQuarantined(collection string, n int)
	RecordPersistenceFailure(collection string)
}

var _ domain.Workspace = (*Store)(nil)

// Store owns the single working set and serializes every access to it with
// one lock. Each collection is persisted as its own blob.
type Store struct {
	blobs      domain.BlobStore
	state      *domain.State
	quarantine []domain.QuarantinedRecord
	metrics    Recorder
	now        func() time.Time
	mu         sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder reports quarantines and save failures to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// WithClock overrides time.Now for pending-change timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store with an empty state. Call Load to read persisted data.
func NewStore(blobs domain.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		state: domain.NewState(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every collection. A collection that cannot be read or parsed
// falls back to its default; records failing strict decoding are quarantined
// and the cleaned collection is saved back. The returned error only reports
// a failed re-save; the loaded state is usable either way.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.NewState()
	state.Online = s.state.Online
	s.quarantine = nil

	for _, c := range domain.Collections {
		raw, err := s.blobs.Load(ctx, string(c))
		if err != nil {
			if !errors.Is(err, domain.ErrBlobNotFound) {
				log.Warn().Err(err).Str("collection", string(c)).Msg("Failed to read collection, using default")
			}
			continue
		}

		bad, err := state.DecodeCollection(c, raw)
		if err != nil {
			state.Reset(c)
			log.Warn().Err(err).Str("collection", string(c)).Msg("Failed to parse collection, using default")
			continue
		}
		if len(bad) > 0 {
			for _, rec := range bad {
				log.Warn().
					Str("collection", string(c)).
					Int("index", rec.Index).
					Str("reason", rec.Reason).
					Msg("Dropped invalid record")
			}
			s.quarantine = append(s.quarantine, bad...)
			s.record(func(r Recorder) { r.RecordQuarantined(string(c), len(bad)) })
			state.Touch(c)
		}
	}

	s.state = state
	return s.saveDirty(ctx)
}

// View runs fn with exclusive access to the state. fn must not modify it.
func (s *Store) View(ctx context.Context, fn func(*domain.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Update runs fn with exclusive access and then saves the collections fn
// touched. While offline a full snapshot is also queued as a pending change.
// A save failure keeps the in-memory changes and their dirty marks so that
// a later Update or Retry writes them.
func (s *Store) Update(ctx context.Context, fn func(*domain.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}
	if !s.state.Online && s.touchedData() {
		if err := s.state.QueuePendingChange(s.now()); err != nil {
			log.Error().Err(err).Msg("Failed to queue pending change")
		}
	}
	return s.saveDirty(ctx)
}

// Retry saves collections left dirty by earlier failures.
func (s *Store) Retry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveDirty(ctx)
}

// Pending returns the collections that still need saving.
func (s *Store) Pending() []domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Dirty()
}

// Quarantine returns the records dropped by the last Load.
func (s *Store) Quarantine() []domain.QuarantinedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.QuarantinedRecord(nil), s.quarantine...)
}

func (s *Store) touchedData() bool {
	for _, c := range s.state.Dirty() {
		if c != domain.CollectionPendingChanges {
			return true
		}
	}
	return false
}

func (s *Store) saveDirty(ctx context.Context) error {
	var errs []error
	for _, c := range s.state.Dirty() {
		data, err := s.state.EncodeCollection(c)
		if err == nil {
			err = s.blobs.Save(ctx, string(c), data)
		}
		if err != nil {
			log.Error().Err(err).Str("collection", string(c)).Msg("Failed to save collection")
			s.record(func(r Recorder) { r.RecordPersistenceFailure(string(c)) })
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		s.state.ClearDirty(c)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, errors.Join(errs...))
	}
	return nil
}

func (s *Store) record(fn func(Recorder)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}
