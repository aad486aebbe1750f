package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// backupURLExpiry is how long a backup download link stays valid.
const backupURLExpiry = 15 * time.Minute

// TransferService exports, imports and backs up the workspace
type TransferService struct {
	store     domain.Workspace
	backups   domain.BackupRepository
	publisher websocket.EventPublisher
	clock     Clock
}

// NewTransferService creates a new TransferService. backups may be nil when
// backup storage is not configured.
func NewTransferService(store domain.Workspace, backups domain.BackupRepository, publisher websocket.EventPublisher) *TransferService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransferService{
		store:     store,
		backups:   backups,
		publisher: publisher,
		clock:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *TransferService) SetClock(clock Clock) {
	s.clock = clock
}

// ExportJSON returns every exportable collection as one JSON document.
func (s *TransferService) ExportJSON(ctx context.Context) ([]byte, error) {
	var doc domain.Document
	err := s.store.View(ctx, func(st *domain.State) error {
		doc = st.Document()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportCSV flattens investments and loans into Type,Name,Value rows.
// Loans are listed with their principal.
func (s *TransferService) ExportCSV(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	err := s.store.View(ctx, func(st *domain.State) error {
		if err := w.Write([]string{"Type", "Name", "Value"}); err != nil {
			return err
		}
		for _, inv := range st.Investments {
			if err := w.Write([]string{"Asset", inv.Name, inv.Value.String()}); err != nil {
				return err
			}
		}
		for _, loan := range st.Loans {
			if err := w.Write([]string{"Debt", loan.Name, loan.Principal.String()}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportResult names the collections an import replaced.
type ImportResult struct {
	Collections []domain.Collection `json:"collections"`
}

// Import overwrites every collection present in the document and leaves
// absent ones alone. The whole import is rejected when any present
// collection fails to parse or holds a record that fails validation.
func (s *TransferService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: document is not a JSON object: %v", domain.ErrImportRejected, err)
	}

	present := make([]domain.Collection, 0, len(doc))
	scratch := domain.NewState()
	for _, c := range domain.Collections {
		if c == domain.CollectionPendingChanges {
			continue
		}
		raw, ok := doc[string(c)]
		if !ok {
			continue
		}
		bad, err := scratch.DecodeCollection(c, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImportRejected, err)
		}
		if len(bad) > 0 {
			return nil, fmt.Errorf("%w: %s record %d: %s", domain.ErrImportRejected, c, bad[0].Index, bad[0].Reason)
		}
		present = append(present, c)
	}

	err := s.store.Update(ctx, func(st *domain.State) error {
		for _, c := range present {
			if _, err := st.DecodeCollection(c, doc[string(c)]); err != nil {
				return err
			}
			st.Touch(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("collections", len(present)).Msg("Workspace imported")
	result := &ImportResult{Collections: present}
	s.publisher.Publish(websocket.WorkspaceImported(result))
	return result, nil
}

// BackupResult locates an uploaded export.
type BackupResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Backup uploads a JSON export and returns a time-limited download link.
func (s *TransferService) Backup(ctx context.Context) (*BackupResult, error) {
	if s.backups == nil {
		return nil, domain.ErrBackupDisabled
	}
	data, err := s.ExportJSON(ctx)
	if err != nil {
		return nil, err
	}
	key := domain.BackupKey(s.clock.now())
	if err := s.backups.Upload(ctx, key, data); err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}
	url, err := s.backups.DownloadURL(ctx, key, backupURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign backup: %w", err)
	}
	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Backup uploaded")
	return &BackupResult{Key: key, URL: url}, nil
}
