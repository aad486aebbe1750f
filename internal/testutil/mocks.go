package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
)

// MockBlobStore is an in-memory domain.BlobStore with failure injection
type MockBlobStore struct {
	*memory.BlobStore

	mu       sync.Mutex
	LoadErrs map[string]error
	SaveErrs map[string]error
	Saves    map[string]int
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		BlobStore: memory.NewBlobStore(),
		LoadErrs:  make(map[string]error),
		SaveErrs:  make(map[string]error),
		Saves:     make(map[string]int),
	}
}

// Seed stores raw data without counting it as a save
func (m *MockBlobStore) Seed(name, data string) {
	_ = m.BlobStore.Save(context.Background(), name, []byte(data))
}

// FailSave makes every save of name fail with err until cleared with nil
func (m *MockBlobStore) FailSave(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.SaveErrs, name)
		return
	}
	m.SaveErrs[name] = err
}

// Load returns the injected error for name, if any
func (m *MockBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	err := m.LoadErrs[name]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.BlobStore.Load(ctx, name)
}

// Save returns the injected error for name, if any, and counts successful saves
func (m *MockBlobStore) Save(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	err := m.SaveErrs[name]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if err := m.BlobStore.Save(ctx, name, data); err != nil {
		return err
	}
	m.mu.Lock()
	m.Saves[name]++
	m.mu.Unlock()
	return nil
}

// SaveCount returns how often name was saved successfully
func (m *MockBlobStore) SaveCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves[name]
}

// Raw returns the stored blob for name as a string ("" when missing)
func (m *MockBlobStore) Raw(name string) string {
	data, err := m.BlobStore.Load(context.Background(), name)
	if err != nil {
		return ""
	}
	return string(data)
}

// MockBackupRepository records uploads in memory
type MockBackupRepository struct {
	mu        sync.Mutex
	Uploads   map[string][]byte
	UploadErr error
}

// NewMockBackupRepository creates a new MockBackupRepository
func NewMockBackupRepository() *MockBackupRepository {
	return &MockBackupRepository{Uploads: make(map[string][]byte)}
}

func (m *MockBackupRepository) Upload(ctx context.Context, key string, data []byte) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockBackupRepository) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://backups.test/" + key, nil
}

// Keys returns the uploaded keys
func (m *MockBackupRepository) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Uploads))
	for k := range m.Uploads {
		keys = append(keys, k)
	}
	return keys
}

// MockEventPublisher captures published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns a copy of the captured events
func (m *MockEventPublisher) Published() []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]websocket.Event(nil), m.Events...)
}

// FixedClock returns a clock that always answers t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var _ domain.BlobStore = (*MockBlobStore)(nil)
var _ domain.BackupRepository = (*MockBackupRepository)(nil)
