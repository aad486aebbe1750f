package memory

import (
	"context"
	"sync"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// BlobStore keeps blobs in process memory. Used by tests and STORE_BACKEND=memory.
type BlobStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewBlobStore creates an empty BlobStore
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[name]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *BlobStore) Save(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, name)
	return nil
}

// Names returns the stored blob names.
func (s *BlobStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.blobs))
	for name := range s.blobs {
		names = append(names, name)
	}
	return names
}
