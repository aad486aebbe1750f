package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	createCollectionsTable = `CREATE TABLE IF NOT EXISTS fintrack_collections (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectCollection = `SELECT data FROM fintrack_collections WHERE name = $1`
	upsertCollection = `INSERT INTO fintrack_collections (name, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	deleteCollection = `DELETE FROM fintrack_collections WHERE name = $1`
)

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CollectionRepository implements domain.BlobStore on a single jsonb table
type CollectionRepository struct {
	db DBTX
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db DBTX) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// EnsureSchema creates the collections table if it does not exist
func (r *CollectionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

// Load retrieves a collection blob by name
func (r *CollectionRepository) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, selectCollection, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}
	return data, nil
}

// Save upserts a collection blob
func (r *CollectionRepository) Save(ctx context.Context, name string, data []byte) error {
	if _, err := r.db.Exec(ctx, upsertCollection, name, data); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", name, err)
	}
	return nil
}

// Delete removes a collection blob
func (r *CollectionRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, deleteCollection, name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}
