package domain

import (
	"context"
	"time"
)

// BlobStore persists named JSON blobs, one per collection.
type BlobStore interface {
	// Load returns ErrBlobNotFound when nothing was saved under name.
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// Workspace gives exclusive access to the working set. View runs fn on a
// stable state; Update additionally saves whatever fn touched and reports
// a save failure wrapped in ErrPersistence with the in-memory state kept.
type Workspace interface {
	View(ctx context.Context, fn func(*State) error) error
	Update(ctx context.Context, fn func(*State) error) error
}

// BackupRepository stores export documents outside the workspace.
type BackupRepository interface {
	Upload(ctx context.Context, key string, data []byte) error
	DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// BackupKey returns the object key of an export taken at t.
func BackupKey(t time.Time) string {
	return "backups/" + t.UTC().Format("20060102T150405Z") + ".json"
}
