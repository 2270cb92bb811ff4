package domain

import (
	"context"
	"io"
	"time"
)

// StoredFile is a blob looked up by filename. Content must be closed by the caller.
type StoredFile struct {
	ID          string
	Filename    string
	ContentType string
	Length      int64
	UploadedAt  time.Time
	Content     io.ReadCloser
}

// BlobStore persists named uploads. Uploading an existing filename stores a
// new revision; Open returns the most recent one or ErrNotFound.
type BlobStore interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	Open(ctx context.Context, filename string) (*StoredFile, error)
}

// Pinger is implemented by store backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
