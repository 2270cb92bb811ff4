package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// BlobStore keeps uploads in a bytea column. Every upload is a new row;
// Open returns the most recent row for a filename.
type BlobStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *slog.Logger
}

// NewBlobStore creates a new blob store
func NewBlobStore(db *sql.DB, logger *slog.Logger) *BlobStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{db: db, now: time.Now, logger: logger}
}

// Save stores content under filename and returns the new file ID
func (s *BlobStore) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO files (id, filename, content_type, length, data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, query,
		id,
		filename,
		contentType,
		int64(len(data)),
		data,
		s.now().UTC(),
	); err != nil {
		s.logger.Error("failed to store file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return "", unavailable("store file", err)
	}

	return id, nil
}

// Open returns the newest revision of filename
func (s *BlobStore) Open(ctx context.Context, filename string) (*domain.StoredFile, error) {
	query := `
		SELECT id, content_type, length, data, uploaded_at
		FROM files
		WHERE filename = $1
		ORDER BY uploaded_at DESC
		LIMIT 1
	`

	file := &domain.StoredFile{Filename: filename}
	var data []byte
	err := s.db.QueryRowContext(ctx, query, filename).Scan(
		&file.ID,
		&file.ContentType,
		&file.Length,
		&data,
		&file.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, unavailable("open file", err)
	}

	file.Content = io.NopCloser(bytes.NewReader(data))
	return file, nil
}
