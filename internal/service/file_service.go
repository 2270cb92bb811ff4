package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/observability/metrics"
)

// FileService stores and retrieves uploaded files by name
type FileService struct {
	blobs  domain.BlobStore
	logger *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(blobs domain.BlobStore, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileService{
		blobs:  blobs,
		logger: logger,
	}
}

// Upload stores content under filename and returns the blob's identifier.
// An empty contentType is guessed from the filename's extension.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	if content == nil {
		return "", domain.ErrNoFile
	}
	if filename == "" {
		return "", domain.ErrEmptyFilename
	}
	if contentType == "" {
		contentType = DetectContentType(filename)
	}

	counter := &countingReader{r: content}
	id, err := s.blobs.Save(ctx, filename, contentType, counter)
	if err != nil {
		s.logger.Error("failed to store file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	metrics.ObserveUpload(counter.n)
	s.logger.Info("file uploaded",
		slog.String("file_id", id),
		slog.String("filename", filename),
		slog.Int64("bytes", counter.n),
	)

	return id, nil
}

// Fetch opens the newest blob stored under filename
func (s *FileService) Fetch(ctx context.Context, filename string) (*domain.StoredFile, error) {
	if filename == "" {
		return nil, domain.ErrNotFound
	}

	file, err := s.blobs.Open(ctx, filename)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to open file",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	if file.ContentType == "" {
		file.ContentType = DetectContentType(filename)
	}
	return file, nil
}

// DetectContentType guesses a MIME type from the file extension
func DetectContentType(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
