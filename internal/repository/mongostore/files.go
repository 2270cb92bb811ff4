package mongostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// BlobStore implements domain.BlobStore on the default GridFS bucket ("fs").
// GridFS keeps every upload of a name as a revision; Open reads the newest.
type BlobStore struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewBlobStore creates a new GridFS-backed blob store
func NewBlobStore(db *mongo.Database, logger *slog.Logger) *BlobStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{db: db, logger: logger}
}

// transferTimeout bounds a GridFS transfer whose context has no deadline.
const transferTimeout = 5 * time.Minute

// bucket returns a bucket whose deadlines follow ctx. The v1 GridFS API
// takes deadlines instead of contexts, so buckets are not shared.
func (s *BlobStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db)
	if err != nil {
		return nil, err
	}
	deadline := transferDeadline(ctx, time.Now())
	if err := b.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	if err := b.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	return b, nil
}

func transferDeadline(ctx context.Context, now time.Time) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}
	return now.Add(transferTimeout)
}

// ctxReader stops a transfer between chunks once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type ctxReadCloser struct {
	ctxReader
	c io.Closer
}

func (c ctxReadCloser) Close() error { return c.c.Close() }

// Save streams content into GridFS and returns the new file ID
func (s *BlobStore) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return "", unavailable("open gridfs bucket", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := b.UploadFromStream(filename, ctxReader{ctx: ctx, r: content}, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.logger.Error("failed to upload file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return "", unavailable("upload file", err)
	}

	return id.Hex(), nil
}

// Open returns the newest revision of filename. The caller closes Content.
func (s *BlobStore) Open(ctx context.Context, filename string) (*domain.StoredFile, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, unavailable("open gridfs bucket", err)
	}

	stream, err := b.OpenDownloadStreamByName(filename)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, unavailable("open file", err)
	}

	f := stream.GetFile()
	return &domain.StoredFile{
		ID:          idString(f.ID),
		Filename:    f.Name,
		ContentType: contentTypeOf(f.Metadata),
		Length:      f.Length,
		UploadedAt:  f.UploadDate.UTC(),
		Content:     ctxReadCloser{ctxReader: ctxReader{ctx: ctx, r: stream}, c: stream},
	}, nil
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func contentTypeOf(metadata bson.Raw) string {
	if len(metadata) == 0 {
		return ""
	}
	ct, ok := metadata.Lookup("contentType").StringValueOK()
	if !ok {
		return ""
	}
	return ct
}
