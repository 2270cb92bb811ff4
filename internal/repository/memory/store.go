// Package memory provides in-process implementations of the domain
// repositories. Data lives only as long as the Store value.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// Store holds users, expense claims, bills and blobs in memory
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // email -> user
	expenses []*domain.ExpenseClaim
	bills    []*domain.Bill
	blobs    map[string][]*blob // filename -> revisions, oldest first
	now      func() time.Time
}

type blob struct {
	id          string
	contentType string
	data        []byte
	uploadedAt  time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users: make(map[string]*domain.User),
		blobs: make(map[string][]*blob),
		now:   time.Now,
	}
}

// Users returns the store as a domain.UserRepository
func (s *Store) Users() domain.UserRepository { return userRepo{s} }

// Expenses returns the store as a domain.ExpenseRepository
func (s *Store) Expenses() domain.ExpenseRepository { return expenseRepo{s} }

// Bills returns the store as a domain.BillRepository
func (s *Store) Bills() domain.BillRepository { return billRepo{s} }

// Blobs returns the store as a domain.BlobStore
func (s *Store) Blobs() domain.BlobStore { return blobStore{s} }

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Email]; exists {
		return domain.ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	stored := *user
	r.s.users[user.Email] = &stored
	return nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(ctx context.Context, expense *domain.ExpenseClaim) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	expense.ID = uuid.NewString()
	stored := *expense
	r.s.expenses = append(r.s.expenses, &stored)
	return nil
}

func (r expenseRepo) ListByUser(ctx context.Context, userID string) ([]*domain.ExpenseClaim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.ExpenseClaim{}
	for _, e := range r.s.expenses {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type billRepo struct{ s *Store }

func (r billRepo) Create(ctx context.Context, bill *domain.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bill.ID = uuid.NewString()
	stored := *bill
	r.s.bills = append(r.s.bills, &stored)
	return nil
}

func (r billRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Bill{}
	for _, b := range r.s.bills {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type blobStore struct{ s *Store }

func (b blobStore) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	rev := &blob{
		id:          uuid.NewString(),
		contentType: contentType,
		data:        data,
		uploadedAt:  b.s.now().UTC(),
	}
	b.s.blobs[filename] = append(b.s.blobs[filename], rev)
	return rev.id, nil
}

func (b blobStore) Open(ctx context.Context, filename string) (*domain.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	revs := b.s.blobs[filename]
	if len(revs) == 0 {
		return nil, domain.ErrNotFound
	}
	latest := revs[len(revs)-1]
	return &domain.StoredFile{
		ID:          latest.id,
		Filename:    filename,
		ContentType: latest.contentType,
		Length:      int64(len(latest.data)),
		UploadedAt:  latest.uploadedAt,
		Content:     io.NopCloser(bytes.NewReader(latest.data)),
	}, nil
}
