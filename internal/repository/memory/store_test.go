package memory

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

func TestUsersEnforceUniqueEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Users().Create(ctx, &domain.User{Email: "a@x.com", Username: "a"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, created)

	u, err := s.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.Users().GetByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByUserExactMatch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Expenses().Create(ctx, &domain.ExpenseClaim{UserID: "u1", Amount: 1}))
	require.NoError(t, s.Expenses().Create(ctx, &domain.ExpenseClaim{UserID: "u10", Amount: 2}))
	require.NoError(t, s.Bills().Create(ctx, &domain.Bill{UserID: "u1", Amount: 3}))

	expenses, err := s.Expenses().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 1.0, expenses[0].Amount)

	bills, err := s.Bills().ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, bills)
	assert.Empty(t, bills)
}

func TestBlobsNewestRevisionWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id1, err := s.Blobs().Save(ctx, "receipt.png", "image/png", strings.NewReader("v1"))
	require.NoError(t, err)
	id2, err := s.Blobs().Save(ctx, "receipt.png", "image/png", strings.NewReader("v2"))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	f, err := s.Blobs().Open(ctx, "receipt.png")
	require.NoError(t, err)
	defer f.Content.Close()
	data, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, id2, f.ID)

	_, err = s.Blobs().Open(ctx, "missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
