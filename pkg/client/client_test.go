package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/handler"
	"github.com/aryan0dhankhar/claimledger/internal/repository/memory"
	"github.com/aryan0dhankhar/claimledger/internal/security/auth"
	"github.com/aryan0dhankhar/claimledger/internal/service"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()
	store := memory.NewStore()
	router := handler.NewRouter(handler.RouterConfig{
		Auth: handler.NewAuthHandler(
			service.NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), nil), nil, nil),
		Records: handler.NewRecordHandler(
			service.NewRecordService(store.Expenses(), store.Bills(), nil), nil, nil),
		Files:              handler.NewFileHandler(service.NewFileService(store.Blobs(), nil), 1<<20, nil, nil),
		Health:             handler.NewHealthHandler(map[string]domain.Pinger{"store": store}, nil),
		CORSAllowedOrigins: []string{"*"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

func TestClientAuth(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	user, err := c.Register(ctx, "ann", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, err = c.Register(ctx, "ann2", "a@x.com", "other")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "DuplicateEmail", apiErr.Code)

	logged, err := c.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = c.Login(ctx, "a@x.com", "nope")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClientRecords(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	expense, err := c.AddExpense(ctx, Expense{ClaimDate: "2024-01-15", Category: "travel", Description: "taxi", Amount: 42.5, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", expense.ClaimDate.String())

	expenses, err := c.ListExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 42.5, expenses[0].Amount)

	_, err = c.AddBill(ctx, Bill{BillType: "Water", BillDate: "2024-02-01", DueDate: "2024-02-15", Amount: 30, UserID: "u1"})
	require.NoError(t, err)

	bills, err := c.ListBills(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "2024-02-15", bills[0].DueDate.String())

	_, err = c.AddBill(ctx, Bill{BillType: "Water", BillDate: "02/01/2024", DueDate: "2024-02-15", Amount: 30, UserID: "u1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "MalformedDate", apiErr.Code)
}

func TestClientFiles(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	id, err := c.Upload(ctx, "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var buf bytes.Buffer
	n, err := c.Download(ctx, "notes.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", buf.String())

	_, err = c.Download(ctx, "missing.txt", &buf)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
