// Package client is a Go client for the claimledger HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// Client talks to a claimledger server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8080
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Register creates an account
func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	var out userEnvelope
	err := c.postJSON(ctx, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	return out.User, err
}

// Login checks credentials and returns the account
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var out userEnvelope
	err := c.postJSON(ctx, "/api/login", map[string]string{"email": email, "password": password}, &out)
	return out.User, err
}

// Expense is the request body for AddExpense
type Expense struct {
	ClaimDate   string  `json:"expense_claim_date"`
	Category    string  `json:"expense_category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	UserID      string  `json:"user_id"`
}

// AddExpense submits an expense claim
func (c *Client) AddExpense(ctx context.Context, e Expense) (*domain.ExpenseClaim, error) {
	var out struct {
		Expense *domain.ExpenseClaim `json:"expense"`
	}
	err := c.postJSON(ctx, "/api/expenses", e, &out)
	return out.Expense, err
}

// ListExpenses lists the expense claims recorded for userID
func (c *Client) ListExpenses(ctx context.Context, userID string) ([]*domain.ExpenseClaim, error) {
	var out []*domain.ExpenseClaim
	err := c.get(ctx, "/api/expenses?user_id="+url.QueryEscape(userID), &out)
	return out, err
}

// Bill is the request body for AddBill
type Bill struct {
	BillType string  `json:"bill_type"`
	BillDate string  `json:"bill_date"`
	DueDate  string  `json:"due_date"`
	Amount   float64 `json:"amount"`
	UserID   string  `json:"user_id"`
}

// AddBill records a bill
func (c *Client) AddBill(ctx context.Context, b Bill) (*domain.Bill, error) {
	var out struct {
		Bill *domain.Bill `json:"bill"`
	}
	err := c.postJSON(ctx, "/api/bills", b, &out)
	return out.Bill, err
}

// ListBills lists the bills recorded for userID
func (c *Client) ListBills(ctx context.Context, userID string) ([]*domain.Bill, error) {
	var out []*domain.Bill
	err := c.get(ctx, "/api/bills?user_id="+url.QueryEscape(userID), &out)
	return out, err
}

// Upload sends content as the multipart "file" part and returns the file ID
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		FileID string `json:"file_id"`
	}
	if err := c.do(req, &out); err != nil {
		pr.Close()
		return "", err
	}
	return out.FileID, nil
}

// Download writes the newest file stored under filename to w
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/files/"+url.PathEscape(filename), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
