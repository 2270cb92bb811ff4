package domain

import (
	"context"
	"time"
)

// ExpenseClaim is an expense submitted by a user
type ExpenseClaim struct {
	ID          string    `json:"_id"`
	ClaimDate   Date      `json:"expense_claim_date"`
	Category    string    `json:"expense_category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	UserID      string    `json:"user_id"` // Not validated against users
	CreatedAt   time.Time `json:"created_at"`
}

// Bill is a bill recorded by a user. DueDate may precede BillDate.
type Bill struct {
	ID        string    `json:"_id"`
	BillType  string    `json:"bill_type"`
	BillDate  Date      `json:"bill_date"`
	DueDate   Date      `json:"due_date"`
	Amount    float64   `json:"amount"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseInput carries the textual fields of an expense submission
// before date and amount coercion.
type ExpenseInput struct {
	ClaimDate   string
	Category    string
	Description string
	Amount      string
	UserID      string
}

// BillInput carries the textual fields of a bill submission.
type BillInput struct {
	BillType string
	BillDate string
	DueDate  string
	Amount   string
	UserID   string
}

// ExpenseRepository defines data access for expense claims
type ExpenseRepository interface {
	Create(ctx context.Context, expense *ExpenseClaim) error
	ListByUser(ctx context.Context, userID string) ([]*ExpenseClaim, error)
}

// BillRepository defines data access for bills
type BillRepository interface {
	Create(ctx context.Context, bill *Bill) error
	ListByUser(ctx context.Context, userID string) ([]*Bill, error)
}
