package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *slog.Logger) *ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseRepository{db: db, logger: logger}
}

// Create inserts an expense claim
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.ExpenseClaim) error {
	query := `
		INSERT INTO expense_claims (id, expense_claim_date, expense_category, description, amount, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id,
		expense.ClaimDate.Time,
		expense.Category,
		expense.Description,
		expense.Amount,
		expense.UserID,
		expense.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create expense claim",
			slog.String("user_id", expense.UserID),
			slog.String("error", err.Error()),
		)
		return unavailable("create expense claim", err)
	}

	expense.ID = id
	return nil
}

// ListByUser lists the expense claims whose user_id equals userID
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ExpenseClaim, error) {
	query := `
		SELECT id, expense_claim_date, expense_category, description, amount, user_id, created_at
		FROM expense_claims
		WHERE user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list expense claims",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, unavailable("list expense claims", err)
	}
	defer rows.Close()

	expenses := []*domain.ExpenseClaim{}
	for rows.Next() {
		e := &domain.ExpenseClaim{}
		var claimDate time.Time
		if err := rows.Scan(
			&e.ID,
			&claimDate,
			&e.Category,
			&e.Description,
			&e.Amount,
			&e.UserID,
			&e.CreatedAt,
		); err != nil {
			return nil, unavailable("scan expense claim", err)
		}
		e.ClaimDate = domain.NewDate(claimDate)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list expense claims", err)
	}

	return expenses, nil
}

// BillRepository implements domain.BillRepository using PostgreSQL
type BillRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, logger *slog.Logger) *BillRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillRepository{db: db, logger: logger}
}

// Create inserts a bill
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	query := `
		INSERT INTO bills (id, bill_type, bill_date, due_date, amount, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id,
		bill.BillType,
		bill.BillDate.Time,
		bill.DueDate.Time,
		bill.Amount,
		bill.UserID,
		bill.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create bill",
			slog.String("user_id", bill.UserID),
			slog.String("error", err.Error()),
		)
		return unavailable("create bill", err)
	}

	bill.ID = id
	return nil
}

// ListByUser lists the bills whose user_id equals userID
func (r *BillRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bill, error) {
	query := `
		SELECT id, bill_type, bill_date, due_date, amount, user_id, created_at
		FROM bills
		WHERE user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list bills",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, unavailable("list bills", err)
	}
	defer rows.Close()

	bills := []*domain.Bill{}
	for rows.Next() {
		b := &domain.Bill{}
		var billDate, dueDate time.Time
		if err := rows.Scan(
			&b.ID,
			&b.BillType,
			&billDate,
			&dueDate,
			&b.Amount,
			&b.UserID,
			&b.CreatedAt,
		); err != nil {
			return nil, unavailable("scan bill", err)
		}
		b.BillDate = domain.NewDate(billDate)
		b.DueDate = domain.NewDate(dueDate)
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list bills", err)
	}

	return bills, nil
}
