package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/observability/metrics"
)

// RecordService creates and lists expense claims and bills
type RecordService struct {
	expenseRepo domain.ExpenseRepository
	billRepo    domain.BillRepository
	now         func() time.Time
	logger      *slog.Logger
}

// NewRecordService creates a new record service
func NewRecordService(
	expenseRepo domain.ExpenseRepository,
	billRepo domain.BillRepository,
	logger *slog.Logger,
) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordService{
		expenseRepo: expenseRepo,
		billRepo:    billRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// CreateExpense coerces the submission and persists it. Nothing is written
// unless the date and amount both parse.
func (s *RecordService) CreateExpense(ctx context.Context, in domain.ExpenseInput) (*domain.ExpenseClaim, error) {
	claimDate, err := domain.ParseDate(in.ClaimDate)
	if err != nil {
		return nil, fmt.Errorf("expense_claim_date: %w", err)
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	expense := &domain.ExpenseClaim{
		ClaimDate:   claimDate,
		Category:    in.Category,
		Description: in.Description,
		Amount:      amount,
		UserID:      in.UserID,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		s.logger.Error("failed to create expense",
			slog.String("user_id", in.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.ObserveRecordCreated("expenses")
	s.logger.Debug("expense created",
		slog.String("expense_id", expense.ID),
		slog.String("user_id", expense.UserID),
	)

	return expense, nil
}

// ListExpenses returns every expense whose user_id equals userID.
// The result is never nil.
func (s *RecordService) ListExpenses(ctx context.Context, userID string) ([]*domain.ExpenseClaim, error) {
	if userID == "" {
		return []*domain.ExpenseClaim{}, nil
	}

	expenses, err := s.expenseRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list expenses",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if expenses == nil {
		expenses = []*domain.ExpenseClaim{}
	}
	return expenses, nil
}

// CreateBill coerces the submission and persists it
func (s *RecordService) CreateBill(ctx context.Context, in domain.BillInput) (*domain.Bill, error) {
	billDate, err := domain.ParseDate(in.BillDate)
	if err != nil {
		return nil, fmt.Errorf("bill_date: %w", err)
	}

	dueDate, err := domain.ParseDate(in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	bill := &domain.Bill{
		BillType:  in.BillType,
		BillDate:  billDate,
		DueDate:   dueDate,
		Amount:    amount,
		UserID:    in.UserID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		s.logger.Error("failed to create bill",
			slog.String("user_id", in.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.ObserveRecordCreated("bills")
	s.logger.Debug("bill created",
		slog.String("bill_id", bill.ID),
		slog.String("user_id", bill.UserID),
	)

	return bill, nil
}

// ListBills returns every bill whose user_id equals userID
func (s *RecordService) ListBills(ctx context.Context, userID string) ([]*domain.Bill, error) {
	if userID == "" {
		return []*domain.Bill{}, nil
	}

	bills, err := s.billRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bills",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if bills == nil {
		bills = []*domain.Bill{}
	}
	return bills, nil
}

// ParseAmount converts the textual amount to a finite float64.
// Negative amounts are accepted.
func ParseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, raw)
	}
	return amount, nil
}
