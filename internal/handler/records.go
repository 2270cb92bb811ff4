package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/security/audit"
	"github.com/aryan0dhankhar/claimledger/internal/security/middleware"
	"github.com/aryan0dhankhar/claimledger/internal/service"
)

// RecordHandler serves expense claims and bills
type RecordHandler struct {
	records *service.RecordService
	audit   *audit.Logger
	logger  *slog.Logger
}

// NewRecordHandler creates a new record handler. auditLog may be nil.
func NewRecordHandler(records *service.RecordService, auditLog *audit.Logger, logger *slog.Logger) *RecordHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordHandler{
		records: records,
		audit:   auditLog,
		logger:  logger,
	}
}

// ExpenseResponse is returned by POST /api/expenses
type ExpenseResponse struct {
	Message string               `json:"message"`
	Expense *domain.ExpenseClaim `json:"expense"`
}

// BillResponse is returned by POST /api/bills
type BillResponse struct {
	Message string       `json:"message"`
	Bill    *domain.Bill `json:"bill"`
}

// ListExpenses handles GET /api/expenses?user_id=
func (h *RecordHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.records.ListExpenses(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles POST /api/expenses
func (h *RecordHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, err := p.fields("expense_claim_date", "expense_category", "description", "user_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	amount, err := p.amount("amount")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	expense, err := h.records.CreateExpense(r.Context(), domain.ExpenseInput{
		ClaimDate:   f[0],
		Category:    f[1],
		Description: f[2],
		Amount:      amount,
		UserID:      f[3],
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), expense.UserID, "create", "expense", expense.ID, "success")
	writeJSON(w, http.StatusCreated, ExpenseResponse{Message: "Expense added successfully", Expense: expense})
}

// ListBills handles GET /api/bills?user_id=
func (h *RecordHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.records.ListBills(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// CreateBill handles POST /api/bills
func (h *RecordHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, err := p.fields("bill_type", "bill_date", "due_date", "user_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	amount, err := p.amount("amount")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	bill, err := h.records.CreateBill(r.Context(), domain.BillInput{
		BillType: f[0],
		BillDate: f[1],
		DueDate:  f[2],
		Amount:   amount,
		UserID:   f[3],
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), bill.UserID, "create", "bill", bill.ID, "success")
	writeJSON(w, http.StatusCreated, BillResponse{Message: "Bill added successfully", Bill: bill})
}
