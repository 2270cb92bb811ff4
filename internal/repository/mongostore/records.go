package mongostore

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

type expenseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ClaimDate   time.Time          `bson:"expense_claim_date"`
	Category    string             `bson:"expense_category"`
	Description string             `bson:"description"`
	Amount      float64            `bson:"amount"`
	UserID      string             `bson:"user_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d expenseDocument) toDomain() *domain.ExpenseClaim {
	return &domain.ExpenseClaim{
		ID:          d.ID.Hex(),
		ClaimDate:   domain.NewDate(d.ClaimDate),
		Category:    d.Category,
		Description: d.Description,
		Amount:      d.Amount,
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type billDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BillType  string             `bson:"bill_type"`
	BillDate  time.Time          `bson:"bill_date"`
	DueDate   time.Time          `bson:"due_date"`
	Amount    float64            `bson:"amount"`
	UserID    string             `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d billDocument) toDomain() *domain.Bill {
	return &domain.Bill{
		ID:        d.ID.Hex(),
		BillType:  d.BillType,
		BillDate:  domain.NewDate(d.BillDate),
		DueDate:   domain.NewDate(d.DueDate),
		Amount:    d.Amount,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// ExpenseRepository implements domain.ExpenseRepository on the expenses collection
type ExpenseRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *mongo.Database, logger *slog.Logger) *ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseRepository{coll: db.Collection(expensesCollection), logger: logger}
}

// Create inserts an expense claim
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.ExpenseClaim) error {
	doc := expenseDocument{
		ID:          primitive.NewObjectID(),
		ClaimDate:   expense.ClaimDate.Time,
		Category:    expense.Category,
		Description: expense.Description,
		Amount:      expense.Amount,
		UserID:      expense.UserID,
		CreatedAt:   expense.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error("failed to create expense claim",
			slog.String("user_id", expense.UserID),
			slog.String("error", err.Error()),
		)
		return unavailable("create expense claim", err)
	}

	expense.ID = doc.ID.Hex()
	return nil
}

// ListByUser returns every expense claim whose user_id equals userID, in natural order
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ExpenseClaim, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, unavailable("list expense claims", err)
	}

	var docs []expenseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode expense claims", err)
	}

	out := make([]*domain.ExpenseClaim, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// BillRepository implements domain.BillRepository on the bills collection
type BillRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *mongo.Database, logger *slog.Logger) *BillRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillRepository{coll: db.Collection(billsCollection), logger: logger}
}

// Create inserts a bill
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	doc := billDocument{
		ID:        primitive.NewObjectID(),
		BillType:  bill.BillType,
		BillDate:  bill.BillDate.Time,
		DueDate:   bill.DueDate.Time,
		Amount:    bill.Amount,
		UserID:    bill.UserID,
		CreatedAt: bill.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error("failed to create bill",
			slog.String("user_id", bill.UserID),
			slog.String("error", err.Error()),
		)
		return unavailable("create bill", err)
	}

	bill.ID = doc.ID.Hex()
	return nil
}

// ListByUser returns every bill whose user_id equals userID, in natural order
func (r *BillRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bill, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, unavailable("list bills", err)
	}

	var docs []billDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode bills", err)
	}

	out := make([]*domain.Bill, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
