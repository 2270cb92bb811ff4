// Package mongostore implements the domain repositories on MongoDB.
// Uploads live in the default GridFS bucket.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

const (
	usersCollection    = "users"
	expensesCollection = "expenses"
	billsCollection    = "bills"
)

// EnsureIndexes creates the unique email index and the user_id lookup
// indexes. Safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		usersCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		expensesCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
		billsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
	}

	for _, name := range []string{usersCollection, expensesCollection, billsCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, indexes[name]); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
