// Package testutil provides shared test fixtures for the spice-must-learn project.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/storage"
)

// DefaultUserID is the user that SetupTestDB seeds categories for.
const DefaultUserID = "test-user"

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	UserID  string
}

// SetupTestDB creates a migrated in-memory database with the default
// categories seeded for DefaultUserID. Cleanup is registered on t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	db := SetupEmptyTestDB(t)
	if _, err := db.Storage.SeedDefaultCategories(context.Background(), db.UserID); err != nil {
		t.Fatalf("failed to seed default categories: %v", err)
	}
	return db
}

// SetupEmptyTestDB creates a migrated in-memory database without any categories.
func SetupEmptyTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		UserID:  DefaultUserID,
		t:       t,
	}
}

// MustGetCategory returns the user's category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name string) *model.Category {
	db.t.Helper()
	cat, err := db.Storage.GetCategoryByName(context.Background(), db.UserID, name)
	if err != nil {
		db.t.Fatalf("category %q not found: %v", name, err)
	}
	return cat
}

var txnSeq atomic.Int64

// NewTransaction builds a valid transaction for DefaultUserID with a unique
// ID and a hash derived from its contents.
func NewTransaction(beneficiary, remark string, amount int64) model.Transaction {
	n := txnSeq.Add(1)
	txn := model.Transaction{
		ID:              fmt.Sprintf("test-txn-%d", n),
		UserID:          DefaultUserID,
		Date:            time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
		BeneficiaryName: beneficiary,
		Remark:          remark,
		Amount:          decimal.NewFromInt(amount),
		Category:        model.CategoryOther,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}
