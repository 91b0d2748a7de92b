package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

const testUser = "user-1"

// createTestStorage creates a migrated storage backed by a temp file.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// createSeededStorage creates a storage with the default categories seeded for testUser.
func createSeededStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	store, cleanup := createTestStorage(t)
	if _, err := store.SeedDefaultCategories(context.Background(), testUser); err != nil {
		cleanup()
		t.Fatalf("Failed to seed categories: %v", err)
	}
	return store, cleanup
}

// Helper function to create test transactions.
func createTestTransactions(count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	baseTime := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		txn := model.Transaction{
			ID:              fmt.Sprintf("txn-%d", i+1),
			UserID:          testUser,
			Date:            baseTime.Add(time.Duration(i) * time.Hour),
			BeneficiaryName: fmt.Sprintf("Merchant %d", i+1),
			Remark:          "test payment",
			Amount:          decimal.NewFromInt(int64(10000 * (i + 1))),
			Category:        model.CategoryOther,
		}
		txn.Hash = txn.GenerateHash()
		txns[i] = txn
	}

	return txns
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("memory database", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		require.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "spice.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		_ = store.Close()
	})
}
