package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

func TestSaveTransactions(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(3)
	saved, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	// Same hashes are skipped, even with fresh IDs.
	dupes := createTestTransactions(3)
	for i := range dupes {
		dupes[i].ID += "-again"
	}
	saved, err = store.SaveTransactions(ctx, dupes)
	require.NoError(t, err)
	assert.Zero(t, saved)

	got, err := store.GetTransactionByID(ctx, testUser, txns[1].ID)
	require.NoError(t, err)
	assert.Equal(t, txns[1].BeneficiaryName, got.BeneficiaryName)
	assert.True(t, txns[1].Amount.Equal(got.Amount), "amount %s round-trips", got.Amount)
	assert.True(t, txns[1].Date.Equal(got.Date))
}

func TestSaveTransactions_DefaultsCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(1)
	txns[0].Category = ""
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	got, err := store.GetTransactionByID(ctx, testUser, txns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, got.Category)
}

func TestSaveTransactions_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		wantErr error
		mutate  func(*model.Transaction)
		name    string
	}{
		{name: "missing id", mutate: func(t *model.Transaction) { t.ID = "" }, wantErr: ErrInvalidTransaction},
		{name: "missing user", mutate: func(t *model.Transaction) { t.UserID = "" }, wantErr: ErrInvalidTransaction},
		{name: "missing hash", mutate: func(t *model.Transaction) { t.Hash = "" }, wantErr: ErrInvalidTransaction},
		{name: "zero date", mutate: func(t *model.Transaction) { t.Date = time.Time{} }, wantErr: ErrInvalidTransaction},
		{name: "negative amount", mutate: func(t *model.Transaction) { t.Amount = decimal.NewFromInt(-5) }, wantErr: ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := createTestTransactions(1)
			tt.mutate(&txns[0])
			_, err := store.SaveTransactions(ctx, txns)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := store.SaveTransactions(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)
	_, err = store.SaveTransactions(ctx, []model.Transaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)
}

func TestGetTransactions_Filter(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(5)
	txns[0].Category = "Transport"
	txns[3].Category = "Transport"
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	all, err := store.GetTransactions(ctx, testUser, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, txns[4].ID, all[0].ID, "newest first")

	transport, err := store.GetTransactions(ctx, testUser, service.TransactionFilter{Category: "Transport"})
	require.NoError(t, err)
	assert.Len(t, transport, 2)

	start := txns[1].Date
	end := txns[3].Date
	window, err := store.GetTransactions(ctx, testUser, service.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, txns[2].ID, window[0].ID)
	assert.Equal(t, txns[1].ID, window[1].ID)

	limited, err := store.GetTransactions(ctx, testUser, service.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = store.GetTransactions(ctx, testUser, service.TransactionFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestUpdateTransactionCategory(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(1)
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	require.NoError(t, store.UpdateTransactionCategory(ctx, testUser, txns[0].ID, "Health"))

	got, err := store.GetTransactionByID(ctx, testUser, txns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Health", got.Category)

	err = store.UpdateTransactionCategory(ctx, testUser, "missing", "Health")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.UpdateTransactionCategory(ctx, "someone-else", txns[0].ID, "Health")
	assert.ErrorIs(t, err, common.ErrNotFound, "transactions are scoped to their user")

	_, err = store.GetTransactionByID(ctx, testUser, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
