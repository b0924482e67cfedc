package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/storage"
)

func TestAddInstallmentPlan(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "grana.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	account := &model.Account{ID: uuid.NewString(), Name: "Conta Corrente", Type: "checking", Balance: 1000, InitialBalance: 1000}
	require.NoError(t, store.CreateAccount(ctx, account))

	base := model.Transaction{
		AccountID:   account.ID,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "NOTEBOOK",
		Amount:      100,
		Type:        model.TypeExpense,
		Category:    "Outros",
		Status:      model.StatusCompleted,
	}
	require.NoError(t, addInstallmentPlan(ctx, store, base, 3))

	saved, err := store.ListTransactionsByAccount(ctx, account.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, saved, 3)

	// First occurrence completed, the rest pending, one month apart.
	assert.Equal(t, model.StatusCompleted, saved[0].Status)
	assert.Equal(t, "NOTEBOOK 1/3", saved[0].Description)
	for i, txn := range saved[1:] {
		assert.Equal(t, model.StatusPending, txn.Status)
		assert.Equal(t, i+2, txn.InstallmentNumber)
		assert.Equal(t, 3, txn.TotalInstallments)
		assert.Equal(t, time.Month(4)+time.Month(i), txn.Date.Month())
	}

	// Only the completed occurrence moves the balance.
	got, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 900.0, got.Balance, 0.001)
}

func TestAddInstallmentPlan_RollsBackAsOneBatch(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "grana.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	account := &model.Account{ID: uuid.NewString(), Name: "Conta Corrente", Type: "checking", Balance: 1000, InitialBalance: 1000}
	require.NoError(t, store.CreateAccount(ctx, account))

	// An invalid base makes the whole plan fail validation; nothing of it may
	// be persisted.
	bad := model.Transaction{
		AccountID:   account.ID,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "NOTEBOOK",
		Amount:      100,
		Type:        "transfer",
		Status:      model.StatusCompleted,
	}
	require.Error(t, addInstallmentPlan(ctx, store, bad, 3))

	saved, err := store.ListTransactionsByAccount(ctx, account.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, saved)

	got, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got.Balance, 0.001)
}
