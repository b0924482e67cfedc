package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/parser"
	"github.com/grana-app/grana/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "grana.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func cardCandidate(desc string, amount float64, day int) model.Candidate {
	return model.Candidate{
		Date:        time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Category:    "Outros",
		BankName:    "Nubank",
		Type:        model.TypeExpense,
		SourceType:  model.SourceCard,
		Amount:      amount,
		Selected:    true,
	}
}

func accountCandidate(desc string, amount float64, typ model.TransactionType) model.Candidate {
	return model.Candidate{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Category:    "Outros",
		BankName:    "Itaú",
		Type:        typ,
		SourceType:  model.SourceAccount,
		Amount:      amount,
		Selected:    true,
	}
}

func TestReconcile_IdempotentReimport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reconciler := NewReconciler(store, nil)

	stmt := &parser.Statement{
		Metadata: parser.Metadata{BankName: "Nubank"},
		Candidates: []model.Candidate{
			cardCandidate("IFOOD RESTAURANTE", 45.90, 5),
			cardCandidate("UBER TRIP", 23.50, 7),
		},
	}

	first, err := reconciler.Reconcile(ctx, stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Saved)
	assert.Equal(t, 0, first.DuplicatesSkipped)
	assert.Equal(t, 1, first.NewCards)

	second, err := reconciler.Reconcile(ctx, stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Saved)
	assert.Equal(t, 2, second.DuplicatesSkipped)
	assert.Equal(t, 0, second.NewCards)
}

func TestReconcile_WithinBatchDuplicates(t *testing.T) {
	store := newTestStore(t)
	reconciler := NewReconciler(store, nil)

	twice := cardCandidate("IFOOD RESTAURANTE", 45.90, 5)
	stmt := &parser.Statement{Candidates: []model.Candidate{twice, twice}}

	summary, err := reconciler.Reconcile(context.Background(), stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 1, summary.DuplicatesSkipped)
}

func TestReconcile_FutureInstallments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reconciler := NewReconciler(store, nil)

	plan := cardCandidate("MAGAZINE LUIZA 2/10", 150, 5)
	plan.InstallmentNumber = 2
	plan.TotalInstallments = 10
	stmt := &parser.Statement{Candidates: []model.Candidate{plan}}

	summary, err := reconciler.Reconcile(ctx, stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 8, summary.FutureInstallments)

	cards, err := store.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	saved, err := store.ListTransactionsByAccount(ctx, cards[0].ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, saved, 9)

	// The statement line itself is completed; the tail is pending, one month
	// apart, numbered 3..10 with the description marker rewritten.
	assert.Equal(t, model.StatusCompleted, saved[0].Status)
	assert.Equal(t, 2, saved[0].InstallmentNumber)

	for i, txn := range saved[1:] {
		assert.Equal(t, model.StatusPending, txn.Status)
		assert.Equal(t, 3+i, txn.InstallmentNumber)
		assert.Equal(t, 10, txn.TotalInstallments)
		assert.Equal(t, time.Month(4)+time.Month(i), txn.Date.Month())
	}
	assert.Equal(t, "MAGAZINE LUIZA 3/10", saved[1].Description)
	assert.Equal(t, "MAGAZINE LUIZA 10/10", saved[8].Description)
}

func TestReconcile_AccountBalanceDelta(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reconciler := NewReconciler(store, nil)

	account := &model.Account{ID: uuid.NewString(), Name: "Itaú Corrente", Type: "checking", Balance: 1000, InitialBalance: 1000}
	require.NoError(t, store.CreateAccount(ctx, account))

	stmt := &parser.Statement{Candidates: []model.Candidate{
		accountCandidate("PAGAMENTO BOLETO", 200, model.TypeExpense),
		accountCandidate("PIX RECEBIDO", 500, model.TypeIncome),
	}}

	summary, err := reconciler.Reconcile(ctx, stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Saved)
	assert.Equal(t, 0, summary.NewAccounts)

	got, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1300.0, got.Balance, 0.001)
}

func TestReconcile_CardOverride(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reconciler := NewReconciler(store, nil)

	card := &model.CreditCard{ID: uuid.NewString(), Name: "Cartão Principal", Limit: 3000, ClosingDay: 5, DueDay: 12}
	require.NoError(t, store.CreateCard(ctx, card))

	// Bank name matches nothing, but the override wins and no card is minted.
	candidate := cardCandidate("IFOOD RESTAURANTE", 45.90, 5)
	candidate.BankName = "Banco Desconhecido"
	stmt := &parser.Statement{Candidates: []model.Candidate{candidate}}

	summary, err := reconciler.Reconcile(ctx, stmt, Options{CardID: card.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 0, summary.NewCards)

	saved, err := store.ListTransactionsByAccount(ctx, card.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestReconcile_UnknownOverrideFails(t *testing.T) {
	store := newTestStore(t)
	reconciler := NewReconciler(store, nil)

	stmt := &parser.Statement{Candidates: []model.Candidate{cardCandidate("IFOOD", 10, 5)}}
	_, err := reconciler.Reconcile(context.Background(), stmt, Options{CardID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReconcile_DryRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reconciler := NewReconciler(store, nil)

	stmt := &parser.Statement{Candidates: []model.Candidate{cardCandidate("IFOOD", 10, 5)}}

	summary, err := reconciler.Reconcile(ctx, stmt, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 1, summary.NewCards)

	cards, err := store.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestReconcile_SkipsUnselectedAndInvalid(t *testing.T) {
	store := newTestStore(t)
	reconciler := NewReconciler(store, nil)

	unselected := cardCandidate("IFOOD", 10, 5)
	unselected.Selected = false
	invalid := cardCandidate("BROKEN", -5, 5)

	stmt := &parser.Statement{Candidates: []model.Candidate{unselected, invalid}}
	summary, err := reconciler.Reconcile(context.Background(), stmt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Saved)
	assert.Equal(t, 1, summary.Invalid)
}

func TestResolver_MatchingAndMemoization(t *testing.T) {
	accounts := []model.Account{{ID: "acc-1", Name: "Nubank Conta"}}
	cards := []model.CreditCard{{ID: "card-1", Name: "Nubank"}}
	resolver := NewResolver(accounts, cards)

	// Substring matching is bidirectional and case-insensitive.
	byCard := resolver.Resolve(model.Candidate{BankName: "NUBANK MASTERCARD", SourceType: model.SourceCard}, parser.Metadata{})
	assert.Equal(t, "card-1", byCard)

	byAccount := resolver.Resolve(model.Candidate{BankName: "nubank", SourceType: model.SourceAccount}, parser.Metadata{})
	assert.Equal(t, "acc-1", byAccount)

	// Unknown bank: one card is minted and reused for the whole batch.
	meta := parser.Metadata{Limit: 5000, ClosingDay: 10, DueDay: 17}
	first := resolver.Resolve(model.Candidate{BankName: "Banco Inter", SourceType: model.SourceCard}, meta)
	second := resolver.Resolve(model.Candidate{BankName: "banco inter", SourceType: model.SourceCard}, meta)
	assert.Equal(t, first, second)

	minted := resolver.NewCards()
	require.Len(t, minted, 1)
	assert.Equal(t, "Banco Inter", minted[0].Name)
	assert.InDelta(t, 5000.0, minted[0].Limit, 0.001)
	assert.Equal(t, 10, minted[0].ClosingDay)
	assert.Equal(t, 17, minted[0].DueDay)
}

func TestResolver_DefaultsWithoutMetadata(t *testing.T) {
	resolver := NewResolver(nil, nil)

	resolver.Resolve(model.Candidate{SourceType: model.SourceCard}, parser.Metadata{})
	minted := resolver.NewCards()
	require.Len(t, minted, 1)
	assert.Equal(t, fallbackCardName, minted[0].Name)
	assert.InDelta(t, defaultCardLimit, minted[0].Limit, 0.001)
	assert.Equal(t, defaultCardClosingDay, minted[0].ClosingDay)
	assert.Equal(t, defaultCardDueDay, minted[0].DueDay)

	resolver.Resolve(model.Candidate{SourceType: model.SourceAccount}, parser.Metadata{})
	accounts := resolver.NewAccounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, fallbackAccountName, accounts[0].Name)
	assert.InDelta(t, 0.0, accounts[0].Balance, 0.001)
}
