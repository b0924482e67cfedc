package storage

import (
	"context"
	"fmt"

	"github.com/grana-app/grana/internal/service"
)

// ApplyImportBatch commits one reconciliation batch atomically: new accounts
// and cards, the approved transactions (current and future installments), and
// the balance deltas they imply. Partial application is the failure mode this
// method exists to prevent — any error rolls the whole batch back and nothing
// is considered saved.
func (s *SQLiteStorage) ApplyImportBatch(ctx context.Context, batch *service.ImportBatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("%w: batch", ErrNilParameter)
	}

	// Validate everything up front: a batch that would fail halfway should
	// fail before touching the database at all.
	for i := range batch.NewAccounts {
		if err := validateAccount(&batch.NewAccounts[i]); err != nil {
			return fmt.Errorf("batch account %d: %w", i, err)
		}
	}
	for i := range batch.NewCards {
		if err := validateCard(&batch.NewCards[i]); err != nil {
			return fmt.Errorf("batch card %d: %w", i, err)
		}
	}
	for i := range batch.Transactions {
		if err := validateTransaction(&batch.Transactions[i]); err != nil {
			return fmt.Errorf("batch transaction %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range batch.NewAccounts {
		account := &batch.NewAccounts[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, name, type, balance, initial_balance, color)
			VALUES (?, ?, ?, ?, ?, ?)
		`, account.ID, account.Name, account.Type, account.Balance, account.InitialBalance, account.Color); err != nil {
			return fmt.Errorf("failed to create batch account %q: %w", account.Name, err)
		}
	}

	for i := range batch.NewCards {
		card := &batch.NewCards[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO credit_cards (id, name, credit_limit, closing_day, due_day, color)
			VALUES (?, ?, ?, ?, ?, ?)
		`, card.ID, card.Name, card.Limit, card.ClosingDay, card.DueDay, card.Color); err != nil {
			return fmt.Errorf("failed to create batch card %q: %w", card.Name, err)
		}
	}

	for i := range batch.Transactions {
		if err := insertTransactionTx(ctx, tx, &batch.Transactions[i]); err != nil {
			return err
		}
	}

	for accountID, delta := range batch.BalanceDeltas {
		if err := applyBalanceDelta(ctx, tx, accountID, delta); err != nil {
			return err
		}
	}

	return tx.Commit()
}
