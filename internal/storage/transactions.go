package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/grana-app/grana/internal/model"
)

const transactionColumns = `
	id, account_id, date, description, amount, type, category, status,
	is_fixed, is_recurring, frequency, installment_number, total_installments, created_at`

// AddTransaction inserts a transaction and, when it is completed, applies its
// balance effect to the owning account inside the same database transaction.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := applyBalanceDelta(ctx, tx, txn.AccountID, txn.BalanceEffect()); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateTransaction rewrites a transaction. The stored row's balance effect is
// reversed and the new effect applied in the same database transaction, so the
// account balance never reflects a half-applied edit. The reversal reads the
// stored row, never the caller's view of it.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old, err := getTransactionTx(ctx, tx, txn.ID)
	if err != nil {
		return err
	}

	if err := applyBalanceDelta(ctx, tx, old.AccountID, -old.BalanceEffect()); err != nil {
		return err
	}

	var frequency sql.NullString
	if txn.Frequency != "" {
		frequency = sql.NullString{String: string(txn.Frequency), Valid: true}
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = ?, date = ?, description = ?, amount = ?, type = ?,
			category = ?, status = ?, is_fixed = ?, is_recurring = ?,
			frequency = ?, installment_number = ?, total_installments = ?
		WHERE id = ?
	`, txn.AccountID, txn.Date, txn.Description, txn.Amount, txn.Type,
		txn.Category, txn.Status, txn.IsFixed, txn.IsRecurring,
		frequency, txn.InstallmentNumber, txn.TotalInstallments, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, ErrNotFound)
	}

	if err := applyBalanceDelta(ctx, tx, txn.AccountID, txn.BalanceEffect()); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTransaction removes a transaction, reversing its balance effect when
// it was completed.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old, err := getTransactionTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if err := applyBalanceDelta(ctx, tx, old.AccountID, -old.BalanceEffect()); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTransactionByID fetches a transaction by id.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

// ListTransactions returns the transactions dated inside [start, end],
// ordered by date. This feeds the duplicate detector's history window.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date, created_at
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactionsByAccount returns one account's (or card's) transactions
// dated inside [start, end], ordered by date.
func (s *SQLiteStorage) ListTransactionsByAccount(ctx context.Context, accountID string, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = ? AND date >= ? AND date <= ?
		ORDER BY date, created_at
	`, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list account transactions: %w", err)
	}
	return collectTransactions(rows)
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	var frequency sql.NullString
	if txn.Frequency != "" {
		frequency = sql.NullString{String: string(txn.Frequency), Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, account_id, date, description, amount, type, category, status,
			is_fixed, is_recurring, frequency, installment_number, total_installments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.AccountID, txn.Date, txn.Description, txn.Amount, txn.Type,
		txn.Category, txn.Status, txn.IsFixed, txn.IsRecurring, frequency,
		txn.InstallmentNumber, txn.TotalInstallments)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// applyBalanceDelta moves an account balance by delta as a SQL increment, not
// a read-then-write, so concurrent writers cannot lose updates. Credit cards
// carry no balance row in accounts, which makes the update a no-op for
// card-owned transactions.
func applyBalanceDelta(ctx context.Context, tx *sql.Tx, accountID string, delta float64) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = balance + ? WHERE id = ?`, delta, accountID)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return nil
}

func getTransactionTx(ctx context.Context, tx *sql.Tx, id string) (*model.Transaction, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var category, frequency sql.NullString
	err := row.Scan(&txn.ID, &txn.AccountID, &txn.Date, &txn.Description, &txn.Amount,
		&txn.Type, &category, &txn.Status, &txn.IsFixed, &txn.IsRecurring,
		&frequency, &txn.InstallmentNumber, &txn.TotalInstallments, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Category = category.String
	txn.Frequency = model.Frequency(frequency.String)
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
