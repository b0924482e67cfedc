package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grana-app/grana/internal/model"
)

// CreateAccount persists a new account.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, balance, initial_balance, color)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.Name, account.Type, account.Balance, account.InitialBalance, account.Color)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount fetches an account by id.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance, initial_balance, color, created_at
		FROM accounts WHERE id = ?
	`, id)

	var account model.Account
	var color sql.NullString
	err := row.Scan(&account.ID, &account.Name, &account.Type, &account.Balance,
		&account.InitialBalance, &color, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.Color = color.String
	return &account, nil
}

// ListAccounts returns every account, ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, balance, initial_balance, color, created_at
		FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		var color sql.NullString
		if err := rows.Scan(&account.ID, &account.Name, &account.Type, &account.Balance,
			&account.InitialBalance, &color, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Color = color.String
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
