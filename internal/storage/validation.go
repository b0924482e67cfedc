package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grana-app/grana/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidCard        = errors.New("invalid credit card")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrNotFound           = errors.New("not found")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransaction(tx *model.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if tx.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if tx.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransaction)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if tx.Amount < 0 {
		return fmt.Errorf("%w: amount must be a positive magnitude", ErrInvalidTransaction)
	}
	switch tx.Type {
	case model.TypeIncome, model.TypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	}
	switch tx.Status {
	case model.StatusPending, model.StatusCompleted:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransaction, tx.Status)
	}
	if tx.InstallmentNumber > tx.TotalInstallments {
		return fmt.Errorf("%w: installment %d of %d", ErrInvalidTransaction, tx.InstallmentNumber, tx.TotalInstallments)
	}
	return nil
}

func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	return nil
}

func validateCard(card *model.CreditCard) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if card.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCard)
	}
	if strings.TrimSpace(card.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCard)
	}
	if card.ClosingDay < 1 || card.ClosingDay > 31 {
		return fmt.Errorf("%w: closing day %d", ErrInvalidCard, card.ClosingDay)
	}
	if card.DueDay < 1 || card.DueDay > 31 {
		return fmt.Errorf("%w: due day %d", ErrInvalidCard, card.DueDay)
	}
	return nil
}

func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	switch cat.Type {
	case model.TypeIncome, model.TypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, cat.Type)
	}
	return nil
}
