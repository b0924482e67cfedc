// Package model defines the core domain types shared across the application.
package model

import "time"

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome represents money entering an account.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money leaving an account.
	TypeExpense TransactionType = "expense"
)

// TransactionStatus tracks whether a transaction has hit the account balance.
type TransactionStatus string

const (
	// StatusPending marks a transaction that has not affected any balance yet.
	StatusPending TransactionStatus = "pending"
	// StatusCompleted marks a transaction whose effect is applied to the
	// owning account's balance.
	StatusCompleted TransactionStatus = "completed"
)

// Frequency is the recurrence unit for recurring and installment transactions.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Transaction is a persisted ledger entry owned by an account or credit card.
type Transaction struct {
	Date              time.Time
	CreatedAt         time.Time
	ID                string
	AccountID         string
	Description       string
	Category          string
	Frequency         Frequency
	Type              TransactionType
	Status            TransactionStatus
	Amount            float64
	InstallmentNumber int
	TotalInstallments int
	IsFixed           bool
	IsRecurring       bool
}

// SignedAmount returns the amount with the sign implied by the transaction
// type. Amounts are stored as positive magnitudes.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}

// BalanceEffect returns the delta this transaction contributes to its owning
// account's balance. Only completed transactions move the balance.
func (t *Transaction) BalanceEffect() float64 {
	if t.Status != StatusCompleted {
		return 0
	}
	return t.SignedAmount()
}

// IsInstallment reports whether the transaction is part of an installment plan.
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentNumber > 0 && t.TotalInstallments > 0
}
