package model

import (
	"errors"
	"fmt"
	"time"
)

// SourceType says whether a candidate belongs to a bank-account ledger or a
// credit-card invoice.
type SourceType string

const (
	// SourceAccount targets a bank account.
	SourceAccount SourceType = "account"
	// SourceCard targets a credit-card invoice.
	SourceCard SourceType = "card"
)

// Candidate is a parser- or AI-produced transaction awaiting user approval.
// Candidates are never persisted as-is; reconciliation turns the approved
// subset into Transactions.
type Candidate struct {
	Date              time.Time
	Description       string
	Category          string
	BankName          string
	Type              TransactionType
	SourceType        SourceType
	Amount            float64
	InstallmentNumber int
	TotalInstallments int
	Selected          bool
}

// Candidate validation errors.
var (
	ErrCandidateNoDate       = errors.New("candidate has no date")
	ErrCandidateNoAmount     = errors.New("candidate amount must be positive")
	ErrCandidateInstallments = errors.New("candidate installment fields are inconsistent")
)

// Validate checks the structural invariants of a candidate.
func (c *Candidate) Validate() error {
	if c.Date.IsZero() {
		return ErrCandidateNoDate
	}
	if c.Amount <= 0 {
		return fmt.Errorf("%w: %.2f", ErrCandidateNoAmount, c.Amount)
	}
	if (c.InstallmentNumber > 0) != (c.TotalInstallments > 0) {
		return ErrCandidateInstallments
	}
	if c.InstallmentNumber > c.TotalInstallments {
		return fmt.Errorf("%w: %d/%d", ErrCandidateInstallments, c.InstallmentNumber, c.TotalInstallments)
	}
	return nil
}
