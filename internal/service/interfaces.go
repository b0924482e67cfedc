// Package service defines the interfaces between the application's layers.
package service

import (
	"context"
	"time"

	"github.com/grana-app/grana/internal/model"
)

// ImportBatch is everything one reconciliation commit writes: the approved
// transactions, the balance deltas they imply, and any entities the resolver
// had to create. The storage layer applies it atomically.
type ImportBatch struct {
	BalanceDeltas map[string]float64
	NewAccounts   []model.Account
	NewCards      []model.CreditCard
	Transactions  []model.Transaction
}

// Storage is the persistence surface the rest of the application depends on.
type Storage interface {
	// Accounts.
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// Credit cards.
	CreateCard(ctx context.Context, card *model.CreditCard) error
	GetCard(ctx context.Context, id string) (*model.CreditCard, error)
	ListCards(ctx context.Context) ([]model.CreditCard, error)

	// Transactions. The three single-record mutations apply the same
	// balance-consistency discipline as ApplyImportBatch, each inside its own
	// database transaction.
	AddTransaction(ctx context.Context, tx *model.Transaction) error
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, start, end time.Time) ([]model.Transaction, error)

	// Custom categories.
	CreateCustomCategory(ctx context.Context, cat *model.Category) error
	ListCustomCategories(ctx context.Context) ([]model.Category, error)

	// ApplyImportBatch commits a reconciliation batch in one database
	// transaction: all of it becomes visible, or none of it.
	ApplyImportBatch(ctx context.Context, batch *ImportBatch) error

	Close() error
}

// Extractor is the AI statement-extraction collaborator.
type Extractor interface {
	Extract(ctx context.Context, input ExtractionInput) ([]model.Candidate, error)
}

// ExtractionInput is the raw material handed to the extractor: document bytes
// with a MIME type, or plain text.
type ExtractionInput struct {
	MIMEType string
	Text     string
	Data     []byte
}
