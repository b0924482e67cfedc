// Package importer turns approved statement candidates into persisted
// transactions: it drops duplicates against recent history, resolves each
// candidate to an account or card, expands the remaining installments of
// card purchases, and commits everything as one atomic batch.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grana-app/grana/internal/dedupe"
	"github.com/grana-app/grana/internal/installment"
	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/parser"
	"github.com/grana-app/grana/internal/service"
)

// Options tunes one reconciliation run.
type Options struct {
	// AccountID forces every account-sourced candidate into this account.
	AccountID string
	// CardID forces every card-sourced candidate onto this card.
	CardID string
	// DryRun builds the batch and the summary but commits nothing.
	DryRun bool
}

// Summary is the outcome of a reconciliation run.
type Summary struct {
	Saved              int
	DuplicatesSkipped  int
	Invalid            int
	FutureInstallments int
	NewAccounts        int
	NewCards           int
}

// Add folds another run's counts into this summary, for imports that span
// several statement files.
func (s *Summary) Add(other *Summary) {
	if other == nil {
		return
	}
	s.Saved += other.Saved
	s.DuplicatesSkipped += other.DuplicatesSkipped
	s.Invalid += other.Invalid
	s.FutureInstallments += other.FutureInstallments
	s.NewAccounts += other.NewAccounts
	s.NewCards += other.NewCards
}

// Reconciler drives the approve-dedupe-resolve-commit pipeline.
type Reconciler struct {
	store  service.Storage
	logger *slog.Logger
}

// NewReconciler creates a Reconciler over the given storage.
func NewReconciler(store service.Storage, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// Reconcile persists the selected candidates of a parsed statement.
//
// Only candidates marked Selected participate. Each is checked against the
// persisted transactions inside the batch's date window (widened by the
// dedupe slack) and against the candidates already accepted in this run, so
// importing the same file twice, in one run or two, saves nothing new.
// Card-sourced candidates carrying an installment marker additionally emit
// the plan's remaining installments as pending future transactions.
func (r *Reconciler) Reconcile(ctx context.Context, stmt *parser.Statement, opts Options) (*Summary, error) {
	summary := &Summary{}

	var selected []model.Candidate
	for _, c := range stmt.Candidates {
		if !c.Selected {
			continue
		}
		if err := c.Validate(); err != nil {
			r.logger.Warn("skipping invalid candidate",
				"description", c.Description, "error", err)
			summary.Invalid++
			continue
		}
		selected = append(selected, c)
	}
	if len(selected) == 0 {
		return summary, nil
	}

	detector, err := r.historyDetector(ctx, selected)
	if err != nil {
		return nil, err
	}

	resolver, err := r.buildResolver(ctx, opts)
	if err != nil {
		return nil, err
	}

	batch := &service.ImportBatch{BalanceDeltas: make(map[string]float64)}
	for _, c := range selected {
		if detector.IsDuplicate(c) {
			summary.DuplicatesSkipped++
			continue
		}
		detector.Remember(c)

		destination := resolver.Resolve(c, stmt.Metadata)
		txn := candidateTransaction(c, destination)
		batch.Transactions = append(batch.Transactions, txn)
		summary.Saved++

		if c.SourceType == model.SourceAccount {
			batch.BalanceDeltas[destination] += txn.SignedAmount()
		}

		if c.SourceType == model.SourceCard && c.TotalInstallments > c.InstallmentNumber {
			future := futureInstallments(c, destination)
			batch.Transactions = append(batch.Transactions, future...)
			summary.FutureInstallments += len(future)
		}
	}

	batch.NewAccounts = resolver.NewAccounts()
	batch.NewCards = resolver.NewCards()
	summary.NewAccounts = len(batch.NewAccounts)
	summary.NewCards = len(batch.NewCards)

	if opts.DryRun {
		return summary, nil
	}
	if summary.Saved == 0 && summary.NewAccounts == 0 && summary.NewCards == 0 {
		return summary, nil
	}

	if err := r.store.ApplyImportBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to commit import batch: %w", err)
	}

	r.logger.Info("import committed",
		"saved", summary.Saved,
		"duplicates_skipped", summary.DuplicatesSkipped,
		"future_installments", summary.FutureInstallments,
		"new_accounts", summary.NewAccounts,
		"new_cards", summary.NewCards)
	return summary, nil
}

// historyDetector loads the persisted transactions covering the batch's date
// window and seeds the duplicate detector with them.
func (r *Reconciler) historyDetector(ctx context.Context, candidates []model.Candidate) (*dedupe.Detector, error) {
	start, end, ok := dedupe.Window(candidates)
	if !ok {
		return dedupe.NewDetector(nil), nil
	}
	history, err := r.store.ListTransactions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate-check window: %w", err)
	}
	return dedupe.NewDetector(history), nil
}

func (r *Reconciler) buildResolver(ctx context.Context, opts Options) (*Resolver, error) {
	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	cards, err := r.store.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	resolver := NewResolver(accounts, cards)
	if opts.AccountID != "" {
		if _, err := r.store.GetAccount(ctx, opts.AccountID); err != nil {
			return nil, fmt.Errorf("destination account: %w", err)
		}
		resolver.ForceAccount(opts.AccountID)
	}
	if opts.CardID != "" {
		if _, err := r.store.GetCard(ctx, opts.CardID); err != nil {
			return nil, fmt.Errorf("destination card: %w", err)
		}
		resolver.ForceCard(opts.CardID)
	}
	return resolver, nil
}

func candidateTransaction(c model.Candidate, destination string) model.Transaction {
	return model.Transaction{
		ID:                uuid.NewString(),
		AccountID:         destination,
		Date:              c.Date,
		Description:       c.Description,
		Amount:            c.Amount,
		Type:              c.Type,
		Category:          c.Category,
		Status:            model.StatusCompleted,
		InstallmentNumber: c.InstallmentNumber,
		TotalInstallments: c.TotalInstallments,
	}
}

// futureInstallments emits the not-yet-invoiced tail of an installment plan:
// one pending transaction per remaining month, dated by advancing the parsed
// installment's date, each renumbered in its description. The statement line
// itself covers installment N; these cover N+1 through the total.
func futureInstallments(c model.Candidate, destination string) []model.Transaction {
	total := c.TotalInstallments
	if total > installment.MaxInstallments {
		total = installment.MaxInstallments
	}

	var future []model.Transaction
	for n := c.InstallmentNumber + 1; n <= total; n++ {
		future = append(future, model.Transaction{
			ID:                uuid.NewString(),
			AccountID:         destination,
			Date:              installment.Advance(c.Date, model.FrequencyMonthly, n-c.InstallmentNumber),
			Description:       installment.Renumber(c.Description, n, c.TotalInstallments),
			Amount:            c.Amount,
			Type:              c.Type,
			Category:          c.Category,
			Status:            model.StatusPending,
			InstallmentNumber: n,
			TotalInstallments: c.TotalInstallments,
		})
	}
	return future
}
