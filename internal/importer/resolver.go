package importer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/parser"
)

// Defaults for entities the resolver has to create when a statement names a
// bank the user has never registered. The card numbers are placeholders the
// user is expected to correct afterwards.
const (
	defaultCardLimit      = 1000.0
	defaultCardClosingDay = 1
	defaultCardDueDay     = 10

	fallbackAccountName = "Conta Importada"
	fallbackCardName    = "Cartão Importado"
)

// Resolver maps a candidate's bank name to a destination account or card id.
// Matching is a bidirectional case-folded substring check ("Nubank" matches a
// statement naming "NUBANK MASTERCARD" and vice versa). When nothing matches,
// the resolver mints a default entity once per bank name and hands every later
// candidate of the same name the same id.
type Resolver struct {
	accounts []indexEntry
	cards    []indexEntry
	resolved map[string]string

	newAccounts []model.Account
	newCards    []model.CreditCard

	// Forced destinations. When set, every candidate of the matching source
	// type goes there and no matching or creation happens.
	accountOverride string
	cardOverride    string
}

type indexEntry struct {
	id   string
	name string
}

// NewResolver indexes the existing accounts and cards.
func NewResolver(accounts []model.Account, cards []model.CreditCard) *Resolver {
	r := &Resolver{resolved: make(map[string]string)}
	for _, a := range accounts {
		r.accounts = append(r.accounts, indexEntry{id: a.ID, name: strings.ToLower(strings.TrimSpace(a.Name))})
	}
	for _, c := range cards {
		r.cards = append(r.cards, indexEntry{id: c.ID, name: strings.ToLower(strings.TrimSpace(c.Name))})
	}
	return r
}

// ForceAccount routes all account-sourced candidates to one account id.
func (r *Resolver) ForceAccount(id string) { r.accountOverride = id }

// ForceCard routes all card-sourced candidates to one card id.
func (r *Resolver) ForceCard(id string) { r.cardOverride = id }

// Resolve returns the destination id for a candidate, creating a default
// account or card when no existing entity matches the candidate's bank name.
// Statement metadata, when present, seeds the created card's limit and cycle
// days.
func (r *Resolver) Resolve(c model.Candidate, meta parser.Metadata) string {
	if c.SourceType == model.SourceAccount && r.accountOverride != "" {
		return r.accountOverride
	}
	if c.SourceType == model.SourceCard && r.cardOverride != "" {
		return r.cardOverride
	}

	bank := strings.ToLower(strings.TrimSpace(c.BankName))
	key := string(c.SourceType) + "|" + bank
	if id, ok := r.resolved[key]; ok {
		return id
	}

	index := r.accounts
	if c.SourceType == model.SourceCard {
		index = r.cards
	}
	if bank != "" {
		for _, entry := range index {
			if strings.Contains(entry.name, bank) || strings.Contains(bank, entry.name) {
				r.resolved[key] = entry.id
				return entry.id
			}
		}
	}

	id := r.create(c, meta)
	r.resolved[key] = id
	return id
}

// NewAccounts returns the accounts minted during resolution, for the batch.
func (r *Resolver) NewAccounts() []model.Account { return r.newAccounts }

// NewCards returns the cards minted during resolution, for the batch.
func (r *Resolver) NewCards() []model.CreditCard { return r.newCards }

func (r *Resolver) create(c model.Candidate, meta parser.Metadata) string {
	name := strings.TrimSpace(c.BankName)

	if c.SourceType == model.SourceCard {
		if name == "" {
			name = fallbackCardName
		}
		card := model.CreditCard{
			ID:         uuid.NewString(),
			Name:       name,
			Limit:      defaultCardLimit,
			ClosingDay: defaultCardClosingDay,
			DueDay:     defaultCardDueDay,
		}
		if meta.Limit > 0 {
			card.Limit = meta.Limit
		}
		if meta.ClosingDay >= 1 && meta.ClosingDay <= 31 {
			card.ClosingDay = meta.ClosingDay
		}
		if meta.DueDay >= 1 && meta.DueDay <= 31 {
			card.DueDay = meta.DueDay
		}
		r.newCards = append(r.newCards, card)
		r.cards = append(r.cards, indexEntry{id: card.ID, name: strings.ToLower(card.Name)})
		return card.ID
	}

	if name == "" {
		name = fallbackAccountName
	}
	account := model.Account{
		ID:   uuid.NewString(),
		Name: name,
		Type: "checking",
	}
	r.newAccounts = append(r.newAccounts, account)
	r.accounts = append(r.accounts, indexEntry{id: account.ID, name: strings.ToLower(account.Name)})
	return account.ID
}
