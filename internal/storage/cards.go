package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grana-app/grana/internal/model"
)

// CreateCard persists a new credit card.
func (s *SQLiteStorage) CreateCard(ctx context.Context, card *model.CreditCard) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_cards (id, name, credit_limit, closing_day, due_day, color)
		VALUES (?, ?, ?, ?, ?, ?)
	`, card.ID, card.Name, card.Limit, card.ClosingDay, card.DueDay, card.Color)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCard fetches a credit card by id.
func (s *SQLiteStorage) GetCard(ctx context.Context, id string) (*model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, credit_limit, closing_day, due_day, color, created_at
		FROM credit_cards WHERE id = ?
	`, id)

	var card model.CreditCard
	var color sql.NullString
	err := row.Scan(&card.ID, &card.Name, &card.Limit, &card.ClosingDay,
		&card.DueDay, &color, &card.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	card.Color = color.String
	return &card, nil
}

// ListCards returns every credit card, ordered by name.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, credit_limit, closing_day, due_day, color, created_at
		FROM credit_cards ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.CreditCard
	for rows.Next() {
		var card model.CreditCard
		var color sql.NullString
		if err := rows.Scan(&card.ID, &card.Name, &card.Limit, &card.ClosingDay,
			&card.DueDay, &color, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		card.Color = color.String
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
