package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/model"
)

// CreateCustomCategory persists a user-defined category. Uniqueness is
// enforced on the (normalized name, type) pair: "Alimentação" and
// "alimentacao" are the same category.
func (s *SQLiteStorage) CreateCustomCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_categories (normalized_name, name, icon, color, type)
		VALUES (?, ?, ?, ?, ?)
	`, category.Normalize(cat.Name), cat.Name, cat.Icon, cat.Color, cat.Type)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("category %q (%s) already exists: %w", cat.Name, cat.Type, ErrInvalidCategory)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCustomCategories returns the user-defined categories, ordered by name.
func (s *SQLiteStorage) ListCustomCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, icon, color, type, created_at
		FROM custom_categories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var icon, color sql.NullString
		if err := rows.Scan(&cat.Name, &icon, &color, &cat.Type, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Icon = icon.String
		cat.Color = color.String
		cat.IsCustom = true
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
