package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

const categoryColumns = `id, user_id, name, icon, color, is_default, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.Category, error) {
	var cat model.Category
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.Color, &cat.IsDefault, &cat.CreatedAt)
	return cat, err
}

// GetCategories returns all categories owned by the user.
func (s *SQLiteStorage) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "user_id", userID, "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a user's category by its name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	return s.getCategoryByName(ctx, s.db, userID, strings.TrimSpace(name))
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStorage) getCategoryByName(ctx context.Context, q queryRower, userID, name string) (*model.Category, error) {
	cat, err := scanCategory(q.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = ? AND name = ?`, userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

func (s *SQLiteStorage) getCategoryByID(ctx context.Context, q queryRower, userID string, id int) (*model.Category, error) {
	cat, err := scanCategory(q.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = ? AND id = ?`, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// FindOrCreateCategory returns the named category, creating it with the
// default icon and color when the user does not have it yet. Concurrent
// callers racing on the same name all receive the same row.
func (s *SQLiteStorage) FindOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, icon, color, is_default, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT (user_id, name) DO NOTHING`,
		userID, name, model.DefaultCategoryIcon, model.DefaultCategoryColor, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		slog.Info("created new category", "user_id", userID, "name", name)
	}

	return s.getCategoryByName(ctx, s.db, userID, name)
}

// CreateCategory inserts a new category and fills in its ID.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	category.Name = strings.TrimSpace(category.Name)
	if category.Icon == "" {
		category.Icon = model.DefaultCategoryIcon
	}
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	category.CreatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, icon, color, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.UserID, category.Name, category.Icon, category.Color, category.IsDefault, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	category.ID = int(id)

	slog.Info("created new category", "user_id", category.UserID, "name", category.Name, "id", id)
	return nil
}

// SeedDefaultCategories creates any missing default categories for the user.
// It is idempotent and returns the number of categories created.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	created := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, cat := range model.DefaultCategories() {
			result, err := tx.ExecContext(ctx, `
				INSERT INTO categories (user_id, name, icon, color, is_default, created_at)
				VALUES (?, ?, ?, ?, 1, ?)
				ON CONFLICT (user_id, name) DO NOTHING`,
				userID, cat.Name, cat.Icon, cat.Color, now)
			if err != nil {
				return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
			}
			n, _ := result.RowsAffected()
			created += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// RenameCategory renames a category and moves its transactions to the new name.
func (s *SQLiteStorage) RenameCategory(ctx context.Context, userID string, id int, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getCategoryByID(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if existing.Name == name {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, name)
			}
			return fmt.Errorf("failed to rename category: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE transactions SET category = ?
			WHERE user_id = ? AND category = ?`, name, userID, existing.Name); err != nil {
			return fmt.Errorf("failed to move transactions to renamed category: %w", err)
		}

		slog.Info("renamed category", "user_id", userID, "from", existing.Name, "to", name)
		return nil
	})
}

// DeleteCategory removes a non-default category. Its transactions move to
// Other and its learned patterns are removed with it.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, userID string, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getCategoryByID(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if existing.IsDefault {
			return fmt.Errorf("%w: %q", common.ErrDefaultCategory, existing.Name)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE transactions SET category = ?
			WHERE user_id = ? AND category = ?`, model.CategoryOther, userID, existing.Name); err != nil {
			return fmt.Errorf("failed to reassign transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		slog.Info("deleted category", "user_id", userID, "name", existing.Name)
		return nil
	})
}
