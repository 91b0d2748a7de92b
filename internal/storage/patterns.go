package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

const patternColumns = `p.id, p.category_id, p.keyword, p.weight, p.occurrences, p.created_at, p.updated_at`

func scanPattern(row rowScanner) (model.Pattern, error) {
	var p model.Pattern
	err := row.Scan(&p.ID, &p.CategoryID, &p.Keyword, &p.Weight, &p.Occurrences, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPatterns returns the user's learned patterns ordered by descending weight.
// When categoryID is set only that category's patterns are returned.
func (s *SQLiteStorage) ListPatterns(ctx context.Context, userID string, categoryID *int) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + patternColumns + `
		FROM category_patterns p
		JOIN categories c ON c.id = p.category_id
		WHERE c.user_id = ?`
	args := []any{userID}
	if categoryID != nil {
		query += ` AND p.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY p.weight DESC, p.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}

	return patterns, nil
}

// ListCategoryPatterns loads every category of the user together with its
// patterns, heaviest first. Categories without patterns are included with an
// empty slice.
func (s *SQLiteStorage) ListCategoryPatterns(ctx context.Context, userID string) ([]model.CategoryPatterns, error) {
	categories, err := s.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	patterns, err := s.ListPatterns(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int][]model.Pattern, len(categories))
	for _, p := range patterns {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	result := make([]model.CategoryPatterns, 0, len(categories))
	for _, cat := range categories {
		result = append(result, model.CategoryPatterns{
			Category: cat,
			Patterns: byCategory[cat.ID],
		})
	}

	return result, nil
}

// UpsertPattern records one observation of keyword for the category. The
// increment happens inside a single INSERT ... ON CONFLICT statement so
// concurrent learners never lose an update.
func (s *SQLiteStorage) UpsertPattern(ctx context.Context, categoryID int, keyword string) (*model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return nil, err
	}
	if categoryID <= 0 {
		return nil, fmt.Errorf("%w: category ID %d", ErrInvalidCategory, categoryID)
	}
	keyword = strings.TrimSpace(keyword)

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_patterns (category_id, keyword, weight, occurrences, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (category_id, keyword) DO UPDATE SET
			occurrences = occurrences + 1,
			weight = weight + ?,
			updated_at = excluded.updated_at`,
		categoryID, keyword, model.InitialPatternWeight, now, now, model.PatternWeightStep)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pattern %q: %w", keyword, err)
	}

	p, err := scanPattern(s.db.QueryRowContext(ctx, `
		SELECT `+patternColumns+`
		FROM category_patterns p
		WHERE p.category_id = ? AND p.keyword = ?`, categoryID, keyword))
	if err != nil {
		return nil, fmt.Errorf("failed to read back pattern %q: %w", keyword, err)
	}

	return &p, nil
}
