// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
}

// PatternStore is the persistence contract for learned patterns.
type PatternStore interface {
	// ListPatterns returns a user's patterns heaviest first, optionally limited to one category.
	ListPatterns(ctx context.Context, userID string, categoryID *int) ([]model.Pattern, error)
	// ListCategoryPatterns returns every category of the user with its patterns.
	ListCategoryPatterns(ctx context.Context, userID string) ([]model.CategoryPatterns, error)
	// UpsertPattern atomically creates or reinforces the (categoryID, keyword) pattern.
	UpsertPattern(ctx context.Context, categoryID int, keyword string) (*model.Pattern, error)
}

// CategoryDirectory resolves user categories by name.
type CategoryDirectory interface {
	GetCategories(ctx context.Context, userID string) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error)
	FindOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error)
}

// TransactionStore persists categorized transactions.
type TransactionStore interface {
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactionByID(ctx context.Context, userID, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, userID, id, category string) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	PatternStore
	CategoryDirectory
	TransactionStore

	CreateCategory(ctx context.Context, category *model.Category) error
	RenameCategory(ctx context.Context, userID string, id int, name string) error
	DeleteCategory(ctx context.Context, userID string, id int) error
	SeedDefaultCategories(ctx context.Context, userID string) (int, error)

	GetCategorySummary(ctx context.Context, userID string, start, end time.Time) ([]model.CategoryTotal, error)
	GetMonthlyTotals(ctx context.Context, userID string, end time.Time, months int) ([]model.MonthlyTotal, error)

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for remote calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
