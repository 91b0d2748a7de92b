package model

import "time"

// Generic category names every user has.
const (
	// CategoryOther is the bucket for transactions nothing could place.
	CategoryOther = "Other"
	// CategoryTransfer is the generic bank transfer bucket and the remote classifier default.
	CategoryTransfer = "Transfer"
	// CategoryIncome holds money received; it is left out of spending summaries.
	CategoryIncome = "Income"
)

// Icon and color given to categories created implicitly by learning.
const (
	DefaultCategoryIcon  = "📁"
	DefaultCategoryColor = "#6b7280"
)

// Category represents a user-owned spending category.
type Category struct {
	CreatedAt time.Time
	UserID    string
	Name      string
	Icon      string
	Color     string
	ID        int
	IsDefault bool
}

// DefaultCategories returns the category set created for new users.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food & Dining", Icon: "🍜", Color: "#f59e0b", IsDefault: true},
		{Name: "Transport", Icon: "🚗", Color: "#3b82f6", IsDefault: true},
		{Name: "Shopping", Icon: "🛒", Color: "#ec4899", IsDefault: true},
		{Name: "Bills & Utilities", Icon: "💡", Color: "#8b5cf6", IsDefault: true},
		{Name: "Entertainment", Icon: "🎮", Color: "#10b981", IsDefault: true},
		{Name: "Health", Icon: "💊", Color: "#ef4444", IsDefault: true},
		{Name: "Education", Icon: "📚", Color: "#6366f1", IsDefault: true},
		{Name: CategoryTransfer, Icon: "💸", Color: "#14b8a6", IsDefault: true},
		{Name: CategoryIncome, Icon: "💰", Color: "#22c55e", IsDefault: true},
		{Name: CategoryOther, Icon: "📦", Color: "#6b7280", IsDefault: true},
	}
}

// DefaultCategoryNames returns the names of DefaultCategories in order.
func DefaultCategoryNames() []string {
	defaults := DefaultCategories()
	names := make([]string, len(defaults))
	for i, cat := range defaults {
		names[i] = cat.Name
	}
	return names
}
