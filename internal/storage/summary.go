package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// GetCategorySummary totals the user's spending per category in [start, end).
// Income is excluded; the result is ordered by descending total.
func (s *SQLiteStorage) GetCategorySummary(ctx context.Context, userID string, start, end time.Time) ([]model.CategoryTotal, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}

	txns, err := s.GetTransactions(ctx, userID, service.TransactionFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if txn.Category == model.CategoryIncome {
			continue
		}
		totals[txn.Category] = totals[txn.Category].Add(txn.Amount)
	}

	summary := make([]model.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		summary = append(summary, model.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary, func(i, j int) bool {
		if !summary[i].Total.Equal(summary[j].Total) {
			return summary[i].Total.GreaterThan(summary[j].Total)
		}
		return summary[i].Category < summary[j].Category
	})

	return summary, nil
}

// GetMonthlyTotals returns spending totals for the given number of calendar
// months ending with the month that contains end, oldest first. Months
// without transactions are included with zero totals.
func (s *SQLiteStorage) GetMonthlyTotals(ctx context.Context, userID string, end time.Time, months int) ([]model.MonthlyTotal, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", ErrInvalidDateRange)
	}

	end = end.UTC()
	lastMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := lastMonth.AddDate(0, -(months - 1), 0)
	until := lastMonth.AddDate(0, 1, 0)

	txns, err := s.GetTransactions(ctx, userID, service.TransactionFilter{StartDate: &start, EndDate: &until})
	if err != nil {
		return nil, err
	}

	result := make([]model.MonthlyTotal, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		result[i] = model.MonthlyTotal{Month: key, ByCategory: make(map[string]decimal.Decimal)}
		index[key] = i
	}

	for _, txn := range txns {
		if txn.Category == model.CategoryIncome {
			continue
		}
		i, ok := index[txn.Date.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		result[i].Total = result[i].Total.Add(txn.Amount)
		result[i].ByCategory[txn.Category] = result[i].ByCategory[txn.Category].Add(txn.Amount)
	}

	return result, nil
}
