package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

const (
	defaultListLimit     = 50
	defaultSummaryMonths = 6
	descriptionWidth     = 40
)

// listFilter turns the transactions flags into a store filter. Month is
// YYYY-MM and selects that whole calendar month.
func listFilter(month, category string, limit int) (service.TransactionFilter, error) {
	if limit < 0 {
		return service.TransactionFilter{}, common.NewUserError("--limit must not be negative", nil)
	}

	filter := service.TransactionFilter{
		Category: strings.TrimSpace(category),
		Limit:    limit,
	}
	if month == "" {
		return filter, nil
	}

	start, err := time.Parse("2006-01", month)
	if err != nil {
		return service.TransactionFilter{}, common.NewUserError(fmt.Sprintf("invalid month %q, expected YYYY-MM", month), err)
	}
	end := start.AddDate(0, 1, 0)
	filter.StartDate = &start
	filter.EndDate = &end
	return filter, nil
}

func transactionRows(txns []model.Transaction) [][]string {
	rows := make([][]string, 0, len(txns))
	for i := range txns {
		txn := &txns[i]
		rows = append(rows, []string{
			txn.ID,
			txn.Date.Format("2006-01-02"),
			model.FormatAmount(txn.Amount),
			shorten(txn.Description(), descriptionWidth),
			txn.Category,
		})
	}
	return rows
}

func shorten(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func transactionsCmd() *cobra.Command {
	var (
		month    string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List stored transactions, newest first",
		Long: `List stored transactions with their IDs, newest first. Use an ID with
'spice label' to correct a category and teach the categorizer.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := listFilter(month, category, limit)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.store.GetTransactions(cmd.Context(), a.userID, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions found. Import a statement with 'spice import'."))
				return nil
			}

			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Amount", "Description", "Category"}, transactionRows(txns)))
			fmt.Fprintln(out, cli.SubtleStyle.Render("Wrong category? Teach me with: spice label <id> <category>"))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only this month (YYYY-MM)")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum number of transactions (0 for all)")

	return cmd
}

// categoryRows renders a month's category totals with each one's share.
func categoryRows(summary []model.CategoryTotal) [][]string {
	total := decimal.Zero
	for _, c := range summary {
		total = total.Add(c.Total)
	}

	rows := make([][]string, 0, len(summary))
	for _, c := range summary {
		share := "0%"
		if total.IsPositive() {
			share = c.Total.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
		}
		rows = append(rows, []string{c.Category, model.FormatAmount(c.Total), share})
	}
	return rows
}

// monthChange compares the last month of history with the one before it.
// The percentage is empty when there is nothing to compare against.
func monthChange(history []model.MonthlyTotal) (decimal.Decimal, string) {
	if len(history) < 2 {
		return decimal.Zero, ""
	}
	prev := history[len(history)-2].Total
	change := history[len(history)-1].Total.Sub(prev)
	if !prev.IsPositive() {
		return change, ""
	}
	return change, change.Div(prev).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func summaryCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize this month's spending and the monthly trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 {
				return common.NewUserError("--months must be at least 1", nil)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().UTC()
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			current, err := a.store.GetCategorySummary(cmd.Context(), a.userID, start, start.AddDate(0, 1, 0))
			if err != nil {
				return fmt.Errorf("failed to summarize categories: %w", err)
			}
			history, err := a.store.GetMonthlyTotals(cmd.Context(), a.userID, now, max(months, 2))
			if err != nil {
				return fmt.Errorf("failed to load monthly totals: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Spending in "+now.Format("January 2006")))
			if len(current) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No spending recorded this month."))
			} else {
				fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Total", "Share"}, categoryRows(current)))
			}

			if change, pct := monthChange(history); pct != "" {
				fmt.Fprintf(out, "\nCompared with last month: %s (%s)\n", model.FormatAmount(change), pct)
			}

			trend := history[len(history)-months:]
			rows := make([][]string, 0, len(trend))
			for _, m := range trend {
				rows = append(rows, []string{m.Month, model.FormatAmount(m.Total)})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderTable([]string{"Month", "Total"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", defaultSummaryMonths, "months of history in the trend")

	return cmd
}
