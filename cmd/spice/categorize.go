package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/engine"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// transactionFlags describes a single transaction on the command line.
type transactionFlags struct {
	name    string
	remark  string
	account string
	amount  string
	date    string
}

func (f *transactionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "beneficiary name")
	cmd.Flags().StringVar(&f.remark, "remark", "", "transfer remark")
	cmd.Flags().StringVar(&f.account, "account", "", "beneficiary account number")
	cmd.Flags().StringVar(&f.amount, "amount", "0", "amount in VND")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
}

func (f *transactionFlags) transaction() (model.Transaction, error) {
	if strings.TrimSpace(f.name) == "" && strings.TrimSpace(f.remark) == "" {
		return model.Transaction{}, common.NewUserError("--name or --remark is required", nil)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.amount), ",", ""))
	if err != nil {
		return model.Transaction{}, common.NewUserError(fmt.Sprintf("invalid amount %q", f.amount), err)
	}
	if amount.IsNegative() {
		return model.Transaction{}, common.NewUserError("amount must not be negative", nil)
	}

	date := time.Now().UTC()
	if f.date != "" {
		date, err = time.Parse("2006-01-02", f.date)
		if err != nil {
			return model.Transaction{}, common.NewUserError(fmt.Sprintf("invalid date %q", f.date), err)
		}
	}

	return model.Transaction{
		Date:               date,
		Amount:             amount,
		BeneficiaryName:    strings.TrimSpace(f.name),
		BeneficiaryAccount: strings.TrimSpace(f.account),
		Remark:             strings.TrimSpace(f.remark),
	}, nil
}

func categorizeCmd() *cobra.Command {
	var flags transactionFlags
	var save bool

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize a single transaction",
		Example: `  spice categorize --name "Highlands Coffee" --amount 45000
  spice categorize --name "Nguyen Van A" --remark "tra da" --amount 15000 --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txn, err := flags.transaction()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !save {
				fmt.Fprintln(out, cli.FormatCategorization(a.engine.Categorize(cmd.Context(), a.userID, txn)))
				return nil
			}

			result, err := a.engine.Ingest(cmd.Context(), a.userID, []model.Transaction{txn})
			if err != nil {
				return err
			}
			txn.UserID = a.userID
			id := engine.TransactionID(a.userID, txn.GenerateHash())
			if result.Saved == 0 {
				fmt.Fprintln(out, cli.FormatWarning("Transaction already stored as "+id))
				return nil
			}

			stored, err := a.store.GetTransactionByID(cmd.Context(), a.userID, id)
			if err != nil {
				return fmt.Errorf("failed to load stored transaction: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Stored %s as %s", stored.ID, stored.Category)))
			fmt.Fprintln(out, cli.SubtleStyle.Render("Wrong? Teach me with: spice label "+stored.ID+" <category>"))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the categorized transaction")

	return cmd
}

func suggestCmd() *cobra.Command {
	var flags transactionFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show the best learned category candidates for a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txn, err := flags.transaction()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			scores, err := a.matcher.Suggest(cmd.Context(), a.userID, txn, limit)
			if err != nil {
				return fmt.Errorf("failed to score categories: %w", err)
			}
			if len(scores) == 0 || scores[0].Score == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No learned pattern matches. Label a few transactions first."))
				return nil
			}

			rows := make([][]string, 0, len(scores))
			for _, s := range scores {
				rows = append(rows, []string{s.Category, fmt.Sprintf("%.2f", s.Score), strings.Join(s.MatchedPatterns, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Category", "Score", "Matched"}, rows))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVar(&limit, "limit", 3, "number of suggestions")

	return cmd
}
