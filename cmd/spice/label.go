package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
)

func labelCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "label <transaction-id> <category>",
		Short: "Correct a transaction's category and learn from it",
		Long: `Set the category of a stored transaction. The transaction's keywords are
reinforced as patterns for that category, so similar transactions are
recognized next time. Unknown categories are created.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			category := strings.TrimSpace(args[1])
			if _, err := a.store.GetCategoryByName(cmd.Context(), a.userID, category); err != nil {
				if !errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("failed to get category: %w", err)
				}
				if !force {
					if err := guardAgainstTypo(cmd, a, category); err != nil {
						return err
					}
				}
			}

			txn, err := a.engine.Relabel(cmd.Context(), a.userID, args[0], category)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("transaction %q not found", args[0]), nil)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s is now %s", txn.Description(), txn.Category)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "create the category even if a similarly named one exists")

	return cmd
}

func patternsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List learned patterns, heaviest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.store.ListCategoryPatterns(cmd.Context(), a.userID)
			if err != nil {
				return fmt.Errorf("failed to list patterns: %w", err)
			}

			var rows [][]string
			for _, group := range groups {
				if category != "" && !strings.EqualFold(group.Category.Name, category) {
					continue
				}
				for _, p := range group.Patterns {
					rows = append(rows, []string{
						group.Category.Name,
						p.Keyword,
						fmt.Sprintf("%.1f", p.Weight),
						fmt.Sprint(p.Occurrences),
					})
				}
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No patterns learned yet. Use 'spice label' to teach categories."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Category", "Keyword", "Weight", "Seen"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show patterns of this category")

	return cmd
}
