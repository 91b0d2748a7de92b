package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/insight"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

func newAdvisor(a *app) (*insight.Advisor, error) {
	return insight.NewAdvisor(a.llm, a.store, a.logger)
}

func adviseCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Get savings advice for a month of spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			when := time.Now()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("invalid month %q, expected YYYY-MM", month), err)
				}
				when = parsed
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			advisor, err := newAdvisor(a)
			if err != nil {
				return err
			}
			advice, err := advisor.SavingsAdvice(cmd.Context(), a.userID, when)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.ChartIcon+" Savings advice for "+when.Format("January 2006"), advice))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to analyze (YYYY-MM, default current month)")

	return cmd
}

func predictCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast this month's spending from previous months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			advisor, err := newAdvisor(a)
			if err != nil {
				return err
			}
			forecast, err := advisor.PredictNextMonth(cmd.Context(), a.userID, months)
			if errors.Is(err, common.ErrNoTransactions) {
				return common.NewUserError("need at least one month of spending history to predict", err)
			}
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Predicted total: %s\n", cli.BoldStyle.Render(model.FormatAmount(forecast.Total)))
			categories := make([]string, 0, len(forecast.ByCategory))
			for name := range forecast.ByCategory {
				categories = append(categories, name)
			}
			sort.Slice(categories, func(i, j int) bool {
				return forecast.ByCategory[categories[i]].GreaterThan(forecast.ByCategory[categories[j]])
			})
			for _, name := range categories {
				fmt.Fprintf(&b, "  • %s: %s\n", name, model.FormatAmount(forecast.ByCategory[name]))
			}
			b.WriteString("\n" + forecast.Explanation)
			if forecast.Fallback {
				b.WriteString("\n" + cli.SubtleStyle.Render("(language model unavailable, showing the monthly average)"))
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.ChartIcon+" Forecast for "+forecast.Month, b.String()))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", insight.DefaultHistoryMonths, "completed months of history to use")

	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about your spending",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			advisor, err := newAdvisor(a)
			if err != nil {
				return err
			}
			answer, err := advisor.Chat(cmd.Context(), a.userID, strings.Join(args, " "), nil)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RobotIcon+" "+answer)
			return nil
		},
	}
}
