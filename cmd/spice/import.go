package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/ofx"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import and categorize transactions from an OFX/QFX statement",
		Long: `Parse an OFX or QFX bank statement, categorize every new transaction
(learned patterns, then keyword rules, then the language model) and store it.
Re-importing a statement is safe: transactions already stored are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			parser := ofx.NewParser(slog.Default())
			txns, err := parser.ParseFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions found in "+args[0]))
				return nil
			}
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Found %d transactions", len(txns))))

			if dryRun {
				return previewImport(cmd, txns)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			interrupts := cli.NewInterruptHandler(out, "Import")
			ctx, stop := interrupts.HandleInterrupts(cmd.Context(),
				"Transactions stored so far are kept. Re-run the import to continue.")
			defer stop()

			bar := newProgressBar(out, len(txns))
			result, err := a.engine.IngestWithProgress(ctx, a.userID, txns, func(done, _ int) {
				if err := bar.Set(done); err != nil {
					slog.Debug("failed to update progress bar", "error", err)
				}
			})
			if err != nil {
				if interrupts.WasInterrupted() {
					return nil
				}
				return err
			}

			summary := fmt.Sprintf("  • Transactions read: %d\n", result.Total) +
				fmt.Sprintf("  • Newly stored: %d\n", result.Saved) +
				fmt.Sprintf("  • Already known: %d\n", result.Duplicates) +
				fmt.Sprintf("  • %s Learned patterns: %d\n", cli.BrainIcon, result.BySource[model.SourceLearned]) +
				fmt.Sprintf("  • %s Keyword rules: %d\n", cli.RuleIcon, result.BySource[model.SourceRule]) +
				fmt.Sprintf("  • %s Language model: %d", cli.RobotIcon, result.BySource[model.SourceRemote])
			fmt.Fprintln(out, cli.RenderBox("Import Complete", summary))
			fmt.Fprintln(out, cli.SubtleStyle.Render("Review them with 'spice transactions' and fix mistakes with 'spice label <id> <category>'."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the parsed transactions without categorizing or storing them")

	return cmd
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Categorizing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func previewImport(cmd *cobra.Command, txns []model.Transaction) error {
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.Date.Format("2006-01-02"),
			model.FormatAmount(txn.Amount),
			txn.BeneficiaryName,
			strings.TrimSpace(txn.Remark),
			txn.Category,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Date", "Amount", "Beneficiary", "Remark", "Category"}, rows))
	return nil
}
