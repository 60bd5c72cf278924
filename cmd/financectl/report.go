package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PDA080442/personal-finance-app/internal/core"
	"github.com/PDA080442/personal-finance-app/internal/report"
	"github.com/PDA080442/personal-finance-app/internal/storage"
)

func reportCmd() *cobra.Command {
	var (
		periodFlag   string
		categoryFlag string
		kindFlag     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize spending by category and day",
		Long: `Report totals over a named period: today, lastWeek, lastMonth, or
lastYear. An unknown period falls back to today.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			from, to := report.ResolvePeriod(report.Period(periodFlag), nowUTC())

			f := storage.Filter{Category: categoryFlag, From: from, To: to}
			if kindFlag != "" {
				kind, err := core.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				f.Kind = kind
			}

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := ledger.FilteredRecords(ctx, f)
			if err != nil {
				return err
			}

			fmt.Printf("Period %s to %s, %d record(s)\n\n",
				from.Format("2006-01-02"), to.Format("2006-01-02"), len(records))
			if len(records) == 0 {
				return nil
			}

			var total core.Money
			for _, rec := range records {
				total.Cents += rec.Amount.Cents
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Category\tTotal\tShare")
			for _, share := range report.CategoryShares(records) {
				fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", share.Category, share.Total, share.Percent)
			}
			fmt.Fprintf(w, "Total\t%s\t\n", total)
			w.Flush()

			fmt.Println()
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Date\tTotal")
			for _, dt := range report.TotalsByDate(records) {
				fmt.Fprintf(w, "%s\t%s\n", dt.Date, dt.Total)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&periodFlag, "period", "today", "reporting period (today, lastWeek, lastMonth, lastYear)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "restrict to one category")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "restrict to one kind (expense, income)")
	return cmd
}
