package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/PDA080442/personal-finance-app/internal/core"
	"github.com/PDA080442/personal-finance-app/internal/storage"
)

const timestampLayout = "2006-01-02 15:04:05"

func addCmd() *cobra.Command {
	var (
		kindFlag string
		atFlag   string
	)

	cmd := &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Record an expense or income",
		Long: `Record a ledger entry. The amount accepts a dot or comma decimal
separator ("12.50" and "12,50" are equivalent).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := core.ParseDecimalToCents(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			kind, err := core.ParseKind(kindFlag)
			if err != nil {
				return err
			}

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var rec core.Record
			if atFlag != "" {
				ts, err := time.ParseInLocation(timestampLayout, atFlag, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --at value %q, want YYYY-MM-DD HH:MM:SS", atFlag)
				}
				rec, err = ledger.AddRecordAt(ctx, args[0], core.Money{Cents: cents}, kind, ts)
				if err != nil {
					return err
				}
			} else {
				rec, err = ledger.AddRecord(ctx, args[0], core.Money{Cents: cents}, kind)
				if err != nil {
					return err
				}
			}

			fmt.Printf("Recorded %s %s in %s (id %d)\n", rec.Kind, rec.Amount, rec.Category, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "expense", "record kind (expense, income)")
	cmd.Flags().StringVar(&atFlag, "at", "", "record timestamp (YYYY-MM-DD HH:MM:SS, default now)")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		categoryFlag string
		fromFlag     string
		toFlag       string
		kindFlag     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f := storage.Filter{Category: categoryFlag}
			if fromFlag != "" {
				d, err := core.ParseDate(fromFlag)
				if err != nil {
					return fmt.Errorf("invalid --from date %q: %w", fromFlag, err)
				}
				f.From = d.Time
			}
			if toFlag != "" {
				d, err := core.ParseDate(toFlag)
				if err != nil {
					return fmt.Errorf("invalid --to date %q: %w", toFlag, err)
				}
				f.To = d.Time
			}
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
			printRecords(records)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "filter by category name")
	cmd.Flags().StringVar(&fromFlag, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "filter by kind (expense, income)")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search records by category, amount, or date",
		Long: `Search matches the term as a case-insensitive substring against the
category name, the amount with two decimals, and the timestamp text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := ledger.SearchRecords(ctx, args[0])
			if err != nil {
				return err
			}
			printRecords(records)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := ledger.DeleteRecord(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted record %d\n", id)
			return nil
		},
	}
}

func printRecords(records []core.Record) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tCategory\tAmount\tDate\tKind")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Category, rec.Amount, rec.Timestamp.Format(timestampLayout), rec.Kind)
	}
}
