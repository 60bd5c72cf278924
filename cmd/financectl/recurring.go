package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring expense templates",
		Long: `Recurring expenses materialize automatically when due: every ledger
command first turns due templates into records and advances their next
due date by one daily, weekly, or monthly cycle.`,
	}

	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(deleteRecurringCmd())
	cmd.AddCommand(processRecurringCmd())

	return cmd
}

func addRecurringCmd() *cobra.Command {
	var startFlag string

	cmd := &cobra.Command{
		Use:   "add <category> <amount> <interval>",
		Short: "Add a recurring expense template",
		Long:  `Interval is one of daily, weekly, or monthly.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := core.ParseDecimalToCents(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			interval, err := core.ParseInterval(args[2])
			if err != nil {
				return err
			}

			nextDue := core.DateOf(nowUTC())
			if startFlag != "" {
				nextDue, err = core.ParseDate(startFlag)
				if err != nil {
					return fmt.Errorf("invalid --start date %q: %w", startFlag, err)
				}
			}

			repo, _, scheduler, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			re, err := scheduler.AddRecurringExpense(ctx, args[0], core.Money{Cents: cents}, interval, nextDue)
			if err != nil {
				return err
			}
			fmt.Printf("Added recurring %s of %s in %s, next due %s (id %d)\n",
				re.Interval, re.Amount, re.Category, re.NextDue, re.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "first due date (YYYY-MM-DD, default today)")
	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring expense templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, _, scheduler, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			expenses, err := scheduler.ListRecurringExpenses(ctx)
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				fmt.Println("No recurring expenses configured.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tCategory\tAmount\tInterval\tNext due")
			for _, re := range expenses {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					re.ID, re.Category, re.Amount, re.Interval, re.NextDue)
			}
			return nil
		},
	}
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring expense template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid recurring expense id %q", args[0])
			}

			repo, _, scheduler, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := scheduler.DeleteRecurringExpense(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted recurring expense %d\n", id)
			return nil
		},
	}
}

func processRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Materialize due recurring expenses now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// openLedger already runs the session-start pass; this command
			// exists to do only that and report the result.
			repo, _, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			fmt.Println("Done.")
			return nil
		},
	}
}
