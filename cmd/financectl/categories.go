package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category catalog",
		Long: `List, add, rename, and delete catalog categories. Records keep the
category name they were written with, so catalog changes never touch
existing records.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var usedFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if usedFlag {
				names, err := ledger.RecordCategories(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Println("No categories in use.")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			categories, err := ledger.ListCategories(ctx)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Println("No categories found. Use 'financectl categories add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tName")
			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&usedFlag, "used", false, "list distinct categories appearing in records instead of the catalog")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			cat, err := ledger.AddCategory(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added category %q (id %d)\n", cat.Name, cat.ID)
			return nil
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := ledger.RenameCategory(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed category %d to %q\n", id, args[1])
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := ledger.DeleteCategory(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted category %d\n", id)
			return nil
		},
	}
}
