package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustInsert(t *testing.T, repo *SQLiteRepository, category string, cents int64, ts time.Time, kind core.Kind) core.Record {
	t.Helper()
	rec, err := repo.InsertRecord(context.Background(), core.Record{
		Category:  category,
		Amount:    core.Money{Cents: cents},
		Timestamp: ts,
		Kind:      kind,
	})
	require.NoError(t, err)
	return rec
}

func TestInsertAndListRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	ts := time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)
	rec := mustInsert(t, repo, "Food", 1250, ts, core.Expense)
	assert.NotZero(t, rec.ID)

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Food", records[0].Category)
	assert.Equal(t, int64(1250), records[0].Amount.Cents)
	assert.Equal(t, core.Expense, records[0].Kind)
	assert.True(t, records[0].Timestamp.Equal(ts))
}

func TestInsertRecordDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	rec, err := repo.InsertRecord(ctx, core.Record{
		Category: "Food",
		Amount:   core.Money{Cents: 100},
		Kind:     core.Income,
	})
	require.NoError(t, err)
	assert.False(t, rec.Timestamp.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), rec.Timestamp, 5*time.Second)
}

func TestDeleteRecordUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	mustInsert(t, repo, "Food", 100, time.Now(), core.Expense)

	require.NoError(t, repo.DeleteRecord(ctx, 999))

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1, "unknown-id delete must leave the store unchanged")
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	rec := mustInsert(t, repo, "Food", 100, time.Now(), core.Expense)
	require.NoError(t, repo.DeleteRecord(ctx, rec.ID))

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFilteredRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	mustInsert(t, repo, "Food", 1000, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), core.Expense)
	mustInsert(t, repo, "Food", 2000, time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), core.Expense)
	mustInsert(t, repo, "Rent", 3000, time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), core.Expense)
	mustInsert(t, repo, "Salary", 4000, time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC), core.Income)

	tests := []struct {
		name       string
		filter     Filter
		wantCents  []int64
	}{
		{
			name:      "no predicates match everything",
			filter:    Filter{},
			wantCents: []int64{1000, 2000, 3000, 4000},
		},
		{
			name:      "all-categories sentinel disables category predicate",
			filter:    Filter{Category: core.AllCategories},
			wantCents: []int64{1000, 2000, 3000, 4000},
		},
		{
			name:      "by category",
			filter:    Filter{Category: "Food"},
			wantCents: []int64{1000, 2000},
		},
		{
			name: "by date range inclusive of end day",
			filter: Filter{
				From: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			},
			wantCents: []int64{2000, 3000},
		},
		{
			name:      "by kind",
			filter:    Filter{Kind: core.Income},
			wantCents: []int64{4000},
		},
		{
			name: "predicates combine with AND",
			filter: Filter{
				Category: "Food",
				From:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
				Kind:     core.Expense,
			},
			wantCents: []int64{2000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.FilteredRecords(ctx, tt.filter)
			require.NoError(t, err)

			var got []int64
			for _, r := range records {
				got = append(got, r.Amount.Cents)
			}
			assert.ElementsMatch(t, tt.wantCents, got)
		})
	}
}

func TestSearchRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	mustInsert(t, repo, "Food", 15000, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), core.Expense)
	mustInsert(t, repo, "Cinema", 700, time.Date(2024, 6, 11, 18, 30, 50, 0, time.UTC), core.Expense)
	mustInsert(t, repo, "Transport", 1200, time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC), core.Expense)

	t.Run("matches amount text and timestamp text", func(t *testing.T) {
		// "50" appears in 150.00 and in the 18:30:50 timestamp, but
		// nowhere in the Transport record.
		records, err := repo.SearchRecords(ctx, "50")
		require.NoError(t, err)

		var categories []string
		for _, r := range records {
			categories = append(categories, r.Category)
		}
		assert.ElementsMatch(t, []string{"Food", "Cinema"}, categories)
	})

	t.Run("matches category case-insensitively", func(t *testing.T) {
		records, err := repo.SearchRecords(ctx, "transPORT")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Transport", records[0].Category)
	})

	t.Run("no match", func(t *testing.T) {
		records, err := repo.SearchRecords(ctx, "yacht")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestRecordCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	mustInsert(t, repo, "Food", 100, time.Now(), core.Expense)
	mustInsert(t, repo, "Food", 200, time.Now(), core.Expense)
	mustInsert(t, repo, "Rent", 300, time.Now(), core.Expense)

	names, err := repo.RecordCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Rent"}, names)
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := repo.AddCategory(ctx, "Food")
		require.NoError(t, err)

		_, err = repo.AddCategory(ctx, "Food")
		assert.ErrorIs(t, err, core.ErrDuplicateCategory)

		cats, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 1, "store must retain exactly one Food category")
	})

	t.Run("rename", func(t *testing.T) {
		cat, err := repo.AddCategory(ctx, "Grocceries")
		require.NoError(t, err)

		require.NoError(t, repo.RenameCategory(ctx, cat.ID, "Groceries"))

		assert.ErrorIs(t, repo.RenameCategory(ctx, 9999, "Whatever"), core.ErrNotFound)
		assert.ErrorIs(t, repo.RenameCategory(ctx, cat.ID, "Food"), core.ErrDuplicateCategory)
	})

	t.Run("delete", func(t *testing.T) {
		cat, err := repo.AddCategory(ctx, "Ephemeral")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteCategory(ctx, cat.ID))
		assert.ErrorIs(t, repo.DeleteCategory(ctx, cat.ID), core.ErrNotFound)
	})

	t.Run("deleting a category leaves records referencing it", func(t *testing.T) {
		cat, err := repo.AddCategory(ctx, "Hobbies")
		require.NoError(t, err)
		mustInsert(t, repo, "Hobbies", 500, time.Now(), core.Expense)

		require.NoError(t, repo.DeleteCategory(ctx, cat.ID))

		records, err := repo.FilteredRecords(ctx, Filter{Category: "Hobbies"})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestRecurringExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	re, err := repo.InsertRecurringExpense(ctx, core.RecurringExpense{
		Category: "Rent",
		Amount:   core.Money{Cents: 50000},
		Interval: core.Monthly,
		NextDue:  core.NewDate(2024, 1, 15),
	})
	require.NoError(t, err)
	assert.NotZero(t, re.ID)

	t.Run("list round trip", func(t *testing.T) {
		all, err := repo.ListRecurringExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Rent", all[0].Category)
		assert.Equal(t, core.Monthly, all[0].Interval)
		assert.Equal(t, "2024-01-15", all[0].NextDue.String())
	})

	t.Run("due selection", func(t *testing.T) {
		due, err := repo.DueRecurringExpenses(ctx, core.NewDate(2024, 1, 15))
		require.NoError(t, err)
		assert.Len(t, due, 1, "next due on asOf is due")

		due, err = repo.DueRecurringExpenses(ctx, core.NewDate(2024, 1, 14))
		require.NoError(t, err)
		assert.Empty(t, due, "future next due is pending")
	})

	t.Run("delete unknown id", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteRecurringExpense(ctx, 777), core.ErrNotFound)
	})
}

func TestMaterializeRecurringExpense(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	re, err := repo.InsertRecurringExpense(ctx, core.RecurringExpense{
		Category: "Rent",
		Amount:   core.Money{Cents: 50000},
		Interval: core.Monthly,
		NextDue:  core.NewDate(2024, 1, 15),
	})
	require.NoError(t, err)

	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rec, err := repo.MaterializeRecurringExpense(ctx, re, asOf, core.NewDate(2024, 2, 1))
	require.NoError(t, err)

	assert.Equal(t, "Rent", rec.Category)
	assert.Equal(t, int64(50000), rec.Amount.Cents)
	assert.Equal(t, core.Expense, rec.Kind)

	all, err := repo.ListRecurringExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-02-01", all[0].NextDue.String())

	t.Run("vanished template rolls back the record", func(t *testing.T) {
		ghost := re
		ghost.ID = 4242

		_, err := repo.MaterializeRecurringExpense(ctx, ghost, asOf, core.NewDate(2024, 3, 1))
		assert.ErrorIs(t, err, core.ErrNotFound)

		records, err := repo.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1, "failed materialization must not leave a record behind")
	})
}
