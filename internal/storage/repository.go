// Package storage owns the durable ledger state: records, categories and
// recurring expense templates in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"

	_ "modernc.org/sqlite"
)

// timestampLayout is how record timestamps are stored. Text timestamps in
// this form order correctly under string comparison.
const timestampLayout = "2006-01-02 15:04:05"

// Filter narrows FilteredRecords. Zero-valued fields match everything;
// predicates combine with AND.
type Filter struct {
	// Category filters by exact category name. Empty or the
	// core.AllCategories sentinel disables the predicate.
	Category string
	// From and To bound the record's calendar date, inclusive.
	From time.Time
	To   time.Time
	// Kind restricts to expenses or incomes when non-empty.
	Kind core.Kind
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertRecord persists a record, filling the timestamp with the current
// time when none is supplied, and returns the stored row.
func (r *SQLiteRepository) InsertRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.Timestamp = rec.Timestamp.UTC().Truncate(time.Second)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO records (category, amount_cents, timestamp, kind)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		rec.Category, rec.Amount.Cents, rec.Timestamp.Format(timestampLayout), string(rec.Kind),
	).Scan(&rec.ID)
	if err != nil {
		return core.Record{}, fmt.Errorf("insert record: %w", err)
	}

	slog.InfoContext(ctx, "Record saved",
		"id", rec.ID,
		"category", rec.Category,
		"amount_cents", rec.Amount.Cents,
		"kind", rec.Kind)

	return rec, nil
}

// DeleteRecord removes a record by id. Deleting an id that does not exist
// is a silent no-op.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// ListRecords returns every record in storage order.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, timestamp, kind FROM records`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// FilteredRecords returns records matching every supplied predicate.
func (r *SQLiteRepository) FilteredRecords(ctx context.Context, f Filter) ([]core.Record, error) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" && f.Category != core.AllCategories {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		conds = append(conds, "date(timestamp) >= ?")
		args = append(args, f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date(timestamp) <= ?")
		args = append(args, f.To.Format("2006-01-02"))
	}
	if f.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(f.Kind))
	}

	query := `SELECT id, category, amount_cents, timestamp, kind FROM records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchRecords matches term as a case-insensitive substring against the
// category, the amount rendered with two decimals, or the timestamp text.
// Any one field matching is enough.
func (r *SQLiteRepository) SearchRecords(ctx context.Context, term string) ([]core.Record, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, timestamp, kind FROM records
		 WHERE category LIKE ?1
		    OR printf('%.2f', amount_cents / 100.0) LIKE ?1
		    OR timestamp LIKE ?1`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecordCategories returns the distinct category names appearing in
// records, independent of the categories table.
func (r *SQLiteRepository) RecordCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM records ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("record categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddCategory creates a named category. Names are unique across the table.
func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) (core.Category, error) {
	exists, err := r.categoryNameExists(ctx, name)
	if err != nil {
		return core.Category{}, err
	}
	if exists {
		return core.Category{}, fmt.Errorf("add category %q: %w", name, core.ErrDuplicateCategory)
	}

	c := core.Category{Name: name}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES (?) RETURNING id`, name,
	).Scan(&c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	return c, nil
}

// RenameCategory changes a category's name. The id must exist and the new
// name must not collide with another category.
func (r *SQLiteRepository) RenameCategory(ctx context.Context, id int64, newName string) error {
	exists, err := r.categoryNameExists(ctx, newName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("rename category to %q: %w", newName, core.ErrDuplicateCategory)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return requireRow(res, "category", id)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	// Records reference categories by name copy, so this never cascades.
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category", id)
}

func (r *SQLiteRepository) categoryNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return exists, nil
}

// InsertRecurringExpense persists a recurring template and returns it with
// its assigned id.
func (r *SQLiteRepository) InsertRecurringExpense(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO recurring_expenses (category, amount_cents, interval, next_due_date)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		re.Category, re.Amount.Cents, string(re.Interval), re.NextDue.String(),
	).Scan(&re.ID)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring expense: %w", err)
	}
	return re, nil
}

func (r *SQLiteRepository) ListRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	return r.queryRecurring(ctx,
		`SELECT id, category, amount_cents, interval, next_due_date FROM recurring_expenses`)
}

// DueRecurringExpenses returns templates whose next due date has arrived
// or passed relative to asOf.
func (r *SQLiteRepository) DueRecurringExpenses(ctx context.Context, asOf core.Date) ([]core.RecurringExpense, error) {
	return r.queryRecurring(ctx,
		`SELECT id, category, amount_cents, interval, next_due_date FROM recurring_expenses
		 WHERE next_due_date <= ?`,
		asOf.String())
}

func (r *SQLiteRepository) DeleteRecurringExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return requireRow(res, "recurring expense", id)
}

// MaterializeRecurringExpense turns one due template into a ledger record
// and advances its next due date in a single transaction. Either both
// writes land or neither does.
func (r *SQLiteRepository) MaterializeRecurringExpense(ctx context.Context, re core.RecurringExpense, recordTime time.Time, nextDue core.Date) (core.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Record{}, fmt.Errorf("begin materialize: %w", err)
	}
	defer tx.Rollback()

	rec := core.Record{
		Category:  re.Category,
		Amount:    re.Amount,
		Timestamp: recordTime.UTC().Truncate(time.Second),
		Kind:      core.Expense,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO records (category, amount_cents, timestamp, kind)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		rec.Category, rec.Amount.Cents, rec.Timestamp.Format(timestampLayout), string(rec.Kind),
	).Scan(&rec.ID)
	if err != nil {
		return core.Record{}, fmt.Errorf("materialize record: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE recurring_expenses SET next_due_date = ? WHERE id = ?`,
		nextDue.String(), re.ID)
	if err != nil {
		return core.Record{}, fmt.Errorf("advance next due date: %w", err)
	}
	if err := requireRow(res, "recurring expense", re.ID); err != nil {
		return core.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Record{}, fmt.Errorf("commit materialize: %w", err)
	}

	slog.InfoContext(ctx, "Recurring expense materialized",
		"recurring_id", re.ID,
		"record_id", rec.ID,
		"category", re.Category,
		"amount_cents", re.Amount.Cents,
		"next_due", nextDue.String())

	return rec, nil
}

func (r *SQLiteRepository) queryRecurring(ctx context.Context, query string, args ...any) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringExpense
	for rows.Next() {
		var (
			re       core.RecurringExpense
			interval string
			nextDue  string
		)
		if err := rows.Scan(&re.ID, &re.Category, &re.Amount.Cents, &interval, &nextDue); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		re.Interval = core.Interval(interval)
		re.NextDue, err = core.ParseDate(nextDue)
		if err != nil {
			return nil, fmt.Errorf("recurring expense %d: bad next due date %q", re.ID, nextDue)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]core.Record, error) {
	var out []core.Record
	for rows.Next() {
		var (
			rec  core.Record
			ts   string
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.Amount.Cents, &ts, &kind); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		parsed, err := time.ParseInLocation(timestampLayout, ts, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("record %d: bad timestamp %q", rec.ID, ts)
		}
		rec.Timestamp = parsed
		rec.Kind = core.Kind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// requireRow maps a zero-row update or delete to core.ErrNotFound.
func requireRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, core.ErrNotFound)
	}
	return nil
}
