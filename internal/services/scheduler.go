package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

// RecurringStore is the persistence surface the scheduler needs,
// implemented by storage.SQLiteRepository. MaterializeRecurringExpense is
// the store's insertion contract: the record insert and the due-date
// advance land in one transaction.
type RecurringStore interface {
	InsertRecurringExpense(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error)
	ListRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error)
	DueRecurringExpenses(ctx context.Context, asOf core.Date) ([]core.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, id int64) error
	MaterializeRecurringExpense(ctx context.Context, re core.RecurringExpense, recordTime time.Time, nextDue core.Date) (core.Record, error)
}

// Scheduler owns recurring expense templates and materializes the due
// ones into ledger records.
type Scheduler struct {
	store RecurringStore
}

func NewScheduler(store RecurringStore) *Scheduler {
	return &Scheduler{store: store}
}

// AddRecurringExpense validates and persists a new recurring template.
func (s *Scheduler) AddRecurringExpense(ctx context.Context, category string, amount core.Money, interval core.Interval, nextDue core.Date) (core.RecurringExpense, error) {
	re := core.RecurringExpense{
		Category: category,
		Amount:   amount,
		Interval: interval,
		NextDue:  nextDue,
	}
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return s.store.InsertRecurringExpense(ctx, re)
}

func (s *Scheduler) ListRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	return s.store.ListRecurringExpenses(ctx)
}

func (s *Scheduler) DeleteRecurringExpense(ctx context.Context, id int64) error {
	return s.store.DeleteRecurringExpense(ctx, id)
}

// DueExpenses returns the templates whose next due date is on or before
// asOf.
func (s *Scheduler) DueExpenses(ctx context.Context, asOf time.Time) ([]core.RecurringExpense, error) {
	return s.store.DueRecurringExpenses(ctx, core.DateOf(asOf))
}

// ProcessDue materializes every due template exactly once: one record
// with the template's category and amount, dated asOf, and one single-
// cycle advance of the due date. It never catches up multiple missed
// cycles in one pass; lagging templates converge over repeated calls
// with an advancing asOf. Per-template failures are logged and skipped
// so one broken template cannot starve the rest. Returns the number of
// templates materialized.
func (s *Scheduler) ProcessDue(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.store.DueRecurringExpenses(ctx, core.DateOf(asOf))
	if err != nil {
		return 0, fmt.Errorf("load due recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing due recurring expenses",
		"due", len(due),
		"as_of", core.DateOf(asOf).String())

	processed := 0
	for _, re := range due {
		next, err := NextDueDate(re.Interval, re.NextDue)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring expense with unknown interval",
				"id", re.ID,
				"interval", re.Interval)
			continue
		}

		rec, err := s.store.MaterializeRecurringExpense(ctx, re, asOf, next)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"id", re.ID,
				"category", re.Category,
				"error", err)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring expense",
			"recurring_id", re.ID,
			"record_id", rec.ID,
			"category", re.Category,
			"amount_cents", re.Amount.Cents,
			"next_due", next.String())
	}

	return processed, nil
}

// OnSessionStart is the explicit once-per-session hook callers invoke
// when the application opens. It runs one ProcessDue pass against now.
func (s *Scheduler) OnSessionStart(ctx context.Context, now time.Time) (int, error) {
	return s.ProcessDue(ctx, now)
}
