// Package services provides business logic over the ledger store: record
// orchestration and recurring expense scheduling.
//
// This file implements the Strategy Pattern for due-date advancement. Each
// interval has its own advancer encapsulating the calendar arithmetic.
package services

import (
	"fmt"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

// DueDateAdvancer computes the due date that follows from for one interval
// type. The result is always strictly after from and always a valid
// calendar date.
type DueDateAdvancer interface {
	Next(from core.Date) core.Date
}

// DailyAdvancer implements DueDateAdvancer for daily recurring expenses.
type DailyAdvancer struct{}

func (DailyAdvancer) Next(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 0, 1)}
}

// WeeklyAdvancer implements DueDateAdvancer for weekly recurring expenses.
type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 0, 7)}
}

// MonthlyAdvancer implements DueDateAdvancer for monthly recurring
// expenses: the first day of the calendar month after from. Explicit
// month rollover, never day-counting, so a December date lands on
// January 1 of the next year and no month is skipped or repeated.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(from core.Date) core.Date {
	return core.NewDate(from.Year(), int(from.Month())+1, 1)
}

var advancers = map[core.Interval]DueDateAdvancer{
	core.Daily:   DailyAdvancer{},
	core.Weekly:  WeeklyAdvancer{},
	core.Monthly: MonthlyAdvancer{},
}

// NextDueDate advances a recurring expense's due date one cycle.
func NextDueDate(interval core.Interval, from core.Date) (core.Date, error) {
	adv, ok := advancers[interval]
	if !ok {
		return core.Date{}, fmt.Errorf("advance due date: %w: %s", core.ErrInvalidInterval, interval)
	}
	return adv.Next(from), nil
}
