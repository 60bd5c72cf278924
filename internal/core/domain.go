package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

const (
	Daily   Interval = "daily"
	Weekly  Interval = "weekly"
	Monthly Interval = "monthly"
)

// AllCategories is the sentinel a presentation layer may pass to disable
// the category filter. An empty category has the same effect.
const AllCategories = "All categories"

type (
	// Kind distinguishes money leaving the ledger from money entering it.
	Kind string

	// Interval is the cadence of a recurring expense.
	Interval string

	// Date is a calendar date at UTC midnight. Recurring due dates carry
	// no time-of-day component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is one ledger entry. Immutable once stored, except deletion.
	Record struct {
		ID        int64
		Category  string
		Amount    Money
		Timestamp time.Time
		Kind      Kind
	}

	// Category is a named bucket records can reference. Records keep the
	// category name as a copy, so deleting a Category never touches them.
	Category struct {
		ID   int64
		Name string
	}

	// RecurringExpense is a template the scheduler turns into Records.
	// Only the scheduler advances NextDue.
	RecurringExpense struct {
		ID       int64
		Category string
		Amount   Money
		Interval Interval
		NextDue  Date
	}
)

var (
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid record kind")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category already exists")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses the "2006-01-02" form used across the schema.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// ParseKind maps a boundary tag to a Kind. The labels the legacy UI used
// are accepted alongside the stored enum values.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "расход":
		return Expense, nil
	case "income", "доход":
		return Income, nil
	default:
		return "", ErrInvalidKind
	}
}

func (i Interval) Valid() bool {
	switch i {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// ParseInterval maps a boundary tag to an Interval, accepting the legacy
// UI labels alongside the stored enum values.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "ежедневно":
		return Daily, nil
	case "weekly", "еженедельно":
		return Weekly, nil
	case "monthly", "ежемесячно":
		return Monthly, nil
	default:
		return "", ErrInvalidInterval
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if strings.TrimSpace(re.Category) == "" {
		return ErrEmptyCategory
	}
	// A zero-amount template would materialize meaningless records forever.
	if re.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !re.Interval.Valid() {
		return ErrInvalidInterval
	}
	if err := re.NextDue.Validate(); err != nil {
		return err
	}
	return nil
}
