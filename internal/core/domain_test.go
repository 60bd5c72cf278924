package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "expense", want: Expense},
		{input: "income", want: Income},
		{input: "Expense", want: Expense},
		{input: " INCOME ", want: Income},
		{input: "расход", want: Expense},
		{input: "доход", want: Income},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input   string
		want    Interval
		wantErr bool
	}{
		{input: "daily", want: Daily},
		{input: "weekly", want: Weekly},
		{input: "monthly", want: Monthly},
		{input: "Ежемесячно", want: Monthly},
		{input: "yearly", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInterval(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseInterval(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{
		Category:  "Food",
		Amount:    Money{Cents: 1000},
		Timestamp: time.Now(),
		Kind:      Expense,
	}

	tests := []struct {
		name    string
		mutate  func(r *Record)
		wantErr error
	}{
		{name: "valid", mutate: func(*Record) {}},
		{name: "zero amount is valid", mutate: func(r *Record) { r.Amount.Cents = 0 }},
		{name: "empty category", mutate: func(r *Record) { r.Category = "  " }, wantErr: ErrEmptyCategory},
		{name: "negative amount", mutate: func(r *Record) { r.Amount.Cents = -1 }, wantErr: ErrInvalidAmount},
		{name: "unknown kind", mutate: func(r *Record) { r.Kind = "transfer" }, wantErr: ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	valid := RecurringExpense{
		Category: "Rent",
		Amount:   Money{Cents: 50000},
		Interval: Monthly,
		NextDue:  NewDate(2024, 1, 15),
	}

	tests := []struct {
		name    string
		mutate  func(re *RecurringExpense)
		wantErr error
	}{
		{name: "valid", mutate: func(*RecurringExpense) {}},
		{name: "empty category", mutate: func(re *RecurringExpense) { re.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "zero amount", mutate: func(re *RecurringExpense) { re.Amount.Cents = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(re *RecurringExpense) { re.Amount.Cents = -200 }, wantErr: ErrInvalidAmount},
		{name: "bad interval", mutate: func(re *RecurringExpense) { re.Interval = "yearly" }, wantErr: ErrInvalidInterval},
		{name: "zero due date", mutate: func(re *RecurringExpense) { re.NextDue = Date{} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := valid
			tt.mutate(&re)
			err := re.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Errorf("round trip = %q, want 2024-01-15", d.String())
	}

	if _, err := ParseDate("15/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate with wrong layout = %v, want ErrInvalidDate", err)
	}
}
