package report

import (
	"testing"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

func rec(category string, cents int64, ts time.Time) core.Record {
	return core.Record{
		Category:  category,
		Amount:    core.Money{Cents: cents},
		Timestamp: ts,
		Kind:      core.Expense,
	}
}

func TestTotalsByCategory(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	records := []core.Record{
		rec("Food", 1000, now),
		rec("Food", 500, now),
		rec("Rent", 2000, now),
	}

	totals := TotalsByCategory(records)

	if got := totals["Food"].Cents; got != 1500 {
		t.Errorf("Food total = %d, want 1500", got)
	}
	if got := totals["Rent"].Cents; got != 2000 {
		t.Errorf("Rent total = %d, want 2000", got)
	}

	// Conservation: aggregated cents must equal the input cents.
	var sum int64
	for _, m := range totals {
		sum += m.Cents
	}
	if sum != 3500 {
		t.Errorf("sum of totals = %d, want 3500", sum)
	}
}

func TestTotalsByDate(t *testing.T) {
	records := []core.Record{
		rec("Food", 300, time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)),
		rec("Food", 200, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)),
		rec("Rent", 100, time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)),
	}

	got := TotalsByDate(records)

	want := []DateTotal{
		{Date: core.NewDate(2024, 6, 10), Total: core.Money{Cents: 300}},
		{Date: core.NewDate(2024, 6, 12), Total: core.Money{Cents: 300}},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date.Time) || got[i].Total != want[i].Total {
			t.Errorf("entry %d = %v/%v, want %v/%v",
				i, got[i].Date, got[i].Total, want[i].Date, want[i].Total)
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    Period
		wantStart time.Time
	}{
		{name: "today", period: Today, wantStart: now},
		{name: "last week", period: LastWeek, wantStart: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{name: "last month", period: LastMonth, wantStart: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
		{name: "last year", period: LastYear, wantStart: time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC)},
		{name: "unknown tag defaults to today", period: "fortnight", wantStart: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ResolvePeriod(tt.period, now)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(now) {
				t.Errorf("end = %v, want %v", end, now)
			}
		})
	}
}

func TestPercentageOfTotal(t *testing.T) {
	if got := PercentageOfTotal(core.Money{Cents: 2500}, core.Money{Cents: 10000}); got != 25 {
		t.Errorf("25%% case = %v", got)
	}
	if got := PercentageOfTotal(core.Money{Cents: 2500}, core.Money{}); got != 0 {
		t.Errorf("zero total = %v, want 0", got)
	}
}

func TestCategoryShares(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	records := []core.Record{
		rec("Food", 1000, now),
		rec("Rent", 3000, now),
		rec("Food", 1000, now),
	}

	shares := CategoryShares(records)

	if len(shares) != 2 {
		t.Fatalf("len = %d, want 2", len(shares))
	}
	if shares[0].Category != "Rent" || shares[0].Percent != 60 {
		t.Errorf("first share = %+v, want Rent at 60%%", shares[0])
	}
	if shares[1].Category != "Food" || shares[1].Percent != 40 {
		t.Errorf("second share = %+v, want Food at 40%%", shares[1])
	}
}

func TestCategorySharesEmpty(t *testing.T) {
	if shares := CategoryShares(nil); len(shares) != 0 {
		t.Errorf("shares over no records = %v, want empty", shares)
	}
}
