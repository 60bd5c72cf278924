// Package report is the query engine behind reports and charts: stateless
// aggregation over record slices the store has already fetched.
package report

import (
	"sort"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

const (
	Today     Period = "today"
	LastWeek  Period = "lastWeek"
	LastMonth Period = "lastMonth"
	LastYear  Period = "lastYear"
)

type (
	// Period is a named reporting range relative to a reference date.
	Period string

	// DateTotal is the per-day sum used by the time-series chart.
	DateTotal struct {
		Date  core.Date
		Total core.Money
	}

	// CategoryShare is one row of the report table: a category's total
	// and its percentage of the grand total.
	CategoryShare struct {
		Category string
		Total    core.Money
		Percent  float64
	}
)

// TotalsByCategory sums record amounts per category name. The sum of all
// values equals the sum of all input amounts.
func TotalsByCategory(records []core.Record) map[string]core.Money {
	totals := make(map[string]core.Money, len(records))
	for _, r := range records {
		m := totals[r.Category]
		m.Cents += r.Amount.Cents
		totals[r.Category] = m
	}
	return totals
}

// TotalsByDate groups records by calendar date, ignoring time of day,
// and returns the totals in ascending date order.
func TotalsByDate(records []core.Record) []DateTotal {
	byDay := make(map[core.Date]int64, len(records))
	for _, r := range records {
		byDay[core.DateOf(r.Timestamp)] += r.Amount.Cents
	}

	out := make([]DateTotal, 0, len(byDay))
	for d, cents := range byDay {
		out = append(out, DateTotal{Date: d, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// ResolvePeriod turns a period tag into an inclusive [start, end] range
// ending at now. Unrecognized tags collapse to [now, now].
func ResolvePeriod(p Period, now time.Time) (start, end time.Time) {
	end = now
	switch p {
	case LastWeek:
		start = now.AddDate(0, 0, -7)
	case LastMonth:
		start = now.AddDate(0, 0, -30)
	case LastYear:
		start = now.AddDate(0, 0, -365)
	default:
		// Today and anything unknown
		start = now
	}
	return start, end
}

// PercentageOfTotal returns amount as a percentage of total, or 0 when
// the total is zero.
func PercentageOfTotal(amount, total core.Money) float64 {
	if total.Cents == 0 {
		return 0
	}
	return float64(amount.Cents) / float64(total.Cents) * 100
}

// CategoryShares builds the report table: each category's total and its
// share of the grand total, sorted by descending total with name as the
// tie-breaker so output is stable.
func CategoryShares(records []core.Record) []CategoryShare {
	totals := TotalsByCategory(records)

	var grand core.Money
	for _, m := range totals {
		grand.Cents += m.Cents
	}

	shares := make([]CategoryShare, 0, len(totals))
	for name, m := range totals {
		shares = append(shares, CategoryShare{
			Category: name,
			Total:    m,
			Percent:  PercentageOfTotal(m, grand),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Total.Cents != shares[j].Total.Cents {
			return shares[i].Total.Cents > shares[j].Total.Cents
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}
