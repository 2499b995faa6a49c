// Package stats derives statistics from transaction snapshots.
//
// Every function here is pure: results depend only on the records passed in
// and on the caller-supplied reference time. Nothing reads the wall clock,
// so period filters and series are deterministic under test.
package stats

import (
	"sort"
	"time"

	"tally/internal/core"
)

const (
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
)

type (
	// Period is a named date range anchored at a reference instant.
	Period string

	// Totals summarizes a record set by direction.
	Totals struct {
		Income  core.Money
		Expense core.Money
		Balance core.Money
	}

	// CategoryTotal is a per-category amount sum.
	CategoryTotal struct {
		Name   string
		Amount core.Money
	}

	// DayPoint is one day of an expense series.
	DayPoint struct {
		Label  string // short weekday name, e.g. "Mon"
		Date   core.Date
		Amount core.Money
	}

	// MonthPoint is one month of an income/expense series.
	MonthPoint struct {
		Label   string // short month name, e.g. "Jan"
		Year    int
		Month   int
		Income  core.Money
		Expense core.Money
		Net     core.Money
	}
)

func (p Period) IsValid() bool {
	switch p {
	case Week, Month, Quarter, Year:
		return true
	default:
		return false
	}
}

// ComputeTotals sums income and expense amounts; Balance = Income - Expense.
func ComputeTotals(records []core.Transaction) Totals {
	var t Totals
	for _, r := range records {
		switch r.Type {
		case core.Income:
			t.Income = t.Income.Add(r.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(r.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// PeriodStart computes the inclusive lower bound of a period ending at ref.
func PeriodStart(p Period, ref time.Time) core.Date {
	switch p {
	case Week:
		return core.DateOf(ref.AddDate(0, 0, -7))
	case Month:
		return core.NewDate(ref.Year(), int(ref.Month()), 1)
	case Quarter:
		quarterStart := (int(ref.Month())-1)/3*3 + 1
		return core.NewDate(ref.Year(), quarterStart, 1)
	case Year:
		return core.NewDate(ref.Year(), 1, 1)
	default:
		return core.DateOf(ref)
	}
}

// FilterByPeriod returns the records dated within [PeriodStart(p, ref), ref].
// Both bounds are inclusive at day granularity.
func FilterByPeriod(records []core.Transaction, p Period, ref time.Time) []core.Transaction {
	start := PeriodStart(p, ref)
	end := core.DateOf(ref)
	out := make([]core.Transaction, 0, len(records))
	for _, r := range records {
		if r.Date.Before(start.Time) || r.Date.After(end.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GroupByCategory sums amounts per category name for records of the given
// type, sorted by amount descending. Categories with equal sums are ordered
// by name so the output is deterministic.
func GroupByCategory(records []core.Transaction, typ core.TransactionType) []CategoryTotal {
	sums := map[string]int64{}
	for _, r := range records {
		if r.Type != typ {
			continue
		}
		sums[r.Category] += r.Amount.Cents
	}
	out := make([]CategoryTotal, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryTotal{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopCategories truncates a category ranking to at most n entries.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	if n < 0 {
		n = 0
	}
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// DailySeries returns expense sums for each of the last days calendar days
// ending at ref, oldest first. Days without expenses carry a zero amount.
func DailySeries(records []core.Transaction, days int, ref time.Time) []DayPoint {
	if days <= 0 {
		return nil
	}
	byDay := map[string]int64{}
	for _, r := range records {
		if r.Type != core.Expense {
			continue
		}
		byDay[r.Date.Format()] += r.Amount.Cents
	}
	out := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := core.DateOf(ref.AddDate(0, 0, -i))
		out = append(out, DayPoint{
			Label:  d.Time.Format("Mon"),
			Date:   d,
			Amount: core.Money{Cents: byDay[d.Format()]},
		})
	}
	return out
}

// MonthlySeries returns income/expense/net sums for each of the last months
// calendar months ending at the month containing ref, oldest first.
func MonthlySeries(records []core.Transaction, months int, ref time.Time) []MonthPoint {
	if months <= 0 {
		return nil
	}
	type ym struct{ year, month int }
	income := map[ym]int64{}
	expense := map[ym]int64{}
	for _, r := range records {
		key := ym{r.Date.Year(), r.Date.Month()}
		switch r.Type {
		case core.Income:
			income[key] += r.Amount.Cents
		case core.Expense:
			expense[key] += r.Amount.Cents
		}
	}
	// Anchor on the first of the month so stepping back never skips a short
	// month (Mar 31 minus one month would normalize back into March otherwise).
	anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		key := ym{m.Year(), int(m.Month())}
		in, ex := income[key], expense[key]
		out = append(out, MonthPoint{
			Label:   m.Format("Jan"),
			Year:    m.Year(),
			Month:   int(m.Month()),
			Income:  core.Money{Cents: in},
			Expense: core.Money{Cents: ex},
			Net:     core.Money{Cents: in - ex},
		})
	}
	return out
}
