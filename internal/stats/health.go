package stats

import (
	"time"

	"tally/internal/core"
)

type (
	// BudgetStatus reports spending against a limit. Percentage is left
	// unclamped so callers can render "20% over" messaging; progress bars
	// clamp to [0,100] at the display layer.
	BudgetStatus struct {
		Spent        core.Money
		Limit        core.Money
		Percentage   float64
		IsOverBudget bool
	}

	// Insights is the month-to-date spending snapshot shown on the overview.
	Insights struct {
		MonthExpense core.Money
		TopCategory  string
		TopAmount    core.Money
		DailyAverage core.Money
	}
)

// ComputeBudgetStatus compares spent against limit. A zero limit yields a
// zero percentage rather than a division blowup.
func ComputeBudgetStatus(spent, limit core.Money) BudgetStatus {
	s := BudgetStatus{Spent: spent, Limit: limit}
	if limit.Cents > 0 {
		s.Percentage = 100 * float64(spent.Cents) / float64(limit.Cents)
	}
	s.IsOverBudget = spent.Cents > limit.Cents
	return s
}

// HealthScore maps a savings rate to a coarse 0-100 score. Zero income
// scores 0 regardless of spending.
func HealthScore(income, expense core.Money) int {
	if income.Cents == 0 {
		return 0
	}
	savingsRate := 100 * float64(income.Cents-expense.Cents) / float64(income.Cents)
	switch {
	case savingsRate >= 20:
		return 100
	case savingsRate >= 10:
		return 80
	case savingsRate >= 0:
		return 60
	case savingsRate >= -10:
		return 40
	default:
		return 20
	}
}

// ComputeInsights summarizes the month containing ref: total expenses,
// the top expense category, and the average daily spend month-to-date.
func ComputeInsights(records []core.Transaction, ref time.Time) Insights {
	var monthRecords []core.Transaction
	for _, r := range records {
		if r.Date.Year() == ref.Year() && r.Date.Month() == int(ref.Month()) {
			monthRecords = append(monthRecords, r)
		}
	}
	ins := Insights{}
	for _, r := range monthRecords {
		if r.Type == core.Expense {
			ins.MonthExpense = ins.MonthExpense.Add(r.Amount)
		}
	}
	if top := GroupByCategory(monthRecords, core.Expense); len(top) > 0 {
		ins.TopCategory = top[0].Name
		ins.TopAmount = top[0].Amount
	}
	ins.DailyAverage = core.Money{Cents: ins.MonthExpense.Cents / int64(ref.Day())}
	return ins
}
