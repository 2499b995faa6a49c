package store

import "tally/internal/core"

// DefaultCategories returns the stock category set. A reset keeps these and
// drops everything the user added.
func DefaultCategories() []core.Category {
	return []core.Category{
		{Name: "Work", Type: core.Income, Icon: "briefcase", Color: "#10b981", IsDefault: true},
		{Name: "Business", Type: core.Income, Icon: "business", Color: "#059669", IsDefault: true},
		{Name: "Investment", Type: core.Income, Icon: "trending-up", Color: "#047857", IsDefault: true},
		{Name: "Gift", Type: core.Income, Icon: "gift", Color: "#065f46", IsDefault: true},
		{Name: "Other", Type: core.Income, Icon: "ellipsis-horizontal", Color: "#064e3b", IsDefault: true},

		{Name: "Food", Type: core.Expense, Icon: "restaurant", Color: "#ef4444", IsDefault: true},
		{Name: "Transport", Type: core.Expense, Icon: "car", Color: "#dc2626", IsDefault: true},
		{Name: "Shopping", Type: core.Expense, Icon: "bag", Color: "#b91c1c", IsDefault: true},
		{Name: "Entertainment", Type: core.Expense, Icon: "game-controller", Color: "#991b1b", IsDefault: true},
		{Name: "Bills", Type: core.Expense, Icon: "receipt", Color: "#7f1d1d", IsDefault: true},
		{Name: "Health", Type: core.Expense, Icon: "medical", Color: "#6b1d1d", IsDefault: true},
		{Name: "Education", Type: core.Expense, Icon: "school", Color: "#5b1d1d", IsDefault: true},
		{Name: "Other", Type: core.Expense, Icon: "ellipsis-horizontal", Color: "#4b1d1d", IsDefault: true},
	}
}

// DefaultRecurringTransactions returns the stock recurring templates.
func DefaultRecurringTransactions() []core.RecurringTransaction {
	return []core.RecurringTransaction{
		{
			Title:       "Monthly Salary",
			Amount:      core.Money{Cents: 500000},
			Type:        core.Income,
			Category:    "Work",
			Frequency:   core.Monthly,
			NextDate:    core.NewDate(2024, 2, 1),
			IsActive:    true,
			IsDefault:   true,
			Description: "Regular monthly salary",
		},
		{
			Title:       "Rent Payment",
			Amount:      core.Money{Cents: 120000},
			Type:        core.Expense,
			Category:    "Bills",
			Frequency:   core.Monthly,
			NextDate:    core.NewDate(2024, 2, 1),
			IsActive:    true,
			IsDefault:   true,
			Description: "Monthly rent payment",
		},
		{
			Title:       "Netflix Subscription",
			Amount:      core.Money{Cents: 1599},
			Type:        core.Expense,
			Category:    "Entertainment",
			Frequency:   core.Monthly,
			NextDate:    core.NewDate(2024, 2, 15),
			IsActive:    true,
			IsDefault:   true,
			Description: "Monthly Netflix subscription",
		},
		{
			Title:       "Weekly Groceries",
			Amount:      core.Money{Cents: 15000},
			Type:        core.Expense,
			Category:    "Food",
			Frequency:   core.Weekly,
			NextDate:    core.NewDate(2024, 1, 28),
			IsActive:    false,
			IsDefault:   true,
			Description: "Weekly grocery shopping",
		},
	}
}

// DefaultBudgets returns the stock per-category monthly limits.
func DefaultBudgets() []core.Budget {
	return []core.Budget{
		{Category: "Food", Limit: core.Money{Cents: 50000}},
		{Category: "Transport", Limit: core.Money{Cents: 20000}},
		{Category: "Entertainment", Limit: core.Money{Cents: 15000}},
		{Category: "Shopping", Limit: core.Money{Cents: 30000}},
		{Category: "Bills", Limit: core.Money{Cents: 80000}},
		{Category: "Health", Limit: core.Money{Cents: 20000}},
	}
}
