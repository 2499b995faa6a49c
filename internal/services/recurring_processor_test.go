package services

import (
	"context"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

func newTestProcessor(clock ledger.Clock) (*RecurringProcessor, *store.TransactionStore, *store.RecurringStore) {
	transactions := store.NewTransactionStore()
	recurring := store.NewRecurringStore()
	budgets := store.NewBudgetStore()
	categories := store.NewCategoryStore()

	txService := NewTransactionService(transactions, nil, nil)
	catalog := NewCatalogService(categories, recurring, budgets, nil)
	return NewRecurringProcessor(recurring, txService, catalog, clock), transactions, recurring
}

func TestProcessDueCreatesTransactionAndAdvances(t *testing.T) {
	clock := ledger.FixedClock{Instant: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)}
	processor, transactions, recurring := newTestProcessor(clock)

	tpl, err := recurring.Create(core.RecurringTransaction{
		Title:     "Rent",
		Amount:    core.Money{Cents: 120000},
		Type:      core.Expense,
		Category:  "Bills",
		Frequency: core.Monthly,
		NextDate:  core.NewDate(2024, 3, 10),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	created, err := processor.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	list := transactions.List()
	if len(list) != 1 {
		t.Fatalf("transactions = %d, want 1", len(list))
	}
	if list[0].Title != "Rent" || list[0].Date.Format() != "2024-03-10" {
		t.Errorf("unexpected transaction %+v", list[0])
	}

	updated, err := recurring.Get(tpl.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if updated.NextDate.Format() != "2024-04-10" {
		t.Errorf("next date = %s, want 2024-04-10", updated.NextDate.Format())
	}
}

func TestProcessDueCatchesUpMissedPeriods(t *testing.T) {
	clock := ledger.FixedClock{Instant: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)}
	processor, transactions, recurring := newTestProcessor(clock)

	if _, err := recurring.Create(core.RecurringTransaction{
		Title:     "Subscription",
		Amount:    core.Money{Cents: 999},
		Type:      core.Expense,
		Category:  "Entertainment",
		Frequency: core.Weekly,
		NextDate:  core.NewDate(2024, 3, 1),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("create template: %v", err)
	}

	created, err := processor.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}

	// Mar 1, 8 and 15 are due; Mar 22 is not.
	if created != 3 {
		t.Fatalf("created = %d, want 3", created)
	}
	if transactions.Len() != 3 {
		t.Fatalf("transactions = %d, want 3", transactions.Len())
	}
}

func TestProcessDueSkipsInactiveAndFuture(t *testing.T) {
	clock := ledger.FixedClock{Instant: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	processor, transactions, recurring := newTestProcessor(clock)

	if _, err := recurring.Create(core.RecurringTransaction{
		Title:     "Paused",
		Amount:    core.Money{Cents: 500},
		Type:      core.Expense,
		Category:  "Bills",
		Frequency: core.Daily,
		NextDate:  core.NewDate(2024, 3, 1),
		IsActive:  false,
	}); err != nil {
		t.Fatalf("create paused template: %v", err)
	}
	if _, err := recurring.Create(core.RecurringTransaction{
		Title:     "Future",
		Amount:    core.Money{Cents: 500},
		Type:      core.Income,
		Category:  "Salary",
		Frequency: core.Monthly,
		NextDate:  core.NewDate(2024, 4, 1),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("create future template: %v", err)
	}

	created, err := processor.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
	if transactions.Len() != 0 {
		t.Errorf("transactions = %d, want 0", transactions.Len())
	}
}

func TestProcessDueDueTodayFires(t *testing.T) {
	clock := ledger.FixedClock{Instant: time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)}
	processor, transactions, recurring := newTestProcessor(clock)

	if _, err := recurring.Create(core.RecurringTransaction{
		Title:     "Gym",
		Amount:    core.Money{Cents: 4500},
		Type:      core.Expense,
		Category:  "Health",
		Frequency: core.Monthly,
		NextDate:  core.NewDate(2024, 3, 15),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("create template: %v", err)
	}

	created, err := processor.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	if got := transactions.List()[0].Date.Format(); got != "2024-03-15" {
		t.Errorf("transaction date = %s, want 2024-03-15", got)
	}
}
