package store

import (
	"errors"
	"testing"

	"tally/internal/core"
)

func TestRecurringDefaultsAndToggle(t *testing.T) {
	s := NewRecurringStoreWithDefaults()
	all := s.List()
	if len(all) != 4 {
		t.Fatalf("expected 4 default templates, got %d", len(all))
	}
	if got := len(s.ListActive()); got != 3 {
		t.Fatalf("expected 3 active templates, got %d", got)
	}

	// the groceries template ships inactive
	var groceries core.RecurringTransaction
	for _, r := range all {
		if r.Title == "Weekly Groceries" {
			groceries = r
		}
	}
	toggled, err := s.Toggle(groceries.ID)
	if err != nil || !toggled.IsActive {
		t.Fatalf("toggle failed: %+v err=%v", toggled, err)
	}
	if got := len(s.ListActive()); got != 4 {
		t.Fatalf("expected 4 active after toggle, got %d", got)
	}

	if _, err := s.Toggle("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecurringCreateUpdateReset(t *testing.T) {
	s := NewRecurringStoreWithDefaults()
	created, err := s.Create(core.RecurringTransaction{
		Title:     "Gym",
		Amount:    core.Money{Cents: 4000},
		Type:      core.Expense,
		Category:  "Health",
		Frequency: core.Monthly,
		NextDate:  core.NewDate(2024, 3, 1),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	next := core.NewDate(2024, 4, 1)
	got, err := s.Update(created.ID, RecurringPatch{NextDate: &next})
	if err != nil || got.NextDate.Format() != "2024-04-01" {
		t.Fatalf("unexpected update result %+v err=%v", got, err)
	}

	s.ResetToDefaults()
	if len(s.List()) != 4 {
		t.Fatalf("reset must keep only defaults, got %d", len(s.List()))
	}
}

func TestBudgetStore(t *testing.T) {
	s := NewBudgetStoreWithDefaults()
	if len(s.List()) != 6 {
		t.Fatalf("expected 6 default budgets, got %d", len(s.List()))
	}

	if err := s.SetLimit("Food", core.Money{Cents: 60000}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if limit, ok := s.Get("Food"); !ok || limit.Cents != 60000 {
		t.Fatalf("unexpected limit %v ok=%v", limit, ok)
	}

	if err := s.SetLimit("", core.Money{Cents: 100}); err == nil {
		t.Fatalf("expected error for empty category")
	}
	if err := s.SetLimit("Travel", core.Money{Cents: 0}); err == nil {
		t.Fatalf("expected error for zero limit")
	}

	s.Remove("Food")
	if _, ok := s.Get("Food"); ok {
		t.Fatalf("expected Food budget removed")
	}
	s.Remove("Food") // no-op
}
