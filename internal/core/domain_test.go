package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 15 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.Format() != "2024-03-15" {
		t.Fatalf("unexpected format %s", d.Format())
	}

	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestTransactionTypeParse(t *testing.T) {
	if _, err := ParseTransactionType("income"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if _, err := ParseTransactionType("expense"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, bad := range []string{"", "Income", "transfer"} {
		if _, err := ParseTransactionType(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Title:    "Groceries",
		Amount:   Money{Cents: 15000},
		Type:     Expense,
		Category: "Food",
		Date:     NewDate(2024, 3, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Title = "  " }, ErrEmptyTitle},
		{func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	for i, tc := range bads {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestRecurringValidate(t *testing.T) {
	good := RecurringTransaction{
		Title:     "Rent",
		Amount:    Money{Cents: 120000},
		Type:      Expense,
		Category:  "Bills",
		Frequency: Monthly,
		NextDate:  NewDate(2024, 2, 1),
		IsActive:  true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Frequency = "fortnightly"
	if err := bad.Validate(); err != ErrInvalidFrequency {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestFrequencyNextAfter(t *testing.T) {
	cases := []struct {
		freq Frequency
		from Date
		want Date
	}{
		{Daily, NewDate(2024, 1, 31), NewDate(2024, 2, 1)},
		{Weekly, NewDate(2024, 2, 26), NewDate(2024, 3, 4)},
		{Monthly, NewDate(2024, 1, 15), NewDate(2024, 2, 15)},
		{Monthly, NewDate(2024, 1, 31), NewDate(2024, 2, 29)}, // leap year clamp
		{Monthly, NewDate(2023, 1, 31), NewDate(2023, 2, 28)},
		{Monthly, NewDate(2024, 12, 10), NewDate(2025, 1, 10)},
		{Yearly, NewDate(2024, 2, 29), NewDate(2025, 2, 28)},
		{Yearly, NewDate(2024, 6, 1), NewDate(2025, 6, 1)},
	}
	for i, tc := range cases {
		got := tc.freq.NextAfter(tc.from)
		if !got.Equal(tc.want.Time) {
			t.Fatalf("case %d: expected %s, got %s", i, tc.want.Format(), got.Format())
		}
	}
}
