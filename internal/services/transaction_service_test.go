package services

import (
	"context"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

// fakeArchive records mirrored mutations in memory.
type fakeArchive struct {
	saved   map[string]core.Transaction
	deleted []string
}

var _ ledger.Archive = (*fakeArchive)(nil)

func newFakeArchive() *fakeArchive {
	return &fakeArchive{saved: make(map[string]core.Transaction)}
}

func (a *fakeArchive) LoadTransactions(context.Context) ([]core.Transaction, error) {
	return nil, nil
}
func (a *fakeArchive) LoadCategories(context.Context) ([]core.Category, error) { return nil, nil }
func (a *fakeArchive) LoadRecurring(context.Context) ([]core.RecurringTransaction, error) {
	return nil, nil
}
func (a *fakeArchive) LoadBudgets(context.Context) ([]core.Budget, error) { return nil, nil }

func (a *fakeArchive) SaveTransaction(_ context.Context, t core.Transaction) error {
	a.saved[t.ID] = t
	return nil
}

func (a *fakeArchive) DeleteTransaction(_ context.Context, id string) error {
	delete(a.saved, id)
	a.deleted = append(a.deleted, id)
	return nil
}

func (a *fakeArchive) SaveCategory(context.Context, core.Category) error              { return nil }
func (a *fakeArchive) DeleteCategory(context.Context, string) error                   { return nil }
func (a *fakeArchive) SaveRecurring(context.Context, core.RecurringTransaction) error { return nil }
func (a *fakeArchive) DeleteRecurring(context.Context, string) error                  { return nil }
func (a *fakeArchive) SaveBudget(context.Context, core.Budget) error                  { return nil }
func (a *fakeArchive) DeleteBudget(context.Context, string) error                     { return nil }
func (a *fakeArchive) Wipe(context.Context) error                                     { return nil }
func (a *fakeArchive) Close() error                                                   { return nil }

func validTransaction() core.Transaction {
	return core.Transaction{
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Type:     core.Expense,
		Category: "Food",
		Date:     core.NewDate(2024, 3, 10),
	}
}

func TestCreateMirrorsToArchive(t *testing.T) {
	archive := newFakeArchive()
	service := NewTransactionService(store.NewTransactionStore(), archive, nil)

	created, err := service.Create(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created transaction has no id")
	}
	if _, ok := archive.saved[created.ID]; !ok {
		t.Errorf("transaction %s not mirrored to archive", created.ID)
	}
}

func TestCreateInvalidDoesNotTouchArchive(t *testing.T) {
	archive := newFakeArchive()
	service := NewTransactionService(store.NewTransactionStore(), archive, nil)

	bad := validTransaction()
	bad.Title = "   "
	if _, err := service.Create(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if len(archive.saved) != 0 {
		t.Errorf("archive has %d records, want 0", len(archive.saved))
	}
}

func TestDeleteMirrorsRemoval(t *testing.T) {
	archive := newFakeArchive()
	service := NewTransactionService(store.NewTransactionStore(), archive, nil)

	created, err := service.Create(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	service.Delete(context.Background(), created.ID)
	if _, ok := archive.saved[created.ID]; ok {
		t.Errorf("transaction %s still in archive after delete", created.ID)
	}
	if service.Store().Len() != 0 {
		t.Errorf("store has %d records, want 0", service.Store().Len())
	}
}

func TestCreateBatchFailureLeavesArchiveUntouched(t *testing.T) {
	archive := newFakeArchive()
	service := NewTransactionService(store.NewTransactionStore(), archive, nil)

	bad := validTransaction()
	bad.Category = ""
	if _, err := service.CreateBatch(context.Background(), []core.Transaction{validTransaction(), bad}); err == nil {
		t.Fatal("expected batch to fail")
	}
	if len(archive.saved) != 0 {
		t.Errorf("archive has %d records, want 0", len(archive.saved))
	}
	if service.Store().Len() != 0 {
		t.Errorf("store has %d records, want 0", service.Store().Len())
	}
}

func TestServiceWorksWithoutArchive(t *testing.T) {
	service := NewTransactionService(store.NewTransactionStore(), nil, nil)

	created, err := service.Create(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	service.Delete(context.Background(), created.ID)
}
