package services

import (
	"context"
	"log/slog"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

// CatalogService orchestrates category, recurring-template and budget
// mutations, mirroring each to the archive when one is configured.
type CatalogService struct {
	categories *store.CategoryStore
	recurring  *store.RecurringStore
	budgets    *store.BudgetStore
	archive    ledger.Archive
}

func NewCatalogService(categories *store.CategoryStore, recurring *store.RecurringStore, budgets *store.BudgetStore, archive ledger.Archive) *CatalogService {
	return &CatalogService{
		categories: categories,
		recurring:  recurring,
		budgets:    budgets,
		archive:    archive,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	created, err := s.categories.Create(c)
	if err != nil {
		return core.Category{}, err
	}
	s.mirror(ctx, "category", created.ID, func() error {
		return s.archive.SaveCategory(ctx, created)
	})
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch store.CategoryPatch) (core.Category, error) {
	updated, err := s.categories.Update(id, patch)
	if err != nil {
		return core.Category{}, err
	}
	s.mirror(ctx, "category", id, func() error {
		return s.archive.SaveCategory(ctx, updated)
	})
	return updated, nil
}

// DeleteCategory removes only the category; transactions referring to it
// keep their label.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) {
	s.categories.Delete(id)
	s.mirror(ctx, "category", id, func() error {
		return s.archive.DeleteCategory(ctx, id)
	})
}

// ResetCategories discards user-added categories, keeping the seeded set.
func (s *CatalogService) ResetCategories(ctx context.Context) []core.Category {
	before := s.categories.List()
	s.categories.ResetToDefaults()
	for _, c := range before {
		if c.IsDefault {
			continue
		}
		id := c.ID
		s.mirror(ctx, "category", id, func() error {
			return s.archive.DeleteCategory(ctx, id)
		})
	}
	return s.categories.List()
}

func (s *CatalogService) CreateRecurring(ctx context.Context, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	created, err := s.recurring.Create(r)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	s.mirror(ctx, "recurring", created.ID, func() error {
		return s.archive.SaveRecurring(ctx, created)
	})
	return created, nil
}

func (s *CatalogService) UpdateRecurring(ctx context.Context, id string, patch store.RecurringPatch) (core.RecurringTransaction, error) {
	updated, err := s.recurring.Update(id, patch)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	s.mirror(ctx, "recurring", id, func() error {
		return s.archive.SaveRecurring(ctx, updated)
	})
	return updated, nil
}

func (s *CatalogService) DeleteRecurring(ctx context.Context, id string) {
	s.recurring.Delete(id)
	s.mirror(ctx, "recurring", id, func() error {
		return s.archive.DeleteRecurring(ctx, id)
	})
}

// ToggleRecurring flips a template between active and paused.
func (s *CatalogService) ToggleRecurring(ctx context.Context, id string) (core.RecurringTransaction, error) {
	toggled, err := s.recurring.Toggle(id)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	s.mirror(ctx, "recurring", id, func() error {
		return s.archive.SaveRecurring(ctx, toggled)
	})
	return toggled, nil
}

// ResetRecurring discards user-added templates, keeping the seeded set.
func (s *CatalogService) ResetRecurring(ctx context.Context) []core.RecurringTransaction {
	before := s.recurring.List()
	s.recurring.ResetToDefaults()
	for _, r := range before {
		if r.IsDefault {
			continue
		}
		id := r.ID
		s.mirror(ctx, "recurring", id, func() error {
			return s.archive.DeleteRecurring(ctx, id)
		})
	}
	return s.recurring.List()
}

func (s *CatalogService) SetBudget(ctx context.Context, category string, limit core.Money) error {
	if err := s.budgets.SetLimit(category, limit); err != nil {
		return err
	}
	s.mirror(ctx, "budget", category, func() error {
		return s.archive.SaveBudget(ctx, core.Budget{Category: category, Limit: limit})
	})
	return nil
}

func (s *CatalogService) RemoveBudget(ctx context.Context, category string) {
	s.budgets.Remove(category)
	s.mirror(ctx, "budget", category, func() error {
		return s.archive.DeleteBudget(ctx, category)
	})
}

// ClearAll empties every collection and wipes the archive.
func (s *CatalogService) ClearAll(ctx context.Context, transactions *store.TransactionStore) error {
	transactions.Clear()
	s.categories.Clear()
	s.recurring.Clear()
	s.budgets.Clear()
	if s.archive == nil {
		return nil
	}
	return s.archive.Wipe(ctx)
}

func (s *CatalogService) mirror(ctx context.Context, kind, id string, fn func() error) {
	if s.archive == nil {
		return
	}
	if err := fn(); err != nil {
		slog.ErrorContext(ctx, "Failed to mirror record to archive",
			"kind", kind, "id", id, "error", err)
	}
}
