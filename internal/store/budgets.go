package store

import (
	"sort"
	"strings"
	"sync"

	"tally/internal/core"
)

// BudgetStore holds per-category monthly limits keyed by category name.
// Deleting a category leaves its budget untouched.
type BudgetStore struct {
	mu     sync.Mutex
	limits map[string]core.Money
}

func NewBudgetStore() *BudgetStore {
	return &BudgetStore{limits: make(map[string]core.Money)}
}

// NewBudgetStoreWithDefaults seeds the store with the stock limits.
func NewBudgetStoreWithDefaults() *BudgetStore {
	s := NewBudgetStore()
	for _, b := range DefaultBudgets() {
		s.limits[b.Category] = b.Limit
	}
	return s
}

// SetLimit creates or replaces the limit for a category.
func (s *BudgetStore) SetLimit(category string, limit core.Money) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return core.ErrEmptyCategory
	}
	if err := limit.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[category] = limit
	return nil
}

// Remove drops the limit for a category. Missing categories are a no-op.
func (s *BudgetStore) Remove(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limits, category)
}

// Get returns the limit for a category.
func (s *BudgetStore) Get(category string) (core.Money, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit, ok := s.limits[category]
	return limit, ok
}

// List returns all budgets sorted by category name.
func (s *BudgetStore) List() []core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.limits))
	for category, limit := range s.limits {
		out = append(out, core.Budget{Category: category, Limit: limit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (s *BudgetStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = make(map[string]core.Money)
}

// Load replaces the budgets with records restored from persistence.
func (s *BudgetStore) Load(budgets []core.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = make(map[string]core.Money, len(budgets))
	for _, b := range budgets {
		s.limits[b.Category] = b.Limit
	}
}
