package store

import (
	"strings"
	"sync"

	"tally/internal/core"
)

// CategoryStore holds categories. Unlike transactions, categories append at
// the tail so the seeded defaults stay in their display order.
type CategoryStore struct {
	mu    sync.Mutex
	seq   idSequence
	items []core.Category
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{}
}

// NewCategoryStoreWithDefaults seeds the store with the stock categories.
func NewCategoryStoreWithDefaults() *CategoryStore {
	s := NewCategoryStore()
	for _, c := range DefaultCategories() {
		c.ID = s.seq.next()
		s.items = append(s.items, c)
	}
	return s
}

type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

// Create validates and appends a user-added category. Names are unique per
// type; a duplicate is rejected as a validation failure.
func (s *CategoryStore) Create(c core.Category) (core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Type == c.Type && strings.EqualFold(existing.Name, c.Name) {
			return core.Category{}, core.ErrDuplicateName
		}
	}
	c.ID = s.seq.next()
	c.IsDefault = false
	s.items = append(s.items, c)
	return c, nil
}

func (s *CategoryStore) Update(id string, patch CategoryPatch) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.items {
		if c.ID != id {
			continue
		}
		merged := c
		if patch.Name != nil {
			merged.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Icon != nil {
			merged.Icon = *patch.Icon
		}
		if patch.Color != nil {
			merged.Color = *patch.Color
		}
		if err := merged.Validate(); err != nil {
			return core.Category{}, err
		}
		s.items[i] = merged
		return merged, nil
	}
	return core.Category{}, ErrNotFound
}

func (s *CategoryStore) Get(id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, ErrNotFound
}

// Delete removes the category matching id. Transactions tagged with the
// category keep its name; there is no cascade.
func (s *CategoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *CategoryStore) List() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.items...)
}

func (s *CategoryStore) ListByType(typ core.TransactionType) []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.items {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// ResetToDefaults discards user-added categories, keeping the seeded ones.
func (s *CategoryStore) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, c := range s.items {
		if c.IsDefault {
			kept = append(kept, c)
		}
	}
	s.items = kept
}

func (s *CategoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Load replaces the collection with records restored from persistence.
func (s *CategoryStore) Load(records []core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Category(nil), records...)
	for _, c := range records {
		s.seq.observe(c.ID)
	}
}
