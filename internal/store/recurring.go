package store

import (
	"strings"
	"sync"

	"tally/internal/core"
)

// RecurringStore holds recurring transaction templates.
type RecurringStore struct {
	mu    sync.Mutex
	seq   idSequence
	items []core.RecurringTransaction
}

func NewRecurringStore() *RecurringStore {
	return &RecurringStore{}
}

// NewRecurringStoreWithDefaults seeds the store with the stock templates.
func NewRecurringStoreWithDefaults() *RecurringStore {
	s := NewRecurringStore()
	for _, r := range DefaultRecurringTransactions() {
		r.ID = s.seq.next()
		s.items = append(s.items, r)
	}
	return s
}

type RecurringPatch struct {
	Title       *string
	Amount      *core.Money
	Type        *core.TransactionType
	Category    *string
	Frequency   *core.Frequency
	NextDate    *core.Date
	IsActive    *bool
	Description *string
}

func (s *RecurringStore) Create(r core.RecurringTransaction) (core.RecurringTransaction, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	if err := r.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	r.ID = s.seq.next()
	r.IsDefault = false
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return r, nil
}

func (s *RecurringStore) Update(id string, patch RecurringPatch) (core.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID != id {
			continue
		}
		merged := r
		if patch.Title != nil {
			merged.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Amount != nil {
			merged.Amount = *patch.Amount
		}
		if patch.Type != nil {
			merged.Type = *patch.Type
		}
		if patch.Category != nil {
			merged.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Frequency != nil {
			merged.Frequency = *patch.Frequency
		}
		if patch.NextDate != nil {
			merged.NextDate = *patch.NextDate
		}
		if patch.IsActive != nil {
			merged.IsActive = *patch.IsActive
		}
		if patch.Description != nil {
			merged.Description = *patch.Description
		}
		if err := merged.Validate(); err != nil {
			return core.RecurringTransaction{}, err
		}
		s.items[i] = merged
		return merged, nil
	}
	return core.RecurringTransaction{}, ErrNotFound
}

func (s *RecurringStore) Get(id string) (core.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ID == id {
			return r, nil
		}
	}
	return core.RecurringTransaction{}, ErrNotFound
}

func (s *RecurringStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Toggle flips the active flag of the template matching id.
func (s *RecurringStore) Toggle(id string) (core.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			s.items[i].IsActive = !r.IsActive
			return s.items[i], nil
		}
	}
	return core.RecurringTransaction{}, ErrNotFound
}

func (s *RecurringStore) List() []core.RecurringTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RecurringTransaction(nil), s.items...)
}

// ListActive returns only the templates with IsActive set.
func (s *RecurringStore) ListActive() []core.RecurringTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringTransaction
	for _, r := range s.items {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

// ResetToDefaults discards user-added templates, keeping the seeded ones.
func (s *RecurringStore) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, r := range s.items {
		if r.IsDefault {
			kept = append(kept, r)
		}
	}
	s.items = kept
}

func (s *RecurringStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Load replaces the collection with records restored from persistence.
func (s *RecurringStore) Load(records []core.RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.RecurringTransaction(nil), records...)
	for _, r := range records {
		s.seq.observe(r.ID)
	}
}
