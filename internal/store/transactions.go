package store

import (
	"strings"
	"sync"

	"tally/internal/core"
)

// TransactionStore is the in-memory transaction collection. Insertion order
// is newest-first: Create prepends, so List()[0] is always the most recent.
type TransactionStore struct {
	mu    sync.Mutex
	seq   idSequence
	items []core.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// TransactionPatch carries the fields an update may change. Nil fields are
// left untouched; ID is never changeable.
type TransactionPatch struct {
	Title       *string
	Amount      *core.Money
	Type        *core.TransactionType
	Category    *string
	Date        *core.Date
	Description *string
}

// Create validates the record, assigns a fresh id and prepends it.
func (s *TransactionStore) Create(t core.Transaction) (core.Transaction, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = s.seq.next()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction{t}, s.items...)
	return t, nil
}

// CreateMany bulk-creates records, validating each and assigning fresh ids.
// Inbound ids are discarded. The whole batch is rejected on the first
// invalid record so a failed import never partially mutates the store.
func (s *TransactionStore) CreateMany(records []core.Transaction) ([]core.Transaction, error) {
	created := make([]core.Transaction, len(records))
	for i, t := range records {
		t.ID = ""
		t.Title = strings.TrimSpace(t.Title)
		t.Category = strings.TrimSpace(t.Category)
		if err := t.Validate(); err != nil {
			return nil, err
		}
		created[i] = t
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Prepend in reverse so the batch keeps its input order at the head.
	for i := len(created) - 1; i >= 0; i-- {
		created[i].ID = s.seq.next()
		s.items = append([]core.Transaction{created[i]}, s.items...)
	}
	return created, nil
}

// Update merges the patch into the record matching id, preserving the id.
func (s *TransactionStore) Update(id string, patch TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID != id {
			continue
		}
		merged := t
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
		if patch.Date != nil {
			merged.Date = *patch.Date
		}
		if patch.Description != nil {
			merged.Description = *patch.Description
		}
		if err := merged.Validate(); err != nil {
			return core.Transaction{}, err
		}
		s.items[i] = merged
		return merged, nil
	}
	return core.Transaction{}, ErrNotFound
}

// Get returns the record matching id.
func (s *TransactionStore) Get(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// Delete removes the record matching id. Missing ids are a no-op.
func (s *TransactionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// DeleteMany removes every record whose id is in ids.
func (s *TransactionStore) DeleteMany(ids []string) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, t := range s.items {
		if _, drop := set[t.ID]; !drop {
			kept = append(kept, t)
		}
	}
	s.items = kept
}

// List returns a copy of the collection, newest-first.
func (s *TransactionStore) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}

// Len returns the number of stored records.
func (s *TransactionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the collection.
func (s *TransactionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Load replaces the collection with records restored from persistence,
// keeping their ids and advancing the id sequence past them.
func (s *TransactionStore) Load(records []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction(nil), records...)
	for _, t := range records {
		s.seq.observe(t.ID)
	}
}
