// Package store holds the authoritative in-memory record collections.
//
// Each record kind gets its own store with the same shape: mutex-guarded
// slice, newest-first insertion order, monotonic string ids, and copy-on-read
// listing so callers never alias internal state. Persistence, when
// configured, is layered on top by the services package; the stores
// themselves know nothing about it.
package store

import (
	"errors"
	"strconv"
	"sync"
)

// ErrNotFound is returned by lookups and updates referencing a missing id.
// Deletes treat a missing id as a no-op instead.
var ErrNotFound = errors.New("record not found")

// idSequence issues monotonic decimal-string ids. Load paths bump the
// sequence past any inbound id so later creates cannot collide.
type idSequence struct {
	mu   sync.Mutex
	last int64
}

func (s *idSequence) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return strconv.FormatInt(s.last, 10)
}

func (s *idSequence) observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}
