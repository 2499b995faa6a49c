// Package backend assembles the stores, services and persistence
// collaborators for a chosen data backend.
package backend

import (
	"tally/internal/ledger"
	"tally/internal/services"
	"tally/internal/store"
)

// Type selects the persistence strategy behind the in-memory stores.
type Type string

const (
	// MemoryBackend keeps everything in process memory only.
	MemoryBackend Type = "memory"
	// SQLiteBackend mirrors every mutation to a local SQLite file and
	// reloads the stores from it at start.
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries the assembled stores and services. The stores are the
// authoritative data; Archive is nil for the memory backend.
type Result struct {
	Transactions *store.TransactionStore
	Categories   *store.CategoryStore
	Recurring    *store.RecurringStore
	Budgets      *store.BudgetStore

	Archive ledger.Archive

	TransactionService *services.TransactionService
	CatalogService     *services.CatalogService
	ImportService      *services.ImportService

	Cleanup CleanupFunc
}
