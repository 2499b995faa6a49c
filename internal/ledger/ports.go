// Package ledger defines the ports for outbound collaborators.
package ledger

import (
	"context"
	"time"

	"tally/internal/core"
)

type (
	// Clock supplies the current instant. Aggregations and the recurring
	// processor take it injected so period math is deterministic in tests.
	Clock interface {
		Now() time.Time
	}

	// Archive is the persistence collaborator. The in-memory stores stay
	// authoritative; an Archive, when configured, is loaded once at start
	// and mirrored on every mutation.
	Archive interface {
		LoadTransactions(ctx context.Context) ([]core.Transaction, error)
		LoadCategories(ctx context.Context) ([]core.Category, error)
		LoadRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
		LoadBudgets(ctx context.Context) ([]core.Budget, error)

		SaveTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		SaveCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id string) error
		SaveRecurring(ctx context.Context, r core.RecurringTransaction) error
		DeleteRecurring(ctx context.Context, id string) error
		SaveBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, category string) error

		// Wipe clears every record kind; backs the "clear all data" action.
		Wipe(ctx context.Context) error

		Close() error
	}

	// BackupWriter appends transaction rows to an external backup target.
	BackupWriter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
		RemoveTransaction(ctx context.Context, id string) error
	}
)

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
