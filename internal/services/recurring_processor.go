package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

// RecurringProcessor materializes transactions from recurring templates.
// A template is due when its nextDate is on or before today; when a
// template has been paused across several periods it catches up one
// transaction per missed period.
type RecurringProcessor struct {
	recurring    *store.RecurringStore
	transactions *TransactionService
	catalog      *CatalogService
	clock        ledger.Clock
}

func NewRecurringProcessor(recurring *store.RecurringStore, transactions *TransactionService, catalog *CatalogService, clock ledger.Clock) *RecurringProcessor {
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &RecurringProcessor{
		recurring:    recurring,
		transactions: transactions,
		catalog:      catalog,
		clock:        clock,
	}
}

// ProcessDue walks every active template and creates one transaction per
// elapsed period, advancing nextDate as it goes. Returns the number of
// transactions created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context) (int, error) {
	if p.recurring == nil || p.transactions == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(p.clock.Now())
	active := p.recurring.ListActive()

	slog.InfoContext(ctx, "Processing recurring templates",
		"total_active", len(active),
		"processing_date", today.Format())

	created := 0
	for _, tpl := range active {
		n, err := p.processTemplate(ctx, tpl, today)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring template",
				"id", tpl.ID,
				"title", tpl.Title,
				"error", err)
			continue
		}
		created += n
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"created", created,
		"total_checked", len(active))

	return created, nil
}

func (p *RecurringProcessor) processTemplate(ctx context.Context, tpl core.RecurringTransaction, today core.Date) (int, error) {
	created := 0
	next := tpl.NextDate

	for !next.After(today.Time) {
		t := core.Transaction{
			Title:       tpl.Title,
			Amount:      tpl.Amount,
			Type:        tpl.Type,
			Category:    tpl.Category,
			Date:        next,
			Description: tpl.Description,
		}
		if _, err := p.transactions.Create(ctx, t); err != nil {
			return created, fmt.Errorf("create transaction: %w", err)
		}
		created++

		advanced := tpl.Frequency.NextAfter(next)
		if !advanced.After(next.Time) {
			return created, fmt.Errorf("frequency %q did not advance next date", tpl.Frequency)
		}
		next = advanced
	}

	if created == 0 {
		return 0, nil
	}

	if _, err := p.catalog.UpdateRecurring(ctx, tpl.ID, store.RecurringPatch{NextDate: &next}); err != nil {
		return created, fmt.Errorf("advance next date: %w", err)
	}

	slog.InfoContext(ctx, "Created transactions from recurring template",
		"id", tpl.ID,
		"title", tpl.Title,
		"created", created,
		"next_date", next.Format())

	return created, nil
}
