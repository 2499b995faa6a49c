// Package worker mirrors transaction mutations from the sync queue to the
// spreadsheet backup.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/ledger"
)

// TransactionSource fetches transactions referenced by queue messages.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
}

// SyncWorker consumes sync messages and applies them to the backup target.
type SyncWorker struct {
	source TransactionSource
	backup ledger.BackupWriter
}

func NewSyncWorker(source TransactionSource, backup ledger.BackupWriter) *SyncWorker {
	return &SyncWorker{
		source: source,
		backup: backup,
	}
}

// HandleMessage processes a single sync message. A create whose record has
// vanished since publication is skipped, not failed: the matching delete
// message is already behind it in the queue.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionCreate:
		return w.handleCreate(ctx, msg.ID)
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg.ID)
	default:
		slog.WarnContext(ctx, "Unknown sync action, skipping",
			"id", msg.ID,
			"action", msg.Action)
		return nil
	}
}

func (w *SyncWorker) handleCreate(ctx context.Context, id string) error {
	t, err := w.source.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Transaction no longer exists, skipping sync", "id", id)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.backup.AppendTransaction(ctx, t)
	if err != nil {
		return fmt.Errorf("append to backup: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to backup",
		"id", id,
		"sheets_ref", ref)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, id string) error {
	if err := w.backup.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove from backup: %w", err)
	}

	slog.InfoContext(ctx, "Transaction removed from backup", "id", id)
	return nil
}
