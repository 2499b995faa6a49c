// Package services orchestrates the in-memory stores with the archive
// mirror and the sync queue. Stores stay authoritative: a mutation commits
// locally first, then mirroring failures are logged and never surfaced.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

// TransactionService orchestrates transaction mutations across the local
// store, the optional archive and the optional AMQP sync queue.
type TransactionService struct {
	transactions *store.TransactionStore
	archive      ledger.Archive
	amqpClient   *amqp.Client
}

func NewTransactionService(transactions *store.TransactionStore, archive ledger.Archive, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		archive:      archive,
		amqpClient:   amqpClient,
	}
}

// Store exposes the underlying transaction store for read paths.
func (s *TransactionService) Store() *store.TransactionStore {
	return s.transactions
}

// Create commits the record locally, then mirrors and publishes.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.transactions.Create(t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.mirrorSave(ctx, created)
	s.publish(ctx, created.ID, amqp.ActionCreate)
	return created, nil
}

// CreateBatch commits a whole batch atomically, then mirrors each record.
func (s *TransactionService) CreateBatch(ctx context.Context, records []core.Transaction) ([]core.Transaction, error) {
	created, err := s.transactions.CreateMany(records)
	if err != nil {
		return nil, err
	}
	for _, t := range created {
		s.mirrorSave(ctx, t)
		s.publish(ctx, t.ID, amqp.ActionCreate)
	}
	return created, nil
}

// Update applies a partial change to an existing record.
func (s *TransactionService) Update(ctx context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	updated, err := s.transactions.Update(id, patch)
	if err != nil {
		return core.Transaction{}, err
	}
	s.mirrorSave(ctx, updated)
	return updated, nil
}

// Delete removes the record if present. Deleting an unknown id is a no-op.
func (s *TransactionService) Delete(ctx context.Context, id string) {
	s.transactions.Delete(id)
	s.mirrorDelete(ctx, id)
	s.publish(ctx, id, amqp.ActionDelete)
}

// DeleteBatch removes every listed id, skipping unknown ones.
func (s *TransactionService) DeleteBatch(ctx context.Context, ids []string) {
	s.transactions.DeleteMany(ids)
	for _, id := range ids {
		s.mirrorDelete(ctx, id)
		s.publish(ctx, id, amqp.ActionDelete)
	}
}

func (s *TransactionService) mirrorSave(ctx context.Context, t core.Transaction) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveTransaction(ctx, t); err != nil {
		slog.ErrorContext(ctx, "Failed to mirror transaction to archive",
			"id", t.ID, "error", err)
	}
}

func (s *TransactionService) mirrorDelete(ctx context.Context, id string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.DeleteTransaction(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to remove transaction from archive",
			"id", id, "error", err)
	}
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionSync(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "action", action, "error", err)
		// Don't fail the request, the record is committed locally.
	}
}

// Close releases the AMQP connection. The archive is owned by the backend
// and closed there.
func (s *TransactionService) Close() error {
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.Close(); err != nil {
		return fmt.Errorf("close amqp: %w", err)
	}
	return nil
}
