// Package worker mirrors committed transactions to the external ledger. It
// consumes lifecycle events from the bus and sweeps the sync outbox for rows
// the bus missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/export"
	"kharcha/internal/storage"
)

type ExportWorker struct {
	repo      *storage.Repository
	ledger    export.LedgerWriter
	deleter   export.LedgerDeleter
	batchSize int
}

func NewExportWorker(repo *storage.Repository, ledger export.LedgerWriter, deleter export.LedgerDeleter, batchSize int) *ExportWorker {
	return &ExportWorker{
		repo:      repo,
		ledger:    ledger,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleTransactionEvent processes a single lifecycle event from the bus.
// A returned error nacks the message for redelivery.
func (w *ExportWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", event.Action, "id", event.ID)

	switch event.Action {
	case amqp.ActionCreated:
		return w.exportByID(ctx, event.ID)
	case amqp.ActionUpdated:
		// Drop the stale row before re-appending so the ledger carries one
		// row per transaction.
		if w.deleter != nil {
			if err := w.deleter.Delete(ctx, event.ID); err != nil {
				return fmt.Errorf("delete stale ledger row: %w", err)
			}
		}
		return w.exportByID(ctx, event.ID)
	case amqp.ActionDeleted:
		if w.deleter == nil {
			slog.WarnContext(ctx, "No ledger deleter configured, skipping delete", "id", event.ID)
			return nil
		}
		if err := w.deleter.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("delete ledger row: %w", err)
		}
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event action, dropping", "action", event.Action, "id", event.ID)
		return nil
	}
}

// ProcessPendingTransactions exports any rows still marked pending. This is
// the backup path for lost bus messages.
func (w *ExportWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.repo.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	for _, t := range pending {
		if err := w.exportTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", t.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.repo.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced, failed := 0, 0
	for _, t := range pending {
		if err := w.exportTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", t.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

// Run consumes bus events and sweeps the outbox every interval until the
// context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client, sweepInterval time.Duration) error {
	if err := w.StartupSyncCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.ProcessPendingTransactions(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				}
			}
		}
	}()

	return client.ConsumeTransactionEvents(ctx, w.HandleTransactionEvent)
}

func (w *ExportWorker) exportByID(ctx context.Context, id int64) error {
	t, err := w.repo.GetTransactionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	return w.exportTransaction(ctx, t)
}

func (w *ExportWorker) exportTransaction(ctx context.Context, t core.Transaction) error {
	ref, err := w.ledger.Append(ctx, t)
	if err != nil {
		if markErr := w.repo.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.repo.MarkSynced(ctx, t.ID); err != nil {
		// The export itself worked; the outbox sweep will retry the mark.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", t.ID, "ledger_ref", ref, "amount_cents", t.Amount.Cents)
	return nil
}
