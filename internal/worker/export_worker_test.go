package worker

import (
	"context"
	"path/filepath"
	"testing"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/export/memory"
	"kharcha/internal/storage"
)

func newWorkerFixture(t *testing.T) (*ExportWorker, *storage.Repository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.CreateUser(context.Background(), storage.User{ID: "user_a", Email: "a@example.com", Name: "A"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	store := memory.New()
	return NewExportWorker(repo, store, store, 10), repo, store
}

func seedPending(t *testing.T, repo *storage.Repository, desc string) core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Owner: "user_a", Date: core.NewDate(2025, 3, 10),
		Amount: core.Money{Cents: 120_00}, Type: core.Expense,
		Category: "Food", PaymentMethod: core.Cash, PaidBy: "Asha",
		Description: desc,
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return created
}

func TestStartupSyncCheckDrainsOutbox(t *testing.T) {
	w, repo, store := newWorkerFixture(t)
	ctx := context.Background()

	seedPending(t, repo, "coffee")
	seedPending(t, repo, "lunch")

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("startup sync: %v", err)
	}

	if got := store.Items(); len(got) != 2 {
		t.Fatalf("exported %d rows, want 2", len(got))
	}
	pending, err := repo.PendingSyncTransactions(ctx, 100)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("outbox still has %d pending rows", len(pending))
	}
}

func TestExportFailureMarksSyncError(t *testing.T) {
	w, repo, store := newWorkerFixture(t)
	ctx := context.Background()

	seedPending(t, repo, "coffee")
	store.FailNext = true

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if got := store.Items(); len(got) != 0 {
		t.Fatalf("failed append still exported %d rows", len(got))
	}
	// The row leaves the pending queue; a bus redelivery or manual retry
	// picks it up from the error state.
	pending, err := repo.PendingSyncTransactions(ctx, 100)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("errored row still pending")
	}
}

func TestHandleTransactionEvent(t *testing.T) {
	w, repo, store := newWorkerFixture(t)
	ctx := context.Background()

	created := seedPending(t, repo, "coffee")

	event := &amqp.TransactionEvent{Action: amqp.ActionCreated, ID: created.ID, Owner: "user_a"}
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatalf("created event: %v", err)
	}
	if got := store.Items(); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("ledger = %+v", got)
	}

	// An update re-exports a single fresh row.
	created.Description = "espresso"
	if err := repo.UpdateTransaction(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	event.Action = amqp.ActionUpdated
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatalf("updated event: %v", err)
	}
	got := store.Items()
	if len(got) != 1 || got[0].Description != "espresso" {
		t.Fatalf("ledger after update = %+v", got)
	}

	event.Action = amqp.ActionDeleted
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatalf("deleted event: %v", err)
	}
	if got := store.Items(); len(got) != 0 {
		t.Fatalf("ledger after delete = %+v", got)
	}

	// Unknown actions are dropped, not redelivered forever.
	event.Action = "reticulated"
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatalf("unknown action: %v", err)
	}
}
