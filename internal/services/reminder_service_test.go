package services

import (
	"context"
	"errors"
	"testing"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

func newReminderService(t *testing.T) (*ReminderService, *storage.Repository, *capturePublisher) {
	t.Helper()
	repo := newTestRepo(t)
	pub := &capturePublisher{}
	return NewReminderService(repo, march2025, pub), repo, pub
}

func rentReminder() core.Reminder {
	return core.Reminder{
		Owner: "user_a", Name: "Rent", Amount: core.Money{Cents: 950_00},
		Category: "Rent", PaidBy: "Asha", PaymentMethod: core.BankTransfer,
		StartMonth: "2025-01", EndMonth: "2025-12", Active: true,
	}
}

func TestReminderExecute(t *testing.T) {
	svc, repo, pub := newReminderService(t)
	ctx := context.Background()

	rem, err := svc.Create(ctx, rentReminder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created, err := svc.Execute(ctx, "user_a", rem.ID)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if created.Type != core.Expense {
		t.Errorf("type = %s, want expense", created.Type)
	}
	if created.Date.String() != "2025-03-01" {
		t.Errorf("date = %s, want first of current month", created.Date)
	}
	if created.Amount != rem.Amount || created.Category != rem.Category ||
		created.PaidBy != rem.PaidBy || created.PaymentMethod != rem.PaymentMethod {
		t.Errorf("reminder fields not copied: %+v", created)
	}
	if created.Description != "Rent (reminder)" {
		t.Errorf("description = %q", created.Description)
	}

	// Second confirmation in the same month conflicts and creates nothing.
	if _, err := svc.Execute(ctx, "user_a", rem.ID); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("repeat execute must conflict, got %v", err)
	}
	rows, err := repo.ListTransactions(ctx, "user_a", storage.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 transaction after repeat execute, got %d", len(rows))
	}

	if len(pub.events) != 1 || pub.events[0].Action != amqp.ActionCreated {
		t.Fatalf("expected one created event, got %+v", pub.events)
	}
}

func TestReminderStatesAndActiveList(t *testing.T) {
	svc, _, _ := newReminderService(t)
	ctx := context.Background()

	pending, err := svc.Create(ctx, rentReminder())
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}

	expired := rentReminder()
	expired.Name = "Old subscription"
	expired.StartMonth, expired.EndMonth = "2024-01", "2024-06"
	if _, err := svc.Create(ctx, expired); err != nil {
		t.Fatalf("create expired: %v", err)
	}

	inactive := rentReminder()
	inactive.Name = "Paused gym"
	inactive.Active = false
	if _, err := svc.Create(ctx, inactive); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	all, err := svc.List(ctx, "user_a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	states := map[string]core.ReminderState{}
	for _, r := range all {
		states[r.Name] = r.State
	}
	if states["Rent"] != core.ReminderPending ||
		states["Old subscription"] != core.ReminderExpired ||
		states["Paused gym"] != core.ReminderInactive {
		t.Fatalf("states = %v", states)
	}

	active, err := svc.Active(ctx, "user_a")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 || active[0].ID != pending.ID {
		t.Fatalf("active = %+v", active)
	}

	// Executing flips the state for the rest of the month.
	if _, err := svc.Execute(ctx, "user_a", pending.ID); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got, err := svc.Get(ctx, "user_a", pending.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != core.ReminderExecuted {
		t.Fatalf("state after execute = %s", got.State)
	}
	active, err = svc.Active(ctx, "user_a")
	if err != nil {
		t.Fatalf("active after execute: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("executed reminder still listed as active: %+v", active)
	}
}

func TestReminderExecuteConflictsAreNotValidation(t *testing.T) {
	svc, _, _ := newReminderService(t)
	ctx := context.Background()

	expired := rentReminder()
	expired.StartMonth, expired.EndMonth = "2024-01", "2024-06"
	rem, err := svc.Create(ctx, expired)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Execute(ctx, "user_a", rem.ID)
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("out-of-window execute must conflict, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("conflicts must stay distinct from validation errors")
	}
}
