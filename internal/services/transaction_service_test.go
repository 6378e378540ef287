package services

import (
	"context"
	"errors"
	"testing"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

func validExpense() core.Transaction {
	return core.Transaction{
		Owner: "user_a", Date: core.NewDate(2025, 3, 10),
		Amount: core.Money{Cents: 450_00}, Type: core.Expense,
		Category: "Food", PaymentMethod: core.UPI, PaidBy: "Asha",
		Description: "Groceries",
	}
}

func TestTransactionCreateForcesIncomeCategory(t *testing.T) {
	repo := newTestRepo(t)
	pub := &capturePublisher{}
	svc := NewTransactionService(repo, pub)
	ctx := context.Background()

	income := validExpense()
	income.Type = core.Income
	income.Category = "Food" // client-supplied category must be overridden

	created, err := svc.Create(ctx, income)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != core.CreditCategory {
		t.Errorf("income category = %q, want %q", created.Category, core.CreditCategory)
	}

	// Updates re-apply the same rule.
	created.Category = "Travel"
	updated, err := svc.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != core.CreditCategory {
		t.Errorf("updated income category = %q, want %q", updated.Category, core.CreditCategory)
	}
}

func TestTransactionCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*core.Transaction)
	}{
		{"zero amount", func(tx *core.Transaction) { tx.Amount.Cents = 0 }},
		{"negative amount", func(tx *core.Transaction) { tx.Amount.Cents = -100 }},
		{"bad payment method", func(tx *core.Transaction) { tx.PaymentMethod = "Cheque" }},
		{"empty category", func(tx *core.Transaction) { tx.Category = "" }},
		{"empty paid_by", func(tx *core.Transaction) { tx.PaidBy = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := validExpense()
			tc.mutate(&tx)
			if _, err := svc.Create(ctx, tx); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestTransactionLifecycleEvents(t *testing.T) {
	repo := newTestRepo(t)
	pub := &capturePublisher{}
	svc := NewTransactionService(repo, pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, validExpense())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Description = "Weekly groceries"
	if _, err := svc.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, "user_a", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(pub.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.events))
	}
	actions := []string{pub.events[0].Action, pub.events[1].Action, pub.events[2].Action}
	want := []string{amqp.ActionCreated, amqp.ActionUpdated, amqp.ActionDeleted}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("event %d action = %s, want %s", i, actions[i], want[i])
		}
	}

	// The deleted row is gone, so its event must carry the reversal data.
	del := pub.events[2]
	if del.AmountCents != 450_00 || del.Category != "Food" || del.Description != "Weekly groceries" {
		t.Errorf("deleted event payload = %+v", del)
	}
}

func TestTransactionDeleteUnknown(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil)

	err := svc.Delete(context.Background(), "user_a", 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
