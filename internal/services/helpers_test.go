package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/clock"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// march2025 pins "now" to 2025-03-14 for every service test.
var march2025 = clock.At(2025, time.March, 14)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.CreateUser(context.Background(), storage.User{
		ID: "user_a", Email: "a@example.com", Name: "A",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return repo
}

// capturePublisher records published events instead of talking to RabbitMQ.
type capturePublisher struct {
	events []*amqp.TransactionEvent
}

func (p *capturePublisher) PublishTransactionEvent(_ context.Context, e *amqp.TransactionEvent) error {
	p.events = append(p.events, e)
	return nil
}

func seedTransaction(t *testing.T, repo *storage.Repository, date core.Date, cents int64, typ core.TransactionType, category string) core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Owner:         "user_a",
		Date:          date,
		Amount:        core.Money{Cents: cents},
		Type:          typ,
		Category:      category,
		PaymentMethod: core.Cash,
		PaidBy:        "Asha",
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return created
}
