// Package services holds the owner-facing business operations on top of the
// storage layer: transaction bookkeeping, dashboard aggregation, budget
// alerting and reminder execution.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// ErrValidation wraps all synchronous input rejections so the HTTP layer can
// map them to 422 without inspecting individual core sentinels.
var ErrValidation = errors.New("validation failed")

// EventPublisher is the slice of the AMQP client the services need.
// A nil publisher disables eventing; requests never fail on it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

type TransactionService struct {
	repo      *storage.Repository
	publisher EventPublisher
}

func NewTransactionService(repo *storage.Repository, publisher EventPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher}
}

// normalize applies the income rule: income transactions always carry the
// fixed "Credit" category no matter what the client sent.
func normalize(t core.Transaction) core.Transaction {
	if t.Type == core.Income {
		t.Category = core.CreditCategory
	}
	return t
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t = normalize(t)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, &amqp.TransactionEvent{
		Action:    amqp.ActionCreated,
		ID:        created.ID,
		Owner:     created.Owner,
		Timestamp: time.Now().UTC(),
	})
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, owner string, id int64) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, owner, id)
}

func (s *TransactionService) List(ctx context.Context, owner string, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, owner, f)
}

func (s *TransactionService) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t = normalize(t)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	updated, err := s.repo.GetTransaction(ctx, t.Owner, t.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, &amqp.TransactionEvent{
		Action:    amqp.ActionUpdated,
		ID:        updated.ID,
		Owner:     updated.Owner,
		Timestamp: time.Now().UTC(),
	})
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, owner string, id int64) error {
	// Capture the row before it goes away; the deleted event carries the
	// details needed for the ledger reversal entry.
	t, err := s.repo.GetTransaction(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(ctx, owner, id); err != nil {
		return err
	}

	s.publish(ctx, &amqp.TransactionEvent{
		Action:      amqp.ActionDeleted,
		ID:          id,
		Owner:       owner,
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Description: t.Description,
		Timestamp:   time.Now().UTC(),
	})
	return nil
}

// publish is best-effort. The local write already succeeded; a broker outage
// only delays the export, it never fails the request.
func (s *TransactionService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", event.Action, "id", event.ID, "error", err)
	}
}
