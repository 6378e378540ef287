package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/clock"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// ReminderWithState pairs a reminder with its derived state for the current
// month, so clients never have to reimplement the window logic.
type ReminderWithState struct {
	core.Reminder
	State core.ReminderState
}

type ReminderService struct {
	repo      *storage.Repository
	clock     clock.Clock
	publisher EventPublisher
}

func NewReminderService(repo *storage.Repository, clk clock.Clock, publisher EventPublisher) *ReminderService {
	return &ReminderService{repo: repo, clock: clk, publisher: publisher}
}

func (s *ReminderService) Create(ctx context.Context, rem core.Reminder) (core.Reminder, error) {
	if err := rem.Validate(); err != nil {
		return core.Reminder{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.CreateReminder(ctx, rem)
}

func (s *ReminderService) Get(ctx context.Context, owner string, id int64) (ReminderWithState, error) {
	rem, err := s.repo.GetReminder(ctx, owner, id)
	if err != nil {
		return ReminderWithState{}, err
	}
	return s.withState(rem), nil
}

// List returns all of the owner's reminders with their current states.
func (s *ReminderService) List(ctx context.Context, owner string) ([]ReminderWithState, error) {
	rems, err := s.repo.ListReminders(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]ReminderWithState, 0, len(rems))
	for _, rem := range rems {
		out = append(out, s.withState(rem))
	}
	return out, nil
}

// Active returns only reminders in the pending state: the actionable
// "confirm this month's payments" checklist.
func (s *ReminderService) Active(ctx context.Context, owner string) ([]ReminderWithState, error) {
	all, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	pending := all[:0]
	for _, r := range all {
		if r.State == core.ReminderPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (s *ReminderService) Update(ctx context.Context, rem core.Reminder) error {
	if err := rem.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.UpdateReminder(ctx, rem)
}

func (s *ReminderService) Delete(ctx context.Context, owner string, id int64) error {
	return s.repo.DeleteReminder(ctx, owner, id)
}

// Execute confirms a pending reminder for the current month. The resulting
// expense transaction and the month stamp commit atomically in storage; any
// state other than pending surfaces as a conflict so the caller refreshes
// instead of retrying blindly.
func (s *ReminderService) Execute(ctx context.Context, owner string, id int64) (core.Transaction, error) {
	now := s.clock.Now()
	current := core.MonthOf(now)

	rem, err := s.repo.GetReminder(ctx, owner, id)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		Owner:         owner,
		Date:          core.NewDate(now.Year(), int(now.Month()), 1),
		Amount:        rem.Amount,
		Type:          core.Expense,
		Category:      rem.Category,
		PaymentMethod: rem.PaymentMethod,
		PaidBy:        rem.PaidBy,
		Description:   rem.Name + " (reminder)",
	}

	created, err := s.repo.ExecuteReminder(ctx, owner, id, current, t)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.publisher != nil {
		event := &amqp.TransactionEvent{
			Action:    amqp.ActionCreated,
			ID:        created.ID,
			Owner:     owner,
			Timestamp: time.Now().UTC(),
		}
		if perr := s.publisher.PublishTransactionEvent(ctx, event); perr != nil {
			// Export lag only; the reminder already executed.
			slog.ErrorContext(ctx, "Failed to publish reminder transaction event",
				"reminder_id", id, "transaction_id", created.ID, "error", perr)
		}
	}
	return created, nil
}

func (s *ReminderService) withState(rem core.Reminder) ReminderWithState {
	return ReminderWithState{
		Reminder: rem,
		State:    rem.StateAt(core.MonthOf(s.clock.Now())),
	}
}
