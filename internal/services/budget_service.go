package services

import (
	"context"
	"fmt"

	"kharcha/internal/clock"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

type BudgetService struct {
	repo  *storage.Repository
	clock clock.Clock
}

func NewBudgetService(repo *storage.Repository, clk clock.Clock) *BudgetService {
	return &BudgetService{repo: repo, clock: clk}
}

// Create stores a new budget. A zero year defaults to the current one.
// Duplicate (category, year) pairs come back as a conflict from storage.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Year == 0 {
		b.Year = s.clock.Now().Year()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.CreateBudget(ctx, b)
}

// List returns the owner's budgets, optionally restricted to one year.
func (s *BudgetService) List(ctx context.Context, owner string, year int) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, owner, year)
}

func (s *BudgetService) UpdateLimit(ctx context.Context, owner string, id int64, limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.UpdateBudgetLimit(ctx, owner, id, limit)
}

func (s *BudgetService) Delete(ctx context.Context, owner string, id int64) error {
	return s.repo.DeleteBudget(ctx, owner, id)
}

// Alerts evaluates every current-year budget against the current month's
// spend in its category. Categories without a budget never alert, whatever
// their spend. Pure read-side computation, nothing is persisted.
func (s *BudgetService) Alerts(ctx context.Context, owner string) ([]core.BudgetAlert, error) {
	now := s.clock.Now()
	current := core.MonthOf(now)

	budgets, err := s.repo.ListBudgets(ctx, owner, now.Year())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	alerts := make([]core.BudgetAlert, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.repo.MonthExpenseTotal(ctx, owner, current, b.Category)
		if err != nil {
			return nil, fmt.Errorf("spend for %s: %w", b.Category, err)
		}
		alerts = append(alerts, core.EvaluateBudget(b, spent))
	}
	return alerts, nil
}
