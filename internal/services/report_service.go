package services

import (
	"context"
	"fmt"

	"kharcha/internal/clock"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// DefaultTrendMonths is the dashboard's trailing window for the trend chart.
const DefaultTrendMonths = 6

// ReportService computes the read-side dashboard aggregates. Everything is
// recomputed per call; empty data yields zero values, never errors.
type ReportService struct {
	repo  *storage.Repository
	clock clock.Clock
}

func NewReportService(repo *storage.Repository, clk clock.Clock) *ReportService {
	return &ReportService{repo: repo, clock: clk}
}

func (s *ReportService) SummaryStats(ctx context.Context, owner string) (core.SummaryStats, error) {
	expense, income, count, err := s.repo.SummaryTotals(ctx, owner)
	if err != nil {
		return core.SummaryStats{}, fmt.Errorf("summary totals: %w", err)
	}

	current := core.MonthOf(s.clock.Now())
	monthExpense, err := s.repo.MonthExpenseTotal(ctx, owner, current, "")
	if err != nil {
		return core.SummaryStats{}, fmt.Errorf("current month expense: %w", err)
	}

	return core.SummaryStats{
		TotalExpense:        expense,
		TotalIncome:         income,
		Balance:             core.Money{Cents: income.Cents - expense.Cents},
		CurrentMonthExpense: monthExpense,
		TransactionCount:    count,
	}, nil
}

// ByCategory breaks current spending down per category. An empty month means
// all time; income never appears in the breakdown.
func (s *ReportService) ByCategory(ctx context.Context, owner string, month core.Month) ([]core.CategoryTotal, error) {
	totals, err := s.repo.ExpenseByCategory(ctx, owner, month)
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	return totals, nil
}

// MonthlyTrend returns the trailing months window ending at the current
// month, oldest first. Months without transactions report zero totals rather
// than being dropped, so chart axes stay stable.
func (s *ReportService) MonthlyTrend(ctx context.Context, owner string, months int) ([]core.MonthlyTotal, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	current := core.MonthOf(s.clock.Now())
	first := current.Add(-(months - 1))

	byMonth, err := s.repo.MonthlyTotals(ctx, owner, first, current)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	out := make([]core.MonthlyTotal, 0, months)
	for m := first; !m.After(current); m = m.Add(1) {
		mt, ok := byMonth[m]
		if !ok {
			mt = core.MonthlyTotal{Month: m}
		}
		out = append(out, mt)
	}
	return out, nil
}
