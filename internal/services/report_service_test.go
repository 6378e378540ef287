package services

import (
	"context"
	"testing"

	"kharcha/internal/core"
)

func TestSummaryStats(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportService(repo, march2025)
	ctx := context.Background()

	seedTransaction(t, repo, core.NewDate(2025, 3, 1), 120_00, core.Expense, "Food")
	seedTransaction(t, repo, core.NewDate(2025, 2, 1), 80_00, core.Expense, "Fuel")
	seedTransaction(t, repo, core.NewDate(2025, 3, 5), 500_00, core.Income, "Credit")

	stats, err := svc.SummaryStats(ctx, "user_a")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stats.TotalExpense.Cents != 200_00 {
		t.Errorf("TotalExpense = %d, want %d", stats.TotalExpense.Cents, 200_00)
	}
	if stats.TotalIncome.Cents != 500_00 {
		t.Errorf("TotalIncome = %d, want %d", stats.TotalIncome.Cents, 500_00)
	}
	if stats.Balance.Cents != 300_00 {
		t.Errorf("Balance = %d, want %d", stats.Balance.Cents, 300_00)
	}
	// Only the March expense counts toward the current month.
	if stats.CurrentMonthExpense.Cents != 120_00 {
		t.Errorf("CurrentMonthExpense = %d, want %d", stats.CurrentMonthExpense.Cents, 120_00)
	}
	if stats.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", stats.TransactionCount)
	}
}

func TestSummaryStatsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportService(repo, march2025)

	stats, err := svc.SummaryStats(context.Background(), "user_a")
	if err != nil {
		t.Fatalf("empty summary must not error: %v", err)
	}
	if stats.TotalExpense.Cents != 0 || stats.TotalIncome.Cents != 0 || stats.Balance.Cents != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestMonthlyTrendZeroFills(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportService(repo, march2025)
	ctx := context.Background()

	// Only January and March have data; February must still appear.
	seedTransaction(t, repo, core.NewDate(2025, 1, 10), 50_00, core.Expense, "Food")
	seedTransaction(t, repo, core.NewDate(2025, 3, 10), 70_00, core.Expense, "Food")
	seedTransaction(t, repo, core.NewDate(2025, 3, 11), 90_00, core.Income, "Credit")
	// Outside the window, must be excluded.
	seedTransaction(t, repo, core.NewDate(2024, 8, 1), 999_00, core.Expense, "Food")

	trend, err := svc.MonthlyTrend(ctx, "user_a", 6)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend) != 6 {
		t.Fatalf("expected 6 months, got %d", len(trend))
	}
	if trend[0].Month != "2024-10" || trend[5].Month != "2025-03" {
		t.Fatalf("window = [%s, %s], want [2024-10, 2025-03]", trend[0].Month, trend[5].Month)
	}
	for i := 1; i < len(trend); i++ {
		if !trend[i-1].Month.Before(trend[i].Month) {
			t.Fatalf("months out of order at %d: %s before %s", i, trend[i-1].Month, trend[i].Month)
		}
	}
	feb := trend[4]
	if feb.Month != "2025-02" || feb.Expense.Cents != 0 || feb.Income.Cents != 0 {
		t.Errorf("february should be zero-filled, got %+v", feb)
	}
	mar := trend[5]
	if mar.Expense.Cents != 70_00 || mar.Income.Cents != 90_00 {
		t.Errorf("march = %+v", mar)
	}
}

func TestByCategoryMatchesBruteForce(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportService(repo, march2025)
	ctx := context.Background()

	seed := []struct {
		date     core.Date
		cents    int64
		category string
	}{
		{core.NewDate(2025, 3, 1), 10_00, "Food"},
		{core.NewDate(2025, 3, 2), 20_00, "Food"},
		{core.NewDate(2025, 3, 3), 30_00, "Fuel"},
		{core.NewDate(2025, 2, 1), 40_00, "Food"},
	}
	for _, s := range seed {
		seedTransaction(t, repo, s.date, s.cents, core.Expense, s.category)
	}

	got, err := svc.ByCategory(ctx, "user_a", "2025-03")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}

	want := map[string]int64{}
	for _, s := range seed {
		if s.date.Month() == "2025-03" {
			want[s.category] += s.cents
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for _, ct := range got {
		if ct.Total.Cents != want[ct.Category] {
			t.Errorf("%s = %d, want %d", ct.Category, ct.Total.Cents, want[ct.Category])
		}
	}
}
