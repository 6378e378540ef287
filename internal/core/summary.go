package core

// SummaryStats is the dashboard headline block, computed over all of an
// owner's transactions.
type SummaryStats struct {
	TotalExpense        Money
	TotalIncome         Money
	Balance             Money // TotalIncome - TotalExpense
	CurrentMonthExpense Money
	TransactionCount    int64
}

// CategoryTotal is one row of the expense-by-category breakdown.
type CategoryTotal struct {
	Category string
	Total    Money
}

// MonthlyTotal is one point of the monthly trend series.
type MonthlyTotal struct {
	Month   Month
	Expense Money
	Income  Money
}
