package core

import "math"

const (
	AlertNormal   AlertStatus = "normal"
	AlertWarning  AlertStatus = "warning"
	AlertExceeded AlertStatus = "exceeded"
)

type AlertStatus string

// BudgetAlert compares one budget against the current-month spend in its
// category. Percentage is the rounded spend-to-limit ratio.
type BudgetAlert struct {
	Category   string
	Limit      Money
	Spent      Money
	Remaining  Money
	Percentage int
	Status     AlertStatus
}

// EvaluateBudget classifies current-month spend against the budget limit.
// The limit is guaranteed positive by Budget.Validate.
func EvaluateBudget(b Budget, spent Money) BudgetAlert {
	pct := int(math.Round(float64(spent.Cents) / float64(b.MonthlyLimit.Cents) * 100))

	status := AlertNormal
	switch {
	case pct >= 100:
		status = AlertExceeded
	case pct >= 80:
		status = AlertWarning
	}

	remaining := b.MonthlyLimit.Cents - spent.Cents
	if remaining < 0 {
		remaining = 0
	}

	return BudgetAlert{
		Category:   b.Category,
		Limit:      b.MonthlyLimit,
		Spent:      spent,
		Remaining:  Money{Cents: remaining},
		Percentage: pct,
		Status:     status,
	}
}
