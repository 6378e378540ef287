package storage

import (
	"context"
	"fmt"

	"kharcha/internal/core"
)

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (owner, category, year, monthly_limit_cents)
		VALUES (?, ?, ?, ?)`,
		b.Owner, b.Category, b.Year, b.MonthlyLimit.Cents)
	if isUniqueViolation(err) {
		return core.Budget{}, fmt.Errorf("budget for %s/%d already exists: %w", b.Category, b.Year, ErrConflict)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *Repository) ListBudgets(ctx context.Context, owner string, year int) ([]core.Budget, error) {
	query := `SELECT id, owner, category, year, monthly_limit_cents FROM budgets WHERE owner = ?`
	args := []any{owner}
	if year != 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year, category`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Owner, &b.Category, &b.Year, &b.MonthlyLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBudgetLimit changes only the monthly limit; category and year are
// fixed at creation.
func (r *Repository) UpdateBudgetLimit(ctx context.Context, owner string, id int64, limit core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET monthly_limit_cents = ? WHERE id = ? AND owner = ?`,
		limit.Cents, id, owner)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBudget(ctx context.Context, owner string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
