package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kharcha/internal/core"
)

const transactionColumns = `id, owner, date, amount_cents, type, category, payment_method, paid_by, description, notes, created_at`

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	Type     core.TransactionType
	Category string
	From     core.Date
	To       core.Date
	Limit    int
}

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
	)
	err := row.Scan(&t.ID, &t.Owner, &dateStr, &t.Amount.Cents, &t.Type, &t.Category,
		&t.PaymentMethod, &t.PaidBy, &t.Description, &t.Notes, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	t.Date = d
	return t, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (owner, date, amount_cents, type, category, payment_method, paid_by, description, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Date.String(), t.Amount.Cents, t.Type, t.Category, t.PaymentMethod, t.PaidBy, t.Description, t.Notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = time.Now().UTC()

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID, "owner", t.Owner, "type", t.Type,
		"category", t.Category, "amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, owner string, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND owner = ?`, id, owner)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, amount_cents = ?, type = ?, category = ?, payment_method = ?, paid_by = ?, description = ?, notes = ?, sync_status = ?
		WHERE id = ? AND owner = ?`,
		t.Date.String(), t.Amount.Cents, t.Type, t.Category, t.PaymentMethod, t.PaidBy, t.Description, t.Notes,
		SyncPending, t.ID, t.Owner)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
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

func (r *Repository) DeleteTransaction(ctx context.Context, owner string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
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

func (r *Repository) ListTransactions(ctx context.Context, owner string, f TransactionFilter) ([]core.Transaction, error) {
	var (
		where = []string{"owner = ?"}
		args  = []any{owner}
	)
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.To.String())
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SummaryTotals returns the all-time expense and income sums plus the row
// count for the owner. Missing data yields zeroes.
func (r *Repository) SummaryTotals(ctx context.Context, owner string) (expense, income core.Money, count int64, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COUNT(*)
		FROM transactions WHERE owner = ?`, owner)
	if err = row.Scan(&expense.Cents, &income.Cents, &count); err != nil {
		err = fmt.Errorf("summary totals: %w", err)
	}
	return
}

// MonthExpenseTotal sums expense transactions in the given month. An empty
// category sums across all categories.
func (r *Repository) MonthExpenseTotal(ctx context.Context, owner string, month core.Month, category string) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE owner = ? AND type = 'expense' AND substr(date, 1, 7) = ?`
	args := []any{owner, month.String()}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var total core.Money
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total.Cents); err != nil {
		return core.Money{}, fmt.Errorf("month expense total: %w", err)
	}
	return total, nil
}

// ExpenseByCategory sums expense transactions per category, optionally
// restricted to one month. Income rows are excluded by definition.
func (r *Repository) ExpenseByCategory(ctx context.Context, owner string, month core.Month) ([]core.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount_cents) FROM transactions
		WHERE owner = ? AND type = 'expense'`
	args := []any{owner}
	if month != "" {
		query += ` AND substr(date, 1, 7) = ?`
		args = append(args, month.String())
	}
	query += ` GROUP BY category ORDER BY SUM(amount_cents) DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// MonthlyTotals returns per-month expense and income sums for months in
// [from, to]. Months without transactions are absent; the report service
// zero-fills them.
func (r *Repository) MonthlyTotals(ctx context.Context, owner string, from, to core.Month) (map[core.Month]core.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS month,
			SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END),
			SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END)
		FROM transactions
		WHERE owner = ? AND substr(date, 1, 7) BETWEEN ? AND ?
		GROUP BY month`, owner, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	out := make(map[core.Month]core.MonthlyTotal)
	for rows.Next() {
		var (
			month string
			mt    core.MonthlyTotal
		)
		if err := rows.Scan(&month, &mt.Expense.Cents, &mt.Income.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		mt.Month = core.Month(month)
		out[mt.Month] = mt
	}
	return out, rows.Err()
}

// PendingSyncTransactions lists rows the export worker has not shipped yet.
func (r *Repository) PendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return nil
}

// GetTransactionByID loads a row without owner scoping. Export-worker use
// only; API paths must go through GetTransaction.
func (r *Repository) GetTransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}
