package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

const reminderColumns = `id, owner, name, amount_cents, category, paid_by, payment_method, start_month, end_month, active, COALESCE(last_executed_month, '')`

func scanReminder(row interface{ Scan(...any) error }) (core.Reminder, error) {
	var (
		rem    core.Reminder
		active int64
	)
	err := row.Scan(&rem.ID, &rem.Owner, &rem.Name, &rem.Amount.Cents, &rem.Category,
		&rem.PaidBy, &rem.PaymentMethod, &rem.StartMonth, &rem.EndMonth, &active, &rem.LastExecuted)
	if err != nil {
		return core.Reminder{}, err
	}
	rem.Active = active != 0
	return rem, nil
}

func (r *Repository) CreateReminder(ctx context.Context, rem core.Reminder) (core.Reminder, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (owner, name, amount_cents, category, paid_by, payment_method, start_month, end_month, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.Owner, rem.Name, rem.Amount.Cents, rem.Category, rem.PaidBy, rem.PaymentMethod,
		rem.StartMonth, rem.EndMonth, boolToInt(rem.Active))
	if err != nil {
		return core.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Reminder{}, fmt.Errorf("last insert id: %w", err)
	}
	rem.ID = id
	return rem, nil
}

func (r *Repository) GetReminder(ctx context.Context, owner string, id int64) (core.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND owner = ?`, id, owner)
	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, ErrNotFound
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return rem, nil
}

func (r *Repository) ListReminders(ctx context.Context, owner string) ([]core.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE owner = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var out []core.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

// UpdateReminder rewrites the template fields. The execution stamp is only
// ever touched by ExecuteReminder.
func (r *Repository) UpdateReminder(ctx context.Context, rem core.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET name = ?, amount_cents = ?, category = ?, paid_by = ?, payment_method = ?, start_month = ?, end_month = ?, active = ?
		WHERE id = ? AND owner = ?`,
		rem.Name, rem.Amount.Cents, rem.Category, rem.PaidBy, rem.PaymentMethod,
		rem.StartMonth, rem.EndMonth, boolToInt(rem.Active), rem.ID, rem.Owner)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
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

func (r *Repository) DeleteReminder(ctx context.Context, owner string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
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

// ExecuteReminder stamps the reminder for the current month and inserts the
// resulting expense transaction in one database transaction, so a retry can
// never double-charge. The UPDATE carries the full pending-state guard in its
// WHERE clause; zero rows affected means the reminder is either gone or not
// in the pending state, and the follow-up read discriminates the two.
func (r *Repository) ExecuteReminder(ctx context.Context, owner string, id int64, current core.Month, t core.Transaction) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE reminders SET last_executed_month = ?
		WHERE id = ? AND owner = ?
		  AND active = 1
		  AND start_month <= ? AND end_month >= ?
		  AND (last_executed_month IS NULL OR last_executed_month <> ?)`,
		current, id, owner, current, current, current)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stamp reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		row := tx.QueryRowContext(ctx,
			`SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND owner = ?`, id, owner)
		rem, scanErr := scanReminder(row)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return core.Transaction{}, ErrNotFound
		}
		if scanErr != nil {
			return core.Transaction{}, fmt.Errorf("reread reminder: %w", scanErr)
		}
		return core.Transaction{}, fmt.Errorf("reminder %q is %s: %w", rem.Name, rem.StateAt(current), ErrConflict)
	}

	ires, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (owner, date, amount_cents, type, category, payment_method, paid_by, description, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Date.String(), t.Amount.Cents, t.Type, t.Category, t.PaymentMethod, t.PaidBy, t.Description, t.Notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert reminder transaction: %w", err)
	}
	tid, err := ires.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = tid

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Reminder executed",
		"reminder_id", id, "owner", owner, "month", current, "transaction_id", t.ID)
	return t, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
