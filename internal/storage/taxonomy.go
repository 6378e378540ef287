package storage

import (
	"context"
	"fmt"

	"kharcha/internal/core"
)

// ListCategories returns the owner's user-defined categories; the fixed
// default set lives in core and is merged by the service layer.
func (r *Repository) ListCategories(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM categories WHERE owner = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, owner, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (owner, name) VALUES (?, ?)`, owner, name)
	if isUniqueViolation(err) {
		return fmt.Errorf("category %q already exists: %w", name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a user-defined category. Categories still tagged on
// a transaction cannot be removed.
func (r *Repository) DeleteCategory(ctx context.Context, owner, name string) error {
	refs, err := r.countTransactionRefs(ctx, owner, "category", name)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("category %q is used by %d transaction(s): %w", name, refs, ErrConflict)
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE owner = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
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

func (r *Repository) ListPayers(ctx context.Context, owner string) ([]core.Payer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name FROM payers WHERE owner = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list payers: %w", err)
	}
	defer rows.Close()

	var out []core.Payer
	for rows.Next() {
		var p core.Payer
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name); err != nil {
			return nil, fmt.Errorf("scan payer: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) CreatePayer(ctx context.Context, p core.Payer) (core.Payer, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payers (owner, name) VALUES (?, ?)`, p.Owner, p.Name)
	if isUniqueViolation(err) {
		return core.Payer{}, fmt.Errorf("payer %q already exists: %w", p.Name, ErrConflict)
	}
	if err != nil {
		return core.Payer{}, fmt.Errorf("insert payer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Payer{}, fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	return p, nil
}

// DeletePayer removes a payer unless some transaction still names them.
func (r *Repository) DeletePayer(ctx context.Context, owner string, id int64) error {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM payers WHERE id = ? AND owner = ?`, id, owner).Scan(&name)
	if err != nil {
		return ErrNotFound
	}

	refs, err := r.countTransactionRefs(ctx, owner, "paid_by", name)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("payer %q is used by %d transaction(s): %w", name, refs, ErrConflict)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM payers WHERE id = ? AND owner = ?`, id, owner); err != nil {
		return fmt.Errorf("delete payer: %w", err)
	}
	return nil
}

func (r *Repository) countTransactionRefs(ctx context.Context, owner, column, value string) (int64, error) {
	// column is one of the fixed identifiers "category" or "paid_by", never
	// user input.
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE owner = ? AND `+column+` = ?`,
		owner, value).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s references: %w", column, err)
	}
	return n, nil
}
