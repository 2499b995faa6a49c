// Package storage implements the SQLite persistence collaborator.
//
// The repository mirrors the in-memory stores: it is loaded once at startup
// and written through on every mutation. It is not the authoritative state.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"tally/internal/core"
	"tally/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Archive = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTransactions returns all transactions newest-first, matching the
// in-memory store's insertion order.
func (r *SQLiteRepository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, type, category, date, description
		FROM transactions
		ORDER BY CAST(id AS INTEGER) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			cents    int64
			typ, day string
		)
		if err := rows.Scan(&t.ID, &t.Title, &cents, &typ, &t.Category, &day, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.Money{Cents: cents}
		t.Type = core.TransactionType(typ)
		if t.Date, err = core.ParseDate(day); err != nil {
			return nil, fmt.Errorf("transaction %s: bad date %q", t.ID, day)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTransaction fetches a single transaction by id. The sync worker uses
// this to materialize rows referenced by queue messages.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var (
		t        core.Transaction
		cents    int64
		typ, day string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, amount_cents, type, category, date, description
		FROM transactions
		WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &cents, &typ, &t.Category, &day, &t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(typ)
	if t.Date, err = core.ParseDate(day); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: bad date %q", t.ID, day)
	}
	return t, nil
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, title, amount_cents, type, category, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			amount_cents = excluded.amount_cents,
			type = excluded.type,
			category = excluded.category,
			date = excluded.date,
			description = excluded.description`,
		t.ID, t.Title, t.Amount.Cents, string(t.Type), t.Category, t.Date.Format(), t.Description)
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) LoadCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, icon, color, is_default
		FROM categories
		ORDER BY CAST(id AS INTEGER) ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c   core.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &c.Name, &typ, &c.Icon, &c.Color, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, icon, color, is_default)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			icon = excluded.icon,
			color = excluded.color,
			is_default = excluded.is_default`,
		c.ID, c.Name, string(c.Type), c.Icon, c.Color, c.IsDefault)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) LoadRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, type, category, frequency, next_date,
		       is_active, is_default, description
		FROM recurring_transactions
		ORDER BY CAST(id AS INTEGER) ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var (
			rec             core.RecurringTransaction
			cents           int64
			typ, freq, next string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &cents, &typ, &rec.Category, &freq,
			&next, &rec.IsActive, &rec.IsDefault, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		rec.Amount = core.Money{Cents: cents}
		rec.Type = core.TransactionType(typ)
		rec.Frequency = core.Frequency(freq)
		if rec.NextDate, err = core.ParseDate(next); err != nil {
			return nil, fmt.Errorf("recurring transaction %s: bad date %q", rec.ID, next)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveRecurring(ctx context.Context, rec core.RecurringTransaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions
			(id, title, amount_cents, type, category, frequency, next_date, is_active, is_default, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			amount_cents = excluded.amount_cents,
			type = excluded.type,
			category = excluded.category,
			frequency = excluded.frequency,
			next_date = excluded.next_date,
			is_active = excluded.is_active,
			is_default = excluded.is_default,
			description = excluded.description`,
		rec.ID, rec.Title, rec.Amount.Cents, string(rec.Type), rec.Category,
		string(rec.Frequency), rec.NextDate.Format(), rec.IsActive, rec.IsDefault, rec.Description)
	if err != nil {
		return fmt.Errorf("save recurring transaction %s: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete recurring transaction %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) LoadBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_cents FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b     core.Budget
			cents int64
		)
		if err := rows.Scan(&b.Category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Limit = core.Money{Cents: cents}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category, limit_cents) VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.Category, b.Limit.Cents)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", b.Category, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, category string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE category = ?`, category); err != nil {
		return fmt.Errorf("delete budget %s: %w", category, err)
	}
	return nil
}

// Wipe empties every table inside one transaction.
func (r *SQLiteRepository) Wipe(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	for _, table := range []string{"transactions", "categories", "recurring_transactions", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			tx.Rollback()
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return tx.Commit()
}
