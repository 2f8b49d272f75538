// Package storage persists transactions and category rules in SQLite.
//
// All access is scoped by user id. Every write runs in a single SQLite
// transaction; validation happens above this layer, the schema CHECK
// constraints are a backstop only.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grana/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the transaction store over a single SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// ListFilter narrows a List call. Zero fields are ignored; the date
// range applies only when it is bounded.
type ListFilter struct {
	Kind     core.Kind
	Category string
	Range    core.Range
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

// Create inserts one transaction and returns it with the assigned id
// and creation timestamp filled in.
func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount_cents, kind, category, description, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Amount.Cents, string(tx.Kind), tx.Category, tx.Description,
		tx.OccurredOn.String(), tx.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	tx.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"kind", tx.Kind,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

// Get returns one transaction by id. A row owned by another user is
// indistinguishable from a missing one: both are core.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, kind, category, description, occurred_on, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// Update rewrites all mutable fields of a transaction. Partial-update
// semantics (leave omitted fields unchanged) are handled by the service,
// which reads, patches and passes the full record back here.
func (r *SQLiteRepository) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, kind = ?, category = ?, description = ?, occurred_on = ?
		 WHERE id = ? AND user_id = ?`,
		tx.Amount.Cents, string(tx.Kind), tx.Category, tx.Description, tx.OccurredOn.String(),
		tx.ID, tx.UserID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	if affected == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	return r.Get(ctx, tx.UserID, tx.ID)
}

// Delete removes one transaction and reports whether a row went away.
// Deleting an already-deleted id is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return affected > 0, nil
}

// ClearUser removes every transaction of a user and returns the count.
func (r *SQLiteRepository) ClearUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear transactions for user: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear transactions for user: %w", err)
	}

	slog.InfoContext(ctx, "User history cleared", "user_id", userID, "deleted", deleted)
	return deleted, nil
}

// List returns the newest transactions first, by calendar date then id.
func (r *SQLiteRepository) List(ctx context.Context, userID string, f ListFilter, limit int) ([]core.Transaction, error) {
	query := `SELECT id, user_id, amount_cents, kind, category, description, occurred_on, created_at
		 FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if bounded(f.Range) {
		query += ` AND occurred_on BETWEEN ? AND ?`
		args = append(args, f.Range.Start.String(), f.Range.End.String())
	}

	query += ` ORDER BY occurred_on DESC, id DESC LIMIT ?`
	args = append(args, limit)

	return r.queryTransactions(ctx, query, args...)
}

// Search matches the term case-insensitively against description and
// category, newest first. The fold happens in Go: SQLite's LOWER only
// handles ASCII, which is not enough for accented text.
func (r *SQLiteRepository) Search(ctx context.Context, userID, term string, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, kind, category, description, occurred_on, created_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY occurred_on DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(term)
	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if strings.Contains(strings.ToLower(tx.Description), needle) ||
			strings.Contains(strings.ToLower(tx.Category), needle) {
			txs = append(txs, tx)
			if len(txs) == limit {
				break
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	return txs, nil
}

// SumByKind totals amounts per kind inside the range. An empty range
// yields zero totals, not an error.
func (r *SQLiteRepository) SumByKind(ctx context.Context, userID string, rng core.Range) (core.Balance, error) {
	query := `SELECT kind, COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if bounded(rng) {
		query += ` AND occurred_on BETWEEN ? AND ?`
		args = append(args, rng.Start.String(), rng.End.String())
	}
	query += ` GROUP BY kind`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.Balance{}, fmt.Errorf("sum by kind: %w", err)
	}
	defer rows.Close()

	var balance core.Balance
	for rows.Next() {
		var kind string
		var cents int64
		if err := rows.Scan(&kind, &cents); err != nil {
			return core.Balance{}, fmt.Errorf("scan kind total: %w", err)
		}
		switch core.Kind(kind) {
		case core.Income:
			balance.Income = core.Money{Cents: cents}
		case core.Expense:
			balance.Expenses = core.Money{Cents: cents}
		}
	}
	if err := rows.Err(); err != nil {
		return core.Balance{}, fmt.Errorf("sum by kind: %w", err)
	}
	return balance, nil
}

// CategorySummary aggregates expenses by category inside the range,
// largest total first, ties broken by category name.
func (r *SQLiteRepository) CategorySummary(ctx context.Context, userID string, rng core.Range) ([]core.CategoryTotal, error) {
	query := `SELECT category, SUM(amount_cents), COUNT(*) FROM transactions
		 WHERE user_id = ? AND kind = 'expense'`
	args := []any{userID}
	if bounded(rng) {
		query += ` AND occurred_on BETWEEN ? AND ?`
		args = append(args, rng.Start.String(), rng.End.String())
	}
	query += ` GROUP BY category ORDER BY SUM(amount_cents) DESC, category ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		var cents int64
		if err := rows.Scan(&ct.Category, &cents, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = core.Money{Cents: cents}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	return totals, nil
}

// ListRules returns inference rules in scan order.
func (r *SQLiteRepository) ListRules(ctx context.Context) ([]core.CategoryRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, category, kind FROM category_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list category rules: %w", err)
	}
	defer rows.Close()

	var rules []core.CategoryRule
	for rows.Next() {
		var rule core.CategoryRule
		var kind string
		if err := rows.Scan(&rule.Keyword, &rule.Category, &kind); err != nil {
			return nil, fmt.Errorf("scan category rule: %w", err)
		}
		rule.Kind = core.Kind(kind)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list category rules: %w", err)
	}
	return rules, nil
}

// AddRule appends one inference rule at the end of the scan order.
// No dedup: a duplicate keyword simply never gets reached.
func (r *SQLiteRepository) AddRule(ctx context.Context, rule core.CategoryRule) error {
	if err := rule.Kind.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO category_rules (keyword, category, kind) VALUES (?, ?, ?)`,
		strings.ToLower(rule.Keyword), rule.Category, string(rule.Kind))
	if err != nil {
		return fmt.Errorf("insert category rule: %w", err)
	}
	return nil
}

// SeedRules inserts the default keyword table once, on an empty rules
// table. Order is preserved so first-match inference stays stable.
func (r *SQLiteRepository) SeedRules(ctx context.Context, rules []core.CategoryRule) error {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_rules`).Scan(&count); err != nil {
		return fmt.Errorf("count category rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rule seed: %w", err)
	}
	defer dbTx.Rollback()

	for _, rule := range rules {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO category_rules (keyword, category, kind) VALUES (?, ?, ?)`,
			strings.ToLower(rule.Keyword), rule.Category, string(rule.Kind)); err != nil {
			return fmt.Errorf("seed rule %q: %w", rule.Keyword, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit rule seed: %w", err)
	}

	slog.InfoContext(ctx, "Category rules seeded", "count", len(rules))
	return nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx         core.Transaction
		kind       string
		occurredOn string
		createdAt  string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount.Cents, &kind, &tx.Category,
		&tx.Description, &occurredOn, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	tx.Kind = core.Kind(kind)

	on, err := core.ParseDate(occurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_on %q: %w", occurredOn, err)
	}
	tx.OccurredOn = on

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	tx.CreatedAt = created

	return tx, nil
}

func bounded(r core.Range) bool {
	return !r.All && !r.Start.IsZero()
}
