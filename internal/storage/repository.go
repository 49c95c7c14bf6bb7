// Package storage persists the dashboard data set (user, wallet,
// transactions) in SQLite. Filtering and aggregation are not pushed into
// SQL: the repository hands the full transaction list to the core, which
// owns those semantics.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"revboard/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
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

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetUser returns the dashboard account owner.
func (r *Repository) GetUser(ctx context.Context) (core.User, error) {
	var u core.User
	row := r.db.QueryRowContext(ctx,
		`SELECT first_name, last_name, email FROM users WHERE id = 1`)
	if err := row.Scan(&u.FirstName, &u.LastName, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, ErrNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpsertUser stores the single account owner record.
func (r *Repository) UpsertUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET first_name = excluded.first_name,
		                               last_name = excluded.last_name,
		                               email = excluded.email`,
		u.FirstName, u.LastName, u.Email)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetWallet returns the dashboard balances.
func (r *Repository) GetWallet(ctx context.Context) (core.Wallet, error) {
	var w core.Wallet
	row := r.db.QueryRowContext(ctx,
		`SELECT balance, total_payout, total_revenue, pending_payout, ledger_balance
		 FROM wallets WHERE id = 1`)
	if err := row.Scan(&w.Balance, &w.TotalPayout, &w.TotalRevenue, &w.PendingPayout, &w.LedgerBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Wallet{}, ErrNotFound
		}
		return core.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

// UpsertWallet stores the single wallet record.
func (r *Repository) UpsertWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, balance, total_payout, total_revenue, pending_payout, ledger_balance)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET balance = excluded.balance,
		                               total_payout = excluded.total_payout,
		                               total_revenue = excluded.total_revenue,
		                               pending_payout = excluded.pending_payout,
		                               ledger_balance = excluded.ledger_balance`,
		w.Balance, w.TotalPayout, w.TotalRevenue, w.PendingPayout, w.LedgerBalance)
	if err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}

// ListTransactions returns every stored transaction in insertion order.
// A metadata column that fails to decode leaves the record's metadata nil
// rather than failing the whole list.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, type, status, date, payment_reference, metadata
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		var meta sql.NullString
		if err := rows.Scan(&t.Amount, &t.Type, &t.Status, &t.Date, &t.PaymentReference, &meta); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if meta.Valid && meta.String != "" {
			var m core.Metadata
			if err := json.Unmarshal([]byte(meta.String), &m); err == nil {
				t.Metadata = &m
			}
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// InsertTransaction stores one transaction and returns its row id.
func (r *Repository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var meta any
	if t.Metadata != nil {
		b, err := json.Marshal(t.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, type, status, date, payment_reference, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Amount, string(t.Type), string(t.Status), t.Date, t.PaymentReference, meta)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// CountTransactions reports how many transactions are stored.
func (r *Repository) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
