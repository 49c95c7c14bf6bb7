package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"revboard/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetUser(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty db expected ErrNotFound, got %v", err)
	}

	want := core.User{FirstName: "Olivier", LastName: "Jones", Email: "olivier@example.com"}
	if err := repo.UpsertUser(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetUser(ctx)
	if err != nil || got != want {
		t.Fatalf("got %+v (err=%v), want %+v", got, err, want)
	}

	// Upsert replaces the single record.
	want.Email = "oj@example.com"
	if err := repo.UpsertUser(ctx, want); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = repo.GetUser(ctx)
	if got.Email != "oj@example.com" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
}

func TestWalletRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := core.Wallet{Balance: 750.5, TotalPayout: 5500, TotalRevenue: 175580, PendingPayout: 92.3, LedgerBalance: 38000}
	if err := repo.UpsertWallet(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetWallet(ctx)
	if err != nil || got != want {
		t.Fatalf("got %+v (err=%v), want %+v", got, err, want)
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if txs == nil || len(txs) != 0 {
		t.Fatalf("empty db must list empty non-nil slice, got %#v", txs)
	}

	in := core.Transaction{
		Amount: 500, Type: core.Deposit, Status: core.StatusSuccessful,
		Date:             "2024-01-15T10:00:00Z",
		PaymentReference: "ref-001",
		Metadata:         &core.Metadata{Name: "Ada", ProductName: "Premium Plan", Country: "NG"},
	}
	if _, err := repo.InsertTransaction(ctx, in); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// One without metadata.
	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount: 300, Type: core.Withdrawal, Status: core.StatusPending, Date: "2024-01-16",
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	txs, err = repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("listed %d, want 2", len(txs))
	}
	if txs[0].Metadata == nil || txs[0].Metadata.ProductName != "Premium Plan" {
		t.Fatalf("metadata did not round-trip: %+v", txs[0])
	}
	if txs[1].Metadata != nil {
		t.Fatalf("absent metadata must stay nil: %+v", txs[1])
	}

	n, err := repo.CountTransactions(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count = %d (err=%v), want 2", n, err)
	}
}
