// Package services wires the pure core to its collaborators: SQLite reads
// go through the query cache, filter evaluation stays in core, and async
// exports are handed to the AMQP worker.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"revboard/internal/amqp"
	"revboard/internal/cache"
	"revboard/internal/core"
	"revboard/internal/metrics"
	"revboard/internal/storage"
)

// ErrAsyncExportsDisabled is returned by EnqueueExport when no message
// broker is configured.
var ErrAsyncExportsDisabled = errors.New("async exports disabled: no AMQP broker configured")

const (
	transactionsCacheKey = "transactions:all"
	userCacheKey         = "user"
	walletCacheKey       = "wallet"
)

type TransactionService struct {
	repo        *storage.Repository
	amqpClient  *amqp.Client
	metrics     *metrics.Metrics
	txCache     *cache.LRUCache[[]core.Transaction]
	userCache   *cache.LRUCache[core.User]
	walletCache *cache.LRUCache[core.Wallet]

	// now is injectable so chart fallbacks are testable at a fixed instant.
	now func() time.Time
}

// New creates the service. amqpClient and m may be nil: without a broker
// async exports are rejected, without metrics nothing is recorded.
func New(repo *storage.Repository, amqpClient *amqp.Client, m *metrics.Metrics, cacheSize int, cacheTTL time.Duration) *TransactionService {
	return &TransactionService{
		repo:        repo,
		amqpClient:  amqpClient,
		metrics:     m,
		txCache:     cache.NewLRU[[]core.Transaction](cacheSize, cacheTTL),
		userCache:   cache.NewLRU[core.User](1, cacheTTL),
		walletCache: cache.NewLRU[core.Wallet](1, cacheTTL),
		now:         time.Now,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// RegisterCaches adds the service caches to the expiry sweep.
func (s *TransactionService) RegisterCaches(m *cache.Manager) {
	m.Register(s.txCache)
	m.Register(s.userCache)
	m.Register(s.walletCache)
}

// User returns the account owner, cached.
func (s *TransactionService) User(ctx context.Context) (core.User, error) {
	if u, ok := s.userCache.Get(userCacheKey); ok {
		s.recordLookup("user", true)
		return u, nil
	}
	s.recordLookup("user", false)

	start := time.Now()
	u, err := s.repo.GetUser(ctx)
	s.recordQuery("get_user", start, err)
	if err != nil {
		return core.User{}, err
	}
	s.userCache.Set(userCacheKey, u)
	return u, nil
}

// Wallet returns the dashboard balances, cached.
func (s *TransactionService) Wallet(ctx context.Context) (core.Wallet, error) {
	if w, ok := s.walletCache.Get(walletCacheKey); ok {
		s.recordLookup("wallet", true)
		return w, nil
	}
	s.recordLookup("wallet", false)

	start := time.Now()
	w, err := s.repo.GetWallet(ctx)
	s.recordQuery("get_wallet", start, err)
	if err != nil {
		return core.Wallet{}, err
	}
	s.walletCache.Set(walletCacheKey, w)
	return w, nil
}

// Transactions returns the filtered list, newest first.
func (s *TransactionService) Transactions(ctx context.Context, f core.FilterState) ([]core.Transaction, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return core.SortTransactionsByDate(core.FilterTransactions(all, f)), nil
}

// ChartSeries returns the daily net series for the filtered list.
func (s *TransactionService) ChartSeries(ctx context.Context, f core.FilterState) ([]core.ChartDataPoint, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return core.DailySeries(core.FilterTransactions(all, f), f, s.now()), nil
}

// ExportCSV renders the filtered list as CSV, synchronously.
func (s *TransactionService) ExportCSV(ctx context.Context, f core.FilterState) (string, error) {
	start := time.Now()
	txs, err := s.Transactions(ctx, f)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExport("sync", time.Since(start).Seconds(), err)
		}
		return "", err
	}
	out := core.TransactionsCSV(txs)
	if s.metrics != nil {
		s.metrics.RecordExport("sync", time.Since(start).Seconds(), nil)
	}
	return out, nil
}

// EnqueueExport publishes an async export job and returns its id. The job
// itself is fire-and-forget: once accepted by the broker, progress is the
// worker's concern.
func (s *TransactionService) EnqueueExport(ctx context.Context, f core.FilterState) (string, error) {
	if s.amqpClient == nil {
		return "", ErrAsyncExportsDisabled
	}

	id := uuid.NewString()
	msg := amqp.NewExportJobMessage(id, f)
	if err := s.amqpClient.PublishExportJob(ctx, msg); err != nil {
		return "", fmt.Errorf("enqueue export: %w", err)
	}

	slog.InfoContext(ctx, "export job enqueued", "export_id", id)
	return id, nil
}

// AddTransaction stores a transaction and drops the stale list cache.
func (s *TransactionService) AddTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	start := time.Now()
	id, err := s.repo.InsertTransaction(ctx, t)
	s.recordQuery("insert_transaction", start, err)
	if err != nil {
		return 0, err
	}
	s.txCache.Purge()
	return id, nil
}

func (s *TransactionService) list(ctx context.Context) ([]core.Transaction, error) {
	if txs, ok := s.txCache.Get(transactionsCacheKey); ok {
		s.recordLookup("transactions", true)
		return txs, nil
	}
	s.recordLookup("transactions", false)

	start := time.Now()
	txs, err := s.repo.ListTransactions(ctx)
	s.recordQuery("list_transactions", start, err)
	if err != nil {
		return nil, err
	}
	s.txCache.Set(transactionsCacheKey, txs)
	return txs, nil
}

func (s *TransactionService) recordLookup(name string, hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(name, hit)
	}
}

func (s *TransactionService) recordQuery(op string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordQuery(op, time.Since(start).Seconds(), err)
	}
}
