// Package http exposes the dashboard data over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revboard/internal/log"
	"revboard/internal/metrics"
	"revboard/internal/services"
)

type Server struct {
	http.Server

	svc         *services.TransactionService
	log         *log.Logger
	metrics     *metrics.Metrics
	rateLimiter *rateLimiter

	// now is injectable so range-token parsing is testable.
	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires the API routes and returns a ready-to-run server. gatherer
// backs the /metrics endpoint; a nil gatherer falls back to the default
// registry. ratePerMinute <= 0 disables rate limiting.
func NewServer(addr string, svc *services.TransactionService, logger *log.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer, ratePerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		svc:         svc,
		log:         logger.WithComponent(log.ComponentHTTP),
		metrics:     m,
		rateLimiter: newRateLimiter(ratePerMinute),
		now:         time.Now,
	}

	mux.Handle("GET /api/v1/user", s.instrument("user", s.handleUser))
	mux.Handle("GET /api/v1/wallet", s.instrument("wallet", s.handleWallet))
	mux.Handle("GET /api/v1/transactions", s.instrument("transactions", s.handleTransactions))
	mux.Handle("POST /api/v1/transactions", s.instrument("transactions_create", s.handleCreateTransaction))
	mux.Handle("GET /api/v1/transactions/chart", s.instrument("transactions_chart", s.handleChart))
	mux.Handle("GET /api/v1/transactions/export", s.instrument("transactions_export", s.handleExportCSV))
	mux.Handle("POST /api/v1/exports", s.instrument("exports_create", s.handleCreateExport))

	mux.HandleFunc("GET /healthz", handleHealth)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return s
}

// WithClock replaces the server clock. Intended for tests.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Shutdown stops the rate limiter cleanup goroutine and drains in-flight
// requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
