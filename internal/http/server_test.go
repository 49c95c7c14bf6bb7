package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revboard/internal/core"
	"revboard/internal/log"
	"revboard/internal/services"
	"revboard/internal/storage"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	require.NoError(t, repo.UpsertUser(ctx, core.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}))
	require.NoError(t, repo.UpsertWallet(ctx, core.Wallet{Balance: 1200.5, TotalRevenue: 5000}))

	fixture := []core.Transaction{
		{Amount: 500, Type: core.Deposit, Status: core.StatusSuccessful, Date: "2024-01-15T10:00:00Z",
			PaymentReference: "ref-001", Metadata: &core.Metadata{ProductName: "Premium Plan"}},
		{Amount: 120, Type: core.Deposit, Status: core.StatusSuccessful, Date: "2024-01-16T09:00:00Z",
			Metadata: &core.Metadata{Name: "Grace"}},
		{Amount: 300, Type: core.Withdrawal, Status: core.StatusPending, Date: "2024-01-17T12:00:00Z"},
	}
	for _, tx := range fixture {
		_, err := repo.InsertTransaction(ctx, tx)
		require.NoError(t, err)
	}

	svc := services.New(repo, nil, nil, 16, time.Minute)
	srv := NewServer(":0", svc, log.New("error", log.ComponentHTTP), nil, nil, 0)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestGetUser(t *testing.T) {
	srv := setupServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/user", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var u core.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestGetUserNotFound(t *testing.T) {
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := services.New(repo, nil, nil, 16, time.Minute)
	srv := NewServer(":0", svc, log.New("error", log.ComponentHTTP), nil, nil, 0)
	t.Cleanup(func() { srv.rateLimiter.stop() })

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/user", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr ApiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestGetWallet(t *testing.T) {
	srv := setupServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/wallet", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var w core.Wallet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.Equal(t, 1200.5, w.Balance)
}

func TestGetTransactionsFiltered(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/transactions?type=store-transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "ref-001", resp.Transactions[0].PaymentReference)
}

func TestGetTransactionsSortedNewestFirst(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, "2024-01-17T12:00:00Z", resp.Transactions[0].Date)
	assert.Equal(t, "2024-01-15T10:00:00Z", resp.Transactions[2].Date)
}

func TestGetChart(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/transactions/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Points []core.ChartDataPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 3)
	assert.Equal(t, "2024-01-15", resp.Points[0].Date)
	assert.Equal(t, 500.0, resp.Points[0].Amount)
	assert.Equal(t, -300.0, resp.Points[2].Amount)
}

func TestExportCSVDownload(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/transactions/export?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "header + one pending row")
	assert.Equal(t, "Date,Type,Status,Description,Amount,Payment Reference", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Pending")
}

func TestCreateExportWithoutBroker(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/exports", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var apiErr ApiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "exports_disabled", apiErr.Code)
}

func TestCreateTransaction(t *testing.T) {
	srv := setupServer(t)

	body := `{"amount": 42.5, "type": "deposit", "status": "successful", "date": "2024-02-01T00:00:00Z"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Positive(t, resp.ID)

	list := doRequest(t, srv, http.MethodGet, "/api/v1/transactions", "")
	var listResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Equal(t, 4, listResp.Count)
}

func TestCreateTransactionRejectsBadType(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "transfer"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var apiErr ApiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "invalid_type", apiErr.Code)
}

func TestRateLimit(t *testing.T) {
	srv := setupServer(t)
	srv.rateLimiter.stop()
	srv.rateLimiter = newRateLimiter(2)
	t.Cleanup(func() { srv.rateLimiter.stop() })

	for i := 0; i < 2; i++ {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/wallet", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv := setupServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/user", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
