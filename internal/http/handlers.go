package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"revboard/internal/core"
	"revboard/internal/log"
	"revboard/internal/services"
	"revboard/internal/storage"
)

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.User(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "load user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.svc.Wallet(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "load wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilterState(r.URL.Query(), s.now())
	txs, err := s.svc.Transactions(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, "list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
	}{Transactions: txs, Count: len(txs)})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilterState(r.URL.Query(), s.now())
	points, err := s.svc.ChartSeries(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, "build chart series", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Points []core.ChartDataPoint `json:"points"`
	}{Points: points})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilterState(r.URL.Query(), s.now())
	out, err := s.svc.ExportCSV(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, "export transactions", err)
		return
	}
	filename := "transactions-" + s.now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilterState(r.URL.Query(), s.now())
	id, err := s.svc.EnqueueExport(r.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrAsyncExportsDisabled) {
			writeError(w, http.StatusServiceUnavailable, "exports_disabled", "Async exports are not configured")
			return
		}
		s.writeServiceError(w, r, "enqueue export", err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}{ID: id, Status: "queued"})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a transaction JSON object")
		return
	}
	if t.Type != core.Deposit && t.Type != core.Withdrawal {
		writeError(w, http.StatusUnprocessableEntity, "invalid_type", "Transaction type must be deposit or withdrawal")
		return
	}
	if t.Amount < 0 {
		writeError(w, http.StatusUnprocessableEntity, "invalid_amount", "Transaction amount must not be negative")
		return
	}

	id, err := s.svc.AddTransaction(r.Context(), t)
	if err != nil {
		s.writeServiceError(w, r, "store transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID int64 `json:"id"`
	}{ID: id})
}

// writeServiceError maps service failures onto the API error shape. Missing
// singleton rows surface as 404, anything else as 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Resource not found")
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), action+" failed", log.FieldError, err)
	writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
}
