package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revboard/internal/amqp"
	"revboard/internal/core"
	"revboard/internal/log"
	"revboard/internal/metrics"
	"revboard/internal/sheets/memory"
	"revboard/internal/storage"
)

func setupWorker(t *testing.T, appender *memory.Appender) (*ExportWorker, *storage.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.NewRepository(filepath.Join(dir, "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	var w *ExportWorker
	logger := log.New("error", log.ComponentWorker)
	if appender != nil {
		w = NewExportWorker(repo, appender, nil, logger, filepath.Join(dir, "exports"))
	} else {
		w = NewExportWorker(repo, nil, nil, logger, filepath.Join(dir, "exports"))
	}
	return w, repo
}

func seedTransactions(t *testing.T, repo *storage.Repository) {
	t.Helper()
	ctx := context.Background()
	fixture := []core.Transaction{
		{Amount: 500, Type: core.Deposit, Status: core.StatusSuccessful, Date: "2024-01-15T10:00:00Z",
			PaymentReference: "ref-001", Metadata: &core.Metadata{ProductName: "Premium Plan"}},
		{Amount: 300, Type: core.Withdrawal, Status: core.StatusPending, Date: "2024-01-17T12:00:00Z"},
	}
	for _, tx := range fixture {
		_, err := repo.InsertTransaction(ctx, tx)
		require.NoError(t, err)
	}
}

func TestHandleExportJobWritesArtifact(t *testing.T) {
	w, repo := setupWorker(t, nil)
	seedTransactions(t, repo)

	msg := amqp.NewExportJobMessage("job-1", core.FilterState{})
	require.NoError(t, w.HandleExportJob(context.Background(), msg))

	data, err := os.ReadFile(w.ArtifactPath("job-1"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header + 2 rows")
	assert.Equal(t, "Date,Type,Status,Description,Amount,Payment Reference", strings.TrimSpace(lines[0]))
	// Newest first.
	assert.Contains(t, lines[1], "Withdrawal")
	assert.Contains(t, lines[2], "Premium Plan")
}

func TestHandleExportJobReplaysFilter(t *testing.T) {
	w, repo := setupWorker(t, nil)
	seedTransactions(t, repo)

	successful := []string{string(core.StatusSuccessful)}
	msg := amqp.NewExportJobMessage("job-2", core.FilterState{Statuses: successful})
	require.NoError(t, w.HandleExportJob(context.Background(), msg))

	data, err := os.ReadFile(w.ArtifactPath("job-2"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "ref-001")
}

func TestHandleExportJobMirrorsToAppender(t *testing.T) {
	appender := memory.New()
	w, repo := setupWorker(t, appender)
	seedTransactions(t, repo)

	msg := amqp.NewExportJobMessage("job-3", core.FilterState{})
	require.NoError(t, w.HandleExportJob(context.Background(), msg))

	rows := appender.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Premium Plan", rows[1][3])
}

func TestHandleExportJobEmptyResult(t *testing.T) {
	w, _ := setupWorker(t, nil)

	msg := amqp.NewExportJobMessage("job-4", core.FilterState{
		DateRange: core.RangeLast7Days,
		DateFrom:  timePtr(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		DateTo:    timePtr(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, w.HandleExportJob(context.Background(), msg))

	data, err := os.ReadFile(w.ArtifactPath("job-4"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Type,Status,Description,Amount,Payment Reference",
		strings.TrimSpace(string(data)), "header only when nothing matches")
}

func TestHandleExportJobRecordsMetricsOnRegistry(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewRepository(filepath.Join(dir, "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	seedTransactions(t, repo)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	w := NewExportWorker(repo, nil, m, log.New("error", log.ComponentWorker), filepath.Join(dir, "exports"))

	msg := amqp.NewExportJobMessage("job-5", core.FilterState{})
	require.NoError(t, w.HandleExportJob(context.Background(), msg))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "revboard_exports_total")
	assert.Contains(t, names, "revboard_export_duration_seconds")
}

func timePtr(ts time.Time) *time.Time {
	return &ts
}
