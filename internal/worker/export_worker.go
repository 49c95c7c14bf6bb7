// Package worker processes queued export jobs outside the request path.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"revboard/internal/amqp"
	"revboard/internal/core"
	"revboard/internal/log"
	"revboard/internal/metrics"
	"revboard/internal/sheets"
	"revboard/internal/storage"
)

// ExportWorker turns export job messages into CSV artifacts. Each job
// replays its filter against storage, writes <exportDir>/<job id>.csv and,
// when an appender is configured, mirrors the rows to the spreadsheet.
type ExportWorker struct {
	repo      *storage.Repository
	appender  sheets.TransactionAppender
	metrics   *metrics.Metrics
	log       *log.Logger
	exportDir string
}

// NewExportWorker builds a worker. appender and m may be nil.
func NewExportWorker(repo *storage.Repository, appender sheets.TransactionAppender, m *metrics.Metrics, logger *log.Logger, exportDir string) *ExportWorker {
	return &ExportWorker{
		repo:      repo,
		appender:  appender,
		metrics:   m,
		log:       logger.WithComponent(log.ComponentWorker),
		exportDir: exportDir,
	}
}

// HandleExportJob processes one job message. A returned error nacks the
// message for redelivery.
func (w *ExportWorker) HandleExportJob(ctx context.Context, msg *amqp.ExportJobMessage) error {
	start := time.Now()
	err := w.process(ctx, msg)
	if w.metrics != nil {
		w.metrics.RecordExport("async", time.Since(start).Seconds(), err)
	}
	return err
}

func (w *ExportWorker) process(ctx context.Context, msg *amqp.ExportJobMessage) error {
	w.log.InfoContext(ctx, "processing export job",
		log.FieldExportID, msg.ID,
		"requested_at", msg.RequestedAt.Format(time.RFC3339))

	txs, err := w.repo.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	filtered := core.FilterTransactions(txs, msg.FilterState())
	sorted := core.SortTransactionsByDate(filtered)

	path, err := w.writeArtifact(msg.ID, core.TransactionsCSV(sorted))
	if err != nil {
		return err
	}

	if w.appender != nil {
		appended, err := w.appender.AppendTransactions(ctx, sorted)
		if err != nil {
			return fmt.Errorf("append export rows: %w", err)
		}
		w.log.InfoContext(ctx, "export mirrored to spreadsheet",
			log.FieldExportID, msg.ID,
			"rows", appended)
	}

	w.log.InfoContext(ctx, "export job completed",
		log.FieldExportID, msg.ID,
		log.FieldCount, len(sorted),
		"path", path)
	return nil
}

// ArtifactPath returns where the CSV for a given job id lands.
func (w *ExportWorker) ArtifactPath(id string) string {
	return filepath.Join(w.exportDir, id+".csv")
}

func (w *ExportWorker) writeArtifact(id, content string) (string, error) {
	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := w.ArtifactPath(id)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export artifact: %w", err)
	}
	return path, nil
}
