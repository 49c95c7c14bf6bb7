package sheets

import (
	"context"

	"revboard/internal/core"
)

// Ports for outbound export targets.
type (
	// TransactionAppender receives exported transaction rows. The Google
	// Sheets client implements it for real; the memory adapter serves
	// tests and sheet-less deployments.
	TransactionAppender interface {
		AppendTransactions(ctx context.Context, txs []core.Transaction) (appended int, err error)
	}
)

// Row is the column order shared by every export target, matching the CSV
// header: Date, Type, Status, Description, Amount, Payment Reference.
func Row(t core.Transaction) []any {
	ref := t.PaymentReference
	if ref == "" {
		ref = "N/A"
	}
	return []any{
		core.FormatDate(t.Date),
		core.FormatStatus(string(t.Type)),
		core.FormatStatus(string(t.Status)),
		t.Description(),
		core.FormatUSD(t.Amount),
		ref,
	}
}
