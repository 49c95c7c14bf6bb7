// Package memory is an in-process TransactionAppender for tests and for
// deployments without a spreadsheet configured.
package memory

import (
	"context"
	"sync"

	"revboard/internal/core"
	"revboard/internal/sheets"
)

type Appender struct {
	mu   sync.Mutex
	rows [][]any
}

var _ sheets.TransactionAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendTransactions(_ context.Context, txs []core.Transaction) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range txs {
		a.rows = append(a.rows, sheets.Row(t))
	}
	return len(txs), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() [][]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([][]any, len(a.rows))
	copy(out, a.rows)
	return out
}
