package core

import (
	"encoding/csv"
	"strings"
	"testing"
)

func TestTransactionsCSV(t *testing.T) {
	txs := []Transaction{
		{
			Amount: 500, Type: Deposit, Status: StatusSuccessful,
			Date:             "2024-01-15",
			PaymentReference: "ref-001",
			Metadata:         &Metadata{ProductName: "Premium Plan"},
		},
		{
			Amount: 300, Type: Withdrawal, Status: StatusPending,
			Date: "2024-01-16",
		},
	}
	out := TransactionsCSV(txs)

	r := csv.NewReader(strings.NewReader(out))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output does not round-trip: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	wantHeader := []string{"Date", "Type", "Status", "Description", "Amount", "Payment Reference"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "Jan 15, 2024" || first[1] != "Deposit" || first[2] != "Successful" {
		t.Fatalf("first row = %v", first)
	}
	if first[3] != "Premium Plan" || first[4] != "USD 500" || first[5] != "ref-001" {
		t.Fatalf("first row = %v", first)
	}

	second := rows[2]
	if second[3] != "N/A" || second[5] != "N/A" {
		t.Fatalf("missing description/reference not defaulted: %v", second)
	}
}

// A description containing a comma stays one field under comma-aware parsing.
func TestTransactionsCSVEscaping(t *testing.T) {
	txs := []Transaction{
		{
			Amount: 10, Type: Deposit, Status: StatusSuccessful,
			Date:     "2024-01-15",
			Metadata: &Metadata{ProductName: "Plan, Premium"},
		},
		{
			Amount: 20, Type: Deposit, Status: StatusSuccessful,
			Date:     "2024-01-15",
			Metadata: &Metadata{ProductName: `say "hi"`},
		},
	}
	out := TransactionsCSV(txs)
	if !strings.Contains(out, `"Plan, Premium"`) {
		t.Fatalf("comma field not quoted:\n%s", out)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("round-trip failed: %v", err)
	}
	for i, row := range rows {
		if len(row) != 6 {
			t.Fatalf("row %d has %d fields, want 6", i, len(row))
		}
	}
	if rows[1][3] != "Plan, Premium" {
		t.Fatalf("description = %q", rows[1][3])
	}
	if rows[2][3] != `say "hi"` {
		t.Fatalf("quoted description = %q", rows[2][3])
	}
}

func TestTransactionsCSVEmpty(t *testing.T) {
	out := TransactionsCSV(nil)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("empty input must yield only the header, got %v (err=%v)", rows, err)
	}
}
