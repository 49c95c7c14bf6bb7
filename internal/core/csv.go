package core

import (
	"encoding/csv"
	"strings"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"Date", "Type", "Status", "Description", "Amount", "Payment Reference"}

// TransactionsCSV renders transactions as CSV text for export. Fields
// containing commas, quotes or newlines get standard CSV quoting with
// doubled inner quotes. Absent payment references render as "N/A".
func TransactionsCSV(txs []Transaction) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(csvHeader)
	for _, t := range txs {
		ref := t.PaymentReference
		if ref == "" {
			ref = "N/A"
		}
		w.Write([]string{
			FormatDate(t.Date),
			FormatStatus(string(t.Type)),
			FormatStatus(string(t.Status)),
			t.Description(),
			FormatUSD(t.Amount),
			ref,
		})
	}
	w.Flush()
	return b.String()
}
