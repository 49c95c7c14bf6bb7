package core

import (
	"strings"
	"time"
)

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

const (
	StatusSuccessful TransactionStatus = "successful"
	StatusPending    TransactionStatus = "pending"
	StatusFailed     TransactionStatus = "failed"
)

// Filter categories are derived from a transaction's shape, never stored.
const (
	CategoryStoreTransactions FilterCategory = "store-transactions"
	CategoryGetTipped         FilterCategory = "get-tipped"
	CategoryWithdrawals       FilterCategory = "withdrawals"
)

type (
	TransactionType   string
	TransactionStatus string
	FilterCategory    string

	// Metadata carries the optional counterparty details attached to a
	// transaction by the upstream API. Every field may be absent.
	Metadata struct {
		Name        string `json:"name,omitempty"`
		Type        string `json:"type,omitempty"`
		Email       string `json:"email,omitempty"`
		Quantity    int    `json:"quantity,omitempty"`
		Country     string `json:"country,omitempty"`
		ProductName string `json:"product_name,omitempty"`
	}

	// Transaction is one financial movement as delivered by the API.
	// Date is kept as the raw upstream string because it may be invalid;
	// parse it with ParseDate where a real instant is needed.
	Transaction struct {
		Amount           float64           `json:"amount"`
		Type             TransactionType   `json:"type"`
		Status           TransactionStatus `json:"status"`
		Date             string            `json:"date"`
		PaymentReference string            `json:"payment_reference,omitempty"`
		Metadata         *Metadata         `json:"metadata,omitempty"`
	}

	// User is the dashboard account owner.
	User struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}

	// Wallet holds the account balances shown on the dashboard.
	Wallet struct {
		Balance       float64 `json:"balance"`
		TotalPayout   float64 `json:"total_payout"`
		TotalRevenue  float64 `json:"total_revenue"`
		PendingPayout float64 `json:"pending_payout"`
		LedgerBalance float64 `json:"ledger_balance"`
	}
)

// CategoryOf derives the filter category for a transaction. A withdrawal is
// always `withdrawals`; a deposit is `store-transactions` when its metadata
// names a product, `get-tipped` otherwise.
func CategoryOf(t Transaction) FilterCategory {
	if t.Type == Withdrawal {
		return CategoryWithdrawals
	}
	if t.Metadata != nil && t.Metadata.ProductName != "" {
		return CategoryStoreTransactions
	}
	return CategoryGetTipped
}

// Description returns the human-readable label for a transaction: the
// product name when present, the counterparty name as fallback, "N/A" when
// the record carries neither.
func (t Transaction) Description() string {
	if t.Metadata != nil {
		if t.Metadata.ProductName != "" {
			return t.Metadata.ProductName
		}
		if t.Metadata.Name != "" {
			return t.Metadata.Name
		}
	}
	return "N/A"
}

// dateLayouts lists the timestamp shapes the upstream API has been observed
// to emit, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a raw transaction timestamp. The boolean reports whether
// the value was parseable; callers decide what an invalid date means for
// them (filters fail closed, formatters emit a sentinel).
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
