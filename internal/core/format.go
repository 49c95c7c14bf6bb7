package core

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// InvalidDateLabel is the sentinel emitted when a date cannot be parsed.
const InvalidDateLabel = "Invalid Date"

// Display layouts for transaction dates.
const (
	// DateLayoutDefault renders "Apr 03, 2022".
	DateLayoutDefault = "Jan 02, 2006"
	// DateLayoutDay renders "Apr 3", used for chart axis labels.
	DateLayoutDay = "Jan 2"
)

// FormatMoney renders an amount with thousands separators after a currency
// prefix. Whole amounts stay decimal-free unless showDecimals forces two
// fraction digits; fractional amounts always show exactly two. The separator
// space is emitted even for an empty currency. Non-finite amounts are
// stringified as-is rather than rejected, so the function never fails on
// garbage reaching it from a permissive caller.
//
// Two-decimal rounding relies on the float-to-fixed conversion of the
// formatting library; halfway cases inherit its tie-break behavior.
func FormatMoney(amount float64, currency string, showDecimals bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("%s %v", currency, amount)
	}
	if !showDecimals && amount == math.Trunc(amount) && math.Abs(amount) < 1e15 {
		return fmt.Sprintf("%s %s", currency, humanize.Comma(int64(amount)))
	}
	return fmt.Sprintf("%s %s", currency, humanize.FormatFloat("#,###.##", amount))
}

// FormatUSD is FormatMoney with the dashboard defaults.
func FormatUSD(amount float64) string {
	return FormatMoney(amount, "USD", false)
}

// FormatDate renders a raw timestamp in the default display layout, or the
// InvalidDateLabel sentinel when it cannot be parsed. It never fails.
func FormatDate(raw string) string {
	return FormatDateAs(raw, DateLayoutDefault)
}

// FormatDateAs is FormatDate with a caller-supplied layout.
func FormatDateAs(raw, layout string) string {
	ts, ok := ParseDate(raw)
	if !ok {
		return InvalidDateLabel
	}
	return ts.Format(layout)
}

// FormatStatus capitalizes only the first rune and lowercases the rest.
// This is a single capitalize, not title case: "in progress" becomes
// "In progress". Empty input stays empty.
func FormatStatus(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
