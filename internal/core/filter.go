package core

import "time"

// FilterState is the set of user-selected criteria for one filter pass.
// It is a value object: built by the caller, evaluated once, discarded.
// The DateRange token and the concrete bounds are independent inputs; only
// the bounds are consulted here. Empty criteria mean "no constraint".
type FilterState struct {
	DateRange string
	DateFrom  *time.Time
	DateTo    *time.Time
	Types     []string
	Statuses  []string
	MinAmount *float64
	MaxAmount *float64
}

// MatchesType reports whether the transaction's derived filter category is
// one of the requested tokens. An empty token list matches everything.
func MatchesType(t Transaction, types []string) bool {
	if len(types) == 0 {
		return true
	}
	cat := string(CategoryOf(t))
	for _, want := range types {
		if want == cat {
			return true
		}
	}
	return false
}

// MatchesStatus reports whether the transaction status is one of the
// requested tokens. An empty token list matches everything.
func MatchesStatus(t Transaction, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if want == string(t.Status) {
			return true
		}
	}
	return false
}

// MatchesDateRange reports whether the transaction date falls inside the
// inclusive [from, to] window. Either bound may be nil (unchecked). A
// transaction whose date cannot be parsed never satisfies a bounded check:
// an ambiguous record is excluded, not included.
func MatchesDateRange(t Transaction, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	ts, ok := ParseDate(t.Date)
	if !ok {
		return false
	}
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}

// MatchesAmount reports whether the transaction amount falls inside the
// inclusive [min, max] window. Either bound may be nil (unchecked).
func MatchesAmount(t Transaction, min, max *float64) bool {
	if min != nil && t.Amount < *min {
		return false
	}
	if max != nil && t.Amount > *max {
		return false
	}
	return true
}

// FilterTransactions applies every criterion of the filter state in AND
// combination. A nil input yields an empty, non-nil slice. Partially
// populated records are tolerated: they simply fail the criteria that
// inspect the missing field.
func FilterTransactions(txs []Transaction, f FilterState) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !MatchesType(t, f.Types) {
			continue
		}
		if !MatchesStatus(t, f.Statuses) {
			continue
		}
		if !MatchesDateRange(t, f.DateFrom, f.DateTo) {
			continue
		}
		if !MatchesAmount(t, f.MinAmount, f.MaxAmount) {
			continue
		}
		out = append(out, t)
	}
	return out
}
