package http

import (
	"net/url"
	"strings"
	"time"

	"revboard/internal/core"
)

// ParseFilterState builds a filter from the request query string.
//
// Recognized parameters: range, from, to, type (repeatable), status
// (repeatable), min_amount, max_amount. When from/to are absent but a range
// token is present, the bounds are derived from the token relative to now;
// explicit from/to always win over the token. Unparseable values are dropped
// rather than rejected, matching the degrade-don't-fail behavior of the
// filter predicates themselves.
func ParseFilterState(query url.Values, now time.Time) core.FilterState {
	f := core.FilterState{
		DateRange: strings.TrimSpace(query.Get("range")),
		Types:     multiValue(query, "type"),
		Statuses:  multiValue(query, "status"),
		MinAmount: amountParam(query.Get("min_amount")),
		MaxAmount: amountParam(query.Get("max_amount")),
	}

	f.DateFrom = timeParam(query.Get("from"))
	f.DateTo = timeParam(query.Get("to"))
	if f.DateFrom == nil && f.DateTo == nil && f.DateRange != "" {
		derived := core.CalculateDateRange(f.DateRange, now)
		f.DateFrom = derived.Start
		f.DateTo = derived.End
	}

	return f
}

// multiValue collects repeated query parameters, splitting comma-separated
// values and discarding empties.
func multiValue(query url.Values, key string) []string {
	var out []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func timeParam(raw string) *time.Time {
	ts, ok := core.ParseDate(raw)
	if !ok {
		return nil
	}
	return &ts
}

func amountParam(raw string) *float64 {
	v, err := core.ParseAmount(raw)
	if err != nil {
		return nil
	}
	return &v
}
