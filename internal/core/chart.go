package core

import (
	"sort"
	"time"
)

// chartDayLayout keys daily buckets by UTC calendar day.
const chartDayLayout = "2006-01-02"

// ChartDataPoint is one day on the balance chart: the calendar day, the
// signed net movement for that day, and a render-ready axis label.
type ChartDataPoint struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	FormattedDate string  `json:"formattedDate"`
}

// SortTransactionsByDate returns a new slice ordered by date descending,
// newest first. The input is never mutated and equal timestamps keep their
// relative order. Unparseable dates sort after every valid one, in input
// order, so repeated runs on the same input are identical.
func SortTransactionsByDate(txs []Transaction) []Transaction {
	type keyed struct {
		tx    Transaction
		ts    time.Time
		valid bool
	}
	keys := make([]keyed, len(txs))
	for i, t := range txs {
		ts, ok := ParseDate(t.Date)
		keys[i] = keyed{tx: t, ts: ts, valid: ok}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].valid != keys[j].valid {
			return keys[i].valid
		}
		if !keys[i].valid {
			return false
		}
		return keys[i].ts.After(keys[j].ts)
	})
	out := make([]Transaction, len(keys))
	for i, k := range keys {
		out[i] = k.tx
	}
	return out
}

// DailySeries groups transactions by UTC calendar day and nets the signed
// amounts per day: deposits add, withdrawals subtract. Points come back in
// ascending date order, the opposite of the list view, because the chart
// axis reads left to right. Transactions without a parseable date cannot be
// assigned a day and are skipped.
//
// An empty result is never returned. With no matching transactions the
// series is synthesized flat at zero: one point per day of the inclusive
// DateFrom..DateTo span when the filter carries both bounds, otherwise the
// seven days ending today.
func DailySeries(txs []Transaction, f FilterState, now time.Time) []ChartDataPoint {
	totals := make(map[string]float64)
	for _, t := range txs {
		ts, ok := ParseDate(t.Date)
		if !ok {
			continue
		}
		day := ts.UTC().Format(chartDayLayout)
		if t.Type == Withdrawal {
			totals[day] -= t.Amount
		} else {
			totals[day] += t.Amount
		}
	}
	if len(totals) == 0 {
		return zeroSeries(f, now)
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]ChartDataPoint, len(days))
	for i, day := range days {
		points[i] = ChartDataPoint{
			Date:          day,
			Amount:        totals[day],
			FormattedDate: FormatDateAs(day, DateLayoutDay),
		}
	}
	return points
}

func zeroSeries(f FilterState, now time.Time) []ChartDataPoint {
	if f.DateFrom != nil && f.DateTo != nil && !f.DateTo.Before(*f.DateFrom) {
		return zeroSpan(f.DateFrom.UTC(), f.DateTo.UTC())
	}
	// Seven calendar days ending today, oldest first.
	end := now.UTC()
	return zeroSpan(end.AddDate(0, 0, -6), end)
}

func zeroSpan(from, to time.Time) []ChartDataPoint {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	stop := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	var points []ChartDataPoint
	for day := start; !day.After(stop); day = day.AddDate(0, 0, 1) {
		points = append(points, ChartDataPoint{
			Date:          day.Format(chartDayLayout),
			Amount:        0,
			FormattedDate: day.Format(DateLayoutDay),
		})
	}
	return points
}
