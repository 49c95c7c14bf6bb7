package core

import "time"

// Named range tokens understood by CalculateDateRange. Anything else,
// including the empty string, means "all time".
const (
	RangeToday       = "today"
	RangeLast7Days   = "last-7-days"
	RangeThisMonth   = "this-month"
	RangeLast3Months = "last-3-months"
	RangeThisYear    = "this-year"
	RangeLastYear    = "last-year"
	RangeAllTime     = "all-time"
)

// DateRange is a pair of concrete bounds derived from a named token.
// Both nil signals an unbounded ("all time") range.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// CalculateDateRange maps a named token to concrete bounds relative to now.
// Calendar arithmetic follows time.AddDate rollover rules, so subtracting
// months from a day-31 date normalizes forward instead of clamping. Every
// returned pointer is a fresh allocation; Start and End never alias even
// when they hold the same instant.
func CalculateDateRange(token string, now time.Time) DateRange {
	switch token {
	case RangeToday:
		start, end := now, now
		return DateRange{Start: &start, End: &end}
	case RangeLast7Days:
		start, end := now.AddDate(0, 0, -7), now
		return DateRange{Start: &start, End: &end}
	case RangeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := now
		return DateRange{Start: &start, End: &end}
	case RangeLast3Months:
		start, end := now.AddDate(0, -3, 0), now
		return DateRange{Start: &start, End: &end}
	case RangeThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end := now
		return DateRange{Start: &start, End: &end}
	case RangeLastYear:
		start := time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year()-1, 12, 31, 0, 0, 0, 0, now.Location())
		return DateRange{Start: &start, End: &end}
	default:
		return DateRange{}
	}
}
