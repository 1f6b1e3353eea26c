package workdays

import (
	"time"
)

// Counter measures elapsed working time between two instants in whole
// days. Implementations are pure; the result is never negative.
type Counter func(start, end time.Time) int

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SpanWholeDays counts the working days covered by [start, end): days
// that are neither weekend nor holiday, a day counting only once end has
// moved past its clock time. This is the raw measure used for paused
// intervals; elapsed time goes through CountWholeDays instead.
func SpanWholeDays(start, end time.Time, cal *Calendar) int {
	if end.Before(start) {
		return 0
	}
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) && !cal.IsHoliday(d) {
			days++
		}
	}
	return days
}

// CountWholeDays measures elapsed working time in whole days: the
// working days covered by the span minus one, so the start day is not
// billed as a full elapsed day. A Monday-to-Monday week yields 4.
// Floored at 0; end at or before start yields 0.
func CountWholeDays(start, end time.Time, cal *Calendar) int {
	days := SpanWholeDays(start, end, cal)
	if days <= 1 {
		return 0
	}
	return days - 1
}

// CountBlockDays subtracts the milliseconds that fall inside weekend
// calendar days from the total elapsed time, then floors by 24h. Weekday
// nights are not excluded: this is a "business hours as whole days"
// hybrid, not true business-hour accounting.
func CountBlockDays(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	business := end.Sub(start) - weekendOverlap(start, end)
	if business < 0 {
		business = 0
	}
	return int(business / (24 * time.Hour))
}

// weekendOverlap walks day boundaries and sums the intersection of each
// Saturday/Sunday span with [start, end].
func weekendOverlap(start, end time.Time) time.Duration {
	var total time.Duration
	for cur := startOfDay(start); cur.Before(end); cur = cur.AddDate(0, 0, 1) {
		if !isWeekend(cur) {
			continue
		}
		total += overlap(start, end, cur, cur.AddDate(0, 0, 1))
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func overlap(a1, a2, b1, b2 time.Time) time.Duration {
	s := a1
	if b1.After(s) {
		s = b1
	}
	e := a2
	if b2.Before(e) {
		e = b2
	}
	if !e.After(s) {
		return 0
	}
	return e.Sub(s)
}

// WholeDayCounter returns a Counter using calendar-day counting against
// the given holiday calendar (nil disables holiday exclusion).
func WholeDayCounter(cal *Calendar) Counter {
	return func(start, end time.Time) int {
		return CountWholeDays(start, end, cal)
	}
}

// WholeDaySpanner returns a Counter measuring the raw working days a
// span covers, for paused-interval subtraction.
func WholeDaySpanner(cal *Calendar) Counter {
	return func(start, end time.Time) int {
		return SpanWholeDays(start, end, cal)
	}
}

// BlockDayCounter returns a Counter using 24-hour-block counting.
// Holiday exclusion does not apply to this mode; the same measure serves
// both elapsed time and paused intervals.
func BlockDayCounter() Counter {
	return CountBlockDays
}
