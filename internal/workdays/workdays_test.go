package workdays

import (
	"testing"
	"time"
)

// 2025-01-06 is a Monday with no holidays nearby.
func monday(hour int) time.Time {
	return time.Date(2025, time.January, 6, hour, 0, 0, 0, time.UTC)
}

func TestCountWholeDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		cal   *Calendar
		want  int
	}{
		{
			name:  "end before start",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, -3),
			want:  0,
		},
		{
			name:  "start equals end",
			start: monday(9),
			end:   monday(9),
			want:  0,
		},
		{
			name:  "same day later hour",
			start: monday(9),
			end:   monday(17),
			want:  0,
		},
		{
			name:  "monday to next monday spans one work week",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, 7),
			want:  4,
		},
		{
			name:  "monday to friday",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, 4),
			want:  3,
		},
		{
			name:  "weekend only",
			start: time.Date(2025, time.January, 11, 10, 0, 0, 0, time.UTC), // Saturday
			end:   time.Date(2025, time.January, 12, 18, 0, 0, 0, time.UTC), // Sunday
			want:  0,
		},
		{
			name:  "two work weeks",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, 14),
			want:  9,
		},
		{
			name:  "holiday excluded",
			start: time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC), // Monday
			end:   time.Date(2025, time.June, 23, 9, 0, 0, 0, time.UTC), // next Monday, Corpus Christi on the 19th
			cal:   NewBrazilCalendar(2025, 2025),
			want:  3,
		},
		{
			name:  "same span without holiday calendar",
			start: time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2025, time.June, 23, 9, 0, 0, 0, time.UTC),
			want:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWholeDays(tt.start, tt.end, tt.cal); got != tt.want {
				t.Errorf("CountWholeDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpanWholeDays(t *testing.T) {
	// Tuesday 09:00 to the Monday after next at 09:00 covers 4 working
	// days (Tue-Fri); the span measure applies no elapsed-day subtraction.
	start := monday(9).AddDate(0, 0, 1)
	end := monday(9).AddDate(0, 0, 7)
	if got := SpanWholeDays(start, end, nil); got != 4 {
		t.Errorf("SpanWholeDays = %d, want 4", got)
	}

	if got := SpanWholeDays(end, start, nil); got != 0 {
		t.Errorf("SpanWholeDays reversed = %d, want 0", got)
	}
}

func TestCountBlockDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "end before start",
			start: monday(9),
			end:   monday(9).Add(-time.Hour),
			want:  0,
		},
		{
			name:  "start equals end",
			start: monday(9),
			end:   monday(9),
			want:  0,
		},
		{
			name:  "full week minus weekend",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, 7),
			want:  5, // 168h - 48h weekend = 120h = 5 blocks
		},
		{
			name:  "single business day",
			start: monday(9),
			end:   monday(9).AddDate(0, 0, 1),
			want:  1,
		},
		{
			name:  "partial block floors",
			start: monday(9),
			end:   monday(9).Add(23 * time.Hour),
			want:  0,
		},
		{
			name:  "friday to monday spans only weekend hours",
			start: time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC), // Friday noon
			end:   time.Date(2025, time.January, 13, 12, 0, 0, 0, time.UTC), // Monday noon
			want:  1, // 72h - 48h weekend = 24h
		},
		{
			name:  "inside a single weekend",
			start: time.Date(2025, time.January, 11, 6, 0, 0, 0, time.UTC),
			end:   time.Date(2025, time.January, 12, 20, 0, 0, 0, time.UTC),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountBlockDays(tt.start, tt.end); got != tt.want {
				t.Errorf("CountBlockDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountersNeverNegative(t *testing.T) {
	base := monday(0)
	counters := map[string]Counter{
		"whole": WholeDayCounter(nil),
		"span":  WholeDaySpanner(nil),
		"block": BlockDayCounter(),
	}
	for name, counter := range counters {
		for offset := -10; offset <= 10; offset++ {
			if got := counter(base, base.AddDate(0, 0, offset)); got < 0 {
				t.Errorf("%s counter returned %d for offset %d", name, got, offset)
			}
		}
	}
}
