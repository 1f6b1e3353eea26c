// Package workdays computes elapsed working time between two instants,
// excluding weekends and, optionally, Brazilian public holidays.
package workdays

import (
	"time"
)

const dayFormat = "2006-01-02"

// Calendar holds a set of holiday dates. A nil Calendar excludes nothing.
type Calendar struct {
	holidays map[string]bool
}

// IsHoliday reports whether the instant falls on a holiday date.
func (c *Calendar) IsHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	return c.holidays[t.Format(dayFormat)]
}

// Len returns the number of holiday dates in the calendar.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.holidays)
}

// NewBrazilCalendar builds the national holiday set for every year in
// [startYear, endYear]: the 8 fixed-date holidays plus Carnival Tuesday
// (Easter-47), Good Friday (Easter-2) and Corpus Christi (Easter+60).
func NewBrazilCalendar(startYear, endYear int) *Calendar {
	cal := &Calendar{holidays: make(map[string]bool)}
	for year := startYear; year <= endYear; year++ {
		for _, md := range [][2]int{
			{1, 1},   // Confraternização Universal
			{4, 21},  // Tiradentes
			{5, 1},   // Dia do Trabalho
			{9, 7},   // Independência
			{10, 12}, // Nossa Senhora Aparecida
			{11, 2},  // Finados
			{11, 15}, // Proclamação da República
			{12, 25}, // Natal
		} {
			cal.add(time.Date(year, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC))
		}

		easter := Easter(year)
		cal.add(easter.AddDate(0, 0, -47))
		cal.add(easter.AddDate(0, 0, -2))
		cal.add(easter.AddDate(0, 0, 60))
	}
	return cal
}

func (c *Calendar) add(t time.Time) {
	c.holidays[t.Format(dayFormat)] = true
}

// Easter returns the Gregorian Easter Sunday for a year using the
// Meeus/Jones/Butcher algorithm.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
