package roster

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a month is outside 1..12
var ErrInvalidPeriod = errors.New("invalid roster period")

// Period is the calendar month a roster covers
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates and creates a Period
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the month is in range
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// DaysInMonth returns the number of days in the period
func (p Period) DaysInMonth() int {
	// Day 0 of the next month is the last day of this one
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the calendar date for a day of the period
func (p Period) Date(day int) time.Time {
	return time.Date(p.Year, time.Month(p.Month), day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the weekday of a day of the period
func (p Period) Weekday(day int) time.Weekday {
	return p.Date(day).Weekday()
}

// IsWeekend returns true for Saturdays and Sundays
func (p Period) IsWeekend(day int) bool {
	wd := p.Weekday(day)
	return wd == time.Saturday || wd == time.Sunday
}

// DateKey returns the YYYYMMDD key used by the holiday calendar
func (p Period) DateKey(day int) string {
	return fmt.Sprintf("%04d%02d%02d", p.Year, p.Month, day)
}

// MonthKey returns the YYYY-MM key used by the settlement history
func (p Period) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// String renders the period as YYYY-MM
func (p Period) String() string {
	return p.MonthKey()
}

// HolidaySet is the set of public holidays, keyed YYYYMMDD
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from YYYYMMDD strings
func NewHolidaySet(dates ...string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Add inserts a date key
func (h HolidaySet) Add(dateKey string) {
	h[dateKey] = struct{}{}
}

// Contains returns true if the given day of the period is a public holiday
func (h HolidaySet) Contains(p Period, day int) bool {
	if h == nil {
		return false
	}
	_, ok := h[p.DateKey(day)]
	return ok
}
