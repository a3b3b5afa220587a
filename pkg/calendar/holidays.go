package calendar

import (
	"sort"
	"time"
)

// HolidayCalendar answers whether a calendar date carries the fixed
// holiday premium. Implementations must be pure: the same date always
// yields the same answer, so rate calculations stay reproducible.
type HolidayCalendar interface {
	IsHoliday(d time.Time) bool
	HolidaysInYear(year int) []time.Time
}

// MonthDay is a year-independent calendar date.
type MonthDay struct {
	Month time.Month
	Day   int
}

// FixedHolidays is the default provider: a static month/day list that
// repeats every year.
type FixedHolidays struct {
	days map[MonthDay]struct{}
}

// DefaultHolidays returns the stock list: New Year's Day,
// Independence Day (Aug 17) and Christmas.
func DefaultHolidays() *FixedHolidays {
	return NewFixedHolidays(
		MonthDay{time.January, 1},
		MonthDay{time.August, 17},
		MonthDay{time.December, 25},
	)
}

func NewFixedHolidays(days ...MonthDay) *FixedHolidays {
	f := &FixedHolidays{days: make(map[MonthDay]struct{}, len(days))}
	for _, md := range days {
		f.days[md] = struct{}{}
	}
	return f
}

func (f *FixedHolidays) IsHoliday(d time.Time) bool {
	_, ok := f.days[MonthDay{Month: d.UTC().Month(), Day: d.UTC().Day()}]
	return ok
}

func (f *FixedHolidays) HolidaysInYear(year int) []time.Time {
	dates := make([]time.Time, 0, len(f.days))
	for md := range f.days {
		dates = append(dates, time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
