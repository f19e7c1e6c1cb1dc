package models

import (
	"slices"
	"time"
)

// Weekday indexes days of the week, Monday=0 through Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "Weekday(?)"
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven defined days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// WeekdayOf converts the standard library weekday (Sunday=0) of t to the
// Monday=0 indexing used by alarm schedules.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// NormalizeWeekdays sorts and deduplicates days, rejecting out-of-range values.
func NormalizeWeekdays(days []Weekday) ([]Weekday, error) {
	for _, d := range days {
		if !d.Valid() {
			return nil, NewValidationError("invalid repeat day %d", int(d))
		}
	}
	return sortWeekdays(days), nil
}

// sanitizeWeekdays sorts and deduplicates days, silently dropping
// out-of-range values. Used when decoding persisted records.
func sanitizeWeekdays(days []Weekday) []Weekday {
	kept := days[:0:0]
	for _, d := range days {
		if d.Valid() {
			kept = append(kept, d)
		}
	}
	return sortWeekdays(kept)
}

func sortWeekdays(days []Weekday) []Weekday {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}
