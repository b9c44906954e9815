package schedule

import (
	"time"
)

// =============================================================================
// TIME POINT - Day-granularity date (lease billing works in whole days)
// =============================================================================

// TimePoint is a calendar day, normalized to midnight UTC.
// All period boundaries in this package are TimePoints: a period that
// "ends" on a day includes that whole day.
type TimePoint struct {
	t time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a wall-clock time to its UTC calendar day.
func FromTime(t time.Time) TimePoint {
	u := t.UTC()
	return NewTimePoint(u.Year(), u.Month(), u.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.t.Before(other.t) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.t.Equal(other.t) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.t.After(other.t) }

func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

// Arithmetic. AddMonths and AddYears use time.AddDate, which normalizes
// overflow days forward (Jan 31 + 1 month = Mar 2/3 depending on leap year).
// See PeriodEnd for how that interacts with billing intervals.
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{t: tp.t.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{t: tp.t.AddDate(0, n, 0)} }
func (tp TimePoint) AddYears(n int) TimePoint  { return TimePoint{t: tp.t.AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int         { return tp.t.Year() }
func (tp TimePoint) Month() time.Month { return tp.t.Month() }
func (tp TimePoint) Day() int          { return tp.t.Day() }
func (tp TimePoint) IsZero() bool      { return tp.t.IsZero() }

// Time returns the underlying midnight-UTC instant.
func (tp TimePoint) Time() time.Time { return tp.t }

// EndOfDay returns the last instant of the calendar day. Used by the
// status engine: a period is not overdue until its end day has fully passed.
func (tp TimePoint) EndOfDay() time.Time { return tp.t.AddDate(0, 0, 1).Add(-time.Nanosecond) }

func (tp TimePoint) String() string { return tp.t.Format("2006-01-02") }

// DaysBetween returns the number of whole days from one point to another.
func DaysBetween(from, to TimePoint) int { return int(to.t.Sub(from.t).Hours() / 24) }
