/*
frequency.go - Billing frequencies and interval arithmetic

PURPOSE:
  Pure date arithmetic for lease billing: given a frequency, compute a
  period's last day from its start, and the next period's first day from
  the previous period's end. Everything else in the package (generator,
  validators, status engine) is built on these two functions.

CALENDAR SEMANTICS:
  Month and year intervals follow time.AddDate, which normalizes overflow
  days forward rather than clamping:

    2024-01-31 + 1 month = 2024-03-02  (Feb 2024 has 29 days)
    2023-01-31 + 1 month = 2023-03-03

  So PeriodEnd(2024-01-31, monthly) = 2024-03-01, not 2024-02-29.
  This is the standard library's month-add behavior and it is covered
  explicitly by tests; leases anchored on day 1-28 are unaffected.

INVARIANT:
  For every frequency f: NextPeriodStart(PeriodEnd(s, f), f) is exactly
  one day after PeriodEnd(s, f). No gaps, no double coverage.
*/
package schedule

// Frequency is the cadence at which payment periods recur.
// Closed set: an unknown value fails with ErrInvalidFrequency.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyYearly    Frequency = "yearly"
)

// Frequencies lists every supported frequency, in increasing interval length.
func Frequencies() []Frequency {
	return []Frequency{
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyMonthly,
		FrequencyQuarterly,
		FrequencyBiannual,
		FrequencyYearly,
	}
}

// Valid reports whether f is a member of the closed frequency set.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyBiannual, FrequencyYearly:
		return true
	}
	return false
}

// ParseFrequency converts a string to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", &InvalidFrequencyError{Value: s}
	}
	return f, nil
}

// PeriodEnd returns the last day included in the period starting at start.
//
//	daily     -> same day
//	weekly    -> start + 6 days
//	monthly   -> start + 1 month - 1 day
//	quarterly -> start + 3 months - 1 day
//	biannual  -> start + 6 months - 1 day
//	yearly    -> start + 1 year - 1 day
func PeriodEnd(start TimePoint, f Frequency) (TimePoint, error) {
	switch f {
	case FrequencyDaily:
		return start, nil
	case FrequencyWeekly:
		return start.AddDays(6), nil
	case FrequencyMonthly:
		return start.AddMonths(1).AddDays(-1), nil
	case FrequencyQuarterly:
		return start.AddMonths(3).AddDays(-1), nil
	case FrequencyBiannual:
		return start.AddMonths(6).AddDays(-1), nil
	case FrequencyYearly:
		return start.AddYears(1).AddDays(-1), nil
	default:
		return TimePoint{}, &InvalidFrequencyError{Value: string(f)}
	}
}

// NextPeriodStart returns the first day of the period immediately following
// one that ended at end: always the day after, for every frequency. Periods
// are contiguous; the interval length lives entirely in PeriodEnd. The
// frequency argument is still validated so an unknown cadence fails here
// rather than producing a silently contiguous schedule.
func NextPeriodStart(end TimePoint, f Frequency) (TimePoint, error) {
	if !f.Valid() {
		return TimePoint{}, &InvalidFrequencyError{Value: string(f)}
	}
	return end.AddDays(1), nil
}
