package schedule

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD - One billable interval, inclusive on both ends
// =============================================================================

// Period is a date range [Start, End]. Both boundary days belong to the
// period: a monthly period starting Jan 15 ends Feb 14 and covers both.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Valid reports whether Start <= End.
func (p Period) Valid() bool { return p.Start.BeforeOrEqual(p.End) }

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the length of the period in whole days (End - Start).
func (p Period) Days() int { return DaysBetween(p.Start, p.End) }

// Overlaps returns true if the two periods share at least one day.
func (p Period) Overlaps(o Period) bool {
	return Overlaps(p.Start, p.End, o.Start, o.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// Overlaps reports whether the closed intervals [start1, end1] and
// [start2, end2] share any day. Symmetric. A boundary touch (one range's
// end equals the other's start) counts as an overlap: periods are
// inclusive-inclusive, so two periods sharing a day would double-book it.
// Back-to-back periods must therefore meet at adjacent days, never the
// same day. This mirrors the business rule as deployed; if periods were
// ever made end-exclusive this comparison is the place to revisit.
func Overlaps(start1, end1, start2, end2 TimePoint) bool {
	return start1.BeforeOrEqual(end2) && start2.BeforeOrEqual(end1)
}

// =============================================================================
// PAYMENT STATUS - Derived, never independently settable
// =============================================================================

// PaymentStatus classifies a period's payment. Always computed from the
// relationship between the period's boundaries, its payment record, and
// the current time.
type PaymentStatus string

const (
	StatusPaidCurrent PaymentStatus = "paid_current" // paid during the period
	StatusPaidAdvance PaymentStatus = "paid_advance" // paid before the period began
	StatusPaidLate    PaymentStatus = "paid_late"    // paid after the period ended
	StatusPending     PaymentStatus = "pending"      // unpaid, period not yet over
	StatusLate        PaymentStatus = "late"         // unpaid, period over
)

// IsPaid reports whether the status is one of the terminal paid states.
func (s PaymentStatus) IsPaid() bool {
	return s == StatusPaidCurrent || s == StatusPaidAdvance || s == StatusPaidLate
}

// ClassifyPayment returns the paid status for a payment recorded at the
// given day: within the period -> paid_current, before it -> paid_advance,
// after it -> paid_late.
func ClassifyPayment(period Period, recordedAt TimePoint) PaymentStatus {
	switch {
	case recordedAt.Before(period.Start):
		return StatusPaidAdvance
	case recordedAt.After(period.End):
		return StatusPaidLate
	default:
		return StatusPaidCurrent
	}
}

// =============================================================================
// PAYMENT PERIOD - Candidate interval produced by the generator
// =============================================================================

// PaymentPeriod is one billable interval for a lease. Instances are
// ephemeral: generated on demand for display and selection, never stored.
// Immutable by convention; any change produces a new value.
type PaymentPeriod struct {
	Period
	Status PaymentStatus
	Amount decimal.Decimal
	Paid   bool
}

// PaymentRecord is a payment already recorded against a lease, as seen by
// the scheduling core. Read-only input owned by the payment ledger; the
// core only reads it to avoid collisions.
type PaymentRecord struct {
	Period
	Status PaymentStatus
	Amount decimal.Decimal
}
