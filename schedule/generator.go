/*
generator.go - Candidate billing periods for a lease

PURPOSE:
  Produces the finite, chronological sequence of selectable periods for a
  lease: walk the billing cadence from the first rent date up to a future
  limit, drop any slot colliding with a recorded payment, keep the rest.

ALGORITHM:
  currentStart = firstRentStart
  while currentStart <= futureLimit:
      end = PeriodEnd(currentStart, frequency)
      candidate = {currentStart, end, pending, rentAmount, unpaid}
      keep candidate if ValidatePeriodSelection passes
      currentStart = NextPeriodStart(end, frequency)   // even when rejected

  Advancing past rejected slots keeps the cadence anchored: a slot is
  skipped, never retried, so later periods never drift.

PROPERTIES:
  - Restartable: no internal state; identical inputs reproduce identical
    output, so concurrent callers never interfere.
  - futureLimit before firstRentStart yields an empty sequence, not an error.
  - Output periods never overlap each other or any recorded payment.

SEE ALSO:
  - frequency.go: PeriodEnd / NextPeriodStart
  - validate.go: ValidatePeriodSelection
*/
package schedule

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GenerateAvailablePeriods returns every selectable billing period for a
// lease between its first rent date and futureLimit, skipping slots already
// covered by a recorded payment. The only error is an invalid frequency.
func GenerateAvailablePeriods(
	firstRentStart TimePoint,
	frequency Frequency,
	existing []PaymentRecord,
	rentAmount decimal.Decimal,
	futureLimit TimePoint,
) ([]PaymentPeriod, error) {
	if !frequency.Valid() {
		return nil, &InvalidFrequencyError{Value: string(frequency)}
	}

	var periods []PaymentPeriod
	currentStart := firstRentStart

	for currentStart.BeforeOrEqual(futureLimit) {
		end, err := PeriodEnd(currentStart, frequency)
		if err != nil {
			return nil, err
		}

		candidate := PaymentPeriod{
			Period: Period{Start: currentStart, End: end},
			Status: StatusPending,
			Amount: rentAmount,
			Paid:   false,
		}
		if res := ValidatePeriodSelection(candidate, existing); res.Valid {
			periods = append(periods, candidate)
		}

		next, err := NextPeriodStart(end, frequency)
		if err != nil {
			return nil, err
		}
		currentStart = next
	}

	return periods, nil
}

// =============================================================================
// SELECTION - Caller-owned bookkeeping over generated periods
// =============================================================================

// Selection tracks which candidate periods a caller has picked for payment.
// Pure bookkeeping: no validation happens here. The validators re-run at
// commit time, so a stale selection is caught before anything is recorded.
// Not safe for concurrent use; each caller owns its own Selection.
type Selection struct {
	byStart map[string]PaymentPeriod
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{byStart: make(map[string]PaymentPeriod)}
}

// Select adds a period to the selection. Selecting the same period twice
// is a no-op.
func (s *Selection) Select(p PaymentPeriod) {
	s.byStart[p.Start.String()] = p
}

// Unselect removes a period from the selection, matching by start date.
func (s *Selection) Unselect(p PaymentPeriod) {
	delete(s.byStart, p.Start.String())
}

// Clear removes every selected period.
func (s *Selection) Clear() {
	s.byStart = make(map[string]PaymentPeriod)
}

// Contains reports whether a period with the same start date is selected.
func (s *Selection) Contains(p PaymentPeriod) bool {
	_, ok := s.byStart[p.Start.String()]
	return ok
}

// Len returns the number of selected periods.
func (s *Selection) Len() int { return len(s.byStart) }

// Periods returns the selected periods in chronological order.
func (s *Selection) Periods() []PaymentPeriod {
	periods := make([]PaymentPeriod, 0, len(s.byStart))
	for _, p := range s.byStart {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods
}
