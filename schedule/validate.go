/*
validate.go - Business-rule checks for period selection and payment recording

PURPOSE:
  Four independent, pure checks combined by the payment-recording workflow:
    1. ValidatePeriodSelection: no double-booking against recorded payments
    2. ValidateHistoricalPayment: pre-lease periods must end before the lease
    3. ValidateAdvancePayment: advance periods follow the last paid period
    4. ValidatePaymentAmount: the period amount must match the lease rent

  Each returns a ValidationResult rather than an error, so callers can run
  several checks and surface every failure message. How the checks are
  combined is the caller's concern (see lease.Ledger).

SEE ALSO:
  - period.go: Overlaps, the predicate behind the selection check
  - generator.go: Runs ValidatePeriodSelection while generating candidates
*/
package schedule

import (
	"github.com/shopspring/decimal"
)

// ValidationResult is the transient outcome of one validator call.
// Message is only set when Valid is false.
type ValidationResult struct {
	Valid   bool
	Message string
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Message: msg}
}

// ValidatePeriodSelection rejects a candidate period that overlaps any
// recorded payment. Boundary touches count as overlap (see Overlaps).
func ValidatePeriodSelection(period PaymentPeriod, existing []PaymentRecord) ValidationResult {
	for _, rec := range existing {
		if period.Overlaps(rec.Period) {
			return invalid("period overlaps an existing payment")
		}
	}
	return valid()
}

// ValidateHistoricalPayment checks a payment recorded for a period that
// predates the lease. The period must end strictly before the first rent
// date; it must also not collide with recorded payments.
func ValidateHistoricalPayment(period PaymentPeriod, existing []PaymentRecord, firstRentStart TimePoint) ValidationResult {
	if period.End.AfterOrEqual(firstRentStart) {
		return invalid("historical period must end before the lease start")
	}
	return ValidatePeriodSelection(period, existing)
}

// ValidateAdvancePayment checks periods being paid ahead of schedule.
// Advance payment requires a prior paid period, and every selected period
// must start after that period's end.
func ValidateAdvancePayment(selected []PaymentPeriod, lastPaid *PaymentRecord) ValidationResult {
	if lastPaid == nil {
		return invalid("cannot pay in advance without a prior payment")
	}
	for _, p := range selected {
		if p.Start.BeforeOrEqual(lastPaid.End) {
			return invalid("advance periods must start after the last paid period")
		}
	}
	return valid()
}

// ValidatePaymentAmount rejects a period whose amount differs from the
// lease rent. Generated periods always carry the rent amount; a mismatch
// means the caller tampered with the candidate.
func ValidatePaymentAmount(period PaymentPeriod, rentAmount decimal.Decimal) ValidationResult {
	if !period.Amount.Equal(rentAmount) {
		return invalid("amount must match the lease rent")
	}
	return valid()
}
