/*
ledger.go - Payment recording with scheduling-rule enforcement

PURPOSE:
  Wraps a Store with the business rules a payment must pass before it is
  persisted. The scheduling core's validators are pure and composable;
  this is the one place that composes them into the recording workflow:

    1. Amount must match the lease rent.
    2. The period must not overlap any recorded payment.
    3. Historical periods (pre-lease) must end before the first rent date.
    4. Future periods require a prior paid period and must follow it.

  On success the payment is classified (paid_current / paid_advance /
  paid_late) from the period boundaries and the recording day, then
  appended. The ledger never mutates existing payments.

ERROR HANDLING:
  Rule failures come back as *ValidationError wrapping ErrValidationFailed,
  carrying the validator messages for the caller to surface. Store
  failures pass through unchanged.

SEE ALSO:
  - schedule/validate.go: The individual checks
  - store/memory.go, store/sqlite: Store implementations
*/
package lease

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/lease-engine/schedule"
)

// Sentinel errors for ledger and store operations.
var (
	ErrValidationFailed = errors.New("payment validation failed")
	ErrLeaseNotFound    = errors.New("lease not found")
	ErrDuplicatePeriod  = errors.New("payment already recorded for period")
)

// ValidationError carries every rule failure for one recording attempt.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payment validation failed: %s", strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Store is the persistence surface the ledger needs. Implemented by
// store.Memory and sqlite.Store.
type Store interface {
	SaveLease(ctx context.Context, l Lease) error
	GetLease(ctx context.Context, id string) (*Lease, error)
	ListLeases(ctx context.Context) ([]Lease, error)

	// AppendPayment is append-only and must reject a second payment whose
	// period starts on the same day for the same lease.
	AppendPayment(ctx context.Context, p Payment) error
	ListPayments(ctx context.Context, leaseID string) ([]Payment, error)
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger records payments against leases, enforcing the scheduling rules.
type Ledger struct {
	store Store
	// Now is the clock used to classify payments; overridable in tests.
	Now func() time.Time
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, Now: time.Now}
}

// RecordPayment validates one period against the lease's recorded payments
// and appends it. The period usually comes straight from
// schedule.GenerateAvailablePeriods; validation re-runs here regardless,
// because the generator's snapshot may be stale by commit time.
func (l *Ledger) RecordPayment(ctx context.Context, leaseID string, period schedule.PaymentPeriod) (*Payment, error) {
	payments, err := l.record(ctx, leaseID, []schedule.PaymentPeriod{period})
	if err != nil {
		return nil, err
	}
	return &payments[0], nil
}

// RecordPayments validates and appends several periods at once, e.g. an
// advance payment covering multiple future periods. All-or-nothing: the
// first failure aborts the whole batch before anything is appended.
func (l *Ledger) RecordPayments(ctx context.Context, leaseID string, periods []schedule.PaymentPeriod) ([]Payment, error) {
	return l.record(ctx, leaseID, periods)
}

func (l *Ledger) record(ctx context.Context, leaseID string, periods []schedule.PaymentPeriod) ([]Payment, error) {
	if len(periods) == 0 {
		return nil, &ValidationError{Messages: []string{"no periods selected"}}
	}

	for _, period := range periods {
		if !period.Period.Valid() {
			return nil, fmt.Errorf("%w: %s", schedule.ErrInvalidPeriod, period.Period)
		}
	}

	lse, err := l.store.GetLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	existing, err := l.store.ListPayments(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	records := Records(existing)
	now := l.Now()
	today := schedule.FromTime(now)

	if res := l.validate(lse, periods, existing, records, today); !res.Valid() {
		return nil, &ValidationError{Messages: res.Messages}
	}

	recorded := make([]Payment, 0, len(periods))
	for _, period := range periods {
		p := Payment{
			ID:          uuid.NewString(),
			LeaseID:     lse.ID,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			Status:      schedule.ClassifyPayment(period.Period, today),
			Amount:      period.Amount,
			RecordedAt:  now,
		}
		if err := l.store.AppendPayment(ctx, p); err != nil {
			return nil, err
		}
		recorded = append(recorded, p)
	}

	log.Printf("[Ledger] Recorded %d payment(s) for lease %s", len(recorded), lse.ID)
	return recorded, nil
}

// ruleFailures collects validator messages across a batch.
type ruleFailures struct {
	Messages []string
}

func (r *ruleFailures) add(res schedule.ValidationResult) {
	if !res.Valid {
		r.Messages = append(r.Messages, res.Message)
	}
}

func (r *ruleFailures) Valid() bool { return len(r.Messages) == 0 }

// validate composes the scheduling core's checks for the recording
// workflow. Every check runs so the caller sees all failures at once.
func (l *Ledger) validate(lse *Lease, periods []schedule.PaymentPeriod, existing []Payment, records []schedule.PaymentRecord, today schedule.TimePoint) ruleFailures {
	var failures ruleFailures

	// Periods within one batch must not collide with each other either.
	batch := records
	for _, period := range periods {
		failures.add(schedule.ValidatePaymentAmount(period, lse.RentAmount))

		if period.End.Before(lse.FirstRentStart) {
			failures.add(schedule.ValidateHistoricalPayment(period, batch, lse.FirstRentStart))
		} else {
			failures.add(schedule.ValidatePeriodSelection(period, batch))
		}

		batch = append(batch, schedule.PaymentRecord{
			Period: period.Period,
			Status: schedule.StatusPending,
			Amount: period.Amount,
		})
	}

	// Paying ahead of today's period requires an anchor payment.
	var future []schedule.PaymentPeriod
	for _, period := range periods {
		if period.Start.After(today) {
			future = append(future, period)
		}
	}
	if len(future) > 0 {
		failures.add(schedule.ValidateAdvancePayment(future, LastPaid(existing)))
	}

	return failures
}

// CurrentPeriod returns the billing period containing today, along with
// its recorded payment status when one exists. Feeds the status monitor.
func (l *Ledger) CurrentPeriod(ctx context.Context, leaseID string) (schedule.Period, schedule.PaymentStatus, error) {
	lse, err := l.store.GetLease(ctx, leaseID)
	if err != nil {
		return schedule.Period{}, "", err
	}

	today := schedule.FromTime(l.Now())
	start := lse.FirstRentStart

	// Walk the cadence until the period containing today. Bounded: one
	// step per elapsed period since the lease began.
	for {
		end, err := schedule.PeriodEnd(start, lse.Frequency)
		if err != nil {
			return schedule.Period{}, "", err
		}
		period := schedule.Period{Start: start, End: end}
		if period.Contains(today) || today.Before(period.Start) {
			status, err := l.recordedStatus(ctx, leaseID, period)
			return period, status, err
		}
		next, err := schedule.NextPeriodStart(end, lse.Frequency)
		if err != nil {
			return schedule.Period{}, "", err
		}
		start = next
	}
}

func (l *Ledger) recordedStatus(ctx context.Context, leaseID string, period schedule.Period) (schedule.PaymentStatus, error) {
	payments, err := l.store.ListPayments(ctx, leaseID)
	if err != nil {
		return "", err
	}
	for _, p := range payments {
		if p.PeriodStart.Equal(period.Start) {
			return p.Status, nil
		}
	}
	return "", nil
}
