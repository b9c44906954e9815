// Package lease implements the agency-facing side of rent scheduling:
// lease configuration, the payment ledger, and summaries. It drives the
// pure scheduling core in package schedule.
package lease

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/lease-engine/schedule"
)

// =============================================================================
// LEASE - Billing configuration the scheduler consumes
// =============================================================================

// Lease is the agreement between tenant and landlord: rent amount, billing
// frequency, and the first rent date. Owned by the CRUD layer; the
// scheduling core only reads it.
type Lease struct {
	ID             string
	Tenant         string
	Unit           string
	RentAmount     decimal.Decimal
	Frequency      schedule.Frequency
	FirstRentStart schedule.TimePoint
	CreatedAt      time.Time
}

// =============================================================================
// PAYMENT - Immutable record of a paid period
// =============================================================================

// Payment is a payment recorded against a lease. Append-only: the ledger
// never mutates a payment; corrections would be new records.
type Payment struct {
	ID          string
	LeaseID     string
	PeriodStart schedule.TimePoint
	PeriodEnd   schedule.TimePoint
	Status      schedule.PaymentStatus
	Amount      decimal.Decimal
	RecordedAt  time.Time
}

// Record converts the payment to the read-only shape the scheduling core
// validates against.
func (p Payment) Record() schedule.PaymentRecord {
	return schedule.PaymentRecord{
		Period: schedule.Period{Start: p.PeriodStart, End: p.PeriodEnd},
		Status: p.Status,
		Amount: p.Amount,
	}
}

// Records converts a payment list for the scheduling core.
func Records(payments []Payment) []schedule.PaymentRecord {
	records := make([]schedule.PaymentRecord, len(payments))
	for i, p := range payments {
		records[i] = p.Record()
	}
	return records
}

// LastPaid returns the recorded payment whose period ends latest, or nil
// when the lease has no payments. This anchors the advance-payment rule.
func LastPaid(payments []Payment) *schedule.PaymentRecord {
	var last *schedule.PaymentRecord
	for _, p := range payments {
		rec := p.Record()
		if last == nil || rec.End.After(last.End) {
			r := rec
			last = &r
		}
	}
	return last
}

// =============================================================================
// SUMMARY - Ledger statistics for display
// =============================================================================

// Summary aggregates a lease's recorded payments.
type Summary struct {
	Payments       int
	TotalCollected decimal.Decimal
	ByStatus       map[schedule.PaymentStatus]int
	LastPaidEnd    *schedule.TimePoint
}

// Summarize computes ledger statistics over the given payments.
func Summarize(payments []Payment) Summary {
	s := Summary{
		TotalCollected: decimal.Zero,
		ByStatus:       make(map[schedule.PaymentStatus]int),
	}
	for _, p := range payments {
		s.Payments++
		s.TotalCollected = s.TotalCollected.Add(p.Amount)
		s.ByStatus[p.Status]++
	}
	if last := LastPaid(payments); last != nil {
		end := last.End
		s.LastPaidEnd = &end
	}
	return s
}
