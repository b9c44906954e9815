/*
status.go - Real-time classification of the current billing period

PURPOSE:
  Derives the live display state for the single "current" period of a
  lease: how far through the period we are, how much time remains, and
  whether the rent is pending, due soon, late, or already paid.

STATE MACHINE:
  pending -> due_soon -> late, driven only by wall-clock time.
  paid is terminal and reachable from any state once a payment record
  exists for the period.

DERIVATION (recomputed on every tick):
  progress = clamp(0, 100, elapsedDays / totalDays * 100)
  timeLeft = "Nd Mh" while days remain, "Mh" on the last day, "overdue" after
  state    = paid | late (past end) | due_soon (<= 3 days left) | pending

  The pure function is DeriveStatus; Monitor (monitor.go) re-runs it on a
  fixed cadence for as long as the period is displayed.
*/
package schedule

import (
	"fmt"
	"time"
)

// PeriodState is the display state of the current period. Distinct from
// PaymentStatus: this is what a badge shows, PaymentStatus is what the
// ledger records. The presentation layer owns label text; the core only
// ever produces this enum.
type PeriodState string

const (
	StatePending PeriodState = "pending"
	StateDueSoon PeriodState = "due_soon"
	StateLate    PeriodState = "late"
	StatePaid    PeriodState = "paid"
)

// DueSoonWindowDays is how many days before the period end the state
// switches from pending to due_soon.
const DueSoonWindowDays = 3

// StatusSnapshot is the derived triple consumed by the presentation layer.
type StatusSnapshot struct {
	Progress   float64     // 0..100, whole-day resolution
	TimeLeft   string      // "12d 5h", "5h", or "overdue"
	State      PeriodState
	ComputedAt time.Time
}

// DeriveStatus computes the snapshot for a period at the given wall-clock
// time. recorded is the period's payment status if a payment exists, or
// the empty string. Pure: two calls with the same inputs agree exactly.
func DeriveStatus(period Period, recorded PaymentStatus, now time.Time) StatusSnapshot {
	snap := StatusSnapshot{ComputedAt: now}

	totalDays := period.Days()
	elapsedDays := DaysBetween(period.Start, FromTime(now))
	snap.Progress = progressPercent(elapsedDays, totalDays)

	// The end day belongs to the period, so overdue starts the day after.
	remaining := period.End.EndOfDay().Sub(now)
	daysLeft := int(remaining.Hours() / 24)
	hoursLeft := int(remaining.Hours()) % 24

	switch {
	case daysLeft > 0:
		snap.TimeLeft = fmt.Sprintf("%dd %dh", daysLeft, hoursLeft)
	case remaining > 0:
		snap.TimeLeft = fmt.Sprintf("%dh", hoursLeft)
	default:
		snap.TimeLeft = "overdue"
	}

	switch {
	case recorded.IsPaid():
		snap.State = StatePaid
	case remaining < 0:
		snap.State = StateLate
		snap.Progress = 100
	case daysLeft <= DueSoonWindowDays:
		snap.State = StateDueSoon
	default:
		snap.State = StatePending
	}

	return snap
}

func progressPercent(elapsed, total int) float64 {
	if total <= 0 {
		if elapsed >= 0 {
			return 100
		}
		return 0
	}
	pct := float64(elapsed) / float64(total) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
