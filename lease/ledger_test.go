package lease_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/schedule"
	"github.com/warp/lease-engine/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) schedule.TimePoint {
	return schedule.NewTimePoint(year, month, day)
}

func rent(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func period(start, end schedule.TimePoint, amount decimal.Decimal) schedule.PaymentPeriod {
	return schedule.PaymentPeriod{
		Period: schedule.Period{Start: start, End: end},
		Status: schedule.StatusPending,
		Amount: amount,
	}
}

// newTestLedger returns a ledger over a fresh memory store with one monthly
// lease (rent 1200, first rent 2024-01-01) and a frozen clock.
func newTestLedger(t *testing.T, now time.Time) (*lease.Ledger, *store.Memory, lease.Lease) {
	t.Helper()

	mem := store.NewMemory()
	l := lease.Lease{
		ID:             "lease-1",
		Tenant:         "Ada Moreno",
		Unit:           "Apt 4B",
		RentAmount:     rent(1200),
		Frequency:      schedule.FrequencyMonthly,
		FirstRentStart: date(2024, time.January, 1),
		CreatedAt:      now,
	}
	require.NoError(t, mem.SaveLease(context.Background(), l))

	ledger := lease.NewLedger(mem)
	ledger.Now = func() time.Time { return now }
	return ledger, mem, l
}

// =============================================================================
// RECORDING
// =============================================================================

func TestRecordPayment_CurrentPeriod(t *testing.T) {
	// GIVEN: Today is mid-March
	// WHEN: Recording the March period
	// THEN: Stored as paid_current with the rent amount

	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, mem, _ := newTestLedger(t, now)
	ctx := context.Background()

	p, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	require.NoError(t, err)

	assert.Equal(t, schedule.StatusPaidCurrent, p.Status)
	assert.True(t, p.Amount.Equal(rent(1200)))
	assert.NotEmpty(t, p.ID)

	stored, err := mem.ListPayments(ctx, "lease-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestRecordPayment_ClassifiesLateAndAdvance(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)
	ctx := context.Background()

	// January is long over: paid_late.
	late, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.January, 1), date(2024, time.January, 31), rent(1200)))
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPaidLate, late.Status)

	// April has not started: paid_advance (January anchors the advance rule).
	advance, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.April, 1), date(2024, time.April, 30), rent(1200)))
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPaidAdvance, advance.Status)
}

func TestRecordPayment_RejectsOverlap(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)
	ctx := context.Background()

	_, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	require.NoError(t, err)

	// Overlapping range, including a bare boundary touch on March 31.
	_, err = ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 31), date(2024, time.April, 29), rent(1200)))
	require.Error(t, err)

	var vErr *lease.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, lease.ErrValidationFailed)
	assert.Contains(t, vErr.Messages, "period overlaps an existing payment")
}

func TestRecordPayment_RejectsWrongAmount(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)

	_, err := ledger.RecordPayment(context.Background(), "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1000)))
	require.Error(t, err)

	var vErr *lease.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, "amount must match the lease rent")
}

func TestRecordPayment_HistoricalRules(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)
	ctx := context.Background()

	// Fully before the lease's first rent date: allowed, classified late.
	p, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2023, time.December, 1), date(2023, time.December, 31), rent(1200)))
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPaidLate, p.Status)
}

func TestRecordPayment_AdvanceRequiresPriorPayment(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)
	ctx := context.Background()

	// No payments yet: paying a future period has no anchor.
	_, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.May, 1), date(2024, time.May, 31), rent(1200)))
	require.Error(t, err)

	var vErr *lease.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, "cannot pay in advance without a prior payment")

	// After paying March, May must still follow the last paid period - and does.
	_, err = ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	require.NoError(t, err)

	_, err = ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.May, 1), date(2024, time.May, 31), rent(1200)))
	require.NoError(t, err)
}

func TestRecordPayments_BatchIsAllOrNothing(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, mem, _ := newTestLedger(t, now)
	ctx := context.Background()

	// Second period overlaps the first within the batch itself.
	_, err := ledger.RecordPayments(ctx, "lease-1", []schedule.PaymentPeriod{
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)),
		period(date(2024, time.March, 31), date(2024, time.April, 29), rent(1200)),
	})
	require.Error(t, err)

	stored, err := mem.ListPayments(ctx, "lease-1")
	require.NoError(t, err)
	assert.Empty(t, stored, "failed batch must record nothing")
}

func TestRecordPayment_MalformedPeriod(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, mem, _ := newTestLedger(t, now)
	ctx := context.Background()

	// End before start never reaches the store.
	_, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 31), date(2024, time.March, 1), rent(1200)))
	assert.ErrorIs(t, err, schedule.ErrInvalidPeriod)

	stored, err := mem.ListPayments(ctx, "lease-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRecordPayment_UnknownLease(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)

	_, err := ledger.RecordPayment(context.Background(), "nope",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	assert.ErrorIs(t, err, lease.ErrLeaseNotFound)
}

// =============================================================================
// CURRENT PERIOD
// =============================================================================

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, now)
	ctx := context.Background()

	p, recorded, err := ledger.CurrentPeriod(ctx, "lease-1")
	require.NoError(t, err)
	assert.True(t, p.Start.Equal(date(2024, time.March, 1)), "start = %s", p.Start)
	assert.True(t, p.End.Equal(date(2024, time.March, 31)), "end = %s", p.End)
	assert.Empty(t, recorded)

	// Once March is paid, the recorded status surfaces.
	_, err = ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	require.NoError(t, err)

	_, recorded, err = ledger.CurrentPeriod(ctx, "lease-1")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPaidCurrent, recorded)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	ledger, mem, _ := newTestLedger(t, now)
	ctx := context.Background()

	_, err := ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.January, 1), date(2024, time.January, 31), rent(1200)))
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, "lease-1",
		period(date(2024, time.March, 1), date(2024, time.March, 31), rent(1200)))
	require.NoError(t, err)

	payments, err := mem.ListPayments(ctx, "lease-1")
	require.NoError(t, err)

	s := lease.Summarize(payments)
	assert.Equal(t, 2, s.Payments)
	assert.True(t, s.TotalCollected.Equal(rent(2400)))
	assert.Equal(t, 1, s.ByStatus[schedule.StatusPaidLate])
	assert.Equal(t, 1, s.ByStatus[schedule.StatusPaidCurrent])
	require.NotNil(t, s.LastPaidEnd)
	assert.True(t, s.LastPaidEnd.Equal(date(2024, time.March, 31)))
}

func TestSummarize_Empty(t *testing.T) {
	s := lease.Summarize(nil)
	assert.Zero(t, s.Payments)
	assert.True(t, s.TotalCollected.IsZero())
	assert.Nil(t, s.LastPaidEnd)
}
