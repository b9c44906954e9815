package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/lease-engine/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) schedule.TimePoint {
	return schedule.NewTimePoint(year, month, day)
}

func mustPeriodEnd(t *testing.T, start schedule.TimePoint, f schedule.Frequency) schedule.TimePoint {
	t.Helper()
	end, err := schedule.PeriodEnd(start, f)
	if err != nil {
		t.Fatalf("PeriodEnd(%s, %s): %v", start, f, err)
	}
	return end
}

// =============================================================================
// PERIOD END
// =============================================================================

func TestPeriodEnd_AllFrequencies(t *testing.T) {
	start := date(2024, time.January, 15)

	tests := []struct {
		frequency schedule.Frequency
		want      schedule.TimePoint
	}{
		{schedule.FrequencyDaily, date(2024, time.January, 15)},
		{schedule.FrequencyWeekly, date(2024, time.January, 21)},
		{schedule.FrequencyMonthly, date(2024, time.February, 14)},
		{schedule.FrequencyQuarterly, date(2024, time.April, 14)},
		{schedule.FrequencyBiannual, date(2024, time.July, 14)},
		{schedule.FrequencyYearly, date(2025, time.January, 14)},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			got := mustPeriodEnd(t, start, tt.frequency)
			if !got.Equal(tt.want) {
				t.Errorf("PeriodEnd(%s, %s) = %s, want %s", start, tt.frequency, got, tt.want)
			}
		})
	}
}

func TestPeriodEnd_MonthOverflowNormalizesForward(t *testing.T) {
	// GIVEN: A monthly lease anchored on Jan 31
	// WHEN: Computing the period end
	// THEN: time.AddDate normalizes Jan 31 + 1 month past February's last
	//       day instead of clamping, so the end lands in early March.
	//       2024 is a leap year: Jan 31 + 1 month = Mar 2, end = Mar 1.

	end := mustPeriodEnd(t, date(2024, time.January, 31), schedule.FrequencyMonthly)
	if !end.Equal(date(2024, time.March, 1)) {
		t.Errorf("leap year: got %s, want 2024-03-01", end)
	}

	// Non-leap year: Jan 31 + 1 month = Mar 3, end = Mar 2.
	end = mustPeriodEnd(t, date(2023, time.January, 31), schedule.FrequencyMonthly)
	if !end.Equal(date(2023, time.March, 2)) {
		t.Errorf("non-leap year: got %s, want 2023-03-02", end)
	}
}

func TestPeriodEnd_YearlyLeapDay(t *testing.T) {
	// Feb 29 + 1 year normalizes to Mar 1, so the period ends Feb 28.
	end := mustPeriodEnd(t, date(2024, time.February, 29), schedule.FrequencyYearly)
	if !end.Equal(date(2025, time.February, 28)) {
		t.Errorf("got %s, want 2025-02-28", end)
	}
}

func TestPeriodEnd_InvalidFrequency(t *testing.T) {
	_, err := schedule.PeriodEnd(date(2024, time.January, 1), schedule.Frequency("fortnightly"))
	if !errors.Is(err, schedule.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}

	var invalidErr *schedule.InvalidFrequencyError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected *InvalidFrequencyError, got %T", err)
	}
	if invalidErr.Value != "fortnightly" {
		t.Errorf("expected offending value in error, got %q", invalidErr.Value)
	}
}

// =============================================================================
// NEXT PERIOD START
// =============================================================================

func TestNextPeriodStart_AlwaysDayAfterEnd(t *testing.T) {
	// Periods are contiguous for every frequency: the next period starts
	// exactly one day after the previous one ends.
	starts := []schedule.TimePoint{
		date(2024, time.January, 1),
		date(2024, time.January, 15),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.December, 31),
	}

	for _, f := range schedule.Frequencies() {
		for _, start := range starts {
			end := mustPeriodEnd(t, start, f)
			next, err := schedule.NextPeriodStart(end, f)
			if err != nil {
				t.Fatalf("NextPeriodStart(%s, %s): %v", end, f, err)
			}
			if !next.Equal(end.AddDays(1)) {
				t.Errorf("%s from %s: next period starts %s, want %s", f, start, next, end.AddDays(1))
			}
		}
	}
}

func TestNextPeriodStart_MonthlyScenario(t *testing.T) {
	// Monthly lease starting 2024-01-15: end 2024-02-14, next start 2024-02-15.
	end := mustPeriodEnd(t, date(2024, time.January, 15), schedule.FrequencyMonthly)
	if !end.Equal(date(2024, time.February, 14)) {
		t.Fatalf("end = %s, want 2024-02-14", end)
	}

	next, err := schedule.NextPeriodStart(end, schedule.FrequencyMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if !next.Equal(date(2024, time.February, 15)) {
		t.Errorf("next = %s, want 2024-02-15", next)
	}
}

func TestNextPeriodStart_InvalidFrequency(t *testing.T) {
	_, err := schedule.NextPeriodStart(date(2024, time.January, 1), schedule.Frequency(""))
	if !errors.Is(err, schedule.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestParseFrequency(t *testing.T) {
	for _, f := range schedule.Frequencies() {
		parsed, err := schedule.ParseFrequency(string(f))
		if err != nil {
			t.Errorf("ParseFrequency(%q): %v", f, err)
		}
		if parsed != f {
			t.Errorf("ParseFrequency(%q) = %q", f, parsed)
		}
	}

	if _, err := schedule.ParseFrequency("hourly"); !errors.Is(err, schedule.ErrInvalidFrequency) {
		t.Errorf("expected ErrInvalidFrequency for unknown value, got %v", err)
	}
}
