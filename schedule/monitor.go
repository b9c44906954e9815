/*
monitor.go - Timer-driven refresh of the current-period status

PURPOSE:
  Keeps one period's StatusSnapshot fresh for as long as that period is
  displayed. Recomputes immediately on Start and on every input change,
  then on a fixed cadence (default: 1 hour). Polling, not event-driven:
  the only external signal is elapsed wall-clock time, which has no event
  source.

LIFECYCLE:
  m := NewMonitor(period, recorded)
  m.Start()
  ... m.Snapshot() ...
  m.Stop()            // must run on every exit path; stops the ticker

  Stop is idempotent and safe to call before Start. A stopped monitor
  leaks no goroutine and no ticker.

SEE ALSO:
  - status.go: DeriveStatus, the pure recomputation
*/
package schedule

import (
	"log"
	"sync"
	"time"
)

// Monitor owns the recurring status recomputation for a single period.
type Monitor struct {
	Interval time.Duration
	// Now is the clock source; overridable in tests. Defaults to time.Now.
	Now func() time.Time
	// OnUpdate, if set, is invoked with every fresh snapshot.
	OnUpdate func(StatusSnapshot)

	mu       sync.Mutex
	period   Period
	recorded PaymentStatus
	latest   StatusSnapshot

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewMonitor creates a monitor for the given period. recorded is the
// period's payment status if a payment exists, or the empty string.
func NewMonitor(period Period, recorded PaymentStatus) *Monitor {
	return &Monitor{
		Interval: 1 * time.Hour,
		Now:      time.Now,
		period:   period,
		recorded: recorded,
	}
}

// Start computes an initial snapshot and begins the recurring refresh.
// Starting an already-running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.ticker = time.NewTicker(m.Interval)
	m.stop = make(chan struct{})
	m.mu.Unlock()

	m.recompute()

	m.wg.Add(1)
	go m.run()
}

// Stop tears down the ticker and waits for the refresh goroutine to exit.
// Safe to call multiple times or before Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.ticker.Stop()
	close(m.stop)
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Monitor) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ticker.C:
			m.recompute()
		case <-m.stop:
			return
		}
	}
}

// Update replaces the monitored period and payment status, recomputing
// immediately. Used when the displayed period changes or a payment lands.
func (m *Monitor) Update(period Period, recorded PaymentStatus) {
	m.mu.Lock()
	m.period = period
	m.recorded = recorded
	m.mu.Unlock()

	m.recompute()
}

// Snapshot returns the most recently computed status triple.
func (m *Monitor) Snapshot() StatusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// RunNow forces an immediate recomputation (for testing/admin).
func (m *Monitor) RunNow() {
	m.recompute()
}

func (m *Monitor) recompute() {
	m.mu.Lock()
	period := m.period
	recorded := m.recorded
	now := m.Now()
	snap := DeriveStatus(period, recorded, now)
	changed := snap.State != m.latest.State && !m.latest.ComputedAt.IsZero()
	m.latest = snap
	onUpdate := m.OnUpdate
	m.mu.Unlock()

	if changed {
		log.Printf("[Monitor] Period %s state changed to %s", period, snap.State)
	}
	if onUpdate != nil {
		onUpdate(snap)
	}
}
