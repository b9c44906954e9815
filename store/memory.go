// Package store provides lease.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/lease-engine/lease"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	leases   map[string]lease.Lease
	payments map[string][]lease.Payment // keyed by lease ID, sorted by period start
}

func NewMemory() *Memory {
	return &Memory{
		leases:   make(map[string]lease.Lease),
		payments: make(map[string][]lease.Payment),
	}
}

func (m *Memory) SaveLease(_ context.Context, l lease.Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leases[l.ID] = l
	return nil
}

func (m *Memory) GetLease(_ context.Context, id string) (*lease.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.leases[id]
	if !ok {
		return nil, lease.ErrLeaseNotFound
	}
	return &l, nil
}

func (m *Memory) ListLeases(_ context.Context) ([]lease.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]lease.Lease, 0, len(m.leases))
	for _, l := range m.leases {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// AppendPayment adds a payment record. Append-only; a payment whose period
// starts on an already-recorded day for the lease is rejected.
func (m *Memory) AppendPayment(_ context.Context, p lease.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payments := m.payments[p.LeaseID]

	// Binary search for insertion point keeps the ledger sorted on write.
	i := sort.Search(len(payments), func(i int) bool {
		return payments[i].PeriodStart.After(p.PeriodStart)
	})
	if i > 0 && payments[i-1].PeriodStart.Equal(p.PeriodStart) {
		return lease.ErrDuplicatePeriod
	}

	payments = append(payments, lease.Payment{})
	copy(payments[i+1:], payments[i:])
	payments[i] = p
	m.payments[p.LeaseID] = payments
	return nil
}

func (m *Memory) ListPayments(_ context.Context, leaseID string) ([]lease.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]lease.Payment, len(m.payments[leaseID]))
	copy(result, m.payments[leaseID])
	return result, nil
}
