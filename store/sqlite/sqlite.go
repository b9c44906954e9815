/*
Package sqlite provides a SQLite-backed implementation of lease.Store.

PURPOSE:
  Persists leases and their payment ledger. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The payments table is append-only:
  - No UPDATE statements on payments
  - No DELETE statements on payments
  - A UNIQUE(lease_id, period_start) index rejects a second payment for
    the same billing period at the database level, backing up the
    overlap validation done in lease.Ledger

DATE STORAGE:
  Period boundaries are stored as "2006-01-02" TEXT, amounts as decimal
  TEXT. Lexicographic order on the date format matches chronological
  order, so ORDER BY period_start needs no conversion.

WAL MODE:
  Opened with WAL (Write-Ahead Logging): multiple readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/leases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := lease.NewLedger(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - lease/ledger.go: Store interface definition and recording rules
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/schedule"
)

// Store implements lease.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements lease.Store.
var _ lease.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS leases (
		id TEXT PRIMARY KEY,
		tenant TEXT NOT NULL,
		unit TEXT NOT NULL,
		rent_amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		first_rent_start TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Payments (append-only ledger)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		lease_id TEXT NOT NULL REFERENCES leases(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		status TEXT NOT NULL,
		amount TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);

	-- One payment per billing period per lease; also serves the
	-- per-lease chronological ledger reads
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_lease_period
		ON payments(lease_id, period_start);
	`

	_, err := s.db.Exec(schemaSQL)
	return err
}

// =============================================================================
// LEASES
// =============================================================================

func (s *Store) SaveLease(ctx context.Context, l lease.Lease) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leases (id, tenant, unit, rent_amount, frequency, first_rent_start, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant = excluded.tenant,
			unit = excluded.unit,
			rent_amount = excluded.rent_amount,
			frequency = excluded.frequency,
			first_rent_start = excluded.first_rent_start`,
		l.ID, l.Tenant, l.Unit, l.RentAmount.String(), string(l.Frequency),
		l.FirstRentStart.String(), l.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetLease(ctx context.Context, id string) (*lease.Lease, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant, unit, rent_amount, frequency, first_rent_start, created_at
		FROM leases WHERE id = ?`, id)

	l, err := scanLease(row)
	if err == sql.ErrNoRows {
		return nil, lease.ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) ListLeases(ctx context.Context) ([]lease.Lease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant, unit, rent_amount, frequency, first_rent_start, created_at
		FROM leases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []lease.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, *l)
	}
	return leases, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLease(row scanner) (*lease.Lease, error) {
	var l lease.Lease
	var rent, freq, firstStart, createdAt string

	if err := row.Scan(&l.ID, &l.Tenant, &l.Unit, &rent, &freq, &firstStart, &createdAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(rent)
	if err != nil {
		return nil, fmt.Errorf("corrupt rent_amount %q: %w", rent, err)
	}
	l.RentAmount = amount

	frequency, err := schedule.ParseFrequency(freq)
	if err != nil {
		return nil, err
	}
	l.Frequency = frequency

	if l.FirstRentStart, err = schedule.ParseDate(firstStart); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// =============================================================================
// PAYMENTS (append-only)
// =============================================================================

func (s *Store) AppendPayment(ctx context.Context, p lease.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, lease_id, period_start, period_end, status, amount, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.LeaseID, p.PeriodStart.String(), p.PeriodEnd.String(),
		string(p.Status), p.Amount.String(), p.RecordedAt.UTC().Format(time.RFC3339),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return lease.ErrDuplicatePeriod
	}
	return err
}

func (s *Store) ListPayments(ctx context.Context, leaseID string) ([]lease.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lease_id, period_start, period_end, status, amount, recorded_at
		FROM payments WHERE lease_id = ? ORDER BY period_start`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []lease.Payment
	for rows.Next() {
		var p lease.Payment
		var start, end, status, amount, recordedAt string

		if err := rows.Scan(&p.ID, &p.LeaseID, &start, &end, &status, &amount, &recordedAt); err != nil {
			return nil, err
		}
		if p.PeriodStart, err = schedule.ParseDate(start); err != nil {
			return nil, err
		}
		if p.PeriodEnd, err = schedule.ParseDate(end); err != nil {
			return nil, err
		}
		p.Status = schedule.PaymentStatus(status)
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
		}
		if p.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
