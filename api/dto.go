/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: dates travel
  as "2006-01-02" strings, amounts as decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Input parsing (dates, amounts, frequencies) happens in handlers; the
  scheduling business rules run in lease.Ledger. DTOs are pure carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/schedule"
)

// =============================================================================
// LEASES
// =============================================================================

// LeaseDTO represents a lease in API responses.
type LeaseDTO struct {
	ID             string `json:"id"`
	Tenant         string `json:"tenant"`
	Unit           string `json:"unit"`
	RentAmount     string `json:"rent_amount"`
	Frequency      string `json:"frequency"`
	FirstRentStart string `json:"first_rent_start"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateLeaseRequest is the request to create a lease.
type CreateLeaseRequest struct {
	Tenant         string `json:"tenant"`
	Unit           string `json:"unit"`
	RentAmount     string `json:"rent_amount"`
	Frequency      string `json:"frequency"`
	FirstRentStart string `json:"first_rent_start"`
}

func toLeaseDTO(l lease.Lease) LeaseDTO {
	return LeaseDTO{
		ID:             l.ID,
		Tenant:         l.Tenant,
		Unit:           l.Unit,
		RentAmount:     l.RentAmount.String(),
		Frequency:      string(l.Frequency),
		FirstRentStart: l.FirstRentStart.String(),
		CreatedAt:      l.CreatedAt.Format("2006-01-02"),
	}
}

// =============================================================================
// PERIODS & PAYMENTS
// =============================================================================

// PeriodDTO is one selectable billing period.
type PeriodDTO struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
	Amount string `json:"amount"`
	Paid   bool   `json:"is_paid"`
}

func toPeriodDTO(p schedule.PaymentPeriod) PeriodDTO {
	return PeriodDTO{
		Start:  p.Start.String(),
		End:    p.End.String(),
		Status: string(p.Status),
		Amount: p.Amount.String(),
		Paid:   p.Paid,
	}
}

// RecordPaymentRequest records one or more selected periods as paid.
type RecordPaymentRequest struct {
	Periods []SelectedPeriod `json:"periods"`
}

// SelectedPeriod is a period the client picked for payment.
type SelectedPeriod struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Amount string `json:"amount"`
}

// PaymentDTO represents a recorded payment.
type PaymentDTO struct {
	ID          string `json:"id"`
	LeaseID     string `json:"lease_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	RecordedAt  string `json:"recorded_at"`
}

func toPaymentDTO(p lease.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		LeaseID:     p.LeaseID,
		PeriodStart: p.PeriodStart.String(),
		PeriodEnd:   p.PeriodEnd.String(),
		Status:      string(p.Status),
		Amount:      p.Amount.String(),
		RecordedAt:  p.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SummaryDTO aggregates a lease's ledger.
type SummaryDTO struct {
	Payments       int            `json:"payments"`
	TotalCollected string         `json:"total_collected"`
	ByStatus       map[string]int `json:"by_status"`
	LastPaidEnd    string         `json:"last_paid_end,omitempty"`
}

func toSummaryDTO(s lease.Summary) SummaryDTO {
	dto := SummaryDTO{
		Payments:       s.Payments,
		TotalCollected: s.TotalCollected.String(),
		ByStatus:       make(map[string]int, len(s.ByStatus)),
	}
	for status, n := range s.ByStatus {
		dto.ByStatus[string(status)] = n
	}
	if s.LastPaidEnd != nil {
		dto.LastPaidEnd = s.LastPaidEnd.String()
	}
	return dto
}

// =============================================================================
// STATUS
// =============================================================================

// StatusDTO is the current-period status triple plus the period boundaries.
type StatusDTO struct {
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Progress    float64 `json:"progress"`
	TimeLeft    string  `json:"time_left"`
	State       string  `json:"state"`
	ComputedAt  string  `json:"computed_at"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}
