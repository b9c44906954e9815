/*
handlers.go - HTTP API handlers for the lease payment scheduler

PURPOSE:
  Exposes the scheduling engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Leases:
    GET    /api/leases                   List leases
    POST   /api/leases                   Create lease
    GET    /api/leases/{id}              Get lease

  Scheduling:
    GET    /api/leases/{id}/periods      Selectable billing periods
                                         (?until=2006-01-02, default +1 year)
    GET    /api/leases/{id}/status       Current-period status triple

  Ledger:
    GET    /api/leases/{id}/payments     Recorded payments
    POST   /api/leases/{id}/payments     Record selected periods as paid
    GET    /api/leases/{id}/summary      Ledger totals

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input (dates, amounts, frequency)
  - 404: Lease not found
  - 409: Duplicate period
  - 422: Scheduling-rule failures, with every validator message
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - lease/ledger.go: Recording rules
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  lease.Store
	Ledger *lease.Ledger

	// One status monitor per lease with a displayed current period.
	// Created lazily on the first status request, refreshed hourly,
	// stopped via StopMonitors on shutdown.
	mu       sync.Mutex
	monitors map[string]*schedule.Monitor
}

// NewHandler creates a new handler with the given store.
func NewHandler(store lease.Store) *Handler {
	return &Handler{
		Store:    store,
		Ledger:   lease.NewLedger(store),
		monitors: make(map[string]*schedule.Monitor),
	}
}

// StopMonitors tears down every running status monitor. Must run on
// shutdown so no ticker goroutine outlives the server.
func (h *Handler) StopMonitors() {
	h.mu.Lock()
	monitors := h.monitors
	h.monitors = make(map[string]*schedule.Monitor)
	h.mu.Unlock()

	for id, m := range monitors {
		m.Stop()
		log.Printf("[Server] Stopped status monitor for lease %s", id)
	}
}

// =============================================================================
// LEASE HANDLERS
// =============================================================================

// ListLeases returns all leases.
func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := h.Store.ListLeases(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]LeaseDTO, len(leases))
	for i, l := range leases {
		dtos[i] = toLeaseDTO(l)
	}
	respondJSON(w, http.StatusOK, dtos)
}

// CreateLease registers a new lease.
func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Tenant == "" {
		respondError(w, http.StatusBadRequest, "tenant is required")
		return
	}

	rent, err := decimal.NewFromString(req.RentAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rent_amount: "+req.RentAmount)
		return
	}
	frequency, err := schedule.ParseFrequency(req.Frequency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	firstStart, err := schedule.ParseDate(req.FirstRentStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid first_rent_start: "+req.FirstRentStart)
		return
	}

	l := lease.Lease{
		ID:             uuid.NewString(),
		Tenant:         req.Tenant,
		Unit:           req.Unit,
		RentAmount:     rent,
		Frequency:      frequency,
		FirstRentStart: firstStart,
		CreatedAt:      time.Now(),
	}
	if err := h.Store.SaveLease(r.Context(), l); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, toLeaseDTO(l))
}

// GetLease returns a single lease.
func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toLeaseDTO(*l))
}

// =============================================================================
// SCHEDULING HANDLERS
// =============================================================================

// GetPeriods returns the selectable billing periods for a lease, skipping
// slots already covered by a recorded payment.
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	futureLimit := schedule.Today().AddYears(1)
	if until := r.URL.Query().Get("until"); until != "" {
		parsed, err := schedule.ParseDate(until)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid until date: "+until)
			return
		}
		futureLimit = parsed
	}

	payments, err := h.Store.ListPayments(r.Context(), l.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	periods, err := schedule.GenerateAvailablePeriods(
		l.FirstRentStart, l.Frequency, lease.Records(payments), l.RentAmount, futureLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GetStatus returns the live status triple for the lease's current period.
// The backing monitor is created on first request and refreshed hourly.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	period, recorded, err := h.Ledger.CurrentPeriod(r.Context(), l.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := h.monitorFor(l.ID, period, recorded).Snapshot()
	respondJSON(w, http.StatusOK, StatusDTO{
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		Progress:    snap.Progress,
		TimeLeft:    snap.TimeLeft,
		State:       string(snap.State),
		ComputedAt:  snap.ComputedAt.UTC().Format(time.RFC3339),
	})
}

// monitorFor returns the lease's status monitor, starting one if needed.
// An existing monitor is updated in place so a freshly recorded payment
// flips the state without waiting for the next tick.
func (h *Handler) monitorFor(leaseID string, period schedule.Period, recorded schedule.PaymentStatus) *schedule.Monitor {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.monitors[leaseID]; ok {
		m.Update(period, recorded)
		return m
	}
	m := schedule.NewMonitor(period, recorded)
	m.Start()
	h.monitors[leaseID] = m
	return m
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListPayments returns a lease's recorded payments, chronological.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	payments, err := h.Store.ListPayments(r.Context(), l.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	respondJSON(w, http.StatusOK, dtos)
}

// RecordPayment records the selected periods as paid, all-or-nothing.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Periods) == 0 {
		respondError(w, http.StatusBadRequest, "no periods selected")
		return
	}

	periods := make([]schedule.PaymentPeriod, len(req.Periods))
	for i, sel := range req.Periods {
		start, err := schedule.ParseDate(sel.Start)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid period start: "+sel.Start)
			return
		}
		end, err := schedule.ParseDate(sel.End)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid period end: "+sel.End)
			return
		}
		amount, err := decimal.NewFromString(sel.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid amount: "+sel.Amount)
			return
		}
		periods[i] = schedule.PaymentPeriod{
			Period: schedule.Period{Start: start, End: end},
			Status: schedule.StatusPending,
			Amount: amount,
		}
	}

	recorded, err := h.Ledger.RecordPayments(r.Context(), l.ID, periods)
	if err != nil {
		var vErr *lease.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:    "payment validation failed",
				Messages: vErr.Messages,
			})
		case errors.Is(err, lease.ErrDuplicatePeriod):
			respondError(w, http.StatusConflict, err.Error())
		case schedule.IsClientError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	dtos := make([]PaymentDTO, len(recorded))
	for i, p := range recorded {
		dtos[i] = toPaymentDTO(p)
	}
	respondJSON(w, http.StatusCreated, dtos)
}

// GetSummary returns ledger totals for a lease.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	payments, err := h.Store.ListPayments(r.Context(), l.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toSummaryDTO(lease.Summarize(payments)))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadLease(w http.ResponseWriter, r *http.Request) (*lease.Lease, bool) {
	id := chi.URLParam(r, "id")
	l, err := h.Store.GetLease(r.Context(), id)
	if err != nil {
		if errors.Is(err, lease.ErrLeaseNotFound) {
			respondError(w, http.StatusNotFound, "lease not found: "+id)
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return l, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}
