/*
handlers.go - HTTP API handlers for the labour wage ledger

PURPOSE:
  Exposes the ledger coordinator via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the ledger
  package. No balance arithmetic happens here.

ENDPOINTS:
  Labours:
    GET    /api/labours                       List labours (?active=true)
    POST   /api/labours                       Create labour
    GET    /api/labours/{id}                  Get labour
    DELETE /api/labours/{id}                  Deactivate labour
    PUT    /api/labours/{id}/opening-balance  Change opening balance
    GET    /api/labours/{id}/balance          Mirror balance
    GET    /api/labours/{id}/statement        Events with running balance
    GET    /api/labours/{id}/summary          Totals
    GET    /api/labours/{id}/verify           Stored vs recomputed balances

  Events:
    POST   /api/labours/{id}/entries          Record work entry
    POST   /api/labours/{id}/payments         Record payment
    PATCH  /api/events/{id}                   Edit event
    DELETE /api/events/{id}                   Delete event

  Admin:
    POST   /api/admin/recalculate             Rebuild every ledger
    POST   /api/admin/recalculate/{id}        Rebuild one ledger

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Labour or event not found
  - 409: Duplicate work entry for a date
  - 500: Persistence and internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/labour-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Resetter wipes the backing store. Used by demo scenarios only.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *ledger.Coordinator
	Recalc *ledger.Recalculator
	Store  Resetter
	Logger *slog.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler. The recalculator must share the
// coordinator's locks.
func NewHandler(coord *ledger.Coordinator, recalc *ledger.Recalculator, store Resetter) *Handler {
	return &Handler{
		Ledger: coord,
		Recalc: recalc,
		Store:  store,
		Logger: slog.Default().With("component", "api"),
	}
}

// =============================================================================
// LABOUR HANDLERS
// =============================================================================

// ListLabours returns all labours, or only active ones with ?active=true.
func (h *Handler) ListLabours(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid active flag", err)
			return
		}
		activeOnly = b
	}

	labours, err := h.Ledger.ListLabours(r.Context(), activeOnly)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to list labours", err)
		return
	}

	dtos := make([]LabourDTO, len(labours))
	for i, l := range labours {
		dtos[i] = toLabourDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLabour(w http.ResponseWriter, r *http.Request) {
	var req CreateLabourRequest
	if !decode(w, r, &req) {
		return
	}

	l, err := h.Ledger.CreateLabour(r.Context(), ledger.LabourInput{
		Name:           req.Name,
		Phone:          req.Phone,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		h.writeLedgerError(w, r, "Failed to create labour", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLabourDTO(l))
}

func (h *Handler) GetLabour(w http.ResponseWriter, r *http.Request) {
	l, err := h.Ledger.GetLabour(r.Context(), labourID(r))
	if err != nil {
		h.writeLedgerError(w, r, "Failed to get labour", err)
		return
	}
	writeJSON(w, http.StatusOK, toLabourDTO(l))
}

// DeactivateLabour removes every event of the labour and marks it inactive.
func (h *Handler) DeactivateLabour(w http.ResponseWriter, r *http.Request) {
	l, err := h.Ledger.DeactivateLabour(r.Context(), labourID(r))
	if err != nil {
		h.writeLedgerError(w, r, "Failed to deactivate labour", err)
		return
	}
	writeJSON(w, http.StatusOK, toLabourDTO(l))
}

func (h *Handler) SetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	var req OpeningBalanceRequest
	if !decode(w, r, &req) {
		return
	}

	l, err := h.Ledger.SetOpeningBalance(r.Context(), labourID(r), req.Amount)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to set opening balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toLabourDTO(l))
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := labourID(r)
	balance, err := h.Ledger.GetBalance(r.Context(), id)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{LabourID: string(id), Balance: balance})
}

// GetStatement returns events with the running balance after each one.
// GET /api/labours/{id}/statement?from=YYYY-MM-DD
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	var from *ledger.Date
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := ledger.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = &d
	}

	lines, err := h.Ledger.Statement(r.Context(), labourID(r), from)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to build statement", err)
		return
	}

	dtos := make([]StatementLineDTO, len(lines))
	for i, line := range lines {
		dtos[i] = StatementLineDTO{EventDTO: toEventDTO(line.Event), BalanceAfter: line.BalanceAfter}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Ledger.Summary(r.Context(), labourID(r))
	if err != nil {
		h.writeLedgerError(w, r, "Failed to build summary", err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryDTO{
		LabourID:       string(s.LabourID),
		OpeningBalance: s.OpeningBalance,
		TotalWork:      s.TotalWork,
		TotalPaid:      s.TotalPaid,
		Entries:        s.Entries,
		Payments:       s.Payments,
		Balance:        s.Balance,
	})
}

func (h *Handler) VerifyLabour(w http.ResponseWriter, r *http.Request) {
	v, err := h.Ledger.Verify(r.Context(), labourID(r))
	if err != nil {
		h.writeLedgerError(w, r, "Failed to verify ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toVerificationDTO(v))
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// CreateEntry records a work entry and cascades later balances.
// POST /api/labours/{id}/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if !decode(w, r, &req) {
		return
	}
	date, ok := optionalDate(w, req.Date)
	if !ok {
		return
	}

	e, err := h.Ledger.ApplyEntry(r.Context(), ledger.EntryInput{
		LabourID:    labourID(r),
		Date:        date,
		Amount:      req.Amount,
		Attendance:  ledger.AttendanceStatus(req.Attendance),
		WorkType:    req.WorkType,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeLedgerError(w, r, "Failed to record work entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(e))
}

// CreatePayment records a payment and cascades later balances.
// POST /api/labours/{id}/payments
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !decode(w, r, &req) {
		return
	}
	date, ok := optionalDate(w, req.Date)
	if !ok {
		return
	}

	e, err := h.Ledger.ApplyPayment(r.Context(), ledger.PaymentInput{
		LabourID:  labourID(r),
		Date:      date,
		Amount:    req.Amount,
		Mode:      req.Mode,
		Narration: req.Narration,
	})
	if err != nil {
		h.writeLedgerError(w, r, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(e))
}

// EditEvent applies a partial update.
// PATCH /api/events/{id}
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	var req PatchEventRequest
	if !decode(w, r, &req) {
		return
	}

	patch := ledger.EventPatch{
		Amount:      req.Amount,
		WorkType:    req.WorkType,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Notes:       req.Notes,
		Mode:        req.Mode,
		Narration:   req.Narration,
	}
	if req.Date != nil {
		// An explicit empty date is passed through so the ledger rejects it.
		var d ledger.Date
		if *req.Date != "" {
			parsed, err := ledger.ParseDate(*req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
				return
			}
			d = parsed
		}
		patch.Date = &d
	}
	if req.Attendance != nil {
		a := ledger.AttendanceStatus(*req.Attendance)
		patch.Attendance = &a
	}

	e, err := h.Ledger.EditEvent(r.Context(), ledger.EventID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to edit event", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(e))
}

// DeleteEvent removes an event and cascades later balances.
// DELETE /api/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.DeleteEvent(r.Context(), ledger.EventID(chi.URLParam(r, "id"))); err != nil {
		h.writeLedgerError(w, r, "Failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// RecalculateAll rebuilds every ledger.
// POST /api/admin/recalculate?seed=opening|mirror&dry_run=true
func (h *Handler) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.recalculator(w, r)
	if !ok {
		return
	}

	results, err := rc.RecalculateAll(r.Context())
	if err != nil && len(results) == 0 {
		h.writeLedgerError(w, r, "Failed to recalculate", err)
		return
	}
	writeJSON(w, http.StatusOK, recalcResponse(rc, results))
}

// RecalculateLabour rebuilds one ledger.
// POST /api/admin/recalculate/{id}
func (h *Handler) RecalculateLabour(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.recalculator(w, r)
	if !ok {
		return
	}

	res, err := rc.RecalculateLabour(r.Context(), labourID(r))
	if err != nil {
		h.writeLedgerError(w, r, "Failed to recalculate", err)
		return
	}
	writeJSON(w, http.StatusOK, recalcResponse(rc, []ledger.RecalcResult{res}))
}

// recalculator returns a per-request copy carrying the query overrides.
func (h *Handler) recalculator(w http.ResponseWriter, r *http.Request) (*ledger.Recalculator, bool) {
	rc := *h.Recalc
	q := r.URL.Query()

	if v := q.Get("seed"); v != "" {
		rule, err := ledger.ParseSeedRule(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid seed rule", err)
			return nil, false
		}
		rc.Seed = rule
	}
	if v := q.Get("dry_run"); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dry_run flag", err)
			return nil, false
		}
		rc.DryRun = dry
	}
	return &rc, true
}

func recalcResponse(rc *ledger.Recalculator, results []ledger.RecalcResult) RecalcResponse {
	resp := RecalcResponse{
		SeedRule: string(rc.Seed),
		DryRun:   rc.DryRun,
		Results:  make([]RecalcResultDTO, len(results)),
	}
	for i, res := range results {
		resp.Results[i] = toRecalcResultDTO(res)
		if res.Err != nil {
			resp.Failed++
		}
	}
	return resp
}

// =============================================================================
// HELPERS
// =============================================================================

func labourID(r *http.Request) ledger.LabourID {
	return ledger.LabourID(chi.URLParam(r, "id"))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// optionalDate parses a YYYY-MM-DD date; empty means zero (today).
func optionalDate(w http.ResponseWriter, s string) (ledger.Date, bool) {
	if s == "" {
		return ledger.Date{}, true
	}
	d, err := ledger.ParseDate(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return ledger.Date{}, false
	}
	return d, true
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeLedgerError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message, "path", r.URL.Path, "error", err)
	}

	resp := ErrorResponse{Error: message, Details: err.Error()}
	var verr *ledger.ValidationError
	var derr *ledger.DuplicateEntryError
	switch {
	case errors.As(err, &verr):
		resp.Details = map[string]string{"field": verr.Field, "message": verr.Message}
	case errors.As(err, &derr):
		resp.Details = map[string]string{
			"labour_id":   string(derr.LabourID),
			"date":        derr.Date.String(),
			"existing_id": string(derr.ExistingID),
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
