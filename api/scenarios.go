/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the ledger with realistic
	data for demos. Every scenario goes through the coordinator, so the
	stored balances are exactly what the API would have produced.

AVAILABLE SCENARIOS:

	backdated-payment: Two work days and a payment recorded out of order
	weekly-wages:      A six-day week with a half day, an absence and a Saturday payout
	site-crew:         Three labours with opening balances and advances

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "weekly-wages"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/labour-ledger/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "backdated-payment",
		Name:        "Backdated Payment",
		Description: "Entries on Jan 1 and Jan 3, then a payment dated Jan 2 that cascades into Jan 3",
	},
	{
		ID:          "weekly-wages",
		Name:        "Weekly Wages",
		Description: "Monday to Saturday with a half day and an absence, paid out on Saturday",
	},
	{
		ID:          "site-crew",
		Name:        "Site Crew",
		Description: "Three labours with opening balances, advances and a mid-week edit",
	},
}

var loaders = map[string]func(ctx context.Context, c *ledger.Coordinator) error{
	"backdated-payment": loadBackdatedPayment,
	"weekly-wages":      loadWeeklyWages,
	"site-crew":         loadSiteCrew,
}

// =============================================================================
// HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": current})
}

// LoadScenario wipes the store and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	load, ok := loaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := load(ctx, h.Ledger); err != nil {
		h.writeLedgerError(w, r, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.Logger.InfoContext(ctx, "scenario loaded", "scenario_id", req.ScenarioID)

	labours, err := h.Ledger.ListLabours(ctx, false)
	if err != nil {
		h.writeLedgerError(w, r, "Failed to list labours", err)
		return
	}
	dtos := make([]LabourDTO, len(labours))
	for i, l := range labours {
		dtos[i] = toLabourDTO(l)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario_id": req.ScenarioID,
		"labours":     dtos,
	})
}

func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOADERS
// =============================================================================

// day is one row of a scenario: a work entry when attendance is set,
// a payment otherwise.
type day struct {
	date       string
	amount     string
	attendance ledger.AttendanceStatus
	workType   string
	mode       string
	narration  string
}

func apply(ctx context.Context, c *ledger.Coordinator, id ledger.LabourID, days []day) error {
	for _, d := range days {
		date, err := ledger.ParseDate(d.date)
		if err != nil {
			return err
		}
		amount := decimal.RequireFromString(d.amount)

		if d.attendance == "" {
			_, err = c.ApplyPayment(ctx, ledger.PaymentInput{
				LabourID:  id,
				Date:      date,
				Amount:    &amount,
				Mode:      d.mode,
				Narration: d.narration,
			})
		} else {
			in := ledger.EntryInput{
				LabourID:   id,
				Date:       date,
				Amount:     &amount,
				Attendance: d.attendance,
			}
			if d.attendance != ledger.AttendanceAbsent {
				in.WorkType = d.workType
				in.Category = "construction"
				in.Subcategory = d.workType
			}
			_, err = c.ApplyEntry(ctx, in)
		}
		if err != nil {
			return fmt.Errorf("scenario day %s: %w", d.date, err)
		}
	}
	return nil
}

func loadBackdatedPayment(ctx context.Context, c *ledger.Coordinator) error {
	l, err := c.CreateLabour(ctx, ledger.LabourInput{Name: "Ramesh Kumar", Phone: "9800000001"})
	if err != nil {
		return err
	}
	return apply(ctx, c, l.ID, []day{
		{date: "2024-01-01", amount: "100", attendance: ledger.AttendancePresent, workType: "masonry"},
		{date: "2024-01-03", amount: "50", attendance: ledger.AttendanceHalfDay, workType: "masonry"},
		{date: "2024-01-02", amount: "40", mode: "cash", narration: "advance"},
	})
}

func loadWeeklyWages(ctx context.Context, c *ledger.Coordinator) error {
	l, err := c.CreateLabour(ctx, ledger.LabourInput{Name: "Sunita Devi", Phone: "9800000002"})
	if err != nil {
		return err
	}
	return apply(ctx, c, l.ID, []day{
		{date: "2024-01-08", amount: "650", attendance: ledger.AttendancePresent, workType: "plastering"},
		{date: "2024-01-09", amount: "650", attendance: ledger.AttendancePresent, workType: "plastering"},
		{date: "2024-01-10", amount: "325", attendance: ledger.AttendanceHalfDay, workType: "plastering"},
		{date: "2024-01-11", amount: "0", attendance: ledger.AttendanceAbsent},
		{date: "2024-01-12", amount: "650", attendance: ledger.AttendancePresent, workType: "plastering"},
		{date: "2024-01-13", amount: "650", attendance: ledger.AttendancePresent, workType: "plastering"},
		{date: "2024-01-13", amount: "2500", mode: "upi", narration: "weekly payout"},
	})
}

func loadSiteCrew(ctx context.Context, c *ledger.Coordinator) error {
	crew := []struct {
		name    string
		phone   string
		opening string
		days    []day
	}{
		{"Mohan Lal", "9800000003", "1200", []day{
			{date: "2024-02-05", amount: "800", attendance: ledger.AttendancePresent, workType: "carpentry"},
			{date: "2024-02-06", amount: "800", attendance: ledger.AttendancePresent, workType: "carpentry"},
			{date: "2024-02-07", amount: "2000", mode: "bank", narration: "settled old dues"},
		}},
		{"Asha Bai", "9800000004", "-500", []day{
			{date: "2024-02-05", amount: "600", attendance: ledger.AttendancePresent, workType: "helper"},
			{date: "2024-02-06", amount: "300", attendance: ledger.AttendanceHalfDay, workType: "helper"},
			{date: "2024-02-06", amount: "200", mode: "cash", narration: "advance"},
		}},
		{"Imran Khan", "9800000005", "0", []day{
			{date: "2024-02-05", amount: "900", attendance: ledger.AttendancePresent, workType: "electrical"},
			{date: "2024-02-07", amount: "900", attendance: ledger.AttendancePresent, workType: "electrical"},
		}},
	}

	for _, member := range crew {
		l, err := c.CreateLabour(ctx, ledger.LabourInput{
			Name:           member.name,
			Phone:          member.phone,
			OpeningBalance: decimal.RequireFromString(member.opening),
		})
		if err != nil {
			return err
		}
		if err := apply(ctx, c, l.ID, member.days); err != nil {
			return err
		}
	}

	// Correct a rate after the fact; the later entry cascades.
	imran, err := findLabour(ctx, c, "Imran Khan")
	if err != nil {
		return err
	}
	lines, err := c.Statement(ctx, imran, nil)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	rate := decimal.NewFromInt(950)
	_, err = c.EditEvent(ctx, lines[0].Event.ID, ledger.EventPatch{Amount: &rate})
	return err
}

func findLabour(ctx context.Context, c *ledger.Coordinator, name string) (ledger.LabourID, error) {
	labours, err := c.ListLabours(ctx, false)
	if err != nil {
		return "", err
	}
	for _, l := range labours {
		if l.Name == name {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ledger.ErrLabourNotFound, name)
}
