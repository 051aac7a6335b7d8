/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Amounts are decimal strings ("150.50"), never floats. Dates are
  YYYY-MM-DD; timestamps are RFC3339.

VALIDATION:
  Field validation happens in the ledger package. Handlers only reject
  bodies that cannot be decoded or dates that cannot be parsed.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Domain model
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/labour-ledger/ledger"
)

// =============================================================================
// LABOURS
// =============================================================================

type LabourDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Active         bool            `json:"active"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      string          `json:"created_at,omitempty"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
}

type CreateLabourRequest struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type OpeningBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BalanceDTO struct {
	LabourID string          `json:"labour_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// =============================================================================
// EVENTS
// =============================================================================

// EventDTO is a work entry or a payment. Balance fields are only set on
// work entries.
type EventDTO struct {
	ID              string           `json:"id"`
	LabourID        string           `json:"labour_id"`
	Kind            string           `json:"kind"`
	Date            string           `json:"date"`
	Amount          decimal.Decimal  `json:"amount"`
	PreviousBalance *decimal.Decimal `json:"previous_balance,omitempty"`
	NewBalance      *decimal.Decimal `json:"new_balance,omitempty"`
	Attendance      string           `json:"attendance,omitempty"`
	WorkType        string           `json:"work_type,omitempty"`
	Category        string           `json:"category,omitempty"`
	Subcategory     string           `json:"subcategory,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Mode            string           `json:"mode,omitempty"`
	Narration       string           `json:"narration,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
	UpdatedAt       string           `json:"updated_at,omitempty"`
}

// CreateEntryRequest records a day of work. An empty date means today;
// amount may only be left out when absent.
type CreateEntryRequest struct {
	Date        string           `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Attendance  string           `json:"attendance"`
	WorkType    string           `json:"work_type"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Notes       string           `json:"notes"`
}

// CreatePaymentRequest records a payment. An empty date means today.
type CreatePaymentRequest struct {
	Date      string           `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
	Mode      string           `json:"mode"`
	Narration string           `json:"narration"`
}

// PatchEventRequest changes only the fields present in the body.
type PatchEventRequest struct {
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Attendance  *string          `json:"attendance"`
	WorkType    *string          `json:"work_type"`
	Category    *string          `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Notes       *string          `json:"notes"`
	Mode        *string          `json:"mode"`
	Narration   *string          `json:"narration"`
}

// =============================================================================
// READ MODELS
// =============================================================================

type StatementLineDTO struct {
	EventDTO
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

type SummaryDTO struct {
	LabourID       string          `json:"labour_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalWork      decimal.Decimal `json:"total_work"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Entries        int             `json:"entries"`
	Payments       int             `json:"payments"`
	Balance        decimal.Decimal `json:"balance"`
}

type MismatchDTO struct {
	EventID          string          `json:"event_id"`
	Date             string          `json:"date"`
	StoredPrevious   decimal.Decimal `json:"stored_previous_balance"`
	StoredNew        decimal.Decimal `json:"stored_new_balance"`
	ExpectedPrevious decimal.Decimal `json:"expected_previous_balance"`
	ExpectedNew      decimal.Decimal `json:"expected_new_balance"`
}

type VerificationDTO struct {
	LabourID        string          `json:"labour_id"`
	Consistent      bool            `json:"consistent"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	Mismatches      []MismatchDTO   `json:"mismatches"`
}

// =============================================================================
// ADMIN
// =============================================================================

type RecalcResultDTO struct {
	LabourID        string          `json:"labour_id"`
	Seed            decimal.Decimal `json:"seed"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Balance         decimal.Decimal `json:"balance"`
	Changed         int             `json:"changed"`
	DryRun          bool            `json:"dry_run"`
	Error           string          `json:"error,omitempty"`
}

type RecalcResponse struct {
	SeedRule string            `json:"seed_rule"`
	DryRun   bool              `json:"dry_run"`
	Results  []RecalcResultDTO `json:"results"`
	Failed   int               `json:"failed"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLabourDTO(l ledger.Labour) LabourDTO {
	return LabourDTO{
		ID:             string(l.ID),
		Name:           l.Name,
		Phone:          l.Phone,
		Active:         l.Active,
		OpeningBalance: l.OpeningBalance,
		Balance:        l.Balance,
		CreatedAt:      formatTime(l.CreatedAt),
		UpdatedAt:      formatTime(l.UpdatedAt),
	}
}

func toEventDTO(e ledger.Event) EventDTO {
	dto := EventDTO{
		ID:        string(e.ID),
		LabourID:  string(e.LabourID),
		Kind:      string(e.Kind),
		Date:      e.Date.String(),
		Amount:    e.Amount,
		CreatedAt: formatTime(e.CreatedAt),
		UpdatedAt: formatTime(e.UpdatedAt),
	}
	if e.IsWork() {
		prev, next := e.PreviousBalance, e.NewBalance
		dto.PreviousBalance = &prev
		dto.NewBalance = &next
		dto.Attendance = string(e.Attendance)
		dto.WorkType = e.WorkType
		dto.Category = e.Category
		dto.Subcategory = e.Subcategory
		dto.Notes = e.Notes
	} else {
		dto.Mode = e.Mode
		dto.Narration = e.Narration
	}
	return dto
}

func toVerificationDTO(v ledger.Verification) VerificationDTO {
	dto := VerificationDTO{
		LabourID:        string(v.LabourID),
		Consistent:      v.Consistent(),
		StoredBalance:   v.StoredBalance,
		ExpectedBalance: v.ExpectedBalance,
		Mismatches:      make([]MismatchDTO, len(v.Mismatches)),
	}
	for i, m := range v.Mismatches {
		dto.Mismatches[i] = MismatchDTO{
			EventID:          string(m.EventID),
			Date:             m.Date.String(),
			StoredPrevious:   m.StoredPrevious,
			StoredNew:        m.StoredNew,
			ExpectedPrevious: m.ExpectedPrevious,
			ExpectedNew:      m.ExpectedNew,
		}
	}
	return dto
}

func toRecalcResultDTO(r ledger.RecalcResult) RecalcResultDTO {
	dto := RecalcResultDTO{
		LabourID:        string(r.LabourID),
		Seed:            r.Seed,
		PreviousBalance: r.PreviousBalance,
		Balance:         r.Balance,
		Changed:         r.Changed,
		DryRun:          r.DryRun,
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
