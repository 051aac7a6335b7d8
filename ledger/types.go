/*
Package ledger provides the labour wage ledger and its reconciliation engine.

PURPOSE:
  A labour (worker) accumulates a running balance from two interleaved event
  streams: work entries credit the balance, payments debit it. Every work
  entry records the balance before and after it, and the labour record
  carries a denormalized copy of the latest balance (the "mirror").
  This package keeps all of those values consistent after any insert,
  edit or delete, including backdated ones.

KEY CONCEPTS IN THIS FILE (types.go):
  - Labour: the worker record, with opening balance and mirror balance
  - Event: a WorkEntry or a Payment (tagged by Kind)
  - AttendanceStatus: present / absent / half-day

CANONICAL ORDER:
  Events of one labour are ordered by:
    1. Date ascending
    2. WorkEntry before Payment on the same date
    3. CreatedAt ascending, then ID (stable tie-break)

MONEY:
  All amounts are decimal.Decimal. No floats anywhere in the ledger.

SEE ALSO:
  - reconcile.go: The pure recomputation engine
  - coordinator.go: Insert/edit/delete orchestration
  - recalc.go: Batch rebuild of whole ledgers
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LabourID string
type EventID string

// =============================================================================
// LABOUR
// =============================================================================

// Labour is a worker whose wages and payments are tracked.
//
// Balance is a mirror: it always equals the running balance after the
// chronologically last event, or OpeningBalance when there are no events.
type Labour struct {
	ID             LabourID
	Name           string
	Phone          string
	Active         bool
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// =============================================================================
// EVENTS
// =============================================================================

type EventKind string

const (
	KindWork    EventKind = "work"
	KindPayment EventKind = "payment"
)

// rank orders kinds on the same date: work entries first.
func (k EventKind) rank() int {
	if k == KindWork {
		return 0
	}
	return 1
}

func (k EventKind) Valid() bool {
	return k == KindWork || k == KindPayment
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half-day"
)

func (a AttendanceStatus) Valid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay:
		return true
	}
	return false
}

// Event is a ledger event: either a work entry or a payment.
//
// Fields in the "work entry" block are only meaningful when Kind is
// KindWork, fields in the "payment" block only when Kind is KindPayment.
// Payments carry no stored balance; the running value flows through them.
type Event struct {
	ID       EventID
	LabourID LabourID
	Kind     EventKind
	Date     Date
	Amount   decimal.Decimal

	// work entry
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	Attendance      AttendanceStatus
	WorkType        string
	Category        string
	Subcategory     string
	Notes           string

	// payment
	Mode      string
	Narration string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Event) IsWork() bool    { return e.Kind == KindWork }
func (e Event) IsPayment() bool { return e.Kind == KindPayment }

// Delta is the signed effect of the event on the running balance.
func (e Event) Delta() decimal.Decimal {
	if e.IsPayment() {
		return e.Amount.Neg()
	}
	return e.Amount
}

// =============================================================================
// READ MODELS
// =============================================================================

// StatementLine is one event with the running balance after it.
type StatementLine struct {
	Event        Event
	BalanceAfter decimal.Decimal
}

// Summary aggregates a labour's ledger.
type Summary struct {
	LabourID       LabourID
	OpeningBalance decimal.Decimal
	TotalWork      decimal.Decimal
	TotalPaid      decimal.Decimal
	Entries        int
	Payments       int
	Balance        decimal.Decimal
}
