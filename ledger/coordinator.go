/*
coordinator.go - Insert/edit/delete orchestration

PURPOSE:
  The Coordinator is the only place that mutates a ledger. Callers never
  compute balances themselves; they submit an entry, a payment, an edit or
  a delete, and the coordinator keeps every stored balance and the labour's
  mirror consistent.

STATE MACHINE (per mutation):
  Validate -> Seed -> Recompute -> Persist -> MirrorUpdate -> Done
  Any stage may fail; a failed mutation leaves the store untouched.

  Validate:     Field checks (no reads), then existence/duplicate checks.
  Seed:         Balance immediately before the window start date.
  Recompute:    Apply the change in memory, run Reconcile over the window.
  Persist:      Write the target event and every work entry whose balances
                changed.
  MirrorUpdate: Labour.Balance := final running balance.

WINDOWS:
  Insert: from the new event's date.
  Edit:   from min(old date, new date).
  Delete: from the deleted event's date.
  Events dated before the window start are never touched.

ATOMICITY AND SERIALIZATION:
  Seed through MirrorUpdate run inside one TxStore.WithTx call, under the
  labour's lock. Concurrent mutations on the same labour are serialized;
  different labours proceed in parallel.
*/
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is the step of a mutation at which the store failed. Recompute
// is pure and cannot fail, so it has no stage.
type Stage string

const (
	StageValidate     Stage = "validate"
	StageSeed         Stage = "seed"
	StagePersist      Stage = "persist"
	StageMirrorUpdate Stage = "mirror_update"
)

// =============================================================================
// INPUTS
// =============================================================================

// EntryInput is a new work entry. A zero Date means today. Amount may
// only be omitted on an absent day.
type EntryInput struct {
	LabourID    LabourID
	Date        Date
	Amount      *decimal.Decimal
	Attendance  AttendanceStatus
	WorkType    string
	Category    string
	Subcategory string
	Notes       string
}

// PaymentInput is a new payment. A zero Date means today.
type PaymentInput struct {
	LabourID  LabourID
	Date      Date
	Amount    *decimal.Decimal
	Mode      string
	Narration string
}

// EventPatch holds the fields to change on an existing event. Nil fields
// are left as they are. Work-only fields on a payment (and the reverse)
// are rejected.
type EventPatch struct {
	Date        *Date
	Amount      *decimal.Decimal
	Attendance  *AttendanceStatus
	WorkType    *string
	Category    *string
	Subcategory *string
	Notes       *string
	Mode        *string
	Narration   *string
}

func (p EventPatch) hasWorkFields() bool {
	return p.Attendance != nil || p.WorkType != nil || p.Category != nil ||
		p.Subcategory != nil || p.Notes != nil
}

func (p EventPatch) hasPaymentFields() bool {
	return p.Mode != nil || p.Narration != nil
}

// =============================================================================
// COORDINATOR
// =============================================================================

type Coordinator struct {
	Store    TxStore
	Clock    Clock
	Locks    *LabourLocks
	Logger   *slog.Logger
	Notifier Notifier
	Metrics  Recorder
	NewID    func() string
}

func NewCoordinator(store TxStore) *Coordinator {
	return &Coordinator{
		Store:    store,
		Clock:    SystemClock{},
		Locks:    NewLabourLocks(),
		Logger:   slog.Default().With("component", "ledger"),
		Notifier: NopNotifier{},
		Metrics:  NopRecorder{},
		NewID:    uuid.NewString,
	}
}

// GetBalance returns the labour's mirror balance.
func (c *Coordinator) GetBalance(ctx context.Context, id LabourID) (decimal.Decimal, error) {
	l, err := c.Store.GetLabour(ctx, id)
	if err != nil {
		return decimal.Zero, storeErr(StageValidate, "get_labour", err)
	}
	return l.Balance, nil
}

// ApplyEntry records a work entry and cascades the balance forward.
// Returns *DuplicateEntryError if the labour already has a work entry that day.
func (c *Coordinator) ApplyEntry(ctx context.Context, in EntryInput) (Event, error) {
	if in.Date.IsZero() {
		in.Date = Today(c.Clock)
	}
	if in.Attendance == "" {
		in.Attendance = AttendancePresent
	}
	if err := validateEntry(in); err != nil {
		return Event{}, err
	}

	now := c.Clock.Now()
	ev := Event{
		ID:          EventID(c.NewID()),
		LabourID:    in.LabourID,
		Kind:        KindWork,
		Date:        in.Date,
		Amount:      amountOrZero(in.Amount),
		Attendance:  in.Attendance,
		WorkType:    in.WorkType,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return c.insert(ctx, OpInsertEntry, ev)
}

// ApplyPayment records a payment and cascades the balance forward.
func (c *Coordinator) ApplyPayment(ctx context.Context, in PaymentInput) (Event, error) {
	if in.Date.IsZero() {
		in.Date = Today(c.Clock)
	}
	if err := validatePayment(in); err != nil {
		return Event{}, err
	}

	now := c.Clock.Now()
	ev := Event{
		ID:        EventID(c.NewID()),
		LabourID:  in.LabourID,
		Kind:      KindPayment,
		Date:      in.Date,
		Amount:    *in.Amount,
		Mode:      in.Mode,
		Narration: in.Narration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return c.insert(ctx, OpInsertPayment, ev)
}

func (c *Coordinator) insert(ctx context.Context, op Operation, ev Event) (Event, error) {
	res, err := c.mutate(ctx, op, ev.LabourID, ev.ID, func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error) {
		if !l.Active {
			return Date{}, windowChange{}, invalid("labour_id", "labour %s is inactive", l.ID)
		}
		if ev.IsWork() {
			if err := c.checkDuplicate(ctx, s, ev.LabourID, ev.Date, ""); err != nil {
				return Date{}, windowChange{}, err
			}
		}
		return ev.Date, windowChange{insert: &ev}, nil
	})
	if err != nil {
		return Event{}, err
	}
	return res.target, nil
}

// EditEvent applies a patch to an event and cascades from the earlier of
// its old and new dates.
func (c *Coordinator) EditEvent(ctx context.Context, id EventID, patch EventPatch) (Event, error) {
	if err := validatePatch(patch); err != nil {
		return Event{}, err
	}

	// Resolve the owning labour before taking its lock.
	current, err := c.Store.GetEvent(ctx, id)
	if err != nil {
		return Event{}, storeErr(StageValidate, "get_event", err)
	}

	res, err := c.mutate(ctx, OpEdit, current.LabourID, id, func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error) {
		orig, err := s.GetEvent(ctx, id)
		if err != nil {
			return Date{}, windowChange{}, storeErr(StageValidate, "get_event", err)
		}
		edited, err := applyPatch(*orig, patch)
		if err != nil {
			return Date{}, windowChange{}, err
		}
		if edited.IsWork() && !edited.Date.Equal(orig.Date) {
			if err := c.checkDuplicate(ctx, s, edited.LabourID, edited.Date, edited.ID); err != nil {
				return Date{}, windowChange{}, err
			}
		}
		edited.UpdatedAt = c.Clock.Now()
		return MinDate(orig.Date, edited.Date), windowChange{update: &edited}, nil
	})
	if err != nil {
		return Event{}, err
	}
	return res.target, nil
}

// DeleteEvent removes an event and cascades from its date.
func (c *Coordinator) DeleteEvent(ctx context.Context, id EventID) error {
	current, err := c.Store.GetEvent(ctx, id)
	if err != nil {
		return storeErr(StageValidate, "get_event", err)
	}

	_, err = c.mutate(ctx, OpDelete, current.LabourID, id, func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error) {
		orig, err := s.GetEvent(ctx, id)
		if err != nil {
			return Date{}, windowChange{}, storeErr(StageValidate, "get_event", err)
		}
		return orig.Date, windowChange{remove: orig.ID}, nil
	})
	return err
}

func (c *Coordinator) checkDuplicate(ctx context.Context, s Store, labourID LabourID, date Date, self EventID) error {
	existing, err := s.EntryOn(ctx, labourID, date)
	if err != nil {
		return storeErr(StageValidate, "entry_on", err)
	}
	if existing != nil && existing.ID != self {
		return &DuplicateEntryError{LabourID: labourID, Date: date, ExistingID: existing.ID}
	}
	return nil
}

// =============================================================================
// CASCADE
// =============================================================================

// windowChange is the in-memory change applied to a window before
// recomputation. Exactly one field is set, or none for a pure recompute.
type windowChange struct {
	insert *Event
	update *Event
	remove EventID
}

type cascadeResult struct {
	previous decimal.Decimal
	balance  decimal.Decimal
	target   Event
	written  int
}

// planFunc runs inside the transaction after the labour is loaded. It
// performs the remaining validation and returns the window start and the
// change to apply.
type planFunc func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error)

func (c *Coordinator) mutate(ctx context.Context, op Operation, labourID LabourID, target EventID, plan planFunc) (cascadeResult, error) {
	start := time.Now()
	unlock := c.Locks.Lock(labourID)
	defer unlock()

	var res cascadeResult
	err := c.Store.WithTx(ctx, func(s Store) error {
		l, err := s.GetLabour(ctx, labourID)
		if err != nil {
			return storeErr(StageValidate, "get_labour", err)
		}
		from, change, err := plan(ctx, s, l)
		if err != nil {
			return err
		}
		res, err = c.cascade(ctx, s, *l, from, change)
		return err
	})

	c.Metrics.RecordMutation(op, res.written, time.Since(start), err)
	if err != nil {
		c.logFailure(ctx, op, labourID, target, err)
		return cascadeResult{}, err
	}

	c.Logger.DebugContext(ctx, "ledger mutation committed",
		"op", op,
		"labour_id", labourID,
		"event_id", target,
		"cascade", res.written,
		"balance", res.balance.String(),
	)
	c.notify(ctx, BalanceChange{
		LabourID:  labourID,
		Operation: op,
		EventID:   target,
		Previous:  res.previous,
		Balance:   res.balance,
		Cascade:   res.written,
		At:        c.Clock.Now(),
	})
	return res, nil
}

// cascade runs Seed, Recompute, Persist and MirrorUpdate for one window.
// It must be called inside a transaction with the labour locked.
func (c *Coordinator) cascade(ctx context.Context, s Store, l Labour, from Date, change windowChange) (cascadeResult, error) {
	res := cascadeResult{previous: l.Balance}

	// Seed
	seed, window, err := seedWindow(ctx, s, l, from)
	if err != nil {
		return res, err
	}

	// Recompute
	next := make([]Event, 0, len(window)+1)
	for _, e := range window {
		if change.update != nil && e.ID == change.update.ID {
			continue
		}
		if change.remove != "" && e.ID == change.remove {
			continue
		}
		next = append(next, e)
	}
	var targetID EventID
	switch {
	case change.insert != nil:
		next = append(next, *change.insert)
		targetID = change.insert.ID
	case change.update != nil:
		next = append(next, *change.update)
		targetID = change.update.ID
	}
	SortEvents(next)
	updated, final := Reconcile(seed, next)

	// Persist
	now := c.Clock.Now()
	switch {
	case change.insert != nil:
		res.target = findEvent(updated, targetID)
		if err := s.InsertEvent(ctx, res.target); err != nil {
			return res, storeErr(StagePersist, "insert_event", err)
		}
		res.written++
	case change.update != nil:
		res.target = findEvent(updated, targetID)
		if err := s.UpdateEvent(ctx, res.target); err != nil {
			return res, storeErr(StagePersist, "update_event", err)
		}
		res.written++
	case change.remove != "":
		if err := s.DeleteEvent(ctx, change.remove); err != nil {
			return res, storeErr(StagePersist, "delete_event", err)
		}
	}
	for _, e := range Changed(window, updated) {
		if e.ID == targetID {
			continue
		}
		e.UpdatedAt = now
		if err := s.UpdateEvent(ctx, e); err != nil {
			return res, storeErr(StagePersist, "update_event", err)
		}
		res.written++
	}

	// MirrorUpdate
	if err := s.SetBalance(ctx, l.ID, final); err != nil {
		return res, storeErr(StageMirrorUpdate, "set_balance", err)
	}
	res.balance = final
	return res, nil
}

// seedWindow returns the balance immediately before from and the ordered
// events dated from onwards. A zero from selects the whole ledger.
func seedWindow(ctx context.Context, s Store, l Labour, from Date) (decimal.Decimal, []Event, error) {
	anchor, err := s.LastEntryBefore(ctx, l.ID, from)
	if err != nil {
		return decimal.Zero, nil, storeErr(StageSeed, "last_entry_before", err)
	}
	var loadFrom *Date
	if anchor != nil {
		d := anchor.Date
		loadFrom = &d
	}
	loaded, err := s.EventsForLabour(ctx, l.ID, loadFrom)
	if err != nil {
		return decimal.Zero, nil, storeErr(StageSeed, "events_for_labour", err)
	}
	return SeedBefore(l.OpeningBalance, anchor, loaded, from), eventsFrom(loaded, from), nil
}

// eventsFrom returns the suffix of an ordered slice with date >= from.
func eventsFrom(events []Event, from Date) []Event {
	for i, e := range events {
		if !e.Date.Before(from) {
			return events[i:]
		}
	}
	return nil
}

func findEvent(events []Event, id EventID) Event {
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	return Event{}
}

// storeErr passes domain errors through and wraps everything else as a
// persistence failure at the given stage.
func storeErr(stage Stage, op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateEntry) || errors.Is(err, ErrValidation) {
		return err
	}
	return &PersistenceError{Stage: stage, Op: op, Err: err}
}

func (c *Coordinator) logFailure(ctx context.Context, op Operation, labourID LabourID, target EventID, err error) {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		c.Logger.ErrorContext(ctx, "ledger mutation failed",
			"op", op,
			"labour_id", labourID,
			"event_id", target,
			"stage", perr.Stage,
			"error", err,
		)
		return
	}
	c.Logger.InfoContext(ctx, "ledger mutation rejected",
		"op", op,
		"labour_id", labourID,
		"event_id", target,
		"error", err,
	)
}

func (c *Coordinator) notify(ctx context.Context, change BalanceChange) {
	if err := c.Notifier.BalanceChanged(ctx, change); err != nil {
		c.Logger.WarnContext(ctx, "balance change notification failed",
			"labour_id", change.LabourID,
			"op", change.Operation,
			"error", err,
		)
	}
}
