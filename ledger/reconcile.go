/*
reconcile.go - Pure running-balance recomputation

PURPOSE:
  Given a seed balance and an ordered list of events, recompute the
  previous/new balance of every work entry and return the final running
  balance. No I/O, no clock, no mutation of the input slice.

ALGORITHM:
  running := seed
  for each event in canonical order:
    work entry: previous := running; running += amount; new := running
    payment:    running -= amount

PROPERTIES:
  - Idempotent: same seed + same events = same output, every time.
  - Local: only events in the slice are touched; the caller decides the
    window (see coordinator.go).

SEEDING:
  The seed for a window starting at date D is the balance immediately
  before D. SeedBefore derives it from the last work entry before D (its
  stored NewBalance) minus the payments between that entry and D, or from
  the opening balance when no such entry exists.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Less reports whether a sorts before b in canonical ledger order.
func Less(a, b Event) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Kind != b.Kind {
		return a.Kind.rank() < b.Kind.rank()
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortEvents sorts events in place in canonical order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return Less(events[i], events[j]) })
}

// Reconcile recomputes work entry balances for an ordered event list.
// The input is not modified; updated copies are returned with the final
// running balance.
func Reconcile(seed decimal.Decimal, events []Event) ([]Event, decimal.Decimal) {
	out := make([]Event, len(events))
	running := seed
	for i, e := range events {
		switch e.Kind {
		case KindWork:
			e.PreviousBalance = running
			running = running.Add(e.Amount)
			e.NewBalance = running
		case KindPayment:
			running = running.Sub(e.Amount)
		}
		out[i] = e
	}
	return out, running
}

// Changed returns the work entries in after whose stored balances differ
// from the event with the same ID in before, or that are absent from before.
func Changed(before, after []Event) []Event {
	prev := make(map[EventID]Event, len(before))
	for _, e := range before {
		prev[e.ID] = e
	}
	var changed []Event
	for _, e := range after {
		if !e.IsWork() {
			continue
		}
		old, ok := prev[e.ID]
		if !ok || !old.PreviousBalance.Equal(e.PreviousBalance) || !old.NewBalance.Equal(e.NewBalance) {
			changed = append(changed, e)
		}
	}
	return changed
}

// SeedBefore computes the balance immediately before date from an anchor
// (the last work entry before date, may be nil) and the events loaded from
// the anchor's date onwards. Events on or after date are ignored.
func SeedBefore(opening decimal.Decimal, anchor *Event, events []Event, date Date) decimal.Decimal {
	seed := opening
	if anchor != nil {
		seed = anchor.NewBalance
	}
	for _, e := range events {
		if !e.Date.Before(date) {
			break
		}
		if anchor != nil && (e.ID == anchor.ID || Less(e, *anchor)) {
			continue
		}
		seed = seed.Add(e.Delta())
	}
	return seed
}

// Statement folds a full ordered ledger into lines carrying the running
// balance after each event.
func Statement(seed decimal.Decimal, events []Event) []StatementLine {
	lines := make([]StatementLine, 0, len(events))
	running := seed
	for _, e := range events {
		running = running.Add(e.Delta())
		lines = append(lines, StatementLine{Event: e, BalanceAfter: running})
	}
	return lines
}

// Mismatch is a work entry whose stored balances disagree with a recompute.
type Mismatch struct {
	EventID          EventID
	Date             Date
	StoredPrevious   decimal.Decimal
	StoredNew        decimal.Decimal
	ExpectedPrevious decimal.Decimal
	ExpectedNew      decimal.Decimal
}

// Verification is the result of checking one labour's ledger.
type Verification struct {
	LabourID        LabourID
	Mismatches      []Mismatch
	StoredBalance   decimal.Decimal
	ExpectedBalance decimal.Decimal
}

// Consistent reports whether every stored value matched the recompute.
func (v Verification) Consistent() bool {
	return len(v.Mismatches) == 0 && v.StoredBalance.Equal(v.ExpectedBalance)
}

// Verify recomputes a whole ledger from seed and compares it to what is stored.
func Verify(l Labour, seed decimal.Decimal, events []Event) Verification {
	updated, final := Reconcile(seed, events)
	v := Verification{
		LabourID:        l.ID,
		StoredBalance:   l.Balance,
		ExpectedBalance: final,
	}
	for i, e := range updated {
		if !e.IsWork() {
			continue
		}
		stored := events[i]
		if stored.PreviousBalance.Equal(e.PreviousBalance) && stored.NewBalance.Equal(e.NewBalance) {
			continue
		}
		v.Mismatches = append(v.Mismatches, Mismatch{
			EventID:          e.ID,
			Date:             e.Date,
			StoredPrevious:   stored.PreviousBalance,
			StoredNew:        stored.NewBalance,
			ExpectedPrevious: e.PreviousBalance,
			ExpectedNew:      e.NewBalance,
		})
	}
	return v
}
