package sqlstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labour-ledger/ledger"
	"github.com/warp/labour-ledger/store/sqlstore"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var t0 = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addLabour(t *testing.T, s *sqlstore.Store, id string) ledger.Labour {
	t.Helper()
	l := ledger.Labour{
		ID:             ledger.LabourID(id),
		Name:           "Labour " + id,
		Phone:          "98000",
		Active:         true,
		OpeningBalance: decimal.RequireFromString("12.50"),
		Balance:        decimal.RequireFromString("12.50"),
		CreatedAt:      t0,
		UpdatedAt:      t0,
	}
	require.NoError(t, s.CreateLabour(context.Background(), l))
	return l
}

func event(id, labour string, kind ledger.EventKind, date string, offset time.Duration) ledger.Event {
	e := ledger.Event{
		ID:        ledger.EventID(id),
		LabourID:  ledger.LabourID(labour),
		Kind:      kind,
		Date:      ledger.MustParseDate(date),
		Amount:    decimal.RequireFromString("100.25"),
		CreatedAt: t0.Add(offset),
		UpdatedAt: t0.Add(offset),
	}
	if kind == ledger.KindWork {
		e.Attendance = ledger.AttendancePresent
		e.WorkType = "masonry"
		e.Category = "construction"
		e.Subcategory = "brickwork"
	} else {
		e.Mode = "upi"
		e.Narration = "weekly"
	}
	return e
}

// =============================================================================
// LABOURS
// =============================================================================

func TestStore_LabourRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	l := addLabour(t, s, "lab-1")

	got, err := s.GetLabour(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)
	assert.True(t, got.Active)
	assert.True(t, got.OpeningBalance.Equal(l.OpeningBalance))
	assert.True(t, got.CreatedAt.Equal(t0))

	require.NoError(t, s.SetBalance(ctx, l.ID, decimal.RequireFromString("-3.75")))
	got, err = s.GetLabour(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "-3.75", got.Balance.StringFixed(2))

	got.Active = false
	require.NoError(t, s.UpdateLabour(ctx, *got))
	active, err := s.ListLabours(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := s.ListLabours(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.GetLabour(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrLabourNotFound)
	assert.ErrorIs(t, s.SetBalance(ctx, "missing", decimal.Zero), ledger.ErrLabourNotFound)
}

// =============================================================================
// EVENTS
// =============================================================================

func TestStore_EventsInCanonicalOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addLabour(t, s, "lab-1")

	for _, e := range []ledger.Event{
		event("p2", "lab-1", ledger.KindPayment, "2024-01-02", 2*time.Second),
		event("p1", "lab-1", ledger.KindPayment, "2024-01-02", time.Second),
		event("w2", "lab-1", ledger.KindWork, "2024-01-02", 3*time.Second),
		event("w1", "lab-1", ledger.KindWork, "2024-01-01", 0),
	} {
		require.NoError(t, s.InsertEvent(ctx, e))
	}

	events, err := s.EventsForLabour(ctx, "lab-1", nil)
	require.NoError(t, err)
	var ids []ledger.EventID
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []ledger.EventID{"w1", "w2", "p1", "p2"}, ids)

	from := ledger.MustParseDate("2024-01-02")
	events, err = s.EventsForLabour(ctx, "lab-1", &from)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	got, err := s.GetEvent(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "upi", got.Mode)
	assert.Equal(t, "100.25", got.Amount.String())
	assert.Equal(t, "2024-01-02", got.Date.String())
}

func TestStore_UniqueWorkEntryPerDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addLabour(t, s, "lab-1")

	require.NoError(t, s.InsertEvent(ctx, event("w1", "lab-1", ledger.KindWork, "2024-01-01", 0)))
	// Payments on the same date are fine.
	require.NoError(t, s.InsertEvent(ctx, event("p1", "lab-1", ledger.KindPayment, "2024-01-01", 0)))

	err := s.InsertEvent(ctx, event("w2", "lab-1", ledger.KindWork, "2024-01-01", time.Second))
	assert.ErrorIs(t, err, ledger.ErrDuplicateEntry)

	require.NoError(t, s.InsertEvent(ctx, event("w3", "lab-1", ledger.KindWork, "2024-01-02", 0)))
	moved := event("w3", "lab-1", ledger.KindWork, "2024-01-01", 0)
	assert.ErrorIs(t, s.UpdateEvent(ctx, moved), ledger.ErrDuplicateEntry)
}

func TestStore_LastEntryBeforeAndEntryOn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addLabour(t, s, "lab-1")

	require.NoError(t, s.InsertEvent(ctx, event("w1", "lab-1", ledger.KindWork, "2024-01-01", 0)))
	require.NoError(t, s.InsertEvent(ctx, event("p2", "lab-1", ledger.KindPayment, "2024-01-02", 0)))
	require.NoError(t, s.InsertEvent(ctx, event("w3", "lab-1", ledger.KindWork, "2024-01-03", 0)))

	last, err := s.LastEntryBefore(ctx, "lab-1", ledger.MustParseDate("2024-01-03"))
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, ledger.EventID("w1"), last.ID)

	none, err := s.LastEntryBefore(ctx, "lab-1", ledger.MustParseDate("2024-01-01"))
	require.NoError(t, err)
	assert.Nil(t, none)

	on, err := s.EntryOn(ctx, "lab-1", ledger.MustParseDate("2024-01-02"))
	require.NoError(t, err)
	assert.Nil(t, on, "payments are not work entries")
}

func TestStore_DeleteEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addLabour(t, s, "lab-1")
	addLabour(t, s, "lab-2")

	require.NoError(t, s.InsertEvent(ctx, event("w1", "lab-1", ledger.KindWork, "2024-01-01", 0)))
	require.NoError(t, s.InsertEvent(ctx, event("w2", "lab-1", ledger.KindWork, "2024-01-02", 0)))
	require.NoError(t, s.InsertEvent(ctx, event("x1", "lab-2", ledger.KindWork, "2024-01-01", 0)))

	require.NoError(t, s.DeleteEvent(ctx, "w1"))
	assert.ErrorIs(t, s.DeleteEvent(ctx, "w1"), ledger.ErrEventNotFound)

	require.NoError(t, s.DeleteLabourEvents(ctx, "lab-1"))
	events, err := s.EventsForLabour(ctx, "lab-1", nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	others, err := s.EventsForLabour(ctx, "lab-2", nil)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestStore_EventForUnknownLabour(t *testing.T) {
	s := newTestStore(t)
	err := s.InsertEvent(context.Background(), event("w1", "ghost", ledger.KindWork, "2024-01-01", 0))
	assert.ErrorIs(t, err, ledger.ErrLabourNotFound)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestStore_WithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addLabour(t, s, "lab-1")

	err := s.WithTx(ctx, func(tx ledger.Store) error {
		if err := tx.InsertEvent(ctx, event("w1", "lab-1", ledger.KindWork, "2024-01-01", 0)); err != nil {
			return err
		}
		// The transaction sees its own write.
		got, err := tx.GetEvent(ctx, "w1")
		if err != nil {
			return err
		}
		if got.ID != "w1" {
			return errors.New("unexpected event")
		}
		if err := tx.SetBalance(ctx, "lab-1", decimal.NewFromInt(500)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	_, err = s.GetEvent(ctx, "w1")
	assert.ErrorIs(t, err, ledger.ErrEventNotFound)
	l, err := s.GetLabour(ctx, "lab-1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", l.Balance.String())
}

// =============================================================================
// END TO END
// =============================================================================

func TestStore_CoordinatorScenario(t *testing.T) {
	// GIVEN: A labour at 0 on a SQLite store
	// WHEN: Entries on Jan 1 and Jan 3, a payment on Jan 2, then an edit of Jan 1
	// THEN: Stored balances and the mirror follow the cascade

	s := newTestStore(t)
	ctx := context.Background()

	coord := ledger.NewCoordinator(s)
	coord.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	l, err := coord.CreateLabour(ctx, ledger.LabourInput{Name: "Ramesh"})
	require.NoError(t, err)

	in := func(date, amount string) ledger.EntryInput {
		wage := decimal.RequireFromString(amount)
		return ledger.EntryInput{
			LabourID:    l.ID,
			Date:        ledger.MustParseDate(date),
			Amount:      &wage,
			Attendance:  ledger.AttendancePresent,
			WorkType:    "masonry",
			Category:    "construction",
			Subcategory: "brickwork",
		}
	}

	jan1, err := coord.ApplyEntry(ctx, in("2024-01-01", "100"))
	require.NoError(t, err)
	jan3, err := coord.ApplyEntry(ctx, in("2024-01-03", "50"))
	require.NoError(t, err)
	paid := decimal.NewFromInt(40)
	_, err = coord.ApplyPayment(ctx, ledger.PaymentInput{
		LabourID: l.ID,
		Date:     ledger.MustParseDate("2024-01-02"),
		Amount:   &paid,
	})
	require.NoError(t, err)

	got, err := s.GetEvent(ctx, jan3.ID)
	require.NoError(t, err)
	assert.Equal(t, "60", got.PreviousBalance.String())
	assert.Equal(t, "110", got.NewBalance.String())

	amount := decimal.NewFromInt(80)
	_, err = coord.EditEvent(ctx, jan1.ID, ledger.EventPatch{Amount: &amount})
	require.NoError(t, err)

	got, err = s.GetEvent(ctx, jan3.ID)
	require.NoError(t, err)
	assert.Equal(t, "40", got.PreviousBalance.String())
	assert.Equal(t, "90", got.NewBalance.String())

	balance, err := coord.GetBalance(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "90", balance.String())

	_, err = coord.ApplyEntry(ctx, in("2024-01-03", "10"))
	assert.ErrorIs(t, err, ledger.ErrDuplicateEntry)

	v, err := coord.Verify(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent())
}
