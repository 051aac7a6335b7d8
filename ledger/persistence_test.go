package ledger_test

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
	"go.uber.org/mock/gomock"

	"github.com/warp/labour-ledger/ledger"
	"github.com/warp/labour-ledger/ledger/store"
)

// =============================================================================
// STAGE REPORTING (gomock)
// =============================================================================

type recordingNotifier struct {
	changes []ledger.BalanceChange
}

func (n *recordingNotifier) BalanceChanged(_ context.Context, c ledger.BalanceChange) error {
	n.changes = append(n.changes, c)
	return nil
}

func newMockCoordinator(t *testing.T) (*ledger.Coordinator, *ledger.MockStore, *recordingNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tx := ledger.NewMockTxStore(ctrl)
	inner := ledger.NewMockStore(ctrl)

	tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(ledger.Store) error) error {
			return fn(inner)
		}).
		AnyTimes()

	notifier := &recordingNotifier{}
	coord := ledger.NewCoordinator(tx)
	coord.Clock = ledger.FixedClock{At: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)}
	coord.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	coord.Notifier = notifier
	coord.NewID = sequentialIDs("ev")
	return coord, inner, notifier
}

func TestCoordinator_PersistFailureReportsStage(t *testing.T) {
	// GIVEN: A later work entry whose balance must be rewritten
	// WHEN: The store fails writing that entry
	// THEN: A PersistenceError at the persist stage, and no notification

	coord, s, notifier := newMockCoordinator(t)
	labour := &ledger.Labour{ID: "lab-1", Active: true}
	later := work("w-later", "2024-01-05", "50")
	later.NewBalance = dec("50")

	s.EXPECT().GetLabour(gomock.Any(), ledger.LabourID("lab-1")).Return(labour, nil)
	s.EXPECT().EntryOn(gomock.Any(), ledger.LabourID("lab-1"), d("2024-01-01")).Return(nil, nil)
	s.EXPECT().LastEntryBefore(gomock.Any(), ledger.LabourID("lab-1"), d("2024-01-01")).Return(nil, nil)
	s.EXPECT().EventsForLabour(gomock.Any(), ledger.LabourID("lab-1"), gomock.Nil()).Return([]ledger.Event{later}, nil)
	s.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(nil)
	s.EXPECT().UpdateEvent(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := coord.ApplyEntry(context.Background(), entry("lab-1", "2024-01-01", "100"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrPersistence)
	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ledger.StagePersist, perr.Stage)
	assert.Equal(t, "update_event", perr.Op)
	assert.False(t, ledger.IsClientError(err))
	assert.Empty(t, notifier.changes)
}

func TestCoordinator_MirrorFailureReportsStage(t *testing.T) {
	coord, s, notifier := newMockCoordinator(t)
	labour := &ledger.Labour{ID: "lab-1", Active: true}

	s.EXPECT().GetLabour(gomock.Any(), gomock.Any()).Return(labour, nil)
	s.EXPECT().LastEntryBefore(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.EXPECT().EventsForLabour(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(nil)
	s.EXPECT().SetBalance(gomock.Any(), ledger.LabourID("lab-1"), gomock.Any()).Return(errors.New("connection reset"))

	_, err := coord.ApplyPayment(context.Background(), pay("lab-1", "2024-01-01", "10"))

	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ledger.StageMirrorUpdate, perr.Stage)
	assert.Empty(t, notifier.changes)
}

func TestCoordinator_NotifiesCommittedChange(t *testing.T) {
	coord, s, notifier := newMockCoordinator(t)
	labour := &ledger.Labour{ID: "lab-1", Active: true, Balance: dec("30"), OpeningBalance: dec("30")}

	s.EXPECT().GetLabour(gomock.Any(), gomock.Any()).Return(labour, nil)
	s.EXPECT().LastEntryBefore(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.EXPECT().EventsForLabour(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(nil)
	s.EXPECT().SetBalance(gomock.Any(), ledger.LabourID("lab-1"), gomock.Any()).Return(nil)

	p, err := coord.ApplyPayment(context.Background(), pay("lab-1", "2024-01-01", "10"))
	require.NoError(t, err)

	require.Len(t, notifier.changes, 1)
	c := notifier.changes[0]
	assert.Equal(t, ledger.OpInsertPayment, c.Operation)
	assert.Equal(t, p.ID, c.EventID)
	assert.True(t, c.Previous.Equal(dec("30")))
	assert.True(t, c.Balance.Equal(dec("20")))
	assert.Equal(t, 1, c.Cascade)
}

// =============================================================================
// ROLLBACK (memory store with injected failure)
// =============================================================================

// failingStore fails SetBalance, after every event write of the mutation
// has already been applied.
type failingStore struct {
	ledger.Store
}

func (failingStore) SetBalance(context.Context, ledger.LabourID, decimal.Decimal) error {
	return errors.New("mirror write failed")
}

type failingTx struct {
	*store.TxMemory
}

func (f failingTx) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	return f.TxMemory.WithTx(ctx, func(s ledger.Store) error {
		return fn(failingStore{Store: s})
	})
}

func TestCoordinator_FailedMutationRollsBack(t *testing.T) {
	// GIVEN: A consistent ledger
	// WHEN: A backdated payment fails at the mirror update
	// THEN: Neither the payment nor any rewritten balance is kept

	coord, mem := newTestCoordinator(t)
	ctx := context.Background()
	l, jan1, jan3 := seedLedger(t, coord, "0")

	broken := ledger.NewCoordinator(failingTx{TxMemory: mem})
	broken.Logger = coord.Logger
	broken.Clock = coord.Clock

	_, err := broken.ApplyPayment(ctx, pay(l.ID, "2024-01-01", "25"))
	assert.ErrorIs(t, err, ledger.ErrPersistence)

	events, err := mem.EventsForLabour(ctx, l.ID, nil)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assertEntry(t, mem, jan1.ID, "0", "100")
	assertEntry(t, mem, jan3.ID, "60", "110")
	assertBalance(t, coord, l.ID, "110")
}
