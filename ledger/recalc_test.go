package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labour-ledger/ledger"
	"github.com/warp/labour-ledger/ledger/store"
)

func newTestRecalculator(coord *ledger.Coordinator, mem *store.TxMemory) *ledger.Recalculator {
	r := ledger.NewRecalculator(mem, coord.Locks)
	r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	r.Clock = coord.Clock
	return r
}

// recalcSpy records what the recalculator reports.
type recalcSpy struct {
	ledger.NopRecorder
	changed int
	dryRun  bool
}

func (s *recalcSpy) RecordRecalculation(changed int, dryRun bool, _ time.Duration, _ error) {
	s.changed = changed
	s.dryRun = dryRun
}

// corrupt overwrites stored balances behind the coordinator's back.
func corrupt(t *testing.T, mem *store.TxMemory, l ledger.Labour, id ledger.EventID) {
	t.Helper()
	ctx := context.Background()
	e, err := mem.GetEvent(ctx, id)
	require.NoError(t, err)
	e.PreviousBalance = dec("999")
	e.NewBalance = dec("1049")
	require.NoError(t, mem.UpdateEvent(ctx, *e))
	require.NoError(t, mem.SetBalance(ctx, l.ID, dec("1009")))
}

func TestRecalculateLabour_RepairsCorruptedLedger(t *testing.T) {
	// GIVEN: A ledger whose Jan 3 entry and mirror were corrupted
	// WHEN: The labour is recalculated from its opening balance
	// THEN: Balances are restored, and a second run changes nothing

	coord, mem := newTestCoordinator(t)
	ctx := context.Background()
	l, _, jan3 := seedLedger(t, coord, "0")
	corrupt(t, mem, l, jan3.ID)

	v, err := coord.Verify(ctx, l.ID)
	require.NoError(t, err)
	require.False(t, v.Consistent())

	r := newTestRecalculator(coord, mem)
	res, err := r.RecalculateLabour(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)
	assert.True(t, res.PreviousBalance.Equal(dec("1009")))
	assert.True(t, res.Balance.Equal(dec("110")))
	assertEntry(t, mem, jan3.ID, "60", "110")
	assertConsistent(t, coord, l.ID)

	again, err := r.RecalculateLabour(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Changed)
	assert.True(t, again.Balance.Equal(dec("110")))
}

func TestRecalculateLabour_DryRunWritesNothing(t *testing.T) {
	coord, mem := newTestCoordinator(t)
	ctx := context.Background()
	l, _, jan3 := seedLedger(t, coord, "0")
	corrupt(t, mem, l, jan3.ID)

	spy := &recalcSpy{}
	r := newTestRecalculator(coord, mem)
	r.Metrics = spy
	r.DryRun = true
	res, err := r.RecalculateLabour(ctx, l.ID)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.True(t, spy.dryRun)
	assert.Equal(t, 1, spy.changed)
	assert.Equal(t, 1, res.Changed)
	assert.True(t, res.Balance.Equal(dec("110")))
	assertEntry(t, mem, jan3.ID, "999", "1049")
	assertBalance(t, coord, l.ID, "1009")
}

func TestRecalculateLabour_SeedMirrorDoubleCounts(t *testing.T) {
	// Seeding from the mirror re-applies every event on top of a balance
	// that already includes them.
	coord, mem := newTestCoordinator(t)
	l, _, _ := seedLedger(t, coord, "0")

	r := newTestRecalculator(coord, mem)
	r.Seed = ledger.SeedMirror
	res, err := r.RecalculateLabour(context.Background(), l.ID)
	require.NoError(t, err)

	assert.True(t, res.Seed.Equal(dec("110")))
	assert.True(t, res.Balance.Equal(dec("220")))
}

func TestRecalculateAll(t *testing.T) {
	coord, mem := newTestCoordinator(t)
	ctx := context.Background()

	a, _, jan3 := seedLedger(t, coord, "0")
	b, _, _ := seedLedger(t, coord, "10")
	corrupt(t, mem, a, jan3.ID)

	r := newTestRecalculator(coord, mem)
	r.Concurrency = 2
	results, err := r.RecalculateAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assertBalance(t, coord, a.ID, "110")
	assertBalance(t, coord, b.ID, "120")
	assertConsistent(t, coord, a.ID)
	assertConsistent(t, coord, b.ID)
}

func TestRepairInconsistent_OnlyTouchesBrokenLabours(t *testing.T) {
	coord, mem := newTestCoordinator(t)
	ctx := context.Background()

	a, _, jan3 := seedLedger(t, coord, "0")
	_, _, _ = seedLedger(t, coord, "10")
	corrupt(t, mem, a, jan3.ID)

	r := newTestRecalculator(coord, mem)
	results, err := r.RepairInconsistent(ctx)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, a.ID, results[0].LabourID)
	assertConsistent(t, coord, a.ID)

	results, err = r.RepairInconsistent(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseSeedRule(t *testing.T) {
	rule, err := ledger.ParseSeedRule("")
	require.NoError(t, err)
	assert.Equal(t, ledger.SeedOpening, rule)

	rule, err = ledger.ParseSeedRule("mirror")
	require.NoError(t, err)
	assert.Equal(t, ledger.SeedMirror, rule)

	_, err = ledger.ParseSeedRule("latest")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}
