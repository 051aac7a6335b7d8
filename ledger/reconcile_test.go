package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labour-ledger/ledger"
)

func d(s string) ledger.Date { return ledger.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func work(id, date, amount string) ledger.Event {
	return ledger.Event{
		ID:         ledger.EventID(id),
		LabourID:   "lab-1",
		Kind:       ledger.KindWork,
		Date:       d(date),
		Amount:     dec(amount),
		Attendance: ledger.AttendancePresent,
	}
}

func payment(id, date, amount string) ledger.Event {
	return ledger.Event{
		ID:       ledger.EventID(id),
		LabourID: "lab-1",
		Kind:     ledger.KindPayment,
		Date:     d(date),
		Amount:   dec(amount),
	}
}

func TestReconcile_WorkAndPayments(t *testing.T) {
	events := []ledger.Event{
		work("w1", "2024-01-01", "100"),
		payment("p1", "2024-01-02", "40"),
		work("w2", "2024-01-03", "50"),
	}

	updated, final := ledger.Reconcile(decimal.Zero, events)

	require.Len(t, updated, 3)
	assert.True(t, updated[0].PreviousBalance.Equal(dec("0")))
	assert.True(t, updated[0].NewBalance.Equal(dec("100")))
	assert.True(t, updated[2].PreviousBalance.Equal(dec("60")))
	assert.True(t, updated[2].NewBalance.Equal(dec("110")))
	assert.True(t, final.Equal(dec("110")), "final = %s", final)

	// Input untouched.
	assert.True(t, events[2].NewBalance.IsZero())
}

func TestReconcile_Idempotent(t *testing.T) {
	events := []ledger.Event{
		work("w1", "2024-01-01", "100.50"),
		payment("p1", "2024-01-01", "20.25"),
		work("w2", "2024-01-05", "75"),
	}

	first, f1 := ledger.Reconcile(dec("10"), events)
	second, f2 := ledger.Reconcile(dec("10"), first)

	assert.Equal(t, first, second)
	assert.True(t, f1.Equal(f2))
	assert.Empty(t, ledger.Changed(first, second))
}

func TestReconcile_NewBalanceEqualsPreviousPlusAmount(t *testing.T) {
	events := []ledger.Event{
		work("w1", "2024-02-01", "12.34"),
		payment("p1", "2024-02-02", "5"),
		work("w2", "2024-02-03", "0"),
		payment("p2", "2024-02-03", "100"),
		work("w3", "2024-02-04", "7.66"),
	}

	updated, _ := ledger.Reconcile(dec("-3"), events)

	for _, e := range updated {
		if e.IsWork() {
			assert.True(t, e.NewBalance.Equal(e.PreviousBalance.Add(e.Amount)), "event %s", e.ID)
		}
	}
}

func TestSortEvents_WorkBeforePaymentOnSameDate(t *testing.T) {
	events := []ledger.Event{
		payment("p1", "2024-01-02", "40"),
		work("w2", "2024-01-02", "50"),
		work("w1", "2024-01-01", "100"),
	}

	ledger.SortEvents(events)

	assert.Equal(t, ledger.EventID("w1"), events[0].ID)
	assert.Equal(t, ledger.EventID("w2"), events[1].ID)
	assert.Equal(t, ledger.EventID("p1"), events[2].ID)

	// Work entry on Jan 2 sees the balance before the same-day payment.
	updated, final := ledger.Reconcile(decimal.Zero, events)
	assert.True(t, updated[1].PreviousBalance.Equal(dec("100")))
	assert.True(t, updated[1].NewBalance.Equal(dec("150")))
	assert.True(t, final.Equal(dec("110")))
}

func TestSeedBefore(t *testing.T) {
	events, _ := ledger.Reconcile(dec("5"), []ledger.Event{
		work("w1", "2024-01-01", "100"),
		payment("p1", "2024-01-01", "10"),
		payment("p2", "2024-01-02", "20"),
		work("w2", "2024-01-04", "50"),
	})
	anchor := events[0]

	tests := []struct {
		name   string
		anchor *ledger.Event
		date   string
		want   string
	}{
		{"no anchor uses opening", nil, "2024-01-01", "5"},
		{"anchor plus later payments", &anchor, "2024-01-03", "75"},
		{"stops at date", &anchor, "2024-01-02", "95"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.SeedBefore(dec("5"), tt.anchor, events, d(tt.date))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestStatement_RunningBalance(t *testing.T) {
	lines := ledger.Statement(dec("10"), []ledger.Event{
		work("w1", "2024-01-01", "100"),
		payment("p1", "2024-01-02", "40"),
	})

	require.Len(t, lines, 2)
	assert.True(t, lines[0].BalanceAfter.Equal(dec("110")))
	assert.True(t, lines[1].BalanceAfter.Equal(dec("70")))
}

func TestVerify_ReportsMismatches(t *testing.T) {
	events, final := ledger.Reconcile(decimal.Zero, []ledger.Event{
		work("w1", "2024-01-01", "100"),
		work("w2", "2024-01-03", "50"),
	})
	l := ledger.Labour{ID: "lab-1", Balance: final}

	v := ledger.Verify(l, decimal.Zero, events)
	assert.True(t, v.Consistent())

	events[1].PreviousBalance = dec("90")
	l.Balance = dec("140")
	v = ledger.Verify(l, decimal.Zero, events)

	assert.False(t, v.Consistent())
	require.Len(t, v.Mismatches, 1)
	assert.Equal(t, ledger.EventID("w2"), v.Mismatches[0].EventID)
	assert.True(t, v.Mismatches[0].ExpectedPrevious.Equal(dec("100")))
	assert.True(t, v.ExpectedBalance.Equal(dec("150")))
}
