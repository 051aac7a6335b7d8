package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// READ MODELS
// =============================================================================

// Statement returns the labour's events with the running balance after each
// one. A nil from returns the whole ledger.
func (c *Coordinator) Statement(ctx context.Context, id LabourID, from *Date) ([]StatementLine, error) {
	l, err := c.Store.GetLabour(ctx, id)
	if err != nil {
		return nil, storeErr(StageValidate, "get_labour", err)
	}
	var start Date
	if from != nil {
		start = *from
	}
	seed, window, err := seedWindow(ctx, c.Store, *l, start)
	if err != nil {
		return nil, err
	}
	return Statement(seed, window), nil
}

// Summary aggregates the labour's whole ledger. Balance is the mirror.
func (c *Coordinator) Summary(ctx context.Context, id LabourID) (Summary, error) {
	l, err := c.Store.GetLabour(ctx, id)
	if err != nil {
		return Summary{}, storeErr(StageValidate, "get_labour", err)
	}
	events, err := c.Store.EventsForLabour(ctx, id, nil)
	if err != nil {
		return Summary{}, storeErr(StageSeed, "events_for_labour", err)
	}

	sum := Summary{
		LabourID:       l.ID,
		OpeningBalance: l.OpeningBalance,
		TotalWork:      decimal.Zero,
		TotalPaid:      decimal.Zero,
		Balance:        l.Balance,
	}
	for _, e := range events {
		switch e.Kind {
		case KindWork:
			sum.TotalWork = sum.TotalWork.Add(e.Amount)
			sum.Entries++
		case KindPayment:
			sum.TotalPaid = sum.TotalPaid.Add(e.Amount)
			sum.Payments++
		}
	}
	return sum, nil
}

// Verify recomputes the labour's ledger from its opening balance and
// reports every stored value that disagrees.
func (c *Coordinator) Verify(ctx context.Context, id LabourID) (Verification, error) {
	return VerifyLabour(ctx, c.Store, id)
}

func VerifyLabour(ctx context.Context, s Store, id LabourID) (Verification, error) {
	l, err := s.GetLabour(ctx, id)
	if err != nil {
		return Verification{}, storeErr(StageValidate, "get_labour", err)
	}
	events, err := s.EventsForLabour(ctx, id, nil)
	if err != nil {
		return Verification{}, storeErr(StageSeed, "events_for_labour", err)
	}
	return Verify(*l, l.OpeningBalance, events), nil
}
