package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LABOUR REGISTER
// =============================================================================

// LabourInput is a new labour.
type LabourInput struct {
	Name           string
	Phone          string
	OpeningBalance decimal.Decimal
}

// CreateLabour registers an active labour whose balance starts at the
// opening balance.
func (c *Coordinator) CreateLabour(ctx context.Context, in LabourInput) (Labour, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Labour{}, invalid("name", "is required")
	}
	// The opening balance may be negative (an advance), but not sub-paisa.
	if err := validateOpening(in.OpeningBalance); err != nil {
		return Labour{}, err
	}

	now := c.Clock.Now()
	l := Labour{
		ID:             LabourID(c.NewID()),
		Name:           name,
		Phone:          strings.TrimSpace(in.Phone),
		Active:         true,
		OpeningBalance: in.OpeningBalance,
		Balance:        in.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := c.Store.CreateLabour(ctx, l)
	c.Metrics.RecordMutation(OpCreateLabour, 0, time.Since(start), err)
	if err != nil {
		err = storeErr(StagePersist, "create_labour", err)
		c.logFailure(ctx, OpCreateLabour, l.ID, "", err)
		return Labour{}, err
	}

	c.Logger.InfoContext(ctx, "labour created", "labour_id", l.ID, "opening_balance", l.OpeningBalance.String())
	c.notify(ctx, BalanceChange{
		LabourID:  l.ID,
		Operation: OpCreateLabour,
		Previous:  decimal.Zero,
		Balance:   l.Balance,
		At:        now,
	})
	return l, nil
}

func (c *Coordinator) GetLabour(ctx context.Context, id LabourID) (Labour, error) {
	l, err := c.Store.GetLabour(ctx, id)
	if err != nil {
		return Labour{}, storeErr(StageValidate, "get_labour", err)
	}
	return *l, nil
}

func (c *Coordinator) ListLabours(ctx context.Context, activeOnly bool) ([]Labour, error) {
	labours, err := c.Store.ListLabours(ctx, activeOnly)
	if err != nil {
		return nil, storeErr(StageValidate, "list_labours", err)
	}
	return labours, nil
}

// SetOpeningBalance changes the opening balance and recomputes the whole
// ledger from it.
func (c *Coordinator) SetOpeningBalance(ctx context.Context, id LabourID, amount decimal.Decimal) (Labour, error) {
	if err := validateOpening(amount); err != nil {
		return Labour{}, err
	}

	_, err := c.mutate(ctx, OpSetOpening, id, "", func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error) {
		if !l.Active {
			return Date{}, windowChange{}, invalid("labour_id", "labour %s is inactive", l.ID)
		}
		l.OpeningBalance = amount
		l.UpdatedAt = c.Clock.Now()
		if err := s.UpdateLabour(ctx, *l); err != nil {
			return Date{}, windowChange{}, storeErr(StagePersist, "update_labour", err)
		}
		// A zero date makes the window the whole ledger.
		return Date{}, windowChange{}, nil
	})
	if err != nil {
		return Labour{}, err
	}
	return c.GetLabour(ctx, id)
}

// DeactivateLabour removes every event of the labour, resets its balance to
// the opening balance and marks it inactive. Deactivating an inactive labour
// is a no-op.
func (c *Coordinator) DeactivateLabour(ctx context.Context, id LabourID) (Labour, error) {
	_, err := c.mutate(ctx, OpDeactivate, id, "", func(ctx context.Context, s Store, l *Labour) (Date, windowChange, error) {
		if err := s.DeleteLabourEvents(ctx, l.ID); err != nil {
			return Date{}, windowChange{}, storeErr(StagePersist, "delete_labour_events", err)
		}
		l.Active = false
		l.UpdatedAt = c.Clock.Now()
		if err := s.UpdateLabour(ctx, *l); err != nil {
			return Date{}, windowChange{}, storeErr(StagePersist, "update_labour", err)
		}
		return Date{}, windowChange{}, nil
	})
	if err != nil {
		return Labour{}, err
	}
	return c.GetLabour(ctx, id)
}
