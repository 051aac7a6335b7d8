/*
recalc.go - Batch recalculation of whole ledgers

PURPOSE:
  Rebuilds a labour's ledger from scratch: load every event in canonical
  order, seed, run Reconcile, write the work entry balances back and set
  the mirror. This is the repair path for ledgers corrupted by a partial
  write or by data imported from elsewhere. It is not part of the normal
  mutation flow.

SEEDING:
  SeedOpening (default): the labour's stored opening balance. Repeated
  runs converge on the same values.
  SeedMirror: the labour's current mirror balance. Kept for migrating
  legacy data whose opening balance was never recorded. Running it twice
  on a ledger with events double counts them.

CONCURRENCY:
  RecalculateAll processes labours in parallel with a bounded errgroup.
  Each labour is recalculated under the same per-labour lock the
  Coordinator uses, inside its own transaction.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type SeedRule string

const (
	SeedOpening SeedRule = "opening"
	SeedMirror  SeedRule = "mirror"
)

// ParseSeedRule accepts "opening", "mirror" or "" (opening).
func ParseSeedRule(s string) (SeedRule, error) {
	switch SeedRule(s) {
	case "", SeedOpening:
		return SeedOpening, nil
	case SeedMirror:
		return SeedMirror, nil
	}
	return "", invalid("seed", "unknown seed rule %q", s)
}

// RecalcResult describes one labour's recalculation.
type RecalcResult struct {
	LabourID        LabourID
	Seed            decimal.Decimal
	PreviousBalance decimal.Decimal
	Balance         decimal.Decimal
	Changed         int // work entries whose stored balances were (or would be) rewritten
	DryRun          bool
	Err             error
}

type Recalculator struct {
	Store       TxStore
	Locks       *LabourLocks
	Logger      *slog.Logger
	Metrics     Recorder
	Clock       Clock
	Seed        SeedRule
	DryRun      bool
	Concurrency int
}

// NewRecalculator shares locks with the coordinator so a rebuild never
// interleaves with a live mutation of the same labour.
func NewRecalculator(store TxStore, locks *LabourLocks) *Recalculator {
	return &Recalculator{
		Store:       store,
		Locks:       locks,
		Logger:      slog.Default().With("component", "recalc"),
		Metrics:     NopRecorder{},
		Clock:       SystemClock{},
		Seed:        SeedOpening,
		Concurrency: 4,
	}
}

// RecalculateLabour rebuilds one labour's ledger.
func (r *Recalculator) RecalculateLabour(ctx context.Context, id LabourID) (RecalcResult, error) {
	start := time.Now()
	unlock := r.Locks.Lock(id)
	defer unlock()

	res := RecalcResult{LabourID: id, DryRun: r.DryRun}
	err := r.Store.WithTx(ctx, func(s Store) error {
		l, err := s.GetLabour(ctx, id)
		if err != nil {
			return storeErr(StageValidate, "get_labour", err)
		}
		events, err := s.EventsForLabour(ctx, id, nil)
		if err != nil {
			return storeErr(StageSeed, "events_for_labour", err)
		}

		res.PreviousBalance = l.Balance
		res.Seed = l.OpeningBalance
		if r.Seed == SeedMirror {
			res.Seed = l.Balance
		}

		updated, final := Reconcile(res.Seed, events)
		changed := Changed(events, updated)
		res.Changed = len(changed)
		res.Balance = final
		if r.DryRun {
			return nil
		}

		now := r.Clock.Now()
		for _, e := range changed {
			e.UpdatedAt = now
			if err := s.UpdateEvent(ctx, e); err != nil {
				return storeErr(StagePersist, "update_event", err)
			}
		}
		if err := s.SetBalance(ctx, id, final); err != nil {
			return storeErr(StageMirrorUpdate, "set_balance", err)
		}
		return nil
	})

	r.Metrics.RecordRecalculation(res.Changed, r.DryRun, time.Since(start), err)
	if err != nil {
		r.Logger.ErrorContext(ctx, "recalculation failed", "labour_id", id, "error", err)
		return RecalcResult{LabourID: id, DryRun: r.DryRun, Err: err}, err
	}
	r.Logger.InfoContext(ctx, "labour recalculated",
		"labour_id", id,
		"seed_rule", r.Seed,
		"changed", res.Changed,
		"previous", res.PreviousBalance.String(),
		"balance", res.Balance.String(),
		"dry_run", r.DryRun,
	)
	return res, nil
}

// RecalculateAll rebuilds every labour's ledger. A failure on one labour
// does not stop the others; failures are reported in the results and
// joined into the returned error.
func (r *Recalculator) RecalculateAll(ctx context.Context) ([]RecalcResult, error) {
	labours, err := r.Store.ListLabours(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list labours: %w", err)
	}
	ids := make([]LabourID, len(labours))
	for i, l := range labours {
		ids[i] = l.ID
	}
	return r.recalculate(ctx, ids)
}

// RepairInconsistent verifies every active labour and rebuilds the ones
// whose stored balances disagree with a recompute.
func (r *Recalculator) RepairInconsistent(ctx context.Context) ([]RecalcResult, error) {
	labours, err := r.Store.ListLabours(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list labours: %w", err)
	}
	var broken []LabourID
	for _, l := range labours {
		v, err := VerifyLabour(ctx, r.Store, l.ID)
		if err != nil {
			return nil, fmt.Errorf("verify labour %s: %w", l.ID, err)
		}
		if !v.Consistent() {
			r.Logger.WarnContext(ctx, "inconsistent ledger",
				"labour_id", l.ID,
				"mismatches", len(v.Mismatches),
				"stored_balance", v.StoredBalance.String(),
				"expected_balance", v.ExpectedBalance.String(),
			)
			broken = append(broken, l.ID)
		}
	}
	if len(broken) == 0 {
		return nil, nil
	}
	return r.recalculate(ctx, broken)
}

func (r *Recalculator) recalculate(ctx context.Context, ids []LabourID) ([]RecalcResult, error) {
	results := make([]RecalcResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], _ = r.RecalculateLabour(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("labour %s: %w", res.LabourID, res.Err))
		}
	}
	return results, errors.Join(errs...)
}
