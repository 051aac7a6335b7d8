/*
scheduler.go - Automated ledger repair scheduler

PURPOSE:
  Periodically verifies every active labour's ledger and recalculates
  the ones whose stored balances no longer match a recompute (a partial
  write, a manual database edit, imported data).

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Runs one pass immediately on start
  - Consistent ledgers are never written
  - Repairs go through the Recalculator, under the same per-labour
    locks the coordinator uses

CONFIGURATION:
  - CheckInterval: How often to check (REPAIR_INTERVAL, default 1 hour)
  - Enabled: Whether scheduler is active (REPAIR_ENABLED, default false)

USAGE:
  scheduler := NewRepairScheduler(recalculator, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RecalculateAll endpoint (manual repair)
  - ledger/recalc.go: Recalculator
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/labour-ledger/ledger"
)

// Repairer is the part of the Recalculator the scheduler drives.
type Repairer interface {
	RepairInconsistent(ctx context.Context) ([]ledger.RecalcResult, error)
}

// RepairScheduler handles automated ledger repair.
type RepairScheduler struct {
	Repairer      Repairer
	CheckInterval time.Duration
	Enabled       bool
	Logger        *slog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	statsMu      sync.Mutex
	lastRun      time.Time
	lastRepaired int
}

// NewRepairScheduler creates a new scheduler.
func NewRepairScheduler(repairer Repairer, logger *slog.Logger) *RepairScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepairScheduler{
		Repairer:      repairer,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Logger:        logger.With("component", "repair-scheduler"),
	}
}

// Start begins the scheduler.
func (rs *RepairScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	rs.cancel = cancel
	rs.stop = make(chan struct{})
	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run(ctx)

	rs.Logger.Info("started", "interval", rs.CheckInterval)
}

// Stop stops the scheduler and waits for a running pass to finish.
func (rs *RepairScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	rs.cancel()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	rs.Logger.Info("stopped")
}

func (rs *RepairScheduler) run(ctx context.Context) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndRepair(ctx)

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndRepair(ctx)
		case <-rs.stop:
			return
		}
	}
}

func (rs *RepairScheduler) checkAndRepair(ctx context.Context) {
	start := time.Now()
	results, err := rs.Repairer.RepairInconsistent(ctx)

	repaired := 0
	for _, res := range results {
		if res.Err == nil {
			repaired++
		}
	}

	rs.statsMu.Lock()
	rs.lastRun = start
	rs.lastRepaired = repaired
	rs.statsMu.Unlock()

	if err != nil {
		rs.Logger.Error("repair pass failed", "repaired", repaired, "error", err)
		return
	}
	if len(results) > 0 {
		rs.Logger.Warn("repaired inconsistent ledgers", "repaired", repaired, "elapsed", time.Since(start))
		return
	}
	rs.Logger.Debug("all ledgers consistent", "elapsed", time.Since(start))
}

// LastRun reports when the last pass started and how many ledgers it repaired.
func (rs *RepairScheduler) LastRun() (time.Time, int) {
	rs.statsMu.Lock()
	defer rs.statsMu.Unlock()
	return rs.lastRun, rs.lastRepaired
}
