/*
main.go - Batch recalculation command

PURPOSE:
  Rebuilds stored work entry balances and labour mirrors from the events.
  Used to repair ledgers after a partial write or a data import.

FLAGS:
  -labour       Recalculate a single labour (default: all labours)
  -seed         opening (default) or mirror
  -dry-run      Report what would change without writing
  -concurrency  Labours processed in parallel (default: RECALC_CONCURRENCY)

  Database and logging settings come from the same environment as the
  server (DB_DRIVER, DB_PATH, DATABASE_URL, LOG_LEVEL, LOG_FORMAT).

OUTPUT:
  One line per labour. Exits non-zero if any labour failed.

EXAMPLES:
  ./recalc -dry-run
  ./recalc -labour 6f1c... -seed mirror
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/labour-ledger/config"
	"github.com/warp/labour-ledger/ledger"
	"github.com/warp/labour-ledger/logging"
	"github.com/warp/labour-ledger/store/sqlstore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	fs := flag.NewFlagSet("recalc", flag.ContinueOnError)
	labour := fs.String("labour", "", "labour ID to recalculate (default: all)")
	seed := fs.String("seed", string(ledger.SeedOpening), "seed rule: opening or mirror")
	dryRun := fs.Bool("dry-run", false, "report changes without writing")
	concurrency := fs.Int("concurrency", cfg.RecalcConcurrency, "labours processed in parallel")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rule, err := ledger.ParseSeedRule(*seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *concurrency < 1 {
		fmt.Fprintln(os.Stderr, "concurrency must be at least 1")
		return 2
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *sqlstore.Store
	if cfg.DB.Driver == "postgres" {
		store, err = sqlstore.OpenPostgres(ctx, cfg.DB.URL)
	} else {
		store, err = sqlstore.OpenSQLite(ctx, cfg.DB.Path)
	}
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}
	defer store.Close()

	r := ledger.NewRecalculator(store, ledger.NewLabourLocks())
	r.Logger = logger.With("component", "recalc")
	r.Seed = rule
	r.DryRun = *dryRun
	r.Concurrency = *concurrency

	var results []ledger.RecalcResult
	if *labour != "" {
		var res ledger.RecalcResult
		res, err = r.RecalculateLabour(ctx, ledger.LabourID(*labour))
		results = []ledger.RecalcResult{res}
	} else {
		results, err = r.RecalculateAll(ctx)
	}

	printResults(out, results)
	if err != nil {
		logger.Error("recalculation finished with failures", "error", err)
		return 1
	}
	return 0
}

func printResults(w io.Writer, results []ledger.RecalcResult) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\tFAILED\t%v\n", res.LabourID, res.Err)
			continue
		}
		mode := "updated"
		if res.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(w, "%s\t%s\tseed=%s\tbalance %s -> %s\tchanged=%d\n",
			res.LabourID, mode,
			res.Seed.StringFixed(2),
			res.PreviousBalance.StringFixed(2),
			res.Balance.StringFixed(2),
			res.Changed)
	}
}
