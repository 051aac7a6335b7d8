package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Operation names a ledger mutation, used in logs, metrics and notifications.
type Operation string

const (
	OpInsertEntry   Operation = "insert_entry"
	OpInsertPayment Operation = "insert_payment"
	OpEdit          Operation = "edit"
	OpDelete        Operation = "delete"
	OpSetOpening    Operation = "set_opening_balance"
	OpDeactivate    Operation = "deactivate"
	OpRecalculate   Operation = "recalculate"
	OpCreateLabour  Operation = "create_labour"
)

// BalanceChange is emitted after a mutation commits.
type BalanceChange struct {
	LabourID  LabourID
	Operation Operation
	EventID   EventID // empty for labour-level operations
	Previous  decimal.Decimal
	Balance   decimal.Decimal
	Cascade   int // number of events whose stored balances were rewritten
	At        time.Time
}

// Notifier publishes committed balance changes to downstream consumers.
// Errors are logged by the caller; a commit is never undone by a notifier.
type Notifier interface {
	BalanceChanged(ctx context.Context, change BalanceChange) error
}

// Recorder receives mutation and recalculation measurements.
type Recorder interface {
	RecordMutation(op Operation, cascade int, elapsed time.Duration, err error)
	// changed counts the work entries a recompute disagreed with; a dry
	// run reports them without writing.
	RecordRecalculation(changed int, dryRun bool, elapsed time.Duration, err error)
}

type NopNotifier struct{}

func (NopNotifier) BalanceChanged(context.Context, BalanceChange) error { return nil }

type NopRecorder struct{}

func (NopRecorder) RecordMutation(Operation, int, time.Duration, error) {}
func (NopRecorder) RecordRecalculation(int, bool, time.Duration, error) {}
