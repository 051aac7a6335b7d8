/*
store.go - Persistence interface for labours and ledger events

PURPOSE:
  Defines the boundary between the reconciliation logic and the database.
  Unlike an append-only log, ledger events here are mutable: edits and
  deletes are first-class, and the coordinator rewrites the stored
  balances of every later event after each mutation.

ORDERING CONTRACT:
  EventsForLabour returns events in canonical order (see types.go):
  date ASC, work before payment, created_at ASC, id ASC.

UNIQUENESS CONTRACT:
  InsertEvent and UpdateEvent must reject a second work entry for the same
  (labour, date) with a *DuplicateEntryError. The coordinator checks first;
  the store constraint is the backstop.

ATOMICITY:
  TxStore.WithTx runs a function against a transactional view. Every
  mutation performs its window read, event writes and mirror write inside
  one WithTx call, so a failure leaves nothing half-applied.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory (tests, dev)
  - store/sqlstore: SQLite and PostgreSQL
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=ledger

// Store handles persistence of labours and ledger events.
type Store interface {
	// Labours
	GetLabour(ctx context.Context, id LabourID) (*Labour, error)
	ListLabours(ctx context.Context, activeOnly bool) ([]Labour, error)
	CreateLabour(ctx context.Context, l Labour) error
	UpdateLabour(ctx context.Context, l Labour) error
	SetBalance(ctx context.Context, id LabourID, balance decimal.Decimal) error

	// Events
	GetEvent(ctx context.Context, id EventID) (*Event, error)

	// EventsForLabour returns the labour's events with date >= from in
	// canonical order. A nil from returns the whole ledger.
	EventsForLabour(ctx context.Context, labourID LabourID, from *Date) ([]Event, error)

	// LastEntryBefore returns the latest work entry strictly before the
	// given date, or nil if there is none.
	LastEntryBefore(ctx context.Context, labourID LabourID, before Date) (*Event, error)

	// EntryOn returns the work entry on the given date, or nil.
	EntryOn(ctx context.Context, labourID LabourID, date Date) (*Event, error)

	InsertEvent(ctx context.Context, e Event) error
	UpdateEvent(ctx context.Context, e Event) error
	DeleteEvent(ctx context.Context, id EventID) error
	DeleteLabourEvents(ctx context.Context, labourID LabourID) error
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
