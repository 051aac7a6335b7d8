/*
Package sqlstore provides SQL-backed implementations of ledger.TxStore.

PURPOSE:
  Persists labours and ledger events in SQLite (mattn/go-sqlite3) or
  PostgreSQL (pgx stdlib). Both dialects share the queries in this file;
  dialect differences are limited to placeholders, the transaction
  isolation level and how a unique violation is reported.

KEY TABLES:
  labours:       Worker records with opening balance and mirror balance
  ledger_events: Work entries and payments (kind = 'work' | 'payment')

INDEXES:
  - idx_events_labour_order: Canonical order scan (hot path)
  - idx_unique_work_day:     One work entry per labour per date

ENCODING:
  Money is stored as TEXT (decimal.Decimal.String) so no value ever passes
  through a float. Dates are TEXT "YYYY-MM-DD", which sorts correctly.
  created_at is RFC3339Nano UTC, fixed width enough for the tie-break.

TRANSACTIONS:
  WithTx hands the callback a view bound to one *sql.Tx. Every read and
  write of that view goes through the transaction, so a mutation sees its
  own writes and a rollback discards all of them.

MIGRATION:
  Schema is applied on open with golang-migrate from embedded, per-dialect
  SQL files (see migrate.go).

USAGE:
  store, err := sqlstore.OpenSQLite(ctx, "./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  coord := ledger.NewCoordinator(store)
*/
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/labour-ledger/ledger"
)

// dialect captures what differs between the supported databases.
type dialect interface {
	name() string
	rebind(query string) string
	isUniqueViolation(err error) bool
	isForeignKeyViolation(err error) bool
	// isRetryable reports a transaction aborted by the database that
	// succeeds when run again.
	isRetryable(err error) bool
	txOptions() *sql.TxOptions
}

// Retry bounds for transactions aborted by a serialization conflict.
const (
	maxTxAttempts = 3
	txRetryDelay  = 20 * time.Millisecond
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements ledger.TxStore on a *sql.DB.
type Store struct {
	*queries
	db *sql.DB
}

func newStore(db *sql.DB, d dialect) *Store {
	return &Store{queries: &queries{q: db, d: d}, db: db}
}

// DB exposes the underlying handle (health checks, tests).
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns "sqlite" or "postgres".
func (s *Store) Dialect() string { return s.d.name() }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a database transaction. A transaction the
// database aborts as a serialization conflict is rolled back and run again,
// up to maxTxAttempts times, so fn must not depend on state left by an
// earlier attempt.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !s.d.isRetryable(err) || attempt == maxTxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * txRetryDelay):
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(ledger.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, s.d.txOptions())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&queries{q: sqlTx, d: s.d}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"ledger_events", "labours"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

var _ ledger.TxStore = (*Store)(nil)

// =============================================================================
// QUERIES (ledger.Store)
// =============================================================================

type queries struct {
	q querier
	d dialect
}

const labourColumns = `id, name, phone, active, opening_balance, balance, created_at, updated_at`

const eventColumns = `id, labour_id, kind, event_date, amount,
	previous_balance, new_balance, attendance, work_type, category, subcategory, notes,
	mode, narration, created_at, updated_at`

const eventOrder = `ORDER BY event_date ASC, CASE kind WHEN 'work' THEN 0 ELSE 1 END ASC, created_at ASC, id ASC`

func (s *queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.d.rebind(query), args...)
}

func (s *queries) GetLabour(ctx context.Context, id ledger.LabourID) (*ledger.Labour, error) {
	row := s.q.QueryRowContext(ctx, s.d.rebind(`SELECT `+labourColumns+` FROM labours WHERE id = ?`), string(id))
	l, err := scanLabour(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrLabourNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *queries) ListLabours(ctx context.Context, activeOnly bool) ([]ledger.Labour, error) {
	query := `SELECT ` + labourColumns + ` FROM labours`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.q.QueryContext(ctx, s.d.rebind(query))
	if err != nil {
		return nil, fmt.Errorf("failed to query labours: %w", err)
	}
	defer rows.Close()

	var labours []ledger.Labour
	for rows.Next() {
		l, err := scanLabour(rows)
		if err != nil {
			return nil, err
		}
		labours = append(labours, l)
	}
	return labours, rows.Err()
}

func (s *queries) CreateLabour(ctx context.Context, l ledger.Labour) error {
	_, err := s.exec(ctx, `
		INSERT INTO labours (`+labourColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(l.ID), l.Name, l.Phone, l.Active,
		l.OpeningBalance.String(), l.Balance.String(),
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		if s.d.isUniqueViolation(err) {
			return &ledger.ValidationError{Field: "id", Message: "labour already exists"}
		}
		return fmt.Errorf("failed to insert labour: %w", err)
	}
	return nil
}

func (s *queries) UpdateLabour(ctx context.Context, l ledger.Labour) error {
	res, err := s.exec(ctx, `
		UPDATE labours
		SET name = ?, phone = ?, active = ?, opening_balance = ?, balance = ?, updated_at = ?
		WHERE id = ?`,
		l.Name, l.Phone, l.Active, l.OpeningBalance.String(), l.Balance.String(),
		formatTime(l.UpdatedAt), string(l.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update labour: %w", err)
	}
	return requireRow(res, ledger.ErrLabourNotFound)
}

func (s *queries) SetBalance(ctx context.Context, id ledger.LabourID, balance decimal.Decimal) error {
	res, err := s.exec(ctx, `UPDATE labours SET balance = ? WHERE id = ?`, balance.String(), string(id))
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return requireRow(res, ledger.ErrLabourNotFound)
}

func (s *queries) GetEvent(ctx context.Context, id ledger.EventID) (*ledger.Event, error) {
	row := s.q.QueryRowContext(ctx, s.d.rebind(`SELECT `+eventColumns+` FROM ledger_events WHERE id = ?`), string(id))
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *queries) EventsForLabour(ctx context.Context, labourID ledger.LabourID, from *ledger.Date) ([]ledger.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM ledger_events WHERE labour_id = ?`
	args := []any{string(labourID)}
	if from != nil {
		query += ` AND event_date >= ?`
		args = append(args, from.String())
	}
	return s.queryEvents(ctx, query+` `+eventOrder, args...)
}

func (s *queries) LastEntryBefore(ctx context.Context, labourID ledger.LabourID, before ledger.Date) (*ledger.Event, error) {
	if before.IsZero() {
		return nil, nil
	}
	row := s.q.QueryRowContext(ctx, s.d.rebind(`
		SELECT `+eventColumns+` FROM ledger_events
		WHERE labour_id = ? AND kind = 'work' AND event_date < ?
		ORDER BY event_date DESC, created_at DESC, id DESC
		LIMIT 1`), string(labourID), before.String())
	return optionalEvent(scanEvent(row))
}

func (s *queries) EntryOn(ctx context.Context, labourID ledger.LabourID, date ledger.Date) (*ledger.Event, error) {
	row := s.q.QueryRowContext(ctx, s.d.rebind(`
		SELECT `+eventColumns+` FROM ledger_events
		WHERE labour_id = ? AND kind = 'work' AND event_date = ?`), string(labourID), date.String())
	return optionalEvent(scanEvent(row))
}

func (s *queries) InsertEvent(ctx context.Context, e ledger.Event) error {
	_, err := s.exec(ctx, `
		INSERT INTO ledger_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eventArgs(e)...,
	)
	if err != nil {
		return s.eventWriteErr("insert", e, err)
	}
	return nil
}

func (s *queries) UpdateEvent(ctx context.Context, e ledger.Event) error {
	args := eventArgs(e)
	// id moves from first to last for the WHERE clause.
	args = append(args[2:], args[0])
	res, err := s.exec(ctx, `
		UPDATE ledger_events
		SET kind = ?, event_date = ?, amount = ?,
		    previous_balance = ?, new_balance = ?, attendance = ?, work_type = ?,
		    category = ?, subcategory = ?, notes = ?, mode = ?, narration = ?,
		    created_at = ?, updated_at = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return s.eventWriteErr("update", e, err)
	}
	return requireRow(res, ledger.ErrEventNotFound)
}

func (s *queries) DeleteEvent(ctx context.Context, id ledger.EventID) error {
	res, err := s.exec(ctx, `DELETE FROM ledger_events WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireRow(res, ledger.ErrEventNotFound)
}

func (s *queries) DeleteLabourEvents(ctx context.Context, labourID ledger.LabourID) error {
	if _, err := s.exec(ctx, `DELETE FROM ledger_events WHERE labour_id = ?`, string(labourID)); err != nil {
		return fmt.Errorf("failed to delete labour events: %w", err)
	}
	return nil
}

func (s *queries) queryEvents(ctx context.Context, query string, args ...any) ([]ledger.Event, error) {
	rows, err := s.q.QueryContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// eventWriteErr maps the work-day unique index to a DuplicateEntryError.
func (s *queries) eventWriteErr(op string, e ledger.Event, err error) error {
	if s.d.isUniqueViolation(err) && e.IsWork() {
		return &ledger.DuplicateEntryError{LabourID: e.LabourID, Date: e.Date}
	}
	if s.d.isForeignKeyViolation(err) {
		return ledger.ErrLabourNotFound
	}
	return fmt.Errorf("failed to %s event: %w", op, err)
}

// =============================================================================
// SCANNING AND ENCODING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanLabour(row scanner) (ledger.Labour, error) {
	var (
		l                ledger.Labour
		id               string
		opening, balance string
		created, updated string
	)
	if err := row.Scan(&id, &l.Name, &l.Phone, &l.Active, &opening, &balance, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, err
		}
		return l, fmt.Errorf("failed to scan labour: %w", err)
	}
	l.ID = ledger.LabourID(id)

	var err error
	if l.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
		return l, fmt.Errorf("labour %s opening_balance: %w", id, err)
	}
	if l.Balance, err = decimal.NewFromString(balance); err != nil {
		return l, fmt.Errorf("labour %s balance: %w", id, err)
	}
	l.CreatedAt = parseTime(created)
	l.UpdatedAt = parseTime(updated)
	return l, nil
}

func scanEvent(row scanner) (ledger.Event, error) {
	var (
		e                  ledger.Event
		id, labourID, kind string
		date, amount       string
		prev, next         string
		attendance         string
		created, updated   string
	)
	err := row.Scan(
		&id, &labourID, &kind, &date, &amount,
		&prev, &next, &attendance, &e.WorkType, &e.Category, &e.Subcategory, &e.Notes,
		&e.Mode, &e.Narration, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan event: %w", err)
	}

	e.ID = ledger.EventID(id)
	e.LabourID = ledger.LabourID(labourID)
	e.Kind = ledger.EventKind(kind)
	e.Attendance = ledger.AttendanceStatus(attendance)
	if e.Date, err = ledger.ParseDate(date); err != nil {
		return e, fmt.Errorf("event %s date: %w", id, err)
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return e, fmt.Errorf("event %s amount: %w", id, err)
	}
	if e.PreviousBalance, err = decimal.NewFromString(prev); err != nil {
		return e, fmt.Errorf("event %s previous_balance: %w", id, err)
	}
	if e.NewBalance, err = decimal.NewFromString(next); err != nil {
		return e, fmt.Errorf("event %s new_balance: %w", id, err)
	}
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

// eventArgs lists values in eventColumns order.
func eventArgs(e ledger.Event) []any {
	return []any{
		string(e.ID), string(e.LabourID), string(e.Kind), e.Date.String(), e.Amount.String(),
		e.PreviousBalance.String(), e.NewBalance.String(), string(e.Attendance),
		e.WorkType, e.Category, e.Subcategory, e.Notes,
		e.Mode, e.Narration, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	}
}

func optionalEvent(e ledger.Event, err error) (*ledger.Event, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// timeLayout is RFC3339 with a fixed nine-digit fraction so that text
// comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// rebindDollar rewrites ? placeholders as $1, $2, ... Question marks inside
// single-quoted literals are left alone.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
