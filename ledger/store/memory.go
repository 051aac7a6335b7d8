// Package store provides in-process ledger.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/labour-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	labours map[ledger.LabourID]ledger.Labour
	events  map[ledger.EventID]ledger.Event
}

func NewMemory() *Memory {
	return &Memory{
		labours: make(map[ledger.LabourID]ledger.Labour),
		events:  make(map[ledger.EventID]ledger.Event),
	}
}

// Reset drops every labour and event.
func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labours = make(map[ledger.LabourID]ledger.Labour)
	m.events = make(map[ledger.EventID]ledger.Event)
	return nil
}

func (m *Memory) GetLabour(_ context.Context, id ledger.LabourID) (*ledger.Labour, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLabour(id)
}

func (m *Memory) ListLabours(_ context.Context, activeOnly bool) ([]ledger.Labour, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLabours(activeOnly), nil
}

func (m *Memory) CreateLabour(_ context.Context, l ledger.Labour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLabour(l)
}

func (m *Memory) UpdateLabour(_ context.Context, l ledger.Labour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLabour(l)
}

func (m *Memory) SetBalance(_ context.Context, id ledger.LabourID, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setBalance(id, balance)
}

func (m *Memory) GetEvent(_ context.Context, id ledger.EventID) (*ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEvent(id)
}

func (m *Memory) EventsForLabour(_ context.Context, labourID ledger.LabourID, from *ledger.Date) ([]ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eventsForLabour(labourID, from), nil
}

func (m *Memory) LastEntryBefore(_ context.Context, labourID ledger.LabourID, before ledger.Date) (*ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastEntryBefore(labourID, before), nil
}

func (m *Memory) EntryOn(_ context.Context, labourID ledger.LabourID, date ledger.Date) (*ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entryOn(labourID, date), nil
}

func (m *Memory) InsertEvent(_ context.Context, e ledger.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertEvent(e)
}

func (m *Memory) UpdateEvent(_ context.Context, e ledger.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateEvent(e)
}

func (m *Memory) DeleteEvent(_ context.Context, id ledger.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteEvent(id)
}

func (m *Memory) DeleteLabourEvents(_ context.Context, labourID ledger.LabourID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLabourEvents(labourID)
	return nil
}

// =============================================================================
// LOCKED OPERATIONS - Caller holds mu
// =============================================================================

func (m *Memory) getLabour(id ledger.LabourID) (*ledger.Labour, error) {
	l, ok := m.labours[id]
	if !ok {
		return nil, ledger.ErrLabourNotFound
	}
	return &l, nil
}

func (m *Memory) listLabours(activeOnly bool) []ledger.Labour {
	var out []ledger.Labour
	for _, l := range m.labours {
		if activeOnly && !l.Active {
			continue
		}
		out = append(out, l)
	}
	sortLabours(out)
	return out
}

func (m *Memory) createLabour(l ledger.Labour) error {
	if _, ok := m.labours[l.ID]; ok {
		return &ledger.ValidationError{Field: "id", Message: "labour already exists"}
	}
	m.labours[l.ID] = l
	return nil
}

func (m *Memory) updateLabour(l ledger.Labour) error {
	if _, ok := m.labours[l.ID]; !ok {
		return ledger.ErrLabourNotFound
	}
	m.labours[l.ID] = l
	return nil
}

func (m *Memory) setBalance(id ledger.LabourID, balance decimal.Decimal) error {
	l, ok := m.labours[id]
	if !ok {
		return ledger.ErrLabourNotFound
	}
	l.Balance = balance
	m.labours[id] = l
	return nil
}

func (m *Memory) getEvent(id ledger.EventID) (*ledger.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, ledger.ErrEventNotFound
	}
	return &e, nil
}

func (m *Memory) eventsForLabour(labourID ledger.LabourID, from *ledger.Date) []ledger.Event {
	var out []ledger.Event
	for _, e := range m.events {
		if e.LabourID != labourID {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		out = append(out, e)
	}
	ledger.SortEvents(out)
	return out
}

func (m *Memory) lastEntryBefore(labourID ledger.LabourID, before ledger.Date) *ledger.Event {
	var last *ledger.Event
	for _, e := range m.events {
		if e.LabourID != labourID || !e.IsWork() || !e.Date.Before(before) {
			continue
		}
		if last == nil || ledger.Less(*last, e) {
			e := e
			last = &e
		}
	}
	return last
}

func (m *Memory) entryOn(labourID ledger.LabourID, date ledger.Date) *ledger.Event {
	for _, e := range m.events {
		if e.LabourID == labourID && e.IsWork() && e.Date.Equal(date) {
			return &e
		}
	}
	return nil
}

func (m *Memory) insertEvent(e ledger.Event) error {
	if _, ok := m.labours[e.LabourID]; !ok {
		return ledger.ErrLabourNotFound
	}
	if _, ok := m.events[e.ID]; ok {
		return &ledger.ValidationError{Field: "id", Message: "event already exists"}
	}
	if err := m.checkUnique(e); err != nil {
		return err
	}
	m.events[e.ID] = e
	return nil
}

func (m *Memory) updateEvent(e ledger.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return ledger.ErrEventNotFound
	}
	if err := m.checkUnique(e); err != nil {
		return err
	}
	m.events[e.ID] = e
	return nil
}

func (m *Memory) deleteEvent(id ledger.EventID) error {
	if _, ok := m.events[id]; !ok {
		return ledger.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *Memory) deleteLabourEvents(labourID ledger.LabourID) {
	for id, e := range m.events {
		if e.LabourID == labourID {
			delete(m.events, id)
		}
	}
}

// checkUnique enforces one work entry per labour per date.
func (m *Memory) checkUnique(e ledger.Event) error {
	if !e.IsWork() {
		return nil
	}
	if other := m.entryOn(e.LabourID, e.Date); other != nil && other.ID != e.ID {
		return &ledger.DuplicateEntryError{LabourID: e.LabourID, Date: e.Date, ExistingID: other.ID}
	}
	return nil
}

func sortLabours(ls []ledger.Labour) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].Name != ls[j].Name {
			return ls[i].Name < ls[j].Name
		}
		return ls[i].ID < ls[j].ID
	})
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()
	if err := fn(&txMemoryView{parent: tm.Memory}); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	labours map[ledger.LabourID]ledger.Labour
	events  map[ledger.EventID]ledger.Event
}

func (tm *TxMemory) snapshot() memorySnapshot {
	s := memorySnapshot{
		labours: make(map[ledger.LabourID]ledger.Labour, len(tm.labours)),
		events:  make(map[ledger.EventID]ledger.Event, len(tm.events)),
	}
	for k, v := range tm.labours {
		s.labours[k] = v
	}
	for k, v := range tm.events {
		s.events[k] = v
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.labours = s.labours
	tm.events = s.events
}

// txMemoryView runs against the parent while WithTx holds its lock.
type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) GetLabour(_ context.Context, id ledger.LabourID) (*ledger.Labour, error) {
	return tv.parent.getLabour(id)
}

func (tv *txMemoryView) ListLabours(_ context.Context, activeOnly bool) ([]ledger.Labour, error) {
	return tv.parent.listLabours(activeOnly), nil
}

func (tv *txMemoryView) CreateLabour(_ context.Context, l ledger.Labour) error {
	return tv.parent.createLabour(l)
}

func (tv *txMemoryView) UpdateLabour(_ context.Context, l ledger.Labour) error {
	return tv.parent.updateLabour(l)
}

func (tv *txMemoryView) SetBalance(_ context.Context, id ledger.LabourID, balance decimal.Decimal) error {
	return tv.parent.setBalance(id, balance)
}

func (tv *txMemoryView) GetEvent(_ context.Context, id ledger.EventID) (*ledger.Event, error) {
	return tv.parent.getEvent(id)
}

func (tv *txMemoryView) EventsForLabour(_ context.Context, labourID ledger.LabourID, from *ledger.Date) ([]ledger.Event, error) {
	return tv.parent.eventsForLabour(labourID, from), nil
}

func (tv *txMemoryView) LastEntryBefore(_ context.Context, labourID ledger.LabourID, before ledger.Date) (*ledger.Event, error) {
	return tv.parent.lastEntryBefore(labourID, before), nil
}

func (tv *txMemoryView) EntryOn(_ context.Context, labourID ledger.LabourID, date ledger.Date) (*ledger.Event, error) {
	return tv.parent.entryOn(labourID, date), nil
}

func (tv *txMemoryView) InsertEvent(_ context.Context, e ledger.Event) error {
	return tv.parent.insertEvent(e)
}

func (tv *txMemoryView) UpdateEvent(_ context.Context, e ledger.Event) error {
	return tv.parent.updateEvent(e)
}

func (tv *txMemoryView) DeleteEvent(_ context.Context, id ledger.EventID) error {
	return tv.parent.deleteEvent(id)
}

func (tv *txMemoryView) DeleteLabourEvents(_ context.Context, labourID ledger.LabourID) error {
	tv.parent.deleteLabourEvents(labourID)
	return nil
}

var (
	_ ledger.TxStore = (*TxMemory)(nil)
	_ ledger.Store   = (*txMemoryView)(nil)
)
