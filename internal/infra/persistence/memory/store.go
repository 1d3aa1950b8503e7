// Package memory provides the in-memory record store used for tests and
// ephemeral environments, and the transactional engine the durable backends
// snapshot from.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"panelcore/pkg/screen"
)

// Compile-time contract assertion ensuring the store satisfies the screen
// persistence interface.
var _ screen.PersistentStore = (*Store)(nil)

type state map[screen.Entity]map[string]screen.Record

func (s state) clone() state {
	cloned := make(state, len(s))
	for entity, bucket := range s {
		out := make(map[string]screen.Record, len(bucket))
		for id, rec := range bucket {
			out[id] = rec.Clone()
		}
		cloned[entity] = out
	}
	return cloned
}

func (s state) bucket(entity screen.Entity) map[string]screen.Record {
	bucket, ok := s[entity]
	if !ok {
		bucket = make(map[string]screen.Record)
		s[entity] = bucket
	}
	return bucket
}

// Snapshot is the serializable form of the full store state, used by the
// durable backends to persist and reload buckets as JSON.
type Snapshot map[screen.Entity][]screen.Record

// Store is a mutex-serialized, clone-on-write record store. Mutations run in
// a transaction over a cloned state that replaces the committed state only
// when the whole transaction succeeds.
type Store struct {
	mu      sync.RWMutex
	state   state
	schemas *screen.SchemaSet
	nowFn   func() time.Time
}

// NewStore constructs an empty store enforcing the given entity schemas.
func NewStore(schemas *screen.SchemaSet) *Store {
	return &Store{
		state:   make(state),
		schemas: schemas,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// RunInTransaction executes fn against a transactional copy of the state and
// commits it atomically. A context cancelled before commit discards the
// transaction entirely, guaranteeing no partial mutation on request timeout.
func (s *Store) RunInTransaction(ctx context.Context, fn func(screen.Transaction) error) ([]screen.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.state = tx.state
	return tx.changes, nil
}

// View executes fn against a read-only snapshot of the committed state.
func (s *Store) View(_ context.Context, fn func(screen.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(view{state: snapshot})
}

// GetRecord retrieves a record from committed state.
func (s *Store) GetRecord(entity screen.Entity, id string) (screen.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.state[entity][id]
	if !ok {
		return screen.Record{}, false
	}
	return rec.Clone(), true
}

// ListRecords lists committed records of one entity, filtered and ordered by
// creation time then ID so repeated listings are stable.
func (s *Store) ListRecords(entity screen.Entity, filter *screen.Filter) []screen.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listFrom(s.state, entity, filter)
}

// ExportState returns a serializable snapshot of every bucket.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(Snapshot, len(s.state))
	for entity := range s.state {
		snapshot[entity] = listFrom(s.state, entity, nil)
	}
	return snapshot
}

// ImportState replaces the committed state with the snapshot contents.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(state, len(snapshot))
	for entity, records := range snapshot {
		bucket := make(map[string]screen.Record, len(records))
		for _, rec := range records {
			rec.Entity = entity
			bucket[rec.ID] = rec.Clone()
		}
		next[entity] = bucket
	}
	s.state = next
}

// Schemas returns the schema set the store enforces.
func (s *Store) Schemas() *screen.SchemaSet {
	return s.schemas
}

func listFrom(st state, entity screen.Entity, filter *screen.Filter) []screen.Record {
	bucket := st[entity]
	out := make([]screen.Record, 0, len(bucket))
	for _, rec := range bucket {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type view struct {
	state state
}

func (v view) ListRecords(entity screen.Entity, filter *screen.Filter) []screen.Record {
	return listFrom(v.state, entity, filter)
}

func (v view) FindRecord(entity screen.Entity, id string) (screen.Record, bool) {
	rec, ok := v.state[entity][id]
	if !ok {
		return screen.Record{}, false
	}
	return rec.Clone(), true
}

type transaction struct {
	store   *Store
	state   state
	changes []screen.Change
	now     time.Time
}

func (tx *transaction) Snapshot() screen.TransactionView {
	return view{state: tx.state}
}

func (tx *transaction) record(change screen.Change) {
	tx.changes = append(tx.changes, change)
}

// CreateRecord assigns a new identifier, enforces the entity schema, and
// stores the record within the transaction.
func (tx *transaction) CreateRecord(entity screen.Entity, fields map[string]any) (screen.Record, error) {
	applied, err := tx.store.schemas.Apply(entity, fields)
	if err != nil {
		return screen.Record{}, err
	}
	rec := screen.Record{
		Base: screen.Base{
			ID:        tx.store.newID(),
			Version:   1,
			CreatedAt: tx.now,
			UpdatedAt: tx.now,
		},
		Entity: entity,
		Fields: applied,
	}
	tx.state.bucket(entity)[rec.ID] = rec.Clone()
	after := rec.Clone()
	tx.record(screen.Change{Entity: entity, Action: screen.ActionCreate, ID: rec.ID, After: &after})
	return rec.Clone(), nil
}

// UpdateRecord mutates a record through the provided mutator. A nonzero
// expectedVersion that disagrees with the stored version fails with
// ConflictError before the mutator runs.
func (tx *transaction) UpdateRecord(entity screen.Entity, id string, expectedVersion int64, mutator func(*screen.Record) error) (screen.Record, error) {
	current, ok := tx.state[entity][id]
	if !ok {
		return screen.Record{}, screen.NotFoundError{Entity: entity, ID: id}
	}
	if expectedVersion != 0 && current.Version != expectedVersion {
		return screen.Record{}, screen.ConflictError{Entity: entity, ID: id, Expected: expectedVersion, Actual: current.Version}
	}
	before := current.Clone()
	next := current.Clone()
	if err := mutator(&next); err != nil {
		return screen.Record{}, err
	}
	// Identity and lineage stay fixed regardless of what the mutator did.
	next.ID = id
	next.Entity = entity
	next.CreatedAt = current.CreatedAt
	applied, err := tx.store.schemas.Apply(entity, next.Fields)
	if err != nil {
		return screen.Record{}, err
	}
	next.Fields = applied
	next.Version = current.Version + 1
	next.UpdatedAt = tx.now
	tx.state.bucket(entity)[id] = next.Clone()
	after := next.Clone()
	tx.record(screen.Change{Entity: entity, Action: screen.ActionUpdate, ID: id, Before: &before, After: &after})
	return next.Clone(), nil
}

// DeleteRecord removes a record. Deleting an absent identifier fails with
// NotFoundError; repeated deletes are not idempotent.
func (tx *transaction) DeleteRecord(entity screen.Entity, id string, expectedVersion int64) error {
	current, ok := tx.state[entity][id]
	if !ok {
		return screen.NotFoundError{Entity: entity, ID: id}
	}
	if expectedVersion != 0 && current.Version != expectedVersion {
		return screen.ConflictError{Entity: entity, ID: id, Expected: expectedVersion, Actual: current.Version}
	}
	before := current.Clone()
	delete(tx.state[entity], id)
	tx.record(screen.Change{Entity: entity, Action: screen.ActionDelete, ID: id, Before: &before})
	return nil
}
