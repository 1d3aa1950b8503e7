package screen

import "context"

// Filter narrows a record listing. Both conditions are optional and combined
// with AND; a nil filter matches everything. Listing walks a cloned snapshot,
// so repeated evaluation is restartable and carries no cursor state.
type Filter struct {
	// Equals matches records whose named fields equal the given values.
	Equals map[string]any
	// Match is an arbitrary predicate applied after Equals.
	Match func(Record) bool
}

// Matches reports whether the filter accepts the record.
func (f *Filter) Matches(r Record) bool {
	if f == nil {
		return true
	}
	for name, want := range f.Equals {
		got, ok := r.Fields[name]
		if !ok || got != want {
			return false
		}
	}
	if f.Match != nil && !f.Match(r) {
		return false
	}
	return true
}

// TransactionView provides read-only access to snapshot state. Screen queries
// run against a view and can only read.
type TransactionView interface {
	ListRecords(entity Entity, filter *Filter) []Record
	FindRecord(entity Entity, id string) (Record, bool)
}

// Transaction exposes the mutations a persistence implementation must support
// within an atomic scope. expectedVersion zero disables conflict checking;
// any other value must match the stored record's version or the mutation
// fails with ConflictError.
type Transaction interface {
	Snapshot() TransactionView
	CreateRecord(entity Entity, fields map[string]any) (Record, error)
	UpdateRecord(entity Entity, id string, expectedVersion int64, mutator func(*Record) error) (Record, error)
	DeleteRecord(entity Entity, id string, expectedVersion int64) error
}

// PersistentStore is the minimal abstraction over durable backends. A
// transaction either commits in full or leaves the store unchanged;
// RunInTransaction returns the committed change set.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) ([]Change, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetRecord(entity Entity, id string) (Record, bool)
	ListRecords(entity Entity, filter *Filter) []Record
}
