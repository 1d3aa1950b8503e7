// Package screen defines the declarative building blocks of the admin panel:
// records and their schemas, field and action descriptors, screen definitions,
// navigation entries, and the error taxonomy shared by every layer.
package screen

import "time"

// Entity names a record bucket within a store, e.g. "task".
type Entity string

// Base contains the common identity and bookkeeping fields of every record.
// The ID is assigned at creation and immutable afterwards. Version starts at 1
// and increments on every committed update; it is the token used for
// concurrent-edit conflict detection.
type Base struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record is a named entity instance: an identifier plus a mapping of field
// name to value.
type Record struct {
	Base
	Entity Entity         `json:"entity"`
	Fields map[string]any `json:"fields"`
}

// Field returns the named field value, nil when absent.
func (r Record) Field(name string) any {
	return r.Fields[name]
}

// Clone returns a deep copy of the record's field map so callers cannot
// mutate committed state through a returned record.
func (r Record) Clone() Record {
	cp := r
	if r.Fields != nil {
		cp.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			cp.Fields[k] = v
		}
	}
	return cp
}

// Action indicates the type of modification performed in a change entry.
type Action string

// Change actions enumerate the store mutations captured per transaction.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes one mutation applied to a record during a transaction.
// Committed dispatch results carry the change set for auditing.
type Change struct {
	Entity Entity  `json:"entity"`
	Action Action  `json:"action"`
	ID     string  `json:"id"`
	Before *Record `json:"before,omitempty"`
	After  *Record `json:"after,omitempty"`
}
