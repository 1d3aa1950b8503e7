package screen

import "fmt"

// ValidationError reports a field value that failed a validation rule. It is
// returned before any handler runs; a dispatch that produces one leaves the
// store untouched.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("field %s failed rule %s: %s", e.Field, e.Rule, e.Message)
}

// NotFoundError is returned when a record lookup or mutation references an
// identifier absent from the store. Deleting an already-removed record
// surfaces this error rather than succeeding silently.
type NotFoundError struct {
	Entity Entity
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// UnknownActionError is returned when a dispatch names a route with no
// registered screen or an action absent from the screen's command bar.
type UnknownActionError struct {
	Route  string
	Action string
}

func (e UnknownActionError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("no screen registered for route %s", e.Route)
	}
	return fmt.Sprintf("screen %s has no action %s", e.Route, e.Action)
}

// ConfirmationRequiredError is returned when a destructive action is invoked
// without the explicit confirmation flag in its payload.
type ConfirmationRequiredError struct {
	Action string
}

func (e ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("action %s is destructive and requires confirmation", e.Action)
}

// ConflictError is returned when a mutation carries a stale version token:
// another writer committed first. The losing edit is discarded entirely.
type ConflictError struct {
	Entity   Entity
	ID       string
	Expected int64
	Actual   int64
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s modified concurrently: expected version %d, have %d", e.Entity, e.ID, e.Expected, e.Actual)
}
