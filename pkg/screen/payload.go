package screen

import "strconv"

// Reserved payload keys understood by the dispatcher itself rather than by
// field descriptors.
const (
	// PayloadConfirm must be true for destructive actions to proceed.
	PayloadConfirm = "confirm"
	// PayloadID targets an existing record for update or delete handlers.
	PayloadID = "id"
	// PayloadVersion carries the version token the client last rendered.
	PayloadVersion = "version"
)

// Payload holds the submitted values of one action invocation. Field values
// are keyed by dot-notation field paths ("task.name"); the reserved keys
// above address the invocation itself.
type Payload map[string]any

// Value returns the submitted value for a field path, nil when absent.
func (p Payload) Value(path FieldPath) (any, bool) {
	v, ok := p[path.String()]
	return v, ok
}

// Confirmed reports whether the explicit confirmation flag was submitted.
func (p Payload) Confirmed() bool {
	v, ok := p[PayloadConfirm].(bool)
	return ok && v
}

// RecordID returns the targeted record identifier, empty when absent.
func (p Payload) RecordID() string {
	s, _ := p[PayloadID].(string)
	return s
}

// VersionToken returns the submitted version token, or zero when the payload
// carries none. Zero disables conflict checking for the mutation. JSON
// decoding yields float64 numbers, so several numeric shapes are accepted.
func (p Payload) VersionToken() int64 {
	switch v := p[PayloadVersion].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// FieldValues extracts every submitted field belonging to the given entity,
// keyed by bare field name.
func (p Payload) FieldValues(entity Entity) map[string]any {
	out := make(map[string]any)
	for key, value := range p {
		path, err := ParseFieldPath(key)
		if err != nil || path.Entity != entity {
			continue
		}
		out[path.Field] = value
	}
	return out
}

// Clone returns a shallow copy so rejected dispatches can echo submitted
// values without sharing the caller's map.
func (p Payload) Clone() Payload {
	cp := make(Payload, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
