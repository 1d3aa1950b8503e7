package screen

// ActionDescriptor declaratively describes one command-bar button: its
// presentation, the handler it binds to, the fields it submits, and whether
// it is destructive. Destructive actions never execute without an explicit
// confirmation flag in the payload.
type ActionDescriptor struct {
	// Name is the wire identifier used in dispatch requests.
	Name string `json:"name"`
	// Handler names the screen-registered function invoked on dispatch.
	// Defaults to Name when left empty at build time.
	Handler string `json:"handler"`
	Label   string `json:"label"`
	Icon    string `json:"icon,omitempty"`
	// TargetModal references a named modal layout node opened by the client
	// before submission, e.g. a creation form.
	TargetModal string `json:"target_modal,omitempty"`
	Destructive bool   `json:"destructive,omitempty"`
	// Fields lists the field paths validated against the screen's descriptors
	// before the handler runs.
	Fields []FieldPath `json:"fields,omitempty"`
}

func cloneActions(actions []ActionDescriptor) []ActionDescriptor {
	out := make([]ActionDescriptor, len(actions))
	copy(out, actions)
	for i := range out {
		out[i].Fields = append([]FieldPath(nil), actions[i].Fields...)
	}
	return out
}
