package screen

import (
	"context"
	"fmt"
)

// QueryFunc pulls the data a screen displays from a read-only store view.
// It is re-evaluated on every render and must not mutate anything.
type QueryFunc func(ctx context.Context, view TransactionView) (map[string]any, error)

// ActionHandler executes one command-bar action inside a store transaction.
// Returning an error rolls the whole transaction back.
type ActionHandler func(ctx context.Context, tx Transaction, payload Payload) error

// ScreenDefinition composes a query, a layout, and a command bar into one
// renderable unit bound to a route. Definitions are built once at
// configuration time and are immutable for the process lifetime.
type ScreenDefinition struct {
	name        string
	route       string
	description string
	query       QueryFunc
	layout      []LayoutNode
	commandBar  []ActionDescriptor
	handlers    map[string]ActionHandler
	fields      map[string]FieldDescriptor
}

// Name returns the human-readable screen name.
func (d *ScreenDefinition) Name() string { return d.name }

// Route returns the route the screen is bound to.
func (d *ScreenDefinition) Route() string { return d.route }

// Description returns the screen description.
func (d *ScreenDefinition) Description() string { return d.description }

// Query evaluates the screen's data query against a store view.
func (d *ScreenDefinition) Query(ctx context.Context, view TransactionView) (map[string]any, error) {
	if d.query == nil {
		return map[string]any{}, nil
	}
	return d.query(ctx, view)
}

// Layout returns a copy of the ordered layout description.
func (d *ScreenDefinition) Layout() []LayoutNode { return cloneLayout(d.layout) }

// CommandBar returns a copy of the ordered action descriptors.
func (d *ScreenDefinition) CommandBar() []ActionDescriptor { return cloneActions(d.commandBar) }

// Action resolves a command-bar action by wire name.
func (d *ScreenDefinition) Action(name string) (ActionDescriptor, bool) {
	for _, a := range d.commandBar {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDescriptor{}, false
}

// Handler resolves a registered action handler by handler name.
func (d *ScreenDefinition) Handler(name string) (ActionHandler, bool) {
	h, ok := d.handlers[name]
	return h, ok
}

// Field resolves the descriptor declared for a field path anywhere in the
// layout.
func (d *ScreenDefinition) Field(path FieldPath) (FieldDescriptor, bool) {
	fd, ok := d.fields[path.String()]
	return fd, ok
}

// Builder assembles a ScreenDefinition. The declarative configuration style
// mirrors how screens are described in admin-panel tutorials: a method per
// concern, composed once at startup.
type Builder struct {
	def  ScreenDefinition
	errs []error
}

// NewScreen starts a builder for a screen bound to the given route.
func NewScreen(name, route string) *Builder {
	return &Builder{def: ScreenDefinition{
		name:     name,
		route:    route,
		handlers: make(map[string]ActionHandler),
		fields:   make(map[string]FieldDescriptor),
	}}
}

// Describe sets the screen description.
func (b *Builder) Describe(description string) *Builder {
	b.def.description = description
	return b
}

// Query sets the data query.
func (b *Builder) Query(fn QueryFunc) *Builder {
	b.def.query = fn
	return b
}

// Layout appends layout nodes in order and indexes their field descriptors.
func (b *Builder) Layout(nodes ...LayoutNode) *Builder {
	for _, node := range nodes {
		b.def.layout = append(b.def.layout, node)
		for _, fd := range node.Fields {
			key := fd.Path.String()
			if _, exists := b.def.fields[key]; exists {
				continue
			}
			b.def.fields[key] = fd
		}
	}
	return b
}

// Action appends a command-bar action and binds its handler. An empty
// Handler name defaults to the action name.
func (b *Builder) Action(desc ActionDescriptor, handler ActionHandler) *Builder {
	if desc.Handler == "" {
		desc.Handler = desc.Name
	}
	if _, exists := b.def.handlers[desc.Handler]; exists {
		b.errs = append(b.errs, fmt.Errorf("handler %s bound twice", desc.Handler))
	}
	b.def.commandBar = append(b.def.commandBar, desc)
	b.def.handlers[desc.Handler] = handler
	return b
}

// Build validates the configuration and returns the immutable definition.
func (b *Builder) Build() (*ScreenDefinition, error) {
	if b.def.name == "" {
		b.errs = append(b.errs, fmt.Errorf("screen name cannot be empty"))
	}
	if b.def.route == "" {
		b.errs = append(b.errs, fmt.Errorf("screen %s: route cannot be empty", b.def.name))
	}
	seen := make(map[string]struct{}, len(b.def.commandBar))
	for _, a := range b.def.commandBar {
		if a.Name == "" {
			b.errs = append(b.errs, fmt.Errorf("screen %s: action name cannot be empty", b.def.name))
			continue
		}
		if _, dup := seen[a.Name]; dup {
			b.errs = append(b.errs, fmt.Errorf("screen %s: duplicate action %s", b.def.name, a.Name))
		}
		seen[a.Name] = struct{}{}
		if _, ok := b.def.handlers[a.Handler]; !ok {
			b.errs = append(b.errs, fmt.Errorf("screen %s: action %s references unbound handler %s", b.def.name, a.Name, a.Handler))
		}
		for _, path := range a.Fields {
			if _, ok := b.def.fields[path.String()]; !ok {
				b.errs = append(b.errs, fmt.Errorf("screen %s: action %s references undeclared field %s", b.def.name, a.Name, path))
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("screen configuration invalid: %w", b.errs[0])
	}
	def := b.def
	return &def, nil
}
