package screen

import "fmt"

// Registry holds the screens declared for the process, keyed by route. Like
// the navigation registry it is assembled once at startup; the dispatcher
// only ever reads it.
type Registry struct {
	screens map[string]*ScreenDefinition
	order   []string
}

// NewRegistry constructs an empty screen registry.
func NewRegistry() *Registry {
	return &Registry{screens: make(map[string]*ScreenDefinition)}
}

// Register binds a screen definition to its route. A route maps to at most
// one screen.
func (r *Registry) Register(def *ScreenDefinition) error {
	if def == nil {
		return fmt.Errorf("screen definition cannot be nil")
	}
	if _, ok := r.screens[def.Route()]; ok {
		return fmt.Errorf("route %s already has a screen registered", def.Route())
	}
	r.screens[def.Route()] = def
	r.order = append(r.order, def.Route())
	return nil
}

// Resolve returns the screen bound to a route.
func (r *Registry) Resolve(route string) (*ScreenDefinition, bool) {
	def, ok := r.screens[route]
	return def, ok
}

// Routes lists registered routes in registration order.
func (r *Registry) Routes() []string {
	return append([]string(nil), r.order...)
}
