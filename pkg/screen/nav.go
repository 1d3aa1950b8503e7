package screen

import "fmt"

// MenuEntry registers a screen route in the navigation tree. Parent refers to
// another entry's route; empty means top level.
type MenuEntry struct {
	Label  string `json:"label"`
	Icon   string `json:"icon,omitempty"`
	Route  string `json:"route"`
	Parent string `json:"parent,omitempty"`
}

// NavRegistry is the process-wide navigation registry: menu entries and the
// breadcrumb trails derived from them. It is populated during startup and
// read-only afterwards. Parents must be registered before their children,
// which makes cycles unrepresentable.
type NavRegistry struct {
	entries map[string]MenuEntry
	order   []string
}

// NewNavRegistry constructs an empty navigation registry.
func NewNavRegistry() *NavRegistry {
	return &NavRegistry{entries: make(map[string]MenuEntry)}
}

// Register adds a menu entry keyed by route. Each route maps to at most one
// entry, and the parent route must already be registered.
func (n *NavRegistry) Register(entry MenuEntry) error {
	if entry.Route == "" {
		return fmt.Errorf("menu entry route cannot be empty")
	}
	if _, ok := n.entries[entry.Route]; ok {
		return fmt.Errorf("menu entry for route %s already registered", entry.Route)
	}
	if entry.Parent != "" {
		if entry.Parent == entry.Route {
			return fmt.Errorf("menu entry %s cannot be its own parent", entry.Route)
		}
		if _, ok := n.entries[entry.Parent]; !ok {
			return fmt.Errorf("menu entry %s references unregistered parent %s", entry.Route, entry.Parent)
		}
	}
	n.entries[entry.Route] = entry
	n.order = append(n.order, entry.Route)
	return nil
}

// Menu lists entries in registration order, the only ordering guarantee the
// registry makes.
func (n *NavRegistry) Menu() []MenuEntry {
	out := make([]MenuEntry, 0, len(n.order))
	for _, route := range n.order {
		out = append(out, n.entries[route])
	}
	return out
}

// Lookup returns the entry registered for a route.
func (n *NavRegistry) Lookup(route string) (MenuEntry, bool) {
	e, ok := n.entries[route]
	return e, ok
}

// Breadcrumbs returns the trail from the top-level ancestor down to the
// given route.
func (n *NavRegistry) Breadcrumbs(route string) ([]MenuEntry, error) {
	entry, ok := n.entries[route]
	if !ok {
		return nil, fmt.Errorf("no menu entry for route %s", route)
	}
	var trail []MenuEntry
	for {
		trail = append([]MenuEntry{entry}, trail...)
		if entry.Parent == "" {
			return trail, nil
		}
		parent, ok := n.entries[entry.Parent]
		if !ok {
			return nil, fmt.Errorf("menu entry %s has dangling parent %s", entry.Route, entry.Parent)
		}
		entry = parent
	}
}
