// Package core wires screen definitions, navigation, and the persistent
// record store into the dispatch service behind the HTTP boundary.
package core

import (
	"context"
	"fmt"

	"panelcore/internal/infra/persistence/memory"
	"panelcore/pkg/screen"
)

// Service exposes screen rendering and action dispatch over a persistent
// record store. Screens and navigation are registered at startup; afterwards
// the service is safe for concurrent use.
type Service struct {
	store   PersistentStore
	screens *screen.Registry
	nav     *screen.NavRegistry
	metrics MetricsRecorder
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches a metrics recorder; the default discards observations.
func WithMetrics(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		screens: screen.NewRegistry(),
		nav:     screen.NewNavRegistry(),
		metrics: NoopMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store enforcing
// the given schemas. Intended for tests and ephemeral environments.
func NewInMemoryService(schemas *screen.SchemaSet, opts ...Option) *Service {
	return NewService(memory.NewStore(schemas), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Screens returns the screen registry.
func (s *Service) Screens() *screen.Registry {
	return s.screens
}

// Nav returns the navigation registry.
func (s *Service) Nav() *screen.NavRegistry {
	return s.nav
}

// RegisterScreen binds a screen definition to its route and, when menu is
// non-nil, registers the matching navigation entry.
func (s *Service) RegisterScreen(def *screen.ScreenDefinition, menu *screen.MenuEntry) error {
	if err := s.screens.Register(def); err != nil {
		return err
	}
	if menu != nil {
		if menu.Route != def.Route() {
			return fmt.Errorf("menu entry route %s does not match screen route %s", menu.Route, def.Route())
		}
		if err := s.nav.Register(*menu); err != nil {
			return err
		}
	}
	return nil
}

// Menu lists the registered navigation entries in registration order.
func (s *Service) Menu() []screen.MenuEntry {
	return s.nav.Menu()
}

// Breadcrumbs returns the navigation trail for a route.
func (s *Service) Breadcrumbs(route string) ([]screen.MenuEntry, error) {
	return s.nav.Breadcrumbs(route)
}

// RunInTransaction exposes the store's transactional scope for callers that
// mutate records outside a screen action, e.g. seeding fixtures.
func (s *Service) RunInTransaction(ctx context.Context, fn func(screen.Transaction) error) ([]screen.Change, error) {
	return s.store.RunInTransaction(ctx, fn)
}
