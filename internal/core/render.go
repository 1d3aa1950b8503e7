package core

import (
	"context"

	"panelcore/pkg/screen"
)

// RenderDocument is the complete serialized description of one screen: the
// static layout and command bar, the queried data, and the navigation trail.
// Rendering the same definition against the same store state yields an
// identical document. Errors and Form are populated only on rejected
// dispatches, echoing the submitted values so clients re-render the form
// with inline errors instead of losing user input.
type RenderDocument struct {
	Screen      string                   `json:"screen"`
	Route       string                   `json:"route"`
	Description string                   `json:"description,omitempty"`
	Breadcrumbs []screen.MenuEntry       `json:"breadcrumbs,omitempty"`
	Layout      []screen.LayoutNode      `json:"layout"`
	CommandBar  []screen.ActionDescriptor `json:"command_bar"`
	Data        map[string]any           `json:"data"`
	Errors      []screen.ValidationError `json:"errors,omitempty"`
	Form        screen.Payload           `json:"form,omitempty"`
}

// Render resolves the screen bound to route and evaluates its query against
// a read-only store view.
func (s *Service) Render(ctx context.Context, route string) (RenderDocument, error) {
	def, ok := s.screens.Resolve(route)
	if !ok {
		return RenderDocument{}, screen.UnknownActionError{Route: route}
	}
	return s.render(ctx, def, nil, nil)
}

func (s *Service) render(ctx context.Context, def *screen.ScreenDefinition, errs []screen.ValidationError, form screen.Payload) (RenderDocument, error) {
	var data map[string]any
	err := s.store.View(ctx, func(view screen.TransactionView) error {
		var qerr error
		data, qerr = def.Query(ctx, view)
		return qerr
	})
	if err != nil {
		return RenderDocument{}, err
	}
	doc := RenderDocument{
		Screen:      def.Name(),
		Route:       def.Route(),
		Description: def.Description(),
		Layout:      def.Layout(),
		CommandBar:  def.CommandBar(),
		Data:        data,
		Errors:      errs,
		Form:        form,
	}
	if trail, err := s.nav.Breadcrumbs(def.Route()); err == nil {
		doc.Breadcrumbs = trail
	}
	return doc, nil
}
