package core

import (
	"context"
	"errors"
	"time"

	"panelcore/pkg/screen"
)

// DispatchState tracks the lifecycle of one action dispatch. A dispatch moves
// Idle -> Validating and then either through Executing to Committed, or
// directly to Rejected. Rejected dispatches leave the store untouched.
type DispatchState string

const (
	StateIdle       DispatchState = "idle"
	StateValidating DispatchState = "validating"
	StateExecuting  DispatchState = "executing"
	StateCommitted  DispatchState = "committed"
	StateRejected   DispatchState = "rejected"
)

// DispatchResult reports the terminal state of one dispatch. Committed
// results carry the transaction's change set and a fresh render of the
// screen; rejected results carry the validation errors and a re-render that
// echoes the submitted form values.
type DispatchResult struct {
	State   DispatchState            `json:"state"`
	Route   string                   `json:"route"`
	Action  string                   `json:"action"`
	Errors  []screen.ValidationError `json:"errors,omitempty"`
	Changes []screen.Change          `json:"changes,omitempty"`
	Render  *RenderDocument          `json:"render,omitempty"`
}

// Dispatch runs one command-bar action against the screen bound to route.
//
// The action's declared fields are validated against the screen's field
// descriptors before any handler runs; any rule failure rejects the dispatch
// with the full error list and no store mutation. Destructive actions are
// rejected with ConfirmationRequiredError unless the payload carries the
// explicit confirmation flag. The handler itself runs inside a single store
// transaction: it either commits all of its record mutations or none.
func (s *Service) Dispatch(ctx context.Context, route, action string, payload screen.Payload) (DispatchResult, error) {
	started := time.Now()
	result, err := s.dispatch(ctx, route, action, payload)
	s.metrics.Observe(ctx, "dispatch", err == nil && result.State == StateCommitted, time.Since(started))
	return result, err
}

func (s *Service) dispatch(ctx context.Context, route, action string, payload screen.Payload) (DispatchResult, error) {
	result := DispatchResult{State: StateIdle, Route: route, Action: action}

	def, ok := s.screens.Resolve(route)
	if !ok {
		result.State = StateRejected
		return result, screen.UnknownActionError{Route: route}
	}
	desc, ok := def.Action(action)
	if !ok {
		result.State = StateRejected
		return result, screen.UnknownActionError{Route: route, Action: action}
	}

	result.State = StateValidating
	if desc.Destructive && !payload.Confirmed() {
		result.State = StateRejected
		return result, screen.ConfirmationRequiredError{Action: action}
	}

	if errs := validateFields(def, desc, payload); len(errs) > 0 {
		result.State = StateRejected
		result.Errors = errs
		doc, rerr := s.render(ctx, def, errs, payload.Clone())
		if rerr != nil {
			return result, rerr
		}
		result.Render = &doc
		return result, nil
	}

	handler, ok := def.Handler(desc.Handler)
	if !ok {
		result.State = StateRejected
		return result, screen.UnknownActionError{Route: route, Action: action}
	}

	result.State = StateExecuting
	changes, err := s.store.RunInTransaction(ctx, func(tx screen.Transaction) error {
		return handler(ctx, tx, payload)
	})
	if err != nil {
		result.State = StateRejected
		if verr, ok := asValidationError(err); ok {
			result.Errors = []screen.ValidationError{verr}
			doc, rerr := s.render(ctx, def, result.Errors, payload.Clone())
			if rerr != nil {
				return result, rerr
			}
			result.Render = &doc
			return result, nil
		}
		return result, err
	}

	result.State = StateCommitted
	result.Changes = changes
	doc, err := s.render(ctx, def, nil, nil)
	if err != nil {
		return result, err
	}
	result.Render = &doc
	return result, nil
}

// validateFields checks every field the action declares against the screen's
// descriptors and collects all failures, so a rejected form reports every
// problem at once rather than the first.
func validateFields(def *screen.ScreenDefinition, desc screen.ActionDescriptor, payload screen.Payload) []screen.ValidationError {
	var errs []screen.ValidationError
	for _, path := range desc.Fields {
		fd, ok := def.Field(path)
		if !ok {
			continue
		}
		value, _ := payload.Value(path)
		if verr := fd.Validate(value); verr != nil {
			errs = append(errs, *verr)
		}
	}
	return errs
}

func asValidationError(err error) (screen.ValidationError, bool) {
	var verr screen.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return screen.ValidationError{}, false
}
