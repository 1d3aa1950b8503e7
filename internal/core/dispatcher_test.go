package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"panelcore/internal/core"
	"panelcore/pkg/screen"
	"panelcore/screens/tasks"
)

func newTaskService(t *testing.T) *core.Service {
	t.Helper()
	schemas := screen.NewSchemaSet()
	if err := schemas.Register(tasks.Schema()); err != nil {
		t.Fatalf("register schema: %v", err)
	}
	svc := core.NewInMemoryService(schemas)
	def, err := tasks.Definition()
	if err != nil {
		t.Fatalf("build screen: %v", err)
	}
	if err := svc.RegisterScreen(def, tasks.Menu()); err != nil {
		t.Fatalf("register screen: %v", err)
	}
	return svc
}

func createTask(t *testing.T, svc *core.Service, name string) screen.Record {
	t.Helper()
	res, err := svc.Dispatch(context.Background(), tasks.Route, "create-task", screen.Payload{
		"task.name": name,
	})
	if err != nil {
		t.Fatalf("create dispatch: %v", err)
	}
	if res.State != core.StateCommitted {
		t.Fatalf("expected committed, got %s", res.State)
	}
	if len(res.Changes) != 1 || res.Changes[0].After == nil {
		t.Fatalf("expected one create change, got %+v", res.Changes)
	}
	return *res.Changes[0].After
}

func taskRows(t *testing.T, svc *core.Service) []map[string]any {
	t.Helper()
	doc, err := svc.Render(context.Background(), tasks.Route)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	rows, ok := doc.Data["tasks"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape %T", doc.Data["tasks"])
	}
	return rows
}

func TestDispatchCreateCommitsExactlyOnce(t *testing.T) {
	svc := newTaskService(t)
	rec := createTask(t, svc, "write report")
	if rec.Field("name") != "write report" {
		t.Fatalf("unexpected name %v", rec.Field("name"))
	}
	if rec.Field("active") != true {
		t.Fatalf("schema default not applied: %v", rec.Field("active"))
	}
	if got := len(taskRows(t, svc)); got != 1 {
		t.Fatalf("expected exactly one task after commit, got %d", got)
	}
}

func TestDispatchValidationRejectsAndPreservesForm(t *testing.T) {
	svc := newTaskService(t)
	payload := screen.Payload{
		"task.name":        "",
		"task.description": "kept across the rejection",
	}
	res, err := svc.Dispatch(context.Background(), tasks.Route, "create-task", payload)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.State != core.StateRejected {
		t.Fatalf("expected rejected, got %s", res.State)
	}
	if len(res.Errors) != 1 || res.Errors[0].Field != "task.name" || res.Errors[0].Rule != "required" {
		t.Fatalf("unexpected errors %+v", res.Errors)
	}
	if res.Render == nil {
		t.Fatal("rejected dispatch must carry a re-render")
	}
	if res.Render.Form["task.description"] != "kept across the rejection" {
		t.Fatalf("submitted values must be echoed back, got %+v", res.Render.Form)
	}
	if len(res.Render.Errors) != 1 {
		t.Fatalf("render must carry inline errors, got %+v", res.Render.Errors)
	}
	if got := len(taskRows(t, svc)); got != 0 {
		t.Fatalf("rejected dispatch must not mutate the store, found %d rows", got)
	}
}

func TestDispatchCollectsAllRuleFailures(t *testing.T) {
	svc := newTaskService(t)
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	res, err := svc.Dispatch(context.Background(), tasks.Route, "create-task", screen.Payload{
		"task.name":   string(long),
		"task.active": "yes",
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.State != core.StateRejected {
		t.Fatalf("expected rejected, got %s", res.State)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected both failures reported, got %+v", res.Errors)
	}
}

func TestDispatchUnknownRouteAndAction(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.Dispatch(context.Background(), "nope", "create-task", screen.Payload{})
	var uerr screen.UnknownActionError
	if !errors.As(err, &uerr) || uerr.Route != "nope" {
		t.Fatalf("expected UnknownActionError for route, got %v", err)
	}

	_, err = svc.Dispatch(context.Background(), tasks.Route, "nope", screen.Payload{})
	if !errors.As(err, &uerr) || uerr.Action != "nope" {
		t.Fatalf("expected UnknownActionError for action, got %v", err)
	}
}

func TestDestructiveActionRequiresConfirmation(t *testing.T) {
	svc := newTaskService(t)
	rec := createTask(t, svc, "to be deleted")

	_, err := svc.Dispatch(context.Background(), tasks.Route, "delete-task", screen.Payload{
		screen.PayloadID: rec.ID,
	})
	var cerr screen.ConfirmationRequiredError
	if !errors.As(err, &cerr) || cerr.Action != "delete-task" {
		t.Fatalf("expected ConfirmationRequiredError, got %v", err)
	}
	if got := len(taskRows(t, svc)); got != 1 {
		t.Fatalf("unconfirmed destructive action must not mutate, found %d rows", got)
	}

	res, err := svc.Dispatch(context.Background(), tasks.Route, "delete-task", screen.Payload{
		screen.PayloadID:      rec.ID,
		screen.PayloadConfirm: true,
	})
	if err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if res.State != core.StateCommitted {
		t.Fatalf("expected committed, got %s", res.State)
	}
	if got := len(taskRows(t, svc)); got != 0 {
		t.Fatalf("expected empty listing after delete, got %d rows", got)
	}
}

func TestDeleteTwiceSurfacesNotFound(t *testing.T) {
	svc := newTaskService(t)
	rec := createTask(t, svc, "fleeting")
	payload := screen.Payload{screen.PayloadID: rec.ID, screen.PayloadConfirm: true}

	if _, err := svc.Dispatch(context.Background(), tasks.Route, "delete-task", payload); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	_, err := svc.Dispatch(context.Background(), tasks.Route, "delete-task", payload)
	var nferr screen.NotFoundError
	if !errors.As(err, &nferr) || nferr.ID != rec.ID {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestStaleVersionTokenConflicts(t *testing.T) {
	svc := newTaskService(t)
	rec := createTask(t, svc, "contested")

	// First edit wins and bumps the version.
	res, err := svc.Dispatch(context.Background(), tasks.Route, "complete-task", screen.Payload{
		screen.PayloadID:      rec.ID,
		screen.PayloadVersion: rec.Version,
	})
	if err != nil || res.State != core.StateCommitted {
		t.Fatalf("first edit: state=%s err=%v", res.State, err)
	}

	// Second edit still carries the original token and must lose.
	_, err = svc.Dispatch(context.Background(), tasks.Route, "complete-task", screen.Payload{
		screen.PayloadID:      rec.ID,
		screen.PayloadVersion: rec.Version,
	})
	var cerr screen.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.Expected != rec.Version || cerr.Actual != rec.Version+1 {
		t.Fatalf("unexpected conflict detail %+v", cerr)
	}
}

func TestConcurrentEditsExactlyOneWinner(t *testing.T) {
	svc := newTaskService(t)
	rec := createTask(t, svc, "raced")

	const writers = 8
	var wg sync.WaitGroup
	results := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Dispatch(context.Background(), tasks.Route, "complete-task", screen.Payload{
				screen.PayloadID:      rec.ID,
				screen.PayloadVersion: rec.Version,
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var cerr screen.ConflictError
			if !errors.As(err, &cerr) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			conflicts++
		}
	}
	if wins != 1 || conflicts != writers-1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d conflicts", wins, conflicts)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	svc := newTaskService(t)
	createTask(t, svc, "alpha")
	createTask(t, svc, "beta")

	first, err := svc.Render(context.Background(), tasks.Route)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := svc.Render(context.Background(), tasks.Route)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(first.Layout) != len(second.Layout) || len(first.CommandBar) != len(second.CommandBar) {
		t.Fatal("static structure must not vary between renders")
	}
	firstRows := first.Data["tasks"].([]map[string]any)
	secondRows := second.Data["tasks"].([]map[string]any)
	if len(firstRows) != len(secondRows) {
		t.Fatalf("row counts differ: %d vs %d", len(firstRows), len(secondRows))
	}
	for i := range firstRows {
		if firstRows[i]["id"] != secondRows[i]["id"] {
			t.Fatal("row order must be stable across renders")
		}
	}
}

func TestRenderIncludesBreadcrumbs(t *testing.T) {
	svc := newTaskService(t)
	doc, err := svc.Render(context.Background(), tasks.Route)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(doc.Breadcrumbs) != 1 || doc.Breadcrumbs[0].Route != tasks.Route {
		t.Fatalf("unexpected breadcrumbs %+v", doc.Breadcrumbs)
	}
	if len(svc.Menu()) != 1 {
		t.Fatalf("expected one menu entry, got %d", len(svc.Menu()))
	}
}

func TestMetricsObserveDispatchOutcomes(t *testing.T) {
	schemas := screen.NewSchemaSet()
	if err := schemas.Register(tasks.Schema()); err != nil {
		t.Fatalf("register schema: %v", err)
	}
	rec := core.NewExpvarMetricsRecorder("")
	svc := core.NewInMemoryService(schemas, core.WithMetrics(rec))
	def, err := tasks.Definition()
	if err != nil {
		t.Fatalf("build screen: %v", err)
	}
	if err := svc.RegisterScreen(def, nil); err != nil {
		t.Fatalf("register screen: %v", err)
	}

	if _, err := svc.Dispatch(context.Background(), tasks.Route, "create-task", screen.Payload{"task.name": "ok"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := svc.Dispatch(context.Background(), tasks.Route, "missing", screen.Payload{}); err == nil {
		t.Fatal("expected unknown action error")
	}

	snap := rec.Snapshot()
	if snap.Results["dispatch"]["success"] != 1 {
		t.Fatalf("expected one success observation, got %+v", snap.Results)
	}
	if snap.Results["dispatch"]["error"] != 1 {
		t.Fatalf("expected one error observation, got %+v", snap.Results)
	}
}
