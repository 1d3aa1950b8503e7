package memory_test

import (
	"context"
	"errors"
	"testing"

	"panelcore/internal/infra/persistence/memory"
	"panelcore/pkg/screen"
)

func taskSchemas(t *testing.T) *screen.SchemaSet {
	t.Helper()
	schemas := screen.NewSchemaSet()
	if err := schemas.Register(screen.EntitySchema{
		Entity: "task",
		Fields: []screen.FieldSpec{
			{Name: "name", Required: true},
			{Name: "description"},
			{Name: "active", Default: true},
		},
	}); err != nil {
		t.Fatalf("register schema: %v", err)
	}
	return schemas
}

func mustCreate(t *testing.T, store *memory.Store, entity screen.Entity, fields map[string]any) screen.Record {
	t.Helper()
	var created screen.Record
	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		rec, err := tx.CreateRecord(entity, fields)
		if err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return created
}

func TestCreateAssignsIdentityAndDefaults(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	rec := mustCreate(t, store, "task", map[string]any{"name": "ship release"})
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}
	if rec.Version != 1 {
		t.Fatalf("expected version 1, got %d", rec.Version)
	}
	if got := rec.Field("active"); got != true {
		t.Fatalf("expected default active=true, got %v", got)
	}
	stored, ok := store.GetRecord("task", rec.ID)
	if !ok {
		t.Fatal("record not retrievable after commit")
	}
	if stored.Field("name") != "ship release" {
		t.Fatalf("unexpected stored name %v", stored.Field("name"))
	}
}

func TestCreateMissingRequiredField(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		_, err := tx.CreateRecord("task", map[string]any{"description": "no name"})
		return err
	})
	var verr screen.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "task.name" || verr.Rule != "required" {
		t.Fatalf("unexpected validation error %+v", verr)
	}
	if got := len(store.ListRecords("task", nil)); got != 0 {
		t.Fatalf("failed create must not persist, found %d records", got)
	}
}

func TestUpdateBumpsVersionAndKeepsIdentity(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	rec := mustCreate(t, store, "task", map[string]any{"name": "draft"})

	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		_, err := tx.UpdateRecord("task", rec.ID, rec.Version, func(r *screen.Record) error {
			r.Fields["name"] = "final"
			r.ID = "hijacked"
			return nil
		})
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, ok := store.GetRecord("task", rec.ID)
	if !ok {
		t.Fatal("record lost after update")
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
	if updated.Field("name") != "final" {
		t.Fatalf("unexpected name %v", updated.Field("name"))
	}
	if !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatal("CreatedAt must survive updates")
	}
}

func TestUpdateVersionConflict(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	rec := mustCreate(t, store, "task", map[string]any{"name": "draft"})

	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		_, err := tx.UpdateRecord("task", rec.ID, rec.Version+5, func(r *screen.Record) error {
			r.Fields["name"] = "stale edit"
			return nil
		})
		return err
	})
	var cerr screen.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.Actual != 1 {
		t.Fatalf("unexpected actual version %d", cerr.Actual)
	}
	current, _ := store.GetRecord("task", rec.ID)
	if current.Field("name") != "draft" {
		t.Fatal("conflicting update must not be applied")
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	rec := mustCreate(t, store, "task", map[string]any{"name": "temp"})

	if _, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		return tx.DeleteRecord("task", rec.ID, 0)
	}); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		return tx.DeleteRecord("task", rec.ID, 0)
	})
	var nferr screen.NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestTransactionRollbackOnError(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		if _, err := tx.CreateRecord("task", map[string]any{"name": "first"}); err != nil {
			return err
		}
		if _, err := tx.CreateRecord("task", map[string]any{"name": "second"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if got := len(store.ListRecords("task", nil)); got != 0 {
		t.Fatalf("failed transaction must leave no records, found %d", got)
	}
}

func TestCancelledContextDiscardsTransaction(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	ctx, cancel := context.WithCancel(context.Background())
	_, err := store.RunInTransaction(ctx, func(tx screen.Transaction) error {
		if _, err := tx.CreateRecord("task", map[string]any{"name": "late"}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := len(store.ListRecords("task", nil)); got != 0 {
		t.Fatalf("cancelled transaction must not commit, found %d records", got)
	}
}

func TestListRecordsFilterAndOrder(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	mustCreate(t, store, "task", map[string]any{"name": "a"})
	mustCreate(t, store, "task", map[string]any{"name": "b", "active": false})
	mustCreate(t, store, "task", map[string]any{"name": "c"})

	active := store.ListRecords("task", &screen.Filter{Equals: map[string]any{"active": true}})
	if len(active) != 2 {
		t.Fatalf("expected 2 active tasks, got %d", len(active))
	}
	all := store.ListRecords("task", nil)
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	again := store.ListRecords("task", nil)
	for i := range all {
		if all[i].ID != again[i].ID {
			t.Fatal("listing order must be stable")
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	rec := mustCreate(t, store, "task", map[string]any{"name": "keep"})

	snapshot := store.ExportState()
	restored := memory.NewStore(taskSchemas(t))
	restored.ImportState(snapshot)

	got, ok := restored.GetRecord("task", rec.ID)
	if !ok {
		t.Fatal("imported store missing record")
	}
	if got.Field("name") != "keep" || got.Version != rec.Version {
		t.Fatalf("imported record mismatch: %+v", got)
	}
}

func TestViewIsIsolatedFromLaterWrites(t *testing.T) {
	store := memory.NewStore(taskSchemas(t))
	mustCreate(t, store, "task", map[string]any{"name": "one"})

	if err := store.View(context.Background(), func(v screen.TransactionView) error {
		records := v.ListRecords("task", nil)
		if len(records) != 1 {
			t.Fatalf("expected 1 record in view, got %d", len(records))
		}
		records[0].Fields["name"] = "mutated"
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	rec := store.ListRecords("task", nil)[0]
	if rec.Field("name") != "one" {
		t.Fatal("view snapshot must not leak mutations into the store")
	}
}
