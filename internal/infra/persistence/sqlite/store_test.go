package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"panelcore/internal/infra/persistence/sqlite"
	"panelcore/pkg/screen"
)

func taskSchemas(t *testing.T) *screen.SchemaSet {
	t.Helper()
	schemas := screen.NewSchemaSet()
	if err := schemas.Register(screen.EntitySchema{
		Entity: "task",
		Fields: []screen.FieldSpec{
			{Name: "name", Required: true},
			{Name: "active", Default: true},
		},
	}); err != nil {
		t.Fatalf("register schema: %v", err)
	}
	return schemas
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.db")

	store, err := sqlite.NewStore(path, taskSchemas(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var created screen.Record
	if _, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		rec, err := tx.CreateRecord("task", map[string]any{"name": "persisted"})
		if err != nil {
			return err
		}
		created = rec
		return nil
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sqlite.NewStore(path, taskSchemas(t))
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	rec, ok := reopened.GetRecord("task", created.ID)
	if !ok {
		t.Fatal("record missing after reopen")
	}
	if rec.Field("name") != "persisted" {
		t.Fatalf("unexpected name %v", rec.Field("name"))
	}
	if rec.Version != created.Version {
		t.Fatalf("version mismatch: got %d want %d", rec.Version, created.Version)
	}
}

func TestFailedTransactionLeavesSnapshotUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.db")
	store, err := sqlite.NewStore(path, taskSchemas(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.RunInTransaction(context.Background(), func(tx screen.Transaction) error {
		_, err := tx.CreateRecord("task", map[string]any{})
		return err
	}); err == nil {
		t.Fatal("expected schema rejection")
	}
	if got := len(store.ListRecords("task", nil)); got != 0 {
		t.Fatalf("expected empty store, got %d records", got)
	}
}
