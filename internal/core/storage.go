package core

import (
	"fmt"
	"os"

	"panelcore/internal/infra/persistence/memory"
	"panelcore/internal/infra/persistence/postgres"
	"panelcore/internal/infra/persistence/sqlite"
	"panelcore/pkg/screen"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

type (
	Transaction     = screen.Transaction
	TransactionView = screen.TransactionView
	PersistentStore = screen.PersistentStore
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	PANELCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	PANELCORE_SQLITE_PATH: path to sqlite file (default ./panelcore.db)
//	PANELCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(schemas *screen.SchemaSet) (PersistentStore, error) {
	driver := os.Getenv("PANELCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(schemas), nil
	case StorageSQLite:
		path := os.Getenv("PANELCORE_SQLITE_PATH")
		return sqlite.NewStore(path, schemas)
	case StoragePostgres:
		dsn := os.Getenv("PANELCORE_POSTGRES_DSN")
		return postgres.NewStore(dsn, schemas)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
