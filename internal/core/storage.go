package core

import (
	"fmt"
	"os"

	memorystore "github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/persistence/memory"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/persistence/postgres"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	CHROMAX_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	CHROMAX_SQLITE_PATH: path to sqlite file (default ./chromax.db)
//	CHROMAX_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("CHROMAX_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memorystore.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("CHROMAX_SQLITE_PATH"), engine)
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("CHROMAX_POSTGRES_DSN"), engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
