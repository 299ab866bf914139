package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chromax.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL", Name: "Alcohol", Color: "#a78bfa"}); err != nil {
			return err
		}
		if _, err := tx.UpsertReagent(domain.Reagent{ID: "ALC96", Name: "Alcohol 96%", ClassID: "ALCOHOL"}); err != nil {
			return err
		}
		if err := tx.AssignReagent("R1", "ALC96"); err != nil {
			return err
		}
		if _, err := tx.CreateProgram("H&E"); err != nil {
			return err
		}
		return tx.SetWaterFlow(9.0)
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	snap := reopened.ExportState()
	if _, ok := snap.Classes["ALCOHOL"]; !ok {
		t.Fatalf("class not persisted")
	}
	if snap.Layout["R1"].ReagentID != "ALC96" {
		t.Fatalf("layout not persisted: %+v", snap.Layout["R1"])
	}
	if _, ok := snap.Programs["H&E"]; !ok {
		t.Fatalf("program not persisted")
	}
	if snap.Settings.WaterFlowLMin != 9.0 {
		t.Fatalf("settings not persisted: %v", snap.Settings.WaterFlowLMin)
	}
}

func TestImportStatePersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chromax.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.ImportState(domain.Snapshot{
		Classes: map[string]domain.ReagentClass{
			"WATER": {ID: "WATER", Name: "Water", Color: "#60a5fa"},
		},
	})
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, ok := reopened.ExportState().Classes["WATER"]; !ok {
		t.Fatalf("imported state not persisted")
	}
}

func TestDefaultPathFallback(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "nested", "chromax.db"), nil)
	if err != nil {
		t.Fatalf("open store with nested dirs: %v", err)
	}
	if store.Path() == "" {
		t.Fatalf("expected configured path")
	}
	_ = store.Close()
}
