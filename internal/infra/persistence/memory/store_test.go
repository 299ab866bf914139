package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

func TestRunInTransactionCommits(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL", Name: "Alcohol"})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	snap := store.ExportState()
	if _, ok := snap.Classes["ALCOHOL"]; !ok {
		t.Fatalf("committed class missing from state")
	}
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	store := NewStore(nil)
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, ok := store.ExportState().Classes["ALCOHOL"]; ok {
		t.Fatalf("state mutated despite failed transaction")
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	var res domain.Result
	res.Add(domain.Finding{Code: "E-TEST", Level: domain.SeverityBlock, Message: "no"})
	return res, nil
}

func TestRunInTransactionBlockedByRules(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	store := NewStore(engine)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL"})
		return err
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if _, ok := store.ExportState().Classes["ALCOHOL"]; ok {
		t.Fatalf("blocked transaction committed")
	}
}

type failingRule struct{}

func (failingRule) Name() string { return "failing" }

func (failingRule) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	return domain.Result{}, fmt.Errorf("rule exploded")
}

func TestRunInTransactionRuleErrorAborts(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(failingRule{})
	store := NewStore(engine)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL"})
		return err
	})
	if err == nil || err.Error() != "rule exploded" {
		t.Fatalf("expected rule error, got %v", err)
	}
	if _, ok := store.ExportState().Classes["ALCOHOL"]; ok {
		t.Fatalf("state mutated despite rule error")
	}
}

func TestViewSeesConsistentSnapshot(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := store.View(context.Background(), func(view domain.TransactionView) error {
		if _, ok := view.FindClass("ALCOHOL"); !ok {
			t.Fatalf("view missing committed class")
		}
		if _, ok := view.ReagentAt("R1"); !ok {
			t.Fatalf("layout must cover R1 from construction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestTransactionRecordsChanges(t *testing.T) {
	store := NewStore(nil)
	var changes []domain.Change
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.UpsertClass(domain.ReagentClass{ID: "ALCOHOL"}); err != nil {
			return err
		}
		if err := tx.SetWaterFlow(9.5); err != nil {
			return err
		}
		changes = tx.(interface{ Changes() []domain.Change }).Changes()
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 recorded changes, got %d", len(changes))
	}
	if changes[0].Entity != domain.EntityClass || changes[0].Action != domain.ActionCreate {
		t.Fatalf("unexpected first change %+v", changes[0])
	}
}

func TestDeleteProgramGuardsLastProgram(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateProgram("ONLY")
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteProgram("ONLY")
	})
	if err == nil {
		t.Fatalf("deleting the last program must fail")
	}
}

func TestImportStateSanitizes(t *testing.T) {
	store := NewStore(nil)
	store.ImportState(domain.Snapshot{
		Layout: map[string]domain.Assignment{
			"R1":  {ReagentID: "XYL"},
			"R99": {ReagentID: "XYL"},
			"R2":  {},
		},
		Settings: domain.Settings{
			WaterModes: map[string]domain.WaterMode{
				"W1": domain.ModeReagent,
				"W3": domain.ModeReagent, // not dual-mode
				"W2": "STEAM",            // invalid mode
			},
		},
	})
	snap := store.ExportState()
	if _, ok := snap.Layout["R99"]; ok {
		t.Fatalf("unknown station survived import")
	}
	if snap.Layout["R2"].ReagentID != domain.ReagentEmpty {
		t.Fatalf("empty assignment not normalized: %+v", snap.Layout["R2"])
	}
	modes := snap.Settings.WaterModes
	if len(modes) != 1 || modes["W1"] != domain.ModeReagent {
		t.Fatalf("mode sanitation failed: %v", modes)
	}
}
