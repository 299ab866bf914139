package domain

import (
	"context"
	"fmt"
)

// ErrNotFound is returned when an operation references a missing entity.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Transaction exposes the configuration mutations a persistence
// implementation must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	UpsertClass(class ReagentClass) (ReagentClass, error)
	DeleteClass(id string) error
	UpsertReagent(reagent Reagent) (Reagent, error)
	DeleteReagent(id string) error
	AssignReagent(slot, reagentID string) error
	SetWaterMode(slot string, mode WaterMode) error
	SetWaterFlow(lMin float64) error
	CreateProgram(name string) (Program, error)
	RenameProgram(oldName, newName string) error
	DeleteProgram(name string) error
	SaveProgramSteps(name string, steps []Step) (Program, error)
	SetRunSelection(names []string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// for the check engine.
type TransactionView = RuleView

// PersistentStore is a minimal abstraction over durable backends.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() Snapshot
	ImportState(snapshot Snapshot)
}
