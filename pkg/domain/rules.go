package domain

import "context"

// EntityType identifies the configuration entity a change or finding refers to.
type EntityType string

// Configuration entity types captured in the audit trail.
const (
	EntityClass    EntityType = "class"
	EntityReagent  EntityType = "reagent"
	EntityLayout   EntityType = "layout"
	EntityProgram  EntityType = "program"
	EntitySettings EntityType = "settings"
)

// Action enumerates mutations recorded by transactions.
type Action string

// Change actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change records one mutation applied within a transaction.
type Change struct {
	Entity EntityType `json:"entity"`
	Action Action     `json:"action"`
	ID     string     `json:"id"`
}

// RuleView provides read-only access to configuration state for rule
// evaluation and for the compatibility check engine.
type RuleView interface {
	ListClasses() []ReagentClass
	FindClass(id string) (ReagentClass, bool)
	ListReagents() []Reagent
	FindReagent(id string) (Reagent, bool)
	// ReagentAt returns the reagent assigned to a station; false for unknown
	// stations.
	ReagentAt(slot string) (string, bool)
	ListPrograms() []Program
	FindProgram(name string) (Program, bool)
	Settings() Settings
}

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
