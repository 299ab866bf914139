// Package memory provides the in-memory implementation of the configuration
// store. Durable backends wrap it and snapshot its state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.PersistentStore = (*Store)(nil)

// Store keeps the full configuration state in process memory and applies
// mutations through clone-on-write transactions. Registered rules are
// evaluated against the candidate state before commit; a blocking finding
// rolls the transaction back.
type Store struct {
	mu     sync.RWMutex
	state  state
	engine *domain.RulesEngine
}

// NewStore constructs an empty in-memory store using the given rules engine.
// A nil engine disables commit-time rule evaluation.
func NewStore(engine *domain.RulesEngine) *Store {
	return &Store{state: newState(), engine: engine}
}

type state struct {
	classes  map[string]domain.ReagentClass
	reagents map[string]domain.Reagent
	layout   map[string]domain.Assignment
	programs map[string]domain.Program
	settings domain.Settings
}

func newState() state {
	layout := make(map[string]domain.Assignment, len(domain.TransportOrder))
	for _, slot := range domain.TransportOrder {
		layout[slot] = domain.Assignment{ReagentID: domain.ReagentEmpty}
	}
	return state{
		classes:  make(map[string]domain.ReagentClass),
		reagents: make(map[string]domain.Reagent),
		layout:   layout,
		programs: make(map[string]domain.Program),
		settings: domain.Settings{WaterModes: make(map[string]domain.WaterMode)},
	}
}

func (s state) clone() state {
	cloned := state{
		classes:  make(map[string]domain.ReagentClass, len(s.classes)),
		reagents: make(map[string]domain.Reagent, len(s.reagents)),
		layout:   make(map[string]domain.Assignment, len(s.layout)),
		programs: make(map[string]domain.Program, len(s.programs)),
		settings: cloneSettings(s.settings),
	}
	for k, v := range s.classes {
		cloned.classes[k] = v
	}
	for k, v := range s.reagents {
		cloned.reagents[k] = v
	}
	for k, v := range s.layout {
		cloned.layout[k] = v
	}
	for k, v := range s.programs {
		cloned.programs[k] = cloneProgram(v)
	}
	return cloned
}

func cloneProgram(p domain.Program) domain.Program {
	steps := make([]domain.Step, len(p.Steps))
	copy(steps, p.Steps)
	p.Steps = steps
	return p
}

func cloneSettings(s domain.Settings) domain.Settings {
	modes := make(map[string]domain.WaterMode, len(s.WaterModes))
	for k, v := range s.WaterModes {
		modes[k] = v
	}
	s.WaterModes = modes
	s.RunSelection = append([]string(nil), s.RunSelection...)
	return s
}

// RunInTransaction executes fn against a cloned state, evaluates the rules
// engine over the candidate state, and commits unless fn errored or a
// blocking finding was produced.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := newView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(newView(&snapshot))
}

// Changes recorded by the last transaction are surfaced through the
// transaction value itself; the store holds no history.

// ExportState returns a deep copy of the current state.
func (s *Store) ExportState() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	return domain.Snapshot{
		Classes:  st.classes,
		Reagents: st.reagents,
		Layout:   st.layout,
		Programs: st.programs,
		Settings: st.settings,
	}
}

// ImportState replaces the current state with the snapshot. Unknown layout
// slots are dropped and missing slots reset to the empty reagent so the
// layout stays total over the fixed station set.
func (s *Store) ImportState(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newState()
	for k, v := range snapshot.Classes {
		st.classes[k] = v
	}
	for k, v := range snapshot.Reagents {
		st.reagents[k] = v
	}
	for slot, assignment := range snapshot.Layout {
		if _, ok := st.layout[slot]; !ok {
			continue
		}
		if assignment.ReagentID == "" {
			assignment.ReagentID = domain.ReagentEmpty
		}
		st.layout[slot] = assignment
	}
	for k, v := range snapshot.Programs {
		program := cloneProgram(v)
		if program.Name == "" {
			program.Name = k
		}
		st.programs[k] = program
	}
	st.settings = cloneSettings(snapshot.Settings)
	if st.settings.WaterModes == nil {
		st.settings.WaterModes = make(map[string]domain.WaterMode)
	}
	for slot, mode := range st.settings.WaterModes {
		if !domain.IsDualMode(slot) || !mode.Valid() {
			delete(st.settings.WaterModes, slot)
		}
	}
	s.state = st
}

type transaction struct {
	state   state
	changes []domain.Change
}

var _ domain.Transaction = (*transaction)(nil)

func (tx *transaction) record(entity domain.EntityType, action domain.Action, id string) {
	tx.changes = append(tx.changes, domain.Change{Entity: entity, Action: action, ID: id})
}

// Changes lists the mutations recorded so far, for audit trails.
func (tx *transaction) Changes() []domain.Change {
	out := make([]domain.Change, len(tx.changes))
	copy(out, tx.changes)
	return out
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() domain.TransactionView {
	return newView(&tx.state)
}

func (tx *transaction) UpsertClass(class domain.ReagentClass) (domain.ReagentClass, error) {
	if class.ID == "" {
		return domain.ReagentClass{}, fmt.Errorf("class id required")
	}
	if class.Name == "" {
		class.Name = class.ID
	}
	action := domain.ActionCreate
	if _, ok := tx.state.classes[class.ID]; ok {
		action = domain.ActionUpdate
	}
	tx.state.classes[class.ID] = class
	tx.record(domain.EntityClass, action, class.ID)
	return class, nil
}

func (tx *transaction) DeleteClass(id string) error {
	if _, ok := tx.state.classes[id]; !ok {
		return domain.ErrNotFound{Entity: domain.EntityClass, ID: id}
	}
	// Reagents of a deleted class fall back to the OTHER escape class.
	for rid, reagent := range tx.state.reagents {
		if reagent.ClassID == id {
			reagent.ClassID = domain.ClassOther
			tx.state.reagents[rid] = reagent
		}
	}
	delete(tx.state.classes, id)
	tx.record(domain.EntityClass, domain.ActionDelete, id)
	return nil
}

func (tx *transaction) UpsertReagent(reagent domain.Reagent) (domain.Reagent, error) {
	if reagent.ID == "" {
		return domain.Reagent{}, fmt.Errorf("reagent id required")
	}
	if reagent.Name == "" {
		reagent.Name = reagent.ID
	}
	if reagent.ClassID == "" {
		reagent.ClassID = domain.ClassOther
	}
	action := domain.ActionCreate
	if _, ok := tx.state.reagents[reagent.ID]; ok {
		action = domain.ActionUpdate
	}
	tx.state.reagents[reagent.ID] = reagent
	tx.record(domain.EntityReagent, action, reagent.ID)
	return reagent, nil
}

func (tx *transaction) DeleteReagent(id string) error {
	if _, ok := tx.state.reagents[id]; !ok {
		return domain.ErrNotFound{Entity: domain.EntityReagent, ID: id}
	}
	// Stations holding the deleted reagent revert to unassigned.
	for slot, assignment := range tx.state.layout {
		if assignment.ReagentID == id {
			tx.state.layout[slot] = domain.Assignment{ReagentID: domain.ReagentEmpty}
		}
	}
	delete(tx.state.reagents, id)
	tx.record(domain.EntityReagent, domain.ActionDelete, id)
	return nil
}

func (tx *transaction) AssignReagent(slot, reagentID string) error {
	if _, ok := tx.state.layout[slot]; !ok {
		return domain.ErrNotFound{Entity: domain.EntityLayout, ID: slot}
	}
	if reagentID == "" {
		reagentID = domain.ReagentEmpty
	}
	if _, ok := tx.state.reagents[reagentID]; !ok {
		// Unknown reagents normalize to the empty assignment rather than
		// poisoning the layout.
		reagentID = domain.ReagentEmpty
	}
	tx.state.layout[slot] = domain.Assignment{ReagentID: reagentID}
	tx.record(domain.EntityLayout, domain.ActionUpdate, slot)
	return nil
}

func (tx *transaction) SetWaterMode(slot string, mode domain.WaterMode) error {
	if !domain.IsDualMode(slot) {
		return fmt.Errorf("station %s is not dual-mode", slot)
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid water mode %q", mode)
	}
	tx.state.settings.WaterModes[slot] = mode
	tx.record(domain.EntitySettings, domain.ActionUpdate, slot)
	return nil
}

func (tx *transaction) SetWaterFlow(lMin float64) error {
	if lMin < 0 {
		return fmt.Errorf("water flow must be >= 0")
	}
	tx.state.settings.WaterFlowLMin = lMin
	tx.record(domain.EntitySettings, domain.ActionUpdate, "water_flow")
	return nil
}

func (tx *transaction) CreateProgram(name string) (domain.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Program{}, fmt.Errorf("program name required")
	}
	if _, ok := tx.state.programs[name]; ok {
		return domain.Program{}, fmt.Errorf("program %s already exists", name)
	}
	program := domain.Program{Name: name, Steps: []domain.Step{}}
	tx.state.programs[name] = program
	tx.record(domain.EntityProgram, domain.ActionCreate, name)
	return program, nil
}

func (tx *transaction) RenameProgram(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	program, ok := tx.state.programs[oldName]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityProgram, ID: oldName}
	}
	if newName == "" {
		return fmt.Errorf("program name required")
	}
	if _, ok := tx.state.programs[newName]; ok {
		return fmt.Errorf("program %s already exists", newName)
	}
	delete(tx.state.programs, oldName)
	program.Name = newName
	tx.state.programs[newName] = program
	// A rename retargets the run selection entries pointing at the old name.
	for i, selected := range tx.state.settings.RunSelection {
		if selected == oldName {
			tx.state.settings.RunSelection[i] = newName
		}
	}
	tx.record(domain.EntityProgram, domain.ActionUpdate, newName)
	return nil
}

func (tx *transaction) DeleteProgram(name string) error {
	if _, ok := tx.state.programs[name]; !ok {
		return domain.ErrNotFound{Entity: domain.EntityProgram, ID: name}
	}
	if len(tx.state.programs) <= 1 {
		return fmt.Errorf("at least one program is required")
	}
	delete(tx.state.programs, name)
	var remaining []string
	for _, selected := range tx.state.settings.RunSelection {
		if selected != name {
			remaining = append(remaining, selected)
		}
	}
	tx.state.settings.RunSelection = remaining
	tx.record(domain.EntityProgram, domain.ActionDelete, name)
	return nil
}

func (tx *transaction) SaveProgramSteps(name string, steps []domain.Step) (domain.Program, error) {
	program, ok := tx.state.programs[name]
	if !ok {
		return domain.Program{}, domain.ErrNotFound{Entity: domain.EntityProgram, ID: name}
	}
	program.Steps = make([]domain.Step, len(steps))
	copy(program.Steps, steps)
	tx.state.programs[name] = program
	tx.record(domain.EntityProgram, domain.ActionUpdate, name)
	return cloneProgram(program), nil
}

func (tx *transaction) SetRunSelection(names []string) error {
	tx.state.settings.RunSelection = append([]string(nil), names...)
	tx.record(domain.EntitySettings, domain.ActionUpdate, "run_selection")
	return nil
}

type view struct {
	state *state
}

func newView(st *state) *view {
	return &view{state: st}
}

var _ domain.RuleView = (*view)(nil)

func (v *view) ListClasses() []domain.ReagentClass {
	out := make([]domain.ReagentClass, 0, len(v.state.classes))
	for _, c := range v.state.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *view) FindClass(id string) (domain.ReagentClass, bool) {
	c, ok := v.state.classes[id]
	return c, ok
}

func (v *view) ListReagents() []domain.Reagent {
	out := make([]domain.Reagent, 0, len(v.state.reagents))
	for _, r := range v.state.reagents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *view) FindReagent(id string) (domain.Reagent, bool) {
	r, ok := v.state.reagents[id]
	return r, ok
}

func (v *view) ReagentAt(slot string) (string, bool) {
	assignment, ok := v.state.layout[slot]
	if !ok {
		return "", false
	}
	return assignment.ReagentID, true
}

func (v *view) ListPrograms() []domain.Program {
	out := make([]domain.Program, 0, len(v.state.programs))
	for _, p := range v.state.programs {
		out = append(out, cloneProgram(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (v *view) FindProgram(name string) (domain.Program, bool) {
	p, ok := v.state.programs[name]
	if !ok {
		return domain.Program{}, false
	}
	return cloneProgram(p), true
}

func (v *view) Settings() domain.Settings {
	return cloneSettings(v.state.settings)
}
