package core

import (
	"fmt"
	"strings"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// CheckProgram validates one program against the layout and catalog in the
// view. Structural problems never abort the run; every step is inspected so
// the caller gets the complete picture in one pass.
func CheckProgram(view RuleView, name string) ProgramResult {
	program, ok := view.FindProgram(name)
	if !ok {
		return ProgramResult{
			Program: name,
			Overall: SeverityBlock,
			Findings: []Finding{{
				Code:    "E-NOTFOUND",
				Level:   SeverityBlock,
				Message: "Program not found",
				Details: map[string]any{},
			}},
		}
	}

	var res Result
	if len(program.Steps) == 0 {
		res.Add(Finding{
			Code:    "W-EMPTY-PROG",
			Level:   SeverityWarn,
			Message: "Program has no steps",
			Details: map[string]any{},
		})
	}

	// The conveyor traverses the path forward only; lastPos carries the
	// highest position seen so far.
	lastPos := -1
	ovenSteps := 0
	for i, step := range program.Steps {
		stepNo := i + 1
		stepName := strings.TrimSpace(step.Name)
		slot := strings.TrimSpace(step.Slot)

		if stepName == "" {
			res.Add(Finding{
				Code:    "E-STEP-NAME",
				Level:   SeverityBlock,
				Message: "Empty step name",
				Details: map[string]any{"step": stepNo},
			})
			continue
		}

		pos, known := domain.StationPosition(slot)
		if !known {
			res.Add(Finding{
				Code:    "E-SLOT",
				Level:   SeverityBlock,
				Message: "Unknown slot",
				Details: map[string]any{"step": stepNo, "slot": slot},
			})
			continue
		}

		if step.TimeSec <= 0 {
			res.Add(Finding{
				Code:    "W-TIME",
				Level:   SeverityWarn,
				Message: "Time <= 0",
				Details: map[string]any{"step": stepNo, "slot": slot, "time_sec": step.TimeSec},
			})
		}

		if pos < lastPos {
			res.Add(Finding{
				Code:    "E-REVERSE",
				Level:   SeverityBlock,
				Message: "Program contains stations in reverse order (not allowed)",
				Details: map[string]any{"step": stepNo, "slot": slot, "pos": pos, "previous_pos": lastPos},
			})
		}
		if pos > lastPos {
			lastPos = pos
		}

		if IsWaterStep(stepName) {
			if kind := effectiveKind(view, slot); kind != KindWater {
				res.Add(Finding{
					Code:    "E-KIND-WATER",
					Level:   SeverityBlock,
					Message: "Water step must be on a water slot (W-mode must be WATER)",
					Details: map[string]any{"step": stepNo, "name": stepName, "slot": slot, "slot_kind": string(kind)},
				})
			}
			if class := slotClass(view, slot); class != ClassWater {
				res.Add(Finding{
					Code:    "E-CLASS-WATER",
					Level:   SeverityBlock,
					Message: "Water step requires WATER class in that station",
					Details: map[string]any{"step": stepNo, "slot": slot, "slot_class": class, "reagent": reagentAt(view, slot)},
				})
			}
		}

		if IsOvenStep(stepName) {
			if slot != domain.StationOven {
				res.Add(Finding{
					Code:    "E-KIND-OVEN",
					Level:   SeverityBlock,
					Message: "Oven step must be on OVEN",
					Details: map[string]any{"step": stepNo, "name": stepName, "slot": slot},
				})
			}
			ovenSteps++
			if ovenSteps == 2 {
				res.Add(Finding{
					Code:    "E-OVEN-TWICE",
					Level:   SeverityBlock,
					Message: "Program may contain at most one oven step",
					Details: map[string]any{"step": stepNo, "name": stepName},
				})
			}
		}

		if allowed, constrained := AllowedClasses(stepName); constrained && !IsWaterStep(stepName) {
			class := slotClass(view, slot)
			switch {
			case class == ClassEmpty:
				res.Add(Finding{
					Code:    "W-EMPTY-SLOT",
					Level:   SeverityWarn,
					Message: "Slot is EMPTY",
					Details: map[string]any{"step": stepNo, "slot": slot},
				})
			case !containsClass(allowed, class):
				res.Add(Finding{
					Code:    "E-CLASS",
					Level:   SeverityBlock,
					Message: fmt.Sprintf("Reagent class mismatch: %s not allowed for %s", class, stepName),
					Details: map[string]any{"step": stepNo, "name": stepName, "slot": slot, "slot_class": class, "allowed": allowed},
				})
			}
		}
	}

	return ProgramResult{Program: name, Overall: res.Overall(), Findings: res.Findings}
}

func containsClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}
