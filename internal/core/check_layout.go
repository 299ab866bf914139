package core

import (
	"fmt"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// minWaterFlowLMin is the plumbing threshold below which wash times may need
// extension.
const minWaterFlowLMin = 8.0

// CheckLayoutRules evaluates the layout-level water rules. These hold for a
// layout regardless of which programs are selected to run on it.
func CheckLayoutRules(view RuleView) Result {
	var res Result

	for _, slot := range domain.FixedWaterStations() {
		if class := slotClass(view, slot); class != ClassWater {
			res.Add(Finding{
				Code:    "E-WATER-CLASS",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("%s must contain WATER class reagent", slot),
				Details: map[string]any{"slot": slot, "slot_class": class, "reagent": reagentAt(view, slot)},
			})
		}
	}

	settings := view.Settings()
	for _, slot := range domain.DualModeStations() {
		mode := settings.WaterModes[slot]
		if mode == ModeReagent {
			// Reagent mode imposes no class constraint here; per-step class
			// checks still apply when a step targets the slot.
			continue
		}
		if class := slotClass(view, slot); class != ClassWater {
			res.Add(Finding{
				Code:    "E-W12-WATER",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("%s is in WATER mode and must contain WATER class reagent", slot),
				Details: map[string]any{"slot": slot, "mode": string(ModeWater), "slot_class": class, "reagent": reagentAt(view, slot)},
			})
		}
	}

	if settings.WaterFlowLMin < minWaterFlowLMin {
		res.Add(Finding{
			Code:    "W-WATER-FLOW",
			Level:   SeverityWarn,
			Message: "Water flow < 8 L/min: wash time may need extension",
			Details: map[string]any{"water_flow_l_min": settings.WaterFlowLMin},
		})
	}

	return res
}
