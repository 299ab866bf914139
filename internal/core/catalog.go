package core

import "github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"

// Catalog lookups. These read-only projections are the only way the check
// engine touches layout and catalog state.

// reagentAt returns the reagent assigned to a station, defaulting to the
// reserved empty reagent when the slot carries no assignment.
func reagentAt(view RuleView, slot string) string {
	if id, ok := view.ReagentAt(slot); ok && id != "" {
		return id
	}
	return ReagentEmpty
}

// classOf returns the class of a reagent, defaulting to OTHER for unknown
// reagent identities. It never fails.
func classOf(view RuleView, reagentID string) string {
	if reagent, ok := view.FindReagent(reagentID); ok && reagent.ClassID != "" {
		return reagent.ClassID
	}
	return ClassOther
}

// slotClass resolves the reagent class currently assigned to a station.
func slotClass(view RuleView, slot string) string {
	return classOf(view, reagentAt(view, slot))
}

// effectiveKind resolves a station's kind under the view's current mode flags.
func effectiveKind(view RuleView, slot string) StationKind {
	return domain.EffectiveKind(slot, view.Settings().WaterModes)
}
