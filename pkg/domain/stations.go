package domain

import "fmt"

// The instrument's bath layout follows the IFU arrangement: the top row runs
// R1..R7, W1..W5 and the oven, the bottom row runs R18 back down to R8 and
// ends at the load port. The conveyor visits stations in exactly this order
// and cannot move backward.
const (
	StationOven = "OVEN"
	StationLoad = "LOAD"
)

// TransportOrder lists every station in conveyor traversal order.
var TransportOrder = buildTransportOrder()

var stationPositions = buildStationPositions()

var baseKinds = buildBaseKinds()

// dualModeStations are the water stations whose kind is runtime-switchable.
var dualModeStations = map[string]struct{}{"W1": {}, "W2": {}}

// fixedWaterStations must always carry the water class regardless of mode.
var fixedWaterStations = []string{"W3", "W4", "W5"}

func buildTransportOrder() []string {
	var order []string
	for i := 1; i <= 7; i++ {
		order = append(order, fmt.Sprintf("R%d", i))
	}
	for i := 1; i <= 5; i++ {
		order = append(order, fmt.Sprintf("W%d", i))
	}
	order = append(order, StationOven)
	for i := 18; i >= 8; i-- {
		order = append(order, fmt.Sprintf("R%d", i))
	}
	return append(order, StationLoad)
}

func buildStationPositions() map[string]int {
	positions := make(map[string]int, len(TransportOrder))
	for i, id := range TransportOrder {
		positions[id] = i
	}
	return positions
}

func buildBaseKinds() map[string]StationKind {
	kinds := make(map[string]StationKind, len(TransportOrder))
	for i := 1; i <= 18; i++ {
		kinds[fmt.Sprintf("R%d", i)] = KindReagent
	}
	for i := 1; i <= 5; i++ {
		kinds[fmt.Sprintf("W%d", i)] = KindWater
	}
	kinds[StationOven] = KindOven
	kinds[StationLoad] = KindLoad
	return kinds
}

// StationPosition returns the station's index on the transport path.
func StationPosition(id string) (int, bool) {
	pos, ok := stationPositions[id]
	return pos, ok
}

// KnownStation reports whether the station exists in the layout.
func KnownStation(id string) bool {
	_, ok := stationPositions[id]
	return ok
}

// IsDualMode reports whether the station's kind is runtime-switchable.
func IsDualMode(id string) bool {
	_, ok := dualModeStations[id]
	return ok
}

// FixedWaterStations returns the water stations that are never dual-mode.
func FixedWaterStations() []string {
	out := make([]string, len(fixedWaterStations))
	copy(out, fixedWaterStations)
	return out
}

// DualModeStations returns the runtime-switchable stations in path order.
func DualModeStations() []string {
	var out []string
	for _, id := range TransportOrder {
		if IsDualMode(id) {
			out = append(out, id)
		}
	}
	return out
}

// EffectiveKind resolves a station's kind under the given mode flags. A
// dual-mode station resolves to water kind unless its flag is explicitly set
// to reagent behavior; an unknown or invalid flag defaults to water, which is
// the stricter requirement. Unknown stations resolve to the generic reagent
// kind; callers validating steps reject unknown stations before kind checks.
func EffectiveKind(id string, modes map[string]WaterMode) StationKind {
	if IsDualMode(id) {
		if mode, ok := modes[id]; ok && mode == ModeReagent {
			return KindReagent
		}
		return KindWater
	}
	if kind, ok := baseKinds[id]; ok {
		return kind
	}
	return KindReagent
}
