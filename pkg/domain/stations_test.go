package domain

import "testing"

func TestTransportOrderShape(t *testing.T) {
	if len(TransportOrder) != 25 {
		t.Fatalf("expected 25 stations, got %d", len(TransportOrder))
	}
	if TransportOrder[0] != "R1" {
		t.Fatalf("path must start at R1, got %s", TransportOrder[0])
	}
	if TransportOrder[len(TransportOrder)-1] != StationLoad {
		t.Fatalf("path must end at LOAD, got %s", TransportOrder[len(TransportOrder)-1])
	}
	ovenPos, ok := StationPosition(StationOven)
	if !ok {
		t.Fatalf("oven missing from path")
	}
	r8Pos, _ := StationPosition("R8")
	if ovenPos >= r8Pos {
		t.Fatalf("oven must precede the bottom row: oven=%d r8=%d", ovenPos, r8Pos)
	}
}

func TestStationPositionsUniqueAndTotal(t *testing.T) {
	seen := make(map[int]string)
	for _, id := range TransportOrder {
		pos, ok := StationPosition(id)
		if !ok {
			t.Fatalf("station %s has no position", id)
		}
		if prev, dup := seen[pos]; dup {
			t.Fatalf("position %d shared by %s and %s", pos, prev, id)
		}
		seen[pos] = id
	}
	if _, ok := StationPosition("R99"); ok {
		t.Fatalf("unknown station must have no position")
	}
}

func TestEffectiveKindDualMode(t *testing.T) {
	modes := map[string]WaterMode{}
	if kind := EffectiveKind("W1", modes); kind != KindWater {
		t.Fatalf("unset mode must default to water, got %s", kind)
	}
	modes["W1"] = ModeReagent
	if kind := EffectiveKind("W1", modes); kind != KindReagent {
		t.Fatalf("reagent mode must resolve to reagent kind, got %s", kind)
	}
	modes["W1"] = WaterMode("SOMETHING")
	if kind := EffectiveKind("W1", modes); kind != KindWater {
		t.Fatalf("invalid mode must default to water, got %s", kind)
	}
	if kind := EffectiveKind("W3", map[string]WaterMode{"W3": ModeReagent}); kind != KindWater {
		t.Fatalf("non-dual-mode water station cannot be overridden, got %s", kind)
	}
	if kind := EffectiveKind("R4", nil); kind != KindReagent {
		t.Fatalf("bath station kind, got %s", kind)
	}
	if kind := EffectiveKind(StationOven, nil); kind != KindOven {
		t.Fatalf("oven kind, got %s", kind)
	}
	if kind := EffectiveKind(StationLoad, nil); kind != KindLoad {
		t.Fatalf("load kind, got %s", kind)
	}
}

func TestDualModeSets(t *testing.T) {
	if got := DualModeStations(); len(got) != 2 || got[0] != "W1" || got[1] != "W2" {
		t.Fatalf("unexpected dual-mode stations %v", got)
	}
	for _, id := range FixedWaterStations() {
		if IsDualMode(id) {
			t.Fatalf("%s must not be dual-mode", id)
		}
	}
	if !WaterMode("WATER").Valid() || !ModeReagent.Valid() || WaterMode("x").Valid() {
		t.Fatalf("water mode validity broken")
	}
}
