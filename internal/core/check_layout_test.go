package core

import "testing"

func TestCheckLayoutRulesFactoryDefaultsClean(t *testing.T) {
	res := CheckLayoutRules(defaultView())
	if len(res.Findings) != 0 {
		t.Fatalf("expected clean layout, got %v", findingCodes(res.Findings))
	}
}

func TestCheckLayoutRulesFixedWaterStations(t *testing.T) {
	v := defaultView()
	v.snap.Layout["W3"] = Assignment{ReagentID: "EOS"}
	res := CheckLayoutRules(v)
	if countCode(res.Findings, "E-WATER-CLASS") != 1 {
		t.Fatalf("expected E-WATER-CLASS for W3, got %v", findingCodes(res.Findings))
	}
	if res.Overall() != SeverityBlock {
		t.Fatalf("expected BLOCK, got %s", res.Overall())
	}
}

func TestCheckLayoutRulesDualModeStations(t *testing.T) {
	v := defaultView()
	v.snap.Layout["W1"] = Assignment{ReagentID: "EOS"}

	// Water mode demands the water class.
	res := CheckLayoutRules(v)
	if countCode(res.Findings, "E-W12-WATER") != 1 {
		t.Fatalf("expected E-W12-WATER, got %v", findingCodes(res.Findings))
	}

	// Switching W1 to reagent mode lifts the constraint.
	v.snap.Settings.WaterModes["W1"] = ModeReagent
	res = CheckLayoutRules(v)
	if countCode(res.Findings, "E-W12-WATER") != 0 {
		t.Fatalf("expected no E-W12-WATER in reagent mode, got %v", findingCodes(res.Findings))
	}

	// Toggling back restores it.
	v.snap.Settings.WaterModes["W1"] = ModeWater
	res = CheckLayoutRules(v)
	if countCode(res.Findings, "E-W12-WATER") != 1 {
		t.Fatalf("expected E-W12-WATER after toggle back, got %v", findingCodes(res.Findings))
	}
}

func TestCheckLayoutRulesWaterFlowThreshold(t *testing.T) {
	v := defaultView()
	v.snap.Settings.WaterFlowLMin = 7.9
	res := CheckLayoutRules(v)
	if countCode(res.Findings, "W-WATER-FLOW") != 1 {
		t.Fatalf("expected W-WATER-FLOW, got %v", findingCodes(res.Findings))
	}
	if res.Overall() != SeverityWarn {
		t.Fatalf("expected WARN, got %s", res.Overall())
	}

	v.snap.Settings.WaterFlowLMin = 8.0
	res = CheckLayoutRules(v)
	if countCode(res.Findings, "W-WATER-FLOW") != 0 {
		t.Fatalf("expected no flow warning at the threshold, got %v", findingCodes(res.Findings))
	}
}
