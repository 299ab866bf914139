package core

import "sort"

// snapshotView adapts a Snapshot to the RuleView contract for engine tests.
type snapshotView struct {
	snap Snapshot
}

func (v snapshotView) ListClasses() []ReagentClass {
	out := make([]ReagentClass, 0, len(v.snap.Classes))
	for _, c := range v.snap.Classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v snapshotView) FindClass(id string) (ReagentClass, bool) {
	c, ok := v.snap.Classes[id]
	return c, ok
}

func (v snapshotView) ListReagents() []Reagent {
	out := make([]Reagent, 0, len(v.snap.Reagents))
	for _, r := range v.snap.Reagents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v snapshotView) FindReagent(id string) (Reagent, bool) {
	r, ok := v.snap.Reagents[id]
	return r, ok
}

func (v snapshotView) ReagentAt(slot string) (string, bool) {
	a, ok := v.snap.Layout[slot]
	if !ok {
		return "", false
	}
	return a.ReagentID, true
}

func (v snapshotView) ListPrograms() []Program {
	out := make([]Program, 0, len(v.snap.Programs))
	for _, p := range v.snap.Programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (v snapshotView) FindProgram(name string) (Program, bool) {
	p, ok := v.snap.Programs[name]
	return p, ok
}

func (v snapshotView) Settings() Settings {
	return v.snap.Settings
}

// defaultView returns a view over the factory configuration.
func defaultView() snapshotView {
	return snapshotView{snap: DefaultSnapshot()}
}

// stainedView returns the factory configuration with the H&E reagents loaded
// into their stations, which makes the stock H&E program fully compatible.
func stainedView() snapshotView {
	v := defaultView()
	v.snap.Layout["R1"] = Assignment{ReagentID: "XYL"}
	v.snap.Layout["R2"] = Assignment{ReagentID: "HEM"}
	v.snap.Layout["R18"] = Assignment{ReagentID: "EOS"}
	v.snap.Layout["R17"] = Assignment{ReagentID: "ALC96"}
	v.snap.Layout["R16"] = Assignment{ReagentID: "CLR"}
	return v
}

func findingCodes(findings []Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func countCode(findings []Finding, code string) int {
	n := 0
	for _, f := range findings {
		if f.Code == code {
			n++
		}
	}
	return n
}
