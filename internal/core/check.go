package core

import "github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"

// Check evaluates the layout rules, each selected program, and every program
// pair against one consistent view, folding all findings into a single
// verdict. It is a pure function of the view and the selection: identical
// inputs produce an identical ordered finding list.
func Check(view RuleView, selected []string) CheckResult {
	var findings []Finding
	overall := SeverityOK

	layout := CheckLayoutRules(view)
	findings = append(findings, layout.Findings...)

	perProgram := make([]ProgramResult, 0, len(selected))
	for _, name := range selected {
		pr := CheckProgram(view, name)
		perProgram = append(perProgram, pr)
		for _, f := range pr.Findings {
			f.Program = name
			findings = append(findings, f)
		}
	}

	conflicts := CheckConflicts(view, selected)
	findings = append(findings, conflicts.Findings...)

	for _, f := range findings {
		overall = domain.MaxSeverity(overall, f.Level)
	}

	return CheckResult{
		Overall:    overall,
		Findings:   findings,
		PerProgram: perProgram,
		Selected:   append([]string(nil), selected...),
	}
}
