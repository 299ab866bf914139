package core

import (
	"context"
	"fmt"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// MaxRunPrograms bounds how many programs may be co-selected for a run. The
// check engine itself handles any N; the bound is instrument policy.
const MaxRunPrograms = 3

// NewRunSelectionRule returns the rule constraining the run selection to
// existing programs within the instrument's concurrency bound.
func NewRunSelectionRule() domain.Rule {
	return runSelectionRule{}
}

type runSelectionRule struct{}

func (runSelectionRule) Name() string { return "run_selection" }

func (runSelectionRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	var res Result
	selection := view.Settings().RunSelection
	if len(selection) > MaxRunPrograms {
		res.Add(Finding{
			Code:    "E-RUN-COUNT",
			Level:   SeverityBlock,
			Message: fmt.Sprintf("at most %d programs may be selected for a run", MaxRunPrograms),
			Details: map[string]any{"selected": len(selection), "max": MaxRunPrograms},
		})
	}
	for _, name := range selection {
		if _, ok := view.FindProgram(name); !ok {
			res.Add(Finding{
				Code:    "E-RUN-PROGRAM",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("selected program %s does not exist", name),
				Details: map[string]any{"program": name},
			})
		}
	}
	return res, nil
}
