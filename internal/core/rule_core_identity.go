package core

import (
	"context"
	"fmt"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// NewCoreIdentityRule returns the rule guarding the reserved catalog entries.
// The engine's defaults (EMPTY assignments, OTHER fallback, structural oven
// and load markers) stop making sense if these disappear.
func NewCoreIdentityRule() domain.Rule {
	return coreIdentityRule{}
}

type coreIdentityRule struct{}

var coreClasses = []string{ClassEmpty, ClassWater, ClassOther, ClassOven, ClassLoad}

var coreReagents = []string{domain.ReagentEmpty, domain.ReagentWater, domain.ReagentOven, domain.ReagentLoad}

func (coreIdentityRule) Name() string { return "core_identity" }

func (coreIdentityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	var res Result
	for _, id := range coreClasses {
		if _, ok := view.FindClass(id); !ok {
			res.Add(Finding{
				Code:    "E-CORE-CLASS",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("core class %s must exist", id),
				Details: map[string]any{"class": id},
			})
		}
	}
	for _, id := range coreReagents {
		if _, ok := view.FindReagent(id); !ok {
			res.Add(Finding{
				Code:    "E-CORE-REAGENT",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("core reagent %s must exist", id),
				Details: map[string]any{"reagent": id},
			})
		}
	}
	return res, nil
}
