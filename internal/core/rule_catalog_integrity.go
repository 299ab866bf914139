package core

import (
	"context"
	"fmt"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// NewCatalogIntegrityRule returns the in-transaction rule enforcing catalog
// referential integrity: every reagent references a known class and every
// layout assignment references a known reagent.
func NewCatalogIntegrityRule() domain.Rule {
	return catalogIntegrityRule{}
}

type catalogIntegrityRule struct{}

func (catalogIntegrityRule) Name() string { return "catalog_integrity" }

func (catalogIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	var res Result
	for _, reagent := range view.ListReagents() {
		if _, ok := view.FindClass(reagent.ClassID); !ok {
			res.Add(Finding{
				Code:    "E-REF-CLASS",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("reagent %s references unknown class %s", reagent.ID, reagent.ClassID),
				Details: map[string]any{"reagent": reagent.ID, "class": reagent.ClassID},
			})
		}
	}
	for _, slot := range domain.TransportOrder {
		id, ok := view.ReagentAt(slot)
		if !ok || id == "" {
			continue
		}
		if _, ok := view.FindReagent(id); !ok {
			res.Add(Finding{
				Code:    "E-REF-REAGENT",
				Level:   SeverityBlock,
				Message: fmt.Sprintf("station %s holds unknown reagent %s", slot, id),
				Details: map[string]any{"slot": slot, "reagent": id},
			})
		}
	}
	return res, nil
}
