package core

import (
	"context"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// DefaultSnapshot returns the factory configuration shipped with the
// instrument: the stock class and reagent catalogs, water stations filled
// with H2O, the structural OVEN/LOAD markers, the stock programs and a
// nominal water supply.
func DefaultSnapshot() Snapshot {
	classes := map[string]ReagentClass{
		ClassEmpty:    {ID: ClassEmpty, Name: "Empty", Color: "#94a3b8"},
		ClassWater:    {ID: ClassWater, Name: "Water", Color: "#60a5fa"},
		"ALCOHOL":     {ID: "ALCOHOL", Name: "Alcohol", Color: "#a78bfa"},
		"XYLENE":      {ID: "XYLENE", Name: "Xylene", Color: "#fbbf24"},
		"CLEARING":    {ID: "CLEARING", Name: "Clearing", Color: "#f59e0b"},
		"HEMATOXYLIN": {ID: "HEMATOXYLIN", Name: "Hematoxylin", Color: "#22c55e"},
		"EOSIN":       {ID: "EOSIN", Name: "Eosin", Color: "#fb7185"},
		ClassOther:    {ID: ClassOther, Name: "Other", Color: "#38bdf8"},
		ClassOven:     {ID: ClassOven, Name: "Oven", Color: "#f87171"},
		ClassLoad:     {ID: ClassLoad, Name: "Load", Color: "#cbd5e1"},
	}

	reagents := map[string]Reagent{
		ReagentEmpty:       {ID: ReagentEmpty, Name: "Empty", ClassID: ClassEmpty},
		ReagentWater:       {ID: ReagentWater, Name: "H₂O", ClassID: ClassWater},
		"XYL":              {ID: "XYL", Name: "Xylene", ClassID: "XYLENE"},
		"ALC96":            {ID: "ALC96", Name: "Alcohol 96%", ClassID: "ALCOHOL"},
		"HEM":              {ID: "HEM", Name: "Hematoxylin", ClassID: "HEMATOXYLIN"},
		"EOS":              {ID: "EOS", Name: "Eosin", ClassID: "EOSIN"},
		"CLR":              {ID: "CLR", Name: "Clearing agent", ClassID: "CLEARING"},
		domain.ReagentOven: {ID: domain.ReagentOven, Name: "Oven", ClassID: ClassOven},
		domain.ReagentLoad: {ID: domain.ReagentLoad, Name: "Load", ClassID: ClassLoad},
	}

	layout := make(map[string]Assignment, len(domain.TransportOrder))
	for _, slot := range domain.TransportOrder {
		layout[slot] = Assignment{ReagentID: ReagentEmpty}
	}
	for _, slot := range domain.FixedWaterStations() {
		layout[slot] = Assignment{ReagentID: ReagentWater}
	}
	for _, slot := range domain.DualModeStations() {
		layout[slot] = Assignment{ReagentID: ReagentWater}
	}
	layout[domain.StationOven] = Assignment{ReagentID: domain.ReagentOven}
	layout[domain.StationLoad] = Assignment{ReagentID: domain.ReagentLoad}

	// The conveyor cannot move backward, so the stock programs follow the
	// transport path: H&E stains on the top row, rinses at W5 and finishes
	// on the bottom row (R18 onward).
	programs := map[string]Program{
		"H&E": {Name: "H&E", Steps: []Step{
			{Name: "deparaffinization", Slot: "R1", TimeSec: 300, Exclusive: true},
			{Name: "hematoxylin", Slot: "R2", TimeSec: 180, Exclusive: true},
			{Name: "rinse", Slot: "W5", TimeSec: 60},
			{Name: "eosin", Slot: "R18", TimeSec: 120, Exclusive: true},
			{Name: "dehydrate", Slot: "R17", TimeSec: 240},
			{Name: "clear", Slot: "R16", TimeSec: 180},
		}},
		"PAP": {Name: "PAP", Steps: []Step{
			{Name: "custom_step", Slot: "R6", TimeSec: 60},
		}},
		"CELLPROG": {Name: "CELLPROG", Steps: []Step{
			{Name: "custom_step", Slot: "R7", TimeSec: 60},
		}},
	}

	settings := Settings{
		WaterModes: map[string]WaterMode{
			"W1": ModeWater,
			"W2": ModeWater,
		},
		WaterFlowLMin: 8.0,
		RunSelection:  []string{"H&E"},
	}

	return Snapshot{
		Classes:  classes,
		Reagents: reagents,
		Layout:   layout,
		Programs: programs,
		Settings: settings,
	}
}

// EnsureDefaults seeds the factory configuration into an empty store. A
// store that already carries classes is left untouched. Returns whether
// seeding happened.
func (s *Service) EnsureDefaults(ctx context.Context) (bool, error) {
	seeded := false
	err := s.audited(ctx, "ensure_defaults", "", func(ctx context.Context) error {
		empty := false
		if err := s.store.View(ctx, func(view TransactionView) error {
			empty = len(view.ListClasses()) == 0
			return nil
		}); err != nil {
			return err
		}
		if !empty {
			return nil
		}
		s.store.ImportState(DefaultSnapshot())
		seeded = true
		s.logger.Info("seeded factory configuration")
		return nil
	})
	return seeded, err
}
