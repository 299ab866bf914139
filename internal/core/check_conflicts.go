package core

import (
	"fmt"
	"sort"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// sharedStationListCap bounds the station list reported in a shared-usage
// warning so messages stay readable on crowded layouts.
const sharedStationListCap = 8

// CheckConflicts inspects every unordered pair of selected programs for
// interactions that only arise when the programs run concurrently on the same
// station set. Per-program rules are not re-run here.
func CheckConflicts(view RuleView, selected []string) Result {
	var res Result
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			p1, ok1 := view.FindProgram(selected[i])
			p2, ok2 := view.FindProgram(selected[j])
			if !ok1 || !ok2 {
				// Missing programs already yield E-NOTFOUND per program.
				continue
			}
			pair := fmt.Sprintf("%s + %s", selected[i], selected[j])

			if slot, ok := exclusiveStationConflict(p1.Steps, p2.Steps); ok {
				res.Add(Finding{
					Code:    "E-EXACT-CONFLICT",
					Level:   SeverityBlock,
					Message: "Exclusive station conflict between programs",
					Details: map[string]any{"program_1": selected[i], "program_2": selected[j], "station": slot},
					Program: pair,
				})
			}

			if stations, ok := reverseOrderConflict(p1.Steps, p2.Steps); ok {
				res.Add(Finding{
					Code:    "E-REVERSE-CONFLICT",
					Level:   SeverityBlock,
					Message: "Reverse station order conflict between programs",
					Details: map[string]any{"program_1": selected[i], "program_2": selected[j], "stations": stations[:]},
					Program: pair,
				})
			}

			if shared := sharedStations(p1.Steps, p2.Steps); len(shared) > 0 {
				listed := shared
				if len(listed) > sharedStationListCap {
					listed = listed[:sharedStationListCap]
				}
				res.Add(Finding{
					Code:    "W-SHARED-STATIONS",
					Level:   SeverityWarn,
					Message: "Programs share stations; throughput contention is possible",
					Details: map[string]any{"program_1": selected[i], "program_2": selected[j], "stations": listed, "shared_count": len(shared)},
					Program: pair,
				})
			}
		}
	}
	return res
}

// exclusiveStationConflict returns the lexicographically first station both
// programs claim sole use of.
func exclusiveStationConflict(steps1, steps2 []Step) (string, bool) {
	set1 := exclusiveStationSet(steps1)
	set2 := exclusiveStationSet(steps2)
	var both []string
	for slot := range set1 {
		if _, ok := set2[slot]; ok {
			both = append(both, slot)
		}
	}
	if len(both) == 0 {
		return "", false
	}
	sort.Strings(both)
	return both[0], true
}

func exclusiveStationSet(steps []Step) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range steps {
		if s.Exclusive && domain.KnownStation(s.Slot) {
			set[s.Slot] = struct{}{}
		}
	}
	return set
}

// reverseOrderConflict finds a station pair the two programs visit in
// contradictory order. Visit order uses first occurrence per program.
func reverseOrderConflict(steps1, steps2 []Step) ([2]string, bool) {
	order1 := visitOrder(steps1)
	order2 := visitOrder(steps2)
	index1 := orderIndex(order1)
	index2 := orderIndex(order2)

	var common []string
	for _, slot := range order1 {
		if _, ok := index2[slot]; ok {
			common = append(common, slot)
		}
	}
	for i := 0; i < len(common); i++ {
		for j := i + 1; j < len(common); j++ {
			a, b := common[i], common[j]
			if index1[a] < index1[b] && index2[a] > index2[b] {
				return [2]string{a, b}, true
			}
			if index1[a] > index1[b] && index2[a] < index2[b] {
				return [2]string{a, b}, true
			}
		}
	}
	return [2]string{}, false
}

// visitOrder lists the distinct known stations a program visits, in program
// order.
func visitOrder(steps []Step) []string {
	var order []string
	seen := make(map[string]struct{})
	for _, s := range steps {
		if !domain.KnownStation(s.Slot) {
			continue
		}
		if _, ok := seen[s.Slot]; ok {
			continue
		}
		seen[s.Slot] = struct{}{}
		order = append(order, s.Slot)
	}
	return order
}

func orderIndex(order []string) map[string]int {
	index := make(map[string]int, len(order))
	for i, slot := range order {
		index[slot] = i
	}
	return index
}

// sharedStations returns the sorted intersection of the two programs'
// station sets.
func sharedStations(steps1, steps2 []Step) []string {
	set2 := make(map[string]struct{})
	for _, s := range steps2 {
		if domain.KnownStation(s.Slot) {
			set2[s.Slot] = struct{}{}
		}
	}
	seen := make(map[string]struct{})
	var shared []string
	for _, s := range steps1 {
		if _, ok := set2[s.Slot]; !ok {
			continue
		}
		if _, ok := seen[s.Slot]; ok {
			continue
		}
		seen[s.Slot] = struct{}{}
		shared = append(shared, s.Slot)
	}
	sort.Strings(shared)
	return shared
}
