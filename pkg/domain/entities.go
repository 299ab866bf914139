package domain

// StationKind classifies a station's physical role on the transport path.
type StationKind string

// Station kinds. Bath stations hold a reagent, water stations are plumbed,
// the oven never holds liquid and load is a transport endpoint.
const (
	KindReagent StationKind = "reagent"
	KindWater   StationKind = "water"
	KindOven    StationKind = "oven"
	KindLoad    StationKind = "load"
)

// WaterMode selects the effective behavior of a dual-mode water station.
type WaterMode string

// Dual-mode settings for W1/W2. In water mode the station enforces the water
// reagent class; in reagent mode it behaves like a regular bath station.
const (
	ModeWater   WaterMode = "WATER"
	ModeReagent WaterMode = "REAGENT"
)

// Valid reports whether the mode is one of the two known values.
func (m WaterMode) Valid() bool {
	return m == ModeWater || m == ModeReagent
}

// ReagentClass categorizes reagents for chemical suitability checks.
type ReagentClass struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Reagent is a concrete liquid (or structural marker) assignable to a station.
type Reagent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ClassID       string `json:"class_id"`
	OverrideColor string `json:"override_color,omitempty"`
}

// Reserved class identifiers the engine reasons about directly.
const (
	ClassEmpty = "EMPTY"
	ClassWater = "WATER"
	ClassOther = "OTHER"
	ClassOven  = "OVEN"
	ClassLoad  = "LOAD"
)

// Reserved reagent identities. ReagentEmpty marks an unassigned station.
const (
	ReagentEmpty = "EMPTY"
	ReagentWater = "H2O"
	ReagentOven  = "OVEN"
	ReagentLoad  = "LOAD"
)

// Assignment binds a station to the reagent it currently holds.
type Assignment struct {
	ReagentID string `json:"reagent_id"`
}

// Step is one timed operation of a staining program.
type Step struct {
	Name    string `json:"name"`
	Slot    string `json:"slot"`
	TimeSec int    `json:"time_sec"`
	// Exclusive requires sole use of the target station for the whole step,
	// not just passing contact. Serialized as "exact" for compatibility with
	// the instrument's program format.
	Exclusive bool `json:"exact"`
}

// Program is an ordered sequence of steps executed along the transport path.
type Program struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Settings holds the runtime-tunable layout parameters.
type Settings struct {
	WaterModes    map[string]WaterMode `json:"w_mode"`
	WaterFlowLMin float64              `json:"water_flow_l_min"`
	RunSelection  []string             `json:"selected_for_run"`
}

// Snapshot is a point-in-time copy of the full configuration state.
type Snapshot struct {
	Classes  map[string]ReagentClass `json:"classes"`
	Reagents map[string]Reagent      `json:"reagents"`
	Layout   map[string]Assignment   `json:"layout"`
	Programs map[string]Program      `json:"programs"`
	Settings Settings                `json:"settings"`
}
