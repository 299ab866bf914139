package core

// Step taxonomy. The tables below are pure data; extending the taxonomy means
// adding entries here, never touching the validator's control flow.

// waterSteps name the wash/rinse operations that require a water-kind station
// and the water reagent class.
var waterSteps = map[string]struct{}{
	"rinse": {},
	"water": {},
	"wash":  {},
}

// ovenSteps name the heating operations that must target the oven station.
var ovenSteps = map[string]struct{}{
	"oven": {},
	"bake": {},
	"dry":  {},
}

// stepAllowedClasses maps an operation name to the reagent classes acceptable
// in its target station. OTHER acts as an escape class for unclassified
// reagents. Operations without an entry impose no class requirement.
var stepAllowedClasses = map[string][]string{
	"rinse":             {ClassWater},
	"water":             {ClassWater},
	"wash":              {ClassWater},
	"hematoxylin":       {"HEMATOXYLIN", ClassOther},
	"eosin":             {"EOSIN", ClassOther},
	"dehydrate":         {"ALCOHOL", ClassOther},
	"clear":             {"XYLENE", "CLEARING", ClassOther},
	"deparaffinization": {"XYLENE", "CLEARING", ClassOther},
	"custom_step":       {ClassOther, "ALCOHOL", "XYLENE", "CLEARING", "HEMATOXYLIN", "EOSIN", ClassWater, ClassEmpty},
}

// IsWaterStep reports whether the operation belongs to the wash/rinse taxonomy.
func IsWaterStep(name string) bool {
	_, ok := waterSteps[name]
	return ok
}

// IsOvenStep reports whether the operation belongs to the oven taxonomy.
func IsOvenStep(name string) bool {
	_, ok := ovenSteps[name]
	return ok
}

// AllowedClasses returns the acceptable reagent classes for an operation, or
// false when the operation defines no class requirement.
func AllowedClasses(name string) ([]string, bool) {
	classes, ok := stepAllowedClasses[name]
	return classes, ok
}
