package gb50011

import (
	"fmt"
	"sort"
	"strings"
)

// GB 50011-2010 design parameter tables

// Level is the seismic fortification level the spectrum is drawn for.
type Level string

const (
	Frequent Level = "frequent" // 多遇地震, frequent earthquake
	Basic    Level = "basic"    // 设防地震, fortification earthquake
	Rare     Level = "rare"     // 罕遇地震, rare earthquake
)

// Params holds the two scalars that fully define a design spectrum.
type Params struct {
	Tg       float64 // characteristic period (s)
	AlphaMax float64 // maximum seismic influence coefficient
}

// characteristicPeriods maps design group -> site class -> Tg (s).
// Table 5.1.4-2
var characteristicPeriods = map[int]map[string]float64{
	1: {"I0": 0.20, "I1": 0.25, "II": 0.35, "III": 0.45, "IV": 0.65},
	2: {"I0": 0.25, "I1": 0.30, "II": 0.40, "III": 0.55, "IV": 0.75},
	3: {"I0": 0.30, "I1": 0.35, "II": 0.45, "III": 0.65, "IV": 0.90},
}

// maxInfluence maps level -> intensity -> alpha_max.
// Table 5.1.4-1 (7.5 and 8.5 denote the 0.15g and 0.30g zones)
var maxInfluence = map[Level]map[float64]float64{
	Frequent: {6: 0.04, 7: 0.08, 7.5: 0.12, 8: 0.16, 8.5: 0.24, 9: 0.32},
	Basic:    {6: 0.12, 7: 0.23, 7.5: 0.34, 8: 0.45, 8.5: 0.68, 9: 0.90},
	Rare:     {6: 0.28, 7: 0.50, 7.5: 0.72, 8: 0.90, 8.5: 1.20, 9: 1.40},
}

// LookupError reports a table key that does not exist.
type LookupError struct {
	Axis  string   // "group", "site class", "level" or "intensity"
	Value string   // offending value as given
	Valid []string // accepted values, sorted
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("gb50011: invalid %s %q (valid: %s)", e.Axis, e.Value, strings.Join(e.Valid, ", "))
}

// Lookup resolves intensity, design group, site class and level to the
// spectrum parameters. Any unknown key is reported as a *LookupError.
func Lookup(intensity float64, group int, siteClass string, level Level) (Params, error) {
	sites, ok := characteristicPeriods[group]
	if !ok {
		return Params{}, &LookupError{Axis: "group", Value: fmt.Sprint(group), Valid: Groups()}
	}

	tg, ok := sites[siteClass]
	if !ok {
		return Params{}, &LookupError{Axis: "site class", Value: siteClass, Valid: SiteClasses()}
	}

	intensities, ok := maxInfluence[level]
	if !ok {
		return Params{}, &LookupError{Axis: "level", Value: string(level), Valid: Levels()}
	}

	alphaMax, ok := intensities[intensity]
	if !ok {
		return Params{}, &LookupError{Axis: "intensity", Value: fmt.Sprint(intensity), Valid: Intensities()}
	}

	return Params{Tg: tg, AlphaMax: alphaMax}, nil
}

// Groups lists the design earthquake groups.
func Groups() []string {
	out := make([]string, 0, len(characteristicPeriods))
	for g := range characteristicPeriods {
		out = append(out, fmt.Sprint(g))
	}
	sort.Strings(out)
	return out
}

// SiteClasses lists the site classes in code order.
func SiteClasses() []string {
	return []string{"I0", "I1", "II", "III", "IV"}
}

// Levels lists the seismic levels.
func Levels() []string {
	return []string{string(Frequent), string(Basic), string(Rare)}
}

// Intensities lists the fortification intensities.
func Intensities() []string {
	keys := make([]float64, 0, len(maxInfluence[Frequent]))
	for k := range maxInfluence[Frequent] {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprint(k)
	}
	return out
}
