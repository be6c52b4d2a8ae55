package cvss

import "math"

// scores holds every score a version can derive. Fields a version does not
// define are NaN.
type scores struct {
	base           float64
	impact         float64
	exploitability float64
	temporal       float64
	environmental  float64
	adjustedImpact float64
	overall        float64
}

func undefinedScores() scores {
	nan := math.NaN()
	return scores{
		base:           nan,
		impact:         nan,
		exploitability: nan,
		temporal:       nan,
		environmental:  nan,
		adjustedImpact: nan,
		overall:        nan,
	}
}

// compute dispatches to the formula of the vector's version.
func (v *Vector) compute() scores {
	switch v.schema.version {
	case Version2:
		return computeV2(v)
	case Version30:
		return computeV3(v, roundup30, modifiedImpact30)
	case Version31:
		return computeV3(v, roundup31, modifiedImpact31)
	case Version40:
		return computeV4(v)
	default:
		return undefinedScores()
	}
}

// BaseScore returns the base score.
func (v *Vector) BaseScore() float64 { return v.compute().base }

// ImpactScore returns the impact sub-score (NaN for 4.0).
func (v *Vector) ImpactScore() float64 { return v.compute().impact }

// ExploitabilityScore returns the exploitability sub-score (NaN for 4.0).
func (v *Vector) ExploitabilityScore() float64 { return v.compute().exploitability }

// TemporalScore returns the temporal score (NaN for 4.0).
func (v *Vector) TemporalScore() float64 { return v.compute().temporal }

// EnvironmentalScore returns the environmental score (NaN for 4.0).
func (v *Vector) EnvironmentalScore() float64 { return v.compute().environmental }

// AdjustedImpactScore returns the environmentally adjusted (modified) impact
// sub-score (NaN for 4.0).
func (v *Vector) AdjustedImpactScore() float64 { return v.compute().adjustedImpact }

// OverallScore returns the most specific score the vector supports: the
// environmental score when environmental metrics are defined, else the
// temporal score when temporal metrics are defined, else the base score.
// For 4.0 it is the score over all defined metrics.
func (v *Vector) OverallScore() float64 { return v.compute().overall }

// overallOf picks the most specific of the three v2/v3 scores.
func overallOf(v *Vector, s scores) float64 {
	switch {
	case v.IsEnvironmentalPartiallyDefined():
		return s.environmental
	case v.IsTemporalPartiallyDefined():
		return s.temporal
	default:
		return s.base
	}
}

// weight returns the numeric weight of the current value of code.
func (v *Vector) weight(table map[string]float64, code string) float64 {
	return table[v.values[code]]
}

// modifiedValue returns the value of a modified metric, falling back to the
// base metric it inherits when undefined.
func (v *Vector) modifiedValue(code string) string {
	m := v.schema.lookup(code)
	value := v.values[code]
	if m == nil || m.defined(value) {
		return value
	}
	return v.values[m.inherits]
}
