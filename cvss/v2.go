package cvss

import "math"

// CVSS 2.0 metric weights.
var (
	v2AccessVector     = map[string]float64{"L": 0.395, "A": 0.646, "N": 1.0}
	v2AccessComplexity = map[string]float64{"H": 0.35, "M": 0.61, "L": 0.71}
	v2Authentication   = map[string]float64{"M": 0.45, "S": 0.56, "N": 0.704}
	v2Impact           = map[string]float64{"N": 0.0, "P": 0.275, "C": 0.660}

	v2Exploitability      = map[string]float64{"U": 0.85, "POC": 0.9, "F": 0.95, "H": 1.0, "ND": 1.0}
	v2RemediationLevel    = map[string]float64{"OF": 0.87, "TF": 0.90, "W": 0.95, "U": 1.0, "ND": 1.0}
	v2ReportConfidence    = map[string]float64{"UC": 0.90, "UR": 0.95, "C": 1.0, "ND": 1.0}
	v2CollateralDamage    = map[string]float64{"N": 0, "L": 0.1, "LM": 0.3, "MH": 0.4, "H": 0.5, "ND": 0}
	v2TargetDistrib       = map[string]float64{"N": 0, "L": 0.25, "M": 0.75, "H": 1.0, "ND": 1.0}
	v2SecurityRequirement = map[string]float64{"L": 0.5, "M": 1.0, "H": 1.51, "ND": 1.0}
)

func computeV2(v *Vector) scores {
	if !v.IsBaseFullyDefined() {
		return undefinedScores()
	}

	c := v.weight(v2Impact, "C")
	i := v.weight(v2Impact, "I")
	a := v.weight(v2Impact, "A")

	impact := 10.41 * (1 - (1-c)*(1-i)*(1-a))
	exploitability := 20 * v.weight(v2AccessVector, "AV") *
		v.weight(v2AccessComplexity, "AC") *
		v.weight(v2Authentication, "Au")

	temporalFactor := v.weight(v2Exploitability, "E") *
		v.weight(v2RemediationLevel, "RL") *
		v.weight(v2ReportConfidence, "RC")

	base := v2Base(impact, exploitability)
	temporal := round1(base * temporalFactor)

	adjustedImpact := math.Min(10, 10.41*(1-
		(1-c*v.weight(v2SecurityRequirement, "CR"))*
			(1-i*v.weight(v2SecurityRequirement, "IR"))*
			(1-a*v.weight(v2SecurityRequirement, "AR"))))
	adjustedTemporal := round1(v2Base(adjustedImpact, exploitability) * temporalFactor)
	cdp := v.weight(v2CollateralDamage, "CDP")
	td := v.weight(v2TargetDistrib, "TD")
	environmental := round1((adjustedTemporal + (10-adjustedTemporal)*cdp) * td)

	s := scores{
		base:           base,
		impact:         round1(impact),
		exploitability: round1(exploitability),
		temporal:       temporal,
		environmental:  environmental,
		adjustedImpact: round1(adjustedImpact),
	}
	s.overall = overallOf(v, s)
	return s
}

func v2Base(impact, exploitability float64) float64 {
	f := 1.176
	if impact == 0 {
		f = 0
	}
	return round1(((0.6 * impact) + (0.4 * exploitability) - 1.5) * f)
}
