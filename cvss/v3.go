package cvss

import "math"

// CVSS 3.x metric weights.
var (
	v3AttackVector     = map[string]float64{"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2}
	v3AttackComplexity = map[string]float64{"L": 0.77, "H": 0.44}
	v3UserInteraction  = map[string]float64{"N": 0.85, "R": 0.62}
	v3Impact           = map[string]float64{"H": 0.56, "L": 0.22, "N": 0}

	v3ExploitMaturity     = map[string]float64{"X": 1, "H": 1, "F": 0.97, "P": 0.94, "U": 0.91}
	v3RemediationLevel    = map[string]float64{"X": 1, "U": 1, "W": 0.97, "T": 0.96, "O": 0.95}
	v3ReportConfidence    = map[string]float64{"X": 1, "C": 1, "R": 0.96, "U": 0.92}
	v3SecurityRequirement = map[string]float64{"X": 1, "H": 1.5, "M": 1, "L": 0.5}
)

func v3PrivilegesRequired(value string, scopeChanged bool) float64 {
	switch value {
	case "N":
		return 0.85
	case "L":
		if scopeChanged {
			return 0.68
		}
		return 0.62
	case "H":
		if scopeChanged {
			return 0.5
		}
		return 0.27
	}
	return 0
}

func modifiedImpact30(miss float64) float64 {
	return 7.52*(miss-0.029) - 3.25*math.Pow(miss-0.02, 15)
}

func modifiedImpact31(miss float64) float64 {
	return 7.52*(miss-0.029) - 3.25*math.Pow(miss*0.9731-0.02, 13)
}

func computeV3(v *Vector, roundup func(float64) float64, changedModifiedImpact func(float64) float64) scores {
	if !v.IsBaseFullyDefined() {
		return undefinedScores()
	}

	changed := v.values["S"] == "C"
	c := v.weight(v3Impact, "C")
	i := v.weight(v3Impact, "I")
	a := v.weight(v3Impact, "A")

	iss := 1 - (1-c)*(1-i)*(1-a)
	var impact float64
	if changed {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	exploitability := 8.22 * v.weight(v3AttackVector, "AV") *
		v.weight(v3AttackComplexity, "AC") *
		v3PrivilegesRequired(v.values["PR"], changed) *
		v.weight(v3UserInteraction, "UI")

	var base float64
	switch {
	case impact <= 0:
		base = 0
	case changed:
		base = roundup(math.Min(1.08*(impact+exploitability), 10))
	default:
		base = roundup(math.Min(impact+exploitability, 10))
	}

	temporalFactor := v.weight(v3ExploitMaturity, "E") *
		v.weight(v3RemediationLevel, "RL") *
		v.weight(v3ReportConfidence, "RC")
	temporal := roundup(base * temporalFactor)

	mChanged := v.modifiedValue("MS") == "C"
	mc := v3Impact[v.modifiedValue("MC")]
	mi := v3Impact[v.modifiedValue("MI")]
	ma := v3Impact[v.modifiedValue("MA")]
	miss := math.Min(1-
		(1-v.weight(v3SecurityRequirement, "CR")*mc)*
			(1-v.weight(v3SecurityRequirement, "IR")*mi)*
			(1-v.weight(v3SecurityRequirement, "AR")*ma), 0.915)

	var mImpact float64
	if mChanged {
		mImpact = changedModifiedImpact(miss)
	} else {
		mImpact = 6.42 * miss
	}
	mExploitability := 8.22 * v3AttackVector[v.modifiedValue("MAV")] *
		v3AttackComplexity[v.modifiedValue("MAC")] *
		v3PrivilegesRequired(v.modifiedValue("MPR"), mChanged) *
		v3UserInteraction[v.modifiedValue("MUI")]

	var environmental float64
	switch {
	case mImpact <= 0:
		environmental = 0
	case mChanged:
		environmental = roundup(roundup(math.Min(1.08*(mImpact+mExploitability), 10)) * temporalFactor)
	default:
		environmental = roundup(roundup(math.Min(mImpact+mExploitability, 10)) * temporalFactor)
	}

	s := scores{
		base:           base,
		impact:         round1(math.Max(impact, 0)),
		exploitability: round1(exploitability),
		temporal:       temporal,
		environmental:  environmental,
		adjustedImpact: round1(math.Max(mImpact, 0)),
	}
	s.overall = overallOf(v, s)
	return s
}
