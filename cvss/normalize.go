package cvss

import "math"

// Natural maxima of the sub-scores that do not range up to 10.
const (
	MaxScore = 10.0

	MaxImpactV3         = 6.0
	MaxExploitabilityV3 = 3.9
	MaxAdjustedImpactV3 = 6.1
)

// Normalize remaps score from [0, ceiling] onto [0, 10], rounded to one
// decimal. Scores whose natural maximum is 10 are returned unchanged.
func Normalize(score, ceiling float64) float64 {
	if ceiling == MaxScore || math.IsNaN(score) {
		return score
	}
	if ceiling <= 0 {
		return math.NaN()
	}
	return round1((score - 0) / (ceiling - 0) * 10)
}

// round1 rounds half away from zero to one decimal.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// roundup30 is the CVSS 3.0 round up: the smallest one-decimal number >= x.
func roundup30(x float64) float64 {
	return math.Ceil(x*10) / 10
}

// roundup31 is the CVSS 3.1 round up, which avoids floating point artifacts by
// working on an integer scaled by 100000.
func roundup31(x float64) float64 {
	i := int64(math.Round(x * 100000))
	if i%10000 == 0 {
		return float64(i) / 100000.0
	}
	return (math.Floor(float64(i)/10000) + 1) / 10.0
}

// maxima returns the natural maximum of impact, exploitability and adjusted
// impact for a version.
func maxima(v Version) (impact, exploitability, adjustedImpact float64) {
	switch v.Class() {
	case 3:
		return MaxImpactV3, MaxExploitabilityV3, MaxAdjustedImpactV3
	default:
		return MaxScore, MaxScore, MaxScore
	}
}
