package cvss

import (
	"encoding/json"
	"math"
)

// Baked is an immutable snapshot of every score derivable from one canonical
// vector string. Scores a version does not define are NaN.
type Baked struct {
	Vector  string
	Version Version

	Base           float64
	Impact         float64
	Exploitability float64
	Temporal       float64
	Environmental  float64
	AdjustedImpact float64
	Overall        float64

	// Sub-scores remapped onto [0, 10] by Normalize.
	NormalizedImpact         float64
	NormalizedExploitability float64
	NormalizedAdjustedImpact float64
}

// newBaked computes a snapshot. It has no side effects on v.
func newBaked(v *Vector) *Baked {
	s := v.compute()
	maxImpact, maxExploitability, maxAdjusted := maxima(v.Version())
	return &Baked{
		Vector:                   v.String(),
		Version:                  v.Version(),
		Base:                     s.base,
		Impact:                   s.impact,
		Exploitability:           s.exploitability,
		Temporal:                 s.temporal,
		Environmental:            s.environmental,
		AdjustedImpact:           s.adjustedImpact,
		Overall:                  s.overall,
		NormalizedImpact:         Normalize(s.impact, maxImpact),
		NormalizedExploitability: Normalize(s.exploitability, maxExploitability),
		NormalizedAdjustedImpact: Normalize(s.adjustedImpact, maxAdjusted),
	}
}

// Equal reports whether b and other hold the same vector and scores, treating
// NaN as equal to NaN.
func (b Baked) Equal(other Baked) bool {
	if b.Vector != other.Vector || b.Version != other.Version {
		return false
	}
	pairs := [][2]float64{
		{b.Base, other.Base},
		{b.Impact, other.Impact},
		{b.Exploitability, other.Exploitability},
		{b.Temporal, other.Temporal},
		{b.Environmental, other.Environmental},
		{b.AdjustedImpact, other.AdjustedImpact},
		{b.Overall, other.Overall},
		{b.NormalizedImpact, other.NormalizedImpact},
		{b.NormalizedExploitability, other.NormalizedExploitability},
		{b.NormalizedAdjustedImpact, other.NormalizedAdjustedImpact},
	}
	for _, p := range pairs {
		if p[0] != p[1] && !(math.IsNaN(p[0]) && math.IsNaN(p[1])) {
			return false
		}
	}
	return true
}

// MarshalJSON omits NaN scores, which JSON cannot represent.
func (b Baked) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"vector":  b.Vector,
		"version": b.Version.String(),
	}
	put := func(key string, value float64) {
		if !math.IsNaN(value) {
			out[key] = value
		}
	}
	put("base", b.Base)
	put("impact", b.Impact)
	put("exploitability", b.Exploitability)
	put("temporal", b.Temporal)
	put("environmental", b.Environmental)
	put("adjusted_impact", b.AdjustedImpact)
	put("overall", b.Overall)
	put("normalized_impact", b.NormalizedImpact)
	put("normalized_exploitability", b.NormalizedExploitability)
	put("normalized_adjusted_impact", b.NormalizedAdjustedImpact)
	return json.Marshal(out)
}

// Bake returns the score snapshot of v. The snapshot is memoized on the
// vector until its next mutation and otherwise obtained from the process-wide
// cache.
func (v *Vector) Bake() Baked {
	if v.baked != nil {
		return *v.baked
	}
	return Default().Bake(v)
}
