package cvss

import "math"

// ScoreFunc derives a comparable score from a vector.
type ScoreFunc func(*Vector) float64

// OverallScoreFunc is a ScoreFunc computing the overall score without caching.
func OverallScoreFunc(v *Vector) float64 {
	return v.OverallScore()
}

// ApplyAll applies every defined attribute of other onto v and returns the
// number of attributes that changed.
func (v *Vector) ApplyAll(other *Vector) int {
	changed := 0
	for _, m := range v.mergeable(other) {
		value := other.values[m.code]
		if v.values[m.code] == value {
			continue
		}
		v.values[m.code] = value
		changed++
	}
	v.complete()
	return changed
}

// ApplyPartsIf applies the defined attributes of other onto v one at a time.
// Each attribute is first tried on a scratch clone; it is committed only when
// score(after) <= score(before) (keepIfLowerOrEqual) or score(after) >=
// score(before) otherwise. A NaN score before the trial accepts the attribute;
// a NaN score after the trial rejects it. Returns the number of committed
// attributes.
func (v *Vector) ApplyPartsIf(other *Vector, score ScoreFunc, keepIfLowerOrEqual bool) int {
	committed := 0
	for _, m := range v.mergeable(other) {
		value := other.values[m.code]
		if v.values[m.code] == value {
			continue
		}

		scratch := v.Clone()
		scratch.values[m.code] = value
		scratch.baked = nil

		before := score(v)
		after := score(scratch)
		if !favorable(before, after, keepIfLowerOrEqual) {
			continue
		}

		v.values[m.code] = value
		v.baked = nil
		committed++
	}
	v.complete()
	return committed
}

func favorable(before, after float64, lower bool) bool {
	switch {
	case math.IsNaN(before):
		return true
	case math.IsNaN(after):
		return false
	case lower:
		return after <= before
	default:
		return after >= before
	}
}

// ApplyMetricsIf is the qualitative counterpart of ApplyPartsIf: instead of a
// numeric score it compares the severity rank of the attribute value before
// and after the trial. Attributes without a qualitative order (4.0
// supplemental metrics) are committed only when v leaves them undefined.
func (v *Vector) ApplyMetricsIf(other *Vector, keepIfLowerOrEqual bool) int {
	committed := 0
	for _, m := range v.mergeable(other) {
		value := other.values[m.code]
		if v.values[m.code] == value {
			continue
		}

		var accept bool
		if !m.ranked() {
			accept = !m.defined(v.values[m.code])
		} else {
			scratch := v.Clone()
			scratch.values[m.code] = value
			before := float64(v.rank(m))
			after := float64(scratch.rank(m))
			if before < 0 {
				before = math.NaN()
			}
			if after < 0 {
				after = math.NaN()
			}
			accept = favorable(before, after, keepIfLowerOrEqual)
		}
		if !accept {
			continue
		}

		v.values[m.code] = value
		committed++
	}
	v.complete()
	return committed
}

// Rank returns the qualitative severity rank of an attribute value, 0 being
// the least severe. Undefined modified metrics take the rank of the base
// metric they inherit. Returns -1 for unknown or unranked attributes.
func (v *Vector) Rank(code string) int {
	m := v.schema.lookup(code)
	if m == nil || !m.ranked() {
		return -1
	}
	return v.rank(m)
}

func (v *Vector) rank(m *metric) int {
	value := v.values[m.code]
	if value == "" {
		return -1
	}
	if value == m.undefined {
		switch {
		case m.inherits != "":
			value = v.values[m.inherits]
		case m.rankAs != "":
			value = m.rankAs
		default:
			return -1
		}
	}
	return indexOf(m.values, value)
}

// mergeable returns the metrics of v's schema that other defines. Vectors of
// another version class contribute nothing.
func (v *Vector) mergeable(other *Vector) []*metric {
	if other == nil || !v.Version().SameClass(other.Version()) {
		return nil
	}
	var out []*metric
	for _, m := range v.schema.metrics {
		if m.defined(other.values[m.code]) {
			out = append(out, m)
		}
	}
	return out
}
