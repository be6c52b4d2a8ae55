package selector

import "github.com/zero-day-ai/cvssel/cvss"

// Merge combines incoming into a clone of base and returns the result with
// the number of attributes that changed. Neither input is modified. score is
// consulted by LOWER and HIGHER; nil selects the uncached overall score.
func (m MergingMethod) Merge(base, incoming *cvss.Vector, score cvss.ScoreFunc) (*cvss.Vector, int) {
	if score == nil {
		score = cvss.OverallScoreFunc
	}
	if base == nil {
		return incoming.Clone(), len(incoming.Attributes())
	}

	switch m {
	case MethodOverwrite:
		return incoming.Clone(), changedAttributes(base, incoming)
	case MethodLower, MethodHigher:
		out := base.Clone()
		return out, out.ApplyPartsIf(incoming, score, m == MethodLower)
	case MethodLowerMetric, MethodHigherMetric:
		out := base.Clone()
		return out, out.ApplyMetricsIf(incoming, m == MethodLowerMetric)
	default:
		out := base.Clone()
		return out, out.ApplyAll(incoming)
	}
}

// changedAttributes counts the attributes whose value differs between a and b.
func changedAttributes(a, b *cvss.Vector) int {
	if !a.Version().SameClass(b.Version()) {
		return len(b.Attributes())
	}
	changed := 0
	seen := make(map[string]bool)
	for _, code := range cvss.AttributeCodes(b.Version()) {
		seen[code] = true
		if a.Get(code) != b.Get(code) {
			changed++
		}
	}
	for _, code := range cvss.AttributeCodes(a.Version()) {
		if !seen[code] && a.IsDefined(code) {
			changed++
		}
	}
	return changed
}

// CachedScore returns a ScoreFunc reading the overall score through cache.
func CachedScore(cache *cvss.Cache) cvss.ScoreFunc {
	if cache == nil {
		cache = cvss.Default()
	}
	return func(v *cvss.Vector) float64 {
		return cache.Bake(v).Overall
	}
}
