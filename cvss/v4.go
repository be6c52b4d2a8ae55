package cvss

import (
	"math"

	gocvss40 "github.com/pandatix/go-cvss/40"
)

// computeV4 scores a 4.0 vector through the macro-vector lookup of go-cvss.
// 4.0 defines a single score per nomenclature, so only base (CVSS-B, base
// metrics only) and overall (CVSS-BTE over every defined metric) are set.
func computeV4(v *Vector) scores {
	s := undefinedScores()
	if !v.IsBaseFullyDefined() {
		return s
	}
	s.base = scoreV4(v.encode(func(m *metric) bool { return m.group == groupBase }))
	s.overall = scoreV4(v.String())
	return s
}

func scoreV4(encoded string) float64 {
	parsed, err := gocvss40.ParseVector(encoded)
	if err != nil {
		logger().Debug("cvss 4.0 scoring failed", "vector", encoded, "error", err)
		return math.NaN()
	}
	return parsed.Score()
}
