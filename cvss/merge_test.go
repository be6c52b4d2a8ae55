package cvss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nvdCritical = "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"

func TestApplyAll(t *testing.T) {
	v := MustParse(nvdCritical)
	n := v.ApplyAll(MustParse("CVSS:3.1/AV:N/AC:H/E:P"))
	assert.Equal(t, 2, n, "AV is unchanged, AC and E change")
	assert.Equal(t, "CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:U/C:H/I:H/A:H/E:P", v.String())
}

func TestApplyAll_OtherVersionClassContributesNothing(t *testing.T) {
	v := MustParse(nvdCritical)
	n := v.ApplyAll(MustParse("CVSS:2.0/AV:L/AC:H/Au:N/C:N/I:N/A:N"))
	assert.Equal(t, 0, n)
	assert.Equal(t, nvdCritical, v.String())

	n = v.ApplyAll(MustParse("CVSS:3.0/AC:H"))
	assert.Equal(t, 1, n, "3.0 and 3.1 share a class")
}

func TestApplyPartsIf_Lower(t *testing.T) {
	v := MustParse(nvdCritical)
	n := v.ApplyPartsIf(MustParse("CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:U/C:H/I:H/A:H"), OverallScoreFunc, true)
	assert.Equal(t, 1, n)
	assert.Equal(t, "H", v.Get("AC"))
	assert.InDelta(t, 8.1, v.OverallScore(), 1e-9)
}

func TestApplyPartsIf_HigherRejectsLoweringAttributes(t *testing.T) {
	v := MustParse(nvdCritical)
	n := v.ApplyPartsIf(MustParse("CVSS:3.1/AC:H/S:C"), OverallScoreFunc, false)
	assert.Equal(t, 1, n, "S:C raises the score, AC:H lowers it")
	assert.Equal(t, "L", v.Get("AC"))
	assert.Equal(t, "C", v.Get("S"))
}

func TestApplyPartsIf_AttributeGranular(t *testing.T) {
	v := MustParse(nvdCritical)
	// UI:R and C:L lower the score and are kept; S:C raises it and is dropped.
	n := v.ApplyPartsIf(MustParse("CVSS:3.1/UI:R/C:L/S:C"), OverallScoreFunc, true)
	assert.Equal(t, 2, n)
	assert.Equal(t, "R", v.Get("UI"))
	assert.Equal(t, "L", v.Get("C"))
	assert.Equal(t, "U", v.Get("S"))
}

func TestApplyPartsIf_NaNBaseAcceptsAttributes(t *testing.T) {
	v := MustParse("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H")
	n := v.ApplyPartsIf(MustParse("CVSS:3.1/A:H"), OverallScoreFunc, true)
	assert.Equal(t, 1, n)
	assert.True(t, v.IsBaseFullyDefined())
}

func TestApplyPartsIf_Monotonic(t *testing.T) {
	bases := []string{
		nvdCritical,
		"CVSS:3.1/AV:L/AC:H/PR:H/UI:R/S:U/C:L/I:N/A:N",
		"CVSS:3.1/AV:A/AC:L/PR:L/UI:N/S:C/C:H/I:L/A:N/E:P",
		"CVSS:2.0/AV:N/AC:M/Au:S/C:P/I:P/A:N",
	}
	incoming := []string{
		"CVSS:3.1/AV:P/AC:L/PR:N/UI:R/S:C/C:H/I:H/A:L/E:F/MAV:N",
		"CVSS:3.1/AC:H/C:N/CR:H",
		"CVSS:2.0/AV:L/AC:L/Au:N/C:C/I:N/A:C/E:U/TD:L",
	}

	for _, b := range bases {
		for _, in := range incoming {
			lower := MustParse(b)
			before := lower.OverallScore()
			lower.ApplyPartsIf(MustParse(in), OverallScoreFunc, true)
			assert.LessOrEqual(t, lower.OverallScore(), before, "LOWER %s <- %s", b, in)

			higher := MustParse(b)
			higher.ApplyPartsIf(MustParse(in), OverallScoreFunc, false)
			assert.GreaterOrEqual(t, higher.OverallScore(), before, "HIGHER %s <- %s", b, in)
		}
	}
}

func TestApplyMetricsIf(t *testing.T) {
	v := MustParse(nvdCritical)
	n := v.ApplyMetricsIf(MustParse("CVSS:3.1/AV:L/AC:L/PR:H"), true)
	assert.Equal(t, 2, n)
	assert.Equal(t, "L", v.Get("AV"))
	assert.Equal(t, "H", v.Get("PR"))

	v = MustParse(nvdCritical)
	n = v.ApplyMetricsIf(MustParse("CVSS:3.1/AV:L/S:C"), false)
	assert.Equal(t, 1, n)
	assert.Equal(t, "N", v.Get("AV"))
	assert.Equal(t, "C", v.Get("S"))
}

func TestApplyMetricsIf_NotDefinedRanksLikeItsEffect(t *testing.T) {
	// E:X scores like E:H, so a lower merge accepts E:U and a higher merge rejects it.
	lower := MustParse(nvdCritical)
	assert.Equal(t, 1, lower.ApplyMetricsIf(MustParse("CVSS:3.1/E:U"), true))

	higher := MustParse(nvdCritical)
	assert.Equal(t, 0, higher.ApplyMetricsIf(MustParse("CVSS:3.1/E:U"), false))
}

func TestRank_ModifiedInheritsBase(t *testing.T) {
	v := MustParse(nvdCritical)
	assert.Equal(t, 3, v.Rank("AV"))
	assert.Equal(t, 3, v.Rank("MAV"), "MAV:X inherits AV:N")

	require.True(t, v.Apply("MAV", "P"))
	assert.Equal(t, 0, v.Rank("MAV"))

	assert.Equal(t, -1, v.Rank("ZZ"))
}

func TestApplyMetricsIf_SupplementalOnlyFillsUndefined(t *testing.T) {
	base := "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N"

	v := MustParse(base)
	assert.Equal(t, -1, v.Rank("S"))
	assert.Equal(t, 1, v.ApplyMetricsIf(MustParse("CVSS:4.0/S:P"), true))
	assert.Equal(t, "P", v.Get("S"))

	assert.Equal(t, 0, v.ApplyMetricsIf(MustParse("CVSS:4.0/S:N"), true))
	assert.Equal(t, "P", v.Get("S"))
}
