package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/cvssel/cvss"
)

const critical = "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"

func TestMergingMethod_Merge(t *testing.T) {
	tests := []struct {
		name     string
		method   MergingMethod
		incoming string
		want     string
		changed  int
	}{
		{"all", MethodAll, "CVSS:3.1/AC:H/S:C", "CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:C/C:H/I:H/A:H", 2},
		{"lower keeps lowering parts", MethodLower, "CVSS:3.1/AC:H/S:C", "CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:U/C:H/I:H/A:H", 1},
		{"higher keeps raising parts", MethodHigher, "CVSS:3.1/AC:H/S:C", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H", 1},
		{"lower metric", MethodLowerMetric, "CVSS:3.1/AV:L/S:C", "CVSS:3.1/AV:L/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 1},
		{"higher metric", MethodHigherMetric, "CVSS:3.1/AV:L/S:C", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H", 1},
		{"overwrite", MethodOverwrite, "CVSS:3.1/AV:L/AC:L", "CVSS:3.1/AV:L/AC:L", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := cvss.MustParse(critical)
			incoming := cvss.MustParse(tt.incoming)

			got, changed := tt.method.Merge(base, incoming, nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.changed, changed)

			assert.Equal(t, critical, base.String(), "base is not modified")
			assert.Equal(t, cvss.MustParse(tt.incoming).String(), incoming.String(), "incoming is not modified")
			assert.NotSame(t, incoming, got)
		})
	}
}

func TestMergingMethod_MergeIntoNothingClones(t *testing.T) {
	incoming := cvss.MustParse(critical)
	got, changed := MethodLower.Merge(nil, incoming, nil)
	assert.True(t, got.Equal(incoming))
	assert.NotSame(t, incoming, got)
	assert.Equal(t, 8, changed)
}

func TestCachedScore(t *testing.T) {
	cache := cvss.NewCache(8)
	score := CachedScore(cache)

	assert.InDelta(t, 9.8, score(cvss.MustParse(critical)), 1e-9)
	assert.InDelta(t, 9.8, score(cvss.MustParse(critical)), 1e-9)
	assert.Equal(t, uint64(1), cache.Stats().Hits)
}

func TestParseMergingMethod(t *testing.T) {
	m, err := ParseMergingMethod("lower_metric")
	require.NoError(t, err)
	assert.Equal(t, MethodLowerMetric, m)

	_, err = ParseMergingMethod("AVERAGE")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Equal(t, "UNKNOWN(42)", MergingMethod(42).String())
}
