package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/cvssel/cvss"
)

func TestPredicate_Eval(t *testing.T) {
	full := cvss.MustParse("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:P/MAV:L")
	partial := cvss.MustParse("CVSS:3.1/AV:N/AC:L")
	empty := cvss.MustParse("CVSS:3.1/E:P")

	tests := []struct {
		predicate Predicate
		vector    *cvss.Vector
		want      bool
	}{
		{PredicateIsNull, nil, true},
		{PredicateIsNull, full, false},
		{PredicateIsBaseFullyDefined, full, true},
		{PredicateIsBaseFullyDefined, partial, false},
		{PredicateIsBaseFullyDefined, nil, false},
		{PredicateIsBasePartiallyDefined, partial, true},
		{PredicateIsBasePartiallyDefined, empty, false},
		{PredicateIsBaseNotDefined, empty, true},
		{PredicateIsBaseNotDefined, partial, false},
		{PredicateIsBaseNotDefined, nil, true},
		{PredicateIsTemporalPartiallyDefined, full, true},
		{PredicateIsTemporalPartiallyDefined, partial, false},
		{PredicateIsEnvironmentalPartiallyDefined, full, true},
		{PredicateIsEnvironmentalPartiallyDefined, empty, false},
	}

	for _, tt := range tests {
		name := tt.predicate.String()
		if tt.vector != nil {
			name += " " + tt.vector.String()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.predicate.Eval(tt.vector))
		})
	}
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("not:IS_NULL")
	require.NoError(t, err)
	assert.Equal(t, Condition{Predicate: PredicateIsNull, Negate: true}, c)
	assert.Equal(t, "not:IS_NULL", c.String())
	assert.True(t, c.Holds(cvss.MustParse("CVSS:3.1/AV:N")))
	assert.False(t, c.Holds(nil))

	_, err = ParseCondition("IS_PURPLE")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestVectorEvaluator_Triggers(t *testing.T) {
	eval := VectorEvaluator{
		Conditions: []Condition{
			{Predicate: PredicateIsNull, Negate: true},
			{Predicate: PredicateIsBaseFullyDefined, Negate: true},
		},
		Action: ActionSkip,
	}

	assert.True(t, eval.Triggers(cvss.MustParse("CVSS:3.1/AV:N")))
	assert.False(t, eval.Triggers(cvss.MustParse(critical)))
	assert.False(t, eval.Triggers(nil))
	assert.Equal(t, "not:IS_NULL && not:IS_BASE_FULLY_DEFINED -> SKIP", eval.String())

	assert.True(t, VectorEvaluator{Action: ActionFail}.Triggers(nil), "no conditions always triggers")
}
