package atree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKleeneTable_And(t *testing.T) {
	cases := []struct {
		a, b, want kleene
	}{
		{kTrue, kTrue, kTrue},
		{kTrue, kFalse, kFalse},
		{kTrue, kUnknown, kUnknown},
		{kFalse, kTrue, kFalse},
		{kFalse, kFalse, kFalse},
		{kFalse, kUnknown, kFalse},
		{kUnknown, kTrue, kUnknown},
		{kUnknown, kFalse, kFalse},
		{kUnknown, kUnknown, kUnknown},
	}
	for _, c := range cases {
		require.Equal(t, c.want, kleeneAnd(c.a, c.b))
	}
}

func TestKleeneTable_Or(t *testing.T) {
	cases := []struct {
		a, b, want kleene
	}{
		{kTrue, kTrue, kTrue},
		{kTrue, kFalse, kTrue},
		{kTrue, kUnknown, kTrue},
		{kFalse, kTrue, kTrue},
		{kFalse, kFalse, kFalse},
		{kFalse, kUnknown, kUnknown},
		{kUnknown, kTrue, kTrue},
		{kUnknown, kFalse, kUnknown},
		{kUnknown, kUnknown, kUnknown},
	}
	for _, c := range cases {
		require.Equal(t, c.want, kleeneOr(c.a, c.b))
	}
}

func TestKleeneTable_Not(t *testing.T) {
	require.Equal(t, kFalse, kleeneNot(kTrue))
	require.Equal(t, kTrue, kleeneNot(kFalse))
	require.Equal(t, kUnknown, kleeneNot(kUnknown))
}

func TestEvalPredicate_UndefinedYieldsUnknownExceptNullTests(t *testing.T) {
	reg := newRegistry()
	attr, err := reg.declare("x", AttrInt)
	require.NoError(t, err)

	eb := newEventBuilder(reg)
	ev, err := eb.build()
	require.NoError(t, err)

	require.Equal(t, kUnknown, evalPredicate(Predicate{Attr: attr, Op: OpEq, Literal: IntValue(1)}, ev))
	require.Equal(t, kTrue, evalPredicate(Predicate{Attr: attr, Op: OpIsNull}, ev))
	require.Equal(t, kFalse, evalPredicate(Predicate{Attr: attr, Op: OpIsNotNull}, ev))
}

func TestValueInSet_SetValuedIntersection(t *testing.T) {
	tags := StringSetValue([]string{"sale", "new"})
	literal := StringSetValue([]string{"sale"})
	require.True(t, valueInSet(tags, literal))

	noMatch := StringSetValue([]string{"clearance"})
	require.False(t, valueInSet(noMatch, literal))
}

func TestValueInSet_ScalarMembership(t *testing.T) {
	require.True(t, valueInSet(IntValue(5), IntSetValue([]int64{5, 6})))
	require.False(t, valueInSet(IntValue(7), IntSetValue([]int64{5, 6})))
}
