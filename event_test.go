package atree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventBuilder_TypeChecked(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("price", AttrDecimal)
	require.NoError(t, err)

	eb := newEventBuilder(reg)
	err = eb.WithInt("price", 5)
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)

	require.NoError(t, eb.WithDecimal("price", NewDecimal(500, 2)))
}

func TestEventBuilder_UnknownAttribute(t *testing.T) {
	reg := newRegistry()
	eb := newEventBuilder(reg)
	err := eb.WithBool("missing", true)
	require.Error(t, err)
	var unk *UnknownAttributeError
	require.ErrorAs(t, err, &unk)
}

func TestEventBuilder_ConsumedAfterBuild(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("flag", AttrBool)
	require.NoError(t, err)

	eb := newEventBuilder(reg)
	require.NoError(t, eb.WithBool("flag", true))

	_, err = eb.build()
	require.NoError(t, err)

	err = eb.WithBool("flag", false)
	require.Error(t, err)
	var consumed *BuilderConsumedError
	require.ErrorAs(t, err, &consumed)

	_, err = eb.build()
	require.ErrorAs(t, err, &consumed)
}

func TestEvent_MissingAttributeIsUndefined(t *testing.T) {
	reg := newRegistry()
	attr, err := reg.declare("country", AttrString)
	require.NoError(t, err)

	eb := newEventBuilder(reg)
	ev, err := eb.build()
	require.NoError(t, err)

	require.Equal(t, KindUndefined, ev.get(attr).Kind)
}

func TestEvent_SuppliedAttributeRoundTrips(t *testing.T) {
	reg := newRegistry()
	attr, err := reg.declare("country", AttrString)
	require.NoError(t, err)

	eb := newEventBuilder(reg)
	require.NoError(t, eb.WithString("country", "US"))
	ev, err := eb.build()
	require.NoError(t, err)

	require.Equal(t, "US", ev.get(attr).Str)
}
