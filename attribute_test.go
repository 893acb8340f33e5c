package atree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_DeclareAndLookup(t *testing.T) {
	reg := newRegistry()

	id, err := reg.declare("exchange_id", AttrInt)
	require.NoError(t, err)
	require.Equal(t, AttrId(0), id)

	id2, err := reg.declare("private", AttrBool)
	require.NoError(t, err)
	require.Equal(t, AttrId(1), id2)

	gotID, gotType, err := reg.lookup("private")
	require.NoError(t, err)
	require.Equal(t, id2, gotID)
	require.Equal(t, AttrBool, gotType)
}

func TestRegistry_DuplicateAttribute(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("price", AttrDecimal)
	require.NoError(t, err)

	_, err = reg.declare("price", AttrString)
	require.Error(t, err)
	var dup *DuplicateAttributeError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "price", dup.Name)
}

func TestRegistry_UnknownAttribute(t *testing.T) {
	reg := newRegistry()
	_, _, err := reg.lookup("nope")
	require.Error(t, err)
	var unknown *UnknownAttributeError
	require.ErrorAs(t, err, &unknown)
}

func TestRegistry_FreezeRejectsFurtherDeclare(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)

	reg.freeze()

	_, err = reg.declare("b", AttrBool)
	require.Error(t, err)
	var frozen *RegistryFrozenError
	require.ErrorAs(t, err, &frozen)
}

func TestRegistry_DeclarationOrderIsStable(t *testing.T) {
	reg := newRegistry()
	names := []string{"zebra", "apple", "mango"}
	for _, name := range names {
		_, err := reg.declare(name, AttrBool)
		require.NoError(t, err)
	}
	require.Equal(t, 3, reg.len())
	for i, name := range names {
		require.Equal(t, name, reg.attrName(AttrId(i)))
	}
}
