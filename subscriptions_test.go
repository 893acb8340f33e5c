package atree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscriptionTable_InsertAndContains(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root := mustIntern(t, reg, a, "a")
	require.NoError(t, subs.insert(1, root))
	require.True(t, subs.contains(1))
	require.False(t, subs.contains(2))
	require.Equal(t, 1, subs.len())
}

func TestSubscriptionTable_DuplicateIDRejected(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root := mustIntern(t, reg, a, "a")
	require.NoError(t, subs.insert(1, root))

	root2 := mustIntern(t, reg, a, "a")
	err = subs.insert(1, root2)
	require.Error(t, err)
	var dup *DuplicateSubscriptionError
	require.ErrorAs(t, err, &dup)
}

func TestSubscriptionTable_SharedRootReverseIndex(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	_, err = reg.declare("b", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root1 := mustIntern(t, reg, a, "a and b")
	root2 := mustIntern(t, reg, a, "b and a")
	require.Equal(t, root1, root2)

	require.NoError(t, subs.insert(10, root1))
	require.NoError(t, subs.insert(20, root2))

	atRoot := subs.subscriptionsAt(root1)
	require.Len(t, atRoot, 2)
	_, has10 := atRoot[10]
	_, has20 := atRoot[20]
	require.True(t, has10)
	require.True(t, has20)
}

func TestSubscriptionTable_RemoveIsIdempotent(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root := mustIntern(t, reg, a, "a")
	require.NoError(t, subs.insert(1, root))

	subs.remove(a, 1)
	require.False(t, subs.contains(1))
	require.Equal(t, 0, a.liveCount())

	// a second delete of the same (now absent) id must be a pure no-op,
	// not an error and not a further release.
	subs.remove(a, 1)
	require.False(t, subs.contains(1))
	require.Equal(t, 0, a.liveCount())
}

func TestSubscriptionTable_RemoveOneOfTwoSharingRootKeepsRootAlive(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	_, err = reg.declare("b", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root1 := mustIntern(t, reg, a, "a and b")
	root2 := mustIntern(t, reg, a, "b and a")
	require.NoError(t, subs.insert(10, root1))
	require.NoError(t, subs.insert(20, root2))

	subs.remove(a, 10)
	require.True(t, subs.contains(20))
	require.Greater(t, a.liveCount(), 0)
	atRoot := subs.subscriptionsAt(root2)
	require.Len(t, atRoot, 1)

	subs.remove(a, 20)
	require.Equal(t, 0, a.liveCount())
}

func TestSubscriptionTable_DeleteUnknownIDIsNoOp(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	a := newArena()
	subs := newSubscriptionTable()

	root := mustIntern(t, reg, a, "a")
	require.NoError(t, subs.insert(1, root))

	subs.remove(a, 999)
	require.True(t, subs.contains(1))
	require.Equal(t, uint32(1), a.get(root).refcount)
}
