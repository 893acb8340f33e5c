package atree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCachingCompiler_CachesSameSource(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)

	c := newCachingCompiler(64)
	_, err = c.compile("a", reg)
	require.NoError(t, err)
	require.Equal(t, int64(0), c.Hits())
	require.Equal(t, int64(1), c.Misses())

	_, err = c.compile("a", reg)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Hits())
	require.Equal(t, int64(1), c.Misses())
}

func TestCachingCompiler_DistinctSourcesBothMiss(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)
	_, err = reg.declare("b", AttrBool)
	require.NoError(t, err)

	c := newCachingCompiler(64)
	_, err = c.compile("a", reg)
	require.NoError(t, err)
	_, err = c.compile("b", reg)
	require.NoError(t, err)
	require.Equal(t, int64(0), c.Hits())
	require.Equal(t, int64(2), c.Misses())
}

func TestCachingCompiler_ParseErrorNotCached(t *testing.T) {
	reg := newRegistry()
	c := newCachingCompiler(64)

	_, err := c.compile("a and", reg)
	require.Error(t, err)
	require.Equal(t, int64(1), c.Misses())

	_, err = c.compile("a and", reg)
	require.Error(t, err)
	require.Equal(t, int64(2), c.Misses())
	require.Equal(t, int64(0), c.Hits())
}

func TestCachingCompiler_HitMissCallbacksFire(t *testing.T) {
	reg := newRegistry()
	_, err := reg.declare("a", AttrBool)
	require.NoError(t, err)

	var hits, misses int
	c := newCachingCompiler(64)
	c.onHit = func() { hits++ }
	c.onMiss = func() { misses++ }

	_, err = c.compile("a", reg)
	require.NoError(t, err)
	_, err = c.compile("a", reg)
	require.NoError(t, err)

	require.Equal(t, 1, hits)
	require.Equal(t, 1, misses)
}
