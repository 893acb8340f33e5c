package atree

import (
	"sync/atomic"
	"time"

	"github.com/karlseguin/ccache/v2"
)

// cachingCompiler is C8: a decorator over parseExpression+lowerExpression
// keyed on the raw, unparsed source string. Repeated insertion of the
// same subscription text (a common pattern when many callers subscribe
// to identical filters against different attribute sets over time) skips
// re-lexing, re-parsing, and re-lowering entirely.
//
// The lowered lexpr tree is cache-safe to share across callers: it holds
// no arena state, only resolved AttrIds and Values, so multiple callers
// interning the same cached lexpr each get their own owned NodeId chain
// out of internLExpr.
type cachingCompiler struct {
	cache *ccache.Cache

	hits   int64
	misses int64

	// onHit/onMiss forward cache events to the owning tree's metrics set.
	// Left nil by tests that construct a compiler standalone.
	onHit  func()
	onMiss func()
}

const compiledEntryTTL = time.Hour

func newCachingCompiler(maxSize int64) *cachingCompiler {
	return &cachingCompiler{
		cache: ccache.New(ccache.Configure().MaxSize(maxSize)),
	}
}

// compile parses and lowers src, or returns a cached lowering keyed on
// the exact source text. The registry is not part of the cache key: a
// cache hit against a registry that has since gained new attributes
// (impossible once frozen, but the compiler makes no assumption about
// that) is safe, since lowering already validated identifiers when the
// entry was first built.
func (c *cachingCompiler) compile(src string, reg *registry) (lexpr, error) {
	if item := c.cache.Get(src); item != nil && !item.Expired() {
		atomic.AddInt64(&c.hits, 1)
		if c.onHit != nil {
			c.onHit()
		}
		return item.Value().(lexpr), nil
	}

	atomic.AddInt64(&c.misses, 1)
	if c.onMiss != nil {
		c.onMiss()
	}
	ast, err := parseExpression(src)
	if err != nil {
		return nil, err
	}
	lowered, err := lowerExpression(ast, reg)
	if err != nil {
		return nil, err
	}

	c.cache.Set(src, lowered, compiledEntryTTL)
	return lowered, nil
}

func (c *cachingCompiler) Hits() int64   { return atomic.LoadInt64(&c.hits) }
func (c *cachingCompiler) Misses() int64 { return atomic.LoadInt64(&c.misses) }
