package atree

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
)

// BatchInsertion is one subscription to add via InsertBatch.
type BatchInsertion struct {
	ID     uint64
	Source string
}

type batchCompiled struct {
	lowered lexpr
	err     error
}

// InsertBatch parses and lowers every item concurrently - lexing,
// parsing, type-checking, and De Morgan normalisation touch no shared
// mutable state, so they parallelise cleanly - then interns each result
// into the arena serially, preserving the single-writer contract the
// arena, subscription table, and level index all depend on.
//
// Failures are independent per item: a parse or type error in one
// subscription does not prevent the others from being inserted. All
// failures are returned together as a single combined error.
func (t *Tree) InsertBatch(items []BatchInsertion) error {
	t.reg.freeze()

	compiled := make([]batchCompiled, len(items))
	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, item := range items {
		i, item := i, item
		p.Go(func() {
			lowered, err := t.compiler.compile(item.Source, t.reg)
			compiled[i] = batchCompiled{lowered: lowered, err: err}
		})
	}
	p.Wait()

	var errs error
	for i, item := range items {
		c := compiled[i]
		if c.err != nil {
			errs = multierr.Append(errs, wrapf(c.err, "subscription %d", item.ID))
			continue
		}

		root := internLExpr(t.arena, c.lowered)
		if err := t.subs.insert(item.ID, root); err != nil {
			t.arena.release(root)
			errs = multierr.Append(errs, err)
			continue
		}
		t.metrics.recordInsert()
	}
	t.metrics.setLiveNodes(t.arena.liveCount())
	return errs
}
