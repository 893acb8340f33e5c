package atree

import (
	"log/slog"

	"github.com/google/uuid"
)

// AttrDef declares one attribute at tree construction time: its name and
// its type, per spec.md §4.1.
type AttrDef struct {
	Name string
	Type AttrType
}

// Tree is the A-Tree: an in-memory index over many boolean subscription
// expressions that share common sub-expressions via C3's interned DAG.
// A Tree is a single-writer, single-reader value per spec.md §5 - it
// performs no internal locking, and the caller is responsible for
// serialising concurrent access.
type Tree struct {
	id uuid.UUID

	reg      *registry
	arena    *arena
	subs     *subscriptionTable
	eval     *evaluator
	compiler *cachingCompiler
	metrics  *metricsSet

	log *slog.Logger
}

// defaultCompilerCacheSize bounds the caching compiler's LRU (C8). It is
// sized for a few thousand distinct subscription texts, well beyond what
// a single caller typically submits verbatim more than once.
const defaultCompilerCacheSize = 8192

// New constructs a Tree over the given attribute declarations. Attribute
// names must be unique; New fails with *DuplicateAttributeError and
// returns nil otherwise. The registry remains open for further
// declaration only until the first Insert or InsertBatch call freezes it
// (spec.md §4.1).
func New(attrs []AttrDef) (*Tree, error) {
	reg := newRegistry()
	for _, a := range attrs {
		if _, err := reg.declare(a.Name, a.Type); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	m := newMetricsSet(id)
	compiler := newCachingCompiler(defaultCompilerCacheSize)
	compiler.onHit = m.recordCacheHit
	compiler.onMiss = m.recordCacheMiss

	t := &Tree{
		id:       id,
		reg:      reg,
		arena:    newArena(),
		subs:     newSubscriptionTable(),
		eval:     newEvaluator(),
		compiler: compiler,
		metrics:  m,
		log:      slog.Default().With("tree", id.String()),
	}
	return t, nil
}

// Insert parses, lowers, and interns expr as the boolean expression for
// subscription id. id must be caller-unique; inserting an id already
// present returns *DuplicateSubscriptionError and leaves the tree
// unmutated. The first call to Insert (across this tree's lifetime)
// freezes the attribute registry.
func (t *Tree) Insert(id uint64, expr string) error {
	t.reg.freeze()

	if t.subs.contains(id) {
		return &DuplicateSubscriptionError{ID: id}
	}

	lowered, err := t.compiler.compile(expr, t.reg)
	if err != nil {
		t.log.Debug("insert failed", "subscription", id, "err", err)
		return err
	}

	root := internLExpr(t.arena, lowered)
	if err := t.subs.insert(id, root); err != nil {
		t.arena.release(root)
		return err
	}

	t.metrics.recordInsert()
	t.metrics.setLiveNodes(t.arena.liveCount())
	t.log.Debug("inserted subscription", "subscription", id, "root", root, "live_nodes", t.arena.liveCount())
	return nil
}

// Delete removes subscription id, releasing its root reference and any
// sub-expressions that die as a result. Deleting an id that is not
// present is a silent no-op, per spec.md §4.4 and §9's pinned open
// question.
func (t *Tree) Delete(id uint64) {
	t.subs.remove(t.arena, id)
	t.metrics.recordDelete()
	t.metrics.setLiveNodes(t.arena.liveCount())
	t.log.Debug("deleted subscription", "subscription", id, "live_nodes", t.arena.liveCount())
}

// Contains reports whether subscription id is currently present.
func (t *Tree) Contains(id uint64) bool {
	return t.subs.contains(id)
}

// Len reports the number of live subscriptions.
func (t *Tree) Len() int {
	return t.subs.len()
}

// MakeEvent returns a new, empty EventBuilder bound to this tree's
// attribute registry for name/type resolution. The builder is single-use:
// it is consumed by the Search call it is passed to.
func (t *Tree) MakeEvent() *EventBuilder {
	return newEventBuilder(t.reg)
}

// Search consumes eb and returns the ids of every subscription whose
// expression evaluates to true against the event it describes. Each
// live, reachable node is evaluated at most once, in level order, per
// spec.md §4.6. Searching with an already-consumed builder returns
// *BuilderConsumedError.
func (t *Tree) Search(eb *EventBuilder) ([]uint64, error) {
	ev, err := eb.build()
	if err != nil {
		return nil, err
	}

	matched := t.eval.run(t.arena, t.subs, ev)
	t.metrics.recordSearch()
	t.log.Debug("search completed", "matches", len(matched))
	return matched, nil
}

// ToGraphviz renders the current DAG (and its subscription attachments)
// as a Graphviz DOT string. It is a pure function of tree state.
func (t *Tree) ToGraphviz() string {
	return renderGraphviz(t.arena, t.reg, t.subs)
}

// Stats is a read-only snapshot of a tree's internal counters, exposed so
// embedding callers can report on a Tree without standing up a separate
// metrics scrape endpoint.
type Stats struct {
	LiveNodes     int
	Subscriptions int
	CacheHits     int64
	CacheMisses   int64
}

// Stats returns the current counter snapshot for this tree.
func (t *Tree) Stats() Stats {
	return Stats{
		LiveNodes:     t.arena.liveCount(),
		Subscriptions: t.subs.len(),
		CacheHits:     t.compiler.Hits(),
		CacheMisses:   t.compiler.Misses(),
	}
}

// ID returns this tree's instance id, used to disambiguate metrics and
// log lines when a process embeds more than one Tree (e.g. sharded per
// spec.md §5).
func (t *Tree) ID() uuid.UUID {
	return t.id
}
