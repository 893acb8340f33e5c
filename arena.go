package atree

import "sort"

// arena owns the expression DAG: a dense slice of nodes, a free list of
// retired slots, a hash-bucket intern index enforcing structural
// uniqueness (spec.md §3 invariant: no two live nodes are structurally
// identical), and a level-sorted index the evaluator walks.
//
// The arena is the single point of truth for node lifetime. Every NodeId
// handed to a caller (directly, or embedded in a subscription root) is an
// owned reference that must eventually be balanced by exactly one
// release call.
type arena struct {
	nodes    []node
	freeList []NodeId
	buckets  map[uint64][]NodeId
	levels   *levelIndex
}

func newArena() *arena {
	return &arena{
		buckets: make(map[uint64][]NodeId),
		levels:  newLevelIndex(),
	}
}

func (a *arena) get(id NodeId) *node {
	return &a.nodes[id]
}

// liveCount returns the number of nodes currently live in the arena.
func (a *arena) liveCount() int { return len(a.nodes) - len(a.freeList) }

func (a *arena) level(id NodeId) uint32     { return a.nodes[id].level }
func (a *arena) kind(id NodeId) nodeVariant { return a.nodes[id].variant }

func (a *arena) children(id NodeId) []NodeId {
	return a.nodes[id].children()
}

// internPred interns a leaf predicate node. Predicates are always level 0:
// they have no children to bound them from below.
func (a *arena) internPred(pred Predicate) NodeId {
	return a.intern(variantPred, pred, noNode, noNode)
}

// internAnd and internOr intern a binary conjunction/disjunction node.
// Operands are canonicalised to ascending NodeId order before lookup, so
// "a and b" and "b and a" always intern to the same node regardless of
// call order - this is what makes the DAG converge on operand-order
// insensitivity. The caller transfers ownership of both l and r into this
// call; on return it owns exactly the returned id.
func (a *arena) internAnd(l, r NodeId) NodeId {
	return a.internBinary(variantAnd, l, r)
}

func (a *arena) internOr(l, r NodeId) NodeId {
	return a.internBinary(variantOr, l, r)
}

func (a *arena) internBinary(variant nodeVariant, l, r NodeId) NodeId {
	if l == r {
		// x and x == x, x or x == x: fold the duplicate operand and give
		// back the surplus owned reference.
		a.release(r)
		return l
	}
	if l > r {
		l, r = r, l
	}
	return a.intern(variant, Predicate{}, l, r)
}

// internNot interns a negation node. Nothing in the lowering pass
// currently constructs one (every predicate kind folds negation into
// itself, see invertForNegation), but the arena supports it directly so a
// future predicate kind without an invertible operator has somewhere to
// go without touching interning.
func (a *arena) internNot(child NodeId) NodeId {
	return a.intern(variantNot, Predicate{}, child, noNode)
}

// intern is the core structural-uniqueness operation. If a node with this
// exact (variant, pred, left, right) shape already lives in the arena,
// its refcount is bumped and the caller's child references (l, r) are
// released as redundant. Otherwise a new node is created, taking direct
// ownership of l and r as its own child references with no extra
// increment.
func (a *arena) intern(variant nodeVariant, pred Predicate, l, r NodeId) NodeId {
	key := nodeKeyHash(variant, pred, l, r)
	for _, id := range a.buckets[key] {
		if nodeEqual(&a.nodes[id], variant, pred, l, r) {
			a.nodes[id].refcount++
			if variant != variantPred {
				a.releaseChildren(variant, l, r)
			}
			return id
		}
	}

	lvl := uint32(0)
	if variant != variantPred {
		lvl = a.childLevel(l) + 1
		if variant == variantAnd || variant == variantOr {
			if cl := a.childLevel(r) + 1; cl > lvl {
				lvl = cl
			}
		}
	}

	n := node{variant: variant, level: lvl, refcount: 1, pred: pred, left: l, right: r}
	id := a.allocSlot(n)
	a.buckets[key] = append(a.buckets[key], id)
	a.levels.insert(id, lvl)
	return id
}

func (a *arena) childLevel(id NodeId) uint32 {
	if id == noNode {
		return 0
	}
	return a.nodes[id].level
}

func (a *arena) allocSlot(n node) NodeId {
	if len(a.freeList) > 0 {
		id := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return NodeId(len(a.nodes) - 1)
}

// acquire adds a reference to an already-live node, e.g. when the same
// lowered subexpression is reused as a subscription root a second time.
func (a *arena) acquire(id NodeId) {
	a.nodes[id].refcount++
}

// release drops one reference from id. If the refcount reaches zero the
// node is structurally dead: it is removed from the intern index and the
// level index, its slot is returned to the free list, and its children
// are released in turn, so a deep subtree unwinds completely when its
// last parent disappears.
func (a *arena) release(id NodeId) {
	if id == noNode {
		return
	}
	n := &a.nodes[id]
	if n.refcount == 0 {
		invariantViolation("release: node %d already at refcount 0", id)
	}
	n.refcount--
	if n.refcount > 0 {
		return
	}

	variant, pred, l, r, lvl := n.variant, n.pred, n.left, n.right, n.level
	a.removeFromBucket(variant, pred, l, r, id)
	a.levels.remove(id, lvl)
	a.freeList = append(a.freeList, id)

	a.releaseChildren(variant, l, r)
}

func (a *arena) releaseChildren(variant nodeVariant, l, r NodeId) {
	switch variant {
	case variantAnd, variantOr:
		a.release(l)
		a.release(r)
	case variantNot:
		a.release(l)
	}
}

func (a *arena) removeFromBucket(variant nodeVariant, pred Predicate, l, r NodeId, id NodeId) {
	key := nodeKeyHash(variant, pred, l, r)
	bucket := a.buckets[key]
	for i, other := range bucket {
		if other == id {
			bucket[i] = bucket[len(bucket)-1]
			a.buckets[key] = bucket[:len(bucket)-1]
			if len(a.buckets[key]) == 0 {
				delete(a.buckets, key)
			}
			return
		}
	}
	invariantViolation("removeFromBucket: node %d not found in its own bucket", id)
}

// internLExpr walks a lowered expression tree and interns it into the
// arena, returning an owned root reference.
func internLExpr(a *arena, e lexpr) NodeId {
	switch n := e.(type) {
	case *lPred:
		return a.internPred(n.Pred)
	case *lAnd:
		return internChain(a, variantAnd, n.Operands)
	case *lOr:
		return internChain(a, variantOr, n.Operands)
	case *lNot:
		return a.internNot(internLExpr(a, n.Operand))
	default:
		invariantViolation("internLExpr: unhandled lexpr %T", e)
		return noNode
	}
}

// internChain interns an N-ary and/or chain as a canonical left-deep
// binary fold over its operands, sorted ascending and de-duplicated by
// NodeId. Sorting/de-duplicating before folding is what makes two
// syntactically different orderings of the same operand set (or the same
// operand repeated, e.g. "a and a") converge on the identical NodeId.
func internChain(a *arena, variant nodeVariant, operands []lexpr) NodeId {
	ids := make([]NodeId, len(operands))
	for i, op := range operands {
		ids[i] = internLExpr(a, op)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	n := 0
	for i := 0; i < len(ids); i++ {
		if n > 0 && ids[i] == ids[n-1] {
			a.release(ids[i])
			continue
		}
		ids[n] = ids[i]
		n++
	}
	ids = ids[:n]

	acc := ids[0]
	for _, id := range ids[1:] {
		if variant == variantAnd {
			acc = a.internAnd(acc, id)
		} else {
			acc = a.internOr(acc, id)
		}
	}
	return acc
}
