package atree

import "strings"

// kleene is a three-valued logic result: True, False, or Unknown (an
// input attribute the evaluation depended on was Undefined). See
// spec.md §5 for the truth tables kleeneAnd/kleeneOr/kleeneNot implement.
type kleene uint8

const (
	kUnknown kleene = iota
	kTrue
	kFalse
)

func boolToKleene(b bool) kleene {
	if b {
		return kTrue
	}
	return kFalse
}

func kleeneAnd(a, b kleene) kleene {
	if a == kFalse || b == kFalse {
		return kFalse
	}
	if a == kUnknown || b == kUnknown {
		return kUnknown
	}
	return kTrue
}

func kleeneOr(a, b kleene) kleene {
	if a == kTrue || b == kTrue {
		return kTrue
	}
	if a == kUnknown || b == kUnknown {
		return kUnknown
	}
	return kFalse
}

func kleeneNot(a kleene) kleene {
	switch a {
	case kTrue:
		return kFalse
	case kFalse:
		return kTrue
	default:
		return kUnknown
	}
}

// evaluator is C6. It walks every live node in level order exactly once
// per Search - level order guarantees a node's children are always
// evaluated before the node itself, per the level(child) < level(parent)
// invariant the arena maintains - and memoizes each node's result in a
// slot-indexed buffer reused across calls.
//
// The buffer is never reset between searches; instead every slot carries
// a generation stamp, and a stale stamp is treated as "not yet computed
// this search". This keeps repeated searches allocation-free after the
// arena has warmed up, at the cost of one extra uint32 per node.
type evaluator struct {
	results []kleene
	stamp   []uint32
	gen     uint32
}

func newEvaluator() *evaluator {
	return &evaluator{}
}

func (e *evaluator) ensureCapacity(n int) {
	if len(e.results) >= n {
		return
	}
	grown := make([]kleene, n)
	copy(grown, e.results)
	e.results = grown

	grownStamp := make([]uint32, n)
	copy(grownStamp, e.stamp)
	e.stamp = grownStamp
}

func (e *evaluator) set(id NodeId, v kleene) {
	e.results[id] = v
	e.stamp[id] = e.gen
}

func (e *evaluator) get(id NodeId) kleene {
	if e.stamp[id] != e.gen {
		invariantViolation("evaluator: node %d read before it was computed this generation", id)
	}
	return e.results[id]
}

// run evaluates every live node in a against ev, in ascending
// (level, id) order, and returns the ids of every subscription root that
// evaluated to kTrue.
func (e *evaluator) run(a *arena, subs *subscriptionTable, ev *event) []uint64 {
	e.ensureCapacity(len(a.nodes))
	e.gen++

	var matched []uint64
	a.levels.ascend(func(id NodeId, _ uint32) bool {
		n := a.get(id)
		var result kleene
		switch n.variant {
		case variantPred:
			result = evalPredicate(n.pred, ev)
		case variantAnd:
			result = kleeneAnd(e.get(n.left), e.get(n.right))
		case variantOr:
			result = kleeneOr(e.get(n.left), e.get(n.right))
		case variantNot:
			result = kleeneNot(e.get(n.left))
		default:
			invariantViolation("evaluator: unhandled node variant %d", n.variant)
		}
		e.set(id, result)

		if result == kTrue {
			for subID := range subs.subscriptionsAt(id) {
				matched = append(matched, subID)
			}
		}
		return true
	})
	return matched
}

// evalPredicate evaluates a single leaf predicate against an event.
//
// Null tests are special: they are defined precisely to answer "is this
// attribute Undefined", so they always produce a definite True or False
// and never propagate Unknown even though every other predicate kind
// does the moment its attribute is Undefined.
func evalPredicate(pred Predicate, ev *event) kleene {
	if pred.Op == OpIsNull {
		return boolToKleene(ev.get(pred.Attr).Kind == KindUndefined)
	}
	if pred.Op == OpIsNotNull {
		return boolToKleene(ev.get(pred.Attr).Kind != KindUndefined)
	}

	v := ev.get(pred.Attr)
	if v.Kind == KindUndefined {
		return kUnknown
	}

	switch pred.Op {
	case OpEq:
		return boolToKleene(valueEqual(v, pred.Literal))
	case OpNe:
		return boolToKleene(!valueEqual(v, pred.Literal))
	case OpLt, OpLe, OpGt, OpGe:
		cmp, ok := compareValues(v, pred.Literal)
		if !ok {
			invariantViolation("evalPredicate: order comparison on non-orderable kind %d", v.Kind)
		}
		switch pred.Op {
		case OpLt:
			return boolToKleene(cmp < 0)
		case OpLe:
			return boolToKleene(cmp <= 0)
		case OpGt:
			return boolToKleene(cmp > 0)
		default:
			return boolToKleene(cmp >= 0)
		}
	case OpIn:
		return boolToKleene(valueInSet(v, pred.Literal))
	case OpNotIn:
		return boolToKleene(!valueInSet(v, pred.Literal))
	default:
		invariantViolation("evalPredicate: unhandled op %d", pred.Op)
		return kUnknown
	}
}

// compareValues orders two values of matching kind. Attribute
// declaration and literal coercion guarantee a and b always share a kind
// by the time an order comparison reaches here.
func compareValues(a, b Value) (int, bool) {
	switch a.Kind {
	case KindInt:
		switch {
		case a.Int < b.Int:
			return -1, true
		case a.Int > b.Int:
			return 1, true
		default:
			return 0, true
		}
	case KindDecimal:
		return a.Dec.Cmp(b.Dec), true
	case KindString:
		return strings.Compare(a.Str, b.Str), true
	default:
		return 0, false
	}
}

// valueInSet evaluates an "in"/"not in" predicate's underlying membership
// test. For a scalar event value it is ordinary set membership; for a
// set-valued event value (a set-of-string or set-of-i64 attribute) the
// predicate's own semantics are set-intersection non-emptiness against
// the literal set, per spec.md §3.
func valueInSet(v, set Value) bool {
	switch v.Kind {
	case KindString:
		_, ok := set.StrSet[v.Str]
		return ok
	case KindInt:
		_, ok := set.IntSet[v.Int]
		return ok
	case KindStringSet:
		for s := range v.StrSet {
			if _, ok := set.StrSet[s]; ok {
				return true
			}
		}
		return false
	case KindIntSet:
		for i := range v.IntSet {
			if _, ok := set.IntSet[i]; ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}
