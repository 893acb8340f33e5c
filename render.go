package atree

import (
	"fmt"
	"sort"
	"strings"
)

// renderGraphviz is C7. It is a pure function of arena state: two arenas
// with the same live nodes always produce byte-identical output, since
// nodes are walked in ascending NodeId order rather than map iteration
// order.
func renderGraphviz(a *arena, reg *registry, subs *subscriptionTable) string {
	var b strings.Builder
	b.WriteString("digraph atree {\n")
	b.WriteString("  rankdir=BT;\n")

	ids := liveNodeIdsAscending(a)
	for _, id := range ids {
		n := a.get(id)
		b.WriteString(fmt.Sprintf("  n%d [label=%q];\n", id, nodeLabel(n, reg)))
	}
	for _, id := range ids {
		n := a.get(id)
		for _, child := range n.children() {
			b.WriteString(fmt.Sprintf("  n%d -> n%d;\n", id, child))
		}
	}

	for _, id := range sortedRootIDs(subs.byRoot) {
		subIDs := sortedSubscriptionIDs(subs.subscriptionsAt(id))
		for _, subID := range subIDs {
			b.WriteString(fmt.Sprintf("  s%d [shape=box, label=%q];\n", subID, fmt.Sprintf("sub %d", subID)))
			b.WriteString(fmt.Sprintf("  s%d -> n%d;\n", subID, id))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func liveNodeIdsAscending(a *arena) []NodeId {
	ids := make([]NodeId, 0, len(a.nodes)-len(a.freeList))
	free := make(map[NodeId]struct{}, len(a.freeList))
	for _, id := range a.freeList {
		free[id] = struct{}{}
	}
	for i := range a.nodes {
		id := NodeId(i)
		if _, dead := free[id]; dead {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func sortedRootIDs(byRoot map[NodeId]map[uint64]struct{}) []NodeId {
	ids := make([]NodeId, 0, len(byRoot))
	for id := range byRoot {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedSubscriptionIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func nodeLabel(n *node, reg *registry) string {
	switch n.variant {
	case variantAnd:
		return "AND"
	case variantOr:
		return "OR"
	case variantNot:
		return "NOT"
	case variantPred:
		return predicateLabel(n.pred, reg)
	default:
		return "?"
	}
}

func predicateLabel(p Predicate, reg *registry) string {
	name := reg.attrName(p.Attr)
	if p.Op == OpIsNull {
		return name + " is null"
	}
	if p.Op == OpIsNotNull {
		return name + " is not null"
	}
	return fmt.Sprintf("%s %s %s", name, opSymbol(p.Op), valueLabel(p.Literal))
}

func opSymbol(op PredOp) string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	default:
		return "?"
	}
}

func valueLabel(v Value) string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindDecimal:
		return fmt.Sprintf("%d/10^%d", v.Dec.Mantissa, v.Dec.Scale)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindStringSet:
		items := make([]string, 0, len(v.StrSet))
		for k := range v.StrSet {
			items = append(items, k)
		}
		sort.Strings(items)
		return "[" + strings.Join(items, ",") + "]"
	case KindIntSet:
		items := make([]int64, 0, len(v.IntSet))
		for k := range v.IntSet {
			items = append(items, k)
		}
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = fmt.Sprintf("%d", it)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "?"
	}
}
