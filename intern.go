package atree

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// nodeKeyHash computes the content-addressing hash used to bucket nodes
// in the arena's intern map. Collisions within a bucket are resolved by
// exact key equality (see nodeEqual) - xxhash gives excellent bucket
// spread without needing to be collision-free.
func nodeKeyHash(variant nodeVariant, pred Predicate, left, right NodeId) uint64 {
	d := xxhash.New()
	var head [9]byte
	head[0] = byte(variant)
	binary.LittleEndian.PutUint32(head[1:5], uint32(left))
	binary.LittleEndian.PutUint32(head[5:9], uint32(right))
	_, _ = d.Write(head[:])
	if variant == variantPred {
		writePredicate(d, pred)
	}
	return d.Sum64()
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writePredicate(w byteWriter, p Predicate) {
	var head [5]byte
	binary.LittleEndian.PutUint32(head[:4], uint32(p.Attr))
	head[4] = byte(p.Op)
	_, _ = w.Write(head[:])
	writeValue(w, p.Literal)
}

func writeValue(w byteWriter, v Value) {
	_, _ = w.Write([]byte{byte(v.Kind)})
	switch v.Kind {
	case KindBool:
		if v.Bool {
			_, _ = w.Write([]byte{1})
		} else {
			_, _ = w.Write([]byte{0})
		}
	case KindInt:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.Int))
		_, _ = w.Write(b[:])
	case KindDecimal:
		var b [12]byte
		binary.LittleEndian.PutUint64(b[:8], uint64(v.Dec.Mantissa))
		binary.LittleEndian.PutUint32(b[8:], v.Dec.Scale)
		_, _ = w.Write(b[:])
	case KindString:
		_, _ = w.Write([]byte(v.Str))
	case KindStringSet:
		keys := make([]string, 0, len(v.StrSet))
		for k := range v.StrSet {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = w.Write([]byte(k))
			_, _ = w.Write([]byte{0})
		}
	case KindIntSet:
		keys := make([]int64, 0, len(v.IntSet))
		for k := range v.IntSet {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		var b [8]byte
		for _, k := range keys {
			binary.LittleEndian.PutUint64(b[:], uint64(k))
			_, _ = w.Write(b[:])
		}
	}
}

func valueEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUndefined:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindInt:
		return a.Int == b.Int
	case KindDecimal:
		return a.Dec.Mantissa == b.Dec.Mantissa && a.Dec.Scale == b.Dec.Scale
	case KindString:
		return a.Str == b.Str
	case KindStringSet:
		return stringSetEqual(a.StrSet, b.StrSet)
	case KindIntSet:
		return intSetEqual(a.IntSet, b.IntSet)
	default:
		return false
	}
}

func stringSetEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func intSetEqual(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func predicateEqual(a, b Predicate) bool {
	return a.Attr == b.Attr && a.Op == b.Op && valueEqual(a.Literal, b.Literal)
}

func nodeEqual(n *node, variant nodeVariant, pred Predicate, left, right NodeId) bool {
	if n.variant != variant || n.left != left || n.right != right {
		return false
	}
	if variant == variantPred {
		return predicateEqual(n.pred, pred)
	}
	return true
}
