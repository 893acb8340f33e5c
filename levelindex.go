package atree

import "github.com/tidwall/btree"

// levelKey orders live nodes by (level, id) ascending, so a full in-order
// walk of the index visits every node in the level-ordered fashion the
// evaluator's bottom-up pass requires (spec.md §5, C6).
type levelKey struct {
	level uint32
	id    NodeId
}

func levelKeyLess(a, b levelKey) bool {
	if a.level != b.level {
		return a.level < b.level
	}
	return a.id < b.id
}

// levelIndex is the cached level-sorted view of the arena's live nodes,
// backed by a B-tree rather than a re-sort-on-demand slice, so insertion
// and removal during intern/release stay logarithmic instead of forcing a
// full re-sort per mutation.
type levelIndex struct {
	tree *btree.BTreeG[levelKey]
}

func newLevelIndex() *levelIndex {
	return &levelIndex{tree: btree.NewBTreeG(levelKeyLess)}
}

func (li *levelIndex) insert(id NodeId, level uint32) {
	li.tree.Set(levelKey{level: level, id: id})
}

func (li *levelIndex) remove(id NodeId, level uint32) {
	li.tree.Delete(levelKey{level: level, id: id})
}

// ascend calls fn for every live node in ascending (level, id) order,
// stopping early if fn returns false.
func (li *levelIndex) ascend(fn func(id NodeId, level uint32) bool) {
	li.tree.Ascend(levelKey{}, func(k levelKey) bool {
		return fn(k.id, k.level)
	})
}

func (li *levelIndex) len() int {
	return li.tree.Len()
}
