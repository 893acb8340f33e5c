package atree

import (
	"unsafe"

	art "github.com/plar/go-adaptive-radix-tree"
)

// AttrId is the dense integer id assigned to an attribute at declaration
// order.
type AttrId uint32

type attrEntry struct {
	id   AttrId
	name string
	typ  AttrType
}

// registry maps attribute names to stable ids and enforces type
// consistency across insertions. It is writable until the owning Tree
// performs its first Insert, at which point freeze is called and further
// declarations fail.
//
// Names are indexed in an adaptive radix tree rather than a plain map;
// the tree is used only for name lookup, and ids resolve back to entries
// through byID.
type registry struct {
	names  art.Tree
	byID   []*attrEntry
	frozen bool
}

func newRegistry() *registry {
	return &registry{names: art.New()}
}

// declare registers a new attribute. Only valid before freeze.
func (r *registry) declare(name string, typ AttrType) (AttrId, error) {
	if r.frozen {
		return 0, &RegistryFrozenError{Name: name}
	}
	if _, ok := r.names.Search(artKey(name)); ok {
		return 0, &DuplicateAttributeError{Name: name}
	}

	id := AttrId(len(r.byID))
	entry := &attrEntry{id: id, name: name, typ: typ}
	r.byID = append(r.byID, entry)
	r.names.Insert(artKey(name), entry)
	return id, nil
}

// lookup resolves an attribute name to its id and declared type.
func (r *registry) lookup(name string) (AttrId, AttrType, error) {
	val, ok := r.names.Search(artKey(name))
	if !ok {
		return 0, 0, &UnknownAttributeError{Name: name}
	}
	entry := val.(*attrEntry)
	return entry.id, entry.typ, nil
}

// attrType returns the declared type of an already-resolved attribute id.
func (r *registry) attrType(id AttrId) AttrType {
	return r.byID[id].typ
}

func (r *registry) attrName(id AttrId) string {
	return r.byID[id].name
}

func (r *registry) freeze() {
	r.frozen = true
}

func (r *registry) len() int {
	return len(r.byID)
}

// artKey performs a zero-allocation string-to-byte conversion, following
// the same pattern the teacher's ART-backed string index uses for its keys.
func artKey(s string) art.Key {
	if len(s) == 0 {
		return art.Key{}
	}
	data := unsafe.StringData(s)
	return art.Key(unsafe.Slice(data, len(s)))
}
