package atree

import "fmt"

// AttrType is the declared type of an attribute. The ordering mirrors the
// attribute-type enum of the original A-Tree FFI (Boolean, Integer, Float,
// String, StringList, IntegerList).
type AttrType uint8

const (
	AttrBool AttrType = iota
	AttrInt
	AttrDecimal
	AttrString
	AttrStringSet
	AttrIntSet
)

func (t AttrType) String() string {
	switch t {
	case AttrBool:
		return "bool"
	case AttrInt:
		return "i64"
	case AttrDecimal:
		return "decimal"
	case AttrString:
		return "string"
	case AttrStringSet:
		return "set<string>"
	case AttrIntSet:
		return "set<i64>"
	default:
		return fmt.Sprintf("AttrType(%d)", uint8(t))
	}
}

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindUndefined ValueKind = iota
	KindBool
	KindInt
	KindDecimal
	KindString
	KindStringSet
	KindIntSet
)

// Value is the tagged union of typed event data A-Tree compares predicates
// against. Undefined is a first-class value meaning "attribute not supplied
// for this event" and is never equal to any other value.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int64
	Dec    Decimal
	Str    string
	StrSet map[string]struct{}
	IntSet map[int64]struct{}
}

// Undefined is the canonical "attribute not supplied" value.
var Undefined = Value{Kind: KindUndefined}

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func DecimalValue(d Decimal) Value {
	return Value{Kind: KindDecimal, Dec: d}
}
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

func StringSetValue(items []string) Value {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return Value{Kind: KindStringSet, StrSet: set}
}

func IntSetValue(items []int64) Value {
	set := make(map[int64]struct{}, len(items))
	for _, i := range items {
		set[i] = struct{}{}
	}
	return Value{Kind: KindIntSet, IntSet: set}
}

// attrTypeOf maps a ValueKind to the AttrType it satisfies. Undefined
// satisfies none; callers that need to type-check a supplied value against
// a declared attribute type should special-case Undefined first.
func attrTypeOf(k ValueKind) (AttrType, bool) {
	switch k {
	case KindBool:
		return AttrBool, true
	case KindInt:
		return AttrInt, true
	case KindDecimal:
		return AttrDecimal, true
	case KindString:
		return AttrString, true
	case KindStringSet:
		return AttrStringSet, true
	case KindIntSet:
		return AttrIntSet, true
	default:
		return 0, false
	}
}
