package atree

// EventBuilder assembles a sparse set of attribute values for a single
// Search call. It is single-use: once passed to Search it is marked
// consumed, and any further with_<type> call or a second Search returns
// BuilderConsumedError rather than silently reusing stale state.
type EventBuilder struct {
	reg      *registry
	values   map[AttrId]Value
	consumed bool
}

func newEventBuilder(reg *registry) *EventBuilder {
	return &EventBuilder{reg: reg, values: make(map[AttrId]Value)}
}

func (b *EventBuilder) set(name string, v Value) error {
	if b.consumed {
		return &BuilderConsumedError{}
	}
	attr, attrType, err := b.reg.lookup(name)
	if err != nil {
		return err
	}
	actual, ok := attrTypeOf(v.Kind)
	if !ok || actual != attrType {
		return &TypeMismatchError{Name: name, Expected: attrType, Actual: actual}
	}
	b.values[attr] = v
	return nil
}

func (b *EventBuilder) WithBool(name string, v bool) error { return b.set(name, BoolValue(v)) }
func (b *EventBuilder) WithInt(name string, v int64) error { return b.set(name, IntValue(v)) }
func (b *EventBuilder) WithDecimal(name string, v Decimal) error {
	return b.set(name, DecimalValue(v))
}
func (b *EventBuilder) WithString(name string, v string) error { return b.set(name, StringValue(v)) }
func (b *EventBuilder) WithStringSet(name string, v []string) error {
	return b.set(name, StringSetValue(v))
}
func (b *EventBuilder) WithIntSet(name string, v []int64) error {
	return b.set(name, IntSetValue(v))
}

// build finalises the builder into an immutable event, marking it
// consumed so it cannot be mutated or reused afterward.
func (b *EventBuilder) build() (*event, error) {
	if b.consumed {
		return nil, &BuilderConsumedError{}
	}
	b.consumed = true
	return &event{values: b.values}, nil
}

// event is the resolved, read-only attribute snapshot the evaluator
// matches subscriptions against. Attributes not present are Undefined,
// per spec.md's three-valued semantics.
type event struct {
	values map[AttrId]Value
}

func (e *event) get(id AttrId) Value {
	if v, ok := e.values[id]; ok {
		return v
	}
	return Undefined
}
