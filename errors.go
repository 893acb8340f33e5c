package atree

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ParseError reports a malformed expression source string.
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

// UnknownAttributeError reports a reference to an undeclared attribute.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}

// DuplicateAttributeError reports an attribute declared twice at construction.
type DuplicateAttributeError struct {
	Name string
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("duplicate attribute %q", e.Name)
}

// TypeMismatchError reports a literal or value conflicting with a declared attribute type.
type TypeMismatchError struct {
	Name     string
	Expected AttrType
	Actual   AttrType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: expected type %s, got %s", e.Name, e.Expected, e.Actual)
}

// DuplicateSubscriptionError reports a subscription id already present in the table.
type DuplicateSubscriptionError struct {
	ID uint64
}

func (e *DuplicateSubscriptionError) Error() string {
	return fmt.Sprintf("duplicate subscription %d", e.ID)
}

// BuilderConsumedError reports reuse of an EventBuilder after it has been
// passed to Search.
type BuilderConsumedError struct{}

func (e *BuilderConsumedError) Error() string {
	return "event builder already consumed by search"
}

// RegistryFrozenError reports an attempt to declare an attribute after the
// registry has been frozen by the first Insert.
type RegistryFrozenError struct {
	Name string
}

func (e *RegistryFrozenError) Error() string {
	return fmt.Sprintf("attribute registry is frozen, cannot declare %q", e.Name)
}

// invariantViolation is raised when the arena detects state that should be
// impossible to reach from the public API - e.g. releasing a node that is
// not live, or an intern map that disagrees with the arena. These are bugs,
// not recoverable caller errors, so they panic rather than returning an
// error, per the fatal-process policy in the design notes.
func invariantViolation(format string, args ...any) {
	panic(errors.AssertionFailedf(format, args...))
}

// wrapf attaches additional context to an error as it propagates up through
// parsing/lowering, without changing its type for errors.As purposes.
func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
