package thermostate

import (
	"fmt"
	"strings"
)

// These errors are caller errors: each describes a write (or read) the state
// refused, and a state that returned one of them is left as it was before the
// call.

// TypeMismatchError occurs when a non-numeric value is supplied for a property.
type TypeMismatchError struct {
	Property Property
	Value    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be a number, got %T", e.Property, e.Value)
}

// RangeValidationError occurs when a numeric value lies outside the physically
// plausible range of its property. It is detected locally, before the Oracle is
// ever consulted.
type RangeValidationError struct {
	Property Property
	Value    float64
	Reason   string
}

func (e *RangeValidationError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Property, e.Value, e.Reason)
}

// OverConstrainedError occurs when a new property is pinned on a state that is
// already complete. A complete state accepts updates to its pinned properties
// only.
type OverConstrainedError struct {
	Property Property
	Pinned   []Property
}

func (e *OverConstrainedError) Error() string {
	return fmt.Sprintf("cannot set %s - system is already fully constrained with %d properties (%s); reset or replace one of them instead",
		e.Property, len(e.Pinned), joinProperties(e.Pinned))
}

// NotPinnedError occurs when an operation requires a pinned property, but the
// named property is not pinned.
type NotPinnedError struct {
	Property Property
}

func (e *NotPinnedError) Error() string {
	return fmt.Sprintf("%s is not pinned", e.Property)
}

// AlreadyPinnedError occurs when Replace names a replacement property that is
// already pinned.
type AlreadyPinnedError struct {
	Property Property
}

func (e *AlreadyPinnedError) Error() string {
	return fmt.Sprintf("%s is already pinned; use Reset to change its value", e.Property)
}

// NotPinnableError occurs when a write targets a property that is always
// derived, such as a reciprocal view of another property.
type NotPinnableError struct {
	Property Property
}

func (e *NotPinnableError) Error() string {
	return fmt.Sprintf("%s cannot be set directly", e.Property)
}

// MissingAuxiliaryError occurs when a property write is attempted on a kind that
// requires an auxiliary identifier (e.g. a substance name) before it is set.
type MissingAuxiliaryError struct {
	Kind     string
	Property Property
}

func (e *MissingAuxiliaryError) Error() string {
	return fmt.Sprintf("cannot set %s: %s state requires a substance before any property is set", e.Property, e.Kind)
}

// InvalidAuxiliaryError occurs when an auxiliary identifier is refused: the
// kind takes none, the identifier is empty, or the Oracle does not know it. Err
// holds the Oracle's reason, if any.
type InvalidAuxiliaryError struct {
	Kind   string
	Name   string
	Reason string
	Err    error
}

func (e *InvalidAuxiliaryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s auxiliary identifier %q: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s auxiliary identifier %q: %s", e.Kind, e.Name, e.Reason)
}

func (e *InvalidAuxiliaryError) Unwrap() error { return e.Err }

// UnknownPropertyError occurs when a property name (or oracle code) is not
// defined by the state's kind.
type UnknownPropertyError struct {
	Kind string
	Name string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown %s property %q", e.Kind, e.Name)
}

// IncompleteStateError occurs when code-based access is attempted before the
// state is fully pinned.
type IncompleteStateError struct {
	Pinned   int
	Required int
}

func (e *IncompleteStateError) Error() string {
	return fmt.Sprintf("state is not fully constrained: %d of %d properties pinned", e.Pinned, e.Required)
}

// PhysicallyInvalidStateError occurs when the Oracle rejects a fully specified
// combination of properties. Diagnostic holds the Oracle's own message,
// unchanged; Validated lists the properties that were evaluated together.
//
// Property is empty when the failure happened while deriving a property
// rather than while validating a write.
type PhysicallyInvalidStateError struct {
	Property   Property
	Validated  []Property
	Diagnostic string
	Err        error
}

func (e *PhysicallyInvalidStateError) Error() string {
	var b strings.Builder
	if e.Property != "" {
		fmt.Fprintf(&b, "cannot set %s: ", e.Property)
	}
	if len(e.Validated) > 0 {
		fmt.Fprintf(&b, "invalid combination of %s: ", joinProperties(e.Validated))
	}
	b.WriteString(e.Diagnostic)
	if e.Property != "" {
		b.WriteString("; please validate all set properties")
	}
	return b.String()
}

func (e *PhysicallyInvalidStateError) Unwrap() error { return e.Err }

func joinProperties(ps []Property) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = string(p)
	}
	return strings.Join(s, ", ")
}
