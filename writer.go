package thermostate

// Writer defines the operations that mutate a state. *State implements it;
// recorders and test doubles may too.
type Writer interface {
	Set(p Property, value any) error
	Reset(p Property, value any) error
	Replace(old, replacement Property, value any) error
	SetAuxiliary(name string) error
}

// A Mutation is a function that applies a sequence of writes to a state using
// the given Writer and returns a non-nil error if any of them fails.
//
// Each write is atomic on its own, but a Mutation is not: writes applied before
// the failing one remain in effect.
type Mutation func(w Writer) error

var _ Writer = (*State)(nil)
