package thermostate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Op names the kind of mutation a Changed notification reports.
type Op string

const (
	OpSet       Op = "set"       // a property was pinned (or re-pinned) by Set
	OpReset     Op = "reset"     // a pinned property was updated by Reset
	OpReplace   Op = "replace"   // a pinned property was swapped for another
	OpAuxiliary Op = "auxiliary" // the auxiliary identifier changed
)

// Changed notifies that a state has been mutated. The message carries the
// complete pin set after the mutation, so a consumer needs no other message to
// reconstruct the state.
//
// The content of the state before the mutation is hashed as Before; after the
// mutation it is hashed as After. Consecutive notifications of a single state
// chain together: each Before equals the After of the previous notification.
type Changed struct {
	StateID  uuid.UUID
	Kind     string
	Op       Op
	Property Property // the base property written; empty for OpAuxiliary
	Replaced Property // the base property unpinned by OpReplace
	Before   StateHash
	After    StateHash
	Version  uint64
	Pins     map[Property]float64
	// Auxiliary is the auxiliary identifier of the state, if any.
	Auxiliary string
	// Complete reports whether the state was fully determined after the mutation.
	Complete bool
	// The time, in UTC, the mutation was committed.
	Timestamp time.Time
}

// IsEmpty returns true if the notification contains no changes. Meaning, the
// content of the state had not changed between Before and After (e.g. a property
// was reset to the value it already held).
func (c Changed) IsEmpty() bool {
	return c.After == c.Before
}

// An Observer is notified after every successful mutation of a state. Observers
// are called synchronously, in registration order, by the goroutine that mutated
// the state; they must not mutate the state themselves.
type Observer interface {
	StateChanged(Changed)
}

// The ObserverFunc type is an adapter to allow the use of ordinary functions as
// an Observer.
type ObserverFunc func(Changed)

// StateChanged calls f(c).
func (f ObserverFunc) StateChanged(c Changed) { f(c) }

// FormatChanges returns a human-readable representation of the notification.
// The indent string is prepended to each line.
func FormatChanges(c Changed, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, indent+"baseline snapshot: %v\n", c.Before)
	switch c.Op {
	case OpReplace:
		fmt.Fprintf(&b, indent+"- %s\n", c.Replaced)
		fmt.Fprintf(&b, indent+"+ %s = %g\n", c.Property, c.Pins[c.Property])
	case OpAuxiliary:
		fmt.Fprintf(&b, indent+"* auxiliary = %q\n", c.Auxiliary)
	default:
		fmt.Fprintf(&b, indent+"* %s = %g\n", c.Property, c.Pins[c.Property])
	}
	for _, p := range sortedProperties(c.Pins) {
		fmt.Fprintf(&b, indent+"  %s: %g\n", p, c.Pins[p])
	}
	fmt.Fprintf(&b, indent+"current snapshot: %v (version %d)\n", c.After, c.Version)
	return b.String()
}
