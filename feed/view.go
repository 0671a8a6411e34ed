package feed

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/danielorbach/go-component"
	"github.com/google/uuid"
	"gocloud.dev/pubsub"

	"github.com/go-thermo/thermostate"
)

// Snapshot is the latest known content of a single state, as reconstructed from
// its change notifications.
type Snapshot struct {
	StateID   uuid.UUID
	Kind      string
	Auxiliary string
	Pins      map[thermostate.Property]float64
	Complete  bool
	Version   uint64
	Hash      thermostate.StateHash
	// The time, in UTC, the last applied change was committed.
	Timestamp time.Time
}

// Restore rebuilds a live state from the snapshot, pinning its properties in
// lexicographic order. Every pin is validated again by the given Oracle. The
// state keeps the snapshot's identifier and version unless opts say otherwise,
// so its next notification follows the snapshot in a View.
func (s Snapshot) Restore(kind *thermostate.Kind, oracle thermostate.Oracle, opts ...thermostate.Option) (*thermostate.State, error) {
	if kind.Name != s.Kind {
		return nil, fmt.Errorf("restore %s snapshot as %s", s.Kind, kind.Name)
	}
	names := make([]thermostate.Property, 0, len(s.Pins))
	for p := range s.Pins {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	options := []thermostate.Option{thermostate.WithID(s.StateID), thermostate.WithVersion(s.Version)}
	if s.Auxiliary != "" {
		options = append(options, thermostate.WithAuxiliary(s.Auxiliary))
	}
	for _, p := range names {
		options = append(options, thermostate.WithPairs(p, s.Pins[p]))
	}
	st, err := thermostate.New(kind, oracle, append(options, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("restore state %s: %w", s.StateID, err)
	}
	return st, nil
}

// DiscontinuityError occurs when a notification does not follow the last one
// applied for the same state, meaning some notifications were lost or reordered.
type DiscontinuityError struct {
	StateID  uuid.UUID
	Tracked  thermostate.StateHash // content of the state as last applied
	Baseline thermostate.StateHash // content the notification was based on
}

func (e *DiscontinuityError) Error() string {
	return fmt.Sprintf("discontinuity in changes of state %s: last handled %v, received baseline %v", e.StateID, e.Tracked, e.Baseline)
}

// View correlates state identifiers with the latest known content of those
// states.
//
// View is safe for concurrent use: Track may apply notifications while other
// goroutines call Find.
type View struct {
	mu sync.Mutex
	m  map[uuid.UUID]Snapshot
}

// NewView returns an empty View.
func NewView() *View {
	return &View{m: make(map[uuid.UUID]Snapshot)}
}

// Find looks up the given state and returns its latest known content. If the
// state was never observed, Find indicates that by returning ok == false.
//
// The returned snapshot is a copy; modifying it does not affect the View.
func (v *View) Find(id uuid.UUID) (s Snapshot, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok = v.m[id]
	if ok {
		s.Pins = maps.Clone(s.Pins)
	}
	return s, ok
}

// Len returns the number of states in the View.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.m)
}

// Iter applies fn to every state in the View, in no particular order, until fn
// returns false. fn must not call other methods of the View.
func (v *View) Iter(fn func(id uuid.UUID, s Snapshot) bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, s := range v.m {
		if !fn(id, s) {
			break
		}
	}
}

// Apply updates the View with the given notification. It fails with a
// DiscontinuityError, leaving the View unmodified, if the notification does not
// follow the last one applied for the same state. Notifications of states the
// View has not observed yet are always accepted.
func (v *View) Apply(c thermostate.Changed) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if last, ok := v.m[c.StateID]; ok && last.Hash != c.Before {
		return &DiscontinuityError{StateID: c.StateID, Tracked: last.Hash, Baseline: c.Before}
	}
	v.m[c.StateID] = Snapshot{
		StateID:   c.StateID,
		Kind:      c.Kind,
		Auxiliary: c.Auxiliary,
		Pins:      maps.Clone(c.Pins),
		Complete:  c.Complete,
		Version:   c.Version,
		Hash:      c.After,
		Timestamp: c.Timestamp,
	}
	return nil
}

// Track returns a component.Proc that consumes the change notifications
// published by a Journal and maintains the given View.
//
// It processes one message at a time. A message that cannot be decoded or that
// breaks the continuity of its state stops the procedure, since the View could
// no longer be trusted.
func Track(v *View, source *pubsub.Subscription) component.Proc {
	return func(l *component.L) {
		logger := component.Logger(l.Context())
		for l.Continue() {
			msg, err := source.Receive(l.GraceContext())
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					// we're shutting down
					return
				}
				l.Errorf("receive: %v", err)
				continue
			}

			c, err := Decode(msg)
			if err != nil {
				l.Fatalf("Failed to decode state changes; stopping tracking: %v", err)
			}
			if err := v.Apply(c); err != nil {
				logger.Error("Detected a discontinuity in state changes", "error", err)
				l.Fatalf("Exiting due to detected discontinuity")
			}
			msg.Ack()
		}
	}
}
