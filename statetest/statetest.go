/*
Package statetest provides a suite of tests designed to assess pairings of
state kinds and oracles (e.g. humid air with the psychro oracle).

The tests operate on states produced by a [Fixture] to check the behaviours
every state must exhibit regardless of its kind: the pin count never exceeds
what the kind requires, rejected writes leave no trace, resetting a property to
its own value changes nothing but the version, derived values follow every
mutation, and replacing a pin with a derived value is reversible.

Call statetest.Run in its own test to invoke the test-suite:

	func TestHumidAir(t *testing.T) {
		statetest.Run(t, statetest.Fixture{
			New: func(opts ...thermostate.Option) (*thermostate.State, error) {
				return thermostate.NewHumidAir(psychro.Oracle{}, opts...)
			},
			Pins:    []statetest.Pin{{thermostate.Press, 101325}, {thermostate.TempK, 293.15}, {thermostate.RelHum, 0.5}},
			Derived: thermostate.HumRat,
			Update:  statetest.Pin{thermostate.TempK, 298.15},
			Invalid: statetest.Pin{thermostate.TempK, 473.15},
		})
	}

Kinds and oracles are encouraged to perform additional tests which are specific
to their physics.
*/
package statetest

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-thermo/thermostate"
)

// Pin is a property along with a value to write to it.
type Pin struct {
	Property thermostate.Property
	Value    float64
}

// Fixture describes how to exercise a kind and oracle pairing.
type Fixture struct {
	// New returns a fresh state that accepts writes, i.e. with its auxiliary
	// identifier already set if its kind needs one. The options must be applied.
	New func(opts ...thermostate.Option) (*thermostate.State, error)
	// Pins completes a fresh state when written in order.
	Pins []Pin
	// Derived is a pinnable property not in Pins, used to replace the last of
	// Pins with its own derived value.
	Derived thermostate.Property
	// Update is a valid new value for one of Pins.
	Update Pin
	// Invalid is a value for one of Pins that passes local validation but that
	// the oracle rejects together with the other Pins.
	Invalid Pin
	// Tolerance is the relative tolerance of round trips through the oracle. It
	// defaults to 1e-6.
	Tolerance float64
	// Seed seeds the random write sequences.
	Seed uint64
}

type testCase struct {
	// Subtest name.
	name string
	// A path leading to the test-case's file and line in the source code.
	location string
	// run executes the test-case against the fixture.
	run func(t *testing.T, f Fixture)
}

var cases = []testCase{
	{name: "pin-count-invariant", location: locateSource(), run: testPinCount},
	{name: "atomic-rejection", location: locateSource(), run: testAtomicRejection},
	{name: "reset-idempotence", location: locateSource(), run: testResetIdempotence},
	{name: "cache-coherence", location: locateSource(), run: testCacheCoherence},
	{name: "replace-round-trip", location: locateSource(), run: testReplaceRoundTrip},
}

// Run runs every test-case of the suite as a subtest of t.
func Run(t *testing.T, f Fixture) {
	t.Helper()
	if f.Tolerance == 0 {
		f.Tolerance = 1e-6
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// We encourage developers to read the source code directly, especially when
			// failures are not clear enough.
			t.Logf("Read the source for test-case %v at %v", c.name, c.location)
			c.run(t, f)
		})
	}
}

// recorder collects the notifications of a state.
type recorder struct {
	changes []thermostate.Changed
}

func (r *recorder) StateChanged(c thermostate.Changed) {
	r.changes = append(r.changes, c)
}

// newState returns a fresh state observed by the returned recorder.
func newState(t *testing.T, f Fixture) (*thermostate.State, *recorder) {
	t.Helper()
	var r recorder
	s, err := f.New(thermostate.WithObserver(&r))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.changes = nil // notifications of the construction are not interesting
	return s, &r
}

// completeState returns a fresh state with every pin of the fixture written.
func completeState(t *testing.T, f Fixture) (*thermostate.State, *recorder) {
	t.Helper()
	s, r := newState(t, f)
	for _, p := range f.Pins {
		if err := s.Set(p.Property, p.Value); err != nil {
			t.Fatalf("Set(%v, %v) failed: %v", p.Property, p.Value, err)
		}
	}
	if !s.Complete() {
		t.Fatalf("state is not complete after pinning %d properties", len(f.Pins))
	}
	r.changes = nil
	return s, r
}

// Random sequences of Set, Reset and Replace never leave a state with more pins
// than its kind requires, and every write either commits exactly one mutation or
// none at all.
func testPinCount(t *testing.T, f Fixture) {
	s, r := newState(t, f)
	pool := append([]Pin{f.Update, f.Invalid}, f.Pins...)
	ref, _ := completeState(t, f)
	pool = append(pool, Pin{Property: f.Derived, Value: get(t, ref, f.Derived)})
	scales := []float64{1, 1, 0.9, 1.1}

	rnd := rand.New(rand.NewPCG(f.Seed, 0))
	for i := range 200 {
		pin := pool[rnd.IntN(len(pool))]
		value := pin.Value * scales[rnd.IntN(len(scales))]

		before := s.Constraints()
		r.changes = nil
		var (
			op  string
			err error
		)
		switch rnd.IntN(3) {
		case 0:
			op = fmt.Sprintf("Set(%v, %v)", pin.Property, value)
			err = s.Set(pin.Property, value)
		case 1:
			op = fmt.Sprintf("Reset(%v, %v)", pin.Property, value)
			err = s.Reset(pin.Property, value)
		default:
			old := pool[rnd.IntN(len(pool))].Property
			op = fmt.Sprintf("Replace(%v, %v, %v)", old, pin.Property, value)
			err = s.Replace(old, pin.Property, value)
		}
		after := s.Constraints()

		if got, max := len(after.Names), s.Kind().RequiredPins; got > max {
			t.Fatalf("write %d: %s left %d pins, want at most %d", i, op, got, max)
		}
		if after.Complete != (len(after.Names) == s.Kind().RequiredPins) {
			t.Errorf("write %d: %s: Complete = %v with %d pins", i, op, after.Complete, len(after.Names))
		}
		if err != nil {
			if diff := cmp.Diff(before, after); diff != "" {
				t.Fatalf("write %d: rejected %s modified the state (-before +after):\n%s", i, op, diff)
			}
			if len(r.changes) != 0 {
				t.Errorf("write %d: rejected %s notified %d changes", i, op, len(r.changes))
			}
			continue
		}
		if after.Version != before.Version+1 {
			t.Errorf("write %d: %s: Version = %d, want %d", i, op, after.Version, before.Version+1)
		}
		if len(r.changes) != 1 {
			t.Errorf("write %d: %s notified %d changes, want 1", i, op, len(r.changes))
			continue
		}
		if c := r.changes[0]; c.Before != before.Hash || c.After != after.Hash || c.Version != after.Version {
			t.Errorf("write %d: %s notified %+v, want hashes %v -> %v at version %d", i, op, c, before.Hash, after.Hash, after.Version)
		}
	}
}

// Writes that fail for any reason leave the state exactly as it was.
func testAtomicRejection(t *testing.T, f Fixture) {
	s, r := completeState(t, f)
	before := s.Constraints()

	var invalid *thermostate.PhysicallyInvalidStateError
	if err := s.Reset(f.Invalid.Property, f.Invalid.Value); !errors.As(err, &invalid) {
		t.Errorf("Reset(%v, %v) = %v, want %T", f.Invalid.Property, f.Invalid.Value, err, invalid)
	}
	var overConstrained *thermostate.OverConstrainedError
	if err := s.Set(f.Derived, 1); !errors.As(err, &overConstrained) {
		t.Errorf("Set(%v) on a complete state = %v, want %T", f.Derived, err, overConstrained)
	}
	var rangeErr *thermostate.RangeValidationError
	if err := s.Reset(f.Pins[0].Property, math.Inf(1)); !errors.As(err, &rangeErr) {
		t.Errorf("Reset(%v, +Inf) = %v, want %T", f.Pins[0].Property, err, rangeErr)
	}
	var typeErr *thermostate.TypeMismatchError
	if err := s.Reset(f.Pins[0].Property, "hot"); !errors.As(err, &typeErr) {
		t.Errorf("Reset(%v, \"hot\") = %v, want %T", f.Pins[0].Property, err, typeErr)
	}

	if diff := cmp.Diff(before, s.Constraints()); diff != "" {
		t.Errorf("rejected writes modified the state (-before +after):\n%s", diff)
	}
	if len(r.changes) != 0 {
		t.Errorf("rejected writes notified %d changes", len(r.changes))
	}
}

// Resetting a pin to its own value bumps the version once and changes nothing
// else.
func testResetIdempotence(t *testing.T, f Fixture) {
	s, r := completeState(t, f)
	before := s.Constraints()
	p := f.Pins[len(f.Pins)-1]

	if err := s.Reset(p.Property, p.Value); err != nil {
		t.Fatalf("Reset(%v, %v) failed: %v", p.Property, p.Value, err)
	}
	after := s.Constraints()
	if after.Version != before.Version+1 {
		t.Errorf("Version = %d, want %d", after.Version, before.Version+1)
	}
	after.Version = before.Version
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("Reset to the same value modified the state (-before +after):\n%s", diff)
	}
	if len(r.changes) != 1 || !r.changes[0].IsEmpty() {
		t.Errorf("Reset to the same value notified %+v, want a single empty notification", r.changes)
	}
}

// A derived value read after a mutation equals the one a fresh state with the
// same pins derives.
func testCacheCoherence(t *testing.T, f Fixture) {
	s, _ := completeState(t, f)
	stale := get(t, s, f.Derived)

	if err := s.Reset(f.Update.Property, f.Update.Value); err != nil {
		t.Fatalf("Reset(%v, %v) failed: %v", f.Update.Property, f.Update.Value, err)
	}
	got := get(t, s, f.Derived)

	fresh, _ := newState(t, f)
	for _, p := range f.Pins {
		v := p.Value
		if p.Property == f.Update.Property {
			v = f.Update.Value
		}
		if err := fresh.Set(p.Property, v); err != nil {
			t.Fatalf("Set(%v, %v) failed: %v", p.Property, v, err)
		}
	}
	want := get(t, fresh, f.Derived)

	if got != want {
		t.Errorf("Get(%v) after Reset = %v, want %v as derived by a fresh state", f.Derived, got, want)
	}
	if got == stale {
		t.Errorf("Get(%v) = %v both before and after Reset(%v)", f.Derived, got, f.Update.Property)
	}
}

// Replacing a pin with the derived value of another property, and back, restores
// the original value within tolerance.
func testReplaceRoundTrip(t *testing.T, f Fixture) {
	s, r := completeState(t, f)
	last := f.Pins[len(f.Pins)-1]
	derived := get(t, s, f.Derived)
	version := s.Version()

	if err := s.Replace(last.Property, f.Derived, derived); err != nil {
		t.Fatalf("Replace(%v, %v, %v) failed: %v", last.Property, f.Derived, derived, err)
	}
	if got := s.Version(); got != version+1 {
		t.Errorf("Version after Replace = %d, want %d", got, version+1)
	}
	if len(r.changes) != 1 || r.changes[0].Op != thermostate.OpReplace || r.changes[0].Replaced != last.Property {
		t.Errorf("Replace notified %+v, want a single %v of %v", r.changes, thermostate.OpReplace, last.Property)
	}

	roundTrip := get(t, s, last.Property)
	opt := cmpopts.EquateApprox(f.Tolerance, 0)
	if diff := cmp.Diff(last.Value, roundTrip, opt); diff != "" {
		t.Errorf("Get(%v) after Replace mismatch (-want +got):\n%s", last.Property, diff)
	}

	if err := s.Replace(f.Derived, last.Property, last.Value); err != nil {
		t.Fatalf("Replace(%v, %v, %v) failed: %v", f.Derived, last.Property, last.Value, err)
	}
	if diff := cmp.Diff(derived, get(t, s, f.Derived), opt); diff != "" {
		t.Errorf("Get(%v) after replacing back mismatch (-want +got):\n%s", f.Derived, diff)
	}
}

func get(t *testing.T, s *thermostate.State, p thermostate.Property) float64 {
	t.Helper()
	v, ok, err := s.Get(p)
	if err != nil {
		t.Fatalf("Get(%v) failed: %v", p, err)
	}
	if !ok {
		t.Fatalf("Get(%v) of a complete state is unavailable", p)
	}
	return v
}

func locateSource() (path string) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		panic("runtime.Caller failed")
	}
	return fmt.Sprintf("%v:%v", file, line)
}
