/*
Package recipe records sequences of state writes so that they can be stored,
transmitted, and replayed against any state of the same kind.

The package provides a [Recorder] for collecting writes as steps, [Encode] and
[Decode] for moving them across process boundaries, and a [Replay] function
turning steps back into a [thermostate.Mutation].
*/
package recipe

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"iter"

	"github.com/go-thermo/thermostate"
)

// Step represents a single write to a state.
//
// All Step implementations must be registered with gob so that recipes can be
// encoded.
type Step interface {
	// Do applies the write using the given thermostate.Writer.
	Do(thermostate.Writer) error
	// Properties returns the sequence of properties this Step pins or unpins.
	Properties() iter.Seq[thermostate.Property]
}

// Encode serialises a slice of Steps into a byte array for storage or
// transmission.
func Encode(s []Step) (data []byte, err error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reconstructs a slice of Steps from a byte array produced by Encode.
func Decode(data []byte) (steps []Step, err error) {
	var s []Step
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return s, nil
}

// Recorder collects a sequence of state writes. Each write is stored as a
// separate [Step] in the order it was recorded; nothing is validated until the
// steps are replayed.
//
// The zero value of Recorder is ready to use. Do not copy a non-zero Recorder.
type Recorder struct {
	steps []Step
}

// Reset clears all recorded steps.
func (r *Recorder) Reset() {
	r.steps = nil
}

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []Step {
	s := make([]Step, len(r.steps))
	copy(s, r.steps)
	return s
}

// Set records a step that pins p to value, see thermostate.State.Set.
func (r *Recorder) Set(p thermostate.Property, value float64) {
	r.steps = append(r.steps, set{Property: p, Value: value})
}

// ResetProperty records a step that updates the pinned p to value, see
// thermostate.State.Reset.
func (r *Recorder) ResetProperty(p thermostate.Property, value float64) {
	r.steps = append(r.steps, reset{Property: p, Value: value})
}

// Replace records a step that swaps the pinned old for replacement, see
// thermostate.State.Replace.
func (r *Recorder) Replace(old, replacement thermostate.Property, value float64) {
	r.steps = append(r.steps, replace{Old: old, Replacement: replacement, Value: value})
}

// SetAuxiliary records a step that sets the auxiliary identifier of a state
// (e.g. a substance name).
func (r *Recorder) SetAuxiliary(name string) {
	r.steps = append(r.steps, auxiliary{Name: name})
}

// Replay returns a thermostate.Mutation that applies the given steps in order.
//
// If any step fails, the mutation stops immediately and returns the error
// annotated with the step's index, leaving the state with the writes of the
// preceding steps.
func Replay(steps []Step) thermostate.Mutation {
	return func(w thermostate.Writer) error {
		for i, step := range steps {
			if err := step.Do(w); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		return nil
	}
}

// Properties iterates over the properties written by the given steps, yielding
// each property once, in order of first appearance.
func Properties(steps []Step) iter.Seq[thermostate.Property] {
	return func(yield func(thermostate.Property) bool) {
		seen := make(map[thermostate.Property]struct{})
		for _, step := range steps {
			for p := range step.Properties() {
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
				if !yield(p) {
					return
				}
			}
		}
	}
}
