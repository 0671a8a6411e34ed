package thermostate

import (
	"sort"
	"time"
)

// Input is a single independent variable handed to an Oracle, identified by its
// oracle code (e.g. "T" for temperature).
type Input struct {
	Code  string
	Value float64
}

// An Oracle computes thermodynamic properties. Given a full set of independent
// variables describing a system, it returns the value of the requested output
// code, or an error describing why the combination has no valid solution.
//
// The auxiliary argument carries the state's auxiliary identifier (e.g. a
// substance name) and is empty for kinds that do not need one.
//
// Implementations must be pure: the same arguments always yield the same
// result, and calls have no side effects. States call Evaluate freely and
// repeatedly, and rely on it to return promptly.
type Oracle interface {
	Evaluate(output string, inputs []Input, auxiliary string) (float64, error)
}

// The OracleFunc type is an adapter to allow the use of ordinary functions as
// an Oracle.
type OracleFunc func(output string, inputs []Input, auxiliary string) (float64, error)

// Evaluate calls f(output, inputs, auxiliary).
func (f OracleFunc) Evaluate(output string, inputs []Input, auxiliary string) (float64, error) {
	return f(output, inputs, auxiliary)
}

// AuxiliaryValidator is the interface implemented by an Oracle that can tell
// whether it knows a given auxiliary identifier. States consult it before
// accepting a new identifier, so that an unknown substance is reported when it
// is named rather than when the first complete combination is validated.
type AuxiliaryValidator interface {
	ValidateAuxiliary(auxiliary string) error
}

// evaluate calls the state's Oracle for output with the given inputs and wraps
// any failure in a PhysicallyInvalidStateError carrying the Oracle's diagnostic
// unchanged. Callers add the context they know about.
func (s *State) evaluate(output string, inputs []Input) (v float64, err error) {
	defer func(start time.Time) {
		measureOracle(s.kind.Name, output, err == nil, time.Since(start))
	}(time.Now())

	v, err = s.oracle.Evaluate(output, inputs, s.auxiliary)
	if err != nil {
		return 0, &PhysicallyInvalidStateError{Diagnostic: err.Error(), Err: err}
	}
	return v, nil
}

// inputsOf converts a set of pinned base properties into oracle inputs, ordered
// by code so that oracle calls are reproducible.
func (s *State) inputsOf(pins map[Property]float64) []Input {
	inputs := make([]Input, 0, len(pins))
	for p, v := range pins {
		inputs = append(inputs, Input{Code: s.kind.code(p), Value: v})
	}
	sortInputs(inputs)
	return inputs
}

func sortInputs(inputs []Input) {
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Code < inputs[j].Code })
}
