// Package fluids provides a thermostate.Oracle for pure substances: water and
// steam through the IAPWS-IF97 formulation, and a handful of common gases
// through the ideal-gas model.
//
// All quantities are in SI units: K, Pa, kg/m³, J/kg and J/kg-K. Oracle codes are
// T (temperature), P (pressure), D (density), H (enthalpy), S (entropy), Q
// (vapour quality, -1 outside the two-phase region), C (cp), O (cv), and the
// critical point Tcrit and pcrit.
package fluids

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-thermo/thermostate"
)

var (
	// ErrUnknownSubstance is returned (wrapped) for substance names that are not
	// registered.
	ErrUnknownSubstance = errors.New("unknown substance")
	// ErrUnknownCode is returned (wrapped) for output codes a substance cannot
	// compute.
	ErrUnknownCode = errors.New("unknown code")
	// ErrUnsupportedInputs is returned (wrapped) for input pairs a substance
	// cannot resolve.
	ErrUnsupportedInputs = errors.New("unsupported input pair")
	// ErrNoSolution is returned (wrapped) when no supported state satisfies the
	// inputs.
	ErrNoSolution = errors.New("no solution")
)

// A Substance resolves states of a pure substance from pairs of properties.
type Substance interface {
	Name() string
	Critical() (t, p float64)
	Solve(inputs map[string]float64) (State, error)
}

// State is a resolved state of a Substance.
type State interface {
	Property(code string) (float64, error)
}

var registry = map[string]Substance{}

func init() {
	Register(Water{}, "h2o")
	for _, g := range []IdealGas{
		{Label: "air", MolarMass: 0.0289586, Cp: 1005, CriticalT: 132.5306, CriticalP: 3.7860e6},
		{Label: "nitrogen", MolarMass: 0.0280134, Cp: 1040, CriticalT: 126.192, CriticalP: 3.3958e6, Aliases: []string{"n2"}},
		{Label: "oxygen", MolarMass: 0.0319988, Cp: 918, CriticalT: 154.581, CriticalP: 5.043e6, Aliases: []string{"o2"}},
		{Label: "argon", MolarMass: 0.039948, Cp: 520.3, CriticalT: 150.687, CriticalP: 4.863e6, Aliases: []string{"ar"}},
		{Label: "helium", MolarMass: 0.004002602, Cp: 5193, CriticalT: 5.1953, CriticalP: 0.22832e6, Aliases: []string{"he"}},
		{Label: "hydrogen", MolarMass: 0.00201588, Cp: 14307, CriticalT: 33.145, CriticalP: 1.2964e6, Aliases: []string{"h2"}},
		{Label: "carbondioxide", MolarMass: 0.0440098, Cp: 846, CriticalT: 304.1282, CriticalP: 7.3773e6, Aliases: []string{"co2", "carbon-dioxide"}},
	} {
		Register(g, g.Aliases...)
	}
}

// Register makes a substance available by its name and the given aliases. Names
// are case-insensitive. It panics if a name is registered twice; it is meant to
// be called from init functions.
func Register(s Substance, aliases ...string) {
	for _, name := range append([]string{s.Name()}, aliases...) {
		key := strings.ToLower(name)
		if _, dup := registry[key]; dup {
			panic("fluids: substance " + name + " registered twice")
		}
		registry[key] = s
	}
}

// Lookup returns the substance registered under name.
func Lookup(name string) (Substance, error) {
	s, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known substances: %s)", ErrUnknownSubstance, name, strings.Join(Substances(), ", "))
	}
	return s, nil
}

// Substances returns the canonical names of the registered substances, sorted.
func Substances() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range registry {
		if !seen[s.Name()] {
			seen[s.Name()] = true
			names = append(names, s.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Oracle is a thermostate.Oracle for Fluid states, whose auxiliary identifier is
// the name of a registered substance.
//
// The zero value is ready to use.
type Oracle struct{}

var (
	_ thermostate.Oracle             = Oracle{}
	_ thermostate.AuxiliaryValidator = Oracle{}
)

// Evaluate resolves the state of the named substance described by the two
// inputs and returns the value of output.
func (Oracle) Evaluate(output string, inputs []thermostate.Input, substance string) (float64, error) {
	s, err := Lookup(substance)
	if err != nil {
		return 0, err
	}
	if len(inputs) != 2 {
		return 0, fmt.Errorf("%s: requires exactly 2 inputs, got %d", s.Name(), len(inputs))
	}
	in := make(map[string]float64, 2)
	for _, x := range inputs {
		if _, dup := in[x.Code]; dup {
			return 0, fmt.Errorf("%s: input %q given twice", s.Name(), x.Code)
		}
		in[x.Code] = x.Value
	}

	st, err := s.Solve(in)
	if err != nil {
		return 0, err
	}
	return st.Property(output)
}

// ValidateAuxiliary reports whether substance names a registered substance.
func (Oracle) ValidateAuxiliary(substance string) error {
	_, err := Lookup(substance)
	return err
}
