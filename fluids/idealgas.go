package fluids

import (
	"fmt"
	"math"
)

// universal gas constant [J/mol-K]
const rUniversal = 8.314462618

// reference state of ideal-gas enthalpy and entropy
const (
	refT = 298.15
	refP = 101325.0
)

// IdealGas models a gas with constant specific heats. Enthalpy and entropy are
// zero at 298.15 K and 101325 Pa. The model has no two-phase region: quality is
// always -1.
type IdealGas struct {
	Label     string
	MolarMass float64  // [kg/mol]
	Cp        float64  // specific heat at constant pressure [J/kg-K]
	CriticalT float64  // [K]
	CriticalP float64  // [Pa]
	Aliases   []string // alternative names, e.g. chemical formulas
}

func (g IdealGas) Name() string { return g.Label }

func (g IdealGas) Critical() (t, p float64) { return g.CriticalT, g.CriticalP }

// R returns the specific gas constant [J/kg-K].
func (g IdealGas) R() float64 { return rUniversal / g.MolarMass }

// Solve resolves the state of the gas from two of T, P, D, H and S, one of
// which must be T or P. Temperature and enthalpy are not independent.
func (g IdealGas) Solve(in map[string]float64) (State, error) {
	if _, ok := in["Q"]; ok {
		return nil, fmt.Errorf("%s: %w: the ideal-gas model has no two-phase region", g.Label, ErrUnsupportedInputs)
	}
	for _, code := range []string{"T", "P", "D"} {
		if v, ok := in[code]; ok {
			if err := checkPositive(code, v); err != nil {
				return nil, fmt.Errorf("%s: %w", g.Label, err)
			}
		}
	}

	r, cp := g.R(), g.Cp
	t, hasT := in["T"]
	p, hasP := in["P"]
	switch {
	case hasT && hasP:
	case hasT:
		switch code, v := other(in, "T"); code {
		case "D":
			p = v * r * t
		case "S":
			p = refP * math.Exp((cp*math.Log(t/refT)-v)/r)
		case "H":
			return nil, fmt.Errorf("%s: temperature and enthalpy of an ideal gas are not independent", g.Label)
		default:
			return nil, fmt.Errorf("%s: %w: %s", g.Label, ErrUnsupportedInputs, inputPair(in))
		}
	case hasP:
		switch code, v := other(in, "P"); code {
		case "D":
			t = p / (v * r)
		case "H":
			t = refT + v/cp
		case "S":
			t = refT * math.Exp((v+r*math.Log(p/refP))/cp)
		default:
			return nil, fmt.Errorf("%s: %w: %s", g.Label, ErrUnsupportedInputs, inputPair(in))
		}
	default:
		return nil, fmt.Errorf("%s: %w: %s", g.Label, ErrUnsupportedInputs, inputPair(in))
	}

	if !(t > 0) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("%s: temperature %g K is not positive: %w", g.Label, t, ErrNoSolution)
	}
	if !(p > 0) || math.IsInf(p, 0) {
		return nil, fmt.Errorf("%s: pressure %g Pa is not positive: %w", g.Label, p, ErrNoSolution)
	}
	return gasState{gas: g, t: t, p: p}, nil
}

type gasState struct {
	gas  IdealGas
	t, p float64
}

func (s gasState) Property(code string) (float64, error) {
	r, cp := s.gas.R(), s.gas.Cp
	switch code {
	case "T":
		return s.t, nil
	case "P":
		return s.p, nil
	case "D":
		return s.p / (r * s.t), nil
	case "H":
		return cp * (s.t - refT), nil
	case "S":
		return cp*math.Log(s.t/refT) - r*math.Log(s.p/refP), nil
	case "Q":
		return -1, nil
	case "C":
		return cp, nil
	case "O":
		return cp - r, nil
	case "Tcrit":
		return s.gas.CriticalT, nil
	case "pcrit":
		return s.gas.CriticalP, nil
	}
	return 0, fmt.Errorf("%s: output %q: %w", s.gas.Label, code, ErrUnknownCode)
}
