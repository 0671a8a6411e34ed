package psychro

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-thermo/thermostate"
)

// Oracle is a thermostate.Oracle for humid-air states.
//
// It accepts exactly three inputs, one of which must be the pressure P. The
// other two may be any pair of T (dry-bulb temperature), W (humidity ratio), R
// (relative humidity), B (wet-bulb temperature), D (dew-point temperature), H
// (enthalpy) and V (specific volume), except the pair W and D, which are not
// independent. Outputs are any of those codes, plus S (entropy) and C (heat
// capacity).
//
// The zero value is ready to use.
type Oracle struct{}

var _ thermostate.Oracle = Oracle{}

// ErrUnknownCode is returned (wrapped) for input or output codes the Oracle does
// not know.
var ErrUnknownCode = errors.New("unknown code")

// Evaluate resolves the moist-air state described by inputs and returns the
// value of output. The auxiliary identifier is ignored.
func (Oracle) Evaluate(output string, inputs []thermostate.Input, _ string) (float64, error) {
	st, err := Solve(inputs)
	if err != nil {
		return 0, err
	}
	return st.Property(output)
}

// Air is a resolved moist-air state.
type Air struct {
	T float64 // dry-bulb temperature [K]
	P float64 // pressure [Pa]
	W float64 // humidity ratio [kg/kg dry air]
}

// Property returns the value of the given code for the state.
func (a Air) Property(code string) (float64, error) {
	switch code {
	case "T":
		return a.T, nil
	case "P":
		return a.P, nil
	case "W":
		return a.W, nil
	case "R":
		return RelativeHumidity(a.T, a.P, a.W), nil
	case "B":
		return WetBulb(a.T, a.P, a.W)
	case "D":
		return DewPoint(a.P, a.W)
	case "H":
		return Enthalpy(a.T, a.W), nil
	case "S":
		return Entropy(a.T, a.P, a.W), nil
	case "V":
		return SpecificVolume(a.T, a.P, a.W), nil
	case "C":
		return HeatCapacity(a.W), nil
	default:
		return 0, fmt.Errorf("output %q: %w", code, ErrUnknownCode)
	}
}

// Solve resolves the moist-air state described by three inputs, one of which
// must be the pressure P. It fails if the inputs do not describe a physically
// possible state of moist air.
func Solve(inputs []thermostate.Input) (Air, error) {
	if len(inputs) != 3 {
		return Air{}, fmt.Errorf("humid air requires exactly 3 inputs, got %d", len(inputs))
	}
	var (
		p      = math.NaN()
		others []thermostate.Input
		seen   = make(map[string]bool, 3)
	)
	for _, in := range inputs {
		if seen[in.Code] {
			return Air{}, fmt.Errorf("input %q given twice", in.Code)
		}
		seen[in.Code] = true
		switch in.Code {
		case "P":
			p = in.Value
		case "T", "W", "R", "B", "D", "H", "V":
			others = append(others, in)
		default:
			return Air{}, fmt.Errorf("input %q: %w", in.Code, ErrUnknownCode)
		}
	}
	if math.IsNaN(p) {
		return Air{}, fmt.Errorf("pressure (P) must be one of the inputs, got %s", codesOf(inputs))
	}
	if p <= 0 {
		return Air{}, fmt.Errorf("pressure must be positive: %w", ErrUnphysical)
	}
	x, y := others[0], others[1]
	if y.Code == "T" {
		x, y = y, x
	}

	var a Air
	a.P = p
	switch {
	case x.Code == "T":
		a.T = x.Value
		w, err := humidityRatioOf(y, a.T, p)
		if err != nil {
			return Air{}, err
		}
		a.W = w
	case (x.Code == "W" && y.Code == "D") || (x.Code == "D" && y.Code == "W"):
		return Air{}, fmt.Errorf("humidity ratio and dew point are not independent at constant pressure")
	default:
		f := func(t float64) float64 {
			wx, errX := humidityRatioOf(x, t, p)
			wy, errY := humidityRatioOf(y, t, p)
			if errX != nil || errY != nil {
				return math.NaN()
			}
			return wx - wy
		}
		t, ok := scan(f, MinTemperature, MaxTemperature, 0.5)
		if !ok {
			return Air{}, fmt.Errorf("no temperature between %g K and %g K satisfies %s=%g and %s=%g: %w",
				MinTemperature, MaxTemperature, x.Code, x.Value, y.Code, y.Value, ErrNoSolution)
		}
		a.T = t
		w, err := humidityRatioOf(x, t, p)
		if err != nil {
			return Air{}, err
		}
		a.W = w
	}
	return a, a.validate()
}

// humidityRatioOf returns the humidity ratio of air at temperature t and
// pressure p, given one more of its properties.
func humidityRatioOf(in thermostate.Input, t, p float64) (float64, error) {
	switch in.Code {
	case "W":
		return in.Value, nil
	case "R":
		pw := in.Value * SatPressure(t)
		if pw >= p {
			return 0, fmt.Errorf("vapour pressure %g Pa reaches total pressure %g Pa: %w", pw, p, ErrUnphysical)
		}
		return HumidityRatio(pw, p), nil
	case "B":
		return WetBulbHumidityRatio(t, in.Value, p), nil
	case "D":
		pw := SatPressure(in.Value)
		if pw >= p {
			return 0, fmt.Errorf("vapour pressure %g Pa reaches total pressure %g Pa: %w", pw, p, ErrUnphysical)
		}
		return HumidityRatio(pw, p), nil
	case "H":
		c := t - zeroCelsius
		return (in.Value - cpDryAir*c) / (latentHeat + cpVapour*c), nil
	case "V":
		return epsilon * (in.Value*p/(rDryAir*t) - 1), nil
	default:
		return 0, fmt.Errorf("input %q: %w", in.Code, ErrUnknownCode)
	}
}

func (a Air) validate() error {
	switch {
	case a.T < MinTemperature || a.T > MaxTemperature:
		return fmt.Errorf("temperature %g K outside [%g, %g] K: %w", a.T, MinTemperature, MaxTemperature, ErrNoSolution)
	case a.W < 0:
		return fmt.Errorf("humidity ratio %g is negative: %w", a.W, ErrUnphysical)
	case VapourPressure(a.W, a.P) >= a.P:
		return fmt.Errorf("humidity ratio %g is unbounded at %g Pa: %w", a.W, a.P, ErrUnphysical)
	}
	// allow for rounding in the solvers
	if rh := RelativeHumidity(a.T, a.P, a.W); rh > 1+1e-9 {
		return fmt.Errorf("supersaturated air: relative humidity %.4f exceeds 1 at %g K: %w", rh, a.T, ErrUnphysical)
	}
	return nil
}

func codesOf(inputs []thermostate.Input) string {
	codes := make([]string, len(inputs))
	for i, in := range inputs {
		codes[i] = in.Code
	}
	return strings.Join(codes, ", ")
}
