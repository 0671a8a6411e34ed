package fluids

import (
	"fmt"
	"math"
)

// Water is the IAPWS-IF97 model of water and steam, limited to regions 1, 2 and
// 4. States in region 3 (near the critical point) and region 5 (above 1073.15 K)
// are reported as unsupported.
type Water struct{}

func (Water) Name() string { return "water" }

func (Water) Critical() (t, p float64) { return waterTc, waterPc }

// Solve resolves the state of water from two inputs, one of which must be T, P
// or Q.
func (w Water) Solve(in map[string]float64) (State, error) {
	t, hasT := in["T"]
	p, hasP := in["P"]
	q, hasQ := in["Q"]
	switch {
	case hasT && hasP:
		return w.atTP(t, p)
	case hasT && hasQ:
		return w.saturatedAtT(t, q)
	case hasP && hasQ:
		return w.saturatedAtP(p, q)
	case hasT:
		code, v := other(in, "T")
		return w.alongIsotherm(t, code, v)
	case hasP:
		code, v := other(in, "P")
		return w.alongIsobar(p, code, v)
	case hasQ:
		code, v := other(in, "Q")
		return w.alongSaturation(q, code, v)
	}
	return nil, fmt.Errorf("water: %w: %s", ErrUnsupportedInputs, inputPair(in))
}

// waterState is a resolved state of water. Two-phase states (q in [0, 1]) sit
// on the saturation line at t and p.
type waterState struct {
	t, p float64
	q    float64 // -1 outside the two-phase region
}

func (s waterState) Property(code string) (float64, error) {
	switch code {
	case "T":
		return s.t, nil
	case "P":
		return s.p, nil
	case "Q":
		return s.q, nil
	case "Tcrit":
		return waterTc, nil
	case "pcrit":
		return waterPc, nil
	}

	var pr props
	if s.q < 0 {
		r, err := region(s.t, s.p)
		if err != nil {
			return 0, err
		}
		pr = r(s.t, s.p)
	} else {
		switch code {
		case "C", "O":
			return 0, fmt.Errorf("water: %s is undefined in the two-phase region", code)
		}
		liq, vap, err := saturated(s.t, s.p)
		if err != nil {
			return 0, err
		}
		pr = props{
			v: liq.v + s.q*(vap.v-liq.v),
			h: liq.h + s.q*(vap.h-liq.h),
			s: liq.s + s.q*(vap.s-liq.s),
		}
	}

	switch code {
	case "D":
		return 1 / pr.v, nil
	case "H":
		return pr.h, nil
	case "S":
		return pr.s, nil
	case "C":
		return pr.cp, nil
	case "O":
		return pr.cv, nil
	}
	return 0, fmt.Errorf("water: output %q: %w", code, ErrUnknownCode)
}

// region returns the equation of the single-phase region containing (t, p).
func region(t, p float64) (func(t, p float64) props, error) {
	switch {
	case t < if97Tmin || t > if97Tmax:
		return nil, fmt.Errorf("water: temperature %g K outside the supported range [%g, %g] K", t, if97Tmin, if97Tmax)
	case p <= 0 || p > if97Pmax:
		return nil, fmt.Errorf("water: pressure %g Pa outside the supported range (0, %g] Pa", p, if97Pmax)
	case t <= if97T13:
		if p >= satPressure(t) {
			return region1, nil
		}
		return region2, nil
	case t > if97T25max || p <= b23Pressure(t):
		return region2, nil
	}
	return nil, fmt.Errorf("water: T=%g K, P=%g Pa lies near the critical point (IF97 region 3), which is not supported", t, p)
}

// saturated returns the properties of saturated liquid and saturated vapour on
// the saturation line at (t, p).
func saturated(t, p float64) (liq, vap props, err error) {
	if t > if97T13 {
		return props{}, props{}, fmt.Errorf("water: saturation at %g K lies near the critical point (IF97 region 3), which is not supported", t)
	}
	return region1(t, p), region2(t, p), nil
}

func (Water) atTP(t, p float64) (State, error) {
	if _, err := region(t, p); err != nil {
		return nil, err
	}
	return waterState{t: t, p: p, q: -1}, nil
}

func (Water) saturatedAtT(t, q float64) (State, error) {
	if err := checkQuality(q); err != nil {
		return nil, err
	}
	if t < if97Tmin || t > waterTc {
		return nil, fmt.Errorf("water: no saturation at %g K (saturation spans %g to %g K)", t, if97Tmin, waterTc)
	}
	return waterState{t: t, p: satPressure(t), q: q}, nil
}

func (Water) saturatedAtP(p, q float64) (State, error) {
	if err := checkQuality(q); err != nil {
		return nil, err
	}
	pmin := satPressure(if97Tmin)
	if p < pmin || p > waterPc {
		return nil, fmt.Errorf("water: no saturation at %g Pa (saturation spans %g to %g Pa)", p, pmin, waterPc)
	}
	return waterState{t: satTemperature(p), p: p, q: q}, nil
}

// alongIsotherm resolves the state at temperature t where code takes value v.
func (w Water) alongIsotherm(t float64, code string, v float64) (State, error) {
	if t < if97Tmin || t > if97Tmax {
		return nil, fmt.Errorf("water: temperature %g K outside the supported range [%g, %g] K", t, if97Tmin, if97Tmax)
	}
	value, err := singlePhase(code)
	if err != nil {
		return nil, err
	}

	if t <= if97T13 {
		// compressed-liquid enthalpies may overlap those of the saturated
		// mixture at the same temperature; the compressed liquid wins
		ps := satPressure(t)
		if p, ok := solveLog(func(p float64) float64 { return value(region1(t, p)) - v }, ps, if97Pmax); ok {
			return waterState{t: t, p: p, q: -1}, nil
		}
		liq, vap := region1(t, ps), region2(t, ps)
		if q, ok := mixture(value(liq), value(vap), v); ok {
			return waterState{t: t, p: ps, q: q}, nil
		}
		if p, ok := solveLog(func(p float64) float64 { return value(region2(t, p)) - v }, minPressure, ps); ok {
			return waterState{t: t, p: p, q: -1}, nil
		}
	} else {
		pmax := if97Pmax
		if t <= if97T25max {
			pmax = b23Pressure(t)
		}
		if p, ok := solveLog(func(p float64) float64 { return value(region2(t, p)) - v }, minPressure, pmax); ok {
			return waterState{t: t, p: p, q: -1}, nil
		}
	}
	return nil, fmt.Errorf("water: no supported state at T=%g K with %s=%g: %w", t, code, v, ErrNoSolution)
}

// alongIsobar resolves the state at pressure p where code takes value v.
func (w Water) alongIsobar(p float64, code string, v float64) (State, error) {
	if p <= 0 || p > if97Pmax {
		return nil, fmt.Errorf("water: pressure %g Pa outside the supported range (0, %g] Pa", p, if97Pmax)
	}
	value, err := singlePhase(code)
	if err != nil {
		return nil, err
	}

	liquidMax := if97T13
	vapourMin := if97Tmin
	if p <= satPressure(if97T13) {
		ts := satTemperature(p)
		if ts >= if97Tmin {
			liq, vap := region1(ts, p), region2(ts, p)
			if q, ok := mixture(value(liq), value(vap), v); ok {
				return waterState{t: ts, p: p, q: q}, nil
			}
		}
		liquidMax, vapourMin = ts, ts
	} else if p > b23Pressure(if97T13) {
		vapourMin = b23Temperature(p)
	} else {
		vapourMin = if97T13
	}

	if liquidMax > if97Tmin {
		if t, ok := solveLinear(func(t float64) float64 { return value(region1(t, p)) - v }, if97Tmin, liquidMax); ok {
			return waterState{t: t, p: p, q: -1}, nil
		}
	}
	if vapourMin < if97Tmax {
		lo := math.Max(vapourMin, if97Tmin)
		if t, ok := solveLinear(func(t float64) float64 { return value(region2(t, p)) - v }, lo, if97Tmax); ok {
			return waterState{t: t, p: p, q: -1}, nil
		}
	}
	return nil, fmt.Errorf("water: no supported state at P=%g Pa with %s=%g: %w", p, code, v, ErrNoSolution)
}

// alongSaturation resolves the two-phase state of quality q where code takes
// value v.
func (w Water) alongSaturation(q float64, code string, v float64) (State, error) {
	if err := checkQuality(q); err != nil {
		return nil, err
	}
	value, err := singlePhase(code)
	if err != nil {
		return nil, err
	}
	if code == "D" {
		// density does not mix linearly; specific volume does
		value = func(pr props) float64 { return pr.v }
		v = 1 / v
	}
	f := func(t float64) float64 {
		ps := satPressure(t)
		liq, vap := region1(t, ps), region2(t, ps)
		return value(liq) + q*(value(vap)-value(liq)) - v
	}
	t, ok := solveLinear(f, if97Tmin, if97T13)
	if !ok {
		return nil, fmt.Errorf("water: no supported saturated state with Q=%g and %s=%g: %w", q, code, v, ErrNoSolution)
	}
	return waterState{t: t, p: satPressure(t), q: q}, nil
}

// singlePhase returns the accessor of a property that may be used to locate a
// state, along with the value to compare against.
func singlePhase(code string) (func(props) float64, error) {
	switch code {
	case "D":
		return func(pr props) float64 { return 1 / pr.v }, nil
	case "H":
		return func(pr props) float64 { return pr.h }, nil
	case "S":
		return func(pr props) float64 { return pr.s }, nil
	}
	return nil, fmt.Errorf("water: %w: %s cannot locate a state", ErrUnsupportedInputs, code)
}

// mixture returns the quality at which a property of a saturated mixture takes
// value v, given its values for saturated liquid and vapour. Density mixes in
// specific volume.
func mixture(liq, vap, v float64) (float64, bool) {
	if liq == vap {
		return 0, false
	}
	if liq > vap {
		// densities decrease from liquid to vapour
		if v >= vap && v <= liq {
			return (1/v - 1/liq) / (1/vap - 1/liq), true
		}
		return 0, false
	}
	if v >= liq && v <= vap {
		return (v - liq) / (vap - liq), true
	}
	return 0, false
}

func checkQuality(q float64) error {
	if q < 0 || q > 1 {
		return fmt.Errorf("quality %g must be between 0 and 1", q)
	}
	return nil
}
