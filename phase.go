package thermostate

// Phase is the thermodynamic phase of a complete state.
type Phase string

const (
	PhaseUnknown       Phase = "unknown"
	PhaseLiquid        Phase = "liquid"
	PhaseVapor         Phase = "vapor"
	PhaseTwoPhase      Phase = "two_phase"
	PhaseSupercritical Phase = "supercritical"
)

// PhaseProbe names the oracle codes a Kind uses to classify the phase of its
// states. Critical-point codes need not be properties of the kind.
type PhaseProbe struct {
	Temperature         string
	Pressure            string
	Quality             string
	CriticalTemperature string
	CriticalPressure    string
}

// Phase classifies a complete state as liquid, vapour, two-phase or
// supercritical. It returns PhaseUnknown for incomplete states, for kinds
// without a PhaseProbe, and whenever the Oracle cannot answer one of the
// probes.
func (s *State) Phase() Phase {
	probe := s.kind.Phases
	if probe == nil || !s.Complete() {
		return PhaseUnknown
	}

	vs, err := s.probe(probe.Temperature, probe.Pressure, probe.Quality, probe.CriticalTemperature, probe.CriticalPressure)
	if err != nil {
		return PhaseUnknown
	}
	t, p, q, tc, pc := vs[0], vs[1], vs[2], vs[3], vs[4]

	switch {
	case t > tc && p > pc:
		return PhaseSupercritical
	case q >= 0 && q <= 1:
		return PhaseTwoPhase
	case t >= tc:
		return PhaseVapor
	case p >= pc:
		return PhaseLiquid
	}

	// below the critical point, compare against the saturation temperature at
	// the state's pressure
	inputs := []Input{{Code: probe.Pressure, Value: p}, {Code: probe.Quality, Value: 0}}
	sortInputs(inputs)
	tsat, err := s.evaluate(probe.Temperature, inputs)
	if err != nil {
		return PhaseUnknown
	}
	if t < tsat {
		return PhaseLiquid
	}
	return PhaseVapor
}

// probe returns the values of the given codes for the current complete state,
// through the cache. Codes need not be defined by the kind.
func (s *State) probe(codes ...string) ([]float64, error) {
	vs := make([]float64, len(codes))
	for i, code := range codes {
		if base, ok := s.kind.byCode(code); ok {
			if v, pinned := s.pins.pins[base]; pinned {
				vs[i] = v
				continue
			}
		}
		v, err := s.derive(code)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}
