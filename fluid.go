package thermostate

// Fluid is the kind of pure-substance states. A fluid state is fully determined
// by two properties once its substance (the auxiliary identifier) is known.
//
// Oracle codes: T (temperature), P (pressure), D (density), H (enthalpy), S
// (entropy), Q (vapour quality), C (cp) and O (cv). Oracles backing Fluid
// states should also answer Tcrit and pcrit, the critical point of the
// substance, to classify phases.
var Fluid = newFluidKind()

func newFluidKind() *Kind {
	k := NewKind("fluid", 2, true, map[Property]Descriptor{
		TempK:    {Code: "T", Pinnable: true, Check: checkTemperature(2000)},
		TempC:    celsiusOf(TempK),
		Press:    {Code: "P", Pinnable: true, Check: checkPressure(0, 1e9)},
		Density:  {Code: "D", Pinnable: true, Check: checkPositive(1e5)},
		Vol:      reciprocalOf(Density),
		Quality:  {Code: "Q", Pinnable: true, Check: checkFraction},
		Enthalpy: {Code: "H"},
		Entropy:  {Code: "S"},
		Cp:       {Code: "C"},
		Cv:       {Code: "O"},
	})
	k.Phases = &PhaseProbe{
		Temperature:         "T",
		Pressure:            "P",
		Quality:             "Q",
		CriticalTemperature: "Tcrit",
		CriticalPressure:    "pcrit",
	}
	return k
}

// NewFluid returns an empty fluid state backed by the given Oracle. Its
// substance must be set, with WithSubstance or SetSubstance, before any property
// can be pinned.
func NewFluid(oracle Oracle, opts ...Option) (*State, error) {
	return New(Fluid, oracle, opts...)
}

// SetSubstance sets the substance of a fluid state. It is equivalent to
// SetAuxiliary.
func (s *State) SetSubstance(name string) error {
	return s.SetAuxiliary(name)
}

// Substance returns the substance of a fluid state, or the empty string if it
// is not set.
func (s *State) Substance() string {
	return s.auxiliary
}
