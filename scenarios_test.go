package thermostate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-thermo/thermostate"
	"github.com/go-thermo/thermostate/fluids"
	"github.com/go-thermo/thermostate/psychro"
	"github.com/go-thermo/thermostate/statetest"
)

func TestHumidAir_conformance(t *testing.T) {
	statetest.Run(t, statetest.Fixture{
		New: func(opts ...thermostate.Option) (*thermostate.State, error) {
			return thermostate.NewHumidAir(psychro.Oracle{}, opts...)
		},
		Pins:    []statetest.Pin{{Property: thermostate.Press, Value: 101325}, {Property: thermostate.TempK, Value: 293.15}, {Property: thermostate.RelHum, Value: 0.5}},
		Derived: thermostate.HumRat,
		Update:  statetest.Pin{Property: thermostate.TempK, Value: 298.15},
		Invalid: statetest.Pin{Property: thermostate.TempK, Value: 473.15},
		Seed:    1,
	})
}

func TestWater_conformance(t *testing.T) {
	statetest.Run(t, statetest.Fixture{
		New: func(opts ...thermostate.Option) (*thermostate.State, error) {
			return thermostate.NewFluid(fluids.Oracle{}, append(opts, thermostate.WithSubstance("water"))...)
		},
		Pins:    []statetest.Pin{{Property: thermostate.TempK, Value: 500}, {Property: thermostate.Press, Value: 0.5e6}},
		Derived: thermostate.Density,
		Update:  statetest.Pin{Property: thermostate.TempK, Value: 550},
		Invalid: statetest.Pin{Property: thermostate.TempK, Value: 1500},
		Seed:    2,
	})
}

func TestHumidAir_scenario(t *testing.T) {
	s, err := thermostate.NewHumidAir(psychro.Oracle{}, thermostate.WithPairs("P", 101325, "T", 293.15, "R", 0.5))
	if err != nil {
		t.Fatal("NewHumidAir:", err)
	}

	w, ok, err := s.Get(thermostate.HumRat)
	if err != nil || !ok {
		t.Fatalf("Get(humrat) = (%g, %v, %v)", w, ok, err)
	}
	if math.Abs(w-0.0073) > 0.0005 {
		t.Errorf("Get(humrat) = %g, want 0.0073 ± 0.0005", w)
	}
	b, _, err := s.Get(thermostate.WetBulb)
	if err != nil {
		t.Fatal("Get(wetbulb):", err)
	}
	if b >= 293.15 {
		t.Errorf("Get(wetbulb) = %g, want below the dry-bulb temperature", b)
	}
	d, _, err := s.Get(thermostate.DewPoint)
	if err != nil {
		t.Fatal("Get(dewpoint):", err)
	}
	if d >= b {
		t.Errorf("Get(dewpoint) = %g, want below the wet-bulb temperature %g", d, b)
	}

	// the combination is rejected by the oracle, and the state is unchanged
	before := s.Constraints()
	var invalid *thermostate.PhysicallyInvalidStateError
	err = s.Replace(thermostate.RelHum, thermostate.HumRat, 0.05)
	if !errors.As(err, &invalid) {
		t.Fatalf("Replace(relhum, humrat=0.05) = %v, want %T", err, invalid)
	}
	if !errors.Is(err, psychro.ErrUnphysical) {
		t.Errorf("Replace(relhum, humrat=0.05) = %v, want it to wrap %v", err, psychro.ErrUnphysical)
	}
	if diff := cmp.Diff(before, s.Constraints()); diff != "" {
		t.Errorf("rejected replacement modified the state (-before +after):\n%s", diff)
	}
}

func TestWater_scenario(t *testing.T) {
	var calls int
	oracle := thermostate.OracleFunc(func(output string, inputs []thermostate.Input, auxiliary string) (float64, error) {
		calls++
		return fluids.Oracle{}.Evaluate(output, inputs, auxiliary)
	})
	s, err := thermostate.NewFluid(oracle, thermostate.WithSubstance("water"))
	if err != nil {
		t.Fatal("NewFluid:", err)
	}

	var rangeErr *thermostate.RangeValidationError
	if err := s.Set(thermostate.Density, -5); !errors.As(err, &rangeErr) {
		t.Errorf("Set(density, -5) = %v, want %T", err, rangeErr)
	}
	if calls != 0 {
		t.Errorf("a local range error consulted the oracle %d times", calls)
	}

	if err := s.SetPairs("T", 373.15, "P", 101325); err != nil {
		t.Fatal("SetPairs:", err)
	}
	rho, _, err := s.Get(thermostate.Density)
	if err != nil {
		t.Fatal("Get(density):", err)
	}
	if math.Abs(rho-0.6) > 0.01 {
		t.Errorf("Get(density) = %g, want ≈0.6", rho)
	}
	v, _, err := s.Get(thermostate.Vol)
	if err != nil {
		t.Fatal("Get(vol):", err)
	}
	if math.Abs(v*rho-1) > 1e-12 {
		t.Errorf("Get(vol) = %g, want 1/%g", v, rho)
	}

	var overConstrained *thermostate.OverConstrainedError
	if err := s.Set(thermostate.Quality, 0.5); !errors.As(err, &overConstrained) {
		t.Errorf("Set(quality) on a complete state = %v, want %T", err, overConstrained)
	}
	var notPinnable *thermostate.NotPinnableError
	if err := s.Set(thermostate.Enthalpy, 2.6e6); !errors.As(err, &notPinnable) {
		t.Errorf("Set(enthalpy) = %v, want %T", err, notPinnable)
	}
}

func TestWater_denseSteam(t *testing.T) {
	s, err := thermostate.NewFluid(fluids.Oracle{}, thermostate.WithSubstance("water"), thermostate.WithPairs("T", 700, "P", 30e6))
	if err != nil {
		t.Fatal("NewFluid:", err)
	}
	rho, _, err := s.Get(thermostate.Density)
	if err != nil {
		t.Fatal("Get(density):", err)
	}
	if want := 1 / 0.542946619e-2; math.Abs(rho/want-1) > 1e-6 {
		t.Errorf("Get(density) at 700 K and 30 MPa = %g, want %g", rho, want)
	}
}

func TestFluid_missingSubstance(t *testing.T) {
	s, err := thermostate.NewFluid(fluids.Oracle{})
	if err != nil {
		t.Fatal("NewFluid:", err)
	}
	var missing *thermostate.MissingAuxiliaryError
	if err := s.Set(thermostate.TempK, 300); !errors.As(err, &missing) {
		t.Errorf("Set(tempk) without a substance = %v, want %T", err, missing)
	}
	if err := s.SetSubstance("unobtainium"); !errors.Is(err, fluids.ErrUnknownSubstance) {
		t.Errorf("SetSubstance(unobtainium) = %v, want %v", err, fluids.ErrUnknownSubstance)
	}
	if _, err := thermostate.NewFluid(fluids.Oracle{}, thermostate.WithSubstance("CO2"), thermostate.WithPairs("T", 300, "P", 1e5)); err != nil {
		t.Errorf("NewFluid(CO2) = %v", err)
	}
}

func TestState_Phase(t *testing.T) {
	tests := []struct {
		name      string
		substance string
		pairs     []any
		want      thermostate.Phase
	}{
		{"liquid", "water", []any{"T", 300, "P", 1e5}, thermostate.PhaseLiquid},
		{"vapour", "water", []any{"T", 500, "P", 1e5}, thermostate.PhaseVapor},
		{"supercritical", "water", []any{"T", 700, "P", 25e6}, thermostate.PhaseSupercritical},
		{"two-phase", "water", []any{"T", 373.15, "Q", 0.5}, thermostate.PhaseTwoPhase},
		{"gas", "nitrogen", []any{"T", 300, "P", 1e5}, thermostate.PhaseVapor},
		{"incomplete", "water", []any{"T", 300}, thermostate.PhaseUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := thermostate.NewFluid(fluids.Oracle{}, thermostate.WithSubstance(tc.substance), thermostate.WithPairs(tc.pairs...))
			if err != nil {
				t.Fatal("NewFluid:", err)
			}
			if got := s.Phase(); got != tc.want {
				t.Errorf("Phase() = %v, want %v", got, tc.want)
			}
		})
	}

	air, err := thermostate.NewHumidAir(psychro.Oracle{}, thermostate.WithPairs("P", 101325, "T", 293.15, "R", 0.5))
	if err != nil {
		t.Fatal("NewHumidAir:", err)
	}
	if got := air.Phase(); got != thermostate.PhaseUnknown {
		t.Errorf("Phase() of humid air = %v, want %v", got, thermostate.PhaseUnknown)
	}
}
