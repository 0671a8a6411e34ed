package recipe_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-thermo/thermostate"
	"github.com/go-thermo/thermostate/fluids"
	"github.com/go-thermo/thermostate/psychro"
	"github.com/go-thermo/thermostate/recipe"
)

func TestReplay(t *testing.T) {
	var r recipe.Recorder
	r.SetAuxiliary("water")
	r.Set(thermostate.TempK, 373.15)
	r.Set(thermostate.Press, 101325)
	r.ResetProperty(thermostate.TempK, 400)

	data, err := recipe.Encode(r.Steps())
	if err != nil {
		t.Fatal("Encode:", err)
	}
	steps, err := recipe.Decode(data)
	if err != nil {
		t.Fatal("Decode:", err)
	}

	st, err := thermostate.NewFluid(fluids.Oracle{})
	if err != nil {
		t.Fatal("NewFluid:", err)
	}
	if err := recipe.Replay(steps)(st); err != nil {
		t.Fatal("Replay:", err)
	}

	c := st.Constraints()
	want := map[thermostate.Property]float64{thermostate.TempK: 400, thermostate.Press: 101325}
	if diff := cmp.Diff(want, c.Values); diff != "" {
		t.Errorf("pins mismatch (-want +got):\n%s", diff)
	}
	if c.Auxiliary != "water" {
		t.Errorf("Auxiliary = %q, want %q", c.Auxiliary, "water")
	}
	// the substance is set before any pin exists, so it does not count
	if c.Version != 3 {
		t.Errorf("Version = %d, want 3", c.Version)
	}
}

func TestReplay_stopsAtFirstFailure(t *testing.T) {
	var r recipe.Recorder
	r.Set(thermostate.Press, 101325)
	r.Set(thermostate.TempK, 293.15)
	r.Set(thermostate.RelHum, 0.5)
	r.Set(thermostate.HumRat, 0.007) // a fourth independent property
	r.Set(thermostate.Vol, 1)

	st, err := thermostate.NewHumidAir(psychro.Oracle{})
	if err != nil {
		t.Fatal("NewHumidAir:", err)
	}
	err = recipe.Replay(r.Steps())(st)
	var overConstrained *thermostate.OverConstrainedError
	if !errors.As(err, &overConstrained) {
		t.Fatalf("Replay() = %v, want %T", err, overConstrained)
	}
	if overConstrained.Property != thermostate.HumRat {
		t.Errorf("OverConstrainedError.Property = %s, want %s", overConstrained.Property, thermostate.HumRat)
	}

	want := []thermostate.Property{thermostate.Press, thermostate.RelHum, thermostate.TempK}
	if diff := cmp.Diff(want, st.Constraints().Names); diff != "" {
		t.Errorf("pinned properties mismatch (-want +got):\n%s", diff)
	}
}
