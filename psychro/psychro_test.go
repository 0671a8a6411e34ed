package psychro

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-thermo/thermostate"
)

func TestSatPressure(t *testing.T) {
	// reference values from the ASHRAE Handbook of Fundamentals, table 3
	tests := []struct {
		name string
		t    float64
		want float64
		tol  float64
	}{
		{"ice/-20C", 253.15, 103.26, 0.1},
		{"ice/-10C", 263.15, 259.90, 0.2},
		{"liquid/0C", 273.15, 611.21, 0.5},
		{"liquid/20C", 293.15, 2339.3, 1},
		{"liquid/50C", 323.15, 12352, 10},
		{"liquid/100C", 373.15, 101418, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SatPressure(tt.t); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("SatPressure(%g) = %g, want %g±%g", tt.t, got, tt.want, tt.tol)
			}
		})
	}
}

func TestSolve(t *testing.T) {
	// 20 °C, 50 % relative humidity at standard pressure
	want := Air{T: 293.15, P: 101325, W: 0.00726}
	opt := cmpopts.EquateApprox(1e-3, 5e-5)

	tests := []struct {
		name   string
		inputs []thermostate.Input
	}{
		{"T,R", []thermostate.Input{{Code: "P", Value: 101325}, {Code: "R", Value: 0.5}, {Code: "T", Value: 293.15}}},
		{"T,W", []thermostate.Input{{Code: "P", Value: 101325}, {Code: "T", Value: 293.15}, {Code: "W", Value: 0.00726}}},
		{"W,R", []thermostate.Input{{Code: "P", Value: 101325}, {Code: "R", Value: 0.5}, {Code: "W", Value: 0.00726}}},
		{"H,R", []thermostate.Input{{Code: "H", Value: 38552}, {Code: "P", Value: 101325}, {Code: "R", Value: 0.5}}},
		{"D,R", []thermostate.Input{{Code: "D", Value: 282.41}, {Code: "P", Value: 101325}, {Code: "R", Value: 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Solve(tt.inputs)
			if err != nil {
				t.Fatal("Solve:", err)
			}
			if diff := cmp.Diff(want, got, opt); diff != "" {
				t.Errorf("Solve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAir_Property(t *testing.T) {
	a, err := Solve([]thermostate.Input{{Code: "P", Value: 101325}, {Code: "R", Value: 0.5}, {Code: "T", Value: 293.15}})
	if err != nil {
		t.Fatal("Solve:", err)
	}

	tests := []struct {
		code string
		want float64
		tol  float64
	}{
		{"R", 0.5, 1e-9},
		{"H", 38.55e3, 100},
		{"B", 286.85, 0.3},
		{"D", 282.41, 0.2},
		{"V", 0.8402, 1e-3},
		{"C", 1019.5, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := a.Property(tt.code)
			if err != nil {
				t.Fatalf("Property(%q): %v", tt.code, err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Property(%q) = %g, want %g±%g", tt.code, got, tt.want, tt.tol)
			}
		})
	}

	// the wet bulb lies between the dew point and the dry bulb
	b, _ := a.Property("B")
	d, _ := a.Property("D")
	if !(d < b && b < a.T) {
		t.Errorf("want dew point < wet bulb < dry bulb, got %g, %g, %g", d, b, a.T)
	}

	if _, err := a.Property("Z"); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("Property(Z) returned %v, want %v", err, ErrUnknownCode)
	}
}

// Solving from the wet bulb of a state must recover that state.
func TestSolve_wetBulbRoundTrip(t *testing.T) {
	for _, tc := range []float64{263.15, 283.15, 303.15} {
		a := Air{T: tc, P: 101325, W: SatHumidityRatio(tc, 101325) / 3}
		b, err := a.Property("B")
		if err != nil {
			t.Fatalf("wet bulb at %g K: %v", tc, err)
		}
		got, err := Solve([]thermostate.Input{{Code: "B", Value: b}, {Code: "P", Value: 101325}, {Code: "T", Value: tc}})
		if err != nil {
			t.Fatalf("Solve(B=%g, T=%g): %v", b, tc, err)
		}
		if diff := cmp.Diff(a, got, cmpopts.EquateApprox(1e-6, 0)); diff != "" {
			t.Errorf("Solve() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSolve_invalid(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []thermostate.Input
		wantErr error // if nil, any error will do
	}{
		{
			name:    "supersaturated",
			inputs:  []thermostate.Input{{Code: "P", Value: 101325}, {Code: "T", Value: 293.15}, {Code: "W", Value: 0.05}},
			wantErr: ErrUnphysical,
		},
		{
			name:    "negative-humidity",
			inputs:  []thermostate.Input{{Code: "H", Value: 0}, {Code: "P", Value: 101325}, {Code: "T", Value: 303.15}},
			wantErr: ErrUnphysical,
		},
		{
			name:   "no-pressure",
			inputs: []thermostate.Input{{Code: "R", Value: 0.5}, {Code: "T", Value: 293.15}, {Code: "W", Value: 0.007}},
		},
		{
			name:   "dependent",
			inputs: []thermostate.Input{{Code: "D", Value: 282}, {Code: "P", Value: 101325}, {Code: "W", Value: 0.007}},
		},
		{
			name:   "too-few",
			inputs: []thermostate.Input{{Code: "P", Value: 101325}, {Code: "T", Value: 293.15}},
		},
		{
			name:    "unknown",
			inputs:  []thermostate.Input{{Code: "P", Value: 101325}, {Code: "T", Value: 293.15}, {Code: "X", Value: 1}},
			wantErr: ErrUnknownCode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Solve(tt.inputs)
			if err == nil {
				t.Fatalf("Solve() = %+v, want error", a)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Solve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
