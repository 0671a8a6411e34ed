package thermostate

import (
	"fmt"
	"math"
	"testing"
)

func TestHashPins(t *testing.T) {
	tests := []struct {
		Name        string
		Left, Right func() StateHash
		Equals      bool
	}{
		{
			Name:   "pins=same,order=different",
			Left:   func() StateHash { return HashPins("fluid", "water", map[Property]float64{TempK: 300, Press: 1e5}) },
			Right:  func() StateHash { return HashPins("fluid", "water", map[Property]float64{Press: 1e5, TempK: 300}) },
			Equals: true,
		},
		{
			Name:   "pins=same,values=different",
			Left:   func() StateHash { return HashPins("fluid", "water", map[Property]float64{TempK: 300}) },
			Right:  func() StateHash { return HashPins("fluid", "water", map[Property]float64{TempK: 301}) },
			Equals: false,
		},
		{
			Name:   "pins=different,values=same",
			Left:   func() StateHash { return HashPins("fluid", "water", map[Property]float64{TempK: 300}) },
			Right:  func() StateHash { return HashPins("fluid", "water", map[Property]float64{Press: 300}) },
			Equals: false,
		},
		{
			Name:   "auxiliary=different",
			Left:   func() StateHash { return HashPins("fluid", "water", map[Property]float64{TempK: 300}) },
			Right:  func() StateHash { return HashPins("fluid", "air", map[Property]float64{TempK: 300}) },
			Equals: false,
		},
		{
			Name:   "kind=different",
			Left:   func() StateHash { return HashPins("fluid", "", nil) },
			Right:  func() StateHash { return HashPins("humid-air", "", nil) },
			Equals: false,
		},
		{
			// string boundaries are delimited, so shifting characters between
			// the kind and the auxiliary identifier changes the hash
			Name:   "boundaries",
			Left:   func() StateHash { return HashPins("ab", "c", nil) },
			Right:  func() StateHash { return HashPins("a", "bc", nil) },
			Equals: false,
		},
		{
			Name:   "signed-zero",
			Left:   func() StateHash { return HashPins("fluid", "water", map[Property]float64{Quality: 0}) },
			Right:  func() StateHash { return HashPins("fluid", "water", map[Property]float64{Quality: math.Copysign(0, -1)}) },
			Equals: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			l, r := tt.Left(), tt.Right()
			if (l == r) != tt.Equals {
				t.Errorf("%v == %v = %v, want %v", l, r, l == r, tt.Equals)
			}
			if l.IsZero() || r.IsZero() {
				t.Error("HashPins returned the zero hash")
			}
		})
	}
}

func TestStateHash_text(t *testing.T) {
	want := HashPins("fluid", "water", map[Property]float64{TempK: 300, Press: 1e5})

	text, err := want.MarshalText()
	if err != nil {
		t.Fatal("MarshalText:", err)
	}
	if len(text) != 40 {
		t.Errorf("MarshalText() returned %d bytes, want 40", len(text))
	}

	var got StateHash
	if err := got.UnmarshalText(text); err != nil {
		t.Fatal("UnmarshalText:", err)
	}
	if got != want {
		t.Errorf("UnmarshalText(MarshalText(h)) = %v, want %v", got, want)
	}

	if s := want.String(); s != fmt.Sprintf("state(%s)", text) {
		t.Errorf("String() = %q", s)
	}

	if err := got.UnmarshalText(text[:10]); err == nil {
		t.Error("UnmarshalText accepted a truncated hash")
	}
	if err := got.UnmarshalText([]byte("not a hexadecimal hash, not at all, nope")); err == nil {
		t.Error("UnmarshalText accepted non-hexadecimal text")
	}
}

func BenchmarkHashPins(b *testing.B) {
	pins := map[Property]float64{TempK: 293.15, Press: 101325, RelHum: 0.5}
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			HashPins("humid-air", "", pins)
		}
	})
}
