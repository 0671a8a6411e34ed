package thermostate_test

import (
	"fmt"

	"github.com/go-thermo/thermostate"
	"github.com/go-thermo/thermostate/fluids"
	"github.com/go-thermo/thermostate/psychro"
)

// We pin the three independent properties of a humid-air state and read the
// properties derived from them.
func ExampleNewHumidAir() {
	s, err := thermostate.NewHumidAir(psychro.Oracle{})
	if err != nil {
		panic(err)
	}
	// Properties are pinned one at a time; the state is validated as a whole once
	// the last of them is pinned.
	if err := s.Set(thermostate.Press, 101325); err != nil {
		panic(err)
	}
	if err := s.Set(thermostate.TempC, 20); err != nil {
		panic(err)
	}
	if err := s.Set(thermostate.RelHum, 0.5); err != nil {
		panic(err)
	}

	w, _, err := s.Get(thermostate.HumRat)
	if err != nil {
		panic(err)
	}
	d, _, err := s.Get(thermostate.DewPoint)
	if err != nil {
		panic(err)
	}
	fmt.Printf("humidity ratio: %.4f kg/kg\n", w)
	fmt.Printf("dew point: %.0f °C\n", d-273.15)

	// A fourth property would over-constrain the state.
	fmt.Println(s.Set(thermostate.WetBulb, 285))

	// Output:
	// humidity ratio: 0.0073 kg/kg
	// dew point: 9 °C
	// cannot set wetbulb - system is already fully constrained with 3 properties (press, relhum, tempk); reset or replace one of them instead
}

// We follow water from steam to liquid by resetting its temperature.
func ExampleNewFluid() {
	s, err := thermostate.NewFluid(fluids.Oracle{},
		thermostate.WithSubstance("water"),
		thermostate.WithPairs("T", 373.15, "P", 101325),
	)
	if err != nil {
		panic(err)
	}
	rho, _, err := s.Get(thermostate.Density)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v: %.2f kg/m³, %s\n", s, rho, s.Phase())

	if err := s.Reset(thermostate.TempK, 293.15); err != nil {
		panic(err)
	}
	rho, _, err = s.Get(thermostate.Density)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v: %.0f kg/m³, %s\n", s, rho, s.Phase())

	// Values outside the plausible range of a property are refused before the
	// oracle is consulted.
	fmt.Println(s.Reset(thermostate.Press, -5))

	// Output:
	// fluid[water](press=101325, tempk=373.15): 0.60 kg/m³, vapor
	// fluid[water](press=101325, tempk=293.15): 998 kg/m³, liquid
	// press = -5: must be positive
}

// We swap one pinned property for another without unpinning first, which would
// not be possible with Set and Reset alone on a complete state.
func ExampleState_Replace() {
	s, err := thermostate.NewHumidAir(psychro.Oracle{}, thermostate.WithPairs("P", 101325, "T", 293.15, "R", 0.5))
	if err != nil {
		panic(err)
	}
	if err := s.Replace(thermostate.RelHum, thermostate.DewPoint, 282.15); err != nil {
		panic(err)
	}
	rh, _, err := s.Get(thermostate.RelHum)
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Constraints().Names)
	fmt.Printf("relative humidity: %.0f%%\n", rh*100)

	// Output:
	// [dewpoint press tempk]
	// relative humidity: 49%
}
