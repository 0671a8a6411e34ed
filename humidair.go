package thermostate

// HumidAir is the kind of moist-air states. A humid-air state is fully
// determined by three properties, one of which is usually the pressure; it takes
// no auxiliary identifier.
//
// Oracle codes: T (dry-bulb temperature), P (pressure), W (humidity ratio), R
// (relative humidity), B (wet-bulb temperature), D (dew-point temperature), H
// (enthalpy), S (entropy), V (specific volume) and C (heat capacity).
var HumidAir = NewKind("humid-air", 3, false, map[Property]Descriptor{
	TempK:    {Code: "T", Pinnable: true, Check: checkTemperature(473.15)},
	TempC:    celsiusOf(TempK),
	Press:    {Code: "P", Pinnable: true, Check: checkPressure(1e3, 1e7)},
	HumRat:   {Code: "W", Pinnable: true, Check: checkRatio(1)},
	RelHum:   {Code: "R", Pinnable: true, Check: checkFraction},
	WetBulb:  {Code: "B", Pinnable: true, Check: checkTemperature(473.15)},
	DewPoint: {Code: "D", Pinnable: true, Check: checkTemperature(473.15)},
	Enthalpy: {Code: "H", Pinnable: true},
	Vol:      {Code: "V", Pinnable: true, Check: checkPositive(0)},
	Density:  reciprocalOf(Vol),
	Entropy:  {Code: "S"},
	Cp:       {Code: "C"},
})

// NewHumidAir returns an empty humid-air state backed by the given Oracle.
func NewHumidAir(oracle Oracle, opts ...Option) (*State, error) {
	return New(HumidAir, oracle, opts...)
}

// celsiusOf returns a pinnable view of a Kelvin temperature in degrees Celsius.
func celsiusOf(kelvin Property) Descriptor {
	return Descriptor{
		Base:     kelvin,
		ToBase:   func(c float64) float64 { return c + 273.15 },
		FromBase: func(k float64) float64 { return k - 273.15 },
		Pinnable: true,
	}
}

// reciprocalOf returns a view of the reciprocal of p. Reciprocal views are
// always derived.
func reciprocalOf(p Property) Descriptor {
	inverse := func(v float64) float64 { return 1 / v }
	return Descriptor{Base: p, ToBase: inverse, FromBase: inverse}
}
