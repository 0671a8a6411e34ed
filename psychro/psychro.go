// Package psychro computes the properties of moist air, following the
// psychrometric relations of the ASHRAE Handbook of Fundamentals (SI units).
//
// Temperatures are in Kelvin, pressures in Pascal, humidity ratios in kilograms
// of water vapour per kilogram of dry air, and specific quantities are per
// kilogram of dry air.
package psychro

import (
	"errors"
	"fmt"
	"math"
)

const (
	// ratio of the molecular masses of water vapour and dry air
	epsilon = 0.621945
	// gas constant of dry air [J/kg-K]
	rDryAir = 287.042
	// gas constant of water vapour [J/kg-K]
	rVapour = 461.52
	// specific heats of dry air and water vapour [J/kg-K]
	cpDryAir = 1006.0
	cpVapour = 1860.0
	// latent heat of vaporisation of water at 0 °C [J/kg]
	latentHeat = 2501000.0
	// triple point of water
	triplePointT = 273.16
	triplePointP = 611.657

	zeroCelsius = 273.15
	refPressure = 101325.0
)

// The temperature domain over which the relations are solved [K].
const (
	MinTemperature = 173.15
	MaxTemperature = 473.15
)

var (
	// ErrNoSolution is returned (wrapped) when no moist-air state satisfies the
	// given inputs.
	ErrNoSolution = errors.New("no solution")
	// ErrUnphysical is returned (wrapped) when the inputs describe a state that
	// cannot exist, such as supersaturated air.
	ErrUnphysical = errors.New("unphysical state")
)

// Hyland-Wexler coefficients of the saturation pressure over ice (C1-C7) and over
// liquid water (C8-C13).
const (
	c1  = -5.6745359e3
	c2  = 6.3925247
	c3  = -9.6778430e-3
	c4  = 6.2215701e-7
	c5  = 2.0747825e-9
	c6  = -9.4840240e-13
	c7  = 4.1635019
	c8  = -5.8002206e3
	c9  = 1.3914993
	c10 = -4.8640239e-2
	c11 = 4.1764768e-5
	c12 = -1.4452093e-8
	c13 = 6.5459673
)

// SatPressure returns the saturation pressure of water vapour at temperature t,
// over ice below the triple point and over liquid water above it.
func SatPressure(t float64) float64 {
	if t < triplePointT {
		return math.Exp(c1/t + c2 + c3*t + c4*t*t + c5*t*t*t + c6*t*t*t*t + c7*math.Log(t))
	}
	return math.Exp(c8/t + c9 + c10*t + c11*t*t + c12*t*t*t + c13*math.Log(t))
}

// HumidityRatio returns the humidity ratio of air at pressure p whose water
// vapour has partial pressure pw.
func HumidityRatio(pw, p float64) float64 {
	return epsilon * pw / (p - pw)
}

// VapourPressure returns the partial pressure of water vapour in air at
// pressure p with humidity ratio w.
func VapourPressure(w, p float64) float64 {
	return p * w / (epsilon + w)
}

// SatHumidityRatio returns the humidity ratio of saturated air at temperature t
// and pressure p.
func SatHumidityRatio(t, p float64) float64 {
	return HumidityRatio(SatPressure(t), p)
}

// RelativeHumidity returns the relative humidity of air at temperature t and
// pressure p with humidity ratio w.
func RelativeHumidity(t, p, w float64) float64 {
	return VapourPressure(w, p) / SatPressure(t)
}

// Enthalpy returns the specific enthalpy of moist air [J/kg dry air], relative
// to dry air and liquid water at 0 °C.
func Enthalpy(t, w float64) float64 {
	c := t - zeroCelsius
	return cpDryAir*c + w*(latentHeat+cpVapour*c)
}

// SpecificVolume returns the specific volume of moist air [m³/kg dry air].
func SpecificVolume(t, p, w float64) float64 {
	return rDryAir * t * (1 + w/epsilon) / p
}

// HeatCapacity returns the specific heat capacity of moist air at constant
// pressure [J/kg dry air-K].
func HeatCapacity(w float64) float64 {
	return cpDryAir + cpVapour*w
}

// Entropy returns the specific entropy of moist air [J/kg dry air-K], treating
// it as an ideal mixture of dry air (referenced to 0 °C and 101325 Pa) and water
// vapour (referenced to saturated liquid at the triple point).
func Entropy(t, p, w float64) float64 {
	pw := VapourPressure(w, p)
	pa := p - pw
	s := cpDryAir*math.Log(t/zeroCelsius) - rDryAir*math.Log(pa/refPressure)
	if w > 0 {
		sw := cpVapour*math.Log(t/triplePointT) - rVapour*math.Log(pw/triplePointP) + latentHeat/triplePointT
		s += w * sw
	}
	return s
}

// WetBulbHumidityRatio returns the humidity ratio of air at dry-bulb temperature
// t and pressure p whose thermodynamic wet-bulb temperature is tw.
func WetBulbHumidityRatio(t, tw, p float64) float64 {
	ws := SatHumidityRatio(tw, p)
	dry, wet := t-zeroCelsius, tw-zeroCelsius
	if wet >= 0 {
		return ((2501-2.326*wet)*ws - 1.006*(dry-wet)) / (2501 + 1.86*dry - 4.186*wet)
	}
	return ((2830-0.24*wet)*ws - 1.006*(dry-wet)) / (2830 + 1.86*dry - 2.1*wet)
}

// WetBulb returns the thermodynamic wet-bulb temperature of air at dry-bulb
// temperature t and pressure p with humidity ratio w.
func WetBulb(t, p, w float64) (float64, error) {
	f := func(tw float64) float64 { return WetBulbHumidityRatio(t, tw, p) - w }
	tw, ok := bisect(f, MinTemperature, t)
	if !ok {
		return 0, fmt.Errorf("wet-bulb temperature: %w", ErrNoSolution)
	}
	return tw, nil
}

// DewPoint returns the dew-point temperature of air at pressure p with humidity
// ratio w.
func DewPoint(p, w float64) (float64, error) {
	if w <= 0 {
		return 0, fmt.Errorf("dew point of dry air: %w", ErrNoSolution)
	}
	pw := VapourPressure(w, p)
	f := func(t float64) float64 { return SatPressure(t) - pw }
	td, ok := bisect(f, MinTemperature, MaxTemperature)
	if !ok {
		return 0, fmt.Errorf("dew point for vapour pressure %g Pa: %w", pw, ErrNoSolution)
	}
	return td, nil
}

// bisect finds a root of f within [lo, hi], where f must change sign.
func bisect(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, false
	}
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}
	for i := 0; i < 100 && hi-lo > 1e-10; i++ {
		mid := (lo + hi) / 2
		fmid := f(mid)
		if fmid == 0 {
			return mid, true
		}
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// scan finds the lowest root of f within [lo, hi] by stepping through the
// interval until f changes sign, then bisecting. Points where f is not finite
// are skipped.
func scan(f func(float64) float64, lo, hi, step float64) (float64, bool) {
	prevX, prev := lo, f(lo)
	for x := lo + step; x <= hi+step/2; x += step {
		x := math.Min(x, hi)
		fx := f(x)
		if isFinite(prev) && isFinite(fx) {
			if prev == 0 {
				return prevX, true
			}
			if prev*fx <= 0 {
				return bisect(f, prevX, x)
			}
		}
		prevX, prev = x, fx
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
