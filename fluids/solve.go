package fluids

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// the lowest pressure searched for vapour states [Pa]
const minPressure = 1.0

// scanSteps is the number of intervals a search range is split into before
// bisecting the first one where the function changes sign.
const scanSteps = 200

// solveLinear finds the lowest root of f within [lo, hi].
func solveLinear(f func(float64) float64, lo, hi float64) (float64, bool) {
	return scan(f, lo, hi, func(x float64) float64 { return x })
}

// solveLog finds the lowest root of f within [lo, hi], sampling the range
// logarithmically; lo must be positive.
func solveLog(f func(float64) float64, lo, hi float64) (float64, bool) {
	return scan(f, math.Log(lo), math.Log(hi), math.Exp)
}

// scan samples f at scanSteps+1 points evenly spaced in the transformed domain
// [lo, hi], and bisects the first interval over which f changes sign. from maps
// the transformed domain back to f's.
func scan(f func(float64) float64, lo, hi float64, from func(float64) float64) (float64, bool) {
	if !(hi > lo) {
		return 0, false
	}
	g := func(y float64) float64 { return f(from(y)) }
	step := (hi - lo) / scanSteps
	prevY, prev := lo, g(lo)
	for i := 1; i <= scanSteps; i++ {
		y := lo + float64(i)*step
		if i == scanSteps {
			y = hi
		}
		gy := g(y)
		if isFinite(prev) && isFinite(gy) {
			if prev == 0 {
				return from(prevY), true
			}
			if prev*gy <= 0 {
				root, ok := bisect(g, prevY, y)
				return from(root), ok
			}
		}
		prevY, prev = y, gy
	}
	return 0, false
}

// bisect finds a root of f within [lo, hi], where f must change sign.
func bisect(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if flo*fhi > 0 {
		return 0, false
	}
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if mid == lo || mid == hi {
			break
		}
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

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// other returns the input besides the one named code.
func other(in map[string]float64, code string) (string, float64) {
	for c, v := range in {
		if c != code {
			return c, v
		}
	}
	return "", math.NaN()
}

// inputPair formats the codes of the inputs, e.g. "D, H".
func inputPair(in map[string]float64) string {
	codes := make([]string, 0, len(in))
	for c := range in {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}

func checkPositive(code string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be positive and finite, got %g", code, v)
	}
	return nil
}
