package thermostate

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Property names a quantity exposed by a state kind, such as "tempk" or
// "relhum". Properties are the keys of a Kind's dispatch table.
type Property string

// The properties exposed by the predefined kinds. Not every kind defines every
// property; see HumidAir and Fluid.
const (
	TempK    Property = "tempk"    // temperature [K]
	TempC    Property = "tempc"    // temperature [°C], a view of TempK
	Press    Property = "press"    // pressure [Pa]
	Density  Property = "density"  // density [kg/m³]
	Vol      Property = "vol"      // specific volume [m³/kg]
	Enthalpy Property = "enthalpy" // specific enthalpy [J/kg]
	Entropy  Property = "entropy"  // specific entropy [J/kg-K]
	Cp       Property = "cp"       // specific heat capacity at constant pressure [J/kg-K]

	HumRat   Property = "humrat"   // humidity ratio [kg/kg dry air]
	WetBulb  Property = "wetbulb"  // wet-bulb temperature [K]
	RelHum   Property = "relhum"   // relative humidity [-]
	DewPoint Property = "dewpoint" // dew-point temperature [K]

	Quality Property = "quality" // vapour quality [-]
	Cv      Property = "cv"      // specific heat capacity at constant volume [J/kg-K]
)

// A RangeCheck reports why a value lies outside the physically plausible range
// of a property, or returns the empty string if the value is acceptable. The
// value is always expressed in the units of the property's base.
type RangeCheck func(v float64) (reason string)

// Descriptor describes a single entry of a Kind's dispatch table.
//
// A descriptor either stands for an independent quantity of its own (Base is
// empty), or is a view of another property (Base names it) related by the
// ToBase/FromBase conversions. Writing a view pins its base; reading a view
// converts the base's value.
type Descriptor struct {
	// Code is the oracle code of the quantity. Views share their base's code.
	Code string
	// Base names the property this descriptor is a view of.
	Base Property
	// ToBase and FromBase convert between the view's units and its base's.
	// Both must be set on views and nil otherwise.
	ToBase, FromBase func(float64) float64
	// Pinnable reports whether callers may pin this property.
	Pinnable bool
	// Check validates written values, if set.
	Check RangeCheck
}

// A Kind is a family of states sharing a dispatch table and the number of
// independent properties required to fully determine them.
//
// Kinds are immutable once built; the predefined kinds may be shared by any
// number of states.
type Kind struct {
	// Name identifies the kind in errors, logs and change notifications.
	Name string
	// RequiredPins is the number of independent properties of a complete state.
	RequiredPins int
	// NeedsAuxiliary reports whether states of this kind require an auxiliary
	// identifier (e.g. a substance name) before any property may be pinned.
	NeedsAuxiliary bool
	// Properties is the dispatch table of the kind.
	Properties map[Property]Descriptor
	// Phases, if set, defines how to classify the phase of complete states.
	Phases *PhaseProbe

	codes map[string]Property // oracle code to base property
}

// NewKind validates the given dispatch table and returns a Kind ready to use.
// It panics if the table is inconsistent, since kinds are defined statically.
func NewKind(name string, requiredPins int, needsAuxiliary bool, properties map[Property]Descriptor) *Kind {
	if requiredPins < 1 {
		panic("thermostate: kind " + name + " must require at least one pin")
	}
	k := &Kind{
		Name:           name,
		RequiredPins:   requiredPins,
		NeedsAuxiliary: needsAuxiliary,
		Properties:     properties,
		codes:          make(map[string]Property),
	}
	for p, d := range properties {
		if d.Base == "" {
			if d.Code == "" {
				panic("thermostate: property " + string(p) + " of kind " + name + " has no oracle code")
			}
			if _, dup := k.codes[d.Code]; dup {
				panic("thermostate: oracle code " + d.Code + " is used twice in kind " + name)
			}
			k.codes[d.Code] = p
			continue
		}
		base, ok := properties[d.Base]
		if !ok || base.Base != "" {
			panic("thermostate: view " + string(p) + " of kind " + name + " must refer to an independent property")
		}
		if d.ToBase == nil || d.FromBase == nil {
			panic("thermostate: view " + string(p) + " of kind " + name + " lacks conversions")
		}
		if d.Pinnable && !base.Pinnable {
			panic("thermostate: view " + string(p) + " of kind " + name + " is pinnable but its base is not")
		}
	}
	return k
}

// Names returns the properties of the kind in lexicographic order.
func (k *Kind) Names() []Property {
	names := make([]Property, 0, len(k.Properties))
	for p := range k.Properties {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// lookup returns the descriptor of p along with the base property that holds
// its value.
func (k *Kind) lookup(p Property) (d Descriptor, base Property, ok bool) {
	d, ok = k.Properties[p]
	if !ok {
		return Descriptor{}, "", false
	}
	if d.Base == "" {
		return d, p, true
	}
	return d, d.Base, true
}

// byCode returns the base property whose oracle code is code.
func (k *Kind) byCode(code string) (Property, bool) {
	p, ok := k.codes[code]
	return p, ok
}

// code returns the oracle code of an independent property.
func (k *Kind) code(base Property) string {
	return k.Properties[base].Code
}

// toBase converts v, written to the property described by d, into the units of
// its base.
func (d Descriptor) toBase(v float64) float64 {
	if d.ToBase == nil {
		return v
	}
	return d.ToBase(v)
}

// fromBase converts v, expressed in the units of d's base, into d's units.
func (d Descriptor) fromBase(v float64) float64 {
	if d.FromBase == nil {
		return v
	}
	return d.FromBase(v)
}

// toFloat coerces the numeric kinds callers commonly hold into a float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Range checks shared by the predefined kinds. Messages follow a common
// vocabulary so that callers can present them verbatim.

func checkTemperature(maxK float64) RangeCheck {
	return func(v float64) string {
		switch {
		case v <= 0:
			return "must be above absolute zero"
		case v > maxK:
			return "exceeding reasonable range (" + formatFloat(maxK) + " K)"
		}
		return ""
	}
}

func checkPressure(minPa, maxPa float64) RangeCheck {
	return func(v float64) string {
		switch {
		case v <= 0:
			return "must be positive"
		case v < minPa:
			return "below reasonable range (" + formatFloat(minPa) + " Pa)"
		case v > maxPa:
			return "exceeding reasonable range (" + formatFloat(maxPa) + " Pa)"
		}
		return ""
	}
}

func checkPositive(max float64) RangeCheck {
	return func(v float64) string {
		switch {
		case v <= 0:
			return "must be positive"
		case max > 0 && v > max:
			return "exceeding reasonable range (" + formatFloat(max) + ")"
		}
		return ""
	}
}

func checkRatio(max float64) RangeCheck {
	return func(v float64) string {
		switch {
		case v < 0:
			return "cannot be negative"
		case max == 1 && v > 1:
			return "cannot exceed 1"
		case v > max:
			return "exceeding reasonable range (" + formatFloat(max) + ")"
		}
		return ""
	}
}

func checkFraction(v float64) string {
	if v < 0 || v > 1 {
		return "must be between 0 and 1"
	}
	return ""
}

// checkValue applies the checks common to every property before d's own.
func checkValue(d Descriptor, base float64) string {
	if math.IsNaN(base) || math.IsInf(base, 0) {
		return "must be finite"
	}
	if d.Check == nil {
		return ""
	}
	return d.Check(base)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
