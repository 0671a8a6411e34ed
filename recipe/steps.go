package recipe

import (
	"encoding/gob"
	"iter"

	"github.com/go-thermo/thermostate"
)

// Every Step implementation is registered with gob so that recipes survive
// Encode and Decode.
func init() {
	gob.Register(set{})
	gob.Register(reset{})
	gob.Register(replace{})
	gob.Register(auxiliary{})
}

// yieldAll returns a sequence of the given properties.
func yieldAll(ps ...thermostate.Property) iter.Seq[thermostate.Property] {
	return func(yield func(thermostate.Property) bool) {
		for _, p := range ps {
			if !yield(p) {
				return
			}
		}
	}
}

// A set is a Step that pins a property.
type set struct {
	Property thermostate.Property
	Value    float64
}

func (s set) Do(w thermostate.Writer) error {
	return w.Set(s.Property, s.Value)
}

func (s set) Properties() iter.Seq[thermostate.Property] {
	return yieldAll(s.Property)
}

// A reset is a Step that updates a pinned property.
type reset struct {
	Property thermostate.Property
	Value    float64
}

func (s reset) Do(w thermostate.Writer) error {
	return w.Reset(s.Property, s.Value)
}

func (s reset) Properties() iter.Seq[thermostate.Property] {
	return yieldAll(s.Property)
}

// A replace is a Step that swaps one pinned property for another.
type replace struct {
	Old, Replacement thermostate.Property
	Value            float64
}

func (s replace) Do(w thermostate.Writer) error {
	return w.Replace(s.Old, s.Replacement, s.Value)
}

func (s replace) Properties() iter.Seq[thermostate.Property] {
	return yieldAll(s.Old, s.Replacement)
}

// An auxiliary is a Step that sets the auxiliary identifier of a state. It
// writes no property.
type auxiliary struct {
	Name string
}

func (s auxiliary) Do(w thermostate.Writer) error {
	return w.SetAuxiliary(s.Name)
}

func (s auxiliary) Properties() iter.Seq[thermostate.Property] {
	return yieldAll()
}
