package thermostate

import (
	"fmt"
	"strings"
)

// Constraints is a snapshot of the pins of a state. Modifying it does not
// affect the state.
type Constraints struct {
	// Names lists the pinned properties in lexicographic order.
	Names []Property
	// Values maps each pinned property to its raw value, in the units of the
	// property.
	Values    map[Property]float64
	Auxiliary string
	Complete  bool
	Version   uint64
	Hash      StateHash
}

// Constraints returns a snapshot of the pins of the state.
func (s *State) Constraints() Constraints {
	return Constraints{
		Names:     s.pins.Names(),
		Values:    s.pins.Values(),
		Auxiliary: s.auxiliary,
		Complete:  s.Complete(),
		Version:   s.pins.Version(),
		Hash:      s.hash(),
	}
}

// String returns a compact, human-readable form of the state, e.g.
// "fluid[water](press=101325, tempk=373.15)".
func (s *State) String() string {
	var b strings.Builder
	b.WriteString(s.kind.Name)
	if s.hasAux {
		fmt.Fprintf(&b, "[%s]", s.auxiliary)
	}
	b.WriteByte('(')
	for i, p := range s.pins.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%g", p, s.pins.pins[p])
	}
	b.WriteByte(')')
	return b.String()
}
