package thermostate

import (
	"maps"
	"sort"
)

// ConstraintSet records which properties are pinned, with what values, and how
// many successful mutations it has undergone.
//
// It holds no validation logic of its own: callers must have validated a pin
// before adding it. Only base properties (never views) are recorded.
//
// The zero value is an empty set at version 0, ready to use.
type ConstraintSet struct {
	pins    map[Property]float64
	version uint64
}

// PinCount returns the number of pinned properties.
func (c *ConstraintSet) PinCount() int { return len(c.pins) }

// IsPinned reports whether p is pinned.
func (c *ConstraintSet) IsPinned(p Property) bool {
	_, ok := c.pins[p]
	return ok
}

// ValueOf returns the raw value pinned for p. It fails with a NotPinnedError if
// p is not pinned.
func (c *ConstraintSet) ValueOf(p Property) (float64, error) {
	v, ok := c.pins[p]
	if !ok {
		return 0, &NotPinnedError{Property: p}
	}
	return v, nil
}

// Version returns the number of successful mutations of the set.
func (c *ConstraintSet) Version() uint64 { return c.version }

// Names returns the pinned properties in lexicographic order.
func (c *ConstraintSet) Names() []Property {
	return sortedProperties(c.pins)
}

// Values returns a copy of the pinned values.
func (c *ConstraintSet) Values() map[Property]float64 {
	return maps.Clone(c.pins)
}

// addOrReplace pins p to v unconditionally and bumps the version.
func (c *ConstraintSet) addOrReplace(p Property, v float64) {
	if c.pins == nil {
		c.pins = make(map[Property]float64)
	}
	c.pins[p] = v
	c.version++
}

// remove unpins p without bumping the version; the caller is expected to follow
// up with addOrReplace as part of the same mutation.
func (c *ConstraintSet) remove(p Property) {
	delete(c.pins, p)
}

// touch bumps the version for mutations that do not change any pin, such as
// changing the auxiliary identifier of a pinned state.
func (c *ConstraintSet) touch() {
	c.version++
}

// trial returns a copy of the pinned values with p pinned to v, and without the
// properties listed in drop.
func (c *ConstraintSet) trial(p Property, v float64, drop ...Property) map[Property]float64 {
	t := make(map[Property]float64, len(c.pins)+1)
	maps.Copy(t, c.pins)
	for _, d := range drop {
		delete(t, d)
	}
	t[p] = v
	return t
}

func sortedProperties[V any](m map[Property]V) []Property {
	names := make([]Property, 0, len(m))
	for p := range m {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
