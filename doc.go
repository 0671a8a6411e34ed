// Package thermostate provides a library for managing constrained
// thermodynamic states; A state is a set of property values pinned by the
// caller, validated against a property oracle so that it never becomes over- or
// under-determined in a way that would make a calculation ambiguous.
//
// Specifically, every state kind requires a fixed number of independent
// properties (see Kind.RequiredPins) to be fully determined. Callers pin
// properties one at a time through State.Set; once the state is complete, every
// further write must update an already-pinned property (State.Reset) or swap one
// pinned property for another (State.Replace). Each write that would complete
// the state, or that modifies a complete state, is checked against the Oracle
// before it is committed. Rejected writes leave the state unchanged.
//
// Properties that are not pinned are derived on demand from the Oracle and
// cached until the next successful mutation, as tracked by the state's version.
//
// Two kinds are predefined: HumidAir (three independent properties) and Fluid
// (two independent properties plus a substance name). The psychro and fluids
// packages provide oracles for them.
package thermostate
