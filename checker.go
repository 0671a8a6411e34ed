package thermostate

// checkCandidate decides whether pinning candidate, given the resulting set of
// pins (trial, which already includes the candidate's value), keeps the state
// legal.
//
// A trial set smaller than the kind's RequiredPins is underdetermined, so
// nothing in it can be inconsistent yet and it is accepted without consulting
// the Oracle. Otherwise, the Oracle is asked to resolve one of the other pinned
// properties from the full trial set; choosing the one with the
// lexicographically first oracle code keeps the outcome independent of
// insertion order. Success accepts the candidate. Failure is reported as a
// PhysicallyInvalidStateError naming the candidate and every property that was
// validated together with it.
func (s *State) checkCandidate(trial map[Property]float64, candidate Property) error {
	if len(trial) < s.kind.RequiredPins {
		return nil
	}

	var probe Property
	for p := range trial {
		if p == candidate {
			continue
		}
		if probe == "" || s.kind.code(p) < s.kind.code(probe) {
			probe = p
		}
	}
	if probe == "" {
		// A kind with a single required pin has nothing to resolve against, so
		// the candidate is probed on its own.
		probe = candidate
	}

	_, err := s.evaluate(s.kind.code(probe), s.inputsOf(trial))
	if err != nil {
		invalid, ok := err.(*PhysicallyInvalidStateError)
		if !ok {
			return err
		}
		invalid.Property = candidate
		invalid.Validated = sortedProperties(trial)
		return invalid
	}
	return nil
}
