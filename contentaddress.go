package thermostate

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"sort"
)

// StateHash is a consistent hash (i.e., content address) over the observable
// content of a state: its kind, its auxiliary identifier and its pinned
// properties with their values. Two states with the same StateHash pin the same
// properties to the same values, and therefore derive the same values for every
// other property.
//
// A StateHash is independent of a state's identity and history: metadata such
// as the state's ID, version and notification timestamps are not hashed. Setting
// a property to the value it already holds keeps the hash.
type StateHash contentAddress

func (h StateHash) MarshalText() ([]byte, error)     { return contentAddress(h).MarshalText() }
func (h *StateHash) UnmarshalText(text []byte) error { return (*contentAddress)(h).UnmarshalText(text) }
func (h StateHash) String() string                   { return "state(" + contentAddress(h).String() + ")" }
func (h StateHash) IsZero() bool                     { return contentAddress(h).IsZero() }

// HashPins digests the content of a state into a StateHash.
//
// Pins are hashed in lexicographic order of their names, so the hash does not
// depend on the order in which they were set. Values are hashed by their IEEE
// 754 bits (big-endian), hence 0 and -0 hash differently.
func HashPins(kind, auxiliary string, pins map[Property]float64) StateHash {
	names := make([]Property, 0, len(pins))
	for p := range pins {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	h := sha1.New()
	// a zero byte terminates every string so that ("ab", "c") and ("a", "bc")
	// never collide
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(auxiliary))
	h.Write([]byte{0})
	var buf [8]byte
	for _, p := range names {
		h.Write([]byte(p))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(pins[p]))
		h.Write(buf[:])
	}
	return StateHash(h.Sum(nil))
}

// Hash returns the content address of the state.
func (s *State) Hash() StateHash { return s.hash() }

func (s *State) hash() StateHash {
	return HashPins(s.kind.Name, s.auxiliary, s.pins.pins)
}

// contentAddress is a consistent hash primitive serving as the base for strongly
// typed hashes, like StateHash.
type contentAddress [sha1.Size]byte

func (h contentAddress) MarshalText() ([]byte, error) {
	text := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(text, h[:]) // always returns hex.EncodedLen(len(h)) (see hex.Encode)
	return text, nil
}

func (h *contentAddress) UnmarshalText(text []byte) error {
	n, err := hex.Decode(h[:], text)
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	if n != len(h) { // always n <= len(h[:]) (see hex.Decode)
		return fmt.Errorf("not enough bytes: %w", io.ErrUnexpectedEOF)
	}
	return nil
}

func (h contentAddress) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero value of the type.
func (h contentAddress) IsZero() bool {
	return h == contentAddress{}
}
