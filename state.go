package thermostate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// State is a single thermodynamic state of some Kind: a set of pinned
// properties, validated by an Oracle, from which every other property of the
// kind is derived on demand.
//
// A State is not safe for concurrent use. Hosts that share a State between
// goroutines must serialise access to it (e.g. one lock per State).
type State struct {
	id        uuid.UUID
	kind      *Kind
	oracle    Oracle
	auxiliary string
	hasAux    bool

	pins  ConstraintSet
	cache map[string]cached // derived values by oracle code

	logger    *slog.Logger
	observers []Observer
}

// cached is a memoized oracle result, valid only while the state's version
// equals version.
type cached struct {
	value   float64
	version uint64
}

// An Option configures a State during construction.
type Option func(*options)

type options struct {
	id        uuid.UUID
	version   *uint64
	auxiliary *string
	pairs     []any
	logger    *slog.Logger
	observers []Observer
}

// WithAuxiliary pre-seeds the state's auxiliary identifier (see SetAuxiliary).
func WithAuxiliary(name string) Option {
	return func(o *options) { o.auxiliary = &name }
}

// WithSubstance is an alias of WithAuxiliary that reads better for Fluid states.
func WithSubstance(name string) Option {
	return WithAuxiliary(name)
}

// WithPairs pins properties from alternating code/value pairs as soon as the
// state is created, e.g. WithPairs("P", 101325, "T", 293.15, "R", 0.5). Codes may
// be oracle codes or property names. Each pair is applied through Set, in order;
// construction fails with the first rejected pair.
func WithPairs(pairs ...any) Option {
	return func(o *options) { o.pairs = append(o.pairs, pairs...) }
}

// WithLogger sets the logger used to report accepted and rejected writes. By
// default, a State logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers an Observer notified after every successful mutation.
func WithObserver(ob Observer) Option {
	return func(o *options) { o.observers = append(o.observers, ob) }
}

// WithID sets the identifier reported in change notifications. By default, each
// State gets a random identifier.
func WithID(id uuid.UUID) Option {
	return func(o *options) { o.id = id }
}

// WithVersion resumes the version counter at v once construction completes, so
// that the next mutation is numbered v+1. Observers registered with
// WithObserver still see the construction writes numbered from 1.
func WithVersion(v uint64) Option {
	return func(o *options) { o.version = &v }
}

// New returns an empty State of the given kind, backed by the given Oracle.
func New(kind *Kind, oracle Oracle, opts ...Option) (*State, error) {
	if kind == nil {
		return nil, errors.New("thermostate: nil kind")
	}
	if oracle == nil {
		return nil, errors.New("thermostate: nil oracle")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	s := &State{
		id:        o.id,
		kind:      kind,
		oracle:    oracle,
		cache:     make(map[string]cached),
		logger:    o.logger.With(slog.String("kind", kind.Name), slog.String("state-id", o.id.String())),
		observers: o.observers,
	}
	if o.auxiliary != nil {
		if err := s.SetAuxiliary(*o.auxiliary); err != nil {
			return nil, err
		}
	}
	if len(o.pairs) > 0 {
		if err := s.SetPairs(o.pairs...); err != nil {
			return nil, err
		}
	}
	if o.version != nil {
		s.pins.version = *o.version
		clear(s.cache)
	}
	return s, nil
}

// ID returns the identifier of the state.
func (s *State) ID() uuid.UUID { return s.id }

// Kind returns the kind of the state.
func (s *State) Kind() *Kind { return s.kind }

// Auxiliary returns the state's auxiliary identifier and whether it is set.
func (s *State) Auxiliary() (string, bool) { return s.auxiliary, s.hasAux }

// PinCount returns the number of pinned properties.
func (s *State) PinCount() int { return s.pins.PinCount() }

// Complete reports whether the state is fully determined, i.e. whether exactly
// RequiredPins properties are pinned.
func (s *State) Complete() bool { return s.pins.PinCount() == s.kind.RequiredPins }

// Version returns the number of successful mutations the state has undergone.
func (s *State) Version() uint64 { return s.pins.Version() }

// Set pins property p to value.
//
// While the state is underdetermined, the write is accepted after local
// validation only. A write that completes the state, or that updates a pinned
// property of a complete state, is validated against the Oracle together with
// the other pins. Writing a new property to a complete state fails with an
// OverConstrainedError.
//
// Writing a view (e.g. TempC) pins the underlying property (TempK). On failure,
// the state is left unchanged.
func (s *State) Set(p Property, value any) error {
	return s.rejected(slog.String("property", string(p)), s.write(p, value, OpSet))
}

// Reset updates the value of a pinned property. It behaves like Set, except that
// it fails with a NotPinnedError if p is not already pinned.
func (s *State) Reset(p Property, value any) error {
	return s.rejected(slog.String("property", string(p)), s.write(p, value, OpReset))
}

func (s *State) write(p Property, value any, op Op) error {
	d, base, err := s.pinnable(p)
	if err != nil {
		return err
	}
	v, err := s.coerce(p, d, base, value)
	if err != nil {
		return err
	}
	pinned := s.pins.IsPinned(base)
	if op == OpReset && !pinned {
		return &NotPinnedError{Property: p}
	}
	if !pinned && s.pins.PinCount() >= s.kind.RequiredPins {
		return &OverConstrainedError{Property: p, Pinned: s.pins.Names()}
	}

	if err := s.checkCandidate(s.pins.trial(base, v), base); err != nil {
		return err
	}

	before := s.hash()
	s.pins.addOrReplace(base, v)
	s.commit(op, base, "", before)
	return nil
}

// Replace swaps the pinned property old for the property replacement pinned to
// value, as a single mutation. The new combination is validated against the
// remaining pins exactly as Set would; on failure old stays pinned with its
// value and the state is left unchanged.
//
// Replace fails with a NotPinnedError if old is not pinned, and with an
// AlreadyPinnedError if replacement is pinned already. Replacing a property
// with itself (or with one of its views) updates it in place.
func (s *State) Replace(old, replacement Property, value any) error {
	return s.rejected(slog.String("property", string(replacement)), s.replace(old, replacement, value))
}

func (s *State) replace(old, replacement Property, value any) error {
	_, oldBase, ok := s.kind.lookup(old)
	if !ok {
		return &UnknownPropertyError{Kind: s.kind.Name, Name: string(old)}
	}
	d, base, err := s.pinnable(replacement)
	if err != nil {
		return err
	}
	v, err := s.coerce(replacement, d, base, value)
	if err != nil {
		return err
	}
	if !s.pins.IsPinned(oldBase) {
		return &NotPinnedError{Property: old}
	}
	if base != oldBase && s.pins.IsPinned(base) {
		return &AlreadyPinnedError{Property: replacement}
	}

	if err := s.checkCandidate(s.pins.trial(base, v, oldBase), base); err != nil {
		return err
	}

	before := s.hash()
	if base == oldBase {
		s.pins.addOrReplace(base, v)
		s.commit(OpReset, base, "", before)
		return nil
	}
	s.pins.remove(oldBase)
	s.pins.addOrReplace(base, v)
	s.commit(OpReplace, base, oldBase, before)
	return nil
}

// SetPairs pins properties from alternating code/value pairs, e.g.
// SetPairs("T", 293.15, "P", 101325). A code may be an oracle code or a property
// name, given as a string or a Property. Pairs are applied through Set in order,
// and SetPairs stops at the first rejected pair; pairs applied before it remain
// pinned.
func (s *State) SetPairs(pairs ...any) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("thermostate: odd number of code/value arguments (%d)", len(pairs))
	}
	for i := 0; i < len(pairs); i += 2 {
		var name string
		switch c := pairs[i].(type) {
		case string:
			name = c
		case Property:
			name = string(c)
		default:
			return fmt.Errorf("thermostate: pair %d: code must be a string, got %T", i/2, pairs[i])
		}
		p := Property(name)
		if base, ok := s.kind.byCode(name); ok {
			p = base
		}
		if err := s.Set(p, pairs[i+1]); err != nil {
			return fmt.Errorf("pair %d (%s): %w", i/2, name, err)
		}
	}
	return nil
}

// SetAuxiliary sets the auxiliary identifier of the state, e.g. the substance of
// a Fluid state. States whose kind needs an auxiliary identifier reject every
// property write until it is set.
//
// If the Oracle implements AuxiliaryValidator, the identifier is validated
// first. Changing the identifier of a complete state validates the pinned
// properties against the new identifier; on failure the previous identifier is
// kept. A refused identifier is reported as an InvalidAuxiliaryError.
func (s *State) SetAuxiliary(name string) error {
	return s.rejected(slog.String("auxiliary", name), s.setAuxiliary(name))
}

func (s *State) setAuxiliary(name string) error {
	if !s.kind.NeedsAuxiliary {
		return &InvalidAuxiliaryError{Kind: s.kind.Name, Name: name, Reason: "kind takes no auxiliary identifier"}
	}
	if name == "" {
		return &InvalidAuxiliaryError{Kind: s.kind.Name, Reason: "must not be empty"}
	}
	if s.hasAux && s.auxiliary == name {
		return nil
	}
	if v, ok := s.oracle.(AuxiliaryValidator); ok {
		if err := v.ValidateAuxiliary(name); err != nil {
			return &InvalidAuxiliaryError{Kind: s.kind.Name, Name: name, Err: err}
		}
	}

	prev, hadAux := s.auxiliary, s.hasAux
	before := s.hash()
	s.auxiliary, s.hasAux = name, true
	if s.Complete() {
		var probe Property
		for _, p := range s.pins.Names() {
			if probe == "" || s.kind.code(p) < s.kind.code(probe) {
				probe = p
			}
		}
		if _, err := s.evaluate(s.kind.code(probe), s.inputsOf(s.pins.pins)); err != nil {
			s.auxiliary, s.hasAux = prev, hadAux
			if invalid, ok := err.(*PhysicallyInvalidStateError); ok {
				invalid.Validated = s.pins.Names()
			}
			return err
		}
	}
	if s.pins.PinCount() > 0 {
		s.pins.touch()
	}
	s.commit(OpAuxiliary, "", "", before)
	return nil
}

// Get returns the value of property p.
//
// A pinned property returns its pinned value. Any other property is derived
// from the Oracle if the state is complete, and cached until the next
// mutation. If the state is not complete, Get returns ok == false and a nil
// error: the value is unavailable rather than invalid.
func (s *State) Get(p Property) (v float64, ok bool, err error) {
	d, base, found := s.kind.lookup(p)
	if !found {
		return 0, false, &UnknownPropertyError{Kind: s.kind.Name, Name: string(p)}
	}
	if pinned, isPinned := s.pins.pins[base]; isPinned {
		return d.fromBase(pinned), true, nil
	}
	if !s.Complete() {
		return 0, false, nil
	}
	v, err = s.derive(s.kind.code(base))
	if err != nil {
		return 0, false, err
	}
	return d.fromBase(v), true, nil
}

// GetCode returns the value of the property identified by the given oracle
// code. Unlike Get, it fails with an IncompleteStateError if the state is not
// complete.
func (s *State) GetCode(code string) (float64, error) {
	vs, err := s.GetCodes(code)
	if err != nil {
		return 0, err
	}
	return vs[0], nil
}

// GetCodes returns the values of the properties identified by the given oracle
// codes, in order. It fails with an IncompleteStateError if the state is not
// complete, and with an UnknownPropertyError if a code is not defined by the
// state's kind.
func (s *State) GetCodes(codes ...string) ([]float64, error) {
	if !s.Complete() {
		return nil, &IncompleteStateError{Pinned: s.pins.PinCount(), Required: s.kind.RequiredPins}
	}
	vs := make([]float64, len(codes))
	for i, code := range codes {
		base, ok := s.kind.byCode(code)
		if !ok {
			return nil, &UnknownPropertyError{Kind: s.kind.Name, Name: code}
		}
		if v, pinned := s.pins.pins[base]; pinned {
			vs[i] = v
			continue
		}
		v, err := s.derive(code)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// derive returns the value of the given oracle code for the current, complete
// pin set, consulting the cache first.
func (s *State) derive(code string) (float64, error) {
	version := s.pins.Version()
	if c, ok := s.cache[code]; ok && c.version == version {
		return c.value, nil
	}

	v, err := s.evaluate(code, s.inputsOf(s.pins.pins))
	if err != nil {
		if invalid, ok := err.(*PhysicallyInvalidStateError); ok {
			invalid.Validated = s.pins.Names()
		}
		return 0, err
	}
	measureRecomputation(s.kind.Name, code)
	s.logger.Debug("Derived property recomputed",
		slog.String("code", code),
		slog.Float64("value", v),
		slog.Uint64("version", version),
	)
	s.cache[code] = cached{value: v, version: version}
	return v, nil
}

// pinnable resolves p to its descriptor and base, and checks the preconditions
// shared by every write: the property exists, the auxiliary identifier is set
// when required, and the property may be pinned.
func (s *State) pinnable(p Property) (Descriptor, Property, error) {
	d, base, ok := s.kind.lookup(p)
	if !ok {
		return Descriptor{}, "", &UnknownPropertyError{Kind: s.kind.Name, Name: string(p)}
	}
	if s.kind.NeedsAuxiliary && !s.hasAux {
		return Descriptor{}, "", &MissingAuxiliaryError{Kind: s.kind.Name, Property: p}
	}
	if !d.Pinnable {
		return Descriptor{}, "", &NotPinnableError{Property: p}
	}
	return d, base, nil
}

// coerce converts a written value into a number in the units of base, and
// checks it against base's plausible range.
func (s *State) coerce(p Property, d Descriptor, base Property, value any) (float64, error) {
	raw, ok := toFloat(value)
	if !ok {
		return 0, &TypeMismatchError{Property: p, Value: value}
	}
	v := d.toBase(raw)
	if reason := checkValue(s.kind.Properties[base], v); reason != "" {
		return 0, &RangeValidationError{Property: p, Value: raw, Reason: reason}
	}
	return v, nil
}

// commit notifies observers about a mutation that has just been applied.
func (s *State) commit(op Op, p, replaced Property, before StateHash) {
	changed := Changed{
		StateID:   s.id,
		Kind:      s.kind.Name,
		Op:        op,
		Property:  p,
		Replaced:  replaced,
		Before:    before,
		After:     s.hash(),
		Version:   s.pins.Version(),
		Pins:      s.pins.Values(),
		Auxiliary: s.auxiliary,
		Complete:  s.Complete(),
		Timestamp: time.Now().UTC(),
	}
	s.logger.Debug("State mutated",
		slog.String("op", string(op)),
		slog.String("property", string(p)),
		slog.Uint64("version", changed.Version),
		slog.Bool("complete", changed.Complete),
	)
	for _, ob := range s.observers {
		ob.StateChanged(changed)
	}
}

// rejected reports a refused write to target, if err is not nil, and returns
// err unchanged.
func (s *State) rejected(target slog.Attr, err error) error {
	if err == nil {
		return nil
	}
	class := errorClass(err)
	measureRejection(s.kind.Name, class)
	s.logger.Info("Write rejected",
		target,
		slog.String("reason", class),
		slog.Any("error", err),
	)
	return err
}

// errorClass names the class of a rejection for logs and metrics.
func errorClass(err error) string {
	switch err.(type) {
	case *TypeMismatchError:
		return "type_mismatch"
	case *RangeValidationError:
		return "range"
	case *OverConstrainedError:
		return "over_constrained"
	case *NotPinnedError:
		return "not_pinned"
	case *AlreadyPinnedError:
		return "already_pinned"
	case *NotPinnableError:
		return "not_pinnable"
	case *MissingAuxiliaryError:
		return "missing_auxiliary"
	case *InvalidAuxiliaryError:
		return "invalid_auxiliary"
	case *UnknownPropertyError:
		return "unknown_property"
	case *PhysicallyInvalidStateError:
		return "physically_invalid"
	default:
		return "other"
	}
}
