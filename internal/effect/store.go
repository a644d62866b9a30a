package effect

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// Store is the append-only, content-addressed home for Layer 2 records —
// the same "identified by content hash of their canonical form" rule
// spec.md states for every Layer 2 entity, mirrored on internal/expr's
// Store rather than reinvented.
type Store struct {
	hasher ca.Hasher

	effects  map[ca.EffectId]Effect
	intents  map[ca.IntentId]Intent
	handlers map[ca.HandlerId]Handler
	domains  map[ca.DomainId]TypedDomain
}

// New constructs an empty Store using the default content hasher.
func New() *Store {
	return NewWithHasher(ca.Default())
}

func NewWithHasher(hasher ca.Hasher) *Store {
	return &Store{
		hasher:   hasher,
		effects:  make(map[ca.EffectId]Effect),
		intents:  make(map[ca.IntentId]Intent),
		handlers: make(map[ca.HandlerId]Handler),
		domains:  make(map[ca.DomainId]TypedDomain),
	}
}

// PutEffect inserts e, returning its content-addressed id.
func (s *Store) PutEffect(e Effect) (ca.EffectId, error) {
	id, err := e.Id(s.hasher)
	if err != nil {
		return ca.Zero, err
	}
	s.effects[id] = e
	return id, nil
}

// Effect retrieves a previously-inserted effect by id.
func (s *Store) Effect(id ca.EffectId) (Effect, bool) {
	e, ok := s.effects[id]
	return e, ok
}

// PutIntent inserts it, returning its content-addressed id.
func (s *Store) PutIntent(it Intent) (ca.IntentId, error) {
	id, err := it.Id(s.hasher)
	if err != nil {
		return ca.Zero, err
	}
	s.intents[id] = it
	return id, nil
}

// Intent retrieves a previously-inserted intent by id.
func (s *Store) Intent(id ca.IntentId) (Intent, bool) {
	it, ok := s.intents[id]
	return it, ok
}

// PutHandler inserts h, returning its content-addressed id.
func (s *Store) PutHandler(h Handler) (ca.HandlerId, error) {
	id, err := h.Id(s.hasher)
	if err != nil {
		return ca.Zero, err
	}
	s.handlers[id] = h
	return id, nil
}

// Handler retrieves a previously-inserted handler by id.
func (s *Store) Handler(id ca.HandlerId) (Handler, bool) {
	h, ok := s.handlers[id]
	return h, ok
}

// PutDomain inserts d, returning its content-addressed id.
func (s *Store) PutDomain(d TypedDomain) (ca.DomainId, error) {
	id, err := d.Id(s.hasher)
	if err != nil {
		return ca.Zero, err
	}
	s.domains[id] = d
	return id, nil
}

// Domain retrieves a previously-inserted domain by id.
func (s *Store) Domain(id ca.DomainId) (TypedDomain, bool) {
	d, ok := s.domains[id]
	return d, ok
}

// resolveEffect looks up id, failing with InvalidExpression (there being
// no dedicated "unknown effect id" error kind in spec.md §6.4's list —
// the closest fit is the same "reference to content this store never
// saw" shape InvalidExpression already names) if absent.
func (s *Store) resolveEffect(id ca.EffectId) (Effect, error) {
	e, ok := s.effects[id]
	if !ok {
		return Effect{}, causalityerrors.InvalidExpression(id.ToHex())
	}
	return e, nil
}

func (s *Store) resolveIntent(id ca.IntentId) (Intent, error) {
	it, ok := s.intents[id]
	if !ok {
		return Intent{}, causalityerrors.InvalidExpression(id.ToHex())
	}
	return it, nil
}

func (s *Store) resolveDomain(id ca.DomainId) (TypedDomain, error) {
	d, ok := s.domains[id]
	if !ok {
		return TypedDomain{}, causalityerrors.InvalidExpression(id.ToHex())
	}
	return d, nil
}
