package heap

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// NullifierSet is the append-only set of consumed-resource markers
// (spec.md §4.4, §6.1). It is the only externally observable record of
// consumption, and the only cross-machine ordering primitive the system
// has (spec.md §5): at most one machine may ever successfully Add the
// nullifier for a given resource.
type NullifierSet interface {
	// Add inserts id, failing with DoubleSpend if it is already present.
	Add(id ca.EntityId) error
	// Contains reports whether id has already been added.
	Contains(id ca.EntityId) bool
}

// InMemorySet is the default, single-process NullifierSet implementation.
// All writes go through Add to preserve the append-only, atomic-within-a-
// process discipline spec.md §9 calls for; a host sharing one set across
// processes is expected to provide its own atomic implementation of this
// same interface (spec.md §6.1).
type InMemorySet struct {
	members map[ca.EntityId]struct{}
}

// NewInMemorySet constructs an empty InMemorySet.
func NewInMemorySet() *InMemorySet {
	return &InMemorySet{members: make(map[ca.EntityId]struct{})}
}

// Add implements NullifierSet.
func (s *InMemorySet) Add(id ca.EntityId) error {
	if _, exists := s.members[id]; exists {
		return causalityerrors.DoubleSpend(id.ToHex())
	}
	s.members[id] = struct{}{}
	return nil
}

// Contains implements NullifierSet.
func (s *InMemorySet) Contains(id ca.EntityId) bool {
	_, ok := s.members[id]
	return ok
}

// Len reports how many nullifiers have been recorded.
func (s *InMemorySet) Len() int {
	return len(s.members)
}

// holderSecretLabel disambiguates the nullifier-derivation domain from any
// other use of ca.Hasher over an (id, secret) pair, so a future caller
// cannot accidentally collide a nullifier with an unrelated hash.
const holderSecretLabel = "causality/nullifier/v1"

// canonicalNullifier is hashed to derive a resource's nullifier. Per
// spec.md §9, nullifier derivation is implementation-defined between
// "resource id alone" and "resource id XORed with a holder secret"; this
// type supports both by treating an empty secret as "resource id alone".
type canonicalNullifier struct {
	resourceID ca.ResourceId
	secret     []byte
}

func (c canonicalNullifier) Canonical() ([]byte, error) {
	return ca.NewEncoder().
		String(holderSecretLabel).
		ID(c.resourceID).
		Bytes(c.secret).
		Finish(), nil
}

// DeriveNullifier computes the nullifier id for a consumed resource. secret
// may be nil for the id-alone construction DESIGN.md settles on as the
// default; a caller wanting privacy may pass a non-nil per-holder secret.
func DeriveNullifier(hasher ca.Hasher, resourceID ca.ResourceId, secret []byte) (ca.EntityId, error) {
	return ca.EncodeContent(hasher, canonicalNullifier{resourceID: resourceID, secret: secret})
}
