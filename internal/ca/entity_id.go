// Package ca implements the content-addressing substrate shared by every
// layer of the core: a deterministic, collision-resistant mapping from a
// canonical byte encoding to a fixed-width EntityId.
package ca

import (
	"bytes"
	"encoding/hex"

	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// idSize is the fixed width, in bytes, of every EntityId.
const idSize = 32

// CurrentVersion is the version tag prefixed to every canonical encoding
// before hashing. Bumping it is a breaking change to the wire format.
const CurrentVersion byte = 1

// EntityId is an opaque 32-byte content hash. Two structurally equal values
// (per their canonical byte encoding) always produce equal EntityIds.
type EntityId [idSize]byte

// ResourceId, ExprId, EffectId, HandlerId, IntentId, TransactionId, and
// DomainId are purely nominal aliases over EntityId: the wire identity of
// every content-addressed record is the same 32-byte hash regardless of
// which layer minted it.
type (
	ResourceId    = EntityId
	ExprId        = EntityId
	EffectId      = EntityId
	HandlerId     = EntityId
	IntentId      = EntityId
	TransactionId = EntityId
	DomainId      = EntityId
)

// Zero is the all-zero EntityId, used as a sentinel for "no id" in contexts
// where a zero value must be distinguishable from any real content hash
// with overwhelming probability.
var Zero EntityId

// Equal reports whether two EntityIds are byte-equal.
func (id EntityId) Equal(other EntityId) bool {
	return id == other
}

// Compare returns -1, 0, or 1 according to the total byte order on
// EntityId, matching spec.md's "total order by byte comparison".
func (id EntityId) Compare(other EntityId) int {
	return bytes.Compare(id[:], other[:])
}

// IsZero reports whether id is the all-zero sentinel.
func (id EntityId) IsZero() bool {
	return id == Zero
}

// String renders the id as lowercase hex, per spec.md §6.3's rule that
// identifiers are rendered in lowercase hex for textual use.
func (id EntityId) String() string {
	return id.ToHex()
}

// ToHex renders the id as lowercase hex.
func (id EntityId) ToHex() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 32 bytes backing the id.
func (id EntityId) Bytes() []byte {
	return id[:]
}

// FromBytes wraps a caller-provided 32-byte hash as an EntityId without
// rehashing it. Used to reconstruct an id whose content hash was computed
// and persisted elsewhere (e.g. read back from a host-provided store).
func FromBytes(b []byte) (EntityId, error) {
	var id EntityId
	if len(b) != idSize {
		return id, causalityerrors.SerializationError("entity id must be %d bytes, got %d", idSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// ParseHex decodes a lowercase-hex-rendered EntityId.
func ParseHex(s string) (EntityId, error) {
	var id EntityId
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, causalityerrors.SerializationError("invalid entity id hex: %v", err)
	}
	return FromBytes(b)
}
