package ca

import (
	gnarkhash "github.com/consensys/gnark-crypto/hash"
	"lukechampine.com/blake3"
)

// Hasher turns a version-tagged canonical byte string into an EntityId.
// It is the pluggable seam spec.md §4.1 requires: hash(bytes) -> EntityId
// must be deterministic and collision-resistant, but which concrete
// function computes it is an implementation choice.
type Hasher interface {
	// Hash computes the EntityId of (version ++ content).
	Hash(version byte, content []byte) EntityId
}

// HasherKind selects a Hasher implementation.
type HasherKind int

const (
	// HasherBlake3 selects the default, general-purpose hasher.
	HasherBlake3 HasherKind = iota
	// HasherCircuit selects a hasher built from an arithmetic-circuit-
	// friendly permutation (MiMC over BN254's scalar field), for callers
	// who will eventually prove statements about the hashed content in a
	// zero-knowledge circuit and want the hash itself to be cheap there.
	HasherCircuit
)

// New returns the Hasher implementation for kind.
func New(kind HasherKind) Hasher {
	switch kind {
	case HasherCircuit:
		return CircuitHasher{}
	default:
		return BlakeHasher{}
	}
}

// Default returns the default Hasher (blake3), matching the general-purpose
// hashing every non-circuit-bound component of the core should use.
func Default() Hasher {
	return BlakeHasher{}
}

// BlakeHasher hashes with BLAKE3, truncated/sized to the 32-byte EntityId
// width. BLAKE3 is the hash this corpus's Ethereum-execution-client example
// (AKJUS-bsc-erigon, via erigon-lib) pulls in for high-throughput content
// hashing; it is the natural default for a general-purpose content address.
type BlakeHasher struct{}

// Hash implements Hasher.
func (BlakeHasher) Hash(version byte, content []byte) EntityId {
	buf := make([]byte, 0, len(content)+1)
	buf = append(buf, version)
	buf = append(buf, content...)
	return blake3.Sum256(buf)
}

// CircuitHasher hashes with MiMC over the BN254 scalar field, the same
// hash family github.com/consensys/gnark-crypto (pulled in by the
// constraint-system compiler Consensys-go-corset in this corpus) exposes
// for in-circuit hashing. Layer 0 is specified as "intended to be cheaply
// compilable to zero-knowledge circuits" (spec.md §1); a resource or
// nullifier id computed this way is cheap to re-derive inside a circuit
// that must prove consumption without revealing the consumed value.
type CircuitHasher struct{}

// Hash implements Hasher.
func (CircuitHasher) Hash(version byte, content []byte) EntityId {
	h := gnarkhash.MIMC_BN254.New()
	h.Write([]byte{version})
	h.Write(content)
	sum := h.Sum(nil)

	var id EntityId
	// MiMC_BN254's digest is a single BN254 scalar-field element, which
	// serializes to 32 bytes — exactly idSize — so no truncation is needed
	// in the common case; defensively copy only idSize bytes either way.
	n := copy(id[:], sum)
	_ = n
	return id
}
