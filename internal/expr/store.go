package expr

import (
	"github.com/causality-labs/causality/internal/ca"
)

// Store is the append-only, content-addressed expression graph spec.md
// §4.8 describes: `store(content) -> ExprId`, `retrieve(id) -> Option<node>`,
// `contains(id) -> bool`. Two identical content insertions return the same
// id and do not duplicate storage (testable property #9).
type Store struct {
	hasher ca.Hasher
	nodes  map[ca.ExprId]Node
}

// New constructs an empty Store using the default content hasher.
func New() *Store {
	return NewWithHasher(ca.Default())
}

// NewWithHasher constructs an empty Store using the given Hasher.
func NewWithHasher(hasher ca.Hasher) *Store {
	return &Store{hasher: hasher, nodes: make(map[ca.ExprId]Node)}
}

// Store inserts n, returning its content-addressed id. Storing
// structurally identical content twice is idempotent: the second call
// returns the same id without growing the store.
func (s *Store) Store(n Node) (ca.ExprId, error) {
	id, err := ca.EncodeContent(s.hasher, n)
	if err != nil {
		return ca.Zero, err
	}
	if _, exists := s.nodes[id]; !exists {
		s.nodes[id] = n
	}
	return id, nil
}

// Retrieve returns the node named by id, or ok=false if absent.
func (s *Store) Retrieve(id ca.ExprId) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Contains reports whether id has been stored.
func (s *Store) Contains(id ca.ExprId) bool {
	_, ok := s.nodes[id]
	return ok
}

// Len reports how many distinct nodes the store holds.
func (s *Store) Len() int {
	return len(s.nodes)
}
