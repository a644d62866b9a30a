package effect

import (
	"sort"

	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/obslog"
	"github.com/sirupsen/logrus"
)

// registration is one (handler id, priority) slot in a HandlerRegistry's
// per-type candidate list.
type registration struct {
	id       ca.HandlerId
	priority int32
}

// HandlerRegistry resolves an effect_type to the handler that should wrap
// it: highest priority wins, ties break on the lexicographically smallest
// handler id (spec.md §4.10's conflict resolution — deterministic
// regardless of registration order).
//
// Read-only from the compiler's point of view (spec.md §6.1 "Handler
// registry... Read-only"); Register is the host-side write path a caller
// uses to populate it before compiling a transaction.
type HandlerRegistry struct {
	store  *Store
	logger *logrus.Logger
	byType map[string][]registration
}

// NewHandlerRegistry constructs an empty registry backed by store.
func NewHandlerRegistry(store *Store) *HandlerRegistry {
	return &HandlerRegistry{store: store, logger: obslog.New(), byType: make(map[string][]registration)}
}

// WithLogger overrides the registry's default silent logger.
func (r *HandlerRegistry) WithLogger(l *logrus.Logger) *HandlerRegistry {
	r.logger = l
	return r
}

// Register inserts h into the store and indexes it under its handled
// type, keeping the type's candidate list sorted by descending priority
// then ascending id so Resolve never has to re-sort.
func (r *HandlerRegistry) Register(h Handler) (ca.HandlerId, error) {
	id, err := r.store.PutHandler(h)
	if err != nil {
		return ca.Zero, err
	}
	list := append(r.byType[h.HandlesType], registration{id: id, priority: h.Priority})
	sort.Slice(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority > list[j].priority
		}
		return list[i].id.Compare(list[j].id) < 0
	})
	r.byType[h.HandlesType] = list
	return id, nil
}

// Resolve returns the highest-priority handler registered for effectType.
// If the top candidate's record is no longer resolvable against the store
// (e.g. it was registered but the backing Handler record is unavailable),
// Resolve logs a warning and falls back to the next-highest-priority
// candidate rather than failing outright — the documented oddity this
// registry preserves rather than "fixes".
func (r *HandlerRegistry) Resolve(effectType string) (ca.HandlerId, error) {
	for _, cand := range r.byType[effectType] {
		if _, ok := r.store.Handler(cand.id); ok {
			return cand.id, nil
		}
		r.logger.WithFields(logrus.Fields{
			"effect_type": effectType,
			"handler_id":  cand.id.ToHex(),
			"priority":    cand.priority,
		}).Warn("unresolved handler, falling back to next priority")
	}
	return ca.Zero, causalityerrors.CompilationError("no handler resolves effect type %q", effectType)
}

// Get returns the handler record named by id — the read-only `get` of
// spec.md §6.1's Handler registry interface.
func (r *HandlerRegistry) Get(id ca.HandlerId) (Handler, bool) {
	return r.store.Handler(id)
}
