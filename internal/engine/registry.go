package engine

import (
	"sort"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
)

// Registry maps action type identifiers to their handlers. It is built
// once at startup and passed into the manager by reference; there is no
// process wide handler map and no runtime loading.
type Registry struct {
	handlers map[string]core.Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]core.Handler)}
}

// Register adds a handler under its declared type. Registering the same
// type twice is a wiring bug, so the last registration wins and that is
// caught by tests rather than guarded at runtime.
func (r *Registry) Register(h core.Handler) {
	r.handlers[h.Meta().Type] = h
}

// Resolve returns the handler for actionType or an UnknownActionType error.
func (r *Registry) Resolve(actionType string) (core.Handler, error) {
	h, ok := r.handlers[actionType]
	if !ok {
		return nil, core.NewUnknownActionTypeError(actionType)
	}
	return h, nil
}

// Types lists the registered action types with their metadata, sorted by
// type id so discovery output is stable.
func (r *Registry) Types() []core.ActionMeta {
	metas := make([]core.ActionMeta, 0, len(r.handlers))
	for _, h := range r.handlers {
		metas = append(metas, h.Meta())
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Type < metas[j].Type })
	return metas
}
