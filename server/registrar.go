// Package server implements CSP's server-side message dispatch and
// accept loop (spec.md §4.6, concurrency spec.md §5).
package server

import (
	stdcontext "context"
	"sync"

	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/uuid"
)

// Handler answers one struct identity's Data requests.
type Handler interface {
	InputID() uuid.Uuid
	NewInput() body.Versioned
	Handle(ctx stdcontext.Context, input body.Versioned) (body.Versioned, error)
}

// Registrar is a shared-read, exclusive-write map from struct identity
// to Handler (spec.md §4.6 "Concurrency"), grounded on
// m-lab-tcp-info/eventsocket's mutex-guarded client map, generalized
// to RWMutex for this read-mostly case.
type Registrar struct {
	mu       sync.RWMutex
	handlers map[uuid.Uuid]Handler
}

// NewRegistrar returns an empty Registrar.
func NewRegistrar() *Registrar {
	return &Registrar{handlers: make(map[uuid.Uuid]Handler)}
}

// Register adds h under h.InputID(), replacing any existing handler
// for that id.
func (r *Registrar) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.InputID()] = h
}

// Lookup returns the handler registered for id, if any.
func (r *Registrar) Lookup(id uuid.Uuid) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[id]
	return h, ok
}
