package processing

import (
	"sync"

	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/uuid"
)

// ChainTranslator is the shape package version's Chain satisfies. It is
// declared here, not imported from package version, to keep the
// dependency edge version -> processing one-directional: processing
// never imports version, it only calls back through this interface
// (spec.md §4.4's translator is a collaborator of the struct-header
// processor, not a layer beneath it).
type ChainTranslator interface {
	SerializeDown(ctx *context.SCtx, target uint32, latest body.Versioned) error
	DeserializeUp(ctx *context.DCtx, target uint32, dest body.Versioned) error
}

var (
	chainMu sync.RWMutex
	chains  = map[uuid.Uuid]ChainTranslator{}
)

// RegisterChain associates a type id with its version chain. Called
// from package version at init time, once per versioned type.
func RegisterChain(id uuid.Uuid, c ChainTranslator) {
	chainMu.Lock()
	defer chainMu.Unlock()
	chains[id] = c
}

func lookupChain(id uuid.Uuid) (ChainTranslator, bool) {
	chainMu.RLock()
	defer chainMu.RUnlock()
	c, ok := chains[id]
	return c, ok
}
