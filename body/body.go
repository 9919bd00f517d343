// Package body defines the contract every generated (or hand-written)
// serializable type must satisfy — the "callers of the engine" spec.md
// §1 describes as out of scope for content, but whose shape the engine
// depends on.
package body

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/ifacedesc"
)

// Body is the per-type serialize/deserialize pair spec.md §4.3
// describes as "a generated pair serializeBody(value, SCtx) /
// deserializeBody(DCtx, value)", rendered here as methods instead of
// free functions plus a registry lookup.
type Body interface {
	SerializeBody(ctx *context.SCtx) error
	DeserializeBody(ctx *context.DCtx) error
}

// Versioned is a Body that also knows its own static descriptor, the
// minimum the struct-header processing and version-translation layers
// need to validate and route a value.
type Versioned interface {
	Body
	Descriptor() *ifacedesc.StructDescriptor
}
