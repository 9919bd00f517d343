// Package processing implements CSP's primitive and aggregate
// processors (spec.md §4.2–§4.3): the struct-header protocol, category
// dispatch, width-tagged primitives, pointer dedup, diamond-base
// composition and dynamic-polymorphic dispatch that every generated
// body.Body implementation is built on top of.
package processing

import (
	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/uuid"
)

// WriteStructHeader writes the {StructID, InterfaceVersion} prelude
// every serialized struct carries (spec.md §4.3). Unlike user fields,
// the header is never width-tagged — it is protocol metadata, fixed at
// 16+4 bytes, swapped only for endianness.
func WriteStructHeader(ctx *context.SCtx, id uuid.Uuid, interfaceVersion uint32) {
	b := id.Bytes()
	ctx.Sink.AppendBytes(b[:])
	ctx.Sink.AppendUint32(interfaceVersion, ctx.Swap())
}

// ReadStructHeader reads the {StructID, InterfaceVersion} prelude.
func ReadStructHeader(ctx *context.DCtx) (uuid.Uuid, uint32, error) {
	idBytes, err := ctx.Cursor.ReadBytes(16)
	if err != nil {
		return uuid.Nil, 0, err
	}
	version, err := ctx.Cursor.ReadUint32(ctx.Swap())
	if err != nil {
		return uuid.Nil, 0, err
	}
	return uuid.FromBytes(idBytes), version, nil
}

// SerializeStruct is CSP's top-level encode entry point (spec.md
// §4.3): it writes the struct header, then either serializes v's body
// directly (ctx.InterfaceVersion is the type's latest version) or routes
// through v's registered version chain to produce an older wire shape.
func SerializeStruct(ctx *context.SCtx, v body.Versioned) error {
	desc := v.Descriptor()
	if !desc.SupportsInterfaceVersion(ctx.InterfaceVersion) {
		return status.New(status.ErrorNotSupportedInterfaceVersion,
			"struct %s: version %d outside [%d,%d]", desc.ID, ctx.InterfaceVersion, desc.MinSupportedVersion(), desc.LatestVersion)
	}
	WriteStructHeader(ctx, desc.ID, ctx.InterfaceVersion)
	if ctx.InterfaceVersion == desc.LatestVersion {
		return v.SerializeBody(ctx)
	}
	chain, ok := lookupChain(desc.ID)
	if !ok {
		return status.New(status.ErrorNoSuchHandler, "struct %s: no version chain registered to reach version %d", desc.ID, ctx.InterfaceVersion)
	}
	return chain.SerializeDown(ctx, ctx.InterfaceVersion, v)
}

// DeserializeStruct is CSP's top-level decode entry point. dest
// supplies the expected identity (via its Descriptor) and, on success,
// receives the decoded value — directly if the wire version equals
// dest's latest, or via dest's version chain otherwise.
func DeserializeStruct(ctx *context.DCtx, dest body.Versioned) error {
	desc := dest.Descriptor()
	wireID, wireVersion, err := ReadStructHeader(ctx)
	if err != nil {
		return err
	}
	if !wireID.Equal(desc.ID) {
		return status.New(status.ErrorInvalidArgument, "struct id mismatch: wire %s, expected %s", wireID, desc.ID)
	}
	if !desc.SupportsInterfaceVersion(wireVersion) {
		return status.New(status.ErrorNotSupportedInterfaceVersion,
			"struct %s: wire version %d outside [%d,%d]", desc.ID, wireVersion, desc.MinSupportedVersion(), desc.LatestVersion)
	}
	if wireVersion == desc.LatestVersion {
		return dest.DeserializeBody(ctx)
	}
	chain, ok := lookupChain(desc.ID)
	if !ok {
		return status.New(status.ErrorNoSuchHandler, "struct %s: no version chain registered to read version %d", desc.ID, wireVersion)
	}
	return chain.DeserializeUp(ctx, wireVersion, dest)
}
