package processing

import (
	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/typeregistry"
	"github.com/andreygs/csp/uuid"
)

// Identified is implemented by DynamicPolymorphic struct bodies
// (ifacedesc.DynamicPolymorphic) so the registry dispatch knows which
// leading type tag to write.
type Identified interface {
	body.Body
	TypeID() uuid.Uuid
}

// WriteDynamic writes v's type tag followed by its body, the
// mechanism spec.md §4.3 uses for dynamic polymorphic dispatch in
// place of a vtable.
func WriteDynamic(ctx *context.SCtx, v Identified) error {
	id := v.TypeID().Bytes()
	ctx.Sink.AppendBytes(id[:])
	return v.SerializeBody(ctx)
}

// ReadDynamic reads a type tag, constructs the concrete instance via
// typeregistry, and decodes its body into it.
func ReadDynamic(ctx *context.DCtx) (body.Body, error) {
	idBytes, err := ctx.Cursor.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	id := uuid.FromBytes(idBytes)
	instance, ok := typeregistry.New(id)
	if !ok {
		return nil, status.New(status.ErrorNoSuchHandler, "no dynamic type registered for id %s", id)
	}
	v, ok := instance.(body.Body)
	if !ok {
		return nil, status.New(status.ErrorInternal, "factory for %s did not produce a body.Body", id)
	}
	if err := v.DeserializeBody(ctx); err != nil {
		return nil, err
	}
	return v, nil
}
