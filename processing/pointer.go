package processing

import (
	"unsafe"

	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/status"
)

// PointerTag is the one-byte discriminator spec.md §4.2 puts ahead of
// every pointer field.
type PointerTag uint8

const (
	PointerNil       PointerTag = 0
	PointerInline    PointerTag = 1
	PointerReference PointerTag = 2
)

// WritePointer serializes one pointer field. p is nil for a nil
// field. When dedup is active, writeInline is invoked once per
// distinct p, on its first sighting; when only AllowUnmanagedPointers
// is in effect, it is invoked on every sighting.
func WritePointer(ctx *context.SCtx, p unsafe.Pointer, writeInline func() error) error {
	if p == nil {
		ctx.Sink.AppendUint8(uint8(PointerNil))
		return nil
	}
	if ctx.Pointers != nil {
		if off, ok := ctx.Pointers.Lookup(p); ok {
			ctx.Sink.AppendUint8(uint8(PointerReference))
			ctx.Sink.AppendUint64(uint64(off), ctx.Swap())
			return nil
		}
		off := ctx.Sink.Len()
		ctx.Sink.AppendUint8(uint8(PointerInline))
		ctx.Pointers.Record(p, off)
		return writeInline()
	}
	if !ctx.DataFlags.Has(flags.AllowUnmanagedPointers) {
		return status.New(status.ErrorNotSupportedSerializationSettingsForStruct,
			"pointer field requires CheckRecursivePointers or AllowUnmanagedPointers")
	}
	ctx.Sink.AppendUint8(uint8(PointerInline))
	return writeInline()
}

// ReadPointer reads one pointer field's tag. For PointerInline it
// invokes readInline to allocate and decode the pointee, which must
// return the pointee's address and a release func to hand to
// DCtx.AddedPointers (nil if nothing needs releasing). For
// PointerReference it resolves a previously recorded address instead,
// never calling readInline.
func ReadPointer(ctx *context.DCtx, readInline func() (unsafe.Pointer, func(), error)) (unsafe.Pointer, error) {
	tag, err := ctx.Cursor.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch PointerTag(tag) {
	case PointerNil:
		return nil, nil

	case PointerInline:
		off := ctx.Cursor.Tell() - 1
		if !ctx.DataFlags.Has(flags.CheckRecursivePointers) && !ctx.DataFlags.Has(flags.AllowUnmanagedPointers) {
			return nil, status.New(status.ErrorNotSupportedSerializationSettingsForStruct,
				"pointer field requires CheckRecursivePointers or AllowUnmanagedPointers")
		}
		p, release, err := readInline()
		if err != nil {
			return nil, err
		}
		if ctx.Pointers != nil {
			ctx.Pointers.Record(off, p)
		}
		if release != nil {
			ctx.AddedPointers.Add(release)
		}
		return p, nil

	case PointerReference:
		offRaw, err := ctx.Cursor.ReadUint64(ctx.Swap())
		if err != nil {
			return nil, err
		}
		if ctx.Pointers == nil {
			return nil, status.New(status.ErrorNotSupportedSerializationSettingsForStruct,
				"pointer back-reference seen without CheckRecursivePointers")
		}
		p, ok := ctx.Pointers.Lookup(int(offRaw))
		if !ok {
			return nil, status.New(status.ErrorInternal,
				"unresolved pointer back-reference at wire offset %d", offRaw)
		}
		return p, nil

	default:
		return nil, status.New(status.ErrorOverflow, "invalid pointer tag %d", tag)
	}
}
