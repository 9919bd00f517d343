package message

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/uuid"
)

// DataBody is the payload of a Kind=Data message (spec.md §4.5): the
// identity and negotiated settings under which Payload — an already
// serialized struct — was produced.
type DataBody struct {
	InputStructID    uuid.Uuid
	DataFlags        flags.DataFlags
	InterfaceVersion uint32
	Payload          []byte
}

// Write appends d to ctx's sink.
func (d *DataBody) Write(ctx *context.SCtx) {
	id := d.InputStructID.Bytes()
	ctx.Sink.AppendBytes(id[:])
	ctx.Sink.AppendUint32(uint32(d.DataFlags), ctx.Swap())
	ctx.Sink.AppendUint32(d.InterfaceVersion, ctx.Swap())
	processing.WriteBytes(ctx, d.Payload)
}

// ReadDataBody reads a DataBody from ctx's cursor.
func ReadDataBody(ctx *context.DCtx) (*DataBody, error) {
	idBytes, err := ctx.Cursor.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	dataFlagsRaw, err := ctx.Cursor.ReadUint32(ctx.Swap())
	if err != nil {
		return nil, err
	}
	interfaceVersion, err := ctx.Cursor.ReadUint32(ctx.Swap())
	if err != nil {
		return nil, err
	}
	payload, err := processing.ReadBytes(ctx)
	if err != nil {
		return nil, err
	}
	return &DataBody{
		InputStructID:    uuid.FromBytes(idBytes),
		DataFlags:        flags.DataFlags(dataFlagsRaw),
		InterfaceVersion: interfaceVersion,
		Payload:          payload,
	}, nil
}
