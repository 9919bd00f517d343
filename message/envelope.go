package message

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
)

// WriteEnvelope writes a complete message: the fixed header, then
// writeBody against an SCtx already carrying h's CommonFlags and the
// given dataFlags/interfaceVersion. This is the single choke point
// every sender goes through, mirroring the way the teacher's
// control.ControlServer centralizes wire writes in one place.
func WriteEnvelope(sink *iobuf.Sink, h Header, dataFlags flags.DataFlags, interfaceVersion uint32, writeBody func(ctx *context.SCtx)) {
	WriteHeader(sink, h)
	ctx := context.NewSCtx(sink, context.Options{
		ProtocolVersion:  h.ProtocolVersion,
		CommonFlags:      h.CommonFlags,
		DataFlags:        dataFlags,
		InterfaceVersion: interfaceVersion,
	})
	writeBody(ctx)
	ctx.Finish()
}

// ReadEnvelope reads raw's header and returns a DCtx positioned
// immediately after it, carrying the header's CommonFlags plus the
// caller-supplied dataFlags/interfaceVersion (the receiver's own
// negotiated settings, not something the wire format carries for the
// body). The caller is responsible for reading a Kind-specific body
// and calling ctx.Finish(), or ctx.AddedPointers.Release() on a
// decode failure.
func ReadEnvelope(raw []byte, dataFlags flags.DataFlags, interfaceVersion uint32) (Header, *context.DCtx, error) {
	cursor := iobuf.NewCursor(raw)
	h, err := ReadHeader(cursor)
	if err != nil {
		return Header{}, nil, err
	}
	ctx := context.NewDCtx(cursor, context.Options{
		ProtocolVersion:  h.ProtocolVersion,
		CommonFlags:      h.CommonFlags,
		DataFlags:        dataFlags,
		InterfaceVersion: interfaceVersion,
	})
	return h, ctx, nil
}
