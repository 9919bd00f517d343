package message

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/uuid"
)

// StatusBody is the payload of a Kind=Status message: a status.Code
// plus an opaque Tail whose shape depends on Code (spec.md §4.5/§7).
// ProtocolMismatchTail and InterfaceMismatchTail are the two typed
// tails spec.md names; any other code carries an empty Tail.
type StatusBody struct {
	Code status.Code
	Tail []byte
}

// Write appends s to ctx's sink.
func (s *StatusBody) Write(ctx *context.SCtx) {
	ctx.Sink.AppendUint32(uint32(s.Code), ctx.Swap())
	processing.WriteBytes(ctx, s.Tail)
}

// ReadStatusBody reads a StatusBody from ctx's cursor.
func ReadStatusBody(ctx *context.DCtx) (*StatusBody, error) {
	codeRaw, err := ctx.Cursor.ReadUint32(ctx.Swap())
	if err != nil {
		return nil, err
	}
	tail, err := processing.ReadBytes(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusBody{Code: status.Code(codeRaw), Tail: tail}, nil
}

// ProtocolMismatchTail accompanies ErrorNotSupportedProtocolVersion: the
// list of protocol versions the responder actually supports.
type ProtocolMismatchTail struct {
	Supported []uint8
}

// EncodeProtocolMismatchTail renders t as a StatusBody.Tail.
func EncodeProtocolMismatchTail(t ProtocolMismatchTail, common flags.CommonFlags) []byte {
	sink := iobuf.NewSink()
	ctx := context.NewSCtx(sink, context.Options{CommonFlags: common})
	ctx.WriteSizeT(len(t.Supported))
	for _, v := range t.Supported {
		ctx.Sink.AppendUint8(v)
	}
	return sink.Bytes()
}

// DecodeProtocolMismatchTail parses a StatusBody.Tail produced by
// EncodeProtocolMismatchTail.
func DecodeProtocolMismatchTail(tail []byte, common flags.CommonFlags) (*ProtocolMismatchTail, error) {
	cursor := iobuf.NewCursor(tail)
	ctx := context.NewDCtx(cursor, context.Options{CommonFlags: common})
	n, err := ctx.ReadSizeT()
	if err != nil {
		return nil, err
	}
	out := make([]uint8, n)
	for i := range out {
		b, err := ctx.Cursor.ReadUint8()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return &ProtocolMismatchTail{Supported: out}, nil
}

// InterfaceMismatchTail accompanies ErrorNotSupportedInterfaceVersion:
// the lowest version the responder still supports and the identity of
// the struct the mismatch was detected on.
type InterfaceMismatchTail struct {
	MinSupported uint32
	OutputTypeID uuid.Uuid
}

// EncodeInterfaceMismatchTail renders t as a StatusBody.Tail.
func EncodeInterfaceMismatchTail(t InterfaceMismatchTail, common flags.CommonFlags) []byte {
	sink := iobuf.NewSink()
	ctx := context.NewSCtx(sink, context.Options{CommonFlags: common})
	ctx.Sink.AppendUint32(t.MinSupported, ctx.Swap())
	id := t.OutputTypeID.Bytes()
	ctx.Sink.AppendBytes(id[:])
	return sink.Bytes()
}

// DecodeInterfaceMismatchTail parses a StatusBody.Tail produced by
// EncodeInterfaceMismatchTail.
func DecodeInterfaceMismatchTail(tail []byte, common flags.CommonFlags) (*InterfaceMismatchTail, error) {
	cursor := iobuf.NewCursor(tail)
	ctx := context.NewDCtx(cursor, context.Options{CommonFlags: common})
	minSupported, err := ctx.Cursor.ReadUint32(ctx.Swap())
	if err != nil {
		return nil, err
	}
	idBytes, err := ctx.Cursor.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	return &InterfaceMismatchTail{MinSupported: minSupported, OutputTypeID: uuid.FromBytes(idBytes)}, nil
}
