// Package settings implements CspPartySettings (spec.md §4.6): the
// capability declaration a client and server exchange during
// GetSettings, independent of any single struct's own version chain.
package settings

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/uuid"
)

// InterfaceVersions is one party's declared support window for a
// single struct identity.
type InterfaceVersions struct {
	Latest             uint32
	MinSupported       uint32
	MandatoryDataFlags flags.DataFlags
	ForbiddenDataFlags flags.DataFlags
}

// CspPartySettings is one party's full capability declaration:
// supported protocol versions in descending preference, the common
// flags it requires/refuses, and per-struct version windows.
//
// This is deliberately not a body.Versioned processed through
// processing.SerializeStruct: it is the protocol-level structure that
// negotiation uses to decide what struct versions and flags are even
// legal afterward, so it cannot itself depend on an already-negotiated
// session (spec.md §4.6 step 1, "before any Data exchange").
type CspPartySettings struct {
	ProtocolVersions      []uint8
	MandatoryCommonFlags  flags.CommonFlags
	ForbiddenCommonFlags  flags.CommonFlags
	Interfaces            map[uuid.Uuid]InterfaceVersions
}

// Write appends s to ctx's sink.
func (s *CspPartySettings) Write(ctx *context.SCtx) {
	ctx.WriteSizeT(len(s.ProtocolVersions))
	for _, v := range s.ProtocolVersions {
		ctx.Sink.AppendUint8(v)
	}
	ctx.Sink.AppendUint16(uint16(s.MandatoryCommonFlags), ctx.Swap())
	ctx.Sink.AppendUint16(uint16(s.ForbiddenCommonFlags), ctx.Swap())
	ctx.WriteSizeT(len(s.Interfaces))
	for id, iv := range s.Interfaces {
		b := id.Bytes()
		ctx.Sink.AppendBytes(b[:])
		ctx.Sink.AppendUint32(iv.Latest, ctx.Swap())
		ctx.Sink.AppendUint32(iv.MinSupported, ctx.Swap())
		ctx.Sink.AppendUint32(uint32(iv.MandatoryDataFlags), ctx.Swap())
		ctx.Sink.AppendUint32(uint32(iv.ForbiddenDataFlags), ctx.Swap())
	}
}

// ReadCspPartySettings reads a CspPartySettings from ctx's cursor.
func ReadCspPartySettings(ctx *context.DCtx) (*CspPartySettings, error) {
	n, err := ctx.ReadSizeT()
	if err != nil {
		return nil, err
	}
	protocolVersions := make([]uint8, n)
	for i := range protocolVersions {
		b, err := ctx.Cursor.ReadUint8()
		if err != nil {
			return nil, err
		}
		protocolVersions[i] = b
	}
	mandatory, err := ctx.Cursor.ReadUint16(ctx.Swap())
	if err != nil {
		return nil, err
	}
	forbidden, err := ctx.Cursor.ReadUint16(ctx.Swap())
	if err != nil {
		return nil, err
	}
	m, err := ctx.ReadSizeT()
	if err != nil {
		return nil, err
	}
	interfaces := make(map[uuid.Uuid]InterfaceVersions, m)
	for i := 0; i < m; i++ {
		idBytes, err := ctx.Cursor.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		latest, err := ctx.Cursor.ReadUint32(ctx.Swap())
		if err != nil {
			return nil, err
		}
		minSupported, err := ctx.Cursor.ReadUint32(ctx.Swap())
		if err != nil {
			return nil, err
		}
		mandatoryData, err := ctx.Cursor.ReadUint32(ctx.Swap())
		if err != nil {
			return nil, err
		}
		forbiddenData, err := ctx.Cursor.ReadUint32(ctx.Swap())
		if err != nil {
			return nil, err
		}
		interfaces[uuid.FromBytes(idBytes)] = InterfaceVersions{
			Latest:             latest,
			MinSupported:       minSupported,
			MandatoryDataFlags: flags.DataFlags(mandatoryData),
			ForbiddenDataFlags: flags.DataFlags(forbiddenData),
		}
	}
	return &CspPartySettings{
		ProtocolVersions:     protocolVersions,
		MandatoryCommonFlags: flags.CommonFlags(mandatory),
		ForbiddenCommonFlags: flags.CommonFlags(forbidden),
		Interfaces:           interfaces,
	}, nil
}
