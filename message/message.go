// Package message implements CSP's envelope framing and the three
// message kinds client and server exchange (spec.md §4.5–§4.6): a
// fixed 5-byte header, a Data body carrying one serialized struct, a
// Status body carrying a status.Code and an optional typed tail, and
// GetSettings, whose request and reply both carry a CspPartySettings
// value written directly after the header (no Data body; the server's
// settings come back in a GetSettings-kind message, not a Data one).
package message

import (
	"fmt"

	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
)

// Kind identifies which body follows the header.
type Kind uint16

const (
	KindStatus Kind = iota
	KindData
	KindGetSettings
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "Status"
	case KindData:
		return "Data"
	case KindGetSettings:
		return "GetSettings"
	default:
		return fmt.Sprintf("Kind(%d)", uint16(k))
	}
}

// HeaderSize is the fixed wire size of Header.
const HeaderSize = 5

// Header is CSP's envelope prelude: protocolVersion(u8) + commonFlags(u16)
// + messageKind(u16), always written in a fixed byte order (spec.md
// §4.5 "platform-neutral") since a receiver must be able to parse it
// before it learns what endianness the sender is using.
type Header struct {
	ProtocolVersion uint8
	CommonFlags     flags.CommonFlags
	Kind            Kind
}

// WriteHeader appends h to sink.
func WriteHeader(sink *iobuf.Sink, h Header) {
	sink.AppendUint8(h.ProtocolVersion)
	sink.AppendUint16(uint16(h.CommonFlags), false)
	sink.AppendUint16(uint16(h.Kind), false)
}

// ReadHeader reads a Header from cursor.
func ReadHeader(cursor *iobuf.Cursor) (Header, error) {
	pv, err := cursor.ReadUint8()
	if err != nil {
		return Header{}, err
	}
	cf, err := cursor.ReadUint16(false)
	if err != nil {
		return Header{}, err
	}
	k, err := cursor.ReadUint16(false)
	if err != nil {
		return Header{}, err
	}
	return Header{ProtocolVersion: pv, CommonFlags: flags.CommonFlags(cf), Kind: Kind(k)}, nil
}
