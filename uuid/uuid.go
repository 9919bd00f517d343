// Package uuid defines CSP's 128-bit identity type, used as struct
// identity and interface identity throughout the protocol.
//
// The wire representation is always 16 big-endian bytes, independent of
// the session's negotiated endianness: identity bytes are never
// byte-swapped (see common_serialization's Uuid.h, which stores the
// value "in BigEndian order" regardless of host layout).
package uuid

import (
	"fmt"

	satori "github.com/satori/go.uuid"
)

// Uuid is a 128-bit identifier with a defined total order and hash,
// suitable for use as a Go map key.
type Uuid struct {
	hi, lo uint64
}

// Nil is the zero-value identity, analogous to common_serialization's
// kNullUuid.
var Nil Uuid

// New generates a fresh random (v4) identity.
func New() Uuid {
	raw := satori.NewV4()
	return FromBytes(raw.Bytes())
}

// FromBytes interprets b (which must be 16 bytes, big-endian) as a Uuid.
func FromBytes(b []byte) Uuid {
	if len(b) != 16 {
		panic(fmt.Sprintf("uuid: FromBytes requires 16 bytes, got %d", len(b)))
	}
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(b[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(b[i])
	}
	return Uuid{hi: hi, lo: lo}
}

// MustParse parses the canonical string form (e.g.
// "ad46a0d2-1234-4a1b-8c2d-0123456789ab"), panicking on malformed input.
// Intended for use in package-level StructDescriptor tables, where the
// id is a compile-time constant.
func MustParse(s string) Uuid {
	parsed, err := satori.FromString(s)
	if err != nil {
		panic("uuid: MustParse: " + err.Error())
	}
	return FromBytes(parsed.Bytes())
}

// Bytes returns the 16-byte big-endian wire form.
func (u Uuid) Bytes() [16]byte {
	var out [16]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(u.hi >> uint(8*(7-i)))
	}
	for i := 0; i < 8; i++ {
		out[8+i] = byte(u.lo >> uint(8*(7-i)))
	}
	return out
}

// String renders the canonical 8-4-4-4-12 hex form.
func (u Uuid) String() string {
	b := u.Bytes()
	return satori.UUID(b).String()
}

// IsNil reports whether u is the zero identity.
func (u Uuid) IsNil() bool {
	return u == Nil
}

// Equal reports whether u and other identify the same value.
func (u Uuid) Equal(other Uuid) bool {
	return u == other
}

// Less defines Uuid's total order: compare the high 64 bits first, then
// the low 64 bits, matching common_serialization's big-endian-aware
// operator< (the Go type here has no host-endianness ambiguity since
// hi/lo are already interpreted as big-endian on construction).
func (u Uuid) Less(other Uuid) bool {
	if u.hi != other.hi {
		return u.hi < other.hi
	}
	return u.lo < other.lo
}

// Hash returns a value suitable for use alongside Go's built-in map
// hashing; Uuid is itself comparable and usable directly as a map key,
// this is provided for callers building their own hash tables.
func (u Uuid) Hash() uint64 {
	return u.hi ^ u.lo
}
