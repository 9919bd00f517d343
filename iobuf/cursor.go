package iobuf

import "github.com/andreygs/csp/status"

// Cursor is a read cursor over an in-memory byte slice.
//
// Go gives no portable way to observe the host's actual hardware
// endianness, so "host-endian" (spec.md §4.1's default) is defined
// here as big-endian; CommonFlags.EndiannessDifference toggles to the
// reversed (little-endian) byte order. Both peers agree on which
// convention is in force via the negotiated CommonFlags, so this
// choice is invisible to round-trip correctness — it only matters when
// comparing wire bytes against a C++ peer that really does run
// little-endian natively, which is why EndiannessDifference exists.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps b for reading.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Tell returns the current read position.
func (c *Cursor) Tell() int { return c.pos }

// Seek moves the read position to pos.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return status.New(status.ErrorOverflow, "seek to %d out of range [0,%d]", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// ReadBytes returns the next n bytes and advances the cursor. The
// returned slice aliases the underlying buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, status.New(status.ErrorOverflow, "need %d bytes, have %d", n, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// PeekBytes is like ReadBytes but does not advance the cursor.
func (c *Cursor) PeekBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, status.New(status.ErrorOverflow, "need %d bytes, have %d", n, c.Remaining())
	}
	return c.buf[c.pos : c.pos+n], nil
}

// ReadUint8 reads a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 2-byte integer in the given byte order.
func (c *Cursor) ReadUint16(swap bool) (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	if swap {
		return uint16(b[0]) | uint16(b[1])<<8, nil
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint32 reads a 4-byte integer in the given byte order.
func (c *Cursor) ReadUint32(swap bool) (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	if swap {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadUint64 reads an 8-byte integer in the given byte order.
func (c *Cursor) ReadUint64(swap bool) (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	if swap {
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(b[i])
		}
	}
	return v, nil
}
