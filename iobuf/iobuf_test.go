package iobuf

import "testing"

func TestSinkCursorRoundTripNoSwap(t *testing.T) {
	s := NewSink()
	s.AppendUint8(0x7f)
	s.AppendUint16(0x0102, false)
	s.AppendUint32(0x01020304, false)
	s.AppendUint64(0x0102030405060708, false)
	s.AppendBytes([]byte("hello"))

	c := NewCursor(s.Bytes())
	if b, err := c.ReadUint8(); err != nil || b != 0x7f {
		t.Fatalf("ReadUint8 = %v, %v", b, err)
	}
	if v, err := c.ReadUint16(false); err != nil || v != 0x0102 {
		t.Fatalf("ReadUint16 = %#x, %v", v, err)
	}
	if v, err := c.ReadUint32(false); err != nil || v != 0x01020304 {
		t.Fatalf("ReadUint32 = %#x, %v", v, err)
	}
	if v, err := c.ReadUint64(false); err != nil || v != 0x0102030405060708 {
		t.Fatalf("ReadUint64 = %#x, %v", v, err)
	}
	rest, err := c.ReadBytes(5)
	if err != nil || string(rest) != "hello" {
		t.Fatalf("ReadBytes = %q, %v", rest, err)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected cursor exhausted, %d bytes remain", c.Remaining())
	}
}

func TestSinkCursorRoundTripSwapped(t *testing.T) {
	s := NewSink()
	s.AppendUint64(0x0123456789ABCDEF, true)

	want := []byte{0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}
	if got := s.Bytes(); string(got) != string(want) {
		t.Fatalf("swapped wire bytes = % x, want % x", got, want)
	}

	c := NewCursor(s.Bytes())
	v, err := c.ReadUint64(true)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x0123456789ABCDEF {
		t.Fatalf("ReadUint64(swap) = %#x, want %#x", v, 0x0123456789ABCDEF)
	}
}

func TestCursorOverflow(t *testing.T) {
	c := NewCursor([]byte{1, 2})
	if _, err := c.ReadBytes(3); err == nil {
		t.Fatal("expected overflow error reading past end")
	}
}

func TestSinkGrowBeyondInitialCapacity(t *testing.T) {
	s := NewSink()
	big := make([]byte, minFree*3)
	for i := range big {
		big[i] = byte(i)
	}
	s.AppendBytes(big)
	if s.Len() != len(big) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(big))
	}
	got := s.Bytes()
	for i := range big {
		if got[i] != big[i] {
			t.Fatalf("byte %d mismatch after growth", i)
		}
	}
}
