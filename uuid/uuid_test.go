package uuid

import "testing"

func TestFromBytesRoundTrip(t *testing.T) {
	want := [16]byte{0xad, 0x46, 0xa0, 0xd2, 0x12, 0x34, 0x4a, 0x1b, 0x8c, 0x2d, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab}
	u := FromBytes(want[:])
	got := u.Bytes()
	if got != want {
		t.Fatalf("Bytes() round-trip mismatch: got %x want %x", got, want)
	}
}

func TestNilIsZero(t *testing.T) {
	var u Uuid
	if !u.IsNil() {
		t.Fatal("zero-value Uuid should be nil")
	}
	if !u.Equal(Nil) {
		t.Fatal("zero-value Uuid should equal Nil")
	}
}

func TestLessTotalOrder(t *testing.T) {
	a := FromBytes(make([]byte, 16))
	bBytes := make([]byte, 16)
	bBytes[15] = 1
	b := FromBytes(bBytes)

	if !a.Less(b) {
		t.Fatal("expected a < b")
	}
	if b.Less(a) {
		t.Fatal("expected !(b < a)")
	}
	if a.Less(a) {
		t.Fatal("expected !(a < a)")
	}
}

func TestUsableAsMapKey(t *testing.T) {
	m := map[Uuid]string{}
	a := New()
	m[a] = "first"
	if m[a] != "first" {
		t.Fatal("Uuid did not behave as a stable map key")
	}
}

func TestStringRoundTrip(t *testing.T) {
	a := New()
	s := a.String()
	b := MustParse(s)
	if !a.Equal(b) {
		t.Fatalf("String/MustParse round-trip mismatch: %s vs %s", a.String(), b.String())
	}
}
