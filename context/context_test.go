package context

import (
	"testing"
	"unsafe"

	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
)

func TestPointerMapsNilUnlessRequested(t *testing.T) {
	sctx := NewSCtx(iobuf.NewSink(), Options{})
	if sctx.Pointers != nil {
		t.Fatal("SCtx.Pointers should be nil without CheckRecursivePointers")
	}

	sctx2 := NewSCtx(iobuf.NewSink(), Options{DataFlags: flags.CheckRecursivePointers})
	if sctx2.Pointers == nil {
		t.Fatal("SCtx.Pointers should be allocated with CheckRecursivePointers")
	}
}

func TestSPointerMapDedup(t *testing.T) {
	m := newSPointerMap()
	x := 42
	p := unsafe.Pointer(&x)

	if _, ok := m.Lookup(p); ok {
		t.Fatal("fresh map should have no entries")
	}
	m.Record(p, 17)
	off, ok := m.Lookup(p)
	if !ok || off != 17 {
		t.Fatalf("Lookup after Record = %d, %v; want 17, true", off, ok)
	}
}

func TestRegistryReleaseRunsAllCleanups(t *testing.T) {
	r := &Registry{}
	count := 0
	r.Add(func() { count++ })
	r.Add(func() { count++ })
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	r.Release()
	if count != 2 {
		t.Fatalf("expected both cleanups to run, ran %d", count)
	}
	if r.Len() != 0 {
		t.Fatal("Release should empty the registry")
	}
}

func TestFinishTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double Finish")
		}
	}()
	sctx := NewSCtx(iobuf.NewSink(), Options{})
	sctx.Finish()
	sctx.Finish()
}
