package testtypes

import (
	"testing"

	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/status"
	"github.com/go-test/deep"
)

func TestPointRawBlockRoundTrip(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{})
	want := &Point{X: 3, Y: -7}
	if err := processing.SerializeStruct(sctx, want); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	dctx := context.NewDCtx(iobuf.NewCursor(sink.Bytes()), context.Options{})
	got := &Point{}
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("round trip mismatch: %v", diff)
	}
}

func TestPointTaggedPathRoundTrip(t *testing.T) {
	opts := context.Options{DataFlags: flags.SizeOfIntegersMayBeNotEqual}
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, opts)
	want := &Point{X: 100, Y: 200}
	if err := processing.SerializeStruct(sctx, want); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	dctx := context.NewDCtx(iobuf.NewCursor(sink.Bytes()), opts)
	got := &Point{}
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("round trip mismatch: %v", diff)
	}
}

func TestLabeledPointerAliasingDedup(t *testing.T) {
	opts := context.Options{DataFlags: flags.CheckRecursivePointers}
	shared := &Point{X: 1, Y: 2}
	// Two distinct Labeled values pointing at the same Point; encoding
	// them back to back through one SCtx must emit the pointee once and
	// a back-reference the second time (spec.md §8 scenario 3).
	a := &Labeled{Name: "a", Point: shared}
	b := &Labeled{Name: "b", Point: shared}

	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, opts)
	if err := processing.SerializeStruct(sctx, a); err != nil {
		t.Fatalf("serialize a: %v", err)
	}
	if err := processing.SerializeStruct(sctx, b); err != nil {
		t.Fatalf("serialize b: %v", err)
	}

	cursor := iobuf.NewCursor(sink.Bytes())
	dctx := context.NewDCtx(cursor, opts)
	gotA := &Labeled{}
	if err := processing.DeserializeStruct(dctx, gotA); err != nil {
		t.Fatalf("deserialize a: %v", err)
	}
	gotB := &Labeled{}
	if err := processing.DeserializeStruct(dctx, gotB); err != nil {
		t.Fatalf("deserialize b: %v", err)
	}
	dctx.Finish()

	if gotA.Point == nil || gotB.Point == nil {
		t.Fatal("expected both Points to be non-nil")
	}
	if gotA.Point != gotB.Point {
		t.Error("expected the back-reference to resolve to the same allocated Point")
	}
	if dctx.AddedPointers.Len() != 1 {
		t.Errorf("AddedPointers.Len() = %d, want 1 (pointee allocated exactly once)", dctx.AddedPointers.Len())
	}
}

func TestLabeledNilPointer(t *testing.T) {
	opts := context.Options{DataFlags: flags.CheckRecursivePointers}
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, opts)
	want := &Labeled{Name: "solo"}
	if err := processing.SerializeStruct(sctx, want); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	dctx := context.NewDCtx(iobuf.NewCursor(sink.Bytes()), opts)
	got := &Labeled{}
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if got.Point != nil {
		t.Errorf("Point = %+v, want nil", got.Point)
	}
}

func TestLabeledPointerWithoutFlagsFails(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{})
	v := &Labeled{Name: "x", Point: &Point{X: 1, Y: 1}}
	err := processing.SerializeStruct(sctx, v)
	if status.CodeOf(err) != status.ErrorNotSupportedSerializationSettingsForStruct {
		t.Fatalf("err = %v, want ErrorNotSupportedSerializationSettingsForStruct", err)
	}
}

func TestDiamondRoundTrip(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{})
	want := NewDiamondMost()
	want.Base().ID = 9
	want.EdgeA().Left = "left"
	want.EdgeB().Right = 11
	want.Tip = 99
	if err := processing.SerializeStruct(sctx, want); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	dctx := context.NewDCtx(iobuf.NewCursor(sink.Bytes()), context.Options{})
	got := NewDiamondMost()
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if got.Base().ID != 9 || got.EdgeA().Left != "left" || got.EdgeB().Right != 11 || got.Tip != 99 {
		t.Errorf("got %+v %+v %+v tip=%d", got.Base(), got.EdgeA(), got.EdgeB(), got.Tip)
	}
}

func TestDynamicDispatchRoundTrip(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{})
	shapes := []processing.Identified{&Circle{Radius: 5}, &Square{Side: 3}}
	for _, s := range shapes {
		if err := processing.WriteDynamic(sctx, s); err != nil {
			t.Fatalf("WriteDynamic: %v", err)
		}
	}

	dctx := context.NewDCtx(iobuf.NewCursor(sink.Bytes()), context.Options{})
	got0, err := processing.ReadDynamic(dctx)
	if err != nil {
		t.Fatalf("ReadDynamic: %v", err)
	}
	circle, ok := got0.(*Circle)
	if !ok || circle.Radius != 5 {
		t.Errorf("got0 = %+v, want *Circle{Radius:5}", got0)
	}
	got1, err := processing.ReadDynamic(dctx)
	if err != nil {
		t.Fatalf("ReadDynamic: %v", err)
	}
	square, ok := got1.(*Square)
	if !ok || square.Side != 3 {
		t.Errorf("got1 = %+v, want *Square{Side:3}", got1)
	}
}
