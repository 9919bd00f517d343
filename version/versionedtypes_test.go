package version

import (
	"testing"

	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/ifacedesc"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/uuid"
)

// widgetV0 is the type's original wire shape: a single Name field,
// carried unchanged into the latest version (no field is renamed in
// this fixture).
type widgetV0 struct {
	Name string
}

func (w *widgetV0) SerializeBody(ctx *context.SCtx) error {
	processing.WriteString(ctx, w.Name)
	return nil
}

func (w *widgetV0) DeserializeBody(ctx *context.DCtx) error {
	s, err := processing.ReadString(ctx)
	if err != nil {
		return err
	}
	w.Name = s
	return nil
}

// widgetLatest is version 1: Name survives, Count is new and has no
// representation in v0 (the added-field conversion scenario).
type widgetLatest struct {
	Name  string
	Count int32
}

var widgetID = uuid.MustParse("8a2f1c44-9b3e-4a77-9c0a-1e6f2d7b5a10")

var widgetDescriptor = &ifacedesc.StructDescriptor{
	ID:              widgetID,
	LatestVersion:   1,
	PrivateVersions: []uint32{1, 0},
	Category:        ifacedesc.General,
}

func (w *widgetLatest) Descriptor() *ifacedesc.StructDescriptor { return widgetDescriptor }

func (w *widgetLatest) SerializeBody(ctx *context.SCtx) error {
	processing.WriteString(ctx, w.Name)
	return processing.WriteInt(ctx, 4, int64(w.Count))
}

func (w *widgetLatest) DeserializeBody(ctx *context.DCtx) error {
	s, err := processing.ReadString(ctx)
	if err != nil {
		return err
	}
	c, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	w.Name = s
	w.Count = int32(c)
	return nil
}

var widgetChain = &Chain{
	Steps: []Step{
		{
			Version: 0,
			NewWire: func() body.Body { return &widgetV0{} },
			Down: func(higher interface{}) (body.Body, error) {
				latest := higher.(*widgetLatest)
				// Count was added in v1; it has no v0 representation and
				// is dropped going down.
				return &widgetV0{Name: latest.Name}, nil
			},
			Up: func(wire body.Body) (interface{}, error) {
				v0 := wire.(*widgetV0)
				return &widgetLatest{Name: v0.Name, Count: 0}, nil
			},
		},
	},
	ApplyToLatest: func(final interface{}, dest body.Versioned) error {
		*dest.(*widgetLatest) = *final.(*widgetLatest)
		return nil
	},
}

func init() {
	Register(widgetID, widgetChain)
}

func TestChainSerializeDownDropsAddedField(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{InterfaceVersion: 0})
	w := &widgetLatest{Name: "gadget", Count: 42}

	if err := processing.SerializeStruct(sctx, w); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	cursor := iobuf.NewCursor(sink.Bytes())
	dctx := context.NewDCtx(cursor, context.Options{InterfaceVersion: 0})
	got := &widgetLatest{}
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if got.Name != "gadget" {
		t.Errorf("Name = %q, want %q", got.Name, "gadget")
	}
	if got.Count != 0 {
		t.Errorf("Count = %d, want 0 (dropped by v0 wire shape, not resurrected)", got.Count)
	}
}

func TestChainRoundTripAtLatestSkipsChain(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{InterfaceVersion: 1})
	w := &widgetLatest{Name: "gizmo", Count: 7}
	if err := processing.SerializeStruct(sctx, w); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	cursor := iobuf.NewCursor(sink.Bytes())
	dctx := context.NewDCtx(cursor, context.Options{InterfaceVersion: 1})
	got := &widgetLatest{}
	if err := processing.DeserializeStruct(dctx, got); err != nil {
		t.Fatalf("DeserializeStruct: %v", err)
	}
	if got.Name != w.Name || got.Count != w.Count {
		t.Errorf("got %+v, want %+v", got, w)
	}
}

func TestChainUnknownVersionFails(t *testing.T) {
	sink := iobuf.NewSink()
	sctx := context.NewSCtx(sink, context.Options{InterfaceVersion: 99})
	w := &widgetLatest{Name: "x"}
	// SerializeStruct refuses version 99, so the header declaring it is
	// written by hand ahead of the latest body.
	processing.WriteStructHeader(sctx, widgetID, sctx.InterfaceVersion)
	if err := w.SerializeBody(sctx); err != nil {
		t.Fatalf("SerializeBody: %v", err)
	}

	cursor := iobuf.NewCursor(sink.Bytes())
	dctx := context.NewDCtx(cursor, context.Options{InterfaceVersion: 99})
	got := &widgetLatest{}
	err := processing.DeserializeStruct(dctx, got)
	if status.CodeOf(err) != status.ErrorNotSupportedInterfaceVersion {
		t.Fatalf("err = %v, want ErrorNotSupportedInterfaceVersion", err)
	}
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name                          string
		localLatest, localMin, peer   uint32
		want                          uint32
		wantErr                       bool
	}{
		{"exact match", 2, 0, 2, 2, false},
		{"peer behind", 2, 0, 1, 1, false},
		{"peer ahead", 2, 0, 5, 2, false},
		{"below minimum", 2, 2, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Negotiate(tt.localLatest, tt.localMin, tt.peer)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Negotiate() = %d, want %d", got, tt.want)
			}
		})
	}
}
