package testtypes

import (
	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/ifacedesc"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/uuid"
)

// DiamondBase is the shared base two independently-derived edges both
// inherit from in the original C++ model (common_serialization's
// diamond-inheritance case, spec.md §4.3).
type DiamondBase struct {
	ID int32
}

func (b *DiamondBase) SerializeBody(ctx *context.SCtx) error {
	return processing.WriteInt(ctx, 4, int64(b.ID))
}

func (b *DiamondBase) DeserializeBody(ctx *context.DCtx) error {
	v, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	b.ID = int32(v)
	return nil
}

// DiamondEdgeA and DiamondEdgeB are the diamond's two branches: each
// adds its own field beyond the shared DiamondBase.
type DiamondEdgeA struct {
	Left string
}

func (e *DiamondEdgeA) SerializeBody(ctx *context.SCtx) error {
	processing.WriteString(ctx, e.Left)
	return nil
}

func (e *DiamondEdgeA) DeserializeBody(ctx *context.DCtx) error {
	s, err := processing.ReadString(ctx)
	if err != nil {
		return err
	}
	e.Left = s
	return nil
}

type DiamondEdgeB struct {
	Right int32
}

func (e *DiamondEdgeB) SerializeBody(ctx *context.SCtx) error {
	return processing.WriteInt(ctx, 4, int64(e.Right))
}

func (e *DiamondEdgeB) DeserializeBody(ctx *context.DCtx) error {
	v, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	e.Right = int32(v)
	return nil
}

// DiamondMost is the most-derived type: it embeds a
// processing.DiamondLayout composing the shared base and both edges
// (spec.md §9's "model diamond inheritance as composition") instead of
// each edge carrying its own copy of DiamondBase.
type DiamondMost struct {
	Layout processing.DiamondLayout
	Tip    int32
}

var DiamondMostDescriptor = &ifacedesc.StructDescriptor{
	ID:              uuid.MustParse("33333333-3333-4333-8333-333333333333"),
	LatestVersion:   0,
	PrivateVersions: []uint32{0},
	Category:        ifacedesc.General,
	PolymorphicKind: ifacedesc.DiamondVirtualBase,
}

// NewDiamondMost returns a zero-valued DiamondMost with its base and
// edges allocated, ready for DeserializeBody.
func NewDiamondMost() *DiamondMost {
	return &DiamondMost{
		Layout: processing.DiamondLayout{
			Base:  &DiamondBase{},
			Edges: []body.Body{&DiamondEdgeA{}, &DiamondEdgeB{}},
		},
	}
}

func (d *DiamondMost) Descriptor() *ifacedesc.StructDescriptor { return DiamondMostDescriptor }

func (d *DiamondMost) Base() *DiamondBase    { return d.Layout.Base.(*DiamondBase) }
func (d *DiamondMost) EdgeA() *DiamondEdgeA  { return d.Layout.Edges[0].(*DiamondEdgeA) }
func (d *DiamondMost) EdgeB() *DiamondEdgeB  { return d.Layout.Edges[1].(*DiamondEdgeB) }

func (d *DiamondMost) SerializeBody(ctx *context.SCtx) error {
	if err := d.Layout.SerializeBody(ctx); err != nil {
		return err
	}
	return processing.WriteInt(ctx, 4, int64(d.Tip))
}

func (d *DiamondMost) DeserializeBody(ctx *context.DCtx) error {
	if err := d.Layout.DeserializeBody(ctx); err != nil {
		return err
	}
	v, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	d.Tip = int32(v)
	return nil
}
