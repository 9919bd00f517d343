// Package testtypes holds hand-written body.Body implementations
// standing in for "generated per-type body functions" (spec.md §9):
// an AlwaysSimplyAssignable type, a General type with a pointer field,
// a diamond-inheritance example and a dynamic-polymorphic example (the
// other categories have no example type here), exercising the scenarios
// from spec.md §8. Grounded on
// original_source/UnitTests/SerializableStructs/InterfaceForTest.
package testtypes

import (
	"unsafe"

	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/ifacedesc"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/uuid"
)

// Point is AlwaysSimplyAssignable: two fixed-width fields, always
// layout-compatible across targets, eligible for the raw-block fast
// path unless SimplyAssignableTagsOptimizationsAreTurnedOff is set
// (spec.md §3's category table).
type Point struct {
	X, Y int32
}

var PointDescriptor = &ifacedesc.StructDescriptor{
	ID:              uuid.MustParse("11111111-1111-4111-8111-111111111111"),
	LatestVersion:   0,
	PrivateVersions: []uint32{0},
	Category:        ifacedesc.AlwaysSimplyAssignable,
}

func (p *Point) Descriptor() *ifacedesc.StructDescriptor { return PointDescriptor }

func (p *Point) SerializeBody(ctx *context.SCtx) error {
	if processing.RawBlockEligible(PointDescriptor.Category, ctx.DataFlags) {
		return processing.WriteUintArray(ctx, 4, []uint64{uint64(uint32(p.X)), uint64(uint32(p.Y))})
	}
	if err := processing.WriteInt(ctx, 4, int64(p.X)); err != nil {
		return err
	}
	return processing.WriteInt(ctx, 4, int64(p.Y))
}

func (p *Point) DeserializeBody(ctx *context.DCtx) error {
	if processing.RawBlockEligible(PointDescriptor.Category, ctx.DataFlags) {
		vals, err := processing.ReadUintArray(ctx, 4, 2)
		if err != nil {
			return err
		}
		p.X, p.Y = int32(vals[0]), int32(vals[1])
		return nil
	}
	x, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	y, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	p.X, p.Y = int32(x), int32(y)
	return nil
}

// Labeled is General: it holds a nullable, dedup-eligible pointer,
// which rules out a raw-block emission (spec.md §4.2's pointer
// protocol).
type Labeled struct {
	Name  string
	Point *Point
}

var LabeledDescriptor = &ifacedesc.StructDescriptor{
	ID:              uuid.MustParse("22222222-2222-4222-8222-222222222222"),
	LatestVersion:   0,
	PrivateVersions: []uint32{0},
	Category:        ifacedesc.General,
}

func (l *Labeled) Descriptor() *ifacedesc.StructDescriptor { return LabeledDescriptor }

func (l *Labeled) SerializeBody(ctx *context.SCtx) error {
	processing.WriteString(ctx, l.Name)
	var p unsafe.Pointer
	if l.Point != nil {
		p = unsafe.Pointer(l.Point)
	}
	return processing.WritePointer(ctx, p, func() error {
		return l.Point.SerializeBody(ctx)
	})
}

func (l *Labeled) DeserializeBody(ctx *context.DCtx) error {
	name, err := processing.ReadString(ctx)
	if err != nil {
		return err
	}
	l.Name = name
	ptr, err := processing.ReadPointer(ctx, func() (unsafe.Pointer, func(), error) {
		pt := &Point{}
		if err := pt.DeserializeBody(ctx); err != nil {
			return nil, nil, err
		}
		return unsafe.Pointer(pt), func() {}, nil
	})
	if err != nil {
		return err
	}
	if ptr != nil {
		l.Point = (*Point)(ptr)
	}
	return nil
}
