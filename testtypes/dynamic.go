package testtypes

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/ifacedesc"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/typeregistry"
	"github.com/andreygs/csp/uuid"
)

// Circle and Square are two dynamically polymorphic types sharing no
// common struct layout beyond both being processing.Identified: the
// decoder learns which one it is looking at from the leading type tag
// (spec.md §4.3's dynamic polymorphic dispatch, standing in for a
// C++ vtable).
type Circle struct {
	Radius int32
}

var circleID = uuid.MustParse("44444444-4444-4444-8444-444444444444")

func (c *Circle) TypeID() uuid.Uuid { return circleID }

func (c *Circle) SerializeBody(ctx *context.SCtx) error {
	return processing.WriteInt(ctx, 4, int64(c.Radius))
}

func (c *Circle) DeserializeBody(ctx *context.DCtx) error {
	v, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	c.Radius = int32(v)
	return nil
}

type Square struct {
	Side int32
}

var squareID = uuid.MustParse("55555555-5555-4555-8555-555555555555")

func (s *Square) TypeID() uuid.Uuid { return squareID }

func (s *Square) SerializeBody(ctx *context.SCtx) error {
	return processing.WriteInt(ctx, 4, int64(s.Side))
}

func (s *Square) DeserializeBody(ctx *context.DCtx) error {
	v, err := processing.ReadInt(ctx, 4)
	if err != nil {
		return err
	}
	s.Side = int32(v)
	return nil
}

var circleDescriptor = &ifacedesc.StructDescriptor{
	ID:              circleID,
	LatestVersion:   0,
	PrivateVersions: []uint32{0},
	Category:        ifacedesc.General,
	PolymorphicKind: ifacedesc.DynamicPolymorphic,
}

var squareDescriptor = &ifacedesc.StructDescriptor{
	ID:              squareID,
	LatestVersion:   0,
	PrivateVersions: []uint32{0},
	Category:        ifacedesc.General,
	PolymorphicKind: ifacedesc.DynamicPolymorphic,
}

func init() {
	typeregistry.Register(circleDescriptor, func() interface{} { return &Circle{} })
	typeregistry.Register(squareDescriptor, func() interface{} { return &Square{} })
}
