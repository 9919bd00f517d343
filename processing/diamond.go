package processing

import (
	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
)

// DiamondLayout models a virtually-inherited shared base the way
// spec.md §9's redesign guidance recommends: as composition rather
// than a language-level virtual base. A most-derived type embeds one
// DiamondLayout (alongside its own fields) instead of separately
// embedding each edge's copy of the base.
//
// Base is emitted/decoded exactly once; Edges are walked left to
// right afterward, each contributing only the fields it adds beyond
// Base (spec.md §4.3's diamond-inheritance case).
type DiamondLayout struct {
	Base  body.Body
	Edges []body.Body
}

// SerializeBody implements body.Body so a most-derived type's own
// SerializeBody can simply delegate to its embedded DiamondLayout
// before emitting its own additional fields.
func (d *DiamondLayout) SerializeBody(ctx *context.SCtx) error {
	if err := d.Base.SerializeBody(ctx); err != nil {
		return err
	}
	for _, edge := range d.Edges {
		if err := edge.SerializeBody(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeBody mirrors SerializeBody.
func (d *DiamondLayout) DeserializeBody(ctx *context.DCtx) error {
	if err := d.Base.DeserializeBody(ctx); err != nil {
		return err
	}
	for _, edge := range d.Edges {
		if err := edge.DeserializeBody(ctx); err != nil {
			return err
		}
	}
	return nil
}
