// Package version implements CSP's version-translation layer (spec.md
// §4.4): per-type chains of private versions bridged by bidirectional
// converters, and the negotiation arithmetic that picks a target
// version from a client's and server's declared latest/minimum.
package version

import (
	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/uuid"
)

// Step bridges one type's two adjacent private versions. Version is
// the lower (older) of the pair.
type Step struct {
	Version uint32
	// NewWire constructs a zero-value instance of Version's own wire
	// shape, ready for DeserializeBody.
	NewWire func() body.Body
	// Down converts the adjacent higher-version value (either the
	// type's latest value on the first step, or the previous step's
	// wire value) into this step's wire value.
	Down func(higher interface{}) (body.Body, error)
	// Up converts this step's populated wire value into the adjacent
	// higher-version value: the next step's wire value, or — for the
	// step closest to Latest — the type's latest value itself.
	Up func(wire body.Body) (interface{}, error)
}

// Chain is one type's ordered private-version chain, Steps sorted
// descending by Version (Steps[0] is the version just below latest).
type Chain struct {
	Steps []Step
	// ApplyToLatest copies the fully up-converted value (the result of
	// the chain's final Up call) into dest.
	ApplyToLatest func(final interface{}, dest body.Versioned) error
}

// SerializeDown implements processing.ChainTranslator's write side:
// converts latest down to target's wire shape, then serializes it.
func (c *Chain) SerializeDown(ctx *context.SCtx, target uint32, latest body.Versioned) error {
	var current interface{} = latest
	for _, step := range c.Steps {
		wire, err := step.Down(current)
		if err != nil {
			return err
		}
		if step.Version == target {
			return wire.SerializeBody(ctx)
		}
		current = wire
	}
	return status.New(status.ErrorNoSuchHandler, "version chain has no converter reaching version %d", target)
}

// DeserializeUp implements processing.ChainTranslator's read side:
// decodes target's wire shape, then converts it up to latest and
// applies the result to dest.
func (c *Chain) DeserializeUp(ctx *context.DCtx, target uint32, dest body.Versioned) error {
	idx := -1
	for i, step := range c.Steps {
		if step.Version == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return status.New(status.ErrorNoSuchHandler, "version chain has no converter reaching version %d", target)
	}
	wire := c.Steps[idx].NewWire()
	if err := wire.DeserializeBody(ctx); err != nil {
		return err
	}
	var current interface{} = wire
	for i := idx; i >= 0; i-- {
		cur, ok := current.(body.Body)
		if !ok {
			return status.New(status.ErrorInternal, "version chain step %d produced a non-Body intermediate value", i)
		}
		up, err := c.Steps[i].Up(cur)
		if err != nil {
			return err
		}
		current = up
	}
	return c.ApplyToLatest(current, dest)
}

// Register associates id with its chain and wires it into package
// processing's translator lookup. processing never imports version;
// this is the one-directional registration spec.md §4.4's translator
// collaborator needs. Intended to be called once per versioned type,
// from that type's package-level init.
func Register(id uuid.Uuid, c *Chain) {
	processing.RegisterChain(id, c)
}
