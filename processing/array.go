package processing

import (
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
)

// WriteUintArray writes a fixed-size array of width-byte unsigned
// integers. With SizeOfIntegersMayBeNotEqual inactive the array
// collapses to one untagged write per element — the bulk fast path
// spec.md §4.2 allows for category-eligible fixed arrays; otherwise
// every element falls back to the fully tagged WriteUint.
func WriteUintArray(ctx *context.SCtx, width int, vals []uint64) error {
	if ctx.DataFlags.Has(flags.SizeOfIntegersMayBeNotEqual) {
		for _, v := range vals {
			if err := WriteUint(ctx, width, v); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range vals {
		if err := writeRawByWidth(ctx, width, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadUintArray reads n width-byte unsigned integers, mirroring
// WriteUintArray.
func ReadUintArray(ctx *context.DCtx, width int, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := ReadUint(ctx, width)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
