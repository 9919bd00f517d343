package processing

import (
	"math"

	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/status"
)

// WriteUint writes v, a value that fits in width bytes (1, 2, 4 or 8),
// honoring SizeOfIntegersMayBeNotEqual: when active, a 1-byte width tag
// precedes the value so a receiver with a different native width can
// still decode it (spec.md §4.2).
func WriteUint(ctx *context.SCtx, width int, v uint64) error {
	if ctx.DataFlags.Has(flags.SizeOfIntegersMayBeNotEqual) {
		ctx.Sink.AppendUint8(uint8(width))
	}
	return writeRawByWidth(ctx, width, v)
}

// WriteInt writes the two's-complement encoding of v in width bytes.
func WriteInt(ctx *context.SCtx, width int, v int64) error {
	return WriteUint(ctx, width, signedToRaw(v, width))
}

// WriteFloat32 writes a float32. Floats have a single canonical wire
// width, so no width tag is ever emitted for them (spec.md §4.2).
func WriteFloat32(ctx *context.SCtx, v float32) error {
	return writeRawByWidth(ctx, 4, uint64(math.Float32bits(v)))
}

// WriteFloat64 writes a float64.
func WriteFloat64(ctx *context.SCtx, v float64) error {
	return writeRawByWidth(ctx, 8, math.Float64bits(v))
}

func writeRawByWidth(ctx *context.SCtx, width int, v uint64) error {
	swap := ctx.Swap()
	switch width {
	case 1:
		ctx.Sink.AppendUint8(uint8(v))
	case 2:
		ctx.Sink.AppendUint16(uint16(v), swap)
	case 4:
		ctx.Sink.AppendUint32(uint32(v), swap)
	case 8:
		ctx.Sink.AppendUint64(v, swap)
	default:
		return status.New(status.ErrorInvalidArgument, "unsupported integer width %d", width)
	}
	return nil
}

func readRawByWidth(ctx *context.DCtx, width int) (uint64, error) {
	swap := ctx.Swap()
	switch width {
	case 1:
		b, err := ctx.Cursor.ReadUint8()
		return uint64(b), err
	case 2:
		v, err := ctx.Cursor.ReadUint16(swap)
		return uint64(v), err
	case 4:
		v, err := ctx.Cursor.ReadUint32(swap)
		return uint64(v), err
	case 8:
		return ctx.Cursor.ReadUint64(swap)
	default:
		return 0, status.New(status.ErrorOverflow, "invalid width tag %d", width)
	}
}

// ReadUint reads a value that will be stored in a local field of
// width bytes, widening or narrowing against the wire's own width tag
// (when SizeOfIntegersMayBeNotEqual is active) or against width
// itself otherwise. Narrowing that would lose information fails with
// ErrorValueOverflow.
func ReadUint(ctx *context.DCtx, width int) (uint64, error) {
	srcWidth := width
	if ctx.DataFlags.Has(flags.SizeOfIntegersMayBeNotEqual) {
		tag, err := ctx.Cursor.ReadUint8()
		if err != nil {
			return 0, err
		}
		srcWidth = int(tag)
	}
	raw, err := readRawByWidth(ctx, srcWidth)
	if err != nil {
		return 0, err
	}
	if srcWidth > width && raw > maxUintForWidth(width) {
		return 0, status.New(status.ErrorValueOverflow, "value %d does not fit in %d-byte unsigned field", raw, width)
	}
	return raw, nil
}

// ReadInt is ReadUint's signed counterpart: widening sign-extends,
// narrowing range-checks against the target width's signed range.
func ReadInt(ctx *context.DCtx, width int) (int64, error) {
	srcWidth := width
	if ctx.DataFlags.Has(flags.SizeOfIntegersMayBeNotEqual) {
		tag, err := ctx.Cursor.ReadUint8()
		if err != nil {
			return 0, err
		}
		srcWidth = int(tag)
	}
	raw, err := readRawByWidth(ctx, srcWidth)
	if err != nil {
		return 0, err
	}
	signed := signExtend(raw, srcWidth)
	if srcWidth > width && !fitsSignedWidth(signed, width) {
		return 0, status.New(status.ErrorValueOverflow, "value %d does not fit in %d-byte signed field", signed, width)
	}
	return signed, nil
}

// ReadFloat32 reads a float32.
func ReadFloat32(ctx *context.DCtx) (float32, error) {
	raw, err := readRawByWidth(ctx, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(raw)), nil
}

// ReadFloat64 reads a float64.
func ReadFloat64(ctx *context.DCtx) (float64, error) {
	raw, err := readRawByWidth(ctx, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(raw), nil
}

func signedToRaw(v int64, width int) uint64 {
	switch width {
	case 1:
		return uint64(uint8(int8(v)))
	case 2:
		return uint64(uint16(int16(v)))
	case 4:
		return uint64(uint32(int32(v)))
	default:
		return uint64(v)
	}
}

func signExtend(raw uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(uint8(raw)))
	case 2:
		return int64(int16(uint16(raw)))
	case 4:
		return int64(int32(uint32(raw)))
	default:
		return int64(raw)
	}
}

func maxUintForWidth(width int) uint64 {
	switch width {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func fitsSignedWidth(v int64, width int) bool {
	switch width {
	case 1:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case 2:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case 4:
		return v >= math.MinInt32 && v <= math.MaxInt32
	default:
		return true
	}
}
