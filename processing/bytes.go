package processing

import (
	"github.com/andreygs/csp/context"
)

// WriteBytes writes a sizeT length prefix followed by b's raw bytes.
// Used for strings and variable-length byte payloads throughout the
// generated bodies.
func WriteBytes(ctx *context.SCtx, b []byte) {
	ctx.WriteSizeT(len(b))
	ctx.Sink.AppendBytes(b)
}

// ReadBytes reads a sizeT length prefix and that many bytes.
func ReadBytes(ctx *context.DCtx) ([]byte, error) {
	n, err := ctx.ReadSizeT()
	if err != nil {
		return nil, err
	}
	return ctx.Cursor.ReadBytes(n)
}

// WriteString is WriteBytes over a string's UTF-8 bytes.
func WriteString(ctx *context.SCtx, s string) {
	WriteBytes(ctx, []byte(s))
}

// ReadString is ReadBytes decoded back into a string.
func ReadString(ctx *context.DCtx) (string, error) {
	b, err := ReadBytes(ctx)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
