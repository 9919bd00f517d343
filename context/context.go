// Package context implements CSP's per-pass serialize/deserialize
// contexts (spec.md §3 "Contexts"): SCtx bundles a write Sink with the
// negotiated flags and an optional pointer map for dedup; DCtx mirrors
// it for the read side and additionally owns the addedPointers
// registry for heap objects the decoder allocates.
//
// A context's lifetime is exactly one encode or decode pass; it is
// never shared across passes or goroutines, matching spec.md §5
// ("contexts are not thread-safe... each message owns its own contexts
// end-to-end").
package context

import (
	"unsafe"

	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/status"
)

// SPointerMap deduplicates pointers seen during one serialize pass:
// pointer identity -> the wire offset of its first emission.
type SPointerMap struct {
	seen map[unsafe.Pointer]int
}

func newSPointerMap() *SPointerMap {
	return &SPointerMap{seen: make(map[unsafe.Pointer]int)}
}

// Lookup reports the wire offset a pointer was first emitted at, if
// any.
func (m *SPointerMap) Lookup(p unsafe.Pointer) (int, bool) {
	off, ok := m.seen[p]
	return off, ok
}

// Record remembers that p was first emitted at wire offset off.
func (m *SPointerMap) Record(p unsafe.Pointer, off int) {
	m.seen[p] = off
}

// DPointerMap resolves back-references during one deserialize pass:
// the wire offset a pointer was first written at -> the reconstructed
// pointer.
type DPointerMap struct {
	byOffset map[int]unsafe.Pointer
}

func newDPointerMap() *DPointerMap {
	return &DPointerMap{byOffset: make(map[int]unsafe.Pointer)}
}

// Lookup resolves a previously recorded wire offset to its pointer.
func (m *DPointerMap) Lookup(off int) (unsafe.Pointer, bool) {
	p, ok := m.byOffset[off]
	return p, ok
}

// Record associates a wire offset with the pointer reconstructed there.
func (m *DPointerMap) Record(off int, p unsafe.Pointer) {
	m.byOffset[off] = p
}

// Registry tracks owner handles for every heap object the decoder
// allocates during one pass, so a caller can reclaim them all on a
// failing decode (spec.md §5 "Resource discipline").
type Registry struct {
	owners []func()
}

// Add registers release as the cleanup for one allocation.
func (r *Registry) Add(release func()) {
	r.owners = append(r.owners, release)
}

// Len reports how many allocations are currently tracked.
func (r *Registry) Len() int { return len(r.owners) }

// Release invokes every registered cleanup and empties the registry.
// Safe to call on a nil Registry (no-op) or an empty one.
func (r *Registry) Release() {
	if r == nil {
		return
	}
	for _, release := range r.owners {
		release()
	}
	r.owners = nil
}

// Options configures a new SCtx or DCtx.
type Options struct {
	ProtocolVersion  uint8
	CommonFlags      flags.CommonFlags
	DataFlags        flags.DataFlags
	InterfaceVersion uint32
}

// SCtx is the serialize-pass context.
type SCtx struct {
	Sink             *iobuf.Sink
	ProtocolVersion  uint8
	CommonFlags      flags.CommonFlags
	DataFlags        flags.DataFlags
	InterfaceVersion uint32
	Pointers         *SPointerMap

	done bool
}

// NewSCtx creates a serialize context writing to sink. A pointer map
// is allocated only when CheckRecursivePointers is requested, per
// spec.md §3 ("enabled when checkRecursivePointers... is requested").
func NewSCtx(sink *iobuf.Sink, opts Options) *SCtx {
	ctx := &SCtx{
		Sink:             sink,
		ProtocolVersion:  opts.ProtocolVersion,
		CommonFlags:      opts.CommonFlags,
		DataFlags:        opts.DataFlags,
		InterfaceVersion: opts.InterfaceVersion,
	}
	if opts.DataFlags.Has(flags.CheckRecursivePointers) {
		ctx.Pointers = newSPointerMap()
	}
	return ctx
}

// Swap reports whether multi-byte primitives must be byte-swapped on
// this pass.
func (c *SCtx) Swap() bool { return c.CommonFlags.Has(flags.EndiannessDifference) }

// Finish marks the pass complete. A second call panics: contexts are
// single-use (spec.md §3 "never shared across passes").
func (c *SCtx) Finish() {
	if c.done {
		panic("context: SCtx.Finish called twice")
	}
	c.done = true
}

// WriteSizeT writes a collection length prefix: u32 when Bitness32 is
// set, u64 otherwise (spec.md §6's sizeT).
func (c *SCtx) WriteSizeT(n int) {
	if c.CommonFlags.Has(flags.Bitness32) {
		c.Sink.AppendUint32(uint32(n), c.Swap())
		return
	}
	c.Sink.AppendUint64(uint64(n), c.Swap())
}

// DCtx is the deserialize-pass context.
type DCtx struct {
	Cursor           *iobuf.Cursor
	ProtocolVersion  uint8
	CommonFlags      flags.CommonFlags
	DataFlags        flags.DataFlags
	InterfaceVersion uint32
	Pointers         *DPointerMap
	AddedPointers    *Registry

	done bool
}

// NewDCtx creates a deserialize context reading from cursor.
func NewDCtx(cursor *iobuf.Cursor, opts Options) *DCtx {
	ctx := &DCtx{
		Cursor:           cursor,
		ProtocolVersion:  opts.ProtocolVersion,
		CommonFlags:      opts.CommonFlags,
		DataFlags:        opts.DataFlags,
		InterfaceVersion: opts.InterfaceVersion,
		AddedPointers:    &Registry{},
	}
	if opts.DataFlags.Has(flags.CheckRecursivePointers) {
		ctx.Pointers = newDPointerMap()
	}
	return ctx
}

// Swap reports whether multi-byte primitives must be byte-swapped on
// this pass.
func (c *DCtx) Swap() bool { return c.CommonFlags.Has(flags.EndiannessDifference) }

// Finish marks the pass complete. On success, ownership of everything
// in AddedPointers transfers to the caller; on failure, the caller
// should call AddedPointers.Release() before or instead of Finish.
func (c *DCtx) Finish() {
	if c.done {
		panic("context: DCtx.Finish called twice")
	}
	c.done = true
}

// ReadSizeT reads a collection length prefix, mirroring SCtx.WriteSizeT.
// Every element takes at least one byte on the wire, so a length larger
// than the bytes left in the cursor fails with ErrorOverflow.
func (c *DCtx) ReadSizeT() (int, error) {
	var v uint64
	if c.CommonFlags.Has(flags.Bitness32) {
		v32, err := c.Cursor.ReadUint32(c.Swap())
		if err != nil {
			return 0, err
		}
		v = uint64(v32)
	} else {
		v64, err := c.Cursor.ReadUint64(c.Swap())
		if err != nil {
			return 0, err
		}
		v = v64
	}
	if v > uint64(c.Cursor.Remaining()) {
		return 0, status.New(status.ErrorOverflow, "length %d exceeds %d remaining bytes", v, c.Cursor.Remaining())
	}
	return int(v), nil
}
