// Package ifacedesc defines the static descriptors CSP attaches to
// every serializable type and every named interface (spec.md §3
// "Identity and versioning").
package ifacedesc

import (
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/uuid"
)

// Interface names a versioned group of structs sharing compatibility
// rules. Version is the only field that changes after publication.
type Interface struct {
	ID                  uuid.Uuid
	Version             uint32
	MandatoryDataFlags  flags.DataFlags
	ForbiddenDataFlags  flags.DataFlags
}

// Category affects per-field emission strategy (spec.md §3 table).
type Category int

const (
	// AlwaysSimplyAssignable structs are layout-compatible across all
	// targets by declaration: always a raw block.
	AlwaysSimplyAssignable Category = iota
	// SimplyAssignableFixedSize structs are layout-identical across
	// equal-bitness targets.
	SimplyAssignableFixedSize
	// SimplyAssignable structs have stable field order/types but layout
	// may differ.
	SimplyAssignable
	// SimplyAssignableAlignedToOne structs are packed with no padding.
	SimplyAssignableAlignedToOne
	// General structs contain pointers, virtual bases, or otherwise need
	// per-field logic; always a per-field walk.
	General
)

func (c Category) String() string {
	switch c {
	case AlwaysSimplyAssignable:
		return "AlwaysSimplyAssignable"
	case SimplyAssignableFixedSize:
		return "SimplyAssignableFixedSize"
	case SimplyAssignable:
		return "SimplyAssignable"
	case SimplyAssignableAlignedToOne:
		return "SimplyAssignableAlignedToOne"
	case General:
		return "General"
	default:
		return "Category(unknown)"
	}
}

// PolymorphicKind distinguishes the two General sub-shapes the
// processing layer must route specially; it composes with General
// rather than replacing it (SPEC_FULL.md's ifacedesc module note).
type PolymorphicKind int

const (
	// NotPolymorphic is the default for every non-General category and
	// for General structs that are neither dynamically dispatched nor a
	// diamond-derived type.
	NotPolymorphic PolymorphicKind = iota
	// DynamicPolymorphic structs carry a leading type-tag Uuid and are
	// constructed via typeregistry at decode time.
	DynamicPolymorphic
	// DiamondVirtualBase structs hold one or more virtually-inherited
	// bases that must be emitted/decoded exactly once.
	DiamondVirtualBase
)

// StructDescriptor is the static, process-wide-constant identity card
// for one serializable type.
type StructDescriptor struct {
	ID uuid.Uuid
	// LatestVersion is the type's own highest private version.
	LatestVersion uint32
	// PrivateVersions lists every version the type can still produce or
	// consume, in descending order; PrivateVersions[0] == LatestVersion.
	PrivateVersions []uint32
	Interface       *Interface
	Category        Category
	PolymorphicKind PolymorphicKind
}

// MinSupportedVersion is the floor below which no conversion chain
// exists.
func (d *StructDescriptor) MinSupportedVersion() uint32 {
	if len(d.PrivateVersions) == 0 {
		return d.LatestVersion
	}
	return d.PrivateVersions[len(d.PrivateVersions)-1]
}

// BestVersionAtMost returns the highest private version that is <= v,
// implementing spec.md §4.4's "within a type, choose the highest
// private version ≤ V" rule. ok is false if no such version exists.
func (d *StructDescriptor) BestVersionAtMost(v uint32) (best uint32, ok bool) {
	for _, pv := range d.PrivateVersions {
		if pv <= v {
			return pv, true
		}
	}
	return 0, false
}

// SupportsInterfaceVersion reports whether v is within
// [MinSupportedVersion, LatestVersion].
func (d *StructDescriptor) SupportsInterfaceVersion(v uint32) bool {
	return v >= d.MinSupportedVersion() && v <= d.LatestVersion
}
