package processing

import (
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/ifacedesc"
)

// RawBlockEligible reports whether a struct of category cat may be
// emitted as a single raw memory block rather than walked field by
// field (spec.md §3's category table). Every category loses
// eligibility when SimplyAssignableTagsOptimizationsAreTurnedOff is
// set; apart from that, an AlwaysSimplyAssignable struct is always
// eligible, while a SimplyAssignableFixedSize struct loses eligibility
// once the active DataFlags allow differing integer widths or differing
// alignment on the peer.
func RawBlockEligible(cat ifacedesc.Category, active flags.DataFlags) bool {
	if active.Has(flags.SimplyAssignableTagsOptimizationsAreTurnedOff) {
		return false
	}
	switch cat {
	case ifacedesc.AlwaysSimplyAssignable:
		return true
	case ifacedesc.SimplyAssignableFixedSize:
		return !active.Has(flags.SizeOfIntegersMayBeNotEqual) && !active.Has(flags.AlignmentMayBeNotEqual)
	case ifacedesc.SimplyAssignableAlignedToOne:
		return !active.Has(flags.SizeOfIntegersMayBeNotEqual)
	case ifacedesc.SimplyAssignable:
		return !active.Has(flags.SizeOfIntegersMayBeNotEqual) && !active.Has(flags.AlignmentMayBeNotEqual)
	default: // General, and anything unrecognized
		return false
	}
}
