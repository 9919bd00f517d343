package version

import "github.com/andreygs/csp/status"

// Negotiate implements spec.md §4.4's rule: the session settles on
// V = min(localLatest, peerLatest); if that falls below localMin, no
// mutually supported version exists.
func Negotiate(localLatest, localMin, peerLatest uint32) (uint32, error) {
	v := localLatest
	if peerLatest < v {
		v = peerLatest
	}
	if v < localMin {
		return 0, status.New(status.ErrorNotSupportedInterfaceVersion,
			"negotiated version %d below minimum supported %d", v, localMin)
	}
	return v, nil
}
