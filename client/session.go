// Package client implements CSP's client-side session lifecycle and
// request/response call (spec.md §4.6).
package client

import (
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/uuid"
)

// Session holds one client's negotiated settings for a particular
// server connection. It is only valid (Call usable) after a
// successful Client.Init.
type Session struct {
	ProtocolVersion uint8
	CommonFlags     flags.CommonFlags
	// Interfaces maps a struct's identity to the negotiated interface
	// version to use when calling with it.
	Interfaces map[uuid.Uuid]uint32

	dataFlags map[uuid.Uuid]flags.DataFlags
	valid     bool
}
