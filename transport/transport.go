// Package transport defines CSP's abstract byte-channel boundary
// (spec.md §1's "the transport" is named an external collaborator,
// out of scope for content) plus an in-memory test double grounded on
// the teacher's transport_mock_pair.go/transport_mock_response.go.
package transport

import "context"

// Transport is the minimum surface client and server need: send one
// message, receive one message. Framing (message.Header and bodies)
// lives above this boundary; Transport only moves opaque bytes.
type Transport interface {
	Send(ctx context.Context, b []byte) error
	Receive(ctx context.Context) ([]byte, error)
}
