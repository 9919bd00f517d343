package transport

import (
	"context"

	"github.com/andreygs/csp/status"
)

// LoopTransport is an in-memory Transport backed by a channel pair,
// grounded on the teacher's transport_mock_pair.go: a mock wired
// directly to its peer with no socket in between. It exists for tests
// and for local client/server demos — it is explicitly not "the
// transport" spec.md scopes out of this engine.
type LoopTransport struct {
	out chan<- []byte
	in  <-chan []byte
}

// NewLoopPair returns two LoopTransports wired to each other: what a
// sends, b receives, and vice versa.
func NewLoopPair(buffer int) (a, b *LoopTransport) {
	ab := make(chan []byte, buffer)
	ba := make(chan []byte, buffer)
	return &LoopTransport{out: ab, in: ba}, &LoopTransport{out: ba, in: ab}
}

// Send copies b and hands it to the paired receiver.
func (t *LoopTransport) Send(ctx context.Context, b []byte) error {
	cp := append([]byte(nil), b...)
	select {
	case t.out <- cp:
		return nil
	case <-ctx.Done():
		return status.Wrap(ctx.Err(), status.ErrorInternal, "loop transport send canceled")
	}
}

// Receive blocks until the paired sender delivers a message or ctx is
// canceled.
func (t *LoopTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case b := <-t.in:
		return b, nil
	case <-ctx.Done():
		return nil, status.Wrap(ctx.Err(), status.ErrorInternal, "loop transport receive canceled")
	}
}
