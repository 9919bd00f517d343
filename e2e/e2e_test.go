// Package e2e exercises spec.md §8's end-to-end scenarios against the
// full client/server/message/transport stack.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/andreygs/csp/body"
	csp_client "github.com/andreygs/csp/client"
	"github.com/andreygs/csp/server"
	"github.com/andreygs/csp/settings"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/testtypes"
	"github.com/andreygs/csp/transport"
	"github.com/andreygs/csp/uuid"
)

type echoHandler struct{}

func (echoHandler) InputID() uuid.Uuid        { return testtypes.PointDescriptor.ID }
func (echoHandler) NewInput() body.Versioned { return &testtypes.Point{} }
func (echoHandler) Handle(_ context.Context, input body.Versioned) (body.Versioned, error) {
	p := input.(*testtypes.Point)
	return &testtypes.Point{X: p.X + 1, Y: p.Y + 1}, nil
}

func newSettings(protocolVersions []uint8) *settings.CspPartySettings {
	return &settings.CspPartySettings{
		ProtocolVersions: protocolVersions,
		Interfaces: map[uuid.Uuid]settings.InterfaceVersions{
			testtypes.PointDescriptor.ID: {Latest: 0, MinSupported: 0},
		},
	}
}

func TestEndToEndCallRoundTrip(t *testing.T) {
	clientSide, serverSide := transport.NewLoopPair(4)
	srv := server.NewServer(newSettings([]uint8{1}))
	srv.Register(echoHandler{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.HandleMessage(ctx, serverSide) }()

	c := csp_client.NewClient(clientSide)
	if err := c.Init(ctx, newSettings([]uint8{1})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("server HandleMessage (settings): %v", err)
	}

	go func() { errCh <- srv.HandleMessage(ctx, serverSide) }()
	input := &testtypes.Point{X: 1, Y: 2}
	output := &testtypes.Point{}
	if err := c.Call(ctx, testtypes.PointDescriptor.ID, input, output); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("server HandleMessage (data): %v", err)
	}
	if output.X != 2 || output.Y != 3 {
		t.Errorf("output = %+v, want {2 3}", output)
	}
}

func TestProtocolVersionMismatch(t *testing.T) {
	clientSide, serverSide := transport.NewLoopPair(4)
	srv := server.NewServer(newSettings([]uint8{9}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.HandleMessage(ctx, serverSide) }()

	c := csp_client.NewClient(clientSide)
	err := c.Init(ctx, newSettings([]uint8{1}))
	if status.CodeOf(err) != status.ErrorNotSupportedProtocolVersion {
		t.Fatalf("err = %v, want ErrorNotSupportedProtocolVersion", err)
	}
	<-errCh
}

func TestHandlerMissing(t *testing.T) {
	clientSide, serverSide := transport.NewLoopPair(4)
	srv := server.NewServer(newSettings([]uint8{1})) // no handler registered

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.HandleMessage(ctx, serverSide) }()
	c := csp_client.NewClient(clientSide)
	if err := c.Init(ctx, newSettings([]uint8{1})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	<-errCh

	go func() { errCh <- srv.HandleMessage(ctx, serverSide) }()
	input := &testtypes.Point{X: 1, Y: 1}
	output := &testtypes.Point{}
	err := c.Call(ctx, testtypes.PointDescriptor.ID, input, output)
	if status.CodeOf(err) != status.ErrorNoSuchHandler {
		t.Fatalf("err = %v, want ErrorNoSuchHandler", err)
	}
	<-errCh
}
