package server

import (
	stdcontext "context"

	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/csplog"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/message"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/settings"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/transport"
	"github.com/op/go-logging"
)

// Server dispatches incoming messages over accepted transports against
// a Registrar of Handlers, and answers GetSettings with its own
// CspPartySettings (spec.md §4.6).
type Server struct {
	registrar *Registrar
	settings  *settings.CspPartySettings
	log       *logging.Logger
}

// NewServer returns a Server that will declare s as its capabilities.
func NewServer(s *settings.CspPartySettings) *Server {
	return &Server{registrar: NewRegistrar(), settings: s, log: csplog.Logger()}
}

// Register adds h to the server's handler table.
func (s *Server) Register(h Handler) { s.registrar.Register(h) }

// HandleMessage reads one message from t, dispatches it, and writes at
// most one reply, implementing spec.md §4.6 steps 1–6: header
// validation, protocol-mismatch short circuit, GetSettings response,
// Data dispatch through the registrar, ErrorNoSuchHandler on a miss,
// and payload decode/handler errors both becoming Status replies. A
// message whose header or body cannot be read, a message of unknown
// kind, and a handler output that fails to serialize get no reply; the
// error is returned instead.
func (s *Server) HandleMessage(ctx stdcontext.Context, t transport.Transport) error {
	raw, err := t.Receive(ctx)
	if err != nil {
		return status.Wrap(err, status.ErrorInternal, "server: receive")
	}

	hdr, dctx, err := message.ReadEnvelope(raw, 0, 0)
	if err != nil {
		return err
	}

	if !s.supportsProtocolVersion(hdr.ProtocolVersion) {
		tail := message.EncodeProtocolMismatchTail(message.ProtocolMismatchTail{Supported: s.settings.ProtocolVersions}, hdr.CommonFlags)
		return s.replyStatus(ctx, t, hdr, status.ErrorNotSupportedProtocolVersion, tail)
	}

	switch hdr.Kind {
	case message.KindGetSettings:
		if _, err := settings.ReadCspPartySettings(dctx); err != nil {
			dctx.AddedPointers.Release()
			return err
		}
		dctx.Finish()
		return s.replySettings(ctx, t, hdr)

	case message.KindData:
		db, err := message.ReadDataBody(dctx)
		if err != nil {
			dctx.AddedPointers.Release()
			return err
		}
		dctx.Finish()
		return s.dispatchData(ctx, t, hdr, db)

	default:
		s.log.Errorf("unexpected message kind %v", hdr.Kind)
		return status.New(status.ErrorInvalidArgument, "unexpected message kind %v", hdr.Kind)
	}
}

func (s *Server) supportsProtocolVersion(v uint8) bool {
	for _, sv := range s.settings.ProtocolVersions {
		if sv == v {
			return true
		}
	}
	return false
}

func (s *Server) replyStatus(ctx stdcontext.Context, t transport.Transport, hdr message.Header, code status.Code, tail []byte) error {
	sb := &message.StatusBody{Code: code, Tail: tail}
	sink := iobuf.NewSink()
	respHdr := message.Header{ProtocolVersion: hdr.ProtocolVersion, CommonFlags: hdr.CommonFlags, Kind: message.KindStatus}
	message.WriteEnvelope(sink, respHdr, 0, 0, func(sctx *context.SCtx) {
		sb.Write(sctx)
	})
	if err := t.Send(ctx, sink.Bytes()); err != nil {
		return status.Wrap(err, status.ErrorInternal, "server: send status reply")
	}
	return nil
}

func (s *Server) replySettings(ctx stdcontext.Context, t transport.Transport, hdr message.Header) error {
	sink := iobuf.NewSink()
	respHdr := message.Header{ProtocolVersion: hdr.ProtocolVersion, CommonFlags: hdr.CommonFlags, Kind: message.KindGetSettings}
	message.WriteEnvelope(sink, respHdr, 0, 0, func(sctx *context.SCtx) {
		s.settings.Write(sctx)
	})
	if err := t.Send(ctx, sink.Bytes()); err != nil {
		return status.Wrap(err, status.ErrorInternal, "server: send settings reply")
	}
	return nil
}

func (s *Server) dispatchData(ctx stdcontext.Context, t transport.Transport, hdr message.Header, db *message.DataBody) error {
	handler, ok := s.registrar.Lookup(db.InputStructID)
	if !ok {
		return s.replyStatus(ctx, t, hdr, status.ErrorNoSuchHandler, nil)
	}

	input := handler.NewInput()
	payloadCtx := context.NewDCtx(iobuf.NewCursor(db.Payload), context.Options{
		ProtocolVersion:  hdr.ProtocolVersion,
		CommonFlags:      hdr.CommonFlags,
		DataFlags:        db.DataFlags,
		InterfaceVersion: db.InterfaceVersion,
	})
	if err := processing.DeserializeStruct(payloadCtx, input); err != nil {
		payloadCtx.AddedPointers.Release()
		return s.replyStatus(ctx, t, hdr, status.CodeOf(err), nil)
	}
	payloadCtx.Finish()

	output, err := handler.Handle(ctx, input)
	if err != nil {
		return s.replyStatus(ctx, t, hdr, status.CodeOf(err), nil)
	}

	desc := output.Descriptor()
	outSink := iobuf.NewSink()
	outCtx := context.NewSCtx(outSink, context.Options{
		ProtocolVersion:  hdr.ProtocolVersion,
		CommonFlags:      hdr.CommonFlags,
		DataFlags:        db.DataFlags,
		InterfaceVersion: desc.LatestVersion,
	})
	if err := processing.SerializeStruct(outCtx, output); err != nil {
		return status.Wrap(err, status.ErrorInternal, "server: serialize handler output")
	}
	outCtx.Finish()

	reply := &message.DataBody{
		InputStructID:    desc.ID,
		DataFlags:        db.DataFlags,
		InterfaceVersion: desc.LatestVersion,
		Payload:          outSink.Bytes(),
	}
	sink := iobuf.NewSink()
	respHdr := message.Header{ProtocolVersion: hdr.ProtocolVersion, CommonFlags: hdr.CommonFlags, Kind: message.KindData}
	message.WriteEnvelope(sink, respHdr, db.DataFlags, reply.InterfaceVersion, func(sctx *context.SCtx) {
		reply.Write(sctx)
	})
	if err := t.Send(ctx, sink.Bytes()); err != nil {
		return status.Wrap(err, status.ErrorInternal, "server: send data reply")
	}
	return nil
}

// Serve loops accepting transports from listen and dispatches each on
// its own goroutine, every message owning its own contexts end to end
// (spec.md §5), grounded on eventsocket.server.Serve's accept loop.
func (s *Server) Serve(ctx stdcontext.Context, listen func(stdcontext.Context) (transport.Transport, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		t, err := listen(ctx)
		if err != nil {
			return status.Wrap(err, status.ErrorInternal, "server: accept")
		}
		go func(t transport.Transport) {
			if err := s.HandleMessage(ctx, t); err != nil {
				s.log.Errorf("handle message: %v", err)
			}
		}(t)
	}
}
