package client

import (
	stdcontext "context"

	"github.com/andreygs/csp/body"
	"github.com/andreygs/csp/context"
	"github.com/andreygs/csp/csplog"
	"github.com/andreygs/csp/flags"
	"github.com/andreygs/csp/iobuf"
	"github.com/andreygs/csp/message"
	"github.com/andreygs/csp/processing"
	"github.com/andreygs/csp/settings"
	"github.com/andreygs/csp/status"
	"github.com/andreygs/csp/transport"
	"github.com/andreygs/csp/uuid"
	"github.com/andreygs/csp/version"
	"github.com/op/go-logging"
)

// Client is one connection's worth of CSP state: a transport, the
// session negotiated over it, and a logger (constructor-injection
// style grounded on the teacher's NewControlServer(log, notifier)).
type Client struct {
	transport transport.Transport
	session   *Session
	log       *logging.Logger
}

// NewClient wraps t. The returned Client's session is invalid until
// Init succeeds.
func NewClient(t transport.Transport) *Client {
	return &Client{transport: t, session: &Session{}, log: csplog.Logger()}
}

// Init runs the GetSettings handshake (spec.md §4.6 steps 1–3): sends
// local's capability declaration, receives the server's, and derives
// a negotiated Session. On any failure the session remains invalid and
// every subsequent Call returns ErrorNotInited.
func (c *Client) Init(ctx stdcontext.Context, local *settings.CspPartySettings) error {
	c.session.valid = false
	if len(local.ProtocolVersions) == 0 {
		return status.New(status.ErrorInvalidArgument, "local settings declare no protocol versions")
	}

	sink := iobuf.NewSink()
	h := message.Header{ProtocolVersion: local.ProtocolVersions[0], CommonFlags: 0, Kind: message.KindGetSettings}
	message.WriteEnvelope(sink, h, 0, 0, func(sctx *context.SCtx) {
		local.Write(sctx)
	})
	if err := c.transport.Send(ctx, sink.Bytes()); err != nil {
		return status.Wrap(err, status.ErrorInternal, "client init: send GetSettings")
	}

	raw, err := c.transport.Receive(ctx)
	if err != nil {
		return status.Wrap(err, status.ErrorInternal, "client init: receive settings reply")
	}
	hdr, dctx, err := message.ReadEnvelope(raw, 0, 0)
	if err != nil {
		return err
	}

	switch hdr.Kind {
	case message.KindStatus:
		sb, err := message.ReadStatusBody(dctx)
		if err != nil {
			return err
		}
		dctx.Finish()
		c.log.Errorf("server rejected GetSettings: %s", sb.Code)
		return status.New(sb.Code, "server rejected GetSettings")

	case message.KindGetSettings:
		peer, err := settings.ReadCspPartySettings(dctx)
		if err != nil {
			dctx.AddedPointers.Release()
			return err
		}
		dctx.Finish()
		return c.applyNegotiation(local, peer)

	default:
		return status.New(status.ErrorInternal, "unexpected message kind %v replying to GetSettings", hdr.Kind)
	}
}

func (c *Client) applyNegotiation(local, peer *settings.CspPartySettings) error {
	pv, ok := bestProtocolVersion(local.ProtocolVersions, peer.ProtocolVersions)
	if !ok {
		return status.New(status.ErrorNotSupportedProtocolVersion, "no protocol version in common with server")
	}

	common := local.MandatoryCommonFlags.Union(peer.MandatoryCommonFlags)
	if common&local.ForbiddenCommonFlags != 0 || common&peer.ForbiddenCommonFlags != 0 {
		return status.New(status.ErrorNotSupportedSerializationSettingsForStruct, "mandatory/forbidden common flag conflict with server")
	}

	interfaces := make(map[uuid.Uuid]uint32, len(local.Interfaces))
	dataFlags := make(map[uuid.Uuid]flags.DataFlags, len(local.Interfaces))
	for id, li := range local.Interfaces {
		pi, ok := peer.Interfaces[id]
		if !ok {
			continue
		}
		v, err := version.Negotiate(li.Latest, li.MinSupported, pi.Latest)
		if err != nil {
			c.log.Debugf("interface %s: %v", id, err)
			continue
		}
		df := li.MandatoryDataFlags | pi.MandatoryDataFlags
		if df&li.ForbiddenDataFlags != 0 || df&pi.ForbiddenDataFlags != 0 {
			c.log.Debugf("interface %s: mandatory/forbidden data flag conflict", id)
			continue
		}
		interfaces[id] = v
		dataFlags[id] = df
	}

	c.session.ProtocolVersion = pv
	c.session.CommonFlags = common
	c.session.Interfaces = interfaces
	c.session.dataFlags = dataFlags
	c.session.valid = true
	return nil
}

func bestProtocolVersion(local, peer []uint8) (uint8, bool) {
	peerSet := make(map[uint8]bool, len(peer))
	for _, v := range peer {
		peerSet[v] = true
	}
	best, found := uint8(0), false
	for _, v := range local {
		if peerSet[v] && (!found || v > best) {
			best, found = v, true
		}
	}
	return best, found
}

// Call sends input as a Data request and decodes the reply into
// output. A Status reply surfaces its code verbatim as the returned
// error (spec.md §7's user-visible failure path).
func (c *Client) Call(ctx stdcontext.Context, inputID uuid.Uuid, input body.Versioned, output body.Versioned) error {
	if !c.session.valid {
		return status.New(status.ErrorNotInited, "client session not initialized")
	}
	iv, ok := c.session.Interfaces[inputID]
	if !ok {
		return status.New(status.ErrorNoSuchHandler, "no negotiated interface version for struct %s", inputID)
	}
	dataFlags := c.session.dataFlags[inputID]

	payloadSink := iobuf.NewSink()
	sctx := context.NewSCtx(payloadSink, context.Options{
		ProtocolVersion:  c.session.ProtocolVersion,
		CommonFlags:      c.session.CommonFlags,
		DataFlags:        dataFlags,
		InterfaceVersion: iv,
	})
	if err := processing.SerializeStruct(sctx, input); err != nil {
		return err
	}
	sctx.Finish()

	db := &message.DataBody{InputStructID: inputID, DataFlags: dataFlags, InterfaceVersion: iv, Payload: payloadSink.Bytes()}
	envSink := iobuf.NewSink()
	h := message.Header{ProtocolVersion: c.session.ProtocolVersion, CommonFlags: c.session.CommonFlags, Kind: message.KindData}
	message.WriteEnvelope(envSink, h, dataFlags, iv, func(ectx *context.SCtx) {
		db.Write(ectx)
	})

	if err := c.transport.Send(ctx, envSink.Bytes()); err != nil {
		return status.Wrap(err, status.ErrorInternal, "client call: send")
	}
	raw, err := c.transport.Receive(ctx)
	if err != nil {
		return status.Wrap(err, status.ErrorInternal, "client call: receive")
	}

	hdr, dctx, err := message.ReadEnvelope(raw, dataFlags, iv)
	if err != nil {
		return err
	}
	switch hdr.Kind {
	case message.KindStatus:
		sb, err := message.ReadStatusBody(dctx)
		if err != nil {
			return err
		}
		dctx.Finish()
		return status.New(sb.Code, "call failed")

	case message.KindData:
		replyBody, err := message.ReadDataBody(dctx)
		if err != nil {
			dctx.AddedPointers.Release()
			return err
		}
		dctx.Finish()

		replyCtx := context.NewDCtx(iobuf.NewCursor(replyBody.Payload), context.Options{
			ProtocolVersion:  c.session.ProtocolVersion,
			CommonFlags:      c.session.CommonFlags,
			DataFlags:        replyBody.DataFlags,
			InterfaceVersion: replyBody.InterfaceVersion,
		})
		if err := processing.DeserializeStruct(replyCtx, output); err != nil {
			replyCtx.AddedPointers.Release()
			return err
		}
		replyCtx.Finish()
		return nil

	default:
		return status.New(status.ErrorInternal, "unexpected reply kind %v", hdr.Kind)
	}
}
