package remote

import (
	"context"
	"encoding/binary"
	"net/url"
	"sync"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
)

// Client is a physics.Native served by a remote Server. Calls are
// serialized over one connection.
//
// The native entry points cannot return errors, so a failed call answers 0
// and leaves the error in Err. Once the connection fails every later call
// fails too.
type Client struct {
	t       transport
	log     log.Log
	timeout time.Duration

	mu  sync.Mutex
	err error
}

var (
	_ physics.Native        = (*Client)(nil)
	_ physics.Fingerprinter = (*Client)(nil)
)

// Dial connects to a Server at target: ws://host:port/native for a websocket
// or quic://host:port for QUIC. timeout bounds each call; zero means no
// deadline. A nil logger means log.Provide().
func Dial(ctx context.Context, target string, timeout time.Duration, logger log.Log) (*Client, error) {
	if logger == nil {
		logger = log.Provide()
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrapf(err, "bad remote url %q", target)
	}

	var t transport
	switch u.Scheme {
	case "ws", "wss":
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dial %s", target)
		}
		conn.SetReadLimit(maxMessageSize)
		t = &wsTransport{conn: conn}
	case SchemeQUIC:
		conn, err := quic.DialAddr(ctx, u.Host, clientTLS(), quicConfig())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dial %s", target)
		}
		t = &quicTransport{conn: conn}
	default:
		return nil, errors.Errorf("remote: unsupported scheme %q", u.Scheme)
	}

	logger.Info("connected to remote native", log.String("url", target), log.String("transport", u.Scheme))
	return &Client{t: t, log: logger.With(log.String("component", "remote")), timeout: timeout}, nil
}

// Err returns the error of the last failed call.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close closes the connection. Later calls fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = ErrClosed
	}
	return c.t.close()
}

func (c *Client) call(o op, target uint64, f *wire.Frame) (int32, []byte, error) {
	msg, err := encodeRequest(o, target, f)
	if err != nil {
		return 0, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, nil, c.err
	}
	var deadline time.Time
	if c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	resp, err := c.t.roundTrip(msg, deadline)
	if err != nil {
		c.err = err
		return 0, nil, c.err
	}
	code, image, err := decodeResponse(resp)
	if err != nil {
		c.err = errors.Wrapf(err, "%s response", o)
		return 0, nil, c.err
	}
	return code, image, nil
}

// ActUpon implements physics.Native.
func (c *Client) ActUpon(h physics.Handle, f *wire.Frame) int32 {
	code, _, err := c.call(opAct, uint64(h), f)
	if err != nil {
		c.log.Warn("remote act failed", log.Uint64("handle", uint64(h)), log.Error(err))
		return 0
	}
	return code
}

// GetStatus implements physics.Native. The populated image is copied back
// into the frame.
func (c *Client) GetStatus(h physics.Handle, f *wire.Frame) int32 {
	code, image, err := c.call(opStatus, uint64(h), f)
	if err != nil {
		c.log.Warn("remote status failed", log.Uint64("handle", uint64(h)), log.Error(err))
		return 0
	}
	copy(f.Image, image)
	return code
}

// Alias implements physics.Memory with a copy of the remote window.
func (c *Client) Alias(addr uint64, size int) ([]byte, error) {
	if size < 0 {
		return nil, physics.ErrAddressNotMapped
	}
	req := wire.NewFrame(binary.LittleEndian.AppendUint32(nil, uint32(size)))
	code, window, err := c.call(opAlias, addr, req)
	if err != nil {
		return nil, err
	}
	if code == codeFailed || len(window) != size {
		return nil, physics.ErrAddressNotMapped
	}
	return window, nil
}

// LayoutFingerprint implements physics.Fingerprinter. It returns 0 when the
// server cannot tell, which never matches a real fingerprint.
func (c *Client) LayoutFingerprint() uint64 {
	code, payload, err := c.call(opFingerprint, 0, wire.NewFrame(nil))
	if err != nil || code == codeFailed || len(payload) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(payload)
}
