package remote

import (
	"context"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
)

// SchemeQUIC selects the QUIC transport in Dial urls and listen addresses.
const SchemeQUIC = "quic"

// transport carries one encoded request and returns the encoded response.
// Calls are serialized by the Client.
type transport interface {
	roundTrip(msg []byte, deadline time.Time) ([]byte, error)
	close() error
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) roundTrip(msg []byte, deadline time.Time) ([]byte, error) {
	_ = t.conn.SetWriteDeadline(deadline)
	_ = t.conn.SetReadDeadline(deadline)
	if err := t.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return nil, errors.Wrap(err, "failed to write request")
	}
	_, resp, err := t.conn.ReadMessage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	return resp, nil
}

func (t *wsTransport) close() error {
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return t.conn.Close()
}

// quicTransport opens one stream per call.
type quicTransport struct {
	conn *quic.Conn
}

func (t *quicTransport) roundTrip(msg []byte, deadline time.Time) ([]byte, error) {
	ctx := context.Background()
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	stream, err := t.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stream")
	}
	_ = stream.SetDeadline(deadline)

	if _, err := stream.Write(msg); err != nil {
		stream.CancelRead(0)
		return nil, errors.Wrap(err, "failed to write request")
	}
	if err := stream.Close(); err != nil {
		stream.CancelRead(0)
		return nil, errors.Wrap(err, "failed to finish request")
	}
	resp, err := readMessage(stream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	return resp, nil
}

func (t *quicTransport) close() error {
	return t.conn.CloseWithError(0, "client closed")
}

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  60 * time.Second,
		KeepAlivePeriod: 15 * time.Second,
	}
}

// readMessage reads a stream to its end, refusing anything above
// maxMessageSize.
func readMessage(r io.Reader) ([]byte, error) {
	msg, err := io.ReadAll(io.LimitReader(r, maxMessageSize+1))
	if err != nil {
		return nil, err
	}
	if len(msg) > maxMessageSize {
		return nil, ErrMalformed
	}
	return msg, nil
}
