package remote

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
)

// Path is where Server accepts websocket upgrades.
const Path = "/native"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Server answers remote calls with a local native over websocket or QUIC.
// Each connection is served by its own goroutine, one call at a time.
type Server struct {
	native physics.Native
	log    log.Log

	connections atomic.Int64
}

func NewServer(native physics.Native, logger log.Log) *Server {
	if logger == nil {
		logger = log.Provide()
	}
	return &Server{native: native, log: logger.With(log.String("component", "remote"))}
}

// Connections returns the number of open peer connections.
func (s *Server) Connections() int64 {
	return s.connections.Load()
}

// Handler returns an http.Handler that serves Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)
	id := uuid.NewString()
	s.connections.Add(1)
	defer s.connections.Add(-1)
	defer conn.Close()

	peer := s.log.With(log.String("peer", conn.RemoteAddr().String()), log.String("conn", id))
	peer.Info("peer connected")
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				peer.Warn("peer read failed", log.Error(err))
			}
			peer.Info("peer disconnected")
			return
		}
		if kind != websocket.BinaryMessage {
			peer.Warn("dropping non-binary message")
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, s.serve(msg, peer)); err != nil {
			peer.Warn("peer write failed", log.Error(errors.Wrap(err, "failed to write response")))
			return
		}
	}
}

func (s *Server) serve(msg []byte, peer log.Log) []byte {
	req, err := decodeRequest(msg)
	if err != nil {
		peer.Warn("malformed request", log.Int("bytes", len(msg)))
		return encodeResponse(codeFailed, nil)
	}

	switch req.op {
	case opAct:
		code := s.native.ActUpon(physics.Handle(req.target), &req.frame)
		return encodeResponse(code, nil)
	case opStatus:
		code := s.native.GetStatus(physics.Handle(req.target), &req.frame)
		return encodeResponse(code, req.frame.Image)
	case opAlias:
		if len(req.frame.Image) < 4 {
			return encodeResponse(codeFailed, nil)
		}
		size := int(binary.LittleEndian.Uint32(req.frame.Image))
		window, err := s.native.Alias(req.target, size)
		if err != nil {
			peer.Debug("alias refused", log.Uint64("addr", req.target), log.Error(err))
			return encodeResponse(codeFailed, nil)
		}
		return encodeResponse(0, window)
	case opFingerprint:
		fp, ok := s.native.(physics.Fingerprinter)
		if !ok {
			return encodeResponse(codeFailed, nil)
		}
		return encodeResponse(0, binary.LittleEndian.AppendUint64(nil, fp.LayoutFingerprint()))
	default:
		peer.Warn("unknown op", log.Int("op", int(req.op)))
		return encodeResponse(codeFailed, nil)
	}
}

// ListenAndServe serves websocket peers on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("remote native listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "remote server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "remote server shutdown")
		}
		return nil
	}
}

// ListenAndServeQUIC serves QUIC peers on addr until ctx is done.
func (s *Server) ListenAndServeQUIC(ctx context.Context, addr string, tlsConf *tls.Config) error {
	ln, err := quic.ListenAddr(addr, tlsConf, quicConfig())
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	defer ln.Close()
	s.log.Info("remote native listening", log.String("addr", ln.Addr().String()), log.String("transport", SchemeQUIC))
	return s.ServeQUIC(ctx, ln)
}

// ServeQUIC accepts connections from ln until ctx is done. It does not close
// ln.
func (s *Server) ServeQUIC(ctx context.Context, ln *quic.Listener) error {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "remote server stopped")
		}
		go s.serveQUICConn(ctx, conn)
	}
}

func (s *Server) serveQUICConn(ctx context.Context, conn *quic.Conn) {
	id := uuid.NewString()
	s.connections.Add(1)
	defer s.connections.Add(-1)
	defer conn.CloseWithError(0, "server closed")

	peer := s.log.With(log.String("peer", conn.RemoteAddr().String()), log.String("conn", id))
	peer.Info("peer connected")
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			peer.Info("peer disconnected")
			return
		}
		if err := s.serveStream(stream, peer); err != nil {
			peer.Warn("stream failed", log.Error(err))
		}
	}
}

// serveStream answers the single call carried by stream.
func (s *Server) serveStream(stream *quic.Stream, peer log.Log) error {
	msg, err := readMessage(stream)
	if err != nil {
		stream.CancelRead(0)
		stream.CancelWrite(0)
		return errors.Wrap(err, "failed to read request")
	}
	if _, err := stream.Write(s.serve(msg, peer)); err != nil {
		stream.CancelWrite(0)
		return errors.Wrap(err, "failed to write response")
	}
	return stream.Close()
}
