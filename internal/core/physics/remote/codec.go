// Package remote carries the native call surface over a websocket or QUIC.
// A Server exposes any physics.Native to peers; a Client is a
// physics.Native whose calls are answered by a Server.
//
// Every call is one binary message each way. Over a websocket that is one
// binary frame; over QUIC every call gets its own stream, and each side
// closes its half of the stream after writing:
//
//	request:  [op u8][target u64][nattach u16]{[len u32][bytes]}...[image]
//	response: [code i32][image]
//
// For act and status the target is the entity handle. For alias the target is
// the native address and the image is the window size as a u32; the response
// image is a copy of the window, so views over a remote native read
// snapshots even though their leases behave the same way.
package remote

import (
	"encoding/binary"
	"math"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/pkg/errors"
)

type op uint8

const (
	opAct op = iota + 1
	opStatus
	opAlias
	opFingerprint
)

func (o op) String() string {
	switch o {
	case opAct:
		return "act"
	case opStatus:
		return "status"
	case opAlias:
		return "alias"
	case opFingerprint:
		return "fingerprint"
	default:
		return "unknown"
	}
}

const requestHeaderSize = 1 + 8 + 2

// maxMessageSize bounds a single request or response.
const maxMessageSize = 64 << 20

// codeFailed answers an alias or fingerprint call the server could not serve.
const codeFailed int32 = -1

var (
	ErrMalformed = errors.New("remote: malformed message")
	ErrClosed    = errors.New("remote: connection is closed")
)

type request struct {
	op     op
	target uint64
	frame  wire.Frame
}

func encodeRequest(o op, target uint64, f *wire.Frame) ([]byte, error) {
	if len(f.Attachments) > math.MaxUint16 {
		return nil, errors.Errorf("remote: %d attachments exceed the frame limit", len(f.Attachments))
	}
	size := requestHeaderSize + len(f.Image)
	for _, a := range f.Attachments {
		size += 4 + len(a)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, byte(o))
	buf = binary.LittleEndian.AppendUint64(buf, target)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(f.Attachments)))
	for _, a := range f.Attachments {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a)))
		buf = append(buf, a...)
	}
	return append(buf, f.Image...), nil
}

// decodeRequest slices msg without copying it.
func decodeRequest(msg []byte) (request, error) {
	if len(msg) < requestHeaderSize {
		return request{}, ErrMalformed
	}
	r := request{
		op:     op(msg[0]),
		target: binary.LittleEndian.Uint64(msg[1:9]),
	}
	n := int(binary.LittleEndian.Uint16(msg[9:11]))
	rest := msg[requestHeaderSize:]
	if n > 0 {
		r.frame.Attachments = make([][]byte, 0, n)
	}
	for range n {
		if len(rest) < 4 {
			return request{}, ErrMalformed
		}
		l := int(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
		if len(rest) < l {
			return request{}, ErrMalformed
		}
		r.frame.Attachments = append(r.frame.Attachments, rest[:l:l])
		rest = rest[l:]
	}
	r.frame.Image = rest
	return r, nil
}

func encodeResponse(code int32, image []byte) []byte {
	buf := make([]byte, 4, 4+len(image))
	binary.LittleEndian.PutUint32(buf, uint32(code))
	return append(buf, image...)
}

func decodeResponse(msg []byte) (int32, []byte, error) {
	if len(msg) < 4 {
		return 0, nil, ErrMalformed
	}
	return int32(binary.LittleEndian.Uint32(msg)), msg[4:], nil
}
