// Package wire mirrors the memory layout of the native physical-entity
// action and status structures.
//
// Every struct in this package is laid out field-for-field like its native
// counterpart: little-endian, natural alignment, with the padding the native
// compiler inserts spelled out as blank fields. A struct therefore has the same
// size under encoding/binary as in memory, and its image can be handed to the
// native side unchanged.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Order is the byte order of every image.
var Order = binary.LittleEndian

// HeaderSize is the size of Header in bytes.
const HeaderSize = 8

var (
	ErrShortImage     = errors.New("wire: image too short")
	ErrUnknownKind    = errors.New("wire: unknown payload kind")
	ErrNotInitialized = errors.New("wire: header not initialized")
)

// Vec3 is the native three-component float vector.
type Vec3 = mgl32.Vec3

// Quat is the native quaternion layout: vector part first, scalar last.
// mgl32.Quat stores W first, so values are converted at the boundary.
type Quat struct {
	V Vec3
	W float32
}

// QuatFrom converts a mathgl quaternion into the native layout.
func QuatFrom(q mgl32.Quat) Quat {
	return Quat{V: q.V, W: q.W}
}

// Mgl converts the native quaternion into mathgl form.
func (q Quat) Mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: q.V}
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{W: 1}

// Matrix34 is a row-major 3x4 affine transform (rotation/scale in the first
// three columns, translation in the fourth).
type Matrix34 [3][4]float32

// Matrix34From converts a column-major mathgl 4x4 matrix, dropping its last row.
func Matrix34From(m mgl32.Mat4) Matrix34 {
	var out Matrix34
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Mat4 expands the matrix into a column-major mathgl 4x4 matrix.
func (m Matrix34) Mat4() mgl32.Mat4 {
	out := mgl32.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, m[r][c])
		}
	}
	return out
}

// Translation returns the fourth column.
func (m Matrix34) Translation() Vec3 {
	return Vec3{m[0][3], m[1][3], m[2][3]}
}

// IdentityMatrix34 has no rotation, unit scale and no translation.
var IdentityMatrix34 = Matrix34{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}

// Header leads every action and status image.
//
// The zero Header is not initialized and must never reach the native side;
// NewActionHeader and NewStatusHeader are the only constructors.
type Header struct {
	Kind        int32
	Initialized bool
	_           [3]byte
}

// NewActionHeader returns an initialized header for an action kind.
func NewActionHeader(kind ActionKind) Header {
	return Header{Kind: int32(kind), Initialized: true}
}

// NewStatusHeader returns an initialized header for a status kind.
func NewStatusHeader(kind StatusKind) Header {
	return Header{Kind: int32(kind), Initialized: true}
}

// Valid reports whether the header went through a constructor.
func (h Header) Valid() bool {
	return h.Initialized && h.Kind > 0
}

// ReadHeader decodes the header at the start of an image.
func ReadHeader(image []byte) (Header, error) {
	if len(image) < HeaderSize {
		return Header{}, ErrShortImage
	}
	var h Header
	if _, err := binary.Decode(image, Order, &h); err != nil {
		return Header{}, err
	}
	if !h.Initialized {
		return h, ErrNotInitialized
	}
	return h, nil
}

// Size returns the image size of a wire struct.
func Size(v any) int {
	return binary.Size(v)
}

// Encode writes the image of v into buf, which must be at least Size(v) long.
func Encode(buf []byte, v any) error {
	if _, err := binary.Encode(buf, Order, v); err != nil {
		return fmt.Errorf("wire: encode %T: %w", v, err)
	}
	return nil
}

// Decode reads the image in buf into the wire struct pointed to by v.
func Decode(buf []byte, v any) error {
	if _, err := binary.Decode(buf, Order, v); err != nil {
		return fmt.Errorf("wire: decode %T: %w", v, err)
	}
	return nil
}

// Marshal allocates an image for v.
func Marshal(v any) ([]byte, error) {
	buf := make([]byte, Size(v))
	if err := Encode(buf, v); err != nil {
		return nil, err
	}
	return buf, nil
}
