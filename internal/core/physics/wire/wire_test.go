package wire

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestLayout_NoHiddenPadding(t *testing.T) {
	check := func(t *testing.T, v any) {
		rt := reflect.TypeOf(v).Elem()
		require.Equal(t, int(rt.Size()), binary.Size(v), "%s has implicit padding", rt.Name())
		if hasPointerSlot(rt) {
			require.Zero(t, rt.Size()%8, "%s size must be a multiple of 8", rt.Name())
		}
	}
	for k := ActionKind(1); k < actionKindEnd; k++ {
		v, err := NewAction(k)
		require.NoError(t, err)
		t.Run("action/"+k.String(), func(t *testing.T) { check(t, v) })
	}
	for k := StatusKind(1); k < statusKindEnd; k++ {
		v, err := NewStatus(k)
		require.NoError(t, err)
		t.Run("status/"+k.String(), func(t *testing.T) { check(t, v) })
	}
}

func hasPointerSlot(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Uint64:
			return true
		case reflect.Array:
			if t.Field(i).Type.Elem().Kind() == reflect.Uint64 {
				return true
			}
		}
	}
	return false
}

func TestLayout_PinnedOffsets(t *testing.T) {
	offset := func(v any, name string) uintptr {
		for _, f := range LayoutOf(v).Fields {
			if f.Name == name {
				return f.Offset
			}
		}
		t.Fatalf("no field %s", name)
		return 0
	}

	tests := []struct {
		v      any
		field  string
		offset uintptr
	}{
		{&Move{}, "Velocity", 8},
		{&Move{}, "JumpMode", 20},
		{&Move{}, "TimeSlice", 24},
		{&Impulse{}, "ApplyTime", 52},
		{&AddConstraint{}, "Buddy", 16},
		{&AddConstraint{}, "Frames", 56},
		{&AddConstraint{}, "TwistLimits", 108},
		{&UpdateConstraint{}, "FlagsOR", 16},
		{&UpdateConstraint{}, "FlagsAND", 20},
		{&BatchPartsUpdate{}, "PartIDs", 16},
		{&AttachPoints{}, "Indices", 24},
		{&Location{}, "Transform", 84},
		{&Location{}, "Geometry", 136},
		{&Living{}, "GroundCollider", 96},
		{&Rope{}, "Points", 32},
		{&Rope{}, "VertexVelocities", 56},
		{&SoftBodyVertices{}, "Mesh", 16},
		{&Sensors{}, "Points", 16},
		{&Constraint{}, "Entities", 56},
	}
	for _, tt := range tests {
		require.Equal(t, tt.offset, offset(tt.v, tt.field), "%T.%s", tt.v, tt.field)
	}

	require.Equal(t, 28, ActionSize(ActionMove))
	require.Equal(t, 128, ActionSize(ActionAddConstraint))
	require.Equal(t, 152, StatusSize(StatusLocation))
	require.Equal(t, 64, StatusSize(StatusRope))
	require.Equal(t, HeaderSize, binary.Size(Header{}))
}

func TestHeader(t *testing.T) {
	require.False(t, Header{}.Valid())

	h := NewActionHeader(ActionMove)
	require.True(t, h.Valid())
	require.Equal(t, int32(ActionMove), h.Kind)

	img, err := Marshal(&Move{Header: h, Velocity: Vec3{1, 2, 3}})
	require.NoError(t, err)
	got, err := ReadHeader(img)
	require.NoError(t, err)
	require.Equal(t, h, got)

	_, err = ReadHeader(make([]byte, HeaderSize))
	require.ErrorIs(t, err, ErrNotInitialized)
	_, err = ReadHeader(nil)
	require.ErrorIs(t, err, ErrShortImage)
}

func TestEncodeDecode_Move(t *testing.T) {
	in := Move{Header: NewActionHeader(ActionMove), Velocity: Vec3{1, 0, 0}, JumpMode: int32(JumpAddVelocity), TimeSlice: 0.5}
	img, err := Marshal(&in)
	require.NoError(t, err)
	require.Len(t, img, 28)

	var out Move
	require.NoError(t, Decode(img, &out))
	require.Equal(t, in, out)
}

func TestFrame_Attach(t *testing.T) {
	f := NewFrame(nil)
	require.Zero(t, f.Attach(nil))
	a := f.Attach([]byte{1})
	b := f.Attach([]byte{2, 3})
	require.Equal(t, uint64(1), a)
	require.Equal(t, uint64(2), b)

	got, ok := f.Attached(b)
	require.True(t, ok)
	require.Equal(t, []byte{2, 3}, got)
	_, ok = f.Attached(0)
	require.False(t, ok)
	_, ok = f.Attached(3)
	require.False(t, ok)

	f.Reset()
	require.Empty(t, f.Attachments)
}

func TestFingerprint_Stable(t *testing.T) {
	require.NotZero(t, Fingerprint())
	require.Equal(t, Fingerprint(), Fingerprint())
}

func TestKindNames(t *testing.T) {
	require.Equal(t, 18, ActionKindCount)
	require.Equal(t, 27, StatusKindCount)
	require.Equal(t, "move", ActionMove.String())
	require.Equal(t, "rope", StatusRope.String())
	require.Equal(t, "unknown", ActionKind(99).String())

	_, err := NewAction(0)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = NewStatus(StatusKind(StatusKindCount + 1))
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestMatrixAndQuatConversion(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	w := Matrix34From(m)
	require.Equal(t, Vec3{1, 2, 3}, w.Translation())
	require.Equal(t, m, w.Mat4())

	q := mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1})
	require.Equal(t, q, QuatFrom(q).Mgl())
}
