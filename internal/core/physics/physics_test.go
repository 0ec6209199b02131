package physics

import (
	"errors"
	"sync"
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// echoNative records every frame it receives and serves a single memory block.
type echoNative struct {
	mu          sync.Mutex
	actions     [][]byte
	statuses    [][]byte
	code        int32
	block       []byte
	fingerprint uint64
}

func (n *echoNative) ActUpon(_ Handle, f *wire.Frame) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, append([]byte(nil), f.Image...))
	return n.code
}

func (n *echoNative) GetStatus(_ Handle, f *wire.Frame) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, append([]byte(nil), f.Image...))
	return n.code
}

func (n *echoNative) Alias(addr uint64, size int) ([]byte, error) {
	if addr == 0 || int(addr-1)+size > len(n.block) {
		return nil, ErrAddressNotMapped
	}
	return n.block[addr-1 : int(addr-1)+size], nil
}

type fingerprintedNative struct {
	echoNative
}

func (n *fingerprintedNative) LayoutFingerprint() uint64 { return n.fingerprint }

type testMove struct {
	hdr      wire.Header
	velocity mgl32.Vec3
	slice    Option[float32]
}

func (m *testMove) Header() wire.Header { return m.hdr }

func (m *testMove) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Move{Header: m.hdr, Velocity: m.velocity, TimeSlice: FloatSlot(m.slice)})
}

func TestOption(t *testing.T) {
	v, ok := Some[int32](4).Get()
	require.True(t, ok)
	require.Equal(t, int32(4), v)
	require.False(t, None[float32]().IsSome())
	require.Equal(t, float32(2), None[float32]().Or(2))

	require.True(t, unused.IsFloat(FloatSlot(None[float32]())))
	require.Equal(t, float32(1.5), FloatSlot(Some[float32](1.5)))
	require.True(t, unused.IsInt(IntSlot(None[int32]())))
	require.True(t, unused.IsVec3(Vec3Slot(None[mgl32.Vec3]())))
	require.True(t, unused.IsQuat(QuatSlot(None[mgl32.Quat]())))

	require.False(t, FloatFrom(unused.Float()).IsSome())
	require.False(t, IntFrom(unused.Int).IsSome())
	require.False(t, Vec3From(unused.Vec3()).IsSome())
	require.False(t, QuatFrom(unused.Quat()).IsSome())

	got, ok := Vec3From(wire.Vec3{1, 2, 3}).Get()
	require.True(t, ok)
	require.Equal(t, mgl32.Vec3{1, 2, 3}, got)

	q, ok := QuatFrom(wire.IdentityQuat).Get()
	require.True(t, ok)
	require.Equal(t, mgl32.QuatIdent(), q)
}

func TestOption_SentinelCollisionIsDropped(t *testing.T) {
	// A present value with the sentinel bits reads back as absent.
	require.False(t, FloatFrom(FloatSlot(Some(unused.Float()))).IsSome())
}

func TestPart(t *testing.T) {
	whole := EntireEntity()
	require.False(t, whole.IsSpecified())
	id, index := whole.Slots()
	require.True(t, unused.IsInt(id))
	require.True(t, unused.IsInt(index))

	byID := PartByID(7)
	require.True(t, byID.IsSpecified())
	got, ok := byID.ID()
	require.True(t, ok)
	require.Equal(t, int32(7), got)
	id, index = byID.Slots()
	require.Equal(t, int32(7), id)
	require.True(t, unused.IsInt(index))

	byIndex := PartByIndex(2)
	_, ok = byIndex.ID()
	require.False(t, ok)
	id, index = byIndex.Slots()
	require.True(t, unused.IsInt(id))
	require.Equal(t, int32(2), index)

	require.Equal(t, byID, PartFromSlots(byID.Slots()))
	require.Equal(t, byIndex, PartFromSlots(byIndex.Slots()))
	require.Equal(t, whole, PartFromSlots(whole.Slots()))
	require.Equal(t, "part#id=7", byID.String())
}

func TestEntity_RejectsInvalidHeader(t *testing.T) {
	native := &echoNative{code: 1}
	b, err := Bind(native, nil)
	require.NoError(t, err)
	e := b.Entity(1)

	_, err = e.Act(&testMove{})
	require.ErrorIs(t, err, ErrInvalidHeader)
	require.Equal(t, ErrorCodeInvalidHeader, GetErrorCode(err))

	// A status header on an action is rejected too.
	_, err = e.Act(&testMove{hdr: wire.Header{Kind: 999, Initialized: true}})
	require.ErrorIs(t, err, ErrInvalidHeader)

	require.Empty(t, native.actions, "invalid payloads must never be dispatched")
}

func TestEntity_ActEncodesImage(t *testing.T) {
	native := &echoNative{code: 1}
	b, err := Bind(native, nil)
	require.NoError(t, err)

	code, err := b.Entity(3).Act(&testMove{hdr: wire.NewActionHeader(wire.ActionMove), velocity: mgl32.Vec3{1, 0, 0}})
	require.NoError(t, err)
	require.Equal(t, int32(1), code)

	require.Len(t, native.actions, 1)
	var echoed wire.Move
	require.NoError(t, wire.Decode(native.actions[0], &echoed))
	require.Equal(t, int32(wire.ActionMove), echoed.Header.Kind)
	require.Equal(t, wire.Vec3{1, 0, 0}, echoed.Velocity)
	require.True(t, unused.IsFloat(echoed.TimeSlice))
}

func TestBind_LayoutMismatch(t *testing.T) {
	_, err := Bind(&fingerprintedNative{echoNative{fingerprint: 1}}, nil)
	require.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = Bind(&fingerprintedNative{echoNative{fingerprint: wire.Fingerprint()}}, nil)
	require.NoError(t, err)
}

func TestNilEntity(t *testing.T) {
	var e *Entity
	_, err := e.Act(&testMove{hdr: wire.NewActionHeader(wire.ActionMove)})
	require.ErrorIs(t, err, ErrNilEntity)
}

func TestLease_ViewLifecycle(t *testing.T) {
	native := &echoNative{block: wire.PackVec3s([]wire.Vec3{{1, 2, 3}, {4, 5, 6}})}
	lease := NewLease(wire.LockEngage)

	view, err := MapVec3(native, lease, 1, 2, Vec3Stride)
	require.NoError(t, err)
	require.True(t, view.Populated())
	require.Equal(t, 2, view.Len())

	p, err := view.At(1)
	require.NoError(t, err)
	require.Equal(t, mgl32.Vec3{4, 5, 6}, p)

	// Views alias native storage.
	wire.PutVec3(native.block[12:], wire.Vec3{7, 8, 9})
	p, _ = view.At(1)
	require.Equal(t, mgl32.Vec3{7, 8, 9}, p)

	_, err = view.At(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	snapshot, err := view.Copy()
	require.NoError(t, err)

	lease.Revoke()
	require.False(t, lease.Live())
	_, err = view.At(0)
	require.ErrorIs(t, err, ErrStaleView)
	_, err = view.Copy()
	require.ErrorIs(t, err, ErrStaleView)
	for range view.All() {
		t.Fatal("revoked view must not yield")
	}
	require.Equal(t, []mgl32.Vec3{{1, 2, 3}, {7, 8, 9}}, snapshot)
}

func TestLease_StridedAndEmpty(t *testing.T) {
	block := make([]byte, 32)
	wire.PutVec3(block[0:], wire.Vec3{1, 1, 1})
	wire.PutVec3(block[16:], wire.Vec3{2, 2, 2})
	native := &echoNative{block: block}

	view, err := MapVec3(native, NewLease(wire.LockLocal), 1, 2, 16)
	require.NoError(t, err)
	var got []mgl32.Vec3
	for _, p := range view.All() {
		got = append(got, p)
	}
	require.Equal(t, []mgl32.Vec3{{1, 1, 1}, {2, 2, 2}}, got)

	empty, err := MapVec3(native, NewLease(wire.LockLocal), 0, 4, 0)
	require.NoError(t, err)
	require.False(t, empty.Populated())
	require.Zero(t, empty.Len())

	_, err = MapVec3(native, NewLease(wire.LockLocal), 100, 4, 0)
	require.ErrorIs(t, err, ErrAddressNotMapped)

	var zero Vec3View
	_, err = zero.At(0)
	require.ErrorIs(t, err, ErrNotPopulated)
}

func TestErrors(t *testing.T) {
	err := ContractError("indices", "length %d != %d", 2, 3)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "indices: length 2 != 3: invalid argument", err.Error())
	require.Equal(t, ErrorCodeInvalidArgument, GetErrorCode(err))
	require.Equal(t, ErrorCodeStaleView, GetErrorCode(ErrStaleView))
	require.Equal(t, ErrorCodeUnknown, GetErrorCode(errors.New("other")))
	require.Equal(t, ErrorCodeSuccess, GetErrorCode(nil))
}
