package status

import (
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const (
	pointsAddr     = 0x1_0000_0000
	velocitiesAddr = 0x2_0000_0000
)

// ropeNative answers rope queries for a two-segment rope and records every
// lock mode and segment count it was sent.
type ropeNative struct {
	locks    []int32
	segments []int32
	memory   map[uint64][]byte
	other    func(f *wire.Frame) int32
}

func newRopeNative() *ropeNative {
	points := make([]byte, 3*physics.Vec3Stride)
	for i := 0; i < 3; i++ {
		wire.PutVec3(points[i*physics.Vec3Stride:], mgl32.Vec3{float32(i), 0, 0})
	}
	return &ropeNative{memory: map[uint64][]byte{
		pointsAddr:     points,
		velocitiesAddr: make([]byte, 3*physics.Vec3Stride),
	}}
}

func (n *ropeNative) ActUpon(physics.Handle, *wire.Frame) int32 { return 0 }

func (n *ropeNative) GetStatus(_ physics.Handle, f *wire.Frame) int32 {
	hdr, err := wire.ReadHeader(f.Image)
	if err != nil {
		return 0
	}
	if wire.StatusKind(hdr.Kind) != wire.StatusRope {
		if n.other != nil {
			return n.other(f)
		}
		return 0
	}

	var r wire.Rope
	if err := wire.Decode(f.Image, &r); err != nil {
		return 0
	}
	n.locks = append(n.locks, r.Lock)
	n.segments = append(n.segments, r.NumSegments)
	switch {
	case r.Lock == int32(wire.LockRelease):
		return 1
	case unused.IsInt(r.NumSegments):
		r.NumSegments = 2
		r.Tension = 4
	default:
		r.Points, r.Velocities = pointsAddr, velocitiesAddr
	}
	if err := wire.Encode(f.Image, &r); err != nil {
		return 0
	}
	return 1
}

func (n *ropeNative) Alias(addr uint64, size int) ([]byte, error) {
	b, ok := n.memory[addr]
	if !ok || size > len(b) {
		return nil, physics.ErrAddressNotMapped
	}
	return b[:size], nil
}

// rejecting answers every dispatch with 0.
type rejecting struct{}

func (rejecting) ActUpon(physics.Handle, *wire.Frame) int32   { return 0 }
func (rejecting) GetStatus(physics.Handle, *wire.Frame) int32 { return 0 }
func (rejecting) Alias(uint64, int) ([]byte, error)          { return nil, physics.ErrAddressNotMapped }

func bind(t *testing.T, n physics.Native) *physics.Entity {
	t.Helper()
	b, err := physics.Bind(n, nil)
	require.NoError(t, err)
	return b.Entity(7)
}

func TestRope_StateMachine(t *testing.T) {
	n := newRopeNative()
	e := bind(t, n)
	rope := NewRope(LockEngage)
	require.Equal(t, RopeUnprimed, rope.State())

	ok, err := rope.Query(e)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RopePrimed, rope.State())
	segments, known := rope.NumSegments()
	require.True(t, known)
	require.EqualValues(t, 2, segments)
	require.EqualValues(t, 4, rope.Tension)
	require.False(t, rope.Points().Populated())

	ok, err = rope.Query(e)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RopePopulated, rope.State())

	require.True(t, unused.IsInt(n.segments[0]), "first dispatch only sizes the rope")
	require.EqualValues(t, 2, n.segments[1])
	require.Equal(t, []int32{int32(LockEngage), int32(LockEngage)}, n.locks)

	end, err := rope.Points().At(2)
	require.NoError(t, err)
	require.Equal(t, mgl32.Vec3{2, 0, 0}, end)
}

func TestRope_EngagedLeaseDiscipline(t *testing.T) {
	n := newRopeNative()
	e := bind(t, n)
	rope := NewRope(LockEngage)

	ok, err := rope.Fetch(e)
	require.NoError(t, err)
	require.True(t, ok)
	points := rope.Points()

	_, err = rope.Query(e)
	require.ErrorIs(t, err, physics.ErrLeaseHeld)

	require.NoError(t, rope.Release(e))
	require.Equal(t, int32(LockRelease), n.locks[len(n.locks)-1])
	_, err = points.At(0)
	require.ErrorIs(t, err, physics.ErrStaleView)
	require.Equal(t, LockEngage, rope.Lock, "release does not change the configured mode")

	dispatched := len(n.locks)
	require.NoError(t, rope.Release(e))
	require.Len(t, n.locks, dispatched, "nothing to release")
}

func TestRope_QueryLocal(t *testing.T) {
	n := newRopeNative()
	e := bind(t, n)
	rope := NewRope(LockLocal)

	var inside physics.Vec3View
	err := rope.QueryLocal(e, func(r *Rope) error {
		inside = r.Points()
		got, err := inside.Copy()
		require.NoError(t, err)
		require.Len(t, got, 3)
		return nil
	})
	require.NoError(t, err)
	_, err = inside.At(1)
	require.ErrorIs(t, err, physics.ErrStaleView)
	require.NotContains(t, n.locks, int32(LockRelease))

	err = NewRope(LockEngage).QueryLocal(e, func(*Rope) error { return nil })
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
}

func TestRope_RejectedByNative(t *testing.T) {
	e := bind(t, rejecting{})
	rope := NewRope(LockLocal)
	ok, err := rope.Fetch(e)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, RopeUnprimed, rope.State())

	err = rope.QueryLocal(e, func(*Rope) error { return nil })
	require.ErrorIs(t, err, physics.ErrNotPopulated)
}

func TestLocation_PartSlots(t *testing.T) {
	n := newRopeNative()
	var sent wire.Location
	n.other = func(f *wire.Frame) int32 {
		require.NoError(t, wire.Decode(f.Image, &sent))
		sent.Position = mgl32.Vec3{1, 2, 3}
		require.NoError(t, wire.Encode(f.Image, &sent))
		return 1
	}
	e := bind(t, n)

	loc := NewLocation()
	loc.Part = physics.PartByIndex(3)
	ok, err := loc.Query(e)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, mgl32.Vec3{1, 2, 3}, loc.Position)
	require.True(t, unused.IsInt(sent.PartID))
	require.EqualValues(t, 3, sent.PartIndex)
}

func TestCollisions_SentinelMaxAge(t *testing.T) {
	n := newRopeNative()
	var sent wire.Collisions
	n.other = func(f *wire.Frame) int32 {
		require.NoError(t, wire.Decode(f.Image, &sent))
		return 5
	}
	e := bind(t, n)

	c := NewCollisions()
	c.ClearHistory = true
	count, err := c.Query(e)
	require.NoError(t, err)
	require.EqualValues(t, 5, count)
	require.True(t, unused.IsFloat(sent.MaxAge))
	require.EqualValues(t, 1, sent.ClearHistory)
}

func TestZeroValueStatusRejected(t *testing.T) {
	e := bind(t, newRopeNative())
	_, err := new(Location).Query(e)
	require.ErrorIs(t, err, physics.ErrInvalidHeader)
}

func TestConstructors_StampKind(t *testing.T) {
	cases := []struct {
		payload physics.StatusPayload
		kind    wire.StatusKind
	}{
		{NewLocation(), wire.StatusLocation},
		{NewDynamics(), wire.StatusDynamics},
		{NewLiving(), wire.StatusLiving},
		{NewVehicle(), wire.StatusVehicle},
		{NewWheel(0), wire.StatusWheel},
		{NewVehicleAbilities(), wire.StatusVehicleAbilities},
		{NewJoint(physics.PartByID(1)), wire.StatusJoint},
		{NewRope(LockLocal), wire.StatusRope},
		{NewSoftBodyVertices(LockLocal), wire.StatusSoftBodyVertices},
		{NewSensors(), wire.StatusSensors},
		{NewAwake(), wire.StatusAwake},
		{NewContainsPoint(mgl32.Vec3{}), wire.StatusContainsPoint},
		{NewPlaceHolder(), wire.StatusPlaceHolder},
		{NewSampleContactArea(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}), wire.StatusSampleContactArea},
		{NewCapabilities(), wire.StatusCapabilities},
		{NewConstraint(1), wire.StatusConstraint},
		{NewArea(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), wire.StatusArea},
		{NewExtent(Volume, mgl32.Vec3{0, 0, 1}), wire.StatusExtent},
		{NewRandom(), wire.StatusRandom},
		{NewStatistics(), wire.StatusStatistics},
		{NewCollisions(), wire.StatusCollisions},
		{NewIdentifier(physics.EntireEntity()), wire.StatusIdentifier},
		{NewTimeSlices(), wire.StatusTimeSlices},
		{NewPartCount(), wire.StatusPartCount},
		{NewNetworkLocation(), wire.StatusNetworkLocation},
		{NewCheckStance(1, mgl32.Vec3{1, 1, 2}), wire.StatusCheckStance},
		{NewBuoyancy(0), wire.StatusBuoyancy},
	}
	require.Len(t, cases, wire.StatusKindCount)
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			h := c.payload.Header()
			require.True(t, h.Valid())
			require.True(t, h.Initialized)
			require.Equal(t, int32(c.kind), h.Kind)
		})
	}
}

func TestDiscard_EngagedLeaseNeedsRelease(t *testing.T) {
	n := newRopeNative()
	e := bind(t, n)
	rope := NewRope(LockEngage)
	ok, err := rope.Fetch(e)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, rope.Discard(), physics.ErrLeaseHeld)
	_, err = rope.Points().At(0)
	require.NoError(t, err, "a refused discard keeps the views")

	require.NoError(t, rope.Release(e))
	require.NoError(t, rope.Discard())

	local := NewRope(LockLocal)
	ok, err = local.Fetch(e)
	require.NoError(t, err)
	require.True(t, ok)
	points := local.Points()
	require.NoError(t, local.Discard())
	_, err = points.At(0)
	require.ErrorIs(t, err, physics.ErrStaleView)
	require.NotContains(t, n.locks[len(n.locks)-2:], int32(LockRelease))
}
