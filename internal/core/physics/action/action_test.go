package action

import (
	"sync"
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// recorder keeps a deep copy of every dispatched frame and answers with code.
type recorder struct {
	mu     sync.Mutex
	frames []*wire.Frame
	code   int32
}

func (r *recorder) ActUpon(_ physics.Handle, f *wire.Frame) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &wire.Frame{Image: append([]byte(nil), f.Image...)}
	for _, a := range f.Attachments {
		c.Attachments = append(c.Attachments, append([]byte(nil), a...))
	}
	r.frames = append(r.frames, c)
	return r.code
}

func (r *recorder) GetStatus(physics.Handle, *wire.Frame) int32 { return 0 }

func (r *recorder) Alias(uint64, int) ([]byte, error) { return nil, physics.ErrAddressNotMapped }

func (r *recorder) last(t *testing.T) *wire.Frame {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.frames)
	return r.frames[len(r.frames)-1]
}

func newEntity(t *testing.T, code int32) (*physics.Entity, *recorder) {
	t.Helper()
	rec := &recorder{code: code}
	b, err := physics.Bind(rec, nil)
	require.NoError(t, err)
	return b.Entity(42), rec
}

func TestMove_EchoedImage(t *testing.T) {
	e, rec := newEntity(t, 1)

	out, err := NewMove(mgl32.Vec3{1, 0, 0}, AddVelocity).Apply(e)
	require.NoError(t, err)
	require.True(t, out.Accepted)

	var echoed wire.Move
	require.NoError(t, wire.Decode(rec.last(t).Image, &echoed))
	require.Equal(t, int32(wire.ActionMove), echoed.Header.Kind)
	require.True(t, echoed.Header.Initialized)
	require.Equal(t, wire.Vec3{1, 0, 0}, echoed.Velocity)
	require.Equal(t, int32(AddVelocity), echoed.JumpMode)
	require.True(t, unused.IsFloat(echoed.TimeSlice))
}

func TestMove_RejectsUnknownJump(t *testing.T) {
	e, rec := newEntity(t, 1)
	_, err := NewMove(mgl32.Vec3{}, JumpMode(7)).Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
	require.Empty(t, rec.frames)
}

func TestConstructors_StampKind(t *testing.T) {
	tv, err := NewTargetVertices([]mgl32.Vec3{{0, 0, 0}}, nil)
	require.NoError(t, err)
	ap, err := NewAttachPoints(7, []int32{1}, nil)
	require.NoError(t, err)
	bp, err := NewBatchPartsUpdate()
	require.NoError(t, err)

	cases := []struct {
		payload physics.ActionPayload
		kind    wire.ActionKind
	}{
		{NewImpulse(mgl32.Vec3{}), wire.ActionImpulse},
		{NewReset(), wire.ActionReset},
		{NewAddConstraint(0, mgl32.Vec3{}), wire.ActionAddConstraint},
		{NewUpdateConstraint(1), wire.ActionUpdateConstraint},
		{NewRegisterCollisionEvent(1, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}), wire.ActionRegisterCollisionEvent},
		{NewAwake(false), wire.ActionAwake},
		{NewRemoveAllParts(), wire.ActionRemoveAllParts},
		{NewResetPartTransformation(physics.PartByID(1)), wire.ActionResetPartTransformation},
		{NewSetVelocity(), wire.ActionSetVelocity},
		{NewNotify(GeometryChange), wire.ActionNotify},
		{NewAutoPartDetachment(10), wire.ActionAutoPartDetachment},
		{NewTransferParts(2, 0, 3), wire.ActionTransferParts},
		{bp, wire.ActionBatchPartsUpdate},
		{NewSlice(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}), wire.ActionSlice},
		{NewMove(mgl32.Vec3{}, NoJump), wire.ActionMove},
		{NewDrive(), wire.ActionDrive},
		{tv, wire.ActionTargetVertices},
		{ap, wire.ActionAttachPoints},
	}
	require.Len(t, cases, wire.ActionKindCount)
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			h := c.payload.Header()
			require.True(t, h.Valid())
			require.Equal(t, int32(c.kind), h.Kind)

			e, rec := newEntity(t, 1)
			_, err := e.Act(c.payload)
			require.NoError(t, err)

			decoded, err := Decode(rec.last(t))
			require.NoError(t, err)
			require.Equal(t, h, decoded.Header())
		})
	}
}

func TestAttachPoints_LengthMismatch(t *testing.T) {
	_, err := NewAttachPoints(7, []int32{1, 2, 3}, []mgl32.Vec3{{0, 0, 0}})
	require.ErrorIs(t, err, physics.ErrInvalidArgument)

	a, err := NewAttachPoints(7, []int32{1, 2}, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)

	// Mutating the slices after construction is caught at dispatch.
	a.Positions = a.Positions[:1]
	e, rec := newEntity(t, 1)
	_, err = a.Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
	require.Empty(t, rec.frames)
}

func TestAttachPoints_RoundTrip(t *testing.T) {
	a, err := NewAttachPoints(7, []int32{4, 9}, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)
	a.Part = physics.Some[int32](3)
	a.LocalCoords = true

	e, rec := newEntity(t, 1)
	_, err = a.Apply(e)
	require.NoError(t, err)

	f := rec.last(t)
	require.Len(t, f.Attachments, 2)

	decoded, err := Decode(f)
	require.NoError(t, err)
	got := decoded.(*AttachPoints)
	require.Equal(t, physics.Handle(7), got.Target)
	require.Equal(t, []int32{4, 9}, got.Indices)
	require.Equal(t, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}}, got.Positions)
	require.Equal(t, physics.Some[int32](3), got.Part)
	require.True(t, got.LocalCoords)
}

func TestBatchPartsUpdate_DuplicateIDs(t *testing.T) {
	_, err := NewBatchPartsUpdate(
		PartUpdate{ID: 1, Position: physics.Some(mgl32.Vec3{1, 0, 0})},
		PartUpdate{ID: 2},
		PartUpdate{ID: 1, Orientation: physics.Some(mgl32.QuatIdent())},
	)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
}

func TestBatchPartsUpdate_SparseEntries(t *testing.T) {
	a, err := NewBatchPartsUpdate(
		PartUpdate{ID: 1, Position: physics.Some(mgl32.Vec3{1, 2, 3})},
		PartUpdate{ID: 5},
	)
	require.NoError(t, err)
	a.Offset = physics.Some(mgl32.Vec3{0, 0, 1})

	e, rec := newEntity(t, 2)
	out, err := a.Apply(e)
	require.NoError(t, err)
	require.Equal(t, int32(2), out.Value)

	f := rec.last(t)
	var w wire.BatchPartsUpdate
	require.NoError(t, wire.Decode(f.Image, &w))
	require.Equal(t, int32(2), w.NumParts)
	require.Zero(t, w.Orientations, "no orientations means a null array")
	require.True(t, unused.IsQuat(w.OffsetRotation))

	decoded, err := Decode(f)
	require.NoError(t, err)
	got := decoded.(*BatchPartsUpdate)
	require.Len(t, got.Parts, 2)
	require.Equal(t, physics.Some(mgl32.Vec3{1, 2, 3}), got.Parts[0].Position)
	require.False(t, got.Parts[1].Position.IsSome())
	require.False(t, got.Parts[1].Orientation.IsSome())
	require.Equal(t, physics.Some(mgl32.Vec3{0, 0, 1}), got.Offset)
}

func TestAddConstraint_TwistLockRoundTrip(t *testing.T) {
	a := NewAddConstraint(9, mgl32.Vec3{0, 0, 1})
	a.Twist = physics.Some(LockedTwist())
	a.Swing = physics.Some[float32](0.5)
	a.Flags = ConstraintNoTears | ConstraintWorldFrames

	e, rec := newEntity(t, 11)
	out, err := a.Apply(e)
	require.NoError(t, err)
	require.Equal(t, physics.ConstraintID(11), out.Value)

	decoded, err := Decode(rec.last(t))
	require.NoError(t, err)
	got := decoded.(*AddConstraint)
	tw, ok := got.Twist.Get()
	require.True(t, ok)
	require.True(t, tw.Locked())
	require.Equal(t, physics.Some[float32](0.5), got.Swing)
	require.Equal(t, ConstraintNoTears|ConstraintWorldFrames, got.Flags)
	require.Equal(t, physics.Handle(9), got.Buddy)
	require.False(t, got.Damping.IsSome())
	require.False(t, got.ID.IsSome())

	require.False(t, TwistLimits{Lower: -1, Upper: 1}.Locked())
}

func TestUpdateConstraint_FlagMasks(t *testing.T) {
	a := NewUpdateConstraint(3)
	require.Equal(t, ConstraintFlags(0b0011), a.Patched(0b0011), "identity masks leave flags alone")

	a.FlagsOR = 0b0100
	a.FlagsAND = ^ConstraintFlags(0b0001)
	require.Equal(t, ConstraintFlags(0b0110), a.Patched(0b0011))

	e, _ := newEntity(t, 1)
	_, err := NewUpdateConstraint(0).Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
}

func TestTransferParts(t *testing.T) {
	e, rec := newEntity(t, 4)

	_, err := NewTransferParts(2, 5, 1).Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
	_, err = NewTransferParts(physics.NullHandle, 0, 1).Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)

	a := NewTransferParts(2, 0, 3)
	a.IDOffset = 100
	a.Offset = mgl32.Translate3D(1, 2, 3)
	out, err := a.Apply(e)
	require.NoError(t, err)
	require.Equal(t, int32(4), out.Value)
	require.True(t, out.Accepted)

	decoded, err := Decode(rec.last(t))
	require.NoError(t, err)
	got := decoded.(*TransferParts)
	require.Equal(t, int32(100), got.IDOffset)
	require.Equal(t, mgl32.Vec3{1, 2, 3}, got.Offset.Col(3).Vec3())
}

func TestSlice_ZeroNormal(t *testing.T) {
	e, rec := newEntity(t, 2)
	_, err := NewSlice(mgl32.Vec3{}, mgl32.Vec3{}).Apply(e)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
	require.Empty(t, rec.frames)
}

func TestTargetVertices(t *testing.T) {
	_, err := NewTargetVertices(nil, nil)
	require.ErrorIs(t, err, physics.ErrInvalidArgument)
	_, err = NewTargetVertices([]mgl32.Vec3{{}, {}}, []int32{0})
	require.ErrorIs(t, err, physics.ErrInvalidArgument)

	a, err := NewTargetVertices([]mgl32.Vec3{{0, 0, 1}, {0, 0, 2}}, nil)
	require.NoError(t, err)
	e, rec := newEntity(t, 1)
	_, err = a.Apply(e)
	require.NoError(t, err)

	f := rec.last(t)
	require.Len(t, f.Attachments, 1)
	decoded, err := Decode(f)
	require.NoError(t, err)
	got := decoded.(*TargetVertices)
	require.Equal(t, a.Points, got.Points)
	require.Nil(t, got.Indices)
}

func TestImpulse_Defaults(t *testing.T) {
	a := NewImpulse(mgl32.Vec3{0, 0, 10})
	a.Part = physics.PartByIndex(1)

	e, rec := newEntity(t, 1)
	_, err := a.Apply(e)
	require.NoError(t, err)

	var w wire.Impulse
	require.NoError(t, wire.Decode(rec.last(t).Image, &w))
	require.Equal(t, int32(AfterTimeStep), w.ApplyTime)
	require.True(t, unused.IsVec3(w.AngImpulse))
	require.True(t, unused.IsVec3(w.Point))
	require.True(t, unused.IsInt(w.PartID))
	require.Equal(t, int32(1), w.PartIndex)
}

func TestDrive_UnsetControls(t *testing.T) {
	a := NewDrive()
	a.HandBrake = physics.Some(true)
	a.Gear = physics.Some[int32](2)

	e, rec := newEntity(t, 1)
	_, err := a.Apply(e)
	require.NoError(t, err)

	decoded, err := Decode(rec.last(t))
	require.NoError(t, err)
	got := decoded.(*Drive)
	require.Equal(t, physics.Some(true), got.HandBrake)
	require.Equal(t, physics.Some[int32](2), got.Gear)
	require.False(t, got.Pedal.IsSome())
	require.False(t, got.Steer.IsSome())
}
