package action

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ConstraintLocalFrames     = wire.ConstraintLocalFrames
	ConstraintWorldFrames     = wire.ConstraintWorldFrames
	ConstraintLocalFramesPart = wire.ConstraintLocalFramesPart
	ConstraintInactive        = wire.ConstraintInactive
	ConstraintIgnoreBuddy     = wire.ConstraintIgnoreBuddy
	ConstraintLine            = wire.ConstraintLine
	ConstraintNoEnforcement   = wire.ConstraintNoEnforcement
	ConstraintNoRotation      = wire.ConstraintNoRotation
	ConstraintNoTears         = wire.ConstraintNoTears
)

// TwistLimits bound rotation about the constraint's primary axis. A lower
// limit at or above the upper one locks twisting entirely.
type TwistLimits struct {
	Lower float32
	Upper float32
}

// LockedTwist forbids any twisting.
func LockedTwist() TwistLimits {
	return TwistLimits{}
}

// Locked reports whether the limits forbid twisting.
func (l TwistLimits) Locked() bool {
	return l.Lower >= l.Upper
}

// AddConstraint binds the entity to a buddy entity (NullHandle binds it to
// the world). Apply returns the id of the new constraint.
type AddConstraint struct {
	header
	ID         physics.Option[int32]
	Buddy      physics.Handle
	Point      mgl32.Vec3
	BuddyPoint physics.Option[mgl32.Vec3]
	PartIDs    [2]physics.Option[int32]
	Frames     [2]physics.Option[mgl32.Quat]
	Flags      ConstraintFlags

	Damping       physics.Option[float32]
	SensorRadius  physics.Option[float32]
	MaxPullForce  physics.Option[float32]
	MaxBendTorque physics.Option[float32]
	Twist         physics.Option[TwistLimits]
	Swing         physics.Option[float32]
}

// NewAddConstraint joins the entity to buddy at point, a world position.
func NewAddConstraint(buddy physics.Handle, point mgl32.Vec3) *AddConstraint {
	return &AddConstraint{
		header: newHeader(wire.ActionAddConstraint),
		Buddy:  buddy,
		Point:  point,
	}
}

// EncodeFrame implements physics.ActionPayload.
func (a *AddConstraint) EncodeFrame(f *wire.Frame) error {
	if id, ok := a.ID.Get(); ok && id == 0 {
		return physics.ContractError("id", "constraint id 0 is reserved")
	}

	w := wire.AddConstraint{
		Header:        a.hdr,
		ID:            physics.IntSlot(a.ID),
		Buddy:         uint64(a.Buddy),
		Points:        [2]wire.Vec3{a.Point, physics.Vec3Slot(a.BuddyPoint)},
		Flags:         uint32(a.Flags),
		Damping:       physics.FloatSlot(a.Damping),
		SensorRadius:  physics.FloatSlot(a.SensorRadius),
		MaxPullForce:  physics.FloatSlot(a.MaxPullForce),
		MaxBendTorque: physics.FloatSlot(a.MaxBendTorque),
		TwistLimits:   [2]float32{unused.Float(), unused.Float()},
		SwingLimits:   [2]float32{unused.Float(), unused.Float()},
	}
	for i := range 2 {
		w.PartIDs[i] = physics.IntSlot(a.PartIDs[i])
		w.Frames[i] = physics.QuatSlot(a.Frames[i])
	}
	if tw, ok := a.Twist.Get(); ok {
		w.TwistLimits = [2]float32{tw.Lower, tw.Upper}
	}
	if sw, ok := a.Swing.Get(); ok {
		w.SwingLimits = [2]float32{0, sw}
	}
	return wire.Encode(f.Image, &w)
}

// Apply dispatches the AddConstraint action to e.
func (a *AddConstraint) Apply(e *physics.Entity) (physics.Outcome[physics.ConstraintID], error) {
	code, err := e.Act(a)
	if err != nil {
		return physics.Outcome[physics.ConstraintID]{}, err
	}
	return physics.Outcome[physics.ConstraintID]{
		Code:     code,
		Accepted: code != 0,
		Value:    physics.ConstraintID(code),
	}, nil
}

func addConstraintFromWire(w *wire.AddConstraint) *AddConstraint {
	a := &AddConstraint{
		header:        header{w.Header},
		ID:            physics.IntFrom(w.ID),
		Buddy:         physics.Handle(w.Buddy),
		Point:         w.Points[0],
		BuddyPoint:    physics.Vec3From(w.Points[1]),
		Flags:         ConstraintFlags(w.Flags),
		Damping:       physics.FloatFrom(w.Damping),
		SensorRadius:  physics.FloatFrom(w.SensorRadius),
		MaxPullForce:  physics.FloatFrom(w.MaxPullForce),
		MaxBendTorque: physics.FloatFrom(w.MaxBendTorque),
		Swing:         physics.None[float32](),
	}
	for i := range 2 {
		a.PartIDs[i] = physics.IntFrom(w.PartIDs[i])
		a.Frames[i] = physics.QuatFrom(w.Frames[i])
	}
	if !unused.IsFloat(w.TwistLimits[0]) && !unused.IsFloat(w.TwistLimits[1]) {
		a.Twist = physics.Some(TwistLimits{Lower: w.TwistLimits[0], Upper: w.TwistLimits[1]})
	}
	a.Swing = physics.FloatFrom(w.SwingLimits[1])
	return a
}

// UpdateConstraint changes an existing constraint. Flags are patched with
// masks so callers need not read them back first:
// new = (old | FlagsOR) & FlagsAND.
type UpdateConstraint struct {
	header
	ID       physics.ConstraintID
	Remove   bool
	FlagsOR  ConstraintFlags
	FlagsAND ConstraintFlags

	Points        [2]physics.Option[mgl32.Vec3]
	Frames        [2]physics.Option[mgl32.Quat]
	Damping       physics.Option[float32]
	MaxPullForce  physics.Option[float32]
	MaxBendTorque physics.Option[float32]
}

// NewUpdateConstraint targets constraint id with identity flag masks.
func NewUpdateConstraint(id physics.ConstraintID) *UpdateConstraint {
	return &UpdateConstraint{
		header:   newHeader(wire.ActionUpdateConstraint),
		ID:       id,
		FlagsAND: ^ConstraintFlags(0),
	}
}

// Patched applies the flag masks to old.
func (a *UpdateConstraint) Patched(old ConstraintFlags) ConstraintFlags {
	return (old | a.FlagsOR) & a.FlagsAND
}

// EncodeFrame implements physics.ActionPayload.
func (a *UpdateConstraint) EncodeFrame(f *wire.Frame) error {
	if a.ID == 0 {
		return physics.ContractError("id", "constraint id is required")
	}
	var remove int32
	if a.Remove {
		remove = 1
	}
	w := wire.UpdateConstraint{
		Header:        a.hdr,
		ID:            int32(a.ID),
		Remove:        remove,
		FlagsOR:       uint32(a.FlagsOR),
		FlagsAND:      uint32(a.FlagsAND),
		Damping:       physics.FloatSlot(a.Damping),
		MaxPullForce:  physics.FloatSlot(a.MaxPullForce),
		MaxBendTorque: physics.FloatSlot(a.MaxBendTorque),
	}
	for i := range 2 {
		w.Points[i] = physics.Vec3Slot(a.Points[i])
		w.Frames[i] = physics.QuatSlot(a.Frames[i])
	}
	return wire.Encode(f.Image, &w)
}

// Apply dispatches the UpdateConstraint action to e.
func (a *UpdateConstraint) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func updateConstraintFromWire(w *wire.UpdateConstraint) *UpdateConstraint {
	a := &UpdateConstraint{
		header:        header{w.Header},
		ID:            physics.ConstraintID(w.ID),
		Remove:        w.Remove != 0,
		FlagsOR:       ConstraintFlags(w.FlagsOR),
		FlagsAND:      ConstraintFlags(w.FlagsAND),
		Damping:       physics.FloatFrom(w.Damping),
		MaxPullForce:  physics.FloatFrom(w.MaxPullForce),
		MaxBendTorque: physics.FloatFrom(w.MaxBendTorque),
	}
	for i := range 2 {
		a.Points[i] = physics.Vec3From(w.Points[i])
		a.Frames[i] = physics.QuatFrom(w.Frames[i])
	}
	return a
}
