package action

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Impulse pushes an entity or one of its parts.
//
// The native simulation batches impulses per step; ApplyTime picks whether
// this one joins the batch before or after the next step, or bypasses it.
type Impulse struct {
	header
	Impulse   mgl32.Vec3
	Angular   physics.Option[mgl32.Vec3]
	Point     physics.Option[mgl32.Vec3]
	Part      physics.Part
	ApplyTime ApplyTime
}

// NewImpulse returns an impulse applied after the next time step.
func NewImpulse(impulse mgl32.Vec3) *Impulse {
	return &Impulse{
		header:    newHeader(wire.ActionImpulse),
		Impulse:   impulse,
		ApplyTime: AfterTimeStep,
	}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Impulse) EncodeFrame(f *wire.Frame) error {
	id, index := a.Part.Slots()
	return wire.Encode(f.Image, &wire.Impulse{
		Header:     a.hdr,
		Impulse:    a.Impulse,
		AngImpulse: physics.Vec3Slot(a.Angular),
		Point:      physics.Vec3Slot(a.Point),
		PartID:     id,
		PartIndex:  index,
		ApplyTime:  int32(a.ApplyTime),
	})
}

// Apply dispatches the Impulse action to e.
func (a *Impulse) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func impulseFromWire(w *wire.Impulse) *Impulse {
	return &Impulse{
		header:    header{w.Header},
		Impulse:   w.Impulse,
		Angular:   physics.Vec3From(w.AngImpulse),
		Point:     physics.Vec3From(w.Point),
		Part:      physics.PartFromSlots(w.PartID, w.PartIndex),
		ApplyTime: ApplyTime(w.ApplyTime),
	}
}

// Move requests locomotion from a living entity. Velocity is always sent;
// Jump selects whether it is a walk request, replaces the current velocity,
// or is added to it.
type Move struct {
	header
	Velocity  mgl32.Vec3
	Jump      JumpMode
	TimeSlice physics.Option[float32]
}

// NewMove returns a living-entity move request.
func NewMove(velocity mgl32.Vec3, jump JumpMode) *Move {
	return &Move{
		header:   newHeader(wire.ActionMove),
		Velocity: velocity,
		Jump:     jump,
	}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Move) EncodeFrame(f *wire.Frame) error {
	if a.Jump < NoJump || a.Jump > AddVelocity {
		return physics.ContractError("jump", "unknown jump mode %d", a.Jump)
	}
	return wire.Encode(f.Image, &wire.Move{
		Header:    a.hdr,
		Velocity:  a.Velocity,
		JumpMode:  int32(a.Jump),
		TimeSlice: physics.FloatSlot(a.TimeSlice),
	})
}

// Apply dispatches the Move action to e.
func (a *Move) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func moveFromWire(w *wire.Move) *Move {
	return &Move{
		header:    header{w.Header},
		Velocity:  w.Velocity,
		Jump:      JumpMode(w.JumpMode),
		TimeSlice: physics.FloatFrom(w.TimeSlice),
	}
}

// SetVelocity overwrites linear and/or angular velocity.
type SetVelocity struct {
	header
	Part            physics.Part
	Velocity        physics.Option[mgl32.Vec3]
	AngularVelocity physics.Option[mgl32.Vec3]
}

// NewSetVelocity returns a request with every velocity left unset.
func NewSetVelocity() *SetVelocity {
	return &SetVelocity{header: newHeader(wire.ActionSetVelocity)}
}

// EncodeFrame implements physics.ActionPayload.
func (a *SetVelocity) EncodeFrame(f *wire.Frame) error {
	id, index := a.Part.Slots()
	return wire.Encode(f.Image, &wire.SetVelocity{
		Header:          a.hdr,
		PartID:          id,
		PartIndex:       index,
		Velocity:        physics.Vec3Slot(a.Velocity),
		AngularVelocity: physics.Vec3Slot(a.AngularVelocity),
	})
}

// Apply dispatches the SetVelocity action to e.
func (a *SetVelocity) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func setVelocityFromWire(w *wire.SetVelocity) *SetVelocity {
	return &SetVelocity{
		header:          header{w.Header},
		Part:            physics.PartFromSlots(w.PartID, w.PartIndex),
		Velocity:        physics.Vec3From(w.Velocity),
		AngularVelocity: physics.Vec3From(w.AngularVelocity),
	}
}

// Drive controls a wheeled vehicle. Unset controls keep their current value.
type Drive struct {
	header
	Pedal      physics.Option[float32]
	DeltaPedal physics.Option[float32]
	Steer      physics.Option[float32]
	DeltaSteer physics.Option[float32]
	Clutch     physics.Option[float32]
	HandBrake  physics.Option[bool]
	Gear       physics.Option[int32]
}

// NewDrive returns an empty drive command.
func NewDrive() *Drive {
	return &Drive{header: newHeader(wire.ActionDrive)}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Drive) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Drive{
		Header:     a.hdr,
		Pedal:      physics.FloatSlot(a.Pedal),
		DeltaPedal: physics.FloatSlot(a.DeltaPedal),
		Steer:      physics.FloatSlot(a.Steer),
		DeltaSteer: physics.FloatSlot(a.DeltaSteer),
		Clutch:     physics.FloatSlot(a.Clutch),
		HandBrake:  boolSlot(a.HandBrake),
		Gear:       physics.IntSlot(a.Gear),
	})
}

// Apply dispatches the Drive action to e.
func (a *Drive) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func driveFromWire(w *wire.Drive) *Drive {
	return &Drive{
		header:     header{w.Header},
		Pedal:      physics.FloatFrom(w.Pedal),
		DeltaPedal: physics.FloatFrom(w.DeltaPedal),
		Steer:      physics.FloatFrom(w.Steer),
		DeltaSteer: physics.FloatFrom(w.DeltaSteer),
		Clutch:     physics.FloatFrom(w.Clutch),
		HandBrake:  boolFrom(w.HandBrake),
		Gear:       physics.IntFrom(w.Gear),
	}
}

// Awake wakes an entity up or puts it to sleep.
type Awake struct {
	header
	Sleep        bool
	MinAwakeTime physics.Option[float32]
}

// NewAwake returns a request that puts the entity to sleep or wakes it.
func NewAwake(sleep bool) *Awake {
	return &Awake{header: newHeader(wire.ActionAwake), Sleep: sleep}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Awake) EncodeFrame(f *wire.Frame) error {
	var sleep int32
	if a.Sleep {
		sleep = 1
	}
	return wire.Encode(f.Image, &wire.Awake{
		Header:       a.hdr,
		Sleep:        sleep,
		MinAwakeTime: physics.FloatSlot(a.MinAwakeTime),
	})
}

// Apply dispatches the Awake action to e.
func (a *Awake) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

// Reset zeroes velocities and, optionally, forgets contacts.
type Reset struct {
	header
	ClearContacts physics.Option[bool]
}

// NewReset returns a reset action.
func NewReset() *Reset {
	return &Reset{header: newHeader(wire.ActionReset)}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Reset) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Reset{Header: a.hdr, ClearContacts: boolSlot(a.ClearContacts)})
}

// Apply dispatches the Reset action to e.
func (a *Reset) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}
