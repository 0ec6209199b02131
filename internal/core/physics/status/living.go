package status

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Living reads the locomotion state of a living entity.
type Living struct {
	header
	IsFlying              bool
	TimeFlying            float32
	CameraOffset          mgl32.Vec3
	Velocity              mgl32.Vec3
	VelocityUnconstrained mgl32.Vec3
	VelocityRequested     mgl32.Vec3
	GroundVelocity        mgl32.Vec3
	GroundHeight          float32
	GroundNormal          mgl32.Vec3
	GroundSurfaceIndex    int32
	GroundCollider        physics.Handle
	IsStuck               bool
	IsSquashed            bool
}

// NewLiving returns a living-entity state query.
func NewLiving() *Living {
	return &Living{header: newHeader(wire.StatusLiving)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Living) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Living{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Living) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Living](f)
	if err != nil {
		return err
	}
	s.IsFlying = w.IsFlying != 0
	s.TimeFlying = w.TimeFlying
	s.CameraOffset = w.CameraOffset
	s.Velocity = w.Velocity
	s.VelocityUnconstrained = w.VelocityUnconstrained
	s.VelocityRequested = w.VelocityRequested
	s.GroundVelocity = w.GroundVelocity
	s.GroundHeight = w.GroundHeight
	s.GroundNormal = w.GroundNormal
	s.GroundSurfaceIndex = w.GroundSurfaceIndex
	s.GroundCollider = physics.Handle(w.GroundCollider)
	s.IsStuck = w.IsStuck != 0
	s.IsSquashed = w.IsSquashed != 0
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Living) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// CheckStance tests whether a living entity could take the given stance
// without intersecting anything. Query is true when the stance collides;
// Direction and Unprojection then describe the way out.
type CheckStance struct {
	header
	Position       physics.Option[mgl32.Vec3]
	Orientation    physics.Option[mgl32.Quat]
	HeightCollider float32
	Size           mgl32.Vec3
	UseCapsule     bool

	Direction    mgl32.Vec3
	Unprojection float32
}

// NewCheckStance returns a stance check for a collider of size at heightCollider.
func NewCheckStance(heightCollider float32, size mgl32.Vec3) *CheckStance {
	return &CheckStance{header: newHeader(wire.StatusCheckStance), HeightCollider: heightCollider, Size: size}
}

// EncodeFrame implements physics.StatusPayload.
func (s *CheckStance) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.CheckStance{
		Header:         s.hdr,
		Position:       physics.Vec3Slot(s.Position),
		Orientation:    physics.QuatSlot(s.Orientation),
		HeightCollider: s.HeightCollider,
		Size:           s.Size,
		UseCapsule:     boolSlot(s.UseCapsule),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *CheckStance) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.CheckStance](f)
	if err != nil {
		return err
	}
	s.Direction = w.Direction
	s.Unprojection = w.Unprojection
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *CheckStance) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Vehicle reads the drivetrain of a wheeled vehicle. Unknown0 and Unknown1
// are returned as the native side wrote them.
type Vehicle struct {
	header
	Steer            float32
	Pedal            float32
	HandBrake        bool
	FootBrake        float32
	Velocity         mgl32.Vec3
	IsColliding      bool
	NumWheelsContact int32
	CurrentGear      int32
	EngineRPM        float32
	Clutch           float32
	DrivingTorque    float32
	NumActiveWheels  int32
	Unknown0         int32
	Unknown1         float32
}

// NewVehicle returns a vehicle state query.
func NewVehicle() *Vehicle {
	return &Vehicle{header: newHeader(wire.StatusVehicle)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Vehicle) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Vehicle{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Vehicle) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Vehicle](f)
	if err != nil {
		return err
	}
	s.Steer, s.Pedal = w.Steer, w.Pedal
	s.HandBrake = w.HandBrake != 0
	s.FootBrake = w.FootBrake
	s.Velocity = w.Velocity
	s.IsColliding = w.IsColliding != 0
	s.NumWheelsContact = w.NumWheelsContact
	s.CurrentGear = w.CurrentGear
	s.EngineRPM = w.EngineRPM
	s.Clutch = w.Clutch
	s.DrivingTorque = w.DrivingTorque
	s.NumActiveWheels = w.NumActiveWheels
	s.Unknown0, s.Unknown1 = w.Unknown0, w.Unknown1
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Vehicle) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Wheel reads one wheel of a vehicle, selected by index or by part id.
type Wheel struct {
	header
	Index  physics.Option[int32]
	PartID physics.Option[int32]

	Contact              bool
	ContactPoint         mgl32.Vec3
	ContactNormal        mgl32.Vec3
	Friction             [2]float32
	SlipVelocity         mgl32.Vec3
	SuspensionLength     float32
	SuspensionLengthFull float32
	SuspensionLengthRest float32
	AngularVelocity      float32
	Torque               float32
	Steer                float32
	Collider             physics.Handle
	SurfaceIndex         int32
	Unknown0             int32
}

// NewWheel returns a query for wheel index.
func NewWheel(index int32) *Wheel {
	return &Wheel{header: newHeader(wire.StatusWheel), Index: physics.Some(index)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Wheel) EncodeFrame(f *wire.Frame) error {
	if !s.Index.IsSome() && !s.PartID.IsSome() {
		return physics.ContractError("wheel", "either a wheel index or a part id is required")
	}
	return wire.Encode(f.Image, &wire.Wheel{
		Header:     s.hdr,
		WheelIndex: physics.IntSlot(s.Index),
		PartID:     physics.IntSlot(s.PartID),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Wheel) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Wheel](f)
	if err != nil {
		return err
	}
	s.Contact = w.Contact != 0
	s.ContactPoint, s.ContactNormal = w.ContactPoint, w.ContactNormal
	s.Friction = w.Friction
	s.SlipVelocity = w.SlipVelocity
	s.SuspensionLength = w.SuspensionLength
	s.SuspensionLengthFull = w.SuspensionLengthFull
	s.SuspensionLengthRest = w.SuspensionLengthRest
	s.AngularVelocity = w.AngularVelocity
	s.Torque = w.Torque
	s.Steer = w.Steer
	s.Collider = physics.Handle(w.Collider)
	s.SurfaceIndex = w.SurfaceIndex
	s.Unknown0 = w.Unknown0
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Wheel) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// VehicleAbilities estimates the top speed of a vehicle for the given steer
// angle, and the pivot it would turn around.
type VehicleAbilities struct {
	header
	Steer physics.Option[float32]

	RotationPivot mgl32.Vec3
	MaxVelocity   float32
}

// NewVehicleAbilities returns a vehicle abilities query.
func NewVehicleAbilities() *VehicleAbilities {
	return &VehicleAbilities{header: newHeader(wire.StatusVehicleAbilities)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *VehicleAbilities) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.VehicleAbilities{Header: s.hdr, Steer: physics.FloatSlot(s.Steer)})
}

// DecodeFrame implements physics.StatusPayload.
func (s *VehicleAbilities) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.VehicleAbilities](f)
	if err != nil {
		return err
	}
	s.RotationPivot = w.RotationPivot
	s.MaxVelocity = w.MaxVelocity
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *VehicleAbilities) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}
