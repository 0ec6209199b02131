package status

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Area samples the field an area entity applies inside the box around
// Center. Velocity, when given, is the velocity of the sampling body.
type Area struct {
	header
	Center      mgl32.Vec3
	Size        mgl32.Vec3
	Velocity    physics.Option[mgl32.Vec3]
	UniformOnly bool

	Gravity      mgl32.Vec3
	WaterDensity physics.Option[float32]
}

// NewArea returns an area query for the box at center.
func NewArea(center, size mgl32.Vec3) *Area {
	return &Area{header: newHeader(wire.StatusArea), Center: center, Size: size}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Area) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Area{
		Header:      s.hdr,
		Center:      s.Center,
		Size:        s.Size,
		Velocity:    physics.Vec3Slot(s.Velocity),
		UniformOnly: boolSlot(s.UniformOnly),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Area) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Area](f)
	if err != nil {
		return err
	}
	s.Gravity = w.Gravity
	s.WaterDensity = physics.FloatFrom(w.WaterDensity)
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Area) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Buoyancy reads the water an entity is floating in. Index picks among
// overlapping water areas.
type Buoyancy struct {
	header
	Index int32

	WaterPlaneNormal mgl32.Vec3
	WaterPlaneOrigin mgl32.Vec3
	WaterDensity     float32
	WaterFlow        mgl32.Vec3
	WaterResistance  float32
}

// NewBuoyancy queries the index-th water area the entity is in.
func NewBuoyancy(index int32) *Buoyancy {
	return &Buoyancy{header: newHeader(wire.StatusBuoyancy), Index: index}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Buoyancy) EncodeFrame(f *wire.Frame) error {
	if s.Index < 0 {
		return physics.ContractError("index", "negative water area index %d", s.Index)
	}
	return wire.Encode(f.Image, &wire.Buoyancy{Header: s.hdr, Index: s.Index})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Buoyancy) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Buoyancy](f)
	if err != nil {
		return err
	}
	s.WaterPlaneNormal, s.WaterPlaneOrigin = w.WaterPlaneNormal, w.WaterPlaneOrigin
	s.WaterDensity = w.WaterDensity
	s.WaterFlow = w.WaterFlow
	s.WaterResistance = w.WaterResistance
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Buoyancy) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Constraint reads back a constraint added with action.AddConstraint.
type Constraint struct {
	header
	ID physics.ConstraintID

	Points   [2]mgl32.Vec3
	Normal   mgl32.Vec3
	Flags    wire.ConstraintFlags
	Entities [2]physics.Handle
	PartIDs  [2]int32
}

// NewConstraint returns a query for constraint id.
func NewConstraint(id physics.ConstraintID) *Constraint {
	return &Constraint{header: newHeader(wire.StatusConstraint), ID: id}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Constraint) EncodeFrame(f *wire.Frame) error {
	if s.ID == 0 {
		return physics.ContractError("id", "constraint id is required")
	}
	return wire.Encode(f.Image, &wire.Constraint{Header: s.hdr, ID: int32(s.ID)})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Constraint) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Constraint](f)
	if err != nil {
		return err
	}
	s.Points = [2]mgl32.Vec3{w.Points[0], w.Points[1]}
	s.Normal = w.Normal
	s.Flags = wire.ConstraintFlags(w.Flags)
	s.Entities = [2]physics.Handle{physics.Handle(w.Entities[0]), physics.Handle(w.Entities[1])}
	s.PartIDs = w.PartIDs
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Constraint) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}
