package status

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Location reads the placement of an entity or one of its parts.
type Location struct {
	header
	Part  physics.Part
	Flags LocationFlags

	Position      mgl32.Vec3
	Orientation   mgl32.Quat
	Scale         float32
	BBoxMin       mgl32.Vec3
	BBoxMax       mgl32.Vec3
	SimClass      SimClass
	PartFlags     uint32
	Transform     mgl32.Mat4
	Geometry      uint64
	GeometryProxy uint64
}

// NewLocation returns a location query for the whole entity.
func NewLocation() *Location {
	return &Location{header: newHeader(wire.StatusLocation)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Location) EncodeFrame(f *wire.Frame) error {
	id, index := s.Part.Slots()
	return wire.Encode(f.Image, &wire.Location{
		Header:       s.hdr,
		PartID:       id,
		PartIndex:    index,
		RequestFlags: uint32(s.Flags),
		Transform:    wire.IdentityMatrix34,
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Location) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Location](f)
	if err != nil {
		return err
	}
	s.Position = w.Position
	s.Orientation = w.Orientation.Mgl()
	s.Scale = w.Scale
	s.BBoxMin, s.BBoxMax = w.BBoxMin, w.BBoxMax
	s.SimClass = SimClass(w.SimClass)
	s.PartFlags = w.PartFlags
	s.Transform = w.Transform.Mat4()
	s.Geometry, s.GeometryProxy = w.Geometry, w.GeometryProxy
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Location) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Dynamics reads the motion of an entity or one of its parts. TimeInterval
// widens the window accelerations are averaged over.
type Dynamics struct {
	header
	Part         physics.Part
	TimeInterval physics.Option[float32]

	Velocity            mgl32.Vec3
	AngularVelocity     mgl32.Vec3
	Acceleration        mgl32.Vec3
	AngularAcceleration mgl32.Vec3
	CenterOfMass        mgl32.Vec3
	SubmergedFraction   float32
	Mass                float32
	Energy              float32
	NumContacts         int32
}

// NewDynamics returns a dynamics query.
func NewDynamics() *Dynamics {
	return &Dynamics{header: newHeader(wire.StatusDynamics)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Dynamics) EncodeFrame(f *wire.Frame) error {
	id, index := s.Part.Slots()
	return wire.Encode(f.Image, &wire.Dynamics{
		Header:       s.hdr,
		PartID:       id,
		PartIndex:    index,
		TimeInterval: physics.FloatSlot(s.TimeInterval),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Dynamics) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Dynamics](f)
	if err != nil {
		return err
	}
	s.Velocity, s.AngularVelocity = w.Velocity, w.AngularVelocity
	s.Acceleration, s.AngularAcceleration = w.Acceleration, w.AngularAcceleration
	s.CenterOfMass = w.CenterOfMass
	s.SubmergedFraction = w.SubmergedFraction
	s.Mass = w.Mass
	s.Energy = w.Energy
	s.NumContacts = w.NumContacts
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Dynamics) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Joint reads the articulation state of one part of an articulated entity.
type Joint struct {
	header
	Part physics.Part

	Flags             uint32
	Angles            mgl32.Vec3
	ExternalAngles    mgl32.Vec3
	AngularVelocities mgl32.Vec3
	Rotation0         mgl32.Quat
}

// NewJoint returns a query for the joint of part.
func NewJoint(part physics.Part) *Joint {
	return &Joint{header: newHeader(wire.StatusJoint), Part: part}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Joint) EncodeFrame(f *wire.Frame) error {
	if !s.Part.IsSpecified() {
		return physics.ContractError("part", "a joint query needs a part")
	}
	id, index := s.Part.Slots()
	return wire.Encode(f.Image, &wire.Joint{Header: s.hdr, PartID: id, PartIndex: index})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Joint) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Joint](f)
	if err != nil {
		return err
	}
	s.Flags = w.Flags
	s.Angles, s.ExternalAngles = w.Angles, w.ExternalAngles
	s.AngularVelocities = w.AngularVelocities
	s.Rotation0 = w.Rotation0.Mgl()
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Joint) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Awake reports whether the entity is simulated actively.
type Awake struct {
	header
}

// NewAwake returns a sleep-state query.
func NewAwake() *Awake {
	return &Awake{header: newHeader(wire.StatusAwake)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Awake) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.AwakeStatus{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Awake) DecodeFrame(*wire.Frame, physics.Memory) error { return nil }

// Query dispatches the query to e and decodes the result.
func (s *Awake) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// ContainsPoint reports whether Point lies inside the entity.
type ContainsPoint struct {
	header
	Point mgl32.Vec3
}

// NewContainsPoint tests whether point lies inside the entity.
func NewContainsPoint(point mgl32.Vec3) *ContainsPoint {
	return &ContainsPoint{header: newHeader(wire.StatusContainsPoint), Point: point}
}

// EncodeFrame implements physics.StatusPayload.
func (s *ContainsPoint) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.ContainsPoint{Header: s.hdr, Point: s.Point})
}

// DecodeFrame implements physics.StatusPayload.
func (s *ContainsPoint) DecodeFrame(*wire.Frame, physics.Memory) error { return nil }

// Query dispatches the query to e and decodes the result.
func (s *ContainsPoint) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// PlaceHolder resolves the full entity standing behind a placeholder.
type PlaceHolder struct {
	header
	Full physics.Handle
}

// NewPlaceHolder returns a PlaceHolder query.
func NewPlaceHolder() *PlaceHolder {
	return &PlaceHolder{header: newHeader(wire.StatusPlaceHolder)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *PlaceHolder) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.PlaceHolder{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *PlaceHolder) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.PlaceHolder](f)
	if err != nil {
		return err
	}
	s.Full = physics.Handle(w.Full)
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *PlaceHolder) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// SampleContactArea reports whether the entity's contact area supports a
// body at Point leaning along Direction.
type SampleContactArea struct {
	header
	Point     mgl32.Vec3
	Direction mgl32.Vec3
}

// NewSampleContactArea samples the contact area along direction from point.
func NewSampleContactArea(point, direction mgl32.Vec3) *SampleContactArea {
	return &SampleContactArea{header: newHeader(wire.StatusSampleContactArea), Point: point, Direction: direction}
}

// EncodeFrame implements physics.StatusPayload.
func (s *SampleContactArea) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.SampleContactArea{Header: s.hdr, Point: s.Point, Direction: s.Direction})
}

// DecodeFrame implements physics.StatusPayload.
func (s *SampleContactArea) DecodeFrame(*wire.Frame, physics.Memory) error { return nil }

// Query dispatches the query to e and decodes the result.
func (s *SampleContactArea) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

type Capabilities struct {
	header
	CanAlterOrientation bool
}

// NewCapabilities returns a Capabilities query.
func NewCapabilities() *Capabilities {
	return &Capabilities{header: newHeader(wire.StatusCapabilities)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Capabilities) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Capabilities{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Capabilities) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Capabilities](f)
	if err != nil {
		return err
	}
	s.CanAlterOrientation = w.CanAlterOrientation != 0
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Capabilities) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Extent measures the entity along Axis using the given geometry form.
type Extent struct {
	header
	Form GeomForm
	Axis mgl32.Vec3

	Extent float32
}

// NewExtent measures the entity along axis.
func NewExtent(form GeomForm, axis mgl32.Vec3) *Extent {
	return &Extent{header: newHeader(wire.StatusExtent), Form: form, Axis: axis}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Extent) EncodeFrame(f *wire.Frame) error {
	if s.Form < Edges || s.Form > Projection {
		return physics.ContractError("form", "unknown geometry form %d", s.Form)
	}
	return wire.Encode(f.Image, &wire.Extent{Header: s.hdr, Form: int32(s.Form), Axis: s.Axis})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Extent) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Extent](f)
	if err != nil {
		return err
	}
	s.Extent = w.Extent
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Extent) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Random samples a point on the entity's surface.
type Random struct {
	header
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Area   float32
}

// NewRandom returns a query for a random surface point.
func NewRandom() *Random {
	return &Random{header: newHeader(wire.StatusRandom)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Random) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Random{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Random) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Random](f)
	if err != nil {
		return err
	}
	s.Point, s.Normal, s.Area = w.Point, w.Normal, w.Area
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Random) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

type Statistics struct {
	header
	NumCollisions int32
	NumRaycasts   int32
	NumStepBacks  int32
	PeakTimeStep  float32
}

// NewStatistics returns a Statistics query.
func NewStatistics() *Statistics {
	return &Statistics{header: newHeader(wire.StatusStatistics)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Statistics) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Statistics{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Statistics) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Statistics](f)
	if err != nil {
		return err
	}
	s.NumCollisions, s.NumRaycasts, s.NumStepBacks = w.NumCollisions, w.NumRaycasts, w.NumStepBacks
	s.PeakTimeStep = w.PeakTimeStep
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Statistics) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Collisions counts the entity's recorded collisions no older than MaxAge.
type Collisions struct {
	header
	MaxAge       physics.Option[float32]
	ClearHistory bool
}

// NewCollisions returns a collision count query with no age limit.
func NewCollisions() *Collisions {
	return &Collisions{header: newHeader(wire.StatusCollisions)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Collisions) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.Collisions{
		Header:       s.hdr,
		MaxAge:       physics.FloatSlot(s.MaxAge),
		ClearHistory: boolSlot(s.ClearHistory),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Collisions) DecodeFrame(*wire.Frame, physics.Memory) error { return nil }

// Query returns the number of collisions.
func (s *Collisions) Query(e *physics.Entity) (int32, error) {
	return e.Query(s)
}

// Identifier resolves the surface type at a part, primitive and feature.
type Identifier struct {
	header
	Part      physics.Part
	Primitive physics.Option[int32]
	Feature   physics.Option[int32]
	UseProxy  bool

	SurfaceID int32
}

// NewIdentifier resolves part to its id and index.
func NewIdentifier(part physics.Part) *Identifier {
	return &Identifier{header: newHeader(wire.StatusIdentifier), Part: part}
}

// EncodeFrame implements physics.StatusPayload.
func (s *Identifier) EncodeFrame(f *wire.Frame) error {
	id, index := s.Part.Slots()
	return wire.Encode(f.Image, &wire.Identifier{
		Header:    s.hdr,
		PartIndex: index,
		PartID:    id,
		Primitive: physics.IntSlot(s.Primitive),
		Feature:   physics.IntSlot(s.Feature),
		UseProxy:  boolSlot(s.UseProxy),
		SurfaceID: unused.Int,
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Identifier) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.Identifier](f)
	if err != nil {
		return err
	}
	s.SurfaceID = w.SurfaceID
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *Identifier) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// TimeSlices reports how many slices the entity's last step was split into.
type TimeSlices struct {
	header
	Precision physics.Option[float32]
	MaxTime   physics.Option[float32]

	Count int32
}

// NewTimeSlices returns a TimeSlices query.
func NewTimeSlices() *TimeSlices {
	return &TimeSlices{header: newHeader(wire.StatusTimeSlices)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *TimeSlices) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.TimeSlices{
		Header:    s.hdr,
		Precision: physics.FloatSlot(s.Precision),
		MaxTime:   physics.FloatSlot(s.MaxTime),
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *TimeSlices) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.TimeSlices](f)
	if err != nil {
		return err
	}
	s.Count = w.Count
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *TimeSlices) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

type PartCount struct {
	header
}

// NewPartCount returns a PartCount query.
func NewPartCount() *PartCount {
	return &PartCount{header: newHeader(wire.StatusPartCount)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *PartCount) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.PartCount{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *PartCount) DecodeFrame(*wire.Frame, physics.Memory) error { return nil }

// Query returns the number of parts.
func (s *PartCount) Query(e *physics.Entity) (int32, error) {
	return e.Query(s)
}

// NetworkLocation reads the state the entity replicates, extrapolated by
// TimeOffset.
type NetworkLocation struct {
	header
	Position        mgl32.Vec3
	Orientation     mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
	TimeOffset      float32
}

// NewNetworkLocation returns a query for the networked position.
func NewNetworkLocation() *NetworkLocation {
	return &NetworkLocation{header: newHeader(wire.StatusNetworkLocation)}
}

// EncodeFrame implements physics.StatusPayload.
func (s *NetworkLocation) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.NetworkLocation{Header: s.hdr, Orientation: wire.IdentityQuat})
}

// DecodeFrame implements physics.StatusPayload.
func (s *NetworkLocation) DecodeFrame(f *wire.Frame, _ physics.Memory) error {
	w, err := read[wire.NetworkLocation](f)
	if err != nil {
		return err
	}
	s.Position = w.Position
	s.Orientation = w.Orientation.Mgl()
	s.Velocity, s.AngularVelocity = w.Velocity, w.AngularVelocity
	s.TimeOffset = w.TimeOffset
	return nil
}

// Query dispatches the query to e and decodes the result.
func (s *NetworkLocation) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}
