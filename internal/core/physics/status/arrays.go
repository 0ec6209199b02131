package status

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// RopeState tracks a rope query through its two dispatches.
type RopeState int

const (
	// RopeUnprimed has not been dispatched; the segment count is unknown.
	RopeUnprimed RopeState = iota
	// RopePrimed knows its segment count but has no arrays yet.
	RopePrimed
	// RopePopulated exposes arrays under a lease.
	RopePopulated
)

func (s RopeState) String() string {
	switch s {
	case RopeUnprimed:
		return "unprimed"
	case RopePrimed:
		return "primed"
	case RopePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Rope reads the pose of a rope. The first dispatch only sizes the query;
// the arrays come back from the second one. Fetch issues both when needed.
type Rope struct {
	header
	lockable

	state         RopeState
	numSegments   int32
	NumVertices   int32
	Tension       float32
	NumCollisions int32

	points           physics.Vec3View
	velocities       physics.Vec3View
	vertices         physics.Vec3View
	vertexVelocities physics.Vec3View
}

// NewRope returns an unprimed rope query using lock.
func NewRope(lock LockMode) *Rope {
	return &Rope{header: newHeader(wire.StatusRope), lockable: newLockable(lock)}
}

// State returns where the rope is in its two-phase protocol.
func (s *Rope) State() RopeState {
	return s.state
}

// NumSegments returns the segment count learned by the first dispatch.
func (s *Rope) NumSegments() (int32, bool) {
	return s.numSegments, s.state != RopeUnprimed
}

// Points has NumSegments+1 entries.
func (s *Rope) Points() physics.Vec3View { return s.points }

// Velocities pairs up with Points.
func (s *Rope) Velocities() physics.Vec3View { return s.velocities }

// Vertices has NumVertices entries and is empty for ropes without
// subdivision.
func (s *Rope) Vertices() physics.Vec3View { return s.vertices }

// VertexVelocities pairs up with Vertices.
func (s *Rope) VertexVelocities() physics.Vec3View { return s.vertexVelocities }

// EncodeFrame implements physics.StatusPayload.
func (s *Rope) EncodeFrame(f *wire.Frame) error {
	if !s.releasing() {
		if err := s.begin(); err != nil {
			return err
		}
		s.points, s.velocities = physics.Vec3View{}, physics.Vec3View{}
		s.vertices, s.vertexVelocities = physics.Vec3View{}, physics.Vec3View{}
	}

	segments := unused.Int
	if s.state != RopeUnprimed {
		segments = s.numSegments
	}
	return wire.Encode(f.Image, &wire.Rope{
		Header:      s.hdr,
		Lock:        int32(s.sending),
		NumSegments: segments,
	})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Rope) DecodeFrame(f *wire.Frame, mem physics.Memory) error {
	if s.releasing() {
		return nil
	}
	w, err := read[wire.Rope](f)
	if err != nil {
		return err
	}
	if unused.IsInt(w.NumSegments) {
		return nil
	}

	s.numSegments = w.NumSegments
	s.NumVertices = w.NumVertices
	s.Tension = w.Tension
	s.NumCollisions = w.NumCollisions
	if w.Points == 0 {
		s.state = RopePrimed
		return nil
	}

	lease := s.issue()
	n := int(w.NumSegments) + 1
	if s.points, err = physics.MapVec3(mem, lease, w.Points, n, physics.Vec3Stride); err != nil {
		return err
	}
	if s.velocities, err = physics.MapVec3(mem, lease, w.Velocities, n, physics.Vec3Stride); err != nil {
		return err
	}
	if s.vertices, err = physics.MapVec3(mem, lease, w.Vertices, int(w.NumVertices), physics.Vec3Stride); err != nil {
		return err
	}
	if s.vertexVelocities, err = physics.MapVec3(mem, lease, w.VertexVelocities, int(w.NumVertices), physics.Vec3Stride); err != nil {
		return err
	}
	s.state = RopePopulated
	return nil
}

// Query dispatches the rope once and advances its state by one step.
func (s *Rope) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Fetch dispatches as many times as it takes to populate the arrays.
func (s *Rope) Fetch(e *physics.Entity) (bool, error) {
	if s.state == RopeUnprimed {
		ok, err := s.Query(e)
		if err != nil || !ok {
			return ok, err
		}
	}
	ok, err := s.Query(e)
	if err != nil || !ok {
		return ok, err
	}
	return s.state == RopePopulated, nil
}

// Release lets the native side move the arrays again. It is a no-op unless
// an engaged lease is live.
func (s *Rope) Release(e *physics.Entity) error {
	return s.release(e, s)
}

// QueryLocal fetches a LockLocal rope and runs fn while its views are valid.
func (s *Rope) QueryLocal(e *physics.Entity, fn func(*Rope) error) error {
	return s.local(func() (bool, error) { return s.Fetch(e) }, func() error { return fn(s) })
}

// Discard revokes the current views without dispatching. It fails with
// physics.ErrLeaseHeld while an engaged lock is live; use Release then.
func (s *Rope) Discard() error {
	return s.drop()
}

// SoftBodyVertices reads the deformed vertices of a soft body. The mesh
// handle is only meaningful while the views are.
type SoftBodyVertices struct {
	header
	lockable

	NumVertices int32
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       float32

	mesh      uint64
	meshLease *physics.Lease
	vertices  physics.Vec3View
	normals   physics.Vec3View
}

// NewSoftBodyVertices returns an unprimed vertex query using lock.
func NewSoftBodyVertices(lock LockMode) *SoftBodyVertices {
	return &SoftBodyVertices{header: newHeader(wire.StatusSoftBodyVertices), lockable: newLockable(lock)}
}

// Mesh returns the native handle of the deforming mesh.
func (s *SoftBodyVertices) Mesh() (uint64, error) {
	if s.meshLease == nil {
		return 0, physics.ErrNotPopulated
	}
	if !s.meshLease.Live() {
		return 0, physics.ErrStaleView
	}
	return s.mesh, nil
}

func (s *SoftBodyVertices) Vertices() physics.Vec3View { return s.vertices }

func (s *SoftBodyVertices) Normals() physics.Vec3View { return s.normals }

// EncodeFrame implements physics.StatusPayload.
func (s *SoftBodyVertices) EncodeFrame(f *wire.Frame) error {
	if !s.releasing() {
		if err := s.begin(); err != nil {
			return err
		}
		s.mesh, s.meshLease = 0, nil
		s.vertices, s.normals = physics.Vec3View{}, physics.Vec3View{}
	}
	return wire.Encode(f.Image, &wire.SoftBodyVertices{Header: s.hdr, Lock: int32(s.sending)})
}

// DecodeFrame implements physics.StatusPayload.
func (s *SoftBodyVertices) DecodeFrame(f *wire.Frame, mem physics.Memory) error {
	if s.releasing() {
		return nil
	}
	w, err := read[wire.SoftBodyVertices](f)
	if err != nil {
		return err
	}
	s.NumVertices = w.NumVertices
	s.Position = w.Position
	s.Orientation = w.Orientation.Mgl()
	s.Scale = w.Scale
	if w.Vertices == 0 {
		return nil
	}

	lease := s.issue()
	s.mesh, s.meshLease = w.Mesh, lease
	n := int(w.NumVertices)
	if s.vertices, err = physics.MapVec3(mem, lease, w.Vertices, n, physics.Vec3Stride); err != nil {
		return err
	}
	s.normals, err = physics.MapVec3(mem, lease, w.Normals, n, physics.Vec3Stride)
	return err
}

// Query dispatches the query to e and decodes the result.
func (s *SoftBodyVertices) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

func (s *SoftBodyVertices) Release(e *physics.Entity) error {
	return s.release(e, s)
}

func (s *SoftBodyVertices) QueryLocal(e *physics.Entity, fn func(*SoftBodyVertices) error) error {
	return s.local(func() (bool, error) { return s.Query(e) }, func() error { return fn(s) })
}

// Discard revokes the current views without dispatching. Like Rope.Discard
// it refuses to drop an engaged lock.
func (s *SoftBodyVertices) Discard() error {
	return s.drop()
}

// Sensors reads the hit points and normals of a living entity's sensors.
// The views stay valid until the status is queried again or discarded.
type Sensors struct {
	header
	Flags uint32

	lease   *physics.Lease
	points  physics.Vec3View
	normals physics.Vec3View
}

// NewSensors returns a sensor query.
func NewSensors() *Sensors {
	return &Sensors{header: newHeader(wire.StatusSensors)}
}

func (s *Sensors) Points() physics.Vec3View { return s.points }

func (s *Sensors) Normals() physics.Vec3View { return s.normals }

// EncodeFrame implements physics.StatusPayload.
func (s *Sensors) EncodeFrame(f *wire.Frame) error {
	s.Discard()
	return wire.Encode(f.Image, &wire.Sensors{Header: s.hdr})
}

// DecodeFrame implements physics.StatusPayload.
func (s *Sensors) DecodeFrame(f *wire.Frame, mem physics.Memory) error {
	w, err := read[wire.Sensors](f)
	if err != nil {
		return err
	}
	s.Flags = w.Flags
	if w.NumSensors <= 0 {
		return nil
	}
	s.lease = physics.NewLease(LockLocal)
	n := int(w.NumSensors)
	if s.points, err = physics.MapVec3(mem, s.lease, w.Points, n, physics.Vec3Stride); err != nil {
		return err
	}
	s.normals, err = physics.MapVec3(mem, s.lease, w.Normals, n, physics.Vec3Stride)
	return err
}

// Query dispatches the query to e and decodes the result.
func (s *Sensors) Query(e *physics.Entity) (bool, error) {
	return query(e, s)
}

// Discard revokes the current views.
func (s *Sensors) Discard() {
	s.lease.Revoke()
	s.lease = nil
	s.points, s.normals = physics.Vec3View{}, physics.Vec3View{}
}
