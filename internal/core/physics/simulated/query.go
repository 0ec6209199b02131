package simulated

import (
	"math"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// status fills the outputs of a decoded status image in place.
func (b *body) status(w *World, s any) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch s := s.(type) {
	case *wire.Location:
		return b.location(s)
	case *wire.Dynamics:
		return b.dynamics(s)
	case *wire.Living:
		return b.living(s)
	case *wire.Vehicle:
		return b.vehicle(s)
	case *wire.Wheel:
		return b.wheel(s)
	case *wire.VehicleAbilities:
		if b.class != ClassVehicle {
			return 0
		}
		steer := s.Steer
		if unused.IsFloat(steer) {
			steer = b.steer
		}
		s.MaxVelocity = engineForce * float32(max(b.gear, 1)) / rollingDrag
		if steer != 0 {
			s.RotationPivot = b.position.Add(mgl32.Vec3{4 / steer, 0, 0})
			s.MaxVelocity *= float32(math.Cos(float64(steer)))
		}
		return 1
	case *wire.Joint:
		p, ok := b.findPart(s.PartID, s.PartIndex)
		if !ok || p == nil || b.class != ClassArticulated {
			return 0
		}
		s.Angles = p.angles
		s.AngularVelocities = p.angularVelocity
		s.Rotation0 = wire.QuatFrom(p.initialOrientation)
		return 1
	case *wire.Rope:
		return b.rope(w.mem, s)
	case *wire.SoftBodyVertices:
		return b.softBody(w.mem, s)
	case *wire.Sensors:
		return b.sensors(w.mem, s)
	case *wire.AwakeStatus:
		return code(b.dynamic() && !b.sleeping)
	case *wire.ContainsPoint:
		b.raycasts++
		return code(b.contains(s.Point))
	case *wire.PlaceHolder:
		if b.class != ClassPlaceholder {
			return 0
		}
		s.Full = uint64(b.full)
		return code(b.full != physics.NullHandle)
	case *wire.SampleContactArea:
		lo, hi := b.bounds()
		inside := s.Point[0] >= lo[0] && s.Point[0] <= hi[0] && s.Point[1] >= lo[1] && s.Point[1] <= hi[1]
		return code(inside && b.onGround() && s.Direction[2] <= 0)
	case *wire.Capabilities:
		s.CanAlterOrientation = code(b.class != ClassLiving)
		return 1
	case *wire.Constraint:
		c, ok := b.constraints[s.ID]
		if !ok {
			return 0
		}
		s.Points = [2]wire.Vec3{c.points[0], c.points[1]}
		s.Normal = c.frames[0].Rotate(mgl32.Vec3{1, 0, 0})
		s.Flags = uint32(c.flags)
		s.Entities = [2]uint64{uint64(b.handle), uint64(c.buddy)}
		s.PartIDs = c.partIDs
		return 1
	case *wire.Area:
		return b.area(s)
	case *wire.Extent:
		return b.extent(s)
	case *wire.Random:
		_, hi := b.bounds()
		s.Point = mgl32.Vec3{b.position[0], b.position[1], hi[2]}
		s.Normal = mgl32.Vec3{0, 0, 1}
		s.Area = b.size[0] * b.size[1] * b.scale * b.scale
		return 1
	case *wire.Statistics:
		s.NumCollisions = int32(len(b.collisions))
		s.NumRaycasts = b.raycasts
		s.NumStepBacks = b.stepBacks
		s.PeakTimeStep = b.peakStep
		return 1
	case *wire.Collisions:
		return b.collisionCount(s)
	case *wire.Identifier:
		p, ok := b.findPart(s.PartID, s.PartIndex)
		if !ok {
			return 0
		}
		if p == nil {
			if len(b.parts) == 0 {
				return 0
			}
			p = b.parts[0]
		}
		s.SurfaceID = p.material
		return 1
	case *wire.TimeSlices:
		return b.timeSlices(s)
	case *wire.PartCount:
		return int32(len(b.parts))
	case *wire.NetworkLocation:
		s.Position = b.position
		s.Orientation = wire.QuatFrom(b.orientation)
		s.Velocity = b.velocity
		s.AngularVelocity = b.angularVelocity
		s.TimeOffset = 0
		return 1
	case *wire.CheckStance:
		return b.checkStance(s)
	default:
		return 0
	}
}

func (b *body) location(s *wire.Location) int32 {
	p, ok := b.findPart(s.PartID, s.PartIndex)
	if !ok {
		return 0
	}
	position, orientation := b.position, b.orientation
	if p != nil {
		position = position.Add(orientation.Rotate(p.position))
		orientation = orientation.Mul(p.orientation)
	}
	if wire.LocationFlags(s.RequestFlags)&wire.LocationLocalSpace != 0 && p != nil {
		position, orientation = p.position, p.orientation
	}
	s.Position = position
	s.Orientation = wire.QuatFrom(orientation)
	s.Scale = b.scale
	s.BBoxMin, s.BBoxMax = b.bounds()
	s.SimClass = int32(b.simClass())
	s.Transform = wire.Matrix34From(b.transform())
	s.Geometry = uint64(b.handle)<<8 | 1
	s.GeometryProxy = s.Geometry
	if p != nil {
		s.PartFlags = uint32(p.id)
	}
	return 1
}

func (b *body) dynamics(s *wire.Dynamics) int32 {
	if _, ok := b.findPart(s.PartID, s.PartIndex); !ok {
		return 0
	}
	s.Velocity = b.velocity
	s.AngularVelocity = b.angularVelocity
	s.Acceleration = b.acceleration
	s.AngularAcceleration = b.angularAcceleration
	s.CenterOfMass = b.position
	s.Mass = b.mass
	s.Energy = b.mass * b.velocity.Dot(b.velocity) / 2
	s.NumContacts = int32(len(b.collisions))
	if unused.IsFloat(s.TimeInterval) {
		s.TimeInterval = b.lastStep
	}
	if b.position[2] < 0 {
		s.SubmergedFraction = 1
	}
	return 1
}

func (b *body) living(s *wire.Living) int32 {
	if b.class != ClassLiving {
		return 0
	}
	s.IsFlying = code(b.flying)
	s.TimeFlying = b.timeFlying
	s.CameraOffset = mgl32.Vec3{0, 0, b.size[2] * 0.9}
	s.Velocity = b.velocity
	s.VelocityUnconstrained = b.velocity
	s.VelocityRequested = b.requested
	s.GroundHeight = 0
	s.GroundNormal = mgl32.Vec3{0, 0, 1}
	s.GroundSurfaceIndex = unused.Int
	if !b.flying {
		s.GroundSurfaceIndex = 0
	}
	return 1
}

func (b *body) vehicle(s *wire.Vehicle) int32 {
	if b.class != ClassVehicle {
		return 0
	}
	s.Steer = b.steer
	s.Pedal = b.pedal
	s.HandBrake = code(b.handBrake)
	s.Velocity = b.velocity
	s.CurrentGear = b.gear
	s.EngineRPM = b.rpm
	s.Clutch = b.clutch
	s.DrivingTorque = b.pedal * engineForce * float32(b.gear)
	s.NumActiveWheels = int32(len(b.wheels))
	for _, w := range b.wheels {
		if w.contact {
			s.NumWheelsContact++
		}
	}
	s.IsColliding = code(len(b.collisions) > 0)
	return 1
}

func (b *body) wheel(s *wire.Wheel) int32 {
	if b.class != ClassVehicle {
		return 0
	}
	idx := -1
	switch {
	case !unused.IsInt(s.WheelIndex):
		idx = int(s.WheelIndex)
	case !unused.IsInt(s.PartID):
		for i, w := range b.wheels {
			if w.partID == s.PartID {
				idx = i
			}
		}
	}
	if idx < 0 || idx >= len(b.wheels) {
		return 0
	}
	w := b.wheels[idx]
	s.WheelIndex = int32(idx)
	s.PartID = w.partID
	s.Contact = code(w.contact)
	if w.contact {
		s.ContactPoint = mgl32.Vec3{b.position[0], b.position[1], 0}
		s.ContactNormal = mgl32.Vec3{0, 0, 1}
	}
	s.Friction = [2]float32{1, 1}
	s.SuspensionLength = w.suspension
	s.SuspensionLengthFull = w.suspension * 2
	s.SuspensionLengthRest = w.suspension
	s.AngularVelocity = w.angularVelocity
	s.Torque = w.torque
	s.Steer = b.steer
	return 1
}

// rope answers the two-phase rope query. With the segment count unused it
// only reports sizes; otherwise it publishes array snapshots and, under
// LockEngage, stalls the rope until the matching LockRelease.
func (b *body) rope(mem *memory, s *wire.Rope) int32 {
	if b.class != ClassRope {
		return 0
	}
	if wire.LockMode(s.Lock) == wire.LockRelease {
		return b.unlock(mem)
	}

	sizing := unused.IsInt(s.NumSegments)
	s.NumSegments = int32(len(b.points) - 1)
	s.NumVertices = int32(len(b.points))
	s.NumCollisions = int32(len(b.collisions))
	s.Tension = b.tension()
	s.Points, s.Velocities, s.Vertices, s.VertexVelocities = 0, 0, 0, 0
	if sizing {
		return 1
	}

	// The skin has one vertex per point, so the vertex arrays repeat the
	// point arrays in blocks of their own.
	blocks := []uint64{
		mem.publishVec3s(b.points),
		mem.publishVec3s(b.pointVelocity),
		mem.publishVec3s(b.points),
		mem.publishVec3s(b.pointVelocity),
	}
	s.Points, s.Velocities, s.Vertices, s.VertexVelocities = blocks[0], blocks[1], blocks[2], blocks[3]
	b.hold(mem, wire.StatusRope, wire.LockMode(s.Lock), blocks)
	return 1
}

func (b *body) tension() float32 {
	var stretched float32
	for i := 1; i < len(b.points); i++ {
		stretched += b.points[i].Sub(b.points[i-1]).Len()
	}
	return stretched / (b.segmentLength * float32(max(len(b.points)-1, 1)))
}

func (b *body) softBody(mem *memory, s *wire.SoftBodyVertices) int32 {
	if b.class != ClassSoftBody {
		return 0
	}
	if wire.LockMode(s.Lock) == wire.LockRelease {
		return b.unlock(mem)
	}
	s.NumVertices = int32(len(b.vertices))
	s.Position = b.position
	s.Orientation = wire.QuatFrom(b.orientation)
	s.Scale = b.scale
	blocks := []uint64{
		mem.publishVec3s(b.vertices),
		mem.publishVec3s(b.normals),
	}
	s.Vertices, s.Normals = blocks[0], blocks[1]
	s.Mesh = uint64(b.handle)<<8 | 2
	b.hold(mem, wire.StatusSoftBodyVertices, wire.LockMode(s.Lock), blocks)
	return 1
}

func (b *body) sensors(mem *memory, s *wire.Sensors) int32 {
	if b.class != ClassLiving {
		return 0
	}
	b.releaseLocal(mem, wire.StatusSensors)
	b.raycasts += 4
	points := make([]mgl32.Vec3, 4)
	normals := make([]mgl32.Vec3, 4)
	for i := range points {
		angle := float64(i) * math.Pi / 2
		dir := mgl32.Vec3{float32(math.Cos(angle)), float32(math.Sin(angle)), 0}
		points[i] = mgl32.Vec3{b.position[0], b.position[1], 0}.Add(dir.Mul(b.size[0] / 2))
		normals[i] = mgl32.Vec3{0, 0, 1}
	}
	s.NumSensors = int32(len(points))
	s.Flags = 0xF
	s.Points = mem.publishVec3s(points)
	s.Normals = mem.publishVec3s(normals)
	b.localBlocks[wire.StatusSensors] = []uint64{s.Points, s.Normals}
	return 1
}

// hold tracks published blocks by lock mode. Engaged blocks live until the
// release; local blocks until the next query of the same kind.
func (b *body) hold(mem *memory, kind wire.StatusKind, mode wire.LockMode, blocks []uint64) {
	if mode == wire.LockEngage {
		b.engaged++
		b.engagedBlocks = append(b.engagedBlocks, blocks...)
		return
	}
	b.releaseLocal(mem, kind)
	b.localBlocks[kind] = blocks
}

func (b *body) unlock(mem *memory) int32 {
	if b.engaged == 0 {
		return 0
	}
	b.engaged--
	if b.engaged == 0 {
		mem.free(b.engagedBlocks...)
		b.engagedBlocks = nil
	}
	return 1
}

func (b *body) area(s *wire.Area) int32 {
	if b.class != ClassArea {
		return 0
	}
	lo, hi := b.bounds()
	qlo, qhi := s.Center.Sub(s.Size.Mul(0.5)), s.Center.Add(s.Size.Mul(0.5))
	for i := range 3 {
		if qhi[i] < lo[i] || qlo[i] > hi[i] {
			return 0
		}
	}
	s.Gravity = b.gravity
	s.WaterDensity = unused.Float()
	if b.waterDensity > 0 {
		s.WaterDensity = b.waterDensity
	}
	return 1
}

func (b *body) extent(s *wire.Extent) int32 {
	axis := s.Axis
	if axis.Len() == 0 {
		return 0
	}
	axis = axis.Normalize()
	half := b.size.Mul(b.scale / 2)
	span := 2 * (abs32(axis[0])*half[0] + abs32(axis[1])*half[1] + abs32(axis[2])*half[2])
	switch wire.GeomForm(s.Form) {
	case wire.GeomEdges, wire.GeomProjection:
		s.Extent = span
	case wire.GeomSurface:
		s.Extent = span * span
	case wire.GeomVolume:
		s.Extent = b.size[0] * b.size[1] * b.size[2] * b.scale * b.scale * b.scale
	default:
		return 0
	}
	return 1
}

func (b *body) collisionCount(s *wire.Collisions) int32 {
	var n int32
	for _, c := range b.collisions {
		if unused.IsFloat(s.MaxAge) || c.age <= s.MaxAge {
			n++
		}
	}
	s.Count = n
	if s.ClearHistory != 0 {
		b.collisions = nil
	}
	return n
}

func (b *body) timeSlices(s *wire.TimeSlices) int32 {
	precision := s.Precision
	if unused.IsFloat(precision) || precision <= 0 {
		precision = 1.0 / 60
	}
	step := b.lastStep
	if !unused.IsFloat(s.MaxTime) && s.MaxTime > 0 {
		step = min(step, s.MaxTime)
	}
	s.Count = int32(math.Ceil(float64(step / precision)))
	return s.Count
}

func (b *body) checkStance(s *wire.CheckStance) int32 {
	if b.class != ClassLiving {
		return 0
	}
	position := b.position
	if !unused.IsVec3(s.Position) {
		position = s.Position
	}
	bottom := position[2] + s.HeightCollider - s.Size[2]
	if bottom >= 0 {
		s.Unprojection = 0
		return 0
	}
	s.Direction = mgl32.Vec3{0, 0, 1}
	s.Unprojection = -bottom
	return 1
}
