package simulated

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	groundEpsilon = 1e-3
	impactSpeed   = 0.5
	walkResponse  = 8
	engineForce   = 12
	rollingDrag   = 0.4
	maxRPM        = 6000
)

// step advances the body by dt. It reports false when the body was stalled
// by an engaged lock.
func (b *body) step(dt float32, gravity mgl32.Vec3) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.dynamic() {
		return true
	}
	if b.engaged > 0 {
		b.stepBacks++
		return false
	}
	b.lastStep = dt
	b.peakStep = max(b.peakStep, dt)
	for i := range b.collisions {
		b.collisions[i].age += dt
	}
	if b.minAwake > 0 {
		b.minAwake = max(b.minAwake-dt, 0)
	}
	if b.sleeping {
		return true
	}

	b.flushImpulses(wire.ApplyBeforeTimeStep)
	before := b.velocity

	switch b.class {
	case ClassLiving:
		b.stepLiving(dt, gravity)
	case ClassVehicle:
		b.stepVehicle(dt, gravity)
	case ClassRope:
		b.stepRope(dt, gravity)
	case ClassSoftBody:
		b.stepSoftBody(dt, gravity)
	default:
		b.stepRigid(dt, gravity)
	}

	b.flushImpulses(wire.ApplyAfterTimeStep)
	if dt > 0 {
		b.acceleration = b.velocity.Sub(before).Mul(1 / dt)
	}
	return true
}

func (b *body) stepRigid(dt float32, gravity mgl32.Vec3) {
	b.velocity = b.velocity.Add(gravity.Mul(dt))
	b.position = b.position.Add(b.velocity.Mul(dt))
	b.integrateOrientation(dt)
	b.landOnGround()
}

func (b *body) integrateOrientation(dt float32) {
	if b.angularVelocity.Len() == 0 {
		return
	}
	spin := mgl32.Quat{W: 0, V: b.angularVelocity}.Mul(b.orientation).Scale(dt / 2)
	b.orientation = b.orientation.Add(spin).Normalize()
}

// landOnGround keeps the body above the z=0 plane and records an impact
// when it hits it fast enough.
func (b *body) landOnGround() {
	floor := b.size[2] * b.scale / 2
	if b.position[2] >= floor {
		return
	}
	b.position[2] = floor
	if -b.velocity[2] > impactSpeed {
		b.collisions = append(b.collisions, collision{
			point:  mgl32.Vec3{b.position[0], b.position[1], 0},
			normal: mgl32.Vec3{0, 0, 1},
		})
	}
	if b.velocity[2] < 0 {
		b.velocity[2] = 0
	}
}

func (b *body) stepLiving(dt float32, gravity mgl32.Vec3) {
	if b.flying {
		b.velocity = b.velocity.Add(gravity.Mul(dt))
		b.timeFlying += dt
	} else {
		blend := min(walkResponse*dt, 1)
		horizontal := mgl32.Vec3{b.requested[0], b.requested[1], 0}
		current := mgl32.Vec3{b.velocity[0], b.velocity[1], 0}
		current = current.Add(horizontal.Sub(current).Mul(blend))
		b.velocity = mgl32.Vec3{current[0], current[1], b.velocity[2]}
	}
	b.position = b.position.Add(b.velocity.Mul(dt))
	if b.position[2] <= 0 {
		b.position[2] = 0
		if b.velocity[2] < 0 {
			b.velocity[2] = 0
		}
		b.flying = false
		b.timeFlying = 0
	}
}

func (b *body) stepVehicle(dt float32, gravity mgl32.Vec3) {
	forward := b.orientation.Rotate(mgl32.Vec3{0, 1, 0})
	speed := b.velocity.Dot(forward)

	drive := b.pedal * engineForce * float32(b.gear)
	if b.clutch > 0 {
		drive *= 1 - min(b.clutch, 1)
	}
	speed += (drive - rollingDrag*speed) * dt
	if b.handBrake {
		speed *= max(1-4*dt, 0)
	}
	if b.steer != 0 && speed != 0 {
		yaw := mgl32.QuatRotate(b.steer*speed*dt/4, mgl32.Vec3{0, 0, 1})
		b.orientation = yaw.Mul(b.orientation).Normalize()
		forward = b.orientation.Rotate(mgl32.Vec3{0, 1, 0})
	}

	b.velocity = forward.Mul(speed).Add(mgl32.Vec3{0, 0, b.velocity[2]}).Add(gravity.Mul(dt))
	b.position = b.position.Add(b.velocity.Mul(dt))
	b.landOnGround()

	grounded := b.onGround()
	b.rpm = min(abs32(speed)*60*float32(max(b.gear, 1)), maxRPM)
	for i := range b.wheels {
		w := &b.wheels[i]
		w.contact = grounded
		w.angularVelocity = speed / 0.35
		w.torque = drive / float32(len(b.wheels))
	}
}

// stepRope moves every point but the first, which is pinned, then restores
// segment lengths from the pinned end outwards.
func (b *body) stepRope(dt float32, gravity mgl32.Vec3) {
	b.points[0] = b.position
	b.pointVelocity[0] = mgl32.Vec3{}
	for i := 1; i < len(b.points); i++ {
		if _, pinned := b.attached[int32(i)]; pinned {
			continue
		}
		b.pointVelocity[i] = b.pointVelocity[i].Add(gravity.Mul(dt))
		b.points[i] = b.points[i].Add(b.pointVelocity[i].Mul(dt))
		if b.points[i][2] < 0 {
			b.points[i][2] = 0
			b.pointVelocity[i][2] = 0
		}
	}
	for i := 1; i < len(b.points); i++ {
		d := b.points[i].Sub(b.points[i-1])
		if l := d.Len(); l > b.segmentLength && l > 0 {
			b.points[i] = b.points[i-1].Add(d.Mul(b.segmentLength / l))
		}
	}
}

func (b *body) stepSoftBody(dt float32, gravity mgl32.Vec3) {
	for i := range b.vertices {
		if a, ok := b.attached[int32(i)]; ok {
			b.vertices[i] = a.position
			b.vertexVelocity[i] = mgl32.Vec3{}
			continue
		}
		b.vertexVelocity[i] = b.vertexVelocity[i].Add(gravity.Mul(dt))
		b.vertices[i] = b.vertices[i].Add(b.vertexVelocity[i].Mul(dt))
		if b.vertices[i][2] < 0 {
			b.vertices[i][2] = 0
			b.vertexVelocity[i] = mgl32.Vec3{}
		}
	}
	var center mgl32.Vec3
	for _, v := range b.vertices {
		center = center.Add(v)
	}
	b.position = center.Mul(1 / float32(len(b.vertices)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
