package simulated

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/action"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

func code(ok bool) int32 {
	if ok {
		return 1
	}
	return 0
}

// act applies a decoded action. TransferParts touches a second body and is
// handled by the world before this is reached.
func (b *body) act(w *World, a physics.ActionPayload) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch a := a.(type) {
	case *action.Impulse:
		return b.actImpulse(a)
	case *action.Reset:
		b.velocity, b.angularVelocity = mgl32.Vec3{}, mgl32.Vec3{}
		b.acceleration, b.angularAcceleration = mgl32.Vec3{}, mgl32.Vec3{}
		b.pending = nil
		if wipe, _ := a.ClearContacts.Get(); wipe {
			b.collisions = nil
		}
		return 1
	case *action.AddConstraint:
		return b.actAddConstraint(w, a)
	case *action.UpdateConstraint:
		return b.actUpdateConstraint(a)
	case *action.RegisterCollisionEvent:
		b.collisions = append(b.collisions, collision{
			point:    a.Point,
			normal:   a.Normal,
			collider: a.Collider,
			partIDs:  a.PartIDs,
		})
		return 1
	case *action.Awake:
		if !b.dynamic() {
			return 0
		}
		b.sleeping = a.Sleep
		b.minAwake = a.MinAwakeTime.Or(b.minAwake)
		return 1
	case *action.RemoveAllParts:
		b.parts = nil
		return 1
	case *action.ResetPartTransformation:
		id, index := a.Part.Slots()
		p, ok := b.findPart(id, index)
		if !ok {
			return 0
		}
		for _, q := range b.parts {
			if p == nil || q == p {
				q.position, q.orientation = q.initialPosition, q.initialOrientation
			}
		}
		return 1
	case *action.SetVelocity:
		if !b.dynamic() {
			return 0
		}
		if v, ok := a.Velocity.Get(); ok {
			b.velocity = v
		}
		if v, ok := a.AngularVelocity.Get(); ok {
			b.angularVelocity = v
		}
		b.sleeping = false
		return 1
	case *action.Notify:
		b.notified++
		return 1
	case *action.AutoPartDetachment:
		b.detachThreshold = a.Threshold
		b.detachDistance = a.DetachDistance.Or(b.detachDistance)
		return 1
	case *action.BatchPartsUpdate:
		return b.actBatchPartsUpdate(a)
	case *action.Slice:
		return b.actSlice(a)
	case *action.Move:
		return b.actMove(a)
	case *action.Drive:
		return b.actDrive(a)
	case *action.TargetVertices:
		return b.actTargetVertices(a)
	case *action.AttachPoints:
		return b.actAttachPoints(w, a)
	default:
		return 0
	}
}

func (b *body) actImpulse(a *action.Impulse) int32 {
	if !b.dynamic() {
		return 0
	}
	if id, index := a.Part.Slots(); a.Part.IsSpecified() {
		if _, ok := b.findPart(id, index); !ok {
			return 0
		}
	}
	i := impulse{linear: a.Impulse, when: a.ApplyTime}
	if ang, ok := a.Angular.Get(); ok {
		i.angular = ang
	}
	if point, ok := a.Point.Get(); ok {
		// An off-center impulse also spins the body.
		i.angular = i.angular.Add(point.Sub(b.position).Cross(a.Impulse))
	}
	if i.when == wire.ApplyImmediately {
		b.applyImpulse(i)
	} else {
		b.pending = append(b.pending, i)
	}
	if b.detachThreshold > 0 && a.Impulse.Len() > b.detachThreshold && len(b.parts) > 1 {
		b.parts = b.parts[:len(b.parts)-1]
	}
	return 1
}

func (b *body) actAddConstraint(w *World, a *action.AddConstraint) int32 {
	if a.Buddy != physics.NullHandle && w.lookup(a.Buddy) == nil {
		return 0
	}
	id := a.ID.Or(b.nextConstr)
	if _, taken := b.constraints[id]; taken || id == 0 {
		return 0
	}
	if id >= b.nextConstr {
		b.nextConstr = id + 1
	}
	c := &constraint{
		id:            id,
		buddy:         a.Buddy,
		points:        [2]mgl32.Vec3{a.Point, a.BuddyPoint.Or(a.Point)},
		flags:         a.Flags,
		damping:       a.Damping.Or(0),
		maxPullForce:  a.MaxPullForce.Or(0),
		maxBendTorque: a.MaxBendTorque.Or(0),
		swing:         a.Swing.Or(0),
	}
	for i := range 2 {
		c.partIDs[i] = a.PartIDs[i].Or(0)
		c.frames[i] = a.Frames[i].Or(mgl32.QuatIdent())
	}
	if tw, ok := a.Twist.Get(); ok {
		c.twist = [2]float32{tw.Lower, tw.Upper}
	}
	b.constraints[id] = c
	return id
}

func (b *body) actUpdateConstraint(a *action.UpdateConstraint) int32 {
	c, ok := b.constraints[int32(a.ID)]
	if !ok {
		return 0
	}
	if a.Remove {
		delete(b.constraints, c.id)
		return 1
	}
	c.flags = a.Patched(c.flags)
	for i := range 2 {
		c.points[i] = a.Points[i].Or(c.points[i])
		c.frames[i] = a.Frames[i].Or(c.frames[i])
	}
	c.damping = a.Damping.Or(c.damping)
	c.maxPullForce = a.MaxPullForce.Or(c.maxPullForce)
	c.maxBendTorque = a.MaxBendTorque.Or(c.maxBendTorque)
	return 1
}

func (b *body) actBatchPartsUpdate(a *action.BatchPartsUpdate) int32 {
	var updated int32
	for _, u := range a.Parts {
		p := b.partByID(u.ID)
		if p == nil {
			continue
		}
		p.position = u.Position.Or(p.position)
		p.orientation = u.Orientation.Or(p.orientation)
		if off, ok := a.Offset.Get(); ok {
			p.position = p.position.Add(off)
		}
		if rot, ok := a.OffsetRotation.Get(); ok {
			p.position = rot.Rotate(p.position)
			p.orientation = rot.Mul(p.orientation)
		}
		updated++
	}
	return updated
}

// actSlice splits the selected part in two along the plane.
func (b *body) actSlice(a *action.Slice) int32 {
	id, index := a.Part.Slots()
	p, ok := b.findPart(id, index)
	if !ok || len(b.parts) == 0 {
		return 0
	}
	if p == nil {
		p = b.parts[0]
	}
	n := a.Normal.Normalize()
	offset := n.Mul(b.size[0] / 4)
	b.addPart(p.position.Add(offset), p.orientation)
	p.position = p.position.Sub(offset)
	return int32(len(b.parts))
}

func (b *body) actMove(a *action.Move) int32 {
	if b.class != ClassLiving {
		return 0
	}
	switch a.Jump {
	case action.NoJump:
		b.requested = a.Velocity
	case action.AssignVelocity:
		b.velocity = a.Velocity
		b.flying = a.Velocity[2] > 0
	case action.AddVelocity:
		b.velocity = b.velocity.Add(a.Velocity)
		b.flying = b.velocity[2] > 0
	default:
		return 0
	}
	return 1
}

func (b *body) actDrive(a *action.Drive) int32 {
	if b.class != ClassVehicle {
		return 0
	}
	if v, ok := a.Pedal.Get(); ok {
		b.pedal = v
	}
	if d, ok := a.DeltaPedal.Get(); ok {
		b.pedal += d
	}
	b.pedal = mgl32.Clamp(b.pedal, -1, 1)
	if v, ok := a.Steer.Get(); ok {
		b.steer = v
	}
	if d, ok := a.DeltaSteer.Get(); ok {
		b.steer += d
	}
	b.clutch = a.Clutch.Or(b.clutch)
	b.handBrake = a.HandBrake.Or(b.handBrake)
	b.gear = a.Gear.Or(b.gear)
	b.sleeping = false
	return 1
}

func (b *body) actTargetVertices(a *action.TargetVertices) int32 {
	var target []mgl32.Vec3
	switch b.class {
	case ClassRope:
		target = b.points
	case ClassSoftBody:
		target = b.vertices
	default:
		return 0
	}
	for i, p := range a.Points {
		idx := i
		if a.Indices != nil {
			idx = int(a.Indices[i])
		}
		if idx < 0 || idx >= len(target) {
			return 0
		}
		target[idx] = p
	}
	return 1
}

func (b *body) actAttachPoints(w *World, a *action.AttachPoints) int32 {
	if b.class != ClassSoftBody && b.class != ClassRope {
		return 0
	}
	if a.Target != physics.NullHandle && w.lookup(a.Target) == nil {
		return 0
	}
	n := len(b.vertices)
	if b.class == ClassRope {
		n = len(b.points)
	}
	for i, idx := range a.Indices {
		if idx < 0 || int(idx) >= n {
			return 0
		}
		at := attachment{target: a.Target}
		switch {
		case a.Positions != nil:
			at.position = a.Positions[i]
		case b.class == ClassRope:
			at.position = b.points[idx]
		default:
			at.position = b.vertices[idx]
		}
		b.attached[idx] = at
	}
	return 1
}
