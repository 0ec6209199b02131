package action

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ChildHasChanged = wire.NotifyChildHasChanged
	ParentChange    = wire.NotifyParentChange
	GeometryChange  = wire.NotifyGeometryChange
)

type RemoveAllParts struct {
	header
}

// NewRemoveAllParts returns an action that strips every part.
func NewRemoveAllParts() *RemoveAllParts {
	return &RemoveAllParts{header: newHeader(wire.ActionRemoveAllParts)}
}

// EncodeFrame implements physics.ActionPayload.
func (a *RemoveAllParts) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.RemoveAllParts{Header: a.hdr})
}

// Apply dispatches the RemoveAllParts action to e.
func (a *RemoveAllParts) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

// ResetPartTransformation restores a part to the transform it was added with.
type ResetPartTransformation struct {
	header
	Part physics.Part
}

// NewResetPartTransformation returns a request that restores the transform of part.
func NewResetPartTransformation(part physics.Part) *ResetPartTransformation {
	return &ResetPartTransformation{header: newHeader(wire.ActionResetPartTransformation), Part: part}
}

// EncodeFrame implements physics.ActionPayload.
func (a *ResetPartTransformation) EncodeFrame(f *wire.Frame) error {
	id, index := a.Part.Slots()
	return wire.Encode(f.Image, &wire.ResetPartTransformation{Header: a.hdr, PartID: id, PartIndex: index})
}

// Apply dispatches the ResetPartTransformation action to e.
func (a *ResetPartTransformation) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

// Notify tells an entity that something it depends on has changed.
type Notify struct {
	header
	Code NotifyCode
}

// NewNotify returns a notification carrying code.
func NewNotify(code NotifyCode) *Notify {
	return &Notify{header: newHeader(wire.ActionNotify), Code: code}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Notify) EncodeFrame(f *wire.Frame) error {
	if a.Code < ChildHasChanged || a.Code > GeometryChange {
		return physics.ContractError("code", "unknown notification %d", a.Code)
	}
	return wire.Encode(f.Image, &wire.Notify{Header: a.hdr, Code: int32(a.Code)})
}

// Apply dispatches the Notify action to e.
func (a *Notify) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

// AutoPartDetachment makes parts break off once the impulse they receive
// exceeds Threshold.
type AutoPartDetachment struct {
	header
	Threshold      float32
	DetachDistance physics.Option[float32]
}

// NewAutoPartDetachment sets the detachment threshold of the entity.
func NewAutoPartDetachment(threshold float32) *AutoPartDetachment {
	return &AutoPartDetachment{header: newHeader(wire.ActionAutoPartDetachment), Threshold: threshold}
}

// EncodeFrame implements physics.ActionPayload.
func (a *AutoPartDetachment) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.AutoPartDetachment{
		Header:         a.hdr,
		Threshold:      a.Threshold,
		DetachDistance: physics.FloatSlot(a.DetachDistance),
	})
}

// Apply dispatches the AutoPartDetachment action to e.
func (a *AutoPartDetachment) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

// RegisterCollisionEvent injects a synthetic collision between the entity
// and Collider.
type RegisterCollisionEvent struct {
	header
	Collider    physics.Handle
	Point       mgl32.Vec3
	Normal      mgl32.Vec3
	Velocities  [2]mgl32.Vec3
	Mass        physics.Option[float32]
	PartIDs     [2]int32
	MaterialIDs [2]int32
}

// NewRegisterCollisionEvent returns a synthetic collision with collider at point.
func NewRegisterCollisionEvent(collider physics.Handle, point, normal mgl32.Vec3) *RegisterCollisionEvent {
	return &RegisterCollisionEvent{
		header:   newHeader(wire.ActionRegisterCollisionEvent),
		Collider: collider,
		Point:    point,
		Normal:   normal,
	}
}

// EncodeFrame implements physics.ActionPayload.
func (a *RegisterCollisionEvent) EncodeFrame(f *wire.Frame) error {
	return wire.Encode(f.Image, &wire.RegisterCollisionEvent{
		Header:      a.hdr,
		Point:       a.Point,
		Normal:      a.Normal,
		Velocities:  [2]wire.Vec3{a.Velocities[0], a.Velocities[1]},
		Mass:        physics.FloatSlot(a.Mass),
		PartIDs:     a.PartIDs,
		MaterialIDs: a.MaterialIDs,
		Collider:    uint64(a.Collider),
	})
}

// Apply dispatches the RegisterCollisionEvent action to e.
func (a *RegisterCollisionEvent) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func registerCollisionEventFromWire(w *wire.RegisterCollisionEvent) *RegisterCollisionEvent {
	return &RegisterCollisionEvent{
		header:      header{w.Header},
		Collider:    physics.Handle(w.Collider),
		Point:       w.Point,
		Normal:      w.Normal,
		Velocities:  [2]mgl32.Vec3{w.Velocities[0], w.Velocities[1]},
		Mass:        physics.FloatFrom(w.Mass),
		PartIDs:     w.PartIDs,
		MaterialIDs: w.MaterialIDs,
	}
}

// TransferParts moves the parts with ids in [First, Last] to Target. Moved
// parts are placed under Offset relative to the target and their ids are
// shifted by IDOffset. Apply reports how many parts moved.
type TransferParts struct {
	header
	Target   physics.Handle
	First    int32
	Last     int32
	IDOffset int32
	Offset   mgl32.Mat4
}

// NewTransferParts moves parts with ids in [first, last] to target with an identity offset.
func NewTransferParts(target physics.Handle, first, last int32) *TransferParts {
	return &TransferParts{
		header: newHeader(wire.ActionTransferParts),
		Target: target,
		First:  first,
		Last:   last,
		Offset: mgl32.Ident4(),
	}
}

// EncodeFrame implements physics.ActionPayload.
func (a *TransferParts) EncodeFrame(f *wire.Frame) error {
	if a.Target == physics.NullHandle {
		return physics.ContractError("target", "target entity is required")
	}
	if a.First > a.Last {
		return physics.ContractError("range", "first id %d is past last id %d", a.First, a.Last)
	}
	return wire.Encode(f.Image, &wire.TransferParts{
		Header:   a.hdr,
		IDStart:  a.First,
		IDEnd:    a.Last,
		IDOffset: a.IDOffset,
		Target:   uint64(a.Target),
		Offset:   wire.Matrix34From(a.Offset),
	})
}

// Apply dispatches the TransferParts action to e.
func (a *TransferParts) Apply(e *physics.Entity) (physics.Outcome[int32], error) {
	return count(e, a)
}

func transferPartsFromWire(w *wire.TransferParts) *TransferParts {
	return &TransferParts{
		header:   header{w.Header},
		Target:   physics.Handle(w.Target),
		First:    w.IDStart,
		Last:     w.IDEnd,
		IDOffset: w.IDOffset,
		Offset:   w.Offset.Mat4(),
	}
}

// PartUpdate is one entry of a BatchPartsUpdate.
type PartUpdate struct {
	ID          int32
	Position    physics.Option[mgl32.Vec3]
	Orientation physics.Option[mgl32.Quat]
}

// BatchPartsUpdate moves and rotates several parts at once, then applies
// Offset and OffsetRotation to all of them. Apply reports how many parts
// were updated.
type BatchPartsUpdate struct {
	header
	Parts          []PartUpdate
	Offset         physics.Option[mgl32.Vec3]
	OffsetRotation physics.Option[mgl32.Quat]
}

// NewBatchPartsUpdate fails if two entries name the same part, since the
// order they would be applied in is unspecified.
func NewBatchPartsUpdate(parts ...PartUpdate) (*BatchPartsUpdate, error) {
	a := &BatchPartsUpdate{header: newHeader(wire.ActionBatchPartsUpdate), Parts: parts}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *BatchPartsUpdate) validate() error {
	seen := make(map[int32]struct{}, len(a.Parts))
	for i, p := range a.Parts {
		if _, dup := seen[p.ID]; dup {
			return physics.ContractError("parts", "part id %d repeated at entry %d", p.ID, i)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// EncodeFrame implements physics.ActionPayload.
func (a *BatchPartsUpdate) EncodeFrame(f *wire.Frame) error {
	if err := a.validate(); err != nil {
		return err
	}

	n := len(a.Parts)
	ids := make([]int32, n)
	var positions []wire.Vec3
	var orientations []wire.Quat
	for i, p := range a.Parts {
		ids[i] = p.ID
		if p.Position.IsSome() {
			if positions == nil {
				positions = make([]wire.Vec3, n)
				for j := range positions {
					positions[j] = unused.Vec3()
				}
			}
			positions[i] = physics.Vec3Slot(p.Position)
		}
		if p.Orientation.IsSome() {
			if orientations == nil {
				orientations = make([]wire.Quat, n)
				for j := range orientations {
					orientations[j] = unused.Quat()
				}
			}
			orientations[i] = physics.QuatSlot(p.Orientation)
		}
	}

	return wire.Encode(f.Image, &wire.BatchPartsUpdate{
		Header:         a.hdr,
		NumParts:       int32(n),
		PartIDs:        f.Attach(wire.PackInt32s(ids)),
		Positions:      f.Attach(wire.PackVec3s(positions)),
		Orientations:   f.Attach(wire.PackQuats(orientations)),
		Offset:         physics.Vec3Slot(a.Offset),
		OffsetRotation: physics.QuatSlot(a.OffsetRotation),
	})
}

// Apply dispatches the BatchPartsUpdate action to e.
func (a *BatchPartsUpdate) Apply(e *physics.Entity) (physics.Outcome[int32], error) {
	return count(e, a)
}

func batchPartsUpdateFromWire(w *wire.BatchPartsUpdate, f *wire.Frame) (*BatchPartsUpdate, error) {
	a := &BatchPartsUpdate{
		header:         header{w.Header},
		Offset:         physics.Vec3From(w.Offset),
		OffsetRotation: physics.QuatFrom(w.OffsetRotation),
	}
	n := int(w.NumParts)
	if n <= 0 {
		return a, nil
	}

	raw, ok := f.Attached(w.PartIDs)
	if !ok {
		return nil, physics.ContractError("parts", "part id array is missing")
	}
	ids, err := wire.UnpackInt32s(raw, n)
	if err != nil {
		return nil, err
	}
	a.Parts = make([]PartUpdate, n)
	for i, id := range ids {
		a.Parts[i].ID = id
	}

	if raw, ok := f.Attached(w.Positions); ok {
		positions, err := wire.UnpackVec3s(raw, n)
		if err != nil {
			return nil, err
		}
		for i, p := range positions {
			a.Parts[i].Position = physics.Vec3From(p)
		}
	}
	if raw, ok := f.Attached(w.Orientations); ok {
		orientations, err := wire.UnpackQuats(raw, n)
		if err != nil {
			return nil, err
		}
		for i, q := range orientations {
			a.Parts[i].Orientation = physics.QuatFrom(q)
		}
	}
	return a, a.validate()
}

// Slice cuts a part, or the whole entity, along the plane through Point with
// the given Normal. Apply reports the resulting number of parts.
type Slice struct {
	header
	Part   physics.Part
	Normal mgl32.Vec3
	Point  mgl32.Vec3
}

// NewSlice cuts the entity with the plane through point along normal.
func NewSlice(normal, point mgl32.Vec3) *Slice {
	return &Slice{header: newHeader(wire.ActionSlice), Normal: normal, Point: point}
}

// EncodeFrame implements physics.ActionPayload.
func (a *Slice) EncodeFrame(f *wire.Frame) error {
	if a.Normal.Len() == 0 {
		return physics.ContractError("normal", "plane normal must be non-zero")
	}
	id, index := a.Part.Slots()
	return wire.Encode(f.Image, &wire.Slice{
		Header:    a.hdr,
		PartID:    id,
		PartIndex: index,
		Normal:    a.Normal,
		Point:     a.Point,
	})
}

// Apply dispatches the Slice action to e.
func (a *Slice) Apply(e *physics.Entity) (physics.Outcome[int32], error) {
	return count(e, a)
}
