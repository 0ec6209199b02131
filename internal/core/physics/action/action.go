// Package action implements the 18 one-shot commands that can be dispatched
// to a physical entity.
//
// Every action is built with its New constructor, which stamps the header and
// defaults every optional field to absent. Fields are then adjusted directly
// and the action is dispatched with Apply, which returns a typed outcome.
// Arguments that break an action's contract are reported as
// physics.ErrInvalidArgument before anything reaches the native side.
package action

import (
	"fmt"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

type JumpMode = wire.JumpMode

const (
	NoJump         = wire.JumpNone
	AssignVelocity = wire.JumpAssignVelocity
	AddVelocity    = wire.JumpAddVelocity
)

type ApplyTime = wire.ApplyTime

const (
	Immediately    = wire.ApplyImmediately
	BeforeTimeStep = wire.ApplyBeforeTimeStep
	AfterTimeStep  = wire.ApplyAfterTimeStep
)

type ConstraintFlags = wire.ConstraintFlags

type NotifyCode = wire.NotifyCode

// header carries the stamped header of an action. The zero value is invalid.
type header struct {
	hdr wire.Header
}

func newHeader(kind wire.ActionKind) header {
	return header{hdr: wire.NewActionHeader(kind)}
}

// Header returns the action header.
func (h header) Header() wire.Header {
	return h.hdr
}

func boolSlot(o physics.Option[bool]) int32 {
	v, ok := o.Get()
	switch {
	case !ok:
		return unused.Int
	case v:
		return 1
	default:
		return 0
	}
}

func boolFrom(v int32) physics.Option[bool] {
	if unused.IsInt(v) {
		return physics.None[bool]()
	}
	return physics.Some(v != 0)
}

func apply(e *physics.Entity, a physics.ActionPayload) (physics.Outcome[bool], error) {
	code, err := e.Act(a)
	if err != nil {
		return physics.Outcome[bool]{}, err
	}
	return physics.Applied(code), nil
}

func count(e *physics.Entity, a physics.ActionPayload) (physics.Outcome[int32], error) {
	code, err := e.Act(a)
	if err != nil {
		return physics.Outcome[int32]{}, err
	}
	return physics.Outcome[int32]{Code: code, Accepted: code > 0, Value: code}, nil
}

// Decode rebuilds an action from a dispatched frame. It is the inverse of
// EncodeFrame and is used by native implementations and journals.
func Decode(f *wire.Frame) (physics.ActionPayload, error) {
	h, err := f.Header()
	if err != nil {
		return nil, err
	}
	kind := wire.ActionKind(h.Kind)
	raw, err := wire.NewAction(kind)
	if err != nil {
		return nil, err
	}
	if err := wire.Decode(f.Image, raw); err != nil {
		return nil, err
	}

	switch w := raw.(type) {
	case *wire.Impulse:
		return impulseFromWire(w), nil
	case *wire.Reset:
		return &Reset{header: header{w.Header}, ClearContacts: boolFrom(w.ClearContacts)}, nil
	case *wire.AddConstraint:
		return addConstraintFromWire(w), nil
	case *wire.UpdateConstraint:
		return updateConstraintFromWire(w), nil
	case *wire.RegisterCollisionEvent:
		return registerCollisionEventFromWire(w), nil
	case *wire.Awake:
		return &Awake{header: header{w.Header}, Sleep: w.Sleep != 0, MinAwakeTime: physics.FloatFrom(w.MinAwakeTime)}, nil
	case *wire.RemoveAllParts:
		return &RemoveAllParts{header: header{w.Header}}, nil
	case *wire.ResetPartTransformation:
		return &ResetPartTransformation{header: header{w.Header}, Part: physics.PartFromSlots(w.PartID, w.PartIndex)}, nil
	case *wire.SetVelocity:
		return setVelocityFromWire(w), nil
	case *wire.Notify:
		return &Notify{header: header{w.Header}, Code: NotifyCode(w.Code)}, nil
	case *wire.AutoPartDetachment:
		return &AutoPartDetachment{header: header{w.Header}, Threshold: w.Threshold, DetachDistance: physics.FloatFrom(w.DetachDistance)}, nil
	case *wire.TransferParts:
		return transferPartsFromWire(w), nil
	case *wire.BatchPartsUpdate:
		return fromAttached(batchPartsUpdateFromWire(w, f))
	case *wire.Slice:
		return &Slice{header: header{w.Header}, Part: physics.PartFromSlots(w.PartID, w.PartIndex), Normal: w.Normal, Point: w.Point}, nil
	case *wire.Move:
		return moveFromWire(w), nil
	case *wire.Drive:
		return driveFromWire(w), nil
	case *wire.TargetVertices:
		return fromAttached(targetVerticesFromWire(w, f))
	case *wire.AttachPoints:
		return fromAttached(attachPointsFromWire(w, f))
	default:
		return nil, fmt.Errorf("action: no decoder for %T", raw)
	}
}

// fromAttached keeps a failed decode from surfacing as a typed nil payload.
func fromAttached[T physics.ActionPayload](a T, err error) (physics.ActionPayload, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
