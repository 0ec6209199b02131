package wire

import (
	"encoding/binary"
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var actionFactories = [...]func() any{
	ActionImpulse:                 func() any { return new(Impulse) },
	ActionReset:                   func() any { return new(Reset) },
	ActionAddConstraint:           func() any { return new(AddConstraint) },
	ActionUpdateConstraint:        func() any { return new(UpdateConstraint) },
	ActionRegisterCollisionEvent:  func() any { return new(RegisterCollisionEvent) },
	ActionAwake:                   func() any { return new(Awake) },
	ActionRemoveAllParts:          func() any { return new(RemoveAllParts) },
	ActionResetPartTransformation: func() any { return new(ResetPartTransformation) },
	ActionSetVelocity:             func() any { return new(SetVelocity) },
	ActionNotify:                  func() any { return new(Notify) },
	ActionAutoPartDetachment:      func() any { return new(AutoPartDetachment) },
	ActionTransferParts:           func() any { return new(TransferParts) },
	ActionBatchPartsUpdate:        func() any { return new(BatchPartsUpdate) },
	ActionSlice:                   func() any { return new(Slice) },
	ActionMove:                    func() any { return new(Move) },
	ActionDrive:                   func() any { return new(Drive) },
	ActionTargetVertices:          func() any { return new(TargetVertices) },
	ActionAttachPoints:            func() any { return new(AttachPoints) },
}

var statusFactories = [...]func() any{
	StatusLocation:          func() any { return new(Location) },
	StatusDynamics:          func() any { return new(Dynamics) },
	StatusLiving:            func() any { return new(Living) },
	StatusVehicle:           func() any { return new(Vehicle) },
	StatusWheel:             func() any { return new(Wheel) },
	StatusVehicleAbilities:  func() any { return new(VehicleAbilities) },
	StatusJoint:             func() any { return new(Joint) },
	StatusRope:              func() any { return new(Rope) },
	StatusSoftBodyVertices:  func() any { return new(SoftBodyVertices) },
	StatusSensors:           func() any { return new(Sensors) },
	StatusAwake:             func() any { return new(AwakeStatus) },
	StatusContainsPoint:     func() any { return new(ContainsPoint) },
	StatusPlaceHolder:       func() any { return new(PlaceHolder) },
	StatusSampleContactArea: func() any { return new(SampleContactArea) },
	StatusCapabilities:      func() any { return new(Capabilities) },
	StatusConstraint:        func() any { return new(Constraint) },
	StatusArea:              func() any { return new(Area) },
	StatusExtent:            func() any { return new(Extent) },
	StatusRandom:            func() any { return new(Random) },
	StatusStatistics:        func() any { return new(Statistics) },
	StatusCollisions:        func() any { return new(Collisions) },
	StatusIdentifier:        func() any { return new(Identifier) },
	StatusTimeSlices:        func() any { return new(TimeSlices) },
	StatusPartCount:         func() any { return new(PartCount) },
	StatusNetworkLocation:   func() any { return new(NetworkLocation) },
	StatusCheckStance:       func() any { return new(CheckStance) },
	StatusBuoyancy:          func() any { return new(Buoyancy) },
}

// NewAction returns a pointer to a zero wire struct of the given kind.
func NewAction(kind ActionKind) (any, error) {
	if kind <= 0 || kind >= actionKindEnd {
		return nil, ErrUnknownKind
	}
	return actionFactories[kind](), nil
}

// NewStatus returns a pointer to a zero wire struct of the given kind.
func NewStatus(kind StatusKind) (any, error) {
	if kind <= 0 || kind >= statusKindEnd {
		return nil, ErrUnknownKind
	}
	return statusFactories[kind](), nil
}

// ActionSize returns the image size of an action kind, or 0 if unknown.
func ActionSize(kind ActionKind) int {
	v, err := NewAction(kind)
	if err != nil {
		return 0
	}
	return binary.Size(v)
}

// StatusSize returns the image size of a status kind, or 0 if unknown.
func StatusSize(kind StatusKind) int {
	v, err := NewStatus(kind)
	if err != nil {
		return 0
	}
	return binary.Size(v)
}

// Field describes one field of a wire struct.
type Field struct {
	Name   string
	Offset uintptr
	Size   uintptr
}

// Layout describes a wire struct as laid out in memory.
type Layout struct {
	Name   string
	Size   uintptr
	Fields []Field
}

// LayoutOf reflects the layout of a wire struct or pointer to one.
func LayoutOf(v any) Layout {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	l := Layout{Name: t.Name(), Size: t.Size(), Fields: make([]Field, 0, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		l.Fields = append(l.Fields, Field{Name: f.Name, Offset: f.Offset, Size: f.Type.Size()})
	}
	return l
}

var (
	fingerprintOnce sync.Once
	fingerprint     uint64
)

// Fingerprint hashes the layout of every action and status struct. Two sides
// agree on the wire format exactly when their fingerprints match.
func Fingerprint() uint64 {
	fingerprintOnce.Do(func() {
		d := xxhash.New()
		write := func(prefix string, kind int, v any) {
			l := LayoutOf(v)
			_, _ = d.WriteString(prefix + strconv.Itoa(kind) + ":" + l.Name + "/" + strconv.Itoa(int(l.Size)))
			for _, f := range l.Fields {
				_, _ = d.WriteString("|" + f.Name + "@" + strconv.Itoa(int(f.Offset)) + "+" + strconv.Itoa(int(f.Size)))
			}
			_, _ = d.WriteString(";")
		}
		for k := ActionKind(1); k < actionKindEnd; k++ {
			write("a", int(k), actionFactories[k]())
		}
		for k := StatusKind(1); k < statusKindEnd; k++ {
			write("s", int(k), statusFactories[k]())
		}
		fingerprint = d.Sum64()
	})
	return fingerprint
}
