package physics

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Option is a value that may be absent. The Go API uses it for every field
// the wire format encodes with a sentinel.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether the value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// Or returns the value, or fallback when absent.
func (o Option[T]) Or(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// IntSlot encodes an optional int32 for the wire.
func IntSlot(o Option[int32]) int32 {
	return o.Or(unused.Int)
}

// FloatSlot encodes an optional float32 for the wire.
func FloatSlot(o Option[float32]) float32 {
	if v, ok := o.Get(); ok {
		return v
	}
	return unused.Float()
}

// Vec3Slot encodes an optional vector for the wire.
func Vec3Slot(o Option[mgl32.Vec3]) wire.Vec3 {
	if v, ok := o.Get(); ok {
		return v
	}
	return unused.Vec3()
}

// QuatSlot encodes an optional rotation for the wire.
func QuatSlot(o Option[mgl32.Quat]) wire.Quat {
	if q, ok := o.Get(); ok {
		return wire.QuatFrom(q)
	}
	return unused.Quat()
}

// IntFrom decodes a wire int32, mapping the sentinel to None.
func IntFrom(v int32) Option[int32] {
	if unused.IsInt(v) {
		return None[int32]()
	}
	return Some(v)
}

// FloatFrom decodes a wire float32, mapping the sentinel to None.
func FloatFrom(v float32) Option[float32] {
	if unused.IsFloat(v) {
		return None[float32]()
	}
	return Some(v)
}

// Vec3From decodes a wire vector, mapping the sentinel to None.
func Vec3From(v wire.Vec3) Option[mgl32.Vec3] {
	if unused.IsVec3(v) {
		return None[mgl32.Vec3]()
	}
	return Some(v)
}

// QuatFrom decodes a wire rotation, mapping the sentinel to None.
func QuatFrom(q wire.Quat) Option[mgl32.Quat] {
	if unused.IsQuat(q) {
		return None[mgl32.Quat]()
	}
	return Some(q.Mgl())
}
