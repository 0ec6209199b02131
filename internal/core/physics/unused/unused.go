// Package unused defines the reserved bit patterns the native side reads as
// "field not set, leave unchanged".
//
// Each optional primitive has exactly one sentinel. A genuine value that
// happens to carry the sentinel bits is indistinguishable from "not set" and
// is dropped by the native side; callers that may produce such values (the
// float sentinel is a NaN, the int sentinel is math.MinInt32) must not rely on
// them crossing the wire.
package unused

import (
	"math"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

// FloatBits is the bit pattern of the unused float: a negative quiet NaN
// with a payload no arithmetic produces.
const FloatBits uint32 = 0xFFBFFFFF

// Int is the unused int32.
const Int int32 = math.MinInt32

// Float returns the unused float32.
func Float() float32 {
	return math.Float32frombits(FloatBits)
}

// Vec3 returns the unused vector.
func Vec3() wire.Vec3 {
	f := Float()
	return wire.Vec3{f, f, f}
}

// Quat returns the unused quaternion.
func Quat() wire.Quat {
	return wire.Quat{V: Vec3(), W: Float()}
}

// IsInt reports whether v is the unused int32.
func IsInt(v int32) bool {
	return v == Int
}

// IsFloat reports whether v carries the unused float bits. NaN never
// compares equal, so the check is on bits.
func IsFloat(v float32) bool {
	return math.Float32bits(v) == FloatBits
}

// IsVec3 reports whether v is the unused vector. The first component decides,
// as on the native side.
func IsVec3(v wire.Vec3) bool {
	return IsFloat(v[0])
}

// IsQuat reports whether q is the unused quaternion.
func IsQuat(q wire.Quat) bool {
	return IsFloat(q.W)
}
