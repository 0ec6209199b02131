package unused

import (
	"math"
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/stretchr/testify/require"
)

func TestSentinels(t *testing.T) {
	require.True(t, IsInt(Int))
	require.True(t, IsFloat(Float()))
	require.True(t, IsVec3(Vec3()))
	require.True(t, IsQuat(Quat()))
	require.True(t, math.IsNaN(float64(Float())))
}

func TestSentinels_RejectDomainValues(t *testing.T) {
	for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32 + 1} {
		require.False(t, IsInt(v), "%d", v)
	}

	nan := float32(math.NaN())
	for _, v := range []float32{0, 1, -1, float32(math.Inf(1)), float32(math.Inf(-1)), math.MaxFloat32, nan} {
		require.False(t, IsFloat(v), "%v", v)
	}

	require.False(t, IsVec3(wire.Vec3{}))
	require.False(t, IsVec3(wire.Vec3{1, 0, 0}))
	require.False(t, IsQuat(wire.IdentityQuat))
	require.False(t, IsQuat(wire.Quat{}))
}

func TestSentinels_Collision(t *testing.T) {
	// A value carrying the sentinel bits is read as unset.
	collided := math.Float32frombits(FloatBits)
	require.True(t, IsFloat(collided))
}
