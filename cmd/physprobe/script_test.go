package main

import (
	"context"
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/injector"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func bindWorld(t *testing.T, specs ...simulated.Spec) (*simulated.World, *physics.Binding, []physics.Handle) {
	t.Helper()
	w := simulated.New(simulated.DefaultConfig(), nil)
	handles := make([]physics.Handle, 0, len(specs))
	for _, s := range specs {
		h, err := w.Spawn(s)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	b, err := physics.Bind(w, nil)
	require.NoError(t, err)
	return w, b, handles
}

func TestScript_RunDueInOrder(t *testing.T) {
	w, b, hs := bindWorld(t, simulated.Spec{Class: simulated.ClassRigid})
	s := newScript("crate", b.Entity(hs[0]), []config.Command{
		{At: 2, Status: "dynamics"},
		{At: 0, Action: "impulse", Vector: mgl32.Vec3{0, 0, 5}},
		{At: 0, Status: "location"},
	}, log.NewNop())

	require.NoError(t, s.runDue(0))
	require.False(t, s.done())
	require.Len(t, w.Journal(), 1)

	require.NoError(t, s.runDue(1))
	require.NoError(t, s.runDue(2))
	require.True(t, s.done())
}

func TestScript_EngagedRopeHeldUntilRelease(t *testing.T) {
	w, b, hs := bindWorld(t, simulated.Spec{Class: simulated.ClassRope, Segments: 4})
	s := newScript("tether", b.Entity(hs[0]), []config.Command{
		{At: 0, Status: "rope", Lock: "engage"},
		{At: 1, Status: "release"},
	}, log.NewNop())

	require.NoError(t, s.runDue(0))
	require.NotNil(t, s.rope)
	require.NotZero(t, w.Mapped())

	require.NoError(t, s.runDue(1))
	require.Nil(t, s.rope)
	require.Zero(t, w.Mapped())
}

func TestScript_LocalRope(t *testing.T) {
	_, b, hs := bindWorld(t, simulated.Spec{Class: simulated.ClassRope, Segments: 2})
	s := newScript("tether", b.Entity(hs[0]), []config.Command{
		{At: 0, Status: "rope"},
	}, log.NewNop())

	require.NoError(t, s.runDue(0))
	require.Nil(t, s.rope)
}

func TestScript_Unknown(t *testing.T) {
	_, b, hs := bindWorld(t, simulated.Spec{Class: simulated.ClassRigid})
	e := b.Entity(hs[0])

	require.Error(t, newScript("a", e, []config.Command{{Action: "teleport"}}, log.NewNop()).runDue(0))
	require.Error(t, newScript("b", e, []config.Command{{Status: "mood"}}, log.NewNop()).runDue(0))
	require.Error(t, newScript("c", e, []config.Command{{Status: "rope", Lock: "forever"}}, log.NewNop()).runDue(0))
}

func TestRun_LocalScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.World.TickRate = 1000
	cfg.Scenario = config.Scenario{
		Entities: []config.Entity{
			{
				Spec: simulated.Spec{Name: "walker", Class: simulated.ClassLiving},
				Script: []config.Command{
					{At: 0, Action: "move", Vector: mgl32.Vec3{1, 0, 0}},
					{At: 3, Status: "living"},
				},
			},
			{
				Spec:   simulated.Spec{Name: "tether", Class: simulated.ClassRope, Segments: 3},
				Script: []config.Command{{At: 1, Status: "rope", Lock: "engage"}},
			},
		},
	}

	probe := injector.InitializeProbe(&cfg)
	require.NoError(t, run(context.Background(), &cfg, probe))

	require.GreaterOrEqual(t, probe.World.Tick(), uint64(3))
	require.Zero(t, probe.World.Mapped(), "held arrays are released on exit")
	_, ok := probe.World.Lookup("walker")
	require.True(t, ok)
}
