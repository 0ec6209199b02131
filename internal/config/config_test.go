package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const sample = `
log:
  level: debug
world:
  gravity: [0, 0, -1.62]
  tick_rate: 30
remote:
  timeout: 2s
scenario:
  ticks: 120
  entities:
    - name: tether
      class: rope
      position: [0, 0, 10]
      segments: 8
      script:
        - at: 10
          status: rope
          lock: engage
    - name: walker
      class: living
      script:
        - at: 0
          action: move
          vector: [1, 0, 0]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format, "defaults survive a partial file")
	require.Equal(t, mgl32.Vec3{0, 0, -1.62}, cfg.World.Gravity)
	require.EqualValues(t, 30, cfg.World.TickRate)
	require.Equal(t, 16, cfg.World.Shards)
	require.Equal(t, 2*time.Second, cfg.Remote.Timeout)

	require.EqualValues(t, 120, cfg.Scenario.Ticks)
	require.Len(t, cfg.Scenario.Entities, 2)
	rope := cfg.Scenario.Entities[0]
	require.Equal(t, "tether", rope.Name)
	require.Equal(t, simulated.ClassRope, rope.Class)
	require.Equal(t, 8, rope.Segments)
	require.Equal(t, "engage", rope.Script[0].Lock)
	require.Equal(t, mgl32.Vec3{1, 0, 0}, cfg.Scenario.Entities[1].Script[0].Vector)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PHYSPROBE_LOG_LEVEL", "warn")
	t.Setenv("PHYSPROBE_WORLD_TICK_RATE", "90")
	t.Setenv("PHYSPROBE_REMOTE_LISTEN", ":9100")
	t.Setenv("PHYSPROBE_SCENARIO_TICKS", "5")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
	require.EqualValues(t, 90, cfg.World.TickRate)
	require.Equal(t, ":9100", cfg.Remote.Listen)
	require.EqualValues(t, 5, cfg.Scenario.Ticks)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().World, cfg.World)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "world:\n  tick_rate: 0\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "remote:\n  listen: :1\n  connect: ws://x\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "scenario:\n  entities:\n    - class: rigid\n      script:\n        - at: 1\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "scenario:\n  entities:\n    - class: jelly\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bogus: 1\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
