package injector

import (
	"testing"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/stretchr/testify/require"
)

func TestInitializeProbe(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "silent"

	probe := InitializeProbe(&cfg)
	require.NotNil(t, probe.Log)
	require.NotNil(t, probe.World)
	require.NotNil(t, probe.Server)
	require.Zero(t, probe.World.Tick())
}
