package injector

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/remote"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
)

// Probe is everything physprobe runs in-process.
type Probe struct {
	Log    *log.Logger
	World  *simulated.World
	Server *remote.Server
}

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.NewWithConfig(cfg.Log)
}

func ProvideWorld(cfg *config.Config, logger log.Log) *simulated.World {
	return simulated.New(cfg.World, logger)
}

func ProvideServer(world *simulated.World, logger log.Log) *remote.Server {
	return remote.NewServer(world, logger)
}
