//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/google/wire"
)

func InitializeProbe(cfg *config.Config) *Probe {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		ProvideWorld,
		ProvideServer,
		wire.Struct(new(Probe), "*"),
	)
	return nil
}
