// Command physprobe drives physical entities through the action/status
// protocol. It spawns a yaml scenario in an in-process world and plays each
// entity's script against it, serves that world to remote probes, or plays
// the scripts against a remote world.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/remote"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/injector"
	"github.com/RoqueDeicide/CryCIL-sub006/pkg/concurrent"
	"golang.org/x/sync/errgroup"
)

func main() {
	path := flag.String("config", "", "scenario and settings file (yaml)")
	listen := flag.String("listen", "", "serve the world to remote probes on this address, quic://host:port for QUIC")
	connect := flag.String("connect", "", "play the scenario against a remote world at this ws:// or quic:// url")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "physprobe:", err)
		os.Exit(2)
	}
	if *listen != "" {
		cfg.Remote.Listen = *listen
	}
	if *connect != "" {
		cfg.Remote.Connect = *connect
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "physprobe:", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	probe := injector.InitializeProbe(cfg)
	defer func() { _ = probe.Log.Sync() }()

	if err := run(ctx, cfg, probe); err != nil {
		probe.Log.Error("physprobe failed", log.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, probe *injector.Probe) error {
	if cfg.Remote.Connect != "" {
		return connect(ctx, cfg, probe.Log)
	}

	entities, err := spawnAll(probe.World, cfg.Scenario.Entities)
	if err != nil {
		return err
	}
	binding, err := physics.Bind(probe.World, probe.Log)
	if err != nil {
		return err
	}
	scripts := scriptsFor(binding, entities, probe.Log)

	if cfg.Remote.Listen == "" {
		return play(ctx, cfg, scripts, func(ctx context.Context, dt float32) error {
			return probe.World.Step(ctx, dt)
		})
	}

	// Serving: the world runs on its own clock and the local scripts only
	// follow it.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return probe.World.Run(ctx, cfg.World.TickRate) })
	g.Go(func() error { return serve(ctx, cfg, probe.Server) })
	g.Go(func() error {
		return play(ctx, cfg, scripts, func(context.Context, float32) error { return nil })
	})
	return g.Wait()
}

// serve picks the transport from the listen address scheme.
func serve(ctx context.Context, cfg *config.Config, srv *remote.Server) error {
	addr, ok := strings.CutPrefix(cfg.Remote.Listen, remote.SchemeQUIC+"://")
	if !ok {
		return srv.ListenAndServe(ctx, cfg.Remote.Listen)
	}
	tlsConf, err := remote.ServerTLS(cfg.Remote.CertFile, cfg.Remote.KeyFile)
	if err != nil {
		return err
	}
	return srv.ListenAndServeQUIC(ctx, addr, tlsConf)
}

func connect(ctx context.Context, cfg *config.Config, logger log.Log) error {
	client, err := remote.Dial(ctx, cfg.Remote.Connect, cfg.Remote.Timeout, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	binding, err := physics.Bind(client, logger)
	if err != nil {
		return err
	}
	entities := make([]spawned, 0, len(cfg.Scenario.Entities))
	for i, e := range cfg.Scenario.Entities {
		h := physics.Handle(e.Handle)
		if h == physics.NullHandle {
			h = physics.Handle(i + 1)
		}
		entities = append(entities, spawned{cfg: e, handle: h})
	}
	if err := play(ctx, cfg, scriptsFor(binding, entities, logger), func(context.Context, float32) error { return nil }); err != nil {
		return err
	}
	return client.Err()
}

type spawned struct {
	cfg    config.Entity
	handle physics.Handle
}

func spawnAll(w *simulated.World, entities []config.Entity) ([]spawned, error) {
	out := make([]spawned, 0, len(entities))
	for _, e := range entities {
		h, err := w.Spawn(e.Spec)
		if err != nil {
			return nil, err
		}
		out = append(out, spawned{cfg: e, handle: h})
	}
	return out, nil
}

func scriptsFor(b *physics.Binding, entities []spawned, logger log.Log) []*script {
	scripts := make([]*script, 0, len(entities))
	for _, e := range entities {
		name := e.cfg.Name
		if name == "" {
			name = fmt.Sprintf("entity-%d", e.handle)
		}
		scripts = append(scripts, newScript(name, b.Entity(e.handle), e.cfg.Script, logger))
	}
	return scripts
}

// play ticks at the configured rate. Each tick advances the world through
// step, then runs the commands due on every script concurrently; a script's
// own commands stay in order. It returns once the scenario's tick budget is
// spent, or once every script is done when there is no budget.
func play(ctx context.Context, cfg *config.Config, scripts []*script, step func(context.Context, float32) error) error {
	period := time.Duration(float64(time.Second) / cfg.World.TickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for tick := uint64(0); ; tick++ {
		err := concurrent.Concurrent(slices.Values(scripts), func(s *script) error {
			return s.runDue(tick)
		})
		if err != nil {
			return err
		}
		if cfg.Scenario.Ticks > 0 && tick+1 >= cfg.Scenario.Ticks {
			return releaseAll(scripts)
		}
		if cfg.Scenario.Ticks == 0 && cfg.Remote.Listen == "" && allDone(scripts) {
			return releaseAll(scripts)
		}

		select {
		case <-ctx.Done():
			return releaseAll(scripts)
		case <-ticker.C:
		}
		if err := step(ctx, float32(period.Seconds())); err != nil {
			return err
		}
	}
}

func allDone(scripts []*script) bool {
	for _, s := range scripts {
		if !s.done() {
			return false
		}
	}
	return true
}

func releaseAll(scripts []*script) error {
	for _, s := range scripts {
		if err := s.release(); err != nil {
			return err
		}
	}
	return nil
}
