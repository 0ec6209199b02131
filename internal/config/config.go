// Package config loads physprobe configuration from a yaml file, then lets
// PHYSPROBE_* environment variables override it.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
	"github.com/caarlos0/env/v11"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PHYSPROBE_"

type Config struct {
	Log      log.Config       `yaml:"log" envPrefix:"LOG_"`
	World    simulated.Config `yaml:"world" envPrefix:"WORLD_"`
	Remote   Remote           `yaml:"remote" envPrefix:"REMOTE_"`
	Scenario Scenario         `yaml:"scenario"`
}

// Remote selects how the probe reaches a native. With neither address set
// it drives an in-process world. A quic:// listen address serves QUIC
// instead of websocket; CertFile and KeyFile are only read for QUIC and
// default to a self-signed certificate.
type Remote struct {
	Listen   string        `yaml:"listen" env:"LISTEN"`
	Connect  string        `yaml:"connect" env:"CONNECT"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	CertFile string        `yaml:"cert_file" env:"CERT_FILE"`
	KeyFile  string        `yaml:"key_file" env:"KEY_FILE"`
}

// Scenario is the set of entities a probe spawns and the commands it sends.
type Scenario struct {
	// Ticks bounds the run; 0 runs until interrupted.
	Ticks    uint64   `yaml:"ticks" env:"SCENARIO_TICKS"`
	Entities []Entity `yaml:"entities"`
}

type Entity struct {
	simulated.Spec `yaml:",inline"`
	// Handle addresses the entity when connecting to a remote native. It
	// defaults to the 1-based position in the list, the order a serving
	// probe spawns entities in.
	Handle uint64    `yaml:"handle"`
	Script []Command `yaml:"script"`
}

// Command is one scripted call, sent once the world reaches tick At.
// Exactly one of Action and Status is set.
type Command struct {
	At     uint64     `yaml:"at"`
	Action string     `yaml:"action"`
	Status string     `yaml:"status"`
	Vector mgl32.Vec3 `yaml:"vector"`
	Value  float32    `yaml:"value"`
	Lock   string     `yaml:"lock"`
}

func Default() Config {
	return Config{
		Log:    log.Config{Level: "info", Format: "console"},
		World:  simulated.DefaultConfig(),
		Remote: Remote{Timeout: 5 * time.Second},
	}
}

// Load reads path, which may be empty, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Remote.Listen != "" && c.Remote.Connect != "" {
		return fmt.Errorf("remote: listen and connect are mutually exclusive")
	}
	if c.World.TickRate <= 0 {
		return fmt.Errorf("world: tick_rate must be positive, have %v", c.World.TickRate)
	}
	for i, e := range c.Scenario.Entities {
		for j, cmd := range e.Script {
			if (cmd.Action == "") == (cmd.Status == "") {
				return fmt.Errorf("scenario: entity %d command %d: exactly one of action and status is required", i, j)
			}
		}
	}
	return nil
}
