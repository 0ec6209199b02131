// Package simulated is an in-process native side for the physical-entity
// protocol. A World owns a set of simple bodies, advances them on a fixed
// step and answers every action and status image the way the engine would.
package simulated

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/action"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/RoqueDeicide/CryCIL-sub006/pkg/concurrent"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Config tunes a World.
type Config struct {
	Gravity     mgl32.Vec3 `yaml:"gravity"`
	TickRate    float64    `yaml:"tick_rate" env:"TICK_RATE"`
	Shards      int        `yaml:"shards" env:"SHARDS"`
	Workers     int        `yaml:"workers" env:"WORKERS"`
	JournalSize int        `yaml:"journal_size" env:"JOURNAL_SIZE"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:     mgl32.Vec3{0, 0, -9.81},
		TickRate:    60,
		Shards:      16,
		Workers:     4,
		JournalSize: 256,
	}
}

type shard struct {
	mu     sync.RWMutex
	bodies map[physics.Handle]*body
}

// World implements physics.Native over simulated bodies.
type World struct {
	cfg Config
	log log.Log
	mem *memory

	shards []shard
	handle atomic.Uint64
	tick   atomic.Uint64

	namesMu sync.RWMutex
	names   map[string]physics.Handle

	journal *journal
}

var (
	_ physics.Native        = (*World)(nil)
	_ physics.Fingerprinter = (*World)(nil)
)

func New(cfg Config, logger log.Log) *World {
	if logger == nil {
		logger = log.Provide()
	}
	if cfg.Shards <= 0 {
		cfg.Shards = 16
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	w := &World{
		cfg:     cfg,
		log:     logger.With(log.String("component", "simulated")),
		mem:     newMemory(),
		shards:  make([]shard, cfg.Shards),
		names:   make(map[string]physics.Handle),
		journal: newJournal(cfg.JournalSize),
	}
	for i := range w.shards {
		w.shards[i].bodies = make(map[physics.Handle]*body)
	}
	return w
}

func (w *World) shardOf(h physics.Handle) *shard {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], uint64(h))
	return &w.shards[xxhash.Sum64(key[:])%uint64(len(w.shards))]
}

// Spawn adds an entity and returns its handle. An empty name gets a random
// one; names must be unique.
func (w *World) Spawn(spec Spec) (physics.Handle, error) {
	if spec.Name == "" {
		spec.Name = spec.Class.String() + "-" + uuid.NewString()
	}

	w.namesMu.Lock()
	defer w.namesMu.Unlock()
	if _, taken := w.names[spec.Name]; taken {
		return physics.NullHandle, fmt.Errorf("entity %q already exists", spec.Name)
	}

	h := physics.Handle(w.handle.Add(1))
	b := newBody(h, spec)
	if spec.Class == ClassPlaceholder && spec.Full != "" {
		full, ok := w.names[spec.Full]
		if !ok {
			return physics.NullHandle, fmt.Errorf("placeholder %q: no entity named %q", spec.Name, spec.Full)
		}
		b.full = full
	}

	s := w.shardOf(h)
	s.mu.Lock()
	s.bodies[h] = b
	s.mu.Unlock()
	w.names[spec.Name] = h

	w.log.Info("entity spawned",
		log.String("name", spec.Name),
		log.String("class", spec.Class.String()),
		log.Uint64("handle", uint64(h)),
	)
	return h, nil
}

// Lookup resolves an entity name.
func (w *World) Lookup(name string) (physics.Handle, bool) {
	w.namesMu.RLock()
	defer w.namesMu.RUnlock()
	h, ok := w.names[name]
	return h, ok
}

// Remove deletes an entity and unmaps every array it handed out.
func (w *World) Remove(h physics.Handle) bool {
	s := w.shardOf(h)
	s.mu.Lock()
	b, ok := s.bodies[h]
	delete(s.bodies, h)
	s.mu.Unlock()
	if !ok {
		return false
	}

	b.mu.Lock()
	w.mem.free(b.engagedBlocks...)
	for kind := range b.localBlocks {
		b.releaseLocal(w.mem, kind)
	}
	name := b.name
	b.mu.Unlock()

	w.namesMu.Lock()
	delete(w.names, name)
	w.namesMu.Unlock()
	w.log.Info("entity removed", log.String("name", name), log.Uint64("handle", uint64(h)))
	return true
}

// lookup never takes a body lock.
func (w *World) lookup(h physics.Handle) *body {
	s := w.shardOf(h)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bodies[h]
}

// snapshot lists every body in handle order.
func (w *World) snapshot() []*body {
	var out []*body
	for i := range w.shards {
		s := &w.shards[i]
		s.mu.RLock()
		out = slices.AppendSeq(out, maps.Values(s.bodies))
		s.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b *body) int { return cmp.Compare(a.handle, b.handle) })
	return out
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick.Load()
}

// Step advances every entity by dt seconds. Entities held by an engaged lock
// sit the step out.
func (w *World) Step(ctx context.Context, dt float32) error {
	var stalled atomic.Int32
	err := concurrent.Throttle(ctx, slices.Values(w.snapshot()), w.cfg.Workers, func(_ context.Context, b *body) error {
		if !b.step(dt, w.cfg.Gravity) {
			stalled.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}
	tick := w.tick.Add(1)
	if n := stalled.Load(); n > 0 {
		w.log.Debug("entities stalled by engaged locks", log.Uint64("tick", tick), log.Int32("count", n))
	}
	return nil
}

// Run steps the world at hz until ctx is done. A non-positive hz uses the
// configured tick rate.
func (w *World) Run(ctx context.Context, hz float64) error {
	if hz <= 0 {
		hz = w.cfg.TickRate
	}
	period := time.Duration(float64(time.Second) / hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	w.log.Info("world running", log.Float64("hz", hz))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("world stopped", log.Uint64("tick", w.Tick()))
			return nil
		case <-ticker.C:
			if err := w.Step(ctx, float32(period.Seconds())); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}

// ActUpon implements physics.Native.
func (w *World) ActUpon(h physics.Handle, f *wire.Frame) int32 {
	b := w.lookup(h)
	if b == nil {
		w.log.Warn("action for unknown entity", log.Uint64("handle", uint64(h)))
		return 0
	}
	a, err := action.Decode(f)
	if err != nil {
		w.log.Warn("undecodable action", log.Uint64("handle", uint64(h)), log.Error(err))
		return 0
	}

	var code int32
	if t, ok := a.(*action.TransferParts); ok {
		code = w.transferParts(b, t)
	} else {
		code = b.act(w, a)
	}
	w.journal.record(Entry{
		Tick:   w.Tick(),
		Handle: h,
		Kind:   wire.ActionKind(a.Header().Kind),
		Code:   code,
		Image:  slices.Clone(f.Image),
	})
	return code
}

// GetStatus implements physics.Native.
func (w *World) GetStatus(h physics.Handle, f *wire.Frame) int32 {
	b := w.lookup(h)
	if b == nil {
		w.log.Warn("status for unknown entity", log.Uint64("handle", uint64(h)))
		return 0
	}
	hdr, err := f.Header()
	if err != nil {
		w.log.Warn("status without a valid header", log.Uint64("handle", uint64(h)), log.Error(err))
		return 0
	}
	raw, err := wire.NewStatus(wire.StatusKind(hdr.Kind))
	if err != nil {
		w.log.Warn("unknown status kind", log.Int32("kind", hdr.Kind))
		return 0
	}
	if err := wire.Decode(f.Image, raw); err != nil {
		w.log.Warn("undecodable status", log.Error(err))
		return 0
	}

	var code int32
	if s, ok := raw.(*wire.Buoyancy); ok {
		code = w.buoyancy(b, s)
	} else {
		code = b.status(w, raw)
	}
	if err := wire.Encode(f.Image, raw); err != nil {
		w.log.Error("status encode failed", log.Error(err))
		return 0
	}
	return code
}

// Alias implements physics.Memory.
func (w *World) Alias(addr uint64, size int) ([]byte, error) {
	return w.mem.Alias(addr, size)
}

// LayoutFingerprint implements physics.Fingerprinter.
func (w *World) LayoutFingerprint() uint64 {
	return wire.Fingerprint()
}

// Mapped returns the number of live native array blocks.
func (w *World) Mapped() int {
	return w.mem.mapped()
}

// Journal returns recorded actions, oldest first.
func (w *World) Journal() []Entry {
	return w.journal.entries()
}

// transferParts moves parts with ids in [First, Last] from src to the target
// entity. Both bodies are locked in handle order.
func (w *World) transferParts(src *body, a *action.TransferParts) int32 {
	dst := w.lookup(a.Target)
	if dst == nil || dst == src {
		return 0
	}
	first, second := src, dst
	if dst.handle < src.handle {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	var moved int32
	kept := src.parts[:0]
	for _, p := range src.parts {
		if p.id < a.First || p.id > a.Last {
			kept = append(kept, p)
			continue
		}
		p.id += a.IDOffset
		p.position = mgl32.TransformCoordinate(p.position, a.Offset)
		p.orientation = mgl32.Mat4ToQuat(a.Offset).Mul(p.orientation).Normalize()
		p.initialPosition, p.initialOrientation = p.position, p.orientation
		dst.parts = append(dst.parts, p)
		if p.id >= dst.nextPartID {
			dst.nextPartID = p.id + 1
		}
		moved++
	}
	src.parts = kept
	return moved
}

// buoyancy reports the index-th water area containing b. It never holds two
// body locks at once: b is read and released before any area is locked.
func (w *World) buoyancy(b *body, s *wire.Buoyancy) int32 {
	b.mu.Lock()
	position, area := b.position, b.class == ClassArea
	b.mu.Unlock()
	if area || s.Index < 0 {
		return 0
	}
	var found int32
	for _, a := range w.snapshot() {
		if a.class != ClassArea {
			continue
		}
		a.mu.Lock()
		inside := a.waterDensity > 0 && a.contains(position)
		if inside && found == s.Index {
			_, hi := a.bounds()
			s.WaterPlaneNormal = mgl32.Vec3{0, 0, 1}
			s.WaterPlaneOrigin = mgl32.Vec3{position[0], position[1], hi[2]}
			s.WaterDensity = a.waterDensity
			s.WaterFlow = a.velocity
			s.WaterResistance = a.waterDensity / 1000
			a.mu.Unlock()
			return 1
		}
		a.mu.Unlock()
		if inside {
			found++
		}
	}
	return 0
}
