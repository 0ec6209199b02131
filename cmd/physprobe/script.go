package main

import (
	"fmt"
	"strings"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/config"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/action"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/status"
	"github.com/RoqueDeicide/CryCIL-sub006/pkg/sequence"
	"github.com/go-gl/mathgl/mgl32"
)

// script replays one entity's commands against its handle. It keeps the
// array statuses it populated so a later "release" can hand them back.
type script struct {
	name     string
	entity   *physics.Entity
	log      log.Log
	schedule *sequence.Schedule[config.Command]

	rope *status.Rope
	soft *status.SoftBodyVertices
}

func newScript(name string, e *physics.Entity, cmds []config.Command, logger log.Log) *script {
	s := &script{
		name:     name,
		entity:   e,
		log:      logger.With(log.String("entity", name), log.Uint64("handle", uint64(e.Handle()))),
		schedule: sequence.NewSchedule[config.Command](),
	}
	for _, c := range cmds {
		s.schedule.Push(c.At, c)
	}
	if first, ok := s.schedule.Peek(); ok {
		s.log.Debug("script loaded", log.Int("commands", s.schedule.Len()), log.Uint64("first_tick", first))
	}
	return s
}

func (s *script) done() bool {
	return s.schedule.IsEmpty()
}

// runDue sends every command due at tick, in script order.
func (s *script) runDue(tick uint64) error {
	if next, ok := s.schedule.Peek(); !ok || next > tick {
		return nil
	}
	for _, c := range s.schedule.PopDue(tick) {
		var err error
		if c.Action != "" {
			err = s.act(c)
		} else {
			err = s.query(c)
		}
		if err != nil {
			return fmt.Errorf("%s at tick %d: %w", s.name, tick, err)
		}
	}
	return nil
}

func (s *script) act(c config.Command) error {
	var (
		code int32
		err  error
	)
	switch strings.ToLower(c.Action) {
	case "impulse":
		code, err = s.entity.Act(action.NewImpulse(c.Vector))
	case "move":
		code, err = s.entity.Act(action.NewMove(c.Vector, action.NoJump))
	case "jump":
		code, err = s.entity.Act(action.NewMove(c.Vector, action.AddVelocity))
	case "set_velocity":
		a := action.NewSetVelocity()
		a.Velocity = physics.Some(c.Vector)
		code, err = s.entity.Act(a)
	case "drive":
		a := action.NewDrive()
		a.Pedal = physics.Some(c.Value)
		a.Steer = physics.Some(c.Vector[0])
		code, err = s.entity.Act(a)
	case "sleep":
		code, err = s.entity.Act(action.NewAwake(true))
	case "wake":
		code, err = s.entity.Act(action.NewAwake(false))
	case "reset":
		code, err = s.entity.Act(action.NewReset())
	case "slice":
		code, err = s.entity.Act(action.NewSlice(c.Vector, mgl32.Vec3{}))
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
	if err != nil {
		return err
	}
	s.log.Info("action", log.String("kind", c.Action), log.Int32("code", code))
	return nil
}

func (s *script) query(c config.Command) error {
	switch strings.ToLower(c.Status) {
	case "location":
		st := status.NewLocation()
		ok, err := st.Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("location", log.Bool("ok", ok), log.Any("position", st.Position), log.Any("sim_class", st.SimClass))
	case "dynamics":
		st := status.NewDynamics()
		ok, err := st.Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("dynamics", log.Bool("ok", ok), log.Any("velocity", st.Velocity), log.Float32("energy", st.Energy))
	case "living":
		st := status.NewLiving()
		ok, err := st.Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("living", log.Bool("ok", ok), log.Bool("flying", st.IsFlying), log.Any("velocity", st.Velocity))
	case "vehicle":
		st := status.NewVehicle()
		ok, err := st.Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("vehicle", log.Bool("ok", ok), log.Float32("rpm", st.EngineRPM), log.Int32("gear", st.CurrentGear))
	case "statistics":
		st := status.NewStatistics()
		ok, err := st.Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("statistics", log.Bool("ok", ok), log.Int32("step_backs", st.NumStepBacks), log.Int32("collisions", st.NumCollisions))
	case "collisions":
		n, err := status.NewCollisions().Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("collisions", log.Int32("count", n))
	case "part_count":
		n, err := status.NewPartCount().Query(s.entity)
		if err != nil {
			return err
		}
		s.log.Info("part_count", log.Int32("count", n))
	case "rope":
		return s.queryRope(c)
	case "soft_body":
		return s.querySoftBody(c)
	case "release":
		return s.release()
	default:
		return fmt.Errorf("unknown status %q", c.Status)
	}
	return nil
}

func lockMode(name string) (status.LockMode, error) {
	switch strings.ToLower(name) {
	case "", "local":
		return status.LockLocal, nil
	case "engage":
		return status.LockEngage, nil
	default:
		return 0, fmt.Errorf("unknown lock %q", name)
	}
}

func (s *script) queryRope(c config.Command) error {
	mode, err := lockMode(c.Lock)
	if err != nil {
		return err
	}
	rope := status.NewRope(mode)
	report := func(r *status.Rope) error {
		points, err := r.Points().Copy()
		if err != nil {
			return err
		}
		s.log.Info("rope", log.Int("points", len(points)), log.Float32("tension", r.Tension), log.Any("end", points[len(points)-1]))
		return nil
	}
	if mode == status.LockLocal {
		return rope.QueryLocal(s.entity, report)
	}

	if err := s.release(); err != nil {
		return err
	}
	ok, err := rope.Fetch(s.entity)
	if err != nil || !ok {
		return err
	}
	s.rope = rope
	return report(rope)
}

func (s *script) querySoftBody(c config.Command) error {
	mode, err := lockMode(c.Lock)
	if err != nil {
		return err
	}
	soft := status.NewSoftBodyVertices(mode)
	report := func(sb *status.SoftBodyVertices) error {
		s.log.Info("soft_body", log.Int32("vertices", sb.NumVertices), log.Any("position", sb.Position))
		return nil
	}
	if mode == status.LockLocal {
		return soft.QueryLocal(s.entity, report)
	}

	if err := s.release(); err != nil {
		return err
	}
	ok, err := soft.Query(s.entity)
	if err != nil || !ok {
		return err
	}
	s.soft = soft
	return report(soft)
}

// release hands back every engaged array this script holds.
func (s *script) release() error {
	if s.rope != nil {
		if err := s.rope.Release(s.entity); err != nil {
			return err
		}
		s.rope = nil
	}
	if s.soft != nil {
		if err := s.soft.Release(s.entity); err != nil {
			return err
		}
		s.soft = nil
	}
	return nil
}
