package physics

import (
	"fmt"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/observability/log"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/RoqueDeicide/CryCIL-sub006/pkg/generic"
	"github.com/google/uuid"
)

// Payload is implemented by every action and status value.
type Payload interface {
	// Header returns the payload header. Only kind constructors produce a
	// valid one.
	Header() wire.Header
}

// ActionPayload is an action that can render itself into a frame.
type ActionPayload interface {
	Payload
	EncodeFrame(f *wire.Frame) error
}

// StatusPayload is a status that renders its inputs into a frame and reads
// its outputs back once the native side has populated it.
type StatusPayload interface {
	Payload
	EncodeFrame(f *wire.Frame) error
	DecodeFrame(f *wire.Frame, mem Memory) error
}

// Outcome is the typed result of an action.
type Outcome[T any] struct {
	Code     int32
	Accepted bool
	Value    T
}

// Applied builds an outcome from a code where non-zero means applied.
func Applied(code int32) Outcome[bool] {
	return Outcome[bool]{Code: code, Accepted: code != 0, Value: code != 0}
}

// Binding ties a Native to the logger and frame pool shared by its entities.
type Binding struct {
	native Native
	log    log.Log
	frames *generic.Pool[*wire.Frame]
}

// Bind checks the native layout fingerprint, when available, and returns a
// binding for dispatching to its entities. A nil logger means log.Provide().
func Bind(native Native, logger log.Log) (*Binding, error) {
	if logger == nil {
		logger = log.Provide()
	}
	if fp, ok := native.(Fingerprinter); ok {
		if got, want := fp.LayoutFingerprint(), wire.Fingerprint(); got != want {
			return nil, NewError(ErrorCodeLayoutMismatch,
				fmt.Sprintf("native %#x, managed %#x", got, want), ErrLayoutMismatch)
		}
	}
	return &Binding{
		native: native,
		log:    logger,
		frames: generic.NewHotPool(
			func() *wire.Frame { return &wire.Frame{Image: make([]byte, 0, 256)} },
			func(f *wire.Frame) { f.Reset() },
			8,
		),
	}, nil
}

// Native returns the bound call surface.
func (b *Binding) Native() Native {
	return b.native
}

// Entity returns a dispatcher for the entity with the given handle.
func (b *Binding) Entity(h Handle) *Entity {
	return &Entity{
		binding: b,
		handle:  h,
		log:     b.log.With(log.Uint64("entity", uint64(h))),
	}
}

// Entity dispatches payloads to one native entity.
type Entity struct {
	binding *Binding
	handle  Handle
	log     log.Log
}

// Handle returns the native handle.
func (e *Entity) Handle() Handle {
	return e.handle
}

// Memory returns the address resolver of the bound native.
func (e *Entity) Memory() Memory {
	return e.binding.native
}

// Act dispatches an action and returns the raw native code.
func (e *Entity) Act(a ActionPayload) (int32, error) {
	if e == nil {
		return 0, ErrNilEntity
	}
	h := a.Header()
	kind := wire.ActionKind(h.Kind)
	if !h.Valid() || wire.ActionSize(kind) == 0 {
		return 0, NewError(ErrorCodeInvalidHeader, fmt.Sprintf("action %T", a), ErrInvalidHeader)
	}

	f := e.binding.frames.Get()
	defer e.binding.frames.Put(f)

	f.Image = growImage(f.Image, wire.ActionSize(kind))
	if err := a.EncodeFrame(f); err != nil {
		return 0, err
	}

	code := e.binding.native.ActUpon(e.handle, f)
	e.trace("act", kind.String(), code)
	return code, nil
}

// Query dispatches a status once, populating it from the native image, and
// returns the raw native code. Outputs are decoded even when the code is 0;
// callers branch on the code before trusting them.
func (e *Entity) Query(s StatusPayload) (int32, error) {
	if e == nil {
		return 0, ErrNilEntity
	}
	h := s.Header()
	kind := wire.StatusKind(h.Kind)
	if !h.Valid() || wire.StatusSize(kind) == 0 {
		return 0, NewError(ErrorCodeInvalidHeader, fmt.Sprintf("status %T", s), ErrInvalidHeader)
	}

	f := e.binding.frames.Get()
	defer e.binding.frames.Put(f)

	f.Image = growImage(f.Image, wire.StatusSize(kind))
	if err := s.EncodeFrame(f); err != nil {
		return 0, err
	}

	code := e.binding.native.GetStatus(e.handle, f)
	e.trace("status", kind.String(), code)
	if err := s.DecodeFrame(f, e.binding.native); err != nil {
		return code, err
	}
	return code, nil
}

func (e *Entity) trace(op, kind string, code int32) {
	if !e.log.Enabled(log.LevelDebug) {
		return
	}
	e.log.Debug("dispatch",
		log.String("op", op),
		log.String("kind", kind),
		log.Int32("code", code),
		log.String("trace", uuid.NewString()),
	)
}

func growImage(buf []byte, size int) []byte {
	if cap(buf) < size {
		return make([]byte, size)
	}
	buf = buf[:size]
	clear(buf)
	return buf
}
