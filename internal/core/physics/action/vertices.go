package action

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// TargetVertices poses a rope or soft body. Without indices the points
// target vertices 0..len(points)-1.
type TargetVertices struct {
	header
	Points  []mgl32.Vec3
	Indices []int32
}

// NewTargetVertices fails unless points and indices have the same length.
func NewTargetVertices(points []mgl32.Vec3, indices []int32) (*TargetVertices, error) {
	a := &TargetVertices{header: newHeader(wire.ActionTargetVertices), Points: points, Indices: indices}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *TargetVertices) validate() error {
	if len(a.Points) == 0 {
		return physics.ContractError("points", "at least one target point is required")
	}
	if a.Indices != nil && len(a.Indices) != len(a.Points) {
		return physics.ContractError("indices", "%d indices for %d points", len(a.Indices), len(a.Points))
	}
	return nil
}

// EncodeFrame implements physics.ActionPayload.
func (a *TargetVertices) EncodeFrame(f *wire.Frame) error {
	if err := a.validate(); err != nil {
		return err
	}
	return wire.Encode(f.Image, &wire.TargetVertices{
		Header:    a.hdr,
		NumPoints: int32(len(a.Points)),
		Points:    f.Attach(wire.PackVec3s(a.Points)),
		Indices:   f.Attach(wire.PackInt32s(a.Indices)),
	})
}

// Apply dispatches the TargetVertices action to e.
func (a *TargetVertices) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func targetVerticesFromWire(w *wire.TargetVertices, f *wire.Frame) (*TargetVertices, error) {
	a := &TargetVertices{header: header{w.Header}}
	n := int(w.NumPoints)
	raw, ok := f.Attached(w.Points)
	if !ok || n <= 0 {
		return nil, physics.ContractError("points", "target point array is missing")
	}
	points, err := wire.UnpackVec3s(raw, n)
	if err != nil {
		return nil, err
	}
	a.Points = points
	if raw, ok := f.Attached(w.Indices); ok {
		if a.Indices, err = wire.UnpackInt32s(raw, n); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AttachPoints pins soft body vertices to Target. Positions, when given,
// override where each vertex is attached and must pair up with Indices.
type AttachPoints struct {
	header
	Target      physics.Handle
	Part        physics.Option[int32]
	Indices     []int32
	Positions   []mgl32.Vec3
	LocalCoords bool
}

// NewAttachPoints fails unless indices and positions have the same length.
func NewAttachPoints(target physics.Handle, indices []int32, positions []mgl32.Vec3) (*AttachPoints, error) {
	a := &AttachPoints{
		header:    newHeader(wire.ActionAttachPoints),
		Target:    target,
		Indices:   indices,
		Positions: positions,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AttachPoints) validate() error {
	if len(a.Indices) == 0 {
		return physics.ContractError("indices", "at least one vertex index is required")
	}
	if a.Positions != nil && len(a.Positions) != len(a.Indices) {
		return physics.ContractError("positions", "%d positions for %d indices", len(a.Positions), len(a.Indices))
	}
	return nil
}

// EncodeFrame implements physics.ActionPayload.
func (a *AttachPoints) EncodeFrame(f *wire.Frame) error {
	if err := a.validate(); err != nil {
		return err
	}
	return wire.Encode(f.Image, &wire.AttachPoints{
		Header:      a.hdr,
		Entity:      uint64(a.Target),
		PartID:      physics.IntSlot(a.Part),
		NumPoints:   int32(len(a.Indices)),
		Indices:     f.Attach(wire.PackInt32s(a.Indices)),
		Positions:   f.Attach(wire.PackVec3s(a.Positions)),
		LocalCoords: boolSlot(physics.Some(a.LocalCoords)),
	})
}

// Apply dispatches the AttachPoints action to e.
func (a *AttachPoints) Apply(e *physics.Entity) (physics.Outcome[bool], error) {
	return apply(e, a)
}

func attachPointsFromWire(w *wire.AttachPoints, f *wire.Frame) (*AttachPoints, error) {
	a := &AttachPoints{
		header:      header{w.Header},
		Target:      physics.Handle(w.Entity),
		Part:        physics.IntFrom(w.PartID),
		LocalCoords: w.LocalCoords != 0,
	}
	n := int(w.NumPoints)
	raw, ok := f.Attached(w.Indices)
	if !ok || n <= 0 {
		return nil, physics.ContractError("indices", "vertex index array is missing")
	}
	indices, err := wire.UnpackInt32s(raw, n)
	if err != nil {
		return nil, err
	}
	a.Indices = indices
	if raw, ok := f.Attached(w.Positions); ok {
		if a.Positions, err = wire.UnpackVec3s(raw, n); err != nil {
			return nil, err
		}
	}
	return a, nil
}
