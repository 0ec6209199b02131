package simulated

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Class is the kind of simulated entity.
type Class int

const (
	ClassStatic Class = iota
	ClassRigid
	ClassArticulated
	ClassLiving
	ClassVehicle
	ClassRope
	ClassSoftBody
	ClassArea
	ClassPlaceholder
)

var classNames = [...]string{
	ClassStatic:      "static",
	ClassRigid:       "rigid",
	ClassArticulated: "articulated",
	ClassLiving:      "living",
	ClassVehicle:     "vehicle",
	ClassRope:        "rope",
	ClassSoftBody:    "soft_body",
	ClassArea:        "area",
	ClassPlaceholder: "placeholder",
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// ParseClass maps a class name to a Class.
func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if strings.EqualFold(s, name) {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entity class %q", s)
}

func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Spec describes an entity to spawn. Fields that do not apply to the class
// are ignored.
type Spec struct {
	Name     string     `yaml:"name"`
	Class    Class      `yaml:"class"`
	Position mgl32.Vec3 `yaml:"position"`
	Size     mgl32.Vec3 `yaml:"size"`
	Mass     float32    `yaml:"mass"`
	Parts    int        `yaml:"parts"`
	Sleeping bool       `yaml:"sleeping"`

	// Rope
	Segments int     `yaml:"segments"`
	Length   float32 `yaml:"length"`

	// Soft body
	Vertices int `yaml:"vertices"`

	// Vehicle
	Wheels int `yaml:"wheels"`

	// Area
	Gravity      mgl32.Vec3 `yaml:"gravity"`
	WaterDensity float32    `yaml:"water_density"`

	// Placeholder: name of the full entity
	Full string `yaml:"full"`
}

type part struct {
	id                 int32
	material           int32
	position           mgl32.Vec3
	orientation        mgl32.Quat
	initialPosition    mgl32.Vec3
	initialOrientation mgl32.Quat
	angles             mgl32.Vec3
	angularVelocity    mgl32.Vec3
}

type constraint struct {
	id            int32
	buddy         physics.Handle
	points        [2]mgl32.Vec3
	frames        [2]mgl32.Quat
	partIDs       [2]int32
	flags         wire.ConstraintFlags
	damping       float32
	maxPullForce  float32
	maxBendTorque float32
	twist         [2]float32
	swing         float32
}

type collision struct {
	age      float32
	point    mgl32.Vec3
	normal   mgl32.Vec3
	collider physics.Handle
	partIDs  [2]int32
}

type impulse struct {
	linear  mgl32.Vec3
	angular mgl32.Vec3
	when    wire.ApplyTime
}

type wheel struct {
	partID          int32
	contact         bool
	suspension      float32
	angularVelocity float32
	torque          float32
}

type attachment struct {
	target   physics.Handle
	position mgl32.Vec3
}

// body is one simulated entity. Every field is guarded by mu.
type body struct {
	mu sync.Mutex

	handle      physics.Handle
	name        string
	class       Class
	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       float32
	size        mgl32.Vec3
	mass        float32

	velocity            mgl32.Vec3
	angularVelocity     mgl32.Vec3
	acceleration        mgl32.Vec3
	angularAcceleration mgl32.Vec3
	sleeping            bool
	minAwake            float32

	parts       []*part
	nextPartID  int32
	constraints map[int32]*constraint
	nextConstr  int32
	collisions  []collision
	pending     []impulse
	notified    int

	detachThreshold float32
	detachDistance  float32

	// living
	requested  mgl32.Vec3
	flying     bool
	timeFlying float32

	// vehicle
	pedal     float32
	steer     float32
	clutch    float32
	handBrake bool
	gear      int32
	rpm       float32
	wheels    []wheel

	// rope and soft body
	points         []mgl32.Vec3
	pointVelocity  []mgl32.Vec3
	segmentLength  float32
	vertices       []mgl32.Vec3
	vertexVelocity []mgl32.Vec3
	normals        []mgl32.Vec3
	attached       map[int32]attachment

	// area
	gravity      mgl32.Vec3
	waterDensity float32

	// placeholder
	full physics.Handle

	// native arrays handed out by status queries
	engaged       int
	engagedBlocks []uint64
	localBlocks   map[wire.StatusKind][]uint64

	raycasts  int32
	stepBacks int32
	peakStep  float32
	lastStep  float32
}

func newBody(h physics.Handle, spec Spec) *body {
	b := &body{
		handle:      h,
		name:        spec.Name,
		class:       spec.Class,
		position:    spec.Position,
		orientation: mgl32.QuatIdent(),
		scale:       1,
		size:        spec.Size,
		mass:        spec.Mass,
		sleeping:    spec.Sleeping,
		constraints: make(map[int32]*constraint),
		nextConstr:  1,
		localBlocks: make(map[wire.StatusKind][]uint64),
		attached:    make(map[int32]attachment),
		gear:        1,
		full:        physics.NullHandle,
	}
	if b.size == (mgl32.Vec3{}) {
		b.size = mgl32.Vec3{1, 1, 1}
	}
	if b.mass <= 0 {
		b.mass = 1
	}

	parts := spec.Parts
	if parts <= 0 && b.class != ClassArea && b.class != ClassPlaceholder {
		parts = 1
	}
	for range parts {
		b.addPart(mgl32.Vec3{}, mgl32.QuatIdent())
	}

	switch b.class {
	case ClassRope:
		segments := max(spec.Segments, 1)
		length := spec.Length
		if length <= 0 {
			length = float32(segments)
		}
		b.segmentLength = length / float32(segments)
		b.points = make([]mgl32.Vec3, segments+1)
		b.pointVelocity = make([]mgl32.Vec3, segments+1)
		for i := range b.points {
			b.points[i] = b.position.Add(mgl32.Vec3{float32(i) * b.segmentLength, 0, 0})
		}
	case ClassSoftBody:
		n := max(spec.Vertices, 1)
		b.vertices = make([]mgl32.Vec3, n)
		b.vertexVelocity = make([]mgl32.Vec3, n)
		b.normals = make([]mgl32.Vec3, n)
		for i := range b.vertices {
			angle := 2 * math.Pi * float64(i) / float64(n)
			b.vertices[i] = b.position.Add(mgl32.Vec3{
				float32(math.Cos(angle)) * b.size[0] / 2,
				float32(math.Sin(angle)) * b.size[1] / 2,
				0,
			})
			b.normals[i] = mgl32.Vec3{0, 0, 1}
		}
	case ClassVehicle:
		for i := range max(spec.Wheels, 4) {
			b.wheels = append(b.wheels, wheel{partID: int32(100 + i), suspension: 0.3})
		}
	case ClassArea:
		b.gravity = spec.Gravity
		b.waterDensity = spec.WaterDensity
	}
	return b
}

func (b *body) addPart(position mgl32.Vec3, orientation mgl32.Quat) *part {
	p := &part{
		id:                 b.nextPartID,
		position:           position,
		orientation:        orientation,
		initialPosition:    position,
		initialOrientation: orientation,
	}
	b.nextPartID++
	b.parts = append(b.parts, p)
	return p
}

// findPart resolves a part selector. The entire entity resolves to nil with
// ok set.
func (b *body) findPart(id, index int32) (*part, bool) {
	sel := physics.PartFromSlots(id, index)
	if !sel.IsSpecified() {
		return nil, true
	}
	if id, ok := sel.ID(); ok {
		for _, p := range b.parts {
			if p.id == id {
				return p, true
			}
		}
		return nil, false
	}
	index, _ = sel.Index()
	if index < 0 || int(index) >= len(b.parts) {
		return nil, false
	}
	return b.parts[index], true
}

func (b *body) partByID(id int32) *part {
	for _, p := range b.parts {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (b *body) simClass() wire.SimClass {
	switch {
	case b.class == ClassStatic || b.class == ClassPlaceholder:
		return wire.SimStatic
	case b.class == ClassArea:
		return wire.SimTrigger
	case b.class == ClassLiving:
		return wire.SimLiving
	case b.class == ClassRope || b.class == ClassSoftBody:
		return wire.SimIndependent
	case b.sleeping:
		return wire.SimSleeping
	default:
		return wire.SimActive
	}
}

func (b *body) dynamic() bool {
	switch b.class {
	case ClassStatic, ClassArea, ClassPlaceholder:
		return false
	}
	return true
}

func (b *body) bounds() (lo, hi mgl32.Vec3) {
	half := b.size.Mul(b.scale / 2)
	return b.position.Sub(half), b.position.Add(half)
}

func (b *body) contains(p mgl32.Vec3) bool {
	lo, hi := b.bounds()
	return p[0] >= lo[0] && p[0] <= hi[0] &&
		p[1] >= lo[1] && p[1] <= hi[1] &&
		p[2] >= lo[2] && p[2] <= hi[2]
}

func (b *body) onGround() bool {
	return b.position[2]-b.size[2]*b.scale/2 <= groundEpsilon
}

func (b *body) transform() mgl32.Mat4 {
	return mgl32.Translate3D(b.position[0], b.position[1], b.position[2]).
		Mul4(b.orientation.Mat4()).
		Mul4(mgl32.Scale3D(b.scale, b.scale, b.scale))
}

func (b *body) releaseLocal(mem *memory, kind wire.StatusKind) {
	mem.free(b.localBlocks[kind]...)
	delete(b.localBlocks, kind)
}

func (b *body) applyImpulse(i impulse) {
	b.velocity = b.velocity.Add(i.linear.Mul(1 / b.mass))
	b.angularVelocity = b.angularVelocity.Add(i.angular.Mul(1 / b.mass))
	b.sleeping = false
}

func (b *body) flushImpulses(when wire.ApplyTime) {
	kept := b.pending[:0]
	for _, i := range b.pending {
		if i.when == when {
			b.applyImpulse(i)
			continue
		}
		kept = append(kept, i)
	}
	b.pending = kept
}
