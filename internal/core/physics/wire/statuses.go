package wire

// StatusKind discriminates status images.
type StatusKind int32

const (
	StatusLocation StatusKind = iota + 1
	StatusDynamics
	StatusLiving
	StatusVehicle
	StatusWheel
	StatusVehicleAbilities
	StatusJoint
	StatusRope
	StatusSoftBodyVertices
	StatusSensors
	StatusAwake
	StatusContainsPoint
	StatusPlaceHolder
	StatusSampleContactArea
	StatusCapabilities
	StatusConstraint
	StatusArea
	StatusExtent
	StatusRandom
	StatusStatistics
	StatusCollisions
	StatusIdentifier
	StatusTimeSlices
	StatusPartCount
	StatusNetworkLocation
	StatusCheckStance
	StatusBuoyancy

	statusKindEnd
)

// StatusKindCount is the number of status kinds.
const StatusKindCount = int(statusKindEnd) - 1

var statusKindNames = [...]string{
	StatusLocation:          "location",
	StatusDynamics:          "dynamics",
	StatusLiving:            "living",
	StatusVehicle:           "vehicle",
	StatusWheel:             "wheel",
	StatusVehicleAbilities:  "vehicle_abilities",
	StatusJoint:             "joint",
	StatusRope:              "rope",
	StatusSoftBodyVertices:  "soft_body_vertices",
	StatusSensors:           "sensors",
	StatusAwake:             "awake",
	StatusContainsPoint:     "contains_point",
	StatusPlaceHolder:       "place_holder",
	StatusSampleContactArea: "sample_contact_area",
	StatusCapabilities:      "capabilities",
	StatusConstraint:        "constraint",
	StatusArea:              "area",
	StatusExtent:            "extent",
	StatusRandom:            "random",
	StatusStatistics:        "statistics",
	StatusCollisions:        "collisions",
	StatusIdentifier:        "identifier",
	StatusTimeSlices:        "time_slices",
	StatusPartCount:         "part_count",
	StatusNetworkLocation:   "network_location",
	StatusCheckStance:       "check_stance",
	StatusBuoyancy:          "buoyancy",
}

func (k StatusKind) String() string {
	if k > 0 && k < statusKindEnd {
		return statusKindNames[k]
	}
	return "unknown"
}

// LockMode controls native array ownership for rope and soft-body statuses.
type LockMode int32

const (
	LockRelease LockMode = -1
	LockLocal   LockMode = 0
	LockEngage  LockMode = 1
)

// SimClass is the native simulation class of an entity.
type SimClass int32

const (
	SimStatic      SimClass = 0
	SimSleeping    SimClass = 1
	SimActive      SimClass = 2
	SimLiving      SimClass = 3
	SimIndependent SimClass = 4
	SimTrigger     SimClass = 6
	SimDeleted     SimClass = 7
)

// LocationFlags are request flags of a Location status.
type LocationFlags uint32

const (
	LocationLocalSpace LocationFlags = 1
	LocationThreadSafe LocationFlags = 2
)

// GeomForm selects the geometry form an Extent status measures.
type GeomForm int32

const (
	GeomEdges GeomForm = iota
	GeomSurface
	GeomVolume
	GeomProjection
)

type Location struct {
	Header        Header
	PartID        int32
	PartIndex     int32
	RequestFlags  uint32
	Position      Vec3
	Orientation   Quat
	Scale         float32
	BBoxMin       Vec3
	BBoxMax       Vec3
	SimClass      int32
	PartFlags     uint32
	Transform     Matrix34
	_             [4]byte
	Geometry      uint64
	GeometryProxy uint64
}

type Dynamics struct {
	Header              Header
	PartID              int32
	PartIndex           int32
	Velocity            Vec3
	AngularVelocity     Vec3
	Acceleration        Vec3
	AngularAcceleration Vec3
	CenterOfMass        Vec3
	SubmergedFraction   float32
	Mass                float32
	Energy              float32
	NumContacts         int32
	TimeInterval        float32
}

type Living struct {
	Header                Header
	IsFlying              int32
	TimeFlying            float32
	CameraOffset          Vec3
	Velocity              Vec3
	VelocityUnconstrained Vec3
	VelocityRequested     Vec3
	GroundVelocity        Vec3
	GroundHeight          float32
	GroundNormal          Vec3
	GroundSurfaceIndex    int32
	GroundCollider        uint64
	IsStuck               int32
	IsSquashed            int32
}

// Vehicle carries two fields whose native meaning is unconfirmed; they are
// passed through untouched.
type Vehicle struct {
	Header           Header
	Steer            float32
	Pedal            float32
	HandBrake        int32
	FootBrake        float32
	Velocity         Vec3
	IsColliding      int32
	NumWheelsContact int32
	CurrentGear      int32
	EngineRPM        float32
	Clutch           float32
	DrivingTorque    float32
	NumActiveWheels  int32
	Unknown0         int32
	Unknown1         float32
}

type Wheel struct {
	Header               Header
	WheelIndex           int32
	PartID               int32
	Contact              int32
	ContactPoint         Vec3
	ContactNormal        Vec3
	Friction             [2]float32
	SlipVelocity         Vec3
	SuspensionLength     float32
	SuspensionLengthFull float32
	SuspensionLengthRest float32
	AngularVelocity      float32
	Torque               float32
	Steer                float32
	Collider             uint64
	SurfaceIndex         int32
	Unknown0             int32
}

type VehicleAbilities struct {
	Header        Header
	Steer         float32
	RotationPivot Vec3
	MaxVelocity   float32
}

type Joint struct {
	Header            Header
	PartID            int32
	PartIndex         int32
	Flags             uint32
	Angles            Vec3
	ExternalAngles    Vec3
	AngularVelocities Vec3
	Rotation0         Quat
}

// Rope: with NumSegments unused the native side only sizes the query; the
// four array pointers are filled by the following call.
type Rope struct {
	Header           Header
	Lock             int32
	NumSegments      int32
	NumVertices      int32
	Tension          float32
	NumCollisions    int32
	_                [4]byte
	Points           uint64
	Velocities       uint64
	Vertices         uint64
	VertexVelocities uint64
}

type SoftBodyVertices struct {
	Header      Header
	Lock        int32
	NumVertices int32
	Mesh        uint64
	Vertices    uint64
	Normals     uint64
	Position    Vec3
	Orientation Quat
	Scale       float32
}

type Sensors struct {
	Header     Header
	NumSensors int32
	Flags      uint32
	Points     uint64
	Normals    uint64
}

// AwakeStatus carries no fields; the answer is the return code.
type AwakeStatus struct {
	Header Header
}

type ContainsPoint struct {
	Header Header
	Point  Vec3
}

type PlaceHolder struct {
	Header Header
	Full   uint64
}

type SampleContactArea struct {
	Header    Header
	Point     Vec3
	Direction Vec3
}

type Capabilities struct {
	Header              Header
	CanAlterOrientation int32
}

type Constraint struct {
	Header   Header
	ID       int32
	Points   [2]Vec3
	Normal   Vec3
	Flags    uint32
	_        [4]byte
	Entities [2]uint64
	PartIDs  [2]int32
}

type Area struct {
	Header       Header
	Center       Vec3
	Size         Vec3
	Velocity     Vec3
	UniformOnly  int32
	Gravity      Vec3
	WaterDensity float32
}

type Extent struct {
	Header Header
	Form   int32
	Axis   Vec3
	Extent float32
}

type Random struct {
	Header Header
	Point  Vec3
	Normal Vec3
	Area   float32
}

type Statistics struct {
	Header        Header
	NumCollisions int32
	NumRaycasts   int32
	NumStepBacks  int32
	PeakTimeStep  float32
}

type Collisions struct {
	Header       Header
	MaxAge       float32
	ClearHistory int32
	Count        int32
}

type Identifier struct {
	Header    Header
	PartIndex int32
	PartID    int32
	Primitive int32
	Feature   int32
	UseProxy  int32
	SurfaceID int32
}

type TimeSlices struct {
	Header    Header
	Precision float32
	MaxTime   float32
	Count     int32
}

type PartCount struct {
	Header Header
}

type NetworkLocation struct {
	Header          Header
	Position        Vec3
	Orientation     Quat
	Velocity        Vec3
	AngularVelocity Vec3
	TimeOffset      float32
}

type CheckStance struct {
	Header         Header
	Position       Vec3
	Orientation    Quat
	HeightCollider float32
	Size           Vec3
	UseCapsule     int32
	Direction      Vec3
	Unprojection   float32
}

type Buoyancy struct {
	Header           Header
	Index            int32
	WaterPlaneNormal Vec3
	WaterPlaneOrigin Vec3
	WaterDensity     float32
	WaterFlow        Vec3
	WaterResistance  float32
}
