package wire

// ActionKind discriminates action images.
type ActionKind int32

const (
	ActionImpulse ActionKind = iota + 1
	ActionReset
	ActionAddConstraint
	ActionUpdateConstraint
	ActionRegisterCollisionEvent
	ActionAwake
	ActionRemoveAllParts
	ActionResetPartTransformation
	ActionSetVelocity
	ActionNotify
	ActionAutoPartDetachment
	ActionTransferParts
	ActionBatchPartsUpdate
	ActionSlice
	ActionMove
	ActionDrive
	ActionTargetVertices
	ActionAttachPoints

	actionKindEnd
)

// ActionKindCount is the number of action kinds.
const ActionKindCount = int(actionKindEnd) - 1

var actionKindNames = [...]string{
	ActionImpulse:                 "impulse",
	ActionReset:                   "reset",
	ActionAddConstraint:           "add_constraint",
	ActionUpdateConstraint:        "update_constraint",
	ActionRegisterCollisionEvent:  "register_collision_event",
	ActionAwake:                   "awake",
	ActionRemoveAllParts:          "remove_all_parts",
	ActionResetPartTransformation: "reset_part_transformation",
	ActionSetVelocity:             "set_velocity",
	ActionNotify:                  "notify",
	ActionAutoPartDetachment:      "auto_part_detachment",
	ActionTransferParts:           "transfer_parts",
	ActionBatchPartsUpdate:        "batch_parts_update",
	ActionSlice:                   "slice",
	ActionMove:                    "move",
	ActionDrive:                   "drive",
	ActionTargetVertices:          "target_vertices",
	ActionAttachPoints:            "attach_points",
}

func (k ActionKind) String() string {
	if k > 0 && k < actionKindEnd {
		return actionKindNames[k]
	}
	return "unknown"
}

// JumpMode selects how a Move velocity is applied.
type JumpMode int32

const (
	JumpNone JumpMode = iota
	JumpAssignVelocity
	JumpAddVelocity
)

// ApplyTime selects when an impulse is applied relative to the step.
type ApplyTime int32

const (
	ApplyImmediately ApplyTime = iota
	ApplyBeforeTimeStep
	ApplyAfterTimeStep
)

// ConstraintFlags are the native constraint creation flags.
type ConstraintFlags uint32

const (
	ConstraintLocalFrames     ConstraintFlags = 1
	ConstraintWorldFrames     ConstraintFlags = 2
	ConstraintLocalFramesPart ConstraintFlags = 4
	ConstraintInactive        ConstraintFlags = 0x100
	ConstraintIgnoreBuddy     ConstraintFlags = 0x200
	ConstraintLine            ConstraintFlags = 0x400
	ConstraintNoEnforcement   ConstraintFlags = 0x800
	ConstraintNoRotation      ConstraintFlags = 0x1000
	ConstraintNoTears         ConstraintFlags = 0x2000
)

// NotifyCode is the event carried by a Notify action.
type NotifyCode int32

const (
	NotifyChildHasChanged NotifyCode = iota
	NotifyParentChange
	NotifyGeometryChange
)

type Impulse struct {
	Header     Header
	Impulse    Vec3
	AngImpulse Vec3
	Point      Vec3
	PartID     int32
	PartIndex  int32
	ApplyTime  int32
}

type Reset struct {
	Header        Header
	ClearContacts int32
}

type AddConstraint struct {
	Header        Header
	ID            int32
	_             [4]byte
	Buddy         uint64
	Points        [2]Vec3
	PartIDs       [2]int32
	Frames        [2]Quat
	Flags         uint32
	Damping       float32
	SensorRadius  float32
	MaxPullForce  float32
	MaxBendTorque float32
	TwistLimits   [2]float32
	SwingLimits   [2]float32
	_             [4]byte
}

type UpdateConstraint struct {
	Header        Header
	ID            int32
	Remove        int32
	FlagsOR       uint32
	FlagsAND      uint32
	Points        [2]Vec3
	Frames        [2]Quat
	Damping       float32
	MaxPullForce  float32
	MaxBendTorque float32
}

type RegisterCollisionEvent struct {
	Header      Header
	Point       Vec3
	Normal      Vec3
	Velocities  [2]Vec3
	Mass        float32
	PartIDs     [2]int32
	MaterialIDs [2]int32
	_           [4]byte
	Collider    uint64
}

type Awake struct {
	Header       Header
	Sleep        int32
	MinAwakeTime float32
}

type RemoveAllParts struct {
	Header Header
}

type ResetPartTransformation struct {
	Header    Header
	PartID    int32
	PartIndex int32
}

type SetVelocity struct {
	Header          Header
	PartID          int32
	PartIndex       int32
	Velocity        Vec3
	AngularVelocity Vec3
}

type Notify struct {
	Header Header
	Code   int32
}

type AutoPartDetachment struct {
	Header         Header
	Threshold      float32
	DetachDistance float32
}

type TransferParts struct {
	Header   Header
	IDStart  int32
	IDEnd    int32
	IDOffset int32
	_        [4]byte
	Target   uint64
	Offset   Matrix34
}

// BatchPartsUpdate points at three parallel arrays of NumParts elements:
// int32 part ids, Vec3 positions and Quat orientations. Either of the latter
// two may be null; individual entries may hold the unused sentinel.
type BatchPartsUpdate struct {
	Header         Header
	NumParts       int32
	_              [4]byte
	PartIDs        uint64
	Positions      uint64
	Orientations   uint64
	Offset         Vec3
	OffsetRotation Quat
	_              [4]byte
}

type Slice struct {
	Header    Header
	PartID    int32
	PartIndex int32
	Normal    Vec3
	Point     Vec3
}

type Move struct {
	Header    Header
	Velocity  Vec3
	JumpMode  int32
	TimeSlice float32
}

type Drive struct {
	Header     Header
	Pedal      float32
	DeltaPedal float32
	Steer      float32
	DeltaSteer float32
	Clutch     float32
	HandBrake  int32
	Gear       int32
}

// TargetVertices points at NumPoints Vec3 targets and, optionally, NumPoints
// int32 vertex indices. With no indices the targets cover vertices 0..n-1.
type TargetVertices struct {
	Header    Header
	NumPoints int32
	_         [4]byte
	Points    uint64
	Indices   uint64
}

// AttachPoints points at NumPoints int32 vertex indices and, optionally,
// NumPoints Vec3 positions.
type AttachPoints struct {
	Header      Header
	Entity      uint64
	PartID      int32
	NumPoints   int32
	Indices     uint64
	Positions   uint64
	LocalCoords int32
	_           [4]byte
}
