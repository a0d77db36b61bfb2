package rig

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSkeletonUnavailable is returned by a host when an object has no skeleton right now.
// It is treated the same as a nil skeleton: silently skipped, retried next frame.
var ErrSkeletonUnavailable = errors.New("rig: skeleton unavailable")

// ActorTable is the host's live actor snapshot.
type ActorTable interface {
	// Update refreshes the snapshot. It is called once at the start of every Refresh.
	Update()

	// Identifiers returns the identifiers of all live actors in the snapshot.
	Identifiers() []ActorIdentifier

	// Contains reports whether the actor is live in the snapshot.
	Contains(id ActorIdentifier) bool

	// Objects returns every live object instance rendered for the actor.
	// An identifier may map to several simultaneously rendered instances.
	Objects(id ActorIdentifier) []Object

	// LocalPlayer returns the identifier of the local player.
	LocalPlayer() ActorIdentifier
}

// ActorIdentity resolves identifiers from live handles.
type ActorIdentity interface {
	// Identify derives the stable identifier of a live object.
	Identify(obj Object) (ActorIdentifier, bool)

	// Owner returns the identifier of the player owning an owned actor.
	Owner(id ActorIdentifier) (ActorIdentifier, bool)
}

// ProfileStore exposes the customization profiles.
type ProfileStore interface {
	// EnabledProfilesByActor returns the enabled profiles targeting the actor in
	// priority order. The first applicable profile wins.
	EnabledProfilesByActor(id ActorIdentifier) []*Profile

	// Profiles returns every known profile.
	Profiles() []*Profile

	// DefaultProfile returns the fallback profile, or nil if none is set.
	DefaultProfile() *Profile
}

// Object is a borrowed handle to a live game object. Handles are only valid during the
// call they were obtained in.
type Object interface {
	// DrawObject returns the object's rendered model, or nil while it is not drawn.
	DrawObject() DrawObject

	// ChildDrawObject returns the model attached as the object's child (a mount while
	// riding), or nil.
	ChildDrawObject() DrawObject

	// Skeleton returns the object's skeleton. A nil skeleton or ErrSkeletonUnavailable
	// means the skeleton is transiently absent.
	Skeleton() (Skeleton, error)

	// HasScalableRoot reports whether whole-object scale may be applied to the object.
	HasScalableRoot() bool
}

// DrawObject is a borrowed handle to a rendered model.
type DrawObject interface {
	// ID identifies the model for the duration of the frame.
	ID() uintptr

	Visible() bool

	Scale() mgl64.Vec3
	SetScale(scale mgl64.Vec3)

	Position() mgl64.Vec3
	SetPosition(pos mgl64.Vec3)
}

// Skeleton is a borrowed handle to a live skeleton.
type Skeleton interface {
	// PartialSkeletons returns the skeleton's segments. Entries may be nil.
	PartialSkeletons() []PartialSkeleton
}

// PartialSkeleton is one segment of a skeleton (body, weapon attachment, ...).
type PartialSkeleton interface {
	// Bones returns the segment's bones in order, or nil while the pose is not loaded.
	Bones() []Bone
}

// Bone is a borrowed handle to a single posed bone.
type Bone interface {
	Name() string
	Pose() Pose
	SetPose(p Pose)
}

// TaskScheduler coalesces repeated scheduling under the same key into one eventual call.
type TaskScheduler interface {
	ScheduleOnce(key any, action func())
}
