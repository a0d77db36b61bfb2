package rig

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Armature binds a profile to one live actor's skeleton.
//
// An armature always belongs to exactly one profile and is a member of that profile's
// armature set. Reassignment happens in place so LastSeen and visibility carry over.
type Armature struct {
	id    uuid.UUID
	actor ActorIdentifier

	// profile is guarded by relationMu
	profile *Profile

	binding *SkeletonBinding

	lastSeen      time.Time
	visible       bool
	pendingRebind bool
}

// newArmature creates an armature for the actor bound to profile.
func newArmature(actor ActorIdentifier, profile *Profile, rootName string, now time.Time) *Armature {
	a := &Armature{
		id:       uuid.New(),
		actor:    actor,
		binding:  NewSkeletonBinding(rootName),
		lastSeen: now,
		visible:  true,
	}
	a.moveTo(profile)
	return a
}

// ID returns the armature's unique identifier.
func (a *Armature) ID() uuid.UUID {
	return a.id
}

// Actor returns the identifier of the actor the armature belongs to.
func (a *Armature) Actor() ActorIdentifier {
	return a.actor
}

// Profile returns the profile currently bound to the armature.
func (a *Armature) Profile() *Profile {
	relationMu.RLock()
	defer relationMu.RUnlock()
	return a.profile
}

// LastSeen returns when the actor was last present in the live snapshot.
func (a *Armature) LastSeen() time.Time {
	return a.lastSeen
}

// IsVisible reports whether the actor was seen within the visibility window.
func (a *Armature) IsVisible() bool {
	return a.visible
}

// IsBuilt reports whether a skeleton binding has been constructed at least once.
func (a *Armature) IsBuilt() bool {
	return a.binding.IsBuilt()
}

// IsPendingProfileRebind reports whether the armature is flagged for a profile rebind on
// the next Refresh.
func (a *Armature) IsPendingProfileRebind() bool {
	return a.pendingRebind
}

// MarkPendingProfileRebind flags the armature for a profile rebind on the next Refresh.
func (a *Armature) MarkPendingProfileRebind() {
	a.pendingRebind = true
}

// Binding returns the armature's skeleton binding.
func (a *Armature) Binding() *SkeletonBinding {
	return a.binding
}

// BoneTransform returns the customized transform bound to a bone.
func (a *Armature) BoneTransform(partial, bone int) (*BoneTransform, bool) {
	return a.binding.Transform(BoneKey{Partial: partial, Bone: bone})
}

// MatchedBones returns the number of bones bound to a customized transform.
func (a *Armature) MatchedBones() int {
	return a.binding.Len()
}

// String returns a representation of the armature for logging.
func (a *Armature) String() string {
	return fmt.Sprintf("Armature{ID: %s, Actor: %s, Profile: %s, Built: %t, Visible: %t}",
		a.id, a.actor, a.Profile(), a.IsBuilt(), a.visible)
}

// moveTo reassigns the armature to p, keeping both sides of the relation consistent.
func (a *Armature) moveTo(p *Profile) {
	relationMu.Lock()
	defer relationMu.Unlock()

	if a.profile != nil && a.profile != p {
		a.profile.armatures.remove(a)
	}
	a.profile = p
	if p != nil {
		p.armatures.add(a)
	}
}

// detach removes the armature from its profile.
func (a *Armature) detach() {
	a.moveTo(nil)
}

// rebuild re-resolves the binding against the current profile.
func (a *Armature) rebuild() int {
	return a.binding.Rebind(a.Profile())
}

// bind builds or augments the binding from obj's skeleton.
// Returns true if the binding changed. Transient absence is not an error.
func (a *Armature) bind(obj Object) (bool, error) {
	if obj == nil {
		return false, nil
	}
	skel, err := obj.Skeleton()
	if err != nil {
		if errors.Is(err, ErrSkeletonUnavailable) {
			return false, nil
		}
		return false, fmt.Errorf("linking skeleton of %s: %w", a.actor, err)
	}
	if skel == nil {
		return false, nil
	}

	profile := a.Profile()
	if !a.binding.IsBuilt() {
		return a.binding.Build(skel, profile), nil
	}
	if a.binding.NeedsAugment(skel) {
		return a.binding.Augment(skel, profile), nil
	}
	return false, nil
}
