package rig

import (
	"sync"

	"github.com/google/uuid"
)

// Template is a named set of customized bone transforms.
type Template struct {
	ID    uuid.UUID
	Name  string
	Bones map[string]*BoneTransform
}

// NewTemplate creates an empty template with a fresh ID.
func NewTemplate(name string) *Template {
	return &Template{
		ID:    uuid.New(),
		Name:  name,
		Bones: make(map[string]*BoneTransform),
	}
}

// Bone returns the transform customized for the named bone.
func (t *Template) Bone(name string) (*BoneTransform, bool) {
	if t == nil {
		return nil, false
	}
	bt, ok := t.Bones[name]
	return bt, ok && bt != nil
}

// SetBone customizes a bone, replacing any previous transform.
func (t *Template) SetBone(name string, bt *BoneTransform) {
	if t.Bones == nil {
		t.Bones = make(map[string]*BoneTransform)
	}
	t.Bones[name] = bt
}

// RemoveBone drops a bone's customization.
func (t *Template) RemoveBone(name string) {
	delete(t.Bones, name)
}

// Profile is a customization configuration composed of templates, optionally targeting a
// character by name. Profiles are owned by the ProfileStore; the Manager only maintains the
// set of armatures currently bound to each profile.
type Profile struct {
	ID            uuid.UUID
	Name          string
	CharacterName string
	Enabled       bool

	// Templates are composed in order. The first template customizing a bone wins.
	Templates []*Template

	// Temporary profiles are pinned to TemporaryActor and are not persisted.
	Temporary      bool
	TemporaryActor ActorIdentifier

	// LimitLookupToOwnedObjects restricts owned actors to those of the local player.
	LimitLookupToOwnedObjects bool

	armatures armatureSet
}

// NewProfile creates an enabled profile with a fresh ID.
func NewProfile(name, characterName string, templates ...*Template) *Profile {
	return &Profile{
		ID:            uuid.New(),
		Name:          name,
		CharacterName: characterName,
		Enabled:       true,
		Templates:     templates,
	}
}

// BoneTransform returns the composed transform for the named bone.
func (p *Profile) BoneTransform(name string) (*BoneTransform, bool) {
	if p == nil {
		return nil, false
	}
	for _, t := range p.Templates {
		if bt, ok := t.Bone(name); ok {
			return bt, true
		}
	}
	return nil, false
}

// UsesTemplate reports whether the template is part of the profile.
func (p *Profile) UsesTemplate(t *Template) bool {
	if p == nil || t == nil {
		return false
	}
	for _, pt := range p.Templates {
		if pt == nil {
			continue
		}
		if pt == t || pt.ID == t.ID {
			return true
		}
	}
	return false
}

// Armatures returns the armatures currently bound to the profile.
func (p *Profile) Armatures() []*Armature {
	if p == nil {
		return nil
	}
	relationMu.RLock()
	defer relationMu.RUnlock()
	return p.armatures.all()
}

// ArmatureCount returns the number of armatures currently bound to the profile.
func (p *Profile) ArmatureCount() int {
	if p == nil {
		return 0
	}
	relationMu.RLock()
	defer relationMu.RUnlock()
	return len(p.armatures.members)
}

// HasArmature reports whether the armature is bound to the profile.
func (p *Profile) HasArmature(a *Armature) bool {
	if p == nil {
		return false
	}
	relationMu.RLock()
	defer relationMu.RUnlock()
	return p.armatures.has(a)
}

// String returns the profile name for logging.
func (p *Profile) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.Name
}

// relationMu guards both sides of the profile/armature relation so a move between
// profiles is observed as a single step.
var relationMu sync.RWMutex

// armatureSet is the profile side of the profile/armature relation.
// Callers hold relationMu.
type armatureSet struct {
	members map[*Armature]struct{}
}

func (s *armatureSet) add(a *Armature) {
	if a == nil {
		return
	}
	if s.members == nil {
		s.members = make(map[*Armature]struct{})
	}
	s.members[a] = struct{}{}
}

func (s *armatureSet) remove(a *Armature) {
	delete(s.members, a)
}

func (s *armatureSet) has(a *Armature) bool {
	_, ok := s.members[a]
	return ok
}

func (s *armatureSet) all() []*Armature {
	out := make([]*Armature, 0, len(s.members))
	for a := range s.members {
		out = append(out, a)
	}
	return out
}
