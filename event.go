package rig

import (
	"sync"
)

// ArmatureEventType identifies what happened to an armature.
type ArmatureEventType int

const (
	// ArmatureCreated is emitted when an actor gets its first armature.
	ArmatureCreated ArmatureEventType = iota

	// ArmatureDeleted is emitted when an armature is dropped. See DeletionReason.
	ArmatureDeleted

	// ArmatureRebound is emitted when an armature moves to a different profile.
	ArmatureRebound
)

// String returns the string representation of the event type.
func (t ArmatureEventType) String() string {
	switch t {
	case ArmatureCreated:
		return "Created"
	case ArmatureDeleted:
		return "Deleted"
	case ArmatureRebound:
		return "Rebound"
	default:
		return "Unknown"
	}
}

// DeletionReason explains why an armature was deleted.
type DeletionReason int

const (
	ReasonNone DeletionReason = iota

	// ReasonGone means the actor was absent for longer than the expiration window.
	ReasonGone

	// ReasonNoActiveProfiles means no enabled profile applies to the actor anymore.
	ReasonNoActiveProfiles
)

// String returns the string representation of the reason.
func (r DeletionReason) String() string {
	switch r {
	case ReasonGone:
		return "Gone"
	case ReasonNoActiveProfiles:
		return "NoActiveProfiles"
	default:
		return "None"
	}
}

// ArmatureEvent is emitted by the Manager whenever the armature set changes.
type ArmatureEvent struct {
	Type     ArmatureEventType
	Armature *Armature

	// Profile is the profile bound after the change (the one dropped, on deletion).
	Profile *Profile

	// Previous is the outgoing profile of a rebind.
	Previous *Profile

	Reason DeletionReason
}

// notifier fans armature events out to subscribers.
type notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(ArmatureEvent)
}

// subscribe registers fn and returns a function removing it again.
func (n *notifier) subscribe(fn func(ArmatureEvent)) func() {
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[int]func(ArmatureEvent))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// snapshot returns the current subscribers.
func (n *notifier) snapshot() []func(ArmatureEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]func(ArmatureEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		out = append(out, fn)
	}
	return out
}

// Event is a configuration change delivered to Manager.OnEvent.
// It is implemented by TemplateChanged, ProfileChanged and EditorChanged.
type Event interface {
	configEvent()
}

// TemplateChangeType identifies a template change.
type TemplateChangeType int

const (
	TemplateBoneAdded TemplateChangeType = iota
	TemplateBoneRemoved
	TemplateBoneEdited
	TemplateRenamed
	TemplateDeleted
)

// String returns the string representation of the change type.
func (t TemplateChangeType) String() string {
	switch t {
	case TemplateBoneAdded:
		return "BoneAdded"
	case TemplateBoneRemoved:
		return "BoneRemoved"
	case TemplateBoneEdited:
		return "BoneEdited"
	case TemplateRenamed:
		return "Renamed"
	case TemplateDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// TemplateChanged is raised when a template is edited.
type TemplateChanged struct {
	Type     TemplateChangeType
	Template *Template
	Bone     string
}

func (TemplateChanged) configEvent() {}

// ProfileChangeType identifies a profile change.
type ProfileChangeType int

const (
	ProfileCreated ProfileChangeType = iota
	ProfileDeleted
	ProfileRenamed
	ProfileToggled
	ProfileChangedCharacterName
	ProfileAddedTemplate
	ProfileRemovedTemplate
	ProfileMovedTemplate
	ProfileChangedTemplate
	ProfileChangedDefault
	ProfileTemporaryAdded
	ProfileTemporaryDeleted
	ProfileChangedLimitLookup
)

// String returns the string representation of the change type.
func (t ProfileChangeType) String() string {
	switch t {
	case ProfileCreated:
		return "Created"
	case ProfileDeleted:
		return "Deleted"
	case ProfileRenamed:
		return "Renamed"
	case ProfileToggled:
		return "Toggled"
	case ProfileChangedCharacterName:
		return "ChangedCharacterName"
	case ProfileAddedTemplate:
		return "AddedTemplate"
	case ProfileRemovedTemplate:
		return "RemovedTemplate"
	case ProfileMovedTemplate:
		return "MovedTemplate"
	case ProfileChangedTemplate:
		return "ChangedTemplate"
	case ProfileChangedDefault:
		return "ChangedDefaultProfile"
	case ProfileTemporaryAdded:
		return "TemporaryProfileAdded"
	case ProfileTemporaryDeleted:
		return "TemporaryProfileDeleted"
	case ProfileChangedLimitLookup:
		return "LimitLookupToOwnedChanged"
	default:
		return "Unknown"
	}
}

// ProfileChanged is raised when a profile is edited.
type ProfileChanged struct {
	Type    ProfileChangeType
	Profile *Profile

	// Previous is the outgoing default profile of a ProfileChangedDefault change.
	Previous *Profile
}

func (ProfileChanged) configEvent() {}

// EditorChangeType identifies a template editor change.
type EditorChangeType int

const (
	EditorEnabled EditorChangeType = iota
	EditorDisabled
	EditorCharacterChanged
)

// String returns the string representation of the change type.
func (t EditorChangeType) String() string {
	switch t {
	case EditorEnabled:
		return "Enabled"
	case EditorDisabled:
		return "Disabled"
	case EditorCharacterChanged:
		return "CharacterChanged"
	default:
		return "Unknown"
	}
}

// EditorChanged is raised by the template editor. Profile is the editor's preview profile
// and CharacterName the character it previews on.
type EditorChanged struct {
	Type          EditorChangeType
	Profile       *Profile
	CharacterName string
}

func (EditorChanged) configEvent() {}
