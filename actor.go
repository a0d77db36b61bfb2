package rig

import (
	"fmt"
)

// ActorKind classifies how an actor identifier was derived.
type ActorKind uint8

const (
	KindUnknown ActorKind = iota
	KindPlayer
	KindOwned
	KindNpc
	KindSpecial
)

// String returns the string representation of the kind.
func (k ActorKind) String() string {
	switch k {
	case KindPlayer:
		return "Player"
	case KindOwned:
		return "Owned"
	case KindNpc:
		return "Npc"
	case KindSpecial:
		return "Special"
	default:
		return "Unknown"
	}
}

// ObjectKind further classifies owned actors.
type ObjectKind uint8

const (
	ObjectNone ObjectKind = iota
	ObjectBattlePet
	ObjectCompanion
	ObjectMount
)

// String returns the string representation of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectBattlePet:
		return "BattlePet"
	case ObjectCompanion:
		return "Companion"
	case ObjectMount:
		return "Mount"
	default:
		return "None"
	}
}

// ActorIdentifier identifies a live actor independently of the object table slot it
// currently occupies. It is comparable and used as the armature cache key.
//
// For owned actors Name is the owning player's name and DataID selects the owned object.
type ActorIdentifier struct {
	Kind   ActorKind
	Object ObjectKind
	Name   string
	World  uint16
	DataID uint32
}

// IsValid reports whether the identifier refers to anything at all.
func (id ActorIdentifier) IsValid() bool {
	return id.Kind != KindUnknown && id.Name != ""
}

// IsOwned reports whether the actor belongs to a player.
func (id ActorIdentifier) IsOwned() bool {
	return id.Kind == KindOwned
}

// IsOwnedMount reports whether the actor is a mount ridden by its owner.
func (id ActorIdentifier) IsOwnedMount() bool {
	return id.Kind == KindOwned && id.Object == ObjectMount
}

// MatchesName reports whether the actor is addressed by the given character name.
// Owned actors match on their owner's name.
func (id ActorIdentifier) MatchesName(name string) bool {
	return name != "" && id.Name == name
}

// String returns a representation of the identifier for logging.
func (id ActorIdentifier) String() string {
	switch id.Kind {
	case KindOwned:
		return fmt.Sprintf("%s's %s#%d (%d)", id.Name, id.Object, id.DataID, id.World)
	case KindNpc:
		return fmt.Sprintf("%s#%d", id.Name, id.DataID)
	default:
		return fmt.Sprintf("%s (%d) [%s]", id.Name, id.World, id.Kind)
	}
}
