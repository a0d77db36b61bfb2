package rig

import (
	"github.com/google/uuid"
)

// rebuildKey identifies a debounced binding rebuild.
type rebuildKey struct {
	kind string
	id   uuid.UUID
}

// OnEvent reacts to a configuration change. It only flags armatures for a rebind on the next
// Refresh or schedules a debounced rebuild; it never touches live skeletons.
func (m *Manager) OnEvent(ev Event) {
	switch e := ev.(type) {
	case TemplateChanged:
		m.onTemplateChanged(e)
	case ProfileChanged:
		m.onProfileChanged(e)
	case EditorChanged:
		m.onEditorChanged(e)
	case *TemplateChanged:
		if e != nil {
			m.onTemplateChanged(*e)
			return
		}
		m.logger.Error("rig: nil template event")
	case *ProfileChanged:
		if e != nil {
			m.onProfileChanged(*e)
			return
		}
		m.logger.Error("rig: nil profile event")
	case *EditorChanged:
		if e != nil {
			m.onEditorChanged(*e)
			return
		}
		m.logger.Error("rig: nil editor event")
	default:
		m.logger.Error("rig: unsupported event", "event", ev)
	}
}

func (m *Manager) onTemplateChanged(e TemplateChanged) {
	if e.Template == nil {
		m.logger.Error("rig: template event without template", "type", e.Type)
		return
	}

	switch e.Type {
	case TemplateBoneAdded, TemplateBoneRemoved, TemplateDeleted:
		t := e.Template
		m.schedule(rebuildKey{kind: "template", id: t.ID}, func() {
			m.rebuildTemplate(t)
		})
	case TemplateBoneEdited, TemplateRenamed:
		// Bindings reference the transforms, so edits are visible without a rebuild.
	}
}

// schedule debounces fn under key. A panic in fn is logged and never escapes the caller
// pumping the scheduler.
func (m *Manager) schedule(key rebuildKey, fn func()) {
	m.scheduler.ScheduleOnce(key, func() {
		defer func() {
			if r := recover(); r != nil {
				inc(ArmatureFailures)
				m.logger.Error("rig: debounced rebuild failed", "kind", key.kind, "id", key.id, "panic", r)
			}
		}()
		fn()
	})
}

// rebuildTemplate rebuilds the bindings of every armature of every enabled profile using t.
func (m *Manager) rebuildTemplate(t *Template) {
	inc(BindingRebuilds)
	n := 0
	for _, p := range m.profiles.Profiles() {
		if p == nil || !p.Enabled || !p.UsesTemplate(t) {
			continue
		}
		n += m.rebuildProfile(p)
	}
	m.logger.Debug("rig: template bindings rebuilt", "template", t.Name, "armatures", n)
}

// rebuildProfile rebuilds the bindings of every armature of p and returns how many.
func (m *Manager) rebuildProfile(p *Profile) int {
	armatures := p.Armatures()
	for _, a := range armatures {
		a.rebuild()
	}
	return len(armatures)
}

func (m *Manager) onProfileChanged(e ProfileChanged) {
	if e.Type == ProfileChangedDefault {
		// Either side may be nil when a default is set for the first time or cleared.
		if e.Previous != nil {
			m.markPending(e.Previous.Armatures())
		}
		return
	}

	p := e.Profile
	if p == nil {
		m.logger.Error("rig: profile event without profile", "type", e.Type)
		return
	}

	switch e.Type {
	case ProfileAddedTemplate, ProfileRemovedTemplate, ProfileMovedTemplate, ProfileChangedTemplate:
		inc(BindingRebuilds)
		m.rebuildProfile(p)

	case ProfileToggled:
		m.markPending(p.Armatures())
		if p != m.profiles.DefaultProfile() {
			m.markPending(m.armaturesNamed(p.CharacterName))
		}

	case ProfileChangedCharacterName, ProfileCreated:
		m.markPending(m.armaturesNamed(p.CharacterName))
		m.markPending(p.Armatures())

	case ProfileDeleted, ProfileTemporaryDeleted, ProfileChangedLimitLookup:
		m.markPending(p.Armatures())

	case ProfileTemporaryAdded:
		m.markPending(p.Armatures())
		if a, ok := m.armatures[p.TemporaryActor]; ok {
			m.markPending([]*Armature{a})
		}
	}
}

func (m *Manager) onEditorChanged(e EditorChanged) {
	p := e.Profile
	if p == nil {
		m.logger.Error("rig: editor event without profile", "type", e.Type)
		return
	}

	switch e.Type {
	case EditorCharacterChanged:
		name := e.CharacterName
		m.schedule(rebuildKey{kind: "editor", id: p.ID}, func() {
			m.markPending(m.armaturesNamed(name))
			m.markPending(p.Armatures())
		})
	case EditorEnabled, EditorDisabled:
		m.markPending(m.armaturesNamed(e.CharacterName))
		m.markPending(p.Armatures())
	}
}

// armaturesNamed returns the armatures of actors addressed by the character name.
func (m *Manager) armaturesNamed(name string) []*Armature {
	if name == "" {
		return nil
	}
	var out []*Armature
	for id, a := range m.armatures {
		if id.MatchesName(name) {
			out = append(out, a)
		}
	}
	return out
}

// markPending flags armatures for a profile rebind on the next Refresh.
func (m *Manager) markPending(armatures []*Armature) {
	for _, a := range armatures {
		if a.pendingRebind {
			continue
		}
		a.MarkPendingProfileRebind()
		inc(PendingRebindMark)
		m.logger.Debug("rig: armature pending rebind", "armature", a.id, "actor", a.actor)
	}
}
