package rig

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"time"
)

// Manager owns the actor to armature cache. It reconciles the cache with the host's live
// actors, overlays customized transforms every frame, and turns configuration changes into
// lazy rebinds.
//
// The Manager is not safe for concurrent use. OnRender, OnGameObjectMove and OnEvent must be
// called from the host's game thread.
type Manager struct {
	actors   ActorTable
	identity ActorIdentity
	profiles ProfileStore

	opts      options
	logger    *slog.Logger
	scheduler TaskScheduler

	// armatures holds one armature per actor identifier
	armatures map[ActorIdentifier]*Armature

	notifier notifier
}

// duePump is implemented by schedulers that run their actions when pumped.
type duePump interface {
	RunDue(now time.Time) int
}

// NewManager creates a manager over the host's actor table, identity service and profile
// store.
func NewManager(actors ActorTable, identity ActorIdentity, profiles ProfileStore, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}

	m := &Manager{
		actors:    actors,
		identity:  identity,
		profiles:  profiles,
		opts:      o,
		logger:    o.logger,
		scheduler: o.scheduler,
		armatures: make(map[ActorIdentifier]*Armature),
	}
	if m.scheduler == nil {
		d := NewDebouncer(o.debounceDelay, o.now)
		d.logger = o.logger
		m.scheduler = d
	}
	return m
}

// Subscribe registers fn for armature events and returns a function removing it.
func (m *Manager) Subscribe(fn func(ArmatureEvent)) func() {
	return m.notifier.subscribe(fn)
}

// OnRender runs one frame: pending debounced rebuilds, then Refresh, then Apply.
// Failures are isolated per armature; the returned error joins all of them.
func (m *Manager) OnRender() error {
	if pump, ok := m.scheduler.(duePump); ok {
		pump.RunDue(m.opts.now())
	}
	return errors.Join(m.Refresh(), m.Apply())
}

// Refresh reconciles the cache with the live actor snapshot: it expires armatures of
// long-gone actors, creates armatures for new actors, resolves pending profile rebinds and
// builds or augments skeleton bindings.
func (m *Manager) Refresh() error {
	now := m.opts.now()
	m.actors.Update()

	var errs []error

	for id, a := range m.armatures {
		if !m.actors.Contains(id) && now.Sub(a.lastSeen) >= m.opts.expiration {
			m.remove(a, ReasonGone)
			continue
		}
		a.visible = now.Sub(a.lastSeen) <= m.opts.visibility
	}

	live := m.actors.Identifiers()

	created := make(map[ActorIdentifier]struct{})
	for _, id := range live {
		if _, ok := m.armatures[id]; ok {
			continue
		}
		profile := m.resolveProfile(id)
		if profile == nil {
			continue
		}

		a := newArmature(id, profile, m.opts.rootBoneName, now)
		m.armatures[id] = a
		created[id] = struct{}{}
		if err := m.guard(a, StageBind, func() error { return m.bindArmature(a) }); err != nil {
			errs = append(errs, err)
		}

		inc(ArmaturesCreated)
		m.logger.Debug("rig: armature created", "armature", a.id, "actor", id, "profile", profile)
		m.emit(ArmatureEvent{Type: ArmatureCreated, Armature: a, Profile: profile})
	}

	for _, id := range live {
		a, ok := m.armatures[id]
		if !ok {
			continue
		}
		a.lastSeen = now
		a.visible = true

		if a.pendingRebind && !m.rebindProfile(a) {
			continue
		}
		if _, ok := created[id]; ok {
			continue
		}
		if err := m.guard(a, StageBind, func() error { return m.bindArmature(a) }); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// resolveProfile returns the first applicable profile for the actor, or nil.
func (m *Manager) resolveProfile(id ActorIdentifier) *Profile {
	candidates := m.profiles.EnabledProfilesByActor(id)
	if def := m.profiles.DefaultProfile(); def != nil && def.Enabled && id.Kind == KindPlayer && !slices.Contains(candidates, def) {
		candidates = append(slices.Clip(candidates), def)
	}

	var local ActorIdentifier
	localResolved := false
	for _, p := range candidates {
		if p == nil || !p.Enabled {
			continue
		}
		if p.LimitLookupToOwnedObjects && id.IsOwned() {
			if !localResolved {
				local = m.actors.LocalPlayer()
				localResolved = true
			}
			if id.Name != local.Name {
				continue
			}
		}
		return p
	}
	return nil
}

// rebindProfile resolves a pending profile rebind. Returns false if the armature was removed.
func (m *Manager) rebindProfile(a *Armature) bool {
	a.pendingRebind = false

	prev := a.Profile()
	next := m.resolveProfile(a.actor)
	switch {
	case next == prev:
		return true
	case next == nil:
		m.remove(a, ReasonNoActiveProfiles)
		return false
	}

	a.moveTo(next)
	a.rebuild()

	inc(ArmaturesRebound)
	m.logger.Debug("rig: armature rebound", "armature", a.id, "actor", a.actor, "from", prev, "to", next)
	m.emit(ArmatureEvent{Type: ArmatureRebound, Armature: a, Profile: next, Previous: prev})
	return true
}

// bindArmature builds or augments the armature's binding from its first live object.
func (m *Manager) bindArmature(a *Armature) error {
	objs := m.actors.Objects(a.actor)
	if len(objs) == 0 {
		return nil
	}
	changed, err := a.bind(objs[0])
	if err != nil {
		return err
	}
	if changed {
		m.logger.Debug("rig: skeleton bound", "armature", a.id, "actor", a.actor,
			"bones", a.binding.BoneCount(), "matched", a.binding.Len())
	}
	return nil
}

// remove drops an armature from the cache and its profile.
func (m *Manager) remove(a *Armature, reason DeletionReason) {
	profile := a.Profile()
	a.detach()
	delete(m.armatures, a.actor)

	inc(ArmaturesDeleted)
	m.logger.Debug("rig: armature deleted", "armature", a.id, "actor", a.actor, "profile", profile, "reason", reason)
	m.emit(ArmatureEvent{Type: ArmatureDeleted, Armature: a, Profile: profile, Reason: reason})
}

// Clear drops every armature.
func (m *Manager) Clear() {
	for _, a := range m.armatures {
		m.remove(a, ReasonGone)
	}
}

// Armature returns the armature of the actor, if any.
func (m *Manager) Armature(id ActorIdentifier) (*Armature, bool) {
	a, ok := m.armatures[id]
	return a, ok
}

// Armatures returns a snapshot of all armatures.
func (m *Manager) Armatures() []*Armature {
	out := make([]*Armature, 0, len(m.armatures))
	for _, a := range m.armatures {
		out = append(out, a)
	}
	return out
}

// Len returns the number of armatures.
func (m *Manager) Len() int {
	return len(m.armatures)
}

// guard runs fn for one armature, converting panics from host handles into errors and
// logging failures with the armature's identity.
func (m *Manager) guard(a *Armature, stage Stage, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rig: panic during %s of %s: %v", stage, a.actor, r)
			m.logger.Debug("rig: recovered panic", "stack", string(debug.Stack()))
		}
		if err != nil {
			inc(ArmatureFailures)
			m.logger.Error("rig: armature failed", "stage", stage,
				"armature", a.id, "actor", a.actor, "profile", a.Profile(), "error", err)
		}
	}()
	return fn()
}

// emit delivers ev to every subscriber, recovering subscriber panics.
func (m *Manager) emit(ev ArmatureEvent) {
	for _, fn := range m.notifier.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("rig: armature event subscriber panicked", "type", ev.Type, "panic", r)
				}
			}()
			fn(ev)
		}()
	}
}
