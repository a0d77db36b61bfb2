package rig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Apply writes the customized transforms of every built, visible armature of a live actor
// into each of the actor's live skeletons. Failures are isolated per armature.
func (m *Manager) Apply() error {
	var errs []error
	for id, a := range m.armatures {
		if !a.IsBuilt() || !a.visible || !m.actors.Contains(id) {
			continue
		}
		if err := m.guard(a, StageApply, func() error { return m.applyArmature(a) }); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// applyArmature applies one armature to every live object of its actor.
func (m *Manager) applyArmature(a *Armature) error {
	objs := m.actors.Objects(a.actor)
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		skel, err := obj.Skeleton()
		if err != nil {
			if errors.Is(err, ErrSkeletonUnavailable) {
				continue
			}
			return fmt.Errorf("reading skeleton of %s: %w", a.actor, err)
		}
		if skel == nil {
			continue
		}

		applySkeleton(a.binding, skel)
		applyRootScale(a.binding, obj)
	}

	if a.actor.IsOwnedMount() {
		m.correctRiderScale(a, objs)
	}
	return nil
}

// applySkeleton writes every bound transform except the main root into the bone poses.
func applySkeleton(b *SkeletonBinding, skel Skeleton) {
	for pi, partial := range skel.PartialSkeletons() {
		if partial == nil {
			continue
		}
		for bi, bone := range partial.Bones() {
			if bone == nil {
				continue
			}
			key := BoneKey{Partial: pi, Bone: bi}
			if b.IsRoot(key) {
				continue
			}
			bt, ok := b.Transform(key)
			if !ok || !bt.IsEdited() {
				continue
			}
			// The segment was swapped since the last bind; wait for the next augment.
			if b.names[key] != bone.Name() {
				continue
			}
			bone.SetPose(bt.ModifyPose(bone.Pose()))
		}
	}
}

// applyRootScale applies the main root's scaling as whole-object scale.
func applyRootScale(b *SkeletonBinding, obj Object) {
	root, ok := b.Root()
	if !ok || !root.ModifiesScale() || !obj.HasScalableRoot() {
		return
	}
	if draw := obj.DrawObject(); draw != nil {
		draw.SetScale(root.Scaling)
	}
}

// correctRiderScale keeps a scaled mount from scaling its rider a second time. When both
// the mount's and the owner's roots modify scale and the owner's child model is the mount,
// the child is scaled to |owner / mount|.
func (m *Manager) correctRiderScale(mount *Armature, mountObjs []Object) {
	mountRoot, ok := mount.binding.Root()
	if !ok || !mountRoot.ModifiesScale() {
		return
	}
	ownerID, ok := m.identity.Owner(mount.actor)
	if !ok {
		return
	}
	owner, ok := m.armatures[ownerID]
	if !ok || !owner.IsBuilt() {
		return
	}
	ownerRoot, ok := owner.binding.Root()
	if !ok || !ownerRoot.ModifiesScale() {
		return
	}

	corrected := absDivVec3(ownerRoot.Scaling, mountRoot.Scaling)
	for _, ownerObj := range m.actors.Objects(ownerID) {
		if ownerObj == nil {
			continue
		}
		child := ownerObj.ChildDrawObject()
		if child == nil || !isModelOf(child, mountObjs) {
			continue
		}
		child.SetScale(corrected)
	}
}

// isModelOf reports whether draw is the model of one of objs.
func isModelOf(draw DrawObject, objs []Object) bool {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		if model := obj.DrawObject(); model != nil && model.ID() == draw.ID() {
			return true
		}
	}
	return false
}

// OnGameObjectMove offsets a moving object by its root bone's customized translation.
// It is called from the host's movement hook, not every frame.
func (m *Manager) OnGameObjectMove(obj Object) {
	if obj == nil {
		return
	}
	id, ok := m.identity.Identify(obj)
	if !ok {
		return
	}
	a, ok := m.armatures[id]
	if !ok || !a.IsBuilt() || !a.visible || !m.actors.Contains(id) {
		return
	}

	_ = m.guard(a, StageMove, func() error {
		root, ok := a.binding.Root()
		if !ok || !root.ModifiesTranslation() {
			return nil
		}
		draw := obj.DrawObject()
		if draw == nil || !draw.Visible() {
			return nil
		}
		draw.SetPosition(draw.Position().Add(rootOffset(root.Translation, m.opts.moveEpsilon)))
		return nil
	})
}

// rootOffset pushes every axis by at least eps in the positive direction once the root is
// translated at all. An untranslated root yields no offset.
func rootOffset(t mgl64.Vec3, eps float64) mgl64.Vec3 {
	if t == (mgl64.Vec3{}) {
		return mgl64.Vec3{}
	}
	var out mgl64.Vec3
	for i := range out {
		out[i] = max(eps, t[i])
	}
	return out
}
