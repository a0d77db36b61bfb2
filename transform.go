package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a bone's local transform as exposed by the host.
type Pose struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// IdentityPose returns a pose with no translation, no rotation and unit scale.
func IdentityPose() Pose {
	return Pose{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// BoneTransform is a customized offset applied on top of a bone's pose.
// Rotation is in Euler degrees.
type BoneTransform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
	Scaling     mgl64.Vec3
}

// NewBoneTransform returns a transform that leaves a pose untouched.
func NewBoneTransform() *BoneTransform {
	return &BoneTransform{Scaling: mgl64.Vec3{1, 1, 1}}
}

// IsEdited reports whether applying the transform changes anything.
func (t *BoneTransform) IsEdited() bool {
	if t == nil {
		return false
	}
	return t.ModifiesTranslation() || t.ModifiesRotation() || t.ModifiesScale()
}

// ModifiesTranslation reports whether the translation differs from zero.
func (t *BoneTransform) ModifiesTranslation() bool {
	return t != nil && !t.Translation.ApproxEqual(mgl64.Vec3{})
}

// ModifiesRotation reports whether the rotation differs from zero.
func (t *BoneTransform) ModifiesRotation() bool {
	return t != nil && !t.Rotation.ApproxEqual(mgl64.Vec3{})
}

// ModifiesScale reports whether the scaling differs from one.
func (t *BoneTransform) ModifiesScale() bool {
	return t != nil && !t.Scaling.ApproxEqual(mgl64.Vec3{1, 1, 1})
}

// Quat returns the rotation as a quaternion.
func (t *BoneTransform) Quat() mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(t.Rotation.X()),
		mgl64.DegToRad(t.Rotation.Y()),
		mgl64.DegToRad(t.Rotation.Z()),
		mgl64.XYZ,
	)
}

// ModifyPose returns the pose with the transform layered on top.
func (t *BoneTransform) ModifyPose(p Pose) Pose {
	if !t.IsEdited() {
		return p
	}
	out := p
	out.Translation = p.Translation.Add(t.Translation)
	if t.ModifiesRotation() {
		out.Rotation = p.Rotation.Mul(t.Quat()).Normalize()
	}
	out.Scale = mulVec3(p.Scale, t.Scaling)
	return out
}

// Clone returns a copy of the transform.
func (t *BoneTransform) Clone() *BoneTransform {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// mulVec3 multiplies two vectors componentwise.
func mulVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// absDivVec3 returns |a / b| componentwise. Zero divisors leave the component at one.
func absDivVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range out {
		if b[i] == 0 {
			out[i] = 1
			continue
		}
		out[i] = math.Abs(a[i] / b[i])
	}
	return out
}
