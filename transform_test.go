package rig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestBoneTransformDefaultIsNotEdited(t *testing.T) {
	bt := NewBoneTransform()
	assert.False(t, bt.IsEdited())
	assert.False(t, bt.ModifiesScale())

	var nilTransform *BoneTransform
	assert.False(t, nilTransform.IsEdited())
}

func TestModifyPoseTranslationAndScale(t *testing.T) {
	bt := NewBoneTransform()
	bt.Translation = mgl64.Vec3{0.5, 0, -1}
	bt.Scaling = mgl64.Vec3{2, 1, 0.5}

	pose := IdentityPose()
	pose.Translation = mgl64.Vec3{1, 2, 3}
	pose.Scale = mgl64.Vec3{1, 3, 4}

	got := bt.ModifyPose(pose)
	assert.True(t, got.Translation.ApproxEqual(mgl64.Vec3{1.5, 2, 2}), "translation %v", got.Translation)
	assert.True(t, got.Scale.ApproxEqual(mgl64.Vec3{2, 3, 2}), "scale %v", got.Scale)
	assert.True(t, got.Rotation.ApproxEqual(mgl64.QuatIdent()), "rotation untouched")
}

func TestModifyPoseRotation(t *testing.T) {
	bt := NewBoneTransform()
	bt.Rotation = mgl64.Vec3{0, 90, 0}

	got := bt.ModifyPose(IdentityPose())
	want := mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})
	assert.True(t, got.Rotation.ApproxEqualThreshold(want, 1e-9), "rotation %v, want %v", got.Rotation, want)
}

func TestModifyPoseUneditedIsIdentity(t *testing.T) {
	pose := Pose{
		Translation: mgl64.Vec3{1, 1, 1},
		Rotation:    mgl64.QuatRotate(1, mgl64.Vec3{1, 0, 0}),
		Scale:       mgl64.Vec3{2, 2, 2},
	}
	assert.Equal(t, pose, NewBoneTransform().ModifyPose(pose))
}

func TestAbsDivVec3(t *testing.T) {
	got := absDivVec3(mgl64.Vec3{2, -3, 1}, mgl64.Vec3{4, 1.5, 0})
	assert.True(t, got.ApproxEqual(mgl64.Vec3{0.5, 2, 1}), "got %v", got)
}

func TestRootOffset(t *testing.T) {
	tests := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"positive axis kept", mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0.5, 0.01, 0.01}},
		{"tiny axis pushed to epsilon", mgl64.Vec3{0, 0.001, 0}, mgl64.Vec3{0.01, 0.01, 0.01}},
		{"negative axis pushed to epsilon", mgl64.Vec3{0, 0, -2}, mgl64.Vec3{0.01, 0.01, 0.01}},
		{"all axes translated", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}},
		{"zero untouched", mgl64.Vec3{}, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rootOffset(tt.in, 0.01)
			assert.True(t, got.ApproxEqual(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
