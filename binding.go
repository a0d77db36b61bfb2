package rig

// BoneLookup resolves customized transforms by bone name.
type BoneLookup interface {
	BoneTransform(name string) (*BoneTransform, bool)
}

// BoneKey addresses a bone by partial skeleton index and bone index within it.
type BoneKey struct {
	Partial int
	Bone    int
}

// SkeletonBinding maps live skeleton bones to the customized transforms that apply to them.
// Bones without a customization have no entry and keep the host's pose.
type SkeletonBinding struct {
	names   map[BoneKey]string
	matches map[BoneKey]*BoneTransform

	rootName string
	rootKey  BoneKey
	hasRoot  bool

	// boneCount is the number of bones seen at the last Build or Augment.
	boneCount int
	built     bool
}

// NewSkeletonBinding creates an empty binding treating rootName as the main root bone.
func NewSkeletonBinding(rootName string) *SkeletonBinding {
	return &SkeletonBinding{rootName: rootName}
}

// Build discards the binding and rebuilds it from the skeleton.
// Returns false and leaves the binding untouched if the skeleton is absent or has no bones.
func (b *SkeletonBinding) Build(skel Skeleton, lookup BoneLookup) bool {
	count := countBones(skel)
	if count == 0 {
		return false
	}

	b.names = make(map[BoneKey]string, count)
	b.matches = make(map[BoneKey]*BoneTransform)
	b.hasRoot = false
	b.visit(skel, lookup, func(BoneKey, string) bool { return true })
	b.boneCount = count
	b.built = true
	return true
}

// Augment adds matches for bones that appeared since the last Build or Augment without
// discarding existing ones. Returns true if the binding changed.
func (b *SkeletonBinding) Augment(skel Skeleton, lookup BoneLookup) bool {
	if !b.built {
		return b.Build(skel, lookup)
	}

	count := countBones(skel)
	if count == 0 || count == b.boneCount {
		return false
	}

	changed := false
	b.visit(skel, lookup, func(key BoneKey, name string) bool {
		known, ok := b.names[key]
		if ok && known == name {
			return false
		}
		changed = true
		return true
	})
	b.boneCount = count
	return changed
}

// NeedsAugment reports whether the skeleton's bone count differs from the recorded one.
func (b *SkeletonBinding) NeedsAugment(skel Skeleton) bool {
	count := countBones(skel)
	return count != 0 && count != b.boneCount
}

// Rebind re-resolves every known bone against lookup without touching the live skeleton.
// Returns the number of matched bones.
func (b *SkeletonBinding) Rebind(lookup BoneLookup) int {
	if b.names == nil {
		return 0
	}
	b.matches = make(map[BoneKey]*BoneTransform, len(b.matches))
	for key, name := range b.names {
		if bt, ok := lookup.BoneTransform(name); ok {
			b.matches[key] = bt
		}
	}
	return len(b.matches)
}

// visit walks every bone and records those accepted by include.
func (b *SkeletonBinding) visit(skel Skeleton, lookup BoneLookup, include func(BoneKey, string) bool) {
	for pi, partial := range skel.PartialSkeletons() {
		if partial == nil {
			continue
		}
		for bi, bone := range partial.Bones() {
			if bone == nil {
				continue
			}
			key := BoneKey{Partial: pi, Bone: bi}
			name := bone.Name()
			if !include(key, name) {
				continue
			}

			b.names[key] = name
			switch {
			case pi == 0 && name == b.rootName:
				b.rootKey, b.hasRoot = key, true
			case b.hasRoot && key == b.rootKey:
				// The root slot now holds another bone.
				b.hasRoot = false
			}

			delete(b.matches, key)
			if lookup == nil {
				continue
			}
			if bt, ok := lookup.BoneTransform(name); ok {
				b.matches[key] = bt
			}
		}
	}
}

// IsBuilt reports whether the binding has been built at least once.
func (b *SkeletonBinding) IsBuilt() bool {
	return b.built
}

// Transform returns the customized transform bound to a bone.
func (b *SkeletonBinding) Transform(key BoneKey) (*BoneTransform, bool) {
	bt, ok := b.matches[key]
	return bt, ok
}

// Root returns the customized transform of the main root bone, if it is bound.
func (b *SkeletonBinding) Root() (*BoneTransform, bool) {
	if !b.rootBound() {
		return nil, false
	}
	return b.Transform(b.rootKey)
}

// IsRoot reports whether key addresses the main root bone.
func (b *SkeletonBinding) IsRoot(key BoneKey) bool {
	return key == b.rootKey && b.rootBound()
}

// rootBound reports whether the recorded root slot still holds the main root bone.
func (b *SkeletonBinding) rootBound() bool {
	return b.hasRoot && b.names[b.rootKey] == b.rootName
}

// Len returns the number of matched bones.
func (b *SkeletonBinding) Len() int {
	return len(b.matches)
}

// BoneCount returns the bone count recorded at the last Build or Augment.
func (b *SkeletonBinding) BoneCount() int {
	return b.boneCount
}

// countBones returns the total number of bones in the skeleton, or zero if it is absent.
func countBones(skel Skeleton) int {
	if skel == nil {
		return 0
	}
	n := 0
	for _, partial := range skel.PartialSkeletons() {
		if partial == nil {
			continue
		}
		n += len(partial.Bones())
	}
	return n
}
