package rig

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBone struct {
	name string
	pose Pose
}

func (b *fakeBone) Name() string   { return b.name }
func (b *fakeBone) Pose() Pose     { return b.pose }
func (b *fakeBone) SetPose(p Pose) { b.pose = p }

type fakePartial struct {
	bones []Bone
}

func (p *fakePartial) Bones() []Bone { return p.bones }

type fakeSkeleton struct {
	partials []PartialSkeleton
}

// newSkeleton builds a skeleton with one partial per name list.
func newSkeleton(partials ...[]string) *fakeSkeleton {
	s := &fakeSkeleton{}
	for _, names := range partials {
		s.partials = append(s.partials, &fakePartial{})
		s.addBones(len(s.partials)-1, names...)
	}
	return s
}

func (s *fakeSkeleton) PartialSkeletons() []PartialSkeleton { return s.partials }

func (s *fakeSkeleton) addBones(partial int, names ...string) {
	for len(s.partials) <= partial {
		s.partials = append(s.partials, &fakePartial{})
	}
	p := s.partials[partial].(*fakePartial)
	for _, name := range names {
		p.bones = append(p.bones, &fakeBone{name: name, pose: IdentityPose()})
	}
}

func (s *fakeSkeleton) bone(partial, index int) *fakeBone {
	return s.partials[partial].(*fakePartial).bones[index].(*fakeBone)
}

type fakeDraw struct {
	id      uintptr
	visible bool
	scale   mgl64.Vec3
	pos     mgl64.Vec3
}

func newDraw(id uintptr) *fakeDraw {
	return &fakeDraw{id: id, visible: true, scale: mgl64.Vec3{1, 1, 1}}
}

func (d *fakeDraw) ID() uintptr              { return d.id }
func (d *fakeDraw) Visible() bool            { return d.visible }
func (d *fakeDraw) Scale() mgl64.Vec3        { return d.scale }
func (d *fakeDraw) SetScale(s mgl64.Vec3)    { d.scale = s }
func (d *fakeDraw) Position() mgl64.Vec3     { return d.pos }
func (d *fakeDraw) SetPosition(p mgl64.Vec3) { d.pos = p }

type fakeObject struct {
	draw     *fakeDraw
	child    *fakeDraw
	skel     *fakeSkeleton
	skelErr  error
	panics   bool
	scalable bool
}

func (o *fakeObject) DrawObject() DrawObject {
	if o.draw == nil {
		return nil
	}
	return o.draw
}

func (o *fakeObject) ChildDrawObject() DrawObject {
	if o.child == nil {
		return nil
	}
	return o.child
}

func (o *fakeObject) Skeleton() (Skeleton, error) {
	if o.panics {
		panic("corrupt skeleton")
	}
	if o.skelErr != nil {
		return nil, o.skelErr
	}
	if o.skel == nil {
		return nil, nil
	}
	return o.skel, nil
}

func (o *fakeObject) HasScalableRoot() bool { return o.scalable }

type fakeTable struct {
	order   []ActorIdentifier
	objects map[ActorIdentifier][]Object
	local   ActorIdentifier
	updates int
}

func newFakeTable() *fakeTable {
	return &fakeTable{objects: make(map[ActorIdentifier][]Object)}
}

func (t *fakeTable) Update() { t.updates++ }

func (t *fakeTable) Identifiers() []ActorIdentifier {
	return append([]ActorIdentifier(nil), t.order...)
}

func (t *fakeTable) Contains(id ActorIdentifier) bool {
	_, ok := t.objects[id]
	return ok
}

func (t *fakeTable) Objects(id ActorIdentifier) []Object { return t.objects[id] }

func (t *fakeTable) LocalPlayer() ActorIdentifier { return t.local }

func (t *fakeTable) add(id ActorIdentifier, objs ...*fakeObject) {
	if _, ok := t.objects[id]; !ok {
		t.order = append(t.order, id)
	}
	list := make([]Object, 0, len(objs))
	for _, o := range objs {
		list = append(list, o)
	}
	t.objects[id] = list
}

func (t *fakeTable) remove(id ActorIdentifier) {
	delete(t.objects, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

type fakeIdentity struct {
	ids    map[Object]ActorIdentifier
	owners map[ActorIdentifier]ActorIdentifier
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		ids:    make(map[Object]ActorIdentifier),
		owners: make(map[ActorIdentifier]ActorIdentifier),
	}
}

func (f *fakeIdentity) Identify(obj Object) (ActorIdentifier, bool) {
	id, ok := f.ids[obj]
	return id, ok
}

func (f *fakeIdentity) Owner(id ActorIdentifier) (ActorIdentifier, bool) {
	owner, ok := f.owners[id]
	return owner, ok
}

type fakeStore struct {
	profiles []*Profile
	def      *Profile
	panics   bool
}

func (s *fakeStore) EnabledProfilesByActor(id ActorIdentifier) []*Profile {
	var out []*Profile
	for _, p := range s.profiles {
		if !p.Enabled {
			continue
		}
		if p.Temporary && p.TemporaryActor == id {
			out = append(out, p)
			continue
		}
		if id.MatchesName(p.CharacterName) {
			out = append(out, p)
		}
	}
	return out
}

func (s *fakeStore) Profiles() []*Profile {
	if s.panics {
		panic("profile store unavailable")
	}
	return s.profiles
}

// immediateScheduler runs every action as soon as it is scheduled.
type immediateScheduler struct{}

func (immediateScheduler) ScheduleOnce(_ any, action func()) { action() }

func (s *fakeStore) DefaultProfile() *Profile { return s.def }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	mngr     *Manager
	table    *fakeTable
	identity *fakeIdentity
	store    *fakeStore
	clock    *fakeClock
	events   []ArmatureEvent
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		table:    newFakeTable(),
		identity: newFakeIdentity(),
		store:    &fakeStore{},
		clock:    &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts = append([]Option{WithClock(h.clock.now), WithLogger(discardLogger())}, opts...)
	h.mngr = NewManager(h.table, h.identity, h.store, opts...)
	unsubscribe := h.mngr.Subscribe(func(ev ArmatureEvent) {
		h.events = append(h.events, ev)
	})
	t.Cleanup(unsubscribe)
	return h
}

func player(name string) ActorIdentifier {
	return ActorIdentifier{Kind: KindPlayer, Name: name, World: 1}
}

func mountOf(name string) ActorIdentifier {
	return ActorIdentifier{Kind: KindOwned, Object: ObjectMount, Name: name, World: 1, DataID: 71}
}

// bodyObject returns a scalable, visible object with an n_root/j_kosi/j_sebo_a body skeleton.
func bodyObject(id uintptr) *fakeObject {
	return &fakeObject{
		draw:     newDraw(id),
		skel:     newSkeleton([]string{"n_root", "j_kosi", "j_sebo_a"}),
		scalable: true,
	}
}

func scaled(x, y, z float64) *BoneTransform {
	bt := NewBoneTransform()
	bt.Scaling = mgl64.Vec3{x, y, z}
	return bt
}

func translated(x, y, z float64) *BoneTransform {
	bt := NewBoneTransform()
	bt.Translation = mgl64.Vec3{x, y, z}
	return bt
}

func (h *harness) addProfile(p *Profile) *Profile {
	h.store.profiles = append(h.store.profiles, p)
	return p
}

func (h *harness) refresh(t *testing.T) {
	t.Helper()
	if err := h.mngr.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
}

func (h *harness) eventsOf(typ ArmatureEventType) []ArmatureEvent {
	var out []ArmatureEvent
	for _, ev := range h.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
