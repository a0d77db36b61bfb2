// Package rig overlays customized bone transforms on top of a host's computed skeletal pose.
//
// The host owns the actors, their skeletons and the animation pipeline. rig keeps an
// Armature per live actor that binds the applicable Profile (an ordered set of Templates of
// per-bone transforms) to the actor's live skeleton, and writes the customized transforms
// back into the pose every rendered frame.
//
// # Quick Start
//
// Wire the host collaborators once:
//
//	mngr := rig.NewManager(actors, identity, profiles,
//	    rig.WithLogger(logger),
//	    rig.WithExpiration(30*time.Second),
//	)
//	unsubscribe := mngr.Subscribe(func(ev rig.ArmatureEvent) {
//	    logger.Debug("armature changed", "type", ev.Type, "actor", ev.Armature.Actor())
//	})
//	defer unsubscribe()
//
// Drive it from the host's frame and movement callbacks:
//
//	host.OnFrame(func() { mngr.OnRender() })
//	host.OnMove(func(obj rig.Object) { mngr.OnGameObjectMove(obj) })
//
// Forward configuration changes as events. Handlers only flag armatures; the work happens on
// the next frame:
//
//	mngr.OnEvent(rig.ProfileChanged{Type: rig.ProfileToggled, Profile: p})
//
// # Threading
//
// OnRender, OnGameObjectMove and OnEvent are expected on the host's game thread. Host
// handles (objects, skeletons, bones) are borrowed for a single call and never retained.
package rig

// Version is the rig version.
const Version = "1.0.0"
