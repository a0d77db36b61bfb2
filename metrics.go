package rig

import "expvar"

// Armature counters, exported on /debug/vars when the host serves expvar.
var (
	ArmaturesCreated  = expvar.NewInt("rig_armatures_created_total")
	ArmaturesDeleted  = expvar.NewInt("rig_armatures_deleted_total")
	ArmaturesRebound  = expvar.NewInt("rig_armatures_rebound_total")
	BindingRebuilds   = expvar.NewInt("rig_rebuilds_total")
	ArmatureFailures  = expvar.NewInt("rig_armature_failures_total")
	PendingRebindMark = expvar.NewInt("rig_pending_rebind_marks_total")
)

// inc increments the given counter by 1.
func inc(counter *expvar.Int) { counter.Add(1) }
