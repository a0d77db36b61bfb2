package rig

// Stage identifies the per-armature step a failure happened in.
type Stage int

const (
	// StageBind links the armature to a live skeleton during Refresh.
	StageBind Stage = iota

	// StageApply writes customized transforms during Apply.
	StageApply

	// StageMove offsets a moving object in OnGameObjectMove.
	StageMove
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageBind:
		return "bind"
	case StageApply:
		return "apply"
	case StageMove:
		return "move"
	default:
		return "unknown"
	}
}
