package rig

import (
	"log/slog"
	"time"
)

const (
	// DefaultExpiration is how long an absent actor keeps its armature.
	DefaultExpiration = 30 * time.Second

	// DefaultVisibilityWindow is how recently an actor must have been seen to be visible.
	DefaultVisibilityWindow = time.Second

	// DefaultDebounceDelay is the quiet period before a debounced rebuild runs.
	DefaultDebounceDelay = 250 * time.Millisecond

	// DefaultRootBoneName is the name of the main root bone in the first partial skeleton.
	DefaultRootBoneName = "n_root"

	// DefaultMoveEpsilon is the minimum push of a translated root along each moved axis.
	DefaultMoveEpsilon = 0.01
)

// options configures a Manager.
type options struct {
	expiration    time.Duration
	visibility    time.Duration
	debounceDelay time.Duration
	rootBoneName  string
	moveEpsilon   float64
	now           func() time.Time
	logger        *slog.Logger
	scheduler     TaskScheduler
}

// defaultOptions returns sensible defaults.
func defaultOptions() options {
	return options{
		expiration:    DefaultExpiration,
		visibility:    DefaultVisibilityWindow,
		debounceDelay: DefaultDebounceDelay,
		rootBoneName:  DefaultRootBoneName,
		moveEpsilon:   DefaultMoveEpsilon,
		now:           time.Now,
	}
}

// Option configures a Manager.
type Option func(*options)

// WithExpiration sets how long an absent actor keeps its armature.
func WithExpiration(d time.Duration) Option {
	return func(o *options) {
		o.expiration = d
	}
}

// WithVisibilityWindow sets how recently an actor must have been seen to be visible.
func WithVisibilityWindow(d time.Duration) Option {
	return func(o *options) {
		o.visibility = d
	}
}

// WithDebounceDelay sets the quiet period of the built-in debouncer.
// It has no effect when WithScheduler is used.
func WithDebounceDelay(d time.Duration) Option {
	return func(o *options) {
		o.debounceDelay = d
	}
}

// WithRootBoneName sets the name of the main root bone.
func WithRootBoneName(name string) Option {
	return func(o *options) {
		o.rootBoneName = name
	}
}

// WithMoveEpsilon sets the minimum push of a translated root along each moved axis.
func WithMoveEpsilon(eps float64) Option {
	return func(o *options) {
		o.moveEpsilon = eps
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithScheduler replaces the built-in debouncer. If the scheduler also has a
// RunDue(time.Time) int method, OnRender pumps it before every Refresh.
func WithScheduler(s TaskScheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}
