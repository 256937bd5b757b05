package playback

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

// Command is one sample of a profile, ready to send to a drivetrain.
type Command struct {
	Index int
	Time  float64
	Left  float64
	Right float64
}

// Run tracks playback progress through one profile. Each Tick issues at most one sample,
// so samples are never skipped even when the loop falls behind; overrun carries into the
// accumulator instead.
type Run struct {
	profile     *trajectory.Profile
	accumulator float64
	index       int
	finished    bool
}

// NewRun returns a run positioned at the first sample of profile.
func NewRun(profile *trajectory.Profile) (*Run, error) {
	if profile == nil || profile.Len() == 0 {
		return nil, errors.New("cannot play back an empty profile")
	}
	if len(profile.Right) != len(profile.Left) {
		return nil, errors.Errorf("left and right profiles differ in length (%d != %d)", len(profile.Left), len(profile.Right))
	}
	if !utils.PositiveFinite(profile.TimeStep) {
		return nil, utils.NewNonPositiveError("time_step", profile.TimeStep)
	}
	return &Run{profile: profile}, nil
}

// Tick adds dt seconds to the accumulator. Once a full time step has built up it returns the
// current sample and advances by exactly one. After the last sample the run is finished and
// further ticks do nothing.
func (r *Run) Tick(dt float64) (Command, bool) {
	if r.finished {
		return Command{}, false
	}
	if dt > 0 && !math.IsInf(dt, 1) {
		r.accumulator += dt
	}
	if r.accumulator < r.profile.TimeStep {
		return Command{}, false
	}
	left, right := r.profile.At(r.index)
	cmd := Command{
		Index: r.index,
		Time:  r.profile.TimeAt(r.index),
		Left:  left,
		Right: right,
	}
	r.accumulator -= r.profile.TimeStep
	r.index++
	if r.index == r.profile.Len() {
		r.finished = true
	}
	return cmd, true
}

// Index returns the next sample to be issued.
func (r *Run) Index() int {
	return r.index
}

// Len returns the number of samples in the profile.
func (r *Run) Len() int {
	return r.profile.Len()
}

// Finished reports whether the run is over, either by completion or Abort.
func (r *Run) Finished() bool {
	return r.finished
}

// Accumulator returns the time built up toward the next sample.
func (r *Run) Accumulator() float64 {
	return r.accumulator
}

// Abort ends the run without issuing any more samples.
func (r *Run) Abort() {
	r.finished = true
}
