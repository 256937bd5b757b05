// Package playback steps a planned wheel velocity profile forward in real time and feeds it to a drivetrain.
package playback

import (
	"time"

	"github.com/benbjohnson/clock"
)

// TimerState is whether a Timer is measuring.
type TimerState int

// The states a Timer moves between.
const (
	Idle TimerState = iota
	Running
)

func (s TimerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Timer measures the wall time between successive control loop ticks.
// It is owned by a single control loop and is not safe for concurrent use.
type Timer struct {
	clk   clock.Clock
	state TimerState
	last  time.Time
}

// NewTimer returns an idle timer reading from clk, or the system clock if clk is nil.
func NewTimer(clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.New()
	}
	return &Timer{clk: clk}
}

// Start begins measuring from now. Starting a running timer restarts it.
func (t *Timer) Start() {
	t.last = t.clk.Now()
	t.state = Running
}

// Stop returns the timer to Idle.
func (t *Timer) Stop() {
	t.state = Idle
}

// State returns the current state.
func (t *Timer) State() TimerState {
	return t.state
}

// ElapsedSinceLastTick returns the seconds since Start or the previous call, and resets the
// reference point to now. An idle timer always reports 0.
func (t *Timer) ElapsedSinceLastTick() float64 {
	if t.state != Running {
		return 0
	}
	now := t.clk.Now()
	elapsed := now.Sub(t.last).Seconds()
	t.last = now
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
