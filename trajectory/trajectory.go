// Package trajectory holds the time-indexed data produced while planning a run and
// discretizes a spline into fixed time steps.
package trajectory

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

// Sample is the state of the vehicle at one time step of a planned trajectory.
type Sample struct {
	Time            float64 // seconds from the start of the run
	Position        r2.Point
	Heading         float64 // radians
	Distance        float64 // arc length travelled
	LinearVelocity  float64
	AngularVelocity float64 // radians per second, positive turns left
	Curvature       float64
}

// TimedVelocity is a single wheel velocity target and the time it applies from.
type TimedVelocity struct {
	Time     float64
	Velocity float64
}

// Profile is the left and right wheel velocity schedule for one run.
// It is read-only once returned from planning and may be shared without locking.
type Profile struct {
	TimeStep float64
	Left     []TimedVelocity
	Right    []TimedVelocity
}

// Len returns the number of samples per side.
func (p *Profile) Len() int {
	return len(p.Left)
}

// At returns the left and right velocities to command at sample i.
func (p *Profile) At(i int) (float64, float64) {
	return p.Left[i].Velocity, p.Right[i].Velocity
}

// TimeAt returns the timestamp of sample i.
func (p *Profile) TimeAt(i int) float64 {
	return p.Left[i].Time
}

// Duration returns the timestamp of the final sample.
func (p *Profile) Duration() float64 {
	if len(p.Left) == 0 {
		return 0
	}
	return p.Left[len(p.Left)-1].Time
}

// PeakVelocity returns the largest wheel speed magnitude on either side.
func (p *Profile) PeakVelocity() float64 {
	peak := 0.
	for i := range p.Left {
		peak = math.Max(peak, math.Max(math.Abs(p.Left[i].Velocity), math.Abs(p.Right[i].Velocity)))
	}
	return peak
}

// Velocities returns just the velocity column of a timed sequence.
func Velocities(seq []TimedVelocity) []float64 {
	return lo.Map(seq, func(tv TimedVelocity, _ int) float64 { return tv.Velocity })
}
