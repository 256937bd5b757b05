// Package kinematics converts between body motion and wheel motion for differential drive bases.
package kinematics

import (
	"math"

	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

// DifferentialDrive models a base with one independently driven side on the left and one on the right.
type DifferentialDrive struct {
	trackWidth float64
}

// NewDifferentialDrive returns a model for a base whose wheel contact lines are trackWidth apart.
func NewDifferentialDrive(trackWidth float64) (*DifferentialDrive, error) {
	if !utils.PositiveFinite(trackWidth) {
		return nil, utils.NewNonPositiveError("track_width", trackWidth)
	}
	return &DifferentialDrive{trackWidth: trackWidth}, nil
}

// TrackWidth returns the distance between the left and right wheel contact lines.
func (dd *DifferentialDrive) TrackWidth() float64 {
	return dd.trackWidth
}

// WheelVelocities returns the left and right wheel speeds that produce the given linear and
// angular velocity. A positive (left) turn slows the left wheel and speeds up the right one.
func (dd *DifferentialDrive) WheelVelocities(linear, angular float64) (float64, float64) {
	offset := angular * dd.trackWidth / 2
	return linear - offset, linear + offset
}

// BodyVelocities is the inverse of WheelVelocities.
func (dd *DifferentialDrive) BodyVelocities(left, right float64) (float64, float64) {
	return (left + right) / 2, (right - left) / dd.trackWidth
}

// Convert maps every sample to wheel velocities, producing parallel left and right sequences.
func (dd *DifferentialDrive) Convert(samples []trajectory.Sample) ([]trajectory.TimedVelocity, []trajectory.TimedVelocity) {
	left := make([]trajectory.TimedVelocity, len(samples))
	right := make([]trajectory.TimedVelocity, len(samples))
	for i, s := range samples {
		l, r := dd.WheelVelocities(s.LinearVelocity, s.AngularVelocity)
		left[i] = trajectory.TimedVelocity{Time: s.Time, Velocity: l}
		right[i] = trajectory.TimedVelocity{Time: s.Time, Velocity: r}
	}
	return left, right
}

// WheelRPM converts a linear wheel velocity into revolutions per minute.
// wheelCircumference is in the same length unit as velocity.
func WheelRPM(velocity, wheelCircumference float64) float64 {
	// RPM = (length/sec) / (length/rev) * (60 sec / 1 min)
	return velocity / wheelCircumference * 60
}

// TurningRadius returns the radius of the arc the base follows for the given wheel speeds,
// +Inf when driving straight.
func (dd *DifferentialDrive) TurningRadius(left, right float64) float64 {
	linear, angular := dd.BodyVelocities(left, right)
	if angular == 0 {
		return math.Inf(1)
	}
	return linear / angular
}
