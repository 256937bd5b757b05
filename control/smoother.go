// Package control shapes planned wheel velocities into commands a drivetrain can follow.
package control

import (
	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

// SmoothVelocities bounds the change between consecutive velocities to maxAcceleration*timeStep
// and pins the first and last velocity to zero. The input is left untouched.
//
// A forward pass ramps up from rest toward the raw targets. A backward pass over the forward
// result ramps down to rest at the end. Each output is whichever of the two passes is smaller
// in magnitude; since the backward pass never leaves the interval between 0 and the forward
// value, the merged sequence keeps the step bound even where velocities change sign.
func SmoothVelocities(raw []trajectory.TimedVelocity, maxAcceleration, timeStep float64) ([]trajectory.TimedVelocity, error) {
	if !utils.PositiveFinite(maxAcceleration) {
		return nil, utils.NewNonPositiveError("max_acceleration", maxAcceleration)
	}
	if !utils.PositiveFinite(timeStep) {
		return nil, utils.NewNonPositiveError("time_step", timeStep)
	}
	n := len(raw)
	out := make([]trajectory.TimedVelocity, n)
	if n == 0 {
		return out, nil
	}
	maxStep := maxAcceleration * timeStep

	forward := make([]float64, n)
	for i := 1; i < n; i++ {
		forward[i] = utils.Clamp(raw[i].Velocity, forward[i-1]-maxStep, forward[i-1]+maxStep)
	}

	backward := make([]float64, n)
	for i := n - 2; i >= 0; i-- {
		backward[i] = utils.Clamp(forward[i], backward[i+1]-maxStep, backward[i+1]+maxStep)
	}

	for i := range raw {
		out[i] = trajectory.TimedVelocity{Time: raw[i].Time, Velocity: utils.SmallerMagnitude(forward[i], backward[i])}
	}
	return out, nil
}

// SmoothProfile smooths the left and right sequences independently.
func SmoothProfile(left, right []trajectory.TimedVelocity, maxAcceleration, timeStep float64) (*trajectory.Profile, error) {
	smoothLeft, err := SmoothVelocities(left, maxAcceleration, timeStep)
	if err != nil {
		return nil, err
	}
	smoothRight, err := SmoothVelocities(right, maxAcceleration, timeStep)
	if err != nil {
		return nil, err
	}
	return &trajectory.Profile{TimeStep: timeStep, Left: smoothLeft, Right: smoothRight}, nil
}
