// Package drivetrain defines the boundary between profile playback and whatever moves the base.
package drivetrain

import "context"

// A Drivetrain turns wheel velocity targets into actuator commands (voltages, PID setpoints, ...).
type Drivetrain interface {
	// SetWheelVelocities commands the left and right sides, in length units per second.
	SetWheelVelocities(ctx context.Context, left, right float64) error

	// Stop brings both sides to rest.
	Stop(ctx context.Context) error
}
