package inject

import (
	"context"

	"go.viam.com/splinedrive/drivetrain"
)

// Drivetrain is an injectable drivetrain.
type Drivetrain struct {
	drivetrain.Drivetrain
	SetWheelVelocitiesFunc func(ctx context.Context, left, right float64) error
	StopFunc               func(ctx context.Context) error
}

// SetWheelVelocities calls the injected SetWheelVelocities or the real version.
func (d *Drivetrain) SetWheelVelocities(ctx context.Context, left, right float64) error {
	if d.SetWheelVelocitiesFunc == nil {
		return d.Drivetrain.SetWheelVelocities(ctx, left, right)
	}
	return d.SetWheelVelocitiesFunc(ctx, left, right)
}

// Stop calls the injected Stop or the real version.
func (d *Drivetrain) Stop(ctx context.Context) error {
	if d.StopFunc == nil {
		return d.Drivetrain.Stop(ctx)
	}
	return d.StopFunc(ctx)
}
