// Package fake implements a simulated drivetrain that dead-reckons its pose from commanded velocities.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"go.viam.com/splinedrive/drivetrain"
	"go.viam.com/splinedrive/kinematics"
)

var _ drivetrain.Drivetrain = (*Drivetrain)(nil)

// Pose is a planar position and heading (radians, counter-clockwise from +X).
type Pose struct {
	Position r2.Point
	Heading  float64
}

// Drivetrain is an ideal differential drive: wheels reach commanded velocities instantly and never slip.
type Drivetrain struct {
	mu     sync.Mutex
	clk    clock.Clock
	drive  *kinematics.DifferentialDrive
	logger golog.Logger

	// WheelCircumference, when positive, is used to report wheel RPM in debug logs.
	WheelCircumference float64

	pose        Pose
	left, right float64
	lastUpdate  time.Time
	commands    int
	stops       int
	distance    float64
}

// NewDrivetrain returns a fake drivetrain starting at start and at rest.
func NewDrivetrain(clk clock.Clock, drive *kinematics.DifferentialDrive, start Pose, logger golog.Logger) *Drivetrain {
	if clk == nil {
		clk = clock.New()
	}
	return &Drivetrain{
		clk:        clk,
		drive:      drive,
		logger:     logger,
		pose:       start,
		lastUpdate: clk.Now(),
	}
}

// SetWheelVelocities integrates motion up to now, then switches to the new velocities.
func (d *Drivetrain) SetWheelVelocities(ctx context.Context, left, right float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.integrate()
	d.left, d.right = left, right
	d.commands++
	if d.WheelCircumference > 0 {
		d.logger.Debugw("wheel command",
			"left_rpm", kinematics.WheelRPM(left, d.WheelCircumference),
			"right_rpm", kinematics.WheelRPM(right, d.WheelCircumference))
	}
	return nil
}

// Stop integrates motion up to now and brings both sides to rest.
func (d *Drivetrain) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.integrate()
	d.left, d.right = 0, 0
	d.stops++
	return nil
}

// Pose returns the dead-reckoned pose as of now.
func (d *Drivetrain) Pose() Pose {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.integrate()
	return d.pose
}

// Velocities returns the most recently commanded left and right velocities.
func (d *Drivetrain) Velocities() (float64, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.left, d.right
}

// Distance returns the total distance the base center has travelled.
func (d *Drivetrain) Distance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.integrate()
	return d.distance
}

// Commands returns how many velocity commands were received.
func (d *Drivetrain) Commands() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands
}

// Stops returns how many times Stop was called.
func (d *Drivetrain) Stops() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stops
}

// integrate advances the pose along the arc implied by the current wheel velocities. d.mu must be held.
func (d *Drivetrain) integrate() {
	now := d.clk.Now()
	dt := now.Sub(d.lastUpdate).Seconds()
	d.lastUpdate = now
	if dt <= 0 {
		return
	}
	v, w := d.drive.BodyVelocities(d.left, d.right)
	theta := d.pose.Heading
	if math.Abs(w) < 1e-9 {
		d.pose.Position.X += v * math.Cos(theta) * dt
		d.pose.Position.Y += v * math.Sin(theta) * dt
	} else {
		radius := v / w
		d.pose.Position.X += radius * (math.Sin(theta+w*dt) - math.Sin(theta))
		d.pose.Position.Y -= radius * (math.Cos(theta+w*dt) - math.Cos(theta))
		d.pose.Heading = theta + w*dt
	}
	d.distance += math.Abs(v) * dt
}
